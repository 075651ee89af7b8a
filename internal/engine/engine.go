package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fatih/semgroup"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/redactyl/ddscan/internal/cache"
	"github.com/redactyl/ddscan/internal/detectors"
	"github.com/redactyl/ddscan/internal/linker"
	"github.com/redactyl/ddscan/internal/logging"
	"github.com/redactyl/ddscan/internal/types"
)

// DefaultThreads caps the worker pool when Config.Threads is unset.
const DefaultThreads = 8

// DefaultMaxBytes skips files larger than 1 MiB when Config.MaxBytes is unset.
const DefaultMaxBytes int64 = 1 << 20

// cacheVersion is folded into the cache signature; bump it when detector
// output changes shape.
const cacheVersion = "1"

// Config controls scanning behavior including scope, performance, and output
// shaping.
type Config struct {
	Roots          []string
	Extensions     []string // empty selects every registered extension
	IgnorePatterns []string
	Threads        int
	MaxBytes       int64
	ContextLines   int
	Detailed       bool
	Scopes         []string
	DryRun         bool
	NoCache        bool

	Linker *linker.Linker
	Logger hclog.Logger

	// Progress is called once per finished file, from worker goroutines.
	Progress func()
	// OnProject is called before a project's files are dispatched.
	OnProject func(p types.ProjectInfo, files int)

	// registry replaces the default detectors when set.
	registry *detectors.Registry
}

// DefaultConfig returns a Config with the CLI defaults for roots.
func DefaultConfig(roots ...string) Config {
	return Config{
		Roots:        roots,
		Threads:      DefaultThreads,
		MaxBytes:     DefaultMaxBytes,
		ContextLines: detectors.DefaultContextLines,
		Scopes:       append([]string(nil), detectors.DefaultScopes...),
	}
}

func (cfg Config) withDefaults() Config {
	if cfg.Threads <= 0 {
		cfg.Threads = DefaultThreads
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.ContextLines < 0 {
		cfg.ContextLines = 0
	}
	cfg.Logger = logging.OrDiscard(cfg.Logger)
	if cfg.Linker == nil {
		cfg.Linker = linker.New("", "", cfg.Logger)
	}
	return cfg
}

func (cfg Config) detectorOptions() detectors.Options {
	return detectors.Options{ContextLines: cfg.ContextLines, Detailed: cfg.Detailed, Scopes: cfg.Scopes}
}

func defaultRegistry(cfg Config) *detectors.Registry {
	if cfg.registry != nil {
		return cfg.registry
	}
	return detectors.DefaultRegistry(cfg.detectorOptions())
}

func (cfg Config) cacheSignature() string {
	return cache.Signature(cacheVersion, fmt.Sprint(cfg.ContextLines), fmt.Sprint(cfg.Detailed), strings.Join(cfg.Scopes, ","))
}

// ErrNoExtensions is returned when none of the requested extensions has a
// registered detector.
var ErrNoExtensions = errors.New("no supported file extensions selected")

// Scan runs a scan to completion.
func Scan(cfg Config) (types.ScanResults, error) {
	return ScanContext(context.Background(), cfg)
}

// ScanContext runs a scan. Cancelling ctx stops dispatching files that have
// not started; finished work is still returned along with ctx.Err().
func ScanContext(ctx context.Context, cfg Config) (types.ScanResults, error) {
	cfg = cfg.withDefaults()
	log := cfg.Logger.Named("engine")
	res := types.ScanResults{ScanID: uuid.NewString()}

	if len(cfg.Roots) == 0 {
		return res, errors.New("no scan roots")
	}
	reg := defaultRegistry(cfg)
	exts := selectExtensions(cfg.Extensions, reg)
	if len(exts) == 0 {
		return res, ErrNoExtensions
	}

	started := time.Now()
	res.Projects = DiscoverProjects(cfg.Roots, cfg.Linker, log)
	for i := range res.Projects {
		if ctx.Err() != nil {
			break
		}
		p := &res.Projects[i]
		ps := scanProject(ctx, cfg, reg, exts, *p, log.With("project", p.Name))
		p.FindingsCount = len(ps.findings)
		res.Findings = append(res.Findings, ps.findings...)
		res.FilesScanned += ps.scanned
		res.FilesFailed += ps.failed
		log.Info("project scanned", "project", p.Name, "type", p.Type,
			"files", ps.scanned, "failed", ps.failed, "findings", p.FindingsCount)
	}
	res.Duration = time.Since(started)
	return res, ctx.Err()
}

// selectExtensions intersects the requested extensions with the registry's.
func selectExtensions(requested []string, reg *detectors.Registry) map[string]bool {
	supported := map[string]bool{}
	for _, e := range reg.SupportedExtensions() {
		supported[e] = true
	}
	if len(requested) == 0 {
		return supported
	}
	out := map[string]bool{}
	for _, e := range requested {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if supported[e] {
			out[e] = true
		}
	}
	return out
}

// poolSize is min(threads, n), at least 1.
func poolSize(threads, n int) int {
	if threads <= 0 {
		threads = DefaultThreads
	}
	return max(1, min(threads, n))
}

type projectScan struct {
	findings []types.Finding
	scanned  int
	failed   int
}

type fileResult struct {
	rel      string
	hash     string
	findings []types.Finding
	cached   bool
	err      error
}

func scanProject(ctx context.Context, cfg Config, reg *detectors.Registry, exts map[string]bool, p types.ProjectInfo, log hclog.Logger) projectScan {
	sel, err := newSelector(cfg, exts, p)
	if err != nil {
		log.Warn("ignore file unreadable", "error", err)
	}
	files, err := collectFiles(ctx, p.Path, sel)
	if err != nil {
		log.Warn("walk failed", "error", err)
	}
	if cfg.OnProject != nil {
		cfg.OnProject(p, len(files))
	}
	if cfg.DryRun {
		for _, rel := range files {
			log.Debug("would scan", "path", rel)
		}
		return projectScan{scanned: len(files)}
	}
	if len(files) == 0 {
		return projectScan{}
	}

	sig := cfg.cacheSignature()
	db := cache.DB{Signature: sig, Entries: map[string]cache.Entry{}}
	if !cfg.NoCache {
		if loaded, err := cache.Load(p.Path, sig); err == nil {
			db = loaded
		}
	}

	s := fileScanner{cfg: cfg, reg: reg, project: p, scanRoot: filepath.Dir(p.Path), db: db, log: log}
	var scanned atomic.Int64
	results := make(chan fileResult)
	g := semgroup.NewGroup(ctx, int64(poolSize(cfg.Threads, len(files))))

	go func() {
		defer close(results)
		for _, rel := range files {
			if ctx.Err() != nil {
				break
			}
			g.Go(func() error {
				r := s.scan(rel)
				if r.err == nil {
					scanned.Add(1)
				}
				results <- r
				if cfg.Progress != nil {
					cfg.Progress()
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			log.Debug("dispatch stopped", "error", err)
		}
	}()

	var out projectScan
	var fresh []fileResult
	for r := range results {
		if r.err != nil {
			out.failed++
			log.Warn("file failed", "path", r.rel, "error", r.err)
			continue
		}
		out.findings = append(out.findings, r.findings...)
		if !r.cached && r.hash != "" {
			fresh = append(fresh, r)
		}
	}
	out.scanned = int(scanned.Load())

	// Workers read db while the pool runs; entries are written only after.
	for _, r := range fresh {
		db.Put(r.rel, r.hash, r.findings)
	}
	if !cfg.NoCache && len(fresh) > 0 {
		if err := cache.Save(p.Path, db); err != nil {
			log.Debug("cache not saved", "error", err)
		}
	}
	return out
}

// fileScanner holds what every task of one project shares. Workers only read
// from it.
type fileScanner struct {
	cfg      Config
	reg      *detectors.Registry
	project  types.ProjectInfo
	scanRoot string
	db       cache.DB
	log      hclog.Logger
}

func (s fileScanner) scan(rel string) (r fileResult) {
	r.rel = rel
	defer func() {
		if v := recover(); v != nil {
			s.log.Error("detector panic", "path", rel, "panic", v, "stack", string(debug.Stack()))
			r = fileResult{rel: rel, err: fmt.Errorf("detector panic: %v", v)}
		}
	}()

	path := filepath.Join(s.project.Path, rel)
	raw, err := readFile(path)
	if err != nil {
		r.err = err
		return r
	}
	r.hash = cache.Hash(raw)
	if cached, ok := s.db.Lookup(rel, r.hash); ok {
		r.cached = true
		r.findings = s.relink(path, cached)
		return r
	}

	content, err := decodeSource(raw)
	if err != nil {
		r.err = fmt.Errorf("decode %s: %w", rel, err)
		return r
	}
	if content == "" || !hasSDKContent(content, s.cfg.Scopes) {
		return r
	}
	d := s.reg.ForFile(path)
	if d == nil {
		return r
	}
	base := linker.StripAnchor(s.cfg.Linker.FileURL(path, 1, s.scanRoot, s.project.Path))
	r.findings = s.relink(path, d.Detect(path, content, s.project.Name, base))
	s.log.Trace("file scanned", "path", rel, "findings", len(r.findings))
	return r
}

// relink sets each finding's link to its own line.
func (s fileScanner) relink(path string, fs []types.Finding) []types.Finding {
	out := make([]types.Finding, len(fs))
	for i, f := range fs {
		f.FilePath = path
		f.ProjectName = s.project.Name
		f.Link = s.cfg.Linker.FileURL(path, f.LineNumber, s.scanRoot, s.project.Path)
		out[i] = f
	}
	return out
}

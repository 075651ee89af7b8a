// Package cache persists per-file detection results between scans and the
// aggregate of the last scan.
package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	xxhash "github.com/cespare/xxhash/v2"

	"github.com/redactyl/ddscan/internal/types"
)

// FileName is the cache file written at a project root when there is no .git
// directory to hold it.
const FileName = ".ddscancache.json"

// Entry is the cached outcome of one file.
type Entry struct {
	Hash     string          `json:"hash"`
	Findings []types.Finding `json:"findings,omitempty"`
}

// DB maps project-relative paths to their last result. Signature captures
// the detector options the entries were produced with; a DB whose signature
// differs from the current one is discarded.
type DB struct {
	Signature string           `json:"signature"`
	Entries   map[string]Entry `json:"entries"`
}

func defaultPath(root string) string {
	gitDir := filepath.Join(root, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		return filepath.Join(gitDir, "ddscancache.json")
	}
	return filepath.Join(root, FileName)
}

// Load reads the cache for root. A missing or unreadable cache, or one built
// with a different signature, yields an empty DB and an error.
func Load(root, signature string) (DB, error) {
	empty := DB{Signature: signature, Entries: map[string]Entry{}}
	b, err := os.ReadFile(defaultPath(root))
	if err != nil {
		return empty, err
	}
	var db DB
	if err := json.Unmarshal(b, &db); err != nil {
		return empty, err
	}
	if db.Signature != signature {
		return empty, errors.New("cache signature changed")
	}
	if db.Entries == nil {
		db.Entries = map[string]Entry{}
	}
	return db, nil
}

func Save(root string, db DB) error {
	if db.Entries == nil {
		return errors.New("empty cache")
	}
	b, err := json.Marshal(db)
	if err != nil {
		return err
	}
	return os.WriteFile(defaultPath(root), b, 0o644)
}

// Lookup returns the cached findings for rel when its content hash matches.
func (db DB) Lookup(rel, hash string) ([]types.Finding, bool) {
	e, ok := db.Entries[filepath.ToSlash(rel)]
	if !ok || e.Hash != hash {
		return nil, false
	}
	return e.Findings, true
}

// Put records the result for rel.
func (db DB) Put(rel, hash string, findings []types.Finding) {
	db.Entries[filepath.ToSlash(rel)] = Entry{Hash: hash, Findings: findings}
}

// Hash returns the hex xxhash of b.
func Hash(b []byte) string {
	if len(b) == 0 {
		return "0000000000000000"
	}
	sum := xxhash.Sum64(b)
	var buf [16]byte
	const hex = "0123456789abcdef"
	for i := 15; i >= 0; i-- {
		buf[i] = hex[sum&0xF]
		sum >>= 4
	}
	return string(buf[:])
}

// Signature hashes the option values that change detector output.
func Signature(parts ...string) string {
	return Hash([]byte(strings.Join(parts, "\x00")))
}

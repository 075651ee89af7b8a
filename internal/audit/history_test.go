package audit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redactyl/ddscan/internal/types"
)

func results(n int) types.ScanResults {
	res := types.ScanResults{ScanID: "s", Projects: []types.ProjectInfo{{Name: "web"}}, FilesScanned: 3, Duration: time.Second}
	for i := 0; i < n; i++ {
		res.Findings = append(res.Findings, types.Finding{
			ProjectName: "web", FilePath: "a.ts", LineNumber: n - i,
			OperationType: types.OpRUMAction, Category: types.CatUser,
			Data: map[string]any{"action_name": "secret-ish"},
		})
	}
	return res
}

func TestNewScanRecord(t *testing.T) {
	res := results(12)
	rec := NewScanRecord([]string{"/src"}, res, res.Findings[:11], "ddscan.baseline.json", time.Unix(0, 0))

	assert.Equal(t, 12, rec.TotalFindings)
	assert.Equal(t, 11, rec.NewFindings)
	assert.Equal(t, 1, rec.BaselinedCount)
	assert.Equal(t, 12, rec.CategoryCounts[types.CatUser])
	assert.Equal(t, []string{"web"}, rec.Projects)
	require.Len(t, rec.TopFindings, topLimit)
	assert.Equal(t, 2, rec.TopFindings[0].Line)
	assert.Equal(t, "1s", rec.Duration)
}

func TestLogRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	l := NewLog(dir)

	history, err := l.LoadHistory()
	require.NoError(t, err)
	assert.Empty(t, history)

	for _, id := range []string{"first", "second"} {
		rec := NewScanRecord(nil, results(1), nil, "", time.Now())
		rec.ScanID = id
		require.NoError(t, l.LogScan(rec))
	}

	history, err = l.LoadHistory()
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "second", history[0].ScanID)

	raw, err := os.ReadFile(l.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-ish")
}

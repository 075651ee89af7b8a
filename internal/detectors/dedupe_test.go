package detectors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/redactyl/ddscan/internal/types"
)

func testFinding(line int, data map[string]any) types.Finding {
	return types.Finding{FilePath: "a.ts", LineNumber: line, Data: data}
}

func TestDedupe(t *testing.T) {
	tests := []struct {
		name string
		in   []types.Finding
		want []types.Finding
	}{
		{
			name: "distinct lines are kept",
			in:   []types.Finding{testFinding(1, map[string]any{"a": "1"}), testFinding(2, map[string]any{"a": "1"})},
			want: []types.Finding{testFinding(1, map[string]any{"a": "1"}), testFinding(2, map[string]any{"a": "1"})},
		},
		{
			name: "first wins on a tie",
			in:   []types.Finding{testFinding(1, map[string]any{"a": "1"}), testFinding(1, map[string]any{"b": "2"})},
			want: []types.Finding{testFinding(1, map[string]any{"a": "1"})},
		},
		{
			name: "more data replaces",
			in:   []types.Finding{testFinding(1, map[string]any{"a": "1"}), testFinding(1, map[string]any{"a": "1", "b": "2"})},
			want: []types.Finding{testFinding(1, map[string]any{"a": "1", "b": "2"})},
		},
		{
			name: "symbol field replaces",
			in:   []types.Finding{testFinding(1, map[string]any{"parameters": "long value"}), testFinding(1, map[string]any{"method_name": "t"})},
			want: []types.Finding{testFinding(1, map[string]any{"method_name": "t"})},
		},
		{
			name: "position of first occurrence is kept",
			in: []types.Finding{
				testFinding(3, map[string]any{}),
				testFinding(1, map[string]any{}),
				testFinding(3, map[string]any{"type_name": "DdLogger"}),
			},
			want: []types.Finding{testFinding(3, map[string]any{"type_name": "DdLogger"}), testFinding(1, map[string]any{})},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dedupe(tt.in))
		})
	}
}

package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucidtrace/tabula/errors"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, "pipeline.json", `{
		"metadata": {"version": "1"},
		"tables": [
			{
				"table_id": "trials",
				"name": "Trials",
				"description": "per-epoch stats",
				"row_selector": {"type": "interval", "source": "Epochs"},
				"columns": [
					{"name": "LFP Mean", "computer": "Interval Mean", "data_source": "LFP"},
					{
						"name": "Samples",
						"computer": "Analog Timestamp Offsets",
						"data_source": "LFP",
						"parameters": {"offsets": "-1,0,1"}
					}
				],
				"transforms": [
					{"type": "PCA", "parameters": {"standardize": true, "exclude": ["Samples"]}}
				]
			}
		]
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Len(t, cfg.Tables, 1)
	tc := cfg.Tables[0]
	assert.Equal(t, "trials", tc.TableID)
	assert.Equal(t, "interval", tc.RowSelector.Type)
	assert.Equal(t, "Epochs", tc.RowSelector.Source)
	require.Len(t, tc.Columns, 2)
	assert.Equal(t, "LFP", tc.Columns[0].DataSource)
	assert.Equal(t, map[string]string{"offsets": "-1,0,1"}, tc.Columns[1].StringParams())

	require.Len(t, tc.Transforms, 1)
	tr := tc.Transforms[0]
	assert.Equal(t, "PCA", tr.Type)
	assert.True(t, boolParam(tr.Parameters, "standardize", false))
	assert.True(t, boolParam(tr.Parameters, "center", true), "missing key falls back to the default")
	assert.Equal(t, []string{"Samples"}, asStringSlice(tr.Parameters["exclude"]))
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeConfig(t, "pipeline.yaml", `
tables:
  - table_id: trials
    name: Trials
    row_selector:
      type: interval
      intervals:
        - [0, 4]
        - {start: 5, end: 9}
    columns:
      - name: Mean
        computer: Interval Mean
        data_source: LFP
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Tables, 1)
	require.Len(t, cfg.Tables[0].RowSelector.Intervals, 2)

	first, ok := parseInterval(cfg.Tables[0].RowSelector.Intervals[0])
	require.True(t, ok)
	assert.EqualValues(t, 0, first.Start)
	assert.EqualValues(t, 4, first.End)

	second, ok := parseInterval(cfg.Tables[0].RowSelector.Intervals[1])
	require.True(t, ok)
	assert.EqualValues(t, 5, second.Start)
	assert.EqualValues(t, 9, second.End)
}

func TestLoadConfigValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing table_id", `{"tables": [{"name": "T", "row_selector": {"type": "interval"}, "columns": [{"name": "a", "computer": "c", "data_source": "s"}]}]}`},
		{"missing name", `{"tables": [{"table_id": "t", "row_selector": {"type": "interval"}, "columns": [{"name": "a", "computer": "c", "data_source": "s"}]}]}`},
		{"no columns", `{"tables": [{"table_id": "t", "name": "T", "row_selector": {"type": "interval"}}]}`},
		{"no selector type", `{"tables": [{"table_id": "t", "name": "T", "columns": [{"name": "a", "computer": "c", "data_source": "s"}]}]}`},
		{"column missing computer", `{"tables": [{"table_id": "t", "name": "T", "row_selector": {"type": "interval"}, "columns": [{"name": "a", "data_source": "s"}]}]}`},
		{"column missing data_source", `{"tables": [{"table_id": "t", "name": "T", "row_selector": {"type": "interval"}, "columns": [{"name": "a", "computer": "c"}]}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, "bad.json", tc.content)
			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.True(t, errors.IsConfiguration(err))
		})
	}
}

func TestParseIntervalRejectsMalformed(t *testing.T) {
	_, ok := parseInterval([]any{1.0})
	assert.False(t, ok)
	_, ok = parseInterval(map[string]any{"start": 1.0})
	assert.False(t, ok)
	_, ok = parseInterval("0-4")
	assert.False(t, ok)
}

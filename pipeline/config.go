// Package pipeline executes declarative table-build configurations: a config
// file names tables, their row selectors, their columns (registry computer
// plus data source), and optional transform chains. Built tables land in a
// TableRegistry keyed by id.
package pipeline

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/lucidtrace/tabula/errors"
)

// Config is the root of a pipeline file.
type Config struct {
	Metadata map[string]any `mapstructure:"metadata"`
	Tables   []TableConfig  `mapstructure:"tables"`
}

// TableConfig describes one table build.
type TableConfig struct {
	TableID     string            `mapstructure:"table_id"`
	Name        string            `mapstructure:"name"`
	Description string            `mapstructure:"description"`
	RowSelector RowSelectorConfig `mapstructure:"row_selector"`
	Columns     []ColumnConfig    `mapstructure:"columns"`
	Transforms  []TransformConfig `mapstructure:"transforms"`
}

// RowSelectorConfig describes the row space. Type is "interval", "timestamp"
// or "index". Rows come either from a named source or inline: intervals as
// [start, end] pairs or {start, end} objects, timestamps and indices as
// number arrays. Timeframe names the frame inline values live in.
type RowSelectorConfig struct {
	Type       string `mapstructure:"type"`
	Source     string `mapstructure:"source"`
	Timeframe  string `mapstructure:"timeframe"`
	Intervals  []any  `mapstructure:"intervals"`
	Timestamps []any  `mapstructure:"timestamps"`
	Indices    []any  `mapstructure:"indices"`
}

// ColumnConfig describes one column: the registry computer to instantiate and
// the data source feeding it. DataSource is either a source name or an object
// {key, adapter, parameters} routing the source through a registry adapter.
type ColumnConfig struct {
	Name       string         `mapstructure:"name"`
	Computer   string         `mapstructure:"computer"`
	DataSource any            `mapstructure:"data_source"`
	Parameters map[string]any `mapstructure:"parameters"`
}

// TransformConfig describes one derived table. Only the "PCA" type exists.
type TransformConfig struct {
	Type              string         `mapstructure:"type"`
	Parameters        map[string]any `mapstructure:"parameters"`
	OutputTableID     string         `mapstructure:"output_table_id"`
	OutputName        string         `mapstructure:"output_name"`
	OutputDescription string         `mapstructure:"output_description"`
}

// LoadConfig reads a pipeline file. The format follows the file extension
// (json, yaml, toml).
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "reading pipeline config %s", path)
	}
	return LoadConfigWithViper(v)
}

// LoadConfigWithViper unmarshals and validates a pipeline from an already
// populated Viper instance.
func LoadConfigWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling pipeline config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the structural requirements a build cannot recover from.
func (c *Config) Validate() error {
	for i := range c.Tables {
		if err := c.Tables[i].validate(); err != nil {
			return errors.Wrapf(err, "table %d", i)
		}
	}
	return nil
}

func (t *TableConfig) validate() error {
	if t.TableID == "" {
		return errors.NewConfigurationError("table_id cannot be empty")
	}
	if t.Name == "" {
		return errors.NewConfigurationError("name cannot be empty")
	}
	if len(t.Columns) == 0 {
		return errors.NewConfigurationError("table must have at least one column")
	}
	if t.RowSelector.Type == "" {
		return errors.NewConfigurationError("row_selector must have a type")
	}
	for i, col := range t.Columns {
		if col.Name == "" {
			return errors.NewConfigurationError("column %d missing name", i)
		}
		if col.Computer == "" {
			return errors.NewConfigurationError("column %d missing computer", i)
		}
		if col.DataSource == nil {
			return errors.NewConfigurationError("column %d missing data_source", i)
		}
	}
	return nil
}

// StringParams renders a column's parameter map for the registry, which takes
// string values only. Non-string scalars keep their literal rendering.
func (c *ColumnConfig) StringParams() map[string]string {
	return stringifyParams(c.Parameters)
}

func stringifyParams(params map[string]any) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for key, value := range params {
		if s, ok := value.(string); ok {
			out[key] = s
		} else {
			out[key] = fmt.Sprintf("%v", value)
		}
	}
	return out
}

// asInt64 coerces the numeric shapes a decoded config can carry.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case uint64:
		return int64(n), true
	default:
		return 0, false
	}
}

// asStringSlice coerces a decoded array of strings.
func asStringSlice(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

// boolParam reads a bool transform parameter with a default.
func boolParam(params map[string]any, key string, def bool) bool {
	if v, ok := params[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

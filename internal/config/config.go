// Package config loads depgraph's scan/build/selection settings via
// Viper: a YAML config file plus environment overrides and
// pflag binding, translated into the typed scan/build/selection
// options the core consumes.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nuthan-ms/depgraph/pkg/types"
)

// Config is depgraph's on-disk/CLI-flag configuration. The CLI
// translates it into types.ScanConfig / types.BuildOptions /
// types.SelectionOptions at the call sites that need them.
type Config struct {
	Includes             []string `mapstructure:"includes"`
	Excludes             []string `mapstructure:"excludes"`
	HashSizeEnforcement  string   `mapstructure:"hash_size_enforcement"`
	MaxErrors            int      `mapstructure:"max_errors"`
	NodeDescriptionLimit int      `mapstructure:"node_description_limit"`
	NodeDescriptionTags  []string `mapstructure:"node_description_tags"`
	SelectionMaxTop      int      `mapstructure:"selection_max_top"`
	SelectionDropKinds   []string `mapstructure:"selection_drop_kinds"`
}

// Defaults mirrors the documented default for each build/selection
// knob, so a project with no config file at all still builds a
// sensible graph.
func Defaults() Config {
	return Config{
		HashSizeEnforcement: string(types.HashSizeWarn),
		MaxErrors:           50,
		SelectionMaxTop:     10,
		SelectionDropKinds:  []string{string(types.NodeKindBuiltin), string(types.NodeKindMissing)},
	}
}

// Load reads configPath (if non-empty), or else ".depgraph.yaml" from
// the current directory, overlays DEPGRAPH_-prefixed environment
// variables, and binds flags — flag > env > file > Defaults, the same
// precedence a viper.BindPFlag setup assumes.
func Load(configPath string, flags *pflag.FlagSet) (Config, error) {
	cfg := Defaults()

	v := viper.New()
	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(".depgraph")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("depgraph")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return cfg, fmt.Errorf("config: bind flags: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, fmt.Errorf("config: read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal: %w", err)
	}

	return cfg, nil
}

// ScanConfig translates the loaded config into the scanner's input
// shape.
func (c Config) ScanConfig() types.ScanConfig {
	return types.ScanConfig{Includes: c.Includes, Excludes: c.Excludes}
}

// HashSizePolicy validates HashSizeEnforcement against the three known
// policy values, falling back to warn for anything else (including an
// empty/misspelled config value).
func (c Config) HashSizePolicy() types.HashSizeEnforcement {
	switch c.HashSizeEnforcement {
	case string(types.HashSizeError):
		return types.HashSizeError
	case string(types.HashSizeIgnore):
		return types.HashSizeIgnore
	default:
		return types.HashSizeWarn
	}
}

// SelectionOptions translates the loaded config into
// SummarizeSelection's option shape.
func (c Config) SelectionOptions() types.SelectionOptions {
	kinds := make([]types.NodeKind, 0, len(c.SelectionDropKinds))
	for _, k := range c.SelectionDropKinds {
		kinds = append(kinds, types.NodeKind(k))
	}
	return types.SelectionOptions{
		DropNodeKinds:       kinds,
		MaxTop:              c.SelectionMaxTop,
		HashSizeEnforcement: c.HashSizePolicy(),
	}
}

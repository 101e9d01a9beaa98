// Package config loads the options of a cleanupreducer run from flags, the
// environment and an optional config file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/phobologic/cleanupreducer/internal/reduce"
)

// Sentinel validation errors.
var (
	ErrMissingReduction   = errors.New("reduction type is required")
	ErrUnknownReduction   = errors.New("unknown reduction type")
	ErrInvalidOpportunity = errors.New("opportunity index too large")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidLogFormat   = errors.New("invalid log format")
)

// EnvPrefix prefixes every environment variable, e.g.
// CLEANUPREDUCER_REDUCTION_TYPE.
const EnvPrefix = "CLEANUPREDUCER"

// Flag names double as configuration keys.
const (
	KeyReductionType     = "reduction-type"
	KeyOpportunityToTake = "opportunity-to-take"
	KeyDumpASTs          = "dump-asts"
	KeyDryRun            = "dry-run"
	KeyList              = "list"
	KeyLogLevel          = "log-level"
	KeyLogFormat         = "log-format"
)

// Options holds everything that controls one run.
type Options struct {
	ReductionType string `mapstructure:"reduction-type"`
	// OpportunityToTake selects the opportunity to apply; negative means
	// report the count instead.
	OpportunityToTake int    `mapstructure:"opportunity-to-take"`
	DumpASTs          bool   `mapstructure:"dump-asts"`
	DryRun            bool   `mapstructure:"dry-run"`
	List              bool   `mapstructure:"list"`
	LogLevel          string `mapstructure:"log-level"`
	LogFormat         string `mapstructure:"log-format"`
}

// Opportunity returns the selected opportunity index, if one was given.
func (o *Options) Opportunity() (uint32, bool) {
	if o.OpportunityToTake < 0 {
		return 0, false
	}
	return uint32(o.OpportunityToTake), true
}

// RegisterFlags adds the option flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(KeyReductionType, "", "the kind of reduction to report on or attempt; options are: "+strings.Join(reduce.Names(), ", "))
	fs.Int(KeyOpportunityToTake, -1, "the id of the opportunity to take; if not given, the number of opportunities is printed")
	fs.Bool(KeyDumpASTs, false, "dump each syntax tree that is processed; useful for debugging")
	fs.Bool(KeyDryRun, false, "print a diff of the rewrite instead of changing files")
	fs.Bool(KeyList, false, "list the opportunities instead of counting them")
	fs.String(KeyLogLevel, "info", "log level: debug|info|warn|error")
	fs.String(KeyLogFormat, "text", "log format: text|json")
}

// Load resolves options with the precedence flag > environment > config file
// > default. flags may be nil; configPath may be empty.
func Load(flags *pflag.FlagSet, configPath string) (*Options, error) {
	v, err := newViper(flags, configPath, setDefaults)
	if err != nil {
		return nil, err
	}

	var opts Options
	if err := v.Unmarshal(&opts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := Validate(&opts); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &opts, nil
}

func newViper(flags *pflag.FlagSet, configPath string, defaults func(*viper.Viper)) (*viper.Viper, error) {
	v := viper.New()
	defaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyReductionType, "")
	v.SetDefault(KeyOpportunityToTake, -1)
	v.SetDefault(KeyDumpASTs, false)
	v.SetDefault(KeyDryRun, false)
	v.SetDefault(KeyList, false)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
}

// Validate checks opts for configuration errors.
func Validate(opts *Options) error {
	if opts.ReductionType == "" {
		return ErrMissingReduction
	}
	if _, ok := reduce.Lookup(opts.ReductionType); !ok {
		return fmt.Errorf("%w: %q (options are: %s)", ErrUnknownReduction, opts.ReductionType, strings.Join(reduce.Names(), ", "))
	}
	if int64(opts.OpportunityToTake) > math.MaxUint32 {
		return fmt.Errorf("%w: %d", ErrInvalidOpportunity, opts.OpportunityToTake)
	}
	return validateLogging(opts.LogLevel, opts.LogFormat)
}

func validateLogging(level, format string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, level)
	}
	switch format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, format)
	}
	return nil
}

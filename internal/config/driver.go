package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/phobologic/cleanupreducer/internal/reduce"
)

// ErrInvalidTimeout is returned for a negative test timeout.
var ErrInvalidTimeout = errors.New("test timeout must not be negative")

// Keys used only by the reduce command.
const (
	KeyReductions  = "reductions"
	KeyTestTimeout = "test-timeout"
)

// DriverOptions controls a reduce run: which reductions to try, in order,
// and how long one run of the interestingness test may take.
type DriverOptions struct {
	Reductions  []string      `mapstructure:"reductions"`
	TestTimeout time.Duration `mapstructure:"test-timeout"`
	LogLevel    string        `mapstructure:"log-level"`
	LogFormat   string        `mapstructure:"log-format"`
}

// RegisterDriverFlags adds the reduce command's flags to fs.
func RegisterDriverFlags(fs *pflag.FlagSet) {
	fs.StringSlice(KeyReductions, reduce.Names(), "reductions to try, in order")
	fs.Duration(KeyTestTimeout, 0, "give up on an interestingness test run after this long (0 means no limit)")
	fs.String(KeyLogLevel, "info", "log level: debug|info|warn|error")
	fs.String(KeyLogFormat, "text", "log format: text|json")
}

// LoadDriver resolves DriverOptions with the same precedence as Load.
func LoadDriver(flags *pflag.FlagSet, configPath string) (*DriverOptions, error) {
	v, err := newViper(flags, configPath, setDriverDefaults)
	if err != nil {
		return nil, err
	}

	var opts DriverOptions
	if err := v.Unmarshal(&opts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := ValidateDriver(&opts); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &opts, nil
}

func setDriverDefaults(v *viper.Viper) {
	v.SetDefault(KeyReductions, reduce.Names())
	v.SetDefault(KeyTestTimeout, time.Duration(0))
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
}

// ValidateDriver checks opts for configuration errors.
func ValidateDriver(opts *DriverOptions) error {
	if len(opts.Reductions) == 0 {
		return ErrMissingReduction
	}
	for _, name := range opts.Reductions {
		if _, ok := reduce.Lookup(name); !ok {
			return fmt.Errorf("%w: %q (options are: %s)", ErrUnknownReduction, name, strings.Join(reduce.Names(), ", "))
		}
	}
	if opts.TestTimeout < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, opts.TestTimeout)
	}
	return validateLogging(opts.LogLevel, opts.LogFormat)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	opts, err := Load(flags(t, "--reduction-type", "removeparam"), "")
	require.NoError(t, err)

	assert.Equal(t, "removeparam", opts.ReductionType)
	assert.Equal(t, -1, opts.OpportunityToTake)
	assert.False(t, opts.DumpASTs)
	assert.False(t, opts.DryRun)
	assert.Equal(t, "info", opts.LogLevel)
	assert.Equal(t, "text", opts.LogFormat)

	_, ok := opts.Opportunity()
	assert.False(t, ok)
}

func TestLoadFlags(t *testing.T) {
	t.Parallel()

	opts, err := Load(flags(t,
		"--reduction-type=removeparam",
		"--opportunity-to-take=7",
		"--dump-asts",
		"--log-format=json",
	), "")
	require.NoError(t, err)

	n, ok := opts.Opportunity()
	require.True(t, ok)
	assert.Equal(t, uint32(7), n)
	assert.True(t, opts.DumpASTs)
	assert.Equal(t, "json", opts.LogFormat)
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cleanupreducer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reduction-type: removeparam\nopportunity-to-take: 3\nlog-level: debug\n"), 0o644))

	opts, err := Load(flags(t), path)
	require.NoError(t, err)
	assert.Equal(t, "removeparam", opts.ReductionType)
	assert.Equal(t, 3, opts.OpportunityToTake)
	assert.Equal(t, "debug", opts.LogLevel)

	opts, err = Load(flags(t, "--opportunity-to-take", "0"), path)
	require.NoError(t, err)
	assert.Equal(t, 0, opts.OpportunityToTake, "flags override the config file")
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Parallel()

	_, err := Load(flags(t, "--reduction-type", "removeparam"), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("CLEANUPREDUCER_REDUCTION_TYPE", "removeparam")
	t.Setenv("CLEANUPREDUCER_OPPORTUNITY_TO_TAKE", "2")

	opts, err := Load(flags(t), "")
	require.NoError(t, err)
	assert.Equal(t, "removeparam", opts.ReductionType)
	assert.Equal(t, 2, opts.OpportunityToTake)

	opts, err = Load(flags(t, "--opportunity-to-take", "5"), "")
	require.NoError(t, err)
	assert.Equal(t, 5, opts.OpportunityToTake, "flags override the environment")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := Options{ReductionType: "removeparam", OpportunityToTake: -1, LogLevel: "info", LogFormat: "text"}
	require.NoError(t, Validate(&valid))

	tests := []struct {
		name   string
		mutate func(o *Options)
		want   error
	}{
		{"missing reduction", func(o *Options) { o.ReductionType = "" }, ErrMissingReduction},
		{"unknown reduction", func(o *Options) { o.ReductionType = "removefunction" }, ErrUnknownReduction},
		{"bad level", func(o *Options) { o.LogLevel = "loud" }, ErrInvalidLogLevel},
		{"bad format", func(o *Options) { o.LogFormat = "xml" }, ErrInvalidLogFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			o := valid
			tt.mutate(&o)
			require.ErrorIs(t, Validate(&o), tt.want)
		})
	}
}

func TestLoadRejectsUnknownReduction(t *testing.T) {
	t.Parallel()

	_, err := Load(flags(t, "--reduction-type", "inline"), "")
	require.ErrorIs(t, err, ErrUnknownReduction)
}

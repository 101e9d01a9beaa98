package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/cleanupreducer/internal/config"
	"github.com/phobologic/cleanupreducer/internal/frontend"
	"github.com/phobologic/cleanupreducer/internal/reduce"
)

func writeTestFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

const sampleC = `#include <stdio.h>

static int scale(int x, int factor, int offset) {
  return x * factor + offset;
}

int main(void) {
  printf("%d\n", scale(2, 3, 4));
  return 0;
}
`

func TestRunCount(t *testing.T) {
	t.Parallel()
	path := writeTestFile(t, t.TempDir(), "sample.c", sampleC)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--reduction-type", "removeparam", path}, &stdout, &stderr)
	require.NoError(t, err, "stderr: %s", stderr.String())

	// printf is only called here, so it has no declaration to take from.
	assert.Equal(t, "3\n", stdout.String())
	assert.Equal(t, sampleC, readTestFile(t, path))
	assert.Contains(t, stderr.String(), "Processing")
}

func TestRunApply(t *testing.T) {
	t.Parallel()
	path := writeTestFile(t, t.TempDir(), "sample.c", sampleC)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--reduction-type=removeparam", "--opportunity-to-take=1", path}, &stdout, &stderr)
	require.NoError(t, err, "stderr: %s", stderr.String())

	got := readTestFile(t, path)
	assert.Contains(t, got, "static int scale(int x, int offset) {")
	assert.Contains(t, got, `printf("%d\n", scale(2, 4));`)
	assert.Empty(t, stdout.String())
}

func TestRunApplyThenCount(t *testing.T) {
	t.Parallel()
	path := writeTestFile(t, t.TempDir(), "sample.c", sampleC)

	for range 3 {
		var stdout, stderr bytes.Buffer
		require.NoError(t, run([]string{"--reduction-type", "removeparam", "--opportunity-to-take", "0", path}, &stdout, &stderr))
	}

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"--reduction-type", "removeparam", path}, &stdout, &stderr))
	assert.Equal(t, "0\n", stdout.String())
	got := readTestFile(t, path)
	assert.Contains(t, got, "static int scale() {")
	assert.Contains(t, got, "scale());")
}

func TestRunOutOfRange(t *testing.T) {
	t.Parallel()
	path := writeTestFile(t, t.TempDir(), "sample.c", sampleC)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--reduction-type", "removeparam", "--opportunity-to-take", "3", path}, &stdout, &stderr)
	require.ErrorIs(t, err, reduce.ErrOpportunityOutOfRange)
	assert.Equal(t, sampleC, readTestFile(t, path))
}

func TestRunSkipsBrokenUnit(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	broken := writeTestFile(t, dir, "broken.c", "int f(int a, {\n")
	good := writeTestFile(t, dir, "good.c", sampleC)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--reduction-type", "removeparam", broken, good}, &stdout, &stderr)
	require.NoError(t, err)

	assert.Equal(t, "3\n", stdout.String())
	assert.Contains(t, stderr.String(), "Skipping due to errors")
}

func TestRunMissingReduction(t *testing.T) {
	t.Parallel()
	path := writeTestFile(t, t.TempDir(), "sample.c", sampleC)

	var stdout, stderr bytes.Buffer
	err := run([]string{path}, &stdout, &stderr)
	require.ErrorIs(t, err, config.ErrMissingReduction)
}

func TestRunUnknownReduction(t *testing.T) {
	t.Parallel()
	path := writeTestFile(t, t.TempDir(), "sample.c", sampleC)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--reduction-type", "inline", path}, &stdout, &stderr)
	require.ErrorIs(t, err, config.ErrUnknownReduction)
	assert.Contains(t, err.Error(), "removeparam")
}

func TestRunUnknownExtension(t *testing.T) {
	t.Parallel()
	path := writeTestFile(t, t.TempDir(), "sample.txt", sampleC)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--reduction-type", "removeparam", path}, &stdout, &stderr)
	require.ErrorIs(t, err, frontend.ErrUnknownLanguage)
}

func TestRunLanguageFlag(t *testing.T) {
	t.Parallel()
	path := writeTestFile(t, t.TempDir(), "sample.txt", `struct S { int get(int a, int b) { return a; } };
int use(S &s) { return s.get(1, 2); }
`)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--reduction-type", "removeparam", "--opportunity-to-take", "1", path, "--", "-x", "c++"}, &stdout, &stderr)
	require.NoError(t, err, "stderr: %s", stderr.String())

	got := readTestFile(t, path)
	assert.Contains(t, got, "int get(int a) { return a; }")
	assert.Contains(t, got, "s.get(1)")
}

func TestRunBadCompilerFlags(t *testing.T) {
	t.Parallel()
	path := writeTestFile(t, t.TempDir(), "sample.c", sampleC)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--reduction-type", "removeparam", path, "--", "-x", "fortran"}, &stdout, &stderr)
	require.ErrorIs(t, err, frontend.ErrBadFlags)
}

func TestRunDryRun(t *testing.T) {
	t.Parallel()
	path := writeTestFile(t, t.TempDir(), "sample.c", sampleC)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--reduction-type", "removeparam", "--opportunity-to-take", "2", "--dry-run", path}, &stdout, &stderr)
	require.NoError(t, err)

	assert.Equal(t, sampleC, readTestFile(t, path))
	assert.Contains(t, stdout.String(), "-static int scale(int x, int factor, int offset) {")
	assert.Contains(t, stdout.String(), "+static int scale(int x, int factor) {")
}

func TestRunList(t *testing.T) {
	t.Parallel()
	path := writeTestFile(t, t.TempDir(), "sample.c", sampleC)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--reduction-type", "removeparam", "--list", path}, &stdout, &stderr)
	require.NoError(t, err)

	out := stdout.String()
	assert.True(t, strings.HasPrefix(out, "file: "), "got:\n%s", out)
	assert.Contains(t, out, "opportunities[3]")
	assert.Contains(t, out, "2,scale,2,int offset,1,1")
}

func TestRunDirectory(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeTestFile(t, dir, "a.c", "void a(int x) {}\n")
	writeTestFile(t, dir, "sub/b.cpp", "void b(int x, int y) {}\n")
	writeTestFile(t, dir, "sub/b.h", "void h(int x);\n")

	var stdout, stderr bytes.Buffer
	err := run([]string{"--reduction-type", "removeparam", dir}, &stdout, &stderr)
	require.NoError(t, err, "stderr: %s", stderr.String())
	assert.Equal(t, "1\n2\n", stdout.String())
}

func TestRunConfigFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeTestFile(t, dir, "sample.c", sampleC)
	cfg := writeTestFile(t, dir, "reducer.yaml", "reduction-type: removeparam\nopportunity-to-take: 0\n")

	var stdout, stderr bytes.Buffer
	err := run([]string{"--config", cfg, path}, &stdout, &stderr)
	require.NoError(t, err, "stderr: %s", stderr.String())
	assert.Contains(t, readTestFile(t, path), "static int scale(int factor, int offset) {")
}

func TestRunJSONLogs(t *testing.T) {
	t.Parallel()
	path := writeTestFile(t, t.TempDir(), "sample.c", sampleC)

	var stdout, stderr bytes.Buffer
	err := run([]string{"--reduction-type", "removeparam", "--log-format", "json", path}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), `"msg":"Processing"`)
}

func TestRunNoSources(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := run([]string{"--reduction-type", "removeparam"}, &stdout, &stderr)
	require.Error(t, err)
}

func TestRunMissingSource(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := run([]string{"--reduction-type", "removeparam", filepath.Join(t.TempDir(), "nope.c")}, &stdout, &stderr)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunVersion(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"--version"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "cleanupreducer")
}

func TestRunSameFileTwice(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeTestFile(t, dir, "a.c", "void f(int a, int b) {}\nint main(void) { f(1, 2); return 0; }\n")

	var stdout, stderr bytes.Buffer
	err := run([]string{"--reduction-type", "removeparam", "--opportunity-to-take", "0",
		path, filepath.Join(dir, ".", "a.c"), dir}, &stdout, &stderr)
	require.NoError(t, err, "stderr: %s", stderr.String())

	assert.Equal(t, "void f(int b) {}\nint main(void) { f(2); return 0; }\n", readTestFile(t, path))
}

func TestRunSameFileTwiceCount(t *testing.T) {
	t.Parallel()
	path := writeTestFile(t, t.TempDir(), "sample.c", sampleC)

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"--reduction-type", "removeparam", path, path}, &stdout, &stderr))
	assert.Equal(t, "3\n", stdout.String())
}

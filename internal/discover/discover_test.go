package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paths(entries []FileEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}

func TestDiscoverTranslationUnits(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "main.c", "int main(void) { return 0; }")
	writeFile(t, dir, "lib/util.cpp", "int helper() { return 1; }")
	writeFile(t, dir, "lib/util.h", "int helper(void);")
	writeFile(t, dir, "lib/util.hpp", "int helper();")
	writeFile(t, dir, "readme.txt", "hello")
	writeFile(t, dir, ".hidden.c", "int x;")

	entries, err := Files(dir, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join("lib", "util.cpp"), "main.c"}, paths(entries))
	assert.Equal(t, "cpp", entries[0].Language)
	assert.Equal(t, "c", entries[1].Language)
}

func TestDiscoverSkipDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "main.c", "int x;")
	writeFile(t, dir, "build/gen.c", "int x;")
	writeFile(t, dir, "CMakeFiles/probe.c", "int x;")
	writeFile(t, dir, ".cache/old.c", "int x;")

	entries, err := Files(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.c"}, paths(entries))
}

func TestDiscoverGitignore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, ".gitignore", "reduced/\n*.orig.c\n")
	writeFile(t, dir, "test.c", "int x;")
	writeFile(t, dir, "test.orig.c", "int x;")
	writeFile(t, dir, "reduced/step1.c", "int x;")

	entries, err := Files(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"test.c"}, paths(entries))
}

func TestDiscoverLanguageFilter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.c", "int x;")
	writeFile(t, dir, "b.cc", "int x;")

	entries, err := Files(dir, []string{"c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.c"}, paths(entries))

	entries, err = Files(dir, []string{"cpp"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b.cc"}, paths(entries))
}

func TestDiscoverSymlinksSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "real.c", "int x;")
	if err := os.Symlink(filepath.Join(dir, "real.c"), filepath.Join(dir, "link.c")); err != nil {
		t.Skip("symlinks not supported")
	}

	entries, err := Files(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"real.c"}, paths(entries))
}

func TestDiscoverMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := Files(filepath.Join(t.TempDir(), "nope"), nil)
	require.Error(t, err)
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

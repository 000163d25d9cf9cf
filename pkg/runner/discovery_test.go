package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadanan/mathmate/pkg/runner"
)

func tree(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func rel(t *testing.T, dir string, files []string) []string {
	t.Helper()

	out := make([]string, len(files))
	for i, f := range files {
		r, err := filepath.Rel(dir, f)
		require.NoError(t, err)
		out[i] = filepath.ToSlash(r)
	}
	return out
}

func TestDiscover_Directory(t *testing.T) {
	t.Parallel()

	dir := tree(t, map[string]string{
		"Geometry.m":        "area[r_] := Pi r^2",
		"src/Algebra.wl":    "x = 1",
		"src/tests/Alg.wlt": "VerificationTest[1, 1]",
		"ios/AppDelegate.m": "#import \"AppDelegate.h\"\n@implementation AppDelegate\n@end",
		"matlab/square.m":   "function y = square(x)\n  y = x.^2;\nend",
		"README.md":         "# Docs",
		"notes.txt":         "x = 1",
		".hidden/Secret.wl": "x",
		"src/.Hidden.wl":    "x",
	})

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)

	assert.Equal(t, []string{"Geometry.m", "src/Algebra.wl", "src/tests/Alg.wlt"}, rel(t, dir, files))
}

func TestDiscover_Markdown(t *testing.T) {
	t.Parallel()

	dir := tree(t, map[string]string{
		"a.wl":                "x",
		"README.md":           "# Docs",
		"docs/guide.markdown": "text",
	})

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir, Markdown: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"README.md", "a.wl", "docs/guide.markdown"}, rel(t, dir, files))
}

func TestDiscover_ExplicitFile(t *testing.T) {
	t.Parallel()

	dir := tree(t, map[string]string{
		"AppDelegate.m": "#import \"AppDelegate.h\"",
		"notes.txt":     "x",
	})

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: dir,
		Paths:      []string{"AppDelegate.m", "notes.txt", "AppDelegate.m"},
	})
	require.NoError(t, err)

	// Named files are trusted; only the extension is checked.
	assert.Equal(t, []string{"AppDelegate.m"}, rel(t, dir, files))
}

func TestDiscover_CustomExtensions(t *testing.T) {
	t.Parallel()

	dir := tree(t, map[string]string{
		"a.wl":  "x",
		"b.nb2": "x",
	})

	files, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: dir,
		Extensions: []string{".NB2"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"b.nb2"}, rel(t, dir, files))
}

func TestDiscover_ExcludeGlobs(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"keep.wl":           "x",
		"build/out.wl":      "x",
		"src/build/deep.wl": "x",
		"src/gen_a.wl":      "x",
		"src/main.wl":       "x",
	}

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{"directory anywhere", []string{"build/**"}, []string{"keep.wl", "src/gen_a.wl", "src/main.wl"}},
		{"rooted directory", []string{"src/build/**"}, []string{"build/out.wl", "keep.wl", "src/gen_a.wl", "src/main.wl"}},
		{"base name", []string{"gen_*.wl"}, []string{"build/out.wl", "keep.wl", "src/build/deep.wl", "src/main.wl"}},
		{"double star prefix", []string{"**/main.wl"}, []string{"build/out.wl", "keep.wl", "src/build/deep.wl", "src/gen_a.wl"}},
		{"everything", []string{"**"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := tree(t, files)
			got, err := runner.Discover(context.Background(), runner.Options{
				WorkingDir:   dir,
				ExcludeGlobs: tt.patterns,
			})
			require.NoError(t, err)

			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, rel(t, dir, got))
		})
	}
}

func TestDiscover_NonExistentPath(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		WorkingDir: t.TempDir(),
		Paths:      []string{"missing"},
	})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiscover_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Discover(ctx, runner.Options{WorkingDir: t.TempDir()})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_DirectorySymlinks(t *testing.T) {
	t.Parallel()

	dir := tree(t, map[string]string{"real/a.wl": "x"})
	target := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(target, "b.wl"), []byte("x"), 0o644))
	if err := os.Symlink(target, filepath.Join(dir, "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	files, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Len(t, files, 1)

	files, err = runner.Discover(context.Background(), runner.Options{WorkingDir: dir, FollowSymlinks: true})
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

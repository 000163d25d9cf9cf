package fix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadanan/mathmate/pkg/fix"
)

func TestUnified_NoChanges(t *testing.T) {
	t.Parallel()

	assert.Nil(t, fix.Unified("a.m", nil, nil))
	assert.Nil(t, fix.Unified("a.m", []byte("x = 1\n"), []byte("x = 1\n")))

	var d *fix.Diff
	assert.False(t, d.HasChanges())
	assert.Empty(t, d.String())
}

func TestUnified_SingleChange(t *testing.T) {
	t.Parallel()

	d := fix.Unified("/src/a.m", []byte("a\nx=1;\nb\n"), []byte("a\nx = 1;\nb\n"))
	require.NotNil(t, d)

	assert.Equal(t, 1, d.Additions)
	assert.Equal(t, 1, d.Deletions)
	require.Len(t, d.Hunks, 1)

	want := "--- a/src/a.m\n" +
		"+++ b/src/a.m\n" +
		"@@ -1,3 +1,3 @@\n" +
		" a\n" +
		"-x=1;\n" +
		"+x = 1;\n" +
		" b\n"
	assert.Equal(t, want, d.String())
}

func TestUnified_Insertion(t *testing.T) {
	t.Parallel()

	d := fix.Unified("a.m", []byte("a\nc\n"), []byte("a\nb\nc\n"))
	require.NotNil(t, d)
	assert.Equal(t, 1, d.Additions)
	assert.Zero(t, d.Deletions)
	assert.Equal(t, []fix.Line{
		{Kind: fix.LineContext, Text: "a"},
		{Kind: fix.LineAdd, Text: "b"},
		{Kind: fix.LineContext, Text: "c"},
	}, d.Hunks[0].Lines)
}

func TestUnified_SeparateHunks(t *testing.T) {
	t.Parallel()

	orig := "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11\n12\n"
	mod := "one\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11\ntwelve\n"

	d := fix.Unified("n.m", []byte(orig), []byte(mod))
	require.NotNil(t, d)
	require.Len(t, d.Hunks, 2)

	assert.Equal(t, 1, d.Hunks[0].OldStart)
	assert.Equal(t, 4, d.Hunks[0].OldCount)
	assert.Equal(t, 9, d.Hunks[1].OldStart)
	assert.Equal(t, 4, d.Hunks[1].OldCount)
	assert.Equal(t, 9, d.Hunks[1].NewStart)
}

func TestUnified_NearbyChangesMerge(t *testing.T) {
	t.Parallel()

	d := fix.Unified("n.m", []byte("1\n2\n3\n4\n5\n"), []byte("one\n2\n3\n4\nfive\n"))
	require.NotNil(t, d)
	require.Len(t, d.Hunks, 1)
	assert.Equal(t, 5, d.Hunks[0].OldCount)
	assert.Equal(t, 5, d.Hunks[0].NewCount)
}

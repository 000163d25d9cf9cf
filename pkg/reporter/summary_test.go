package reporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPad(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ab   ", padRight("ab", 5))
	assert.Equal(t, "   ab", padLeft("ab", 5))
	assert.Equal(t, "abcdef", padRight("abcdef", 3))
	assert.Equal(t, "abcdef", padLeft("abcdef", 3))
}

func TestDisplayPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "rel/a.m", displayPath("rel/a.m", "/work"))
	assert.Equal(t, "pkg/a.m", displayPath("/work/pkg/a.m", "/work"))
	assert.Equal(t, "a.m", displayPath("/a/b/c/d/a.m", "/w/x/y/z"))
}

package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAddsAndReplaces(t *testing.T) {
	tr := New()

	assert.Equal(t, Delta{Added: "a"}, tr.Set(".p", "a"))
	assert.Equal(t, Delta{}, tr.Set(".p", "a"), "unchanged contribution is a no-op")
	assert.Equal(t, Delta{Added: "b", Removed: "a"}, tr.Set(".p", "b"))
	assert.Equal(t, Delta{Removed: "b"}, tr.Set(".p", ""))
	assert.Equal(t, Delta{}, tr.Set(".p", ""))
	assert.Equal(t, 0, tr.Len())
	assert.Empty(t, tr.Paths())
}

func TestSharedClassKeptUntilLastContributor(t *testing.T) {
	tr := New()

	assert.Equal(t, Delta{Added: "black"}, tr.Set(".p2", "black"))
	assert.Equal(t, Delta{}, tr.Set(".p3", "black"))
	assert.Equal(t, Delta{}, tr.Set(".p4", "black"))
	assert.Equal(t, []string{".p2", ".p3", ".p4"}, tr.Contributors("black"))

	assert.Equal(t, Delta{}, tr.Set(".p3", ""))
	assert.Equal(t, Delta{}, tr.Set(".p4", ""))
	assert.True(t, tr.Has("black"))

	assert.Equal(t, Delta{Removed: "black"}, tr.Set(".p2", ""))
	assert.False(t, tr.Has("black"))
	assert.Nil(t, tr.Contributors("black"))
}

func TestMoveOntoSharedClass(t *testing.T) {
	tr := New()
	tr.Set(".a", "x")
	tr.Set(".b", "y")

	// .b joins x, which is already applied; y loses its only contributor.
	assert.Equal(t, Delta{Removed: "y"}, tr.Set(".b", "x"))
	assert.Equal(t, []string{"x"}, tr.Classes())

	// .a leaves x for z; x stays because .b still asserts it.
	assert.Equal(t, Delta{Added: "z"}, tr.Set(".a", "z"))
	assert.Equal(t, []string{"x", "z"}, tr.Classes())

	c, ok := tr.Class(".a")
	assert.True(t, ok)
	assert.Equal(t, "z", c)
}

func TestReset(t *testing.T) {
	tr := New()
	tr.Set(".a", "x")
	tr.Set(".b", "y")
	tr.Set(".c", "x")

	assert.Equal(t, []string{"x", "y"}, tr.Reset())
	assert.Equal(t, 0, tr.Len())
	_, ok := tr.Class(".a")
	assert.False(t, ok)
	assert.Equal(t, Delta{Added: "x"}, tr.Set(".a", "x"))
}

func TestDeltaIsZero(t *testing.T) {
	assert.True(t, Delta{}.IsZero())
	assert.False(t, Delta{Added: "a"}.IsZero())
	assert.False(t, Delta{Removed: "a"}.IsZero())
}

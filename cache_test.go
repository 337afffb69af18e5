package canopy

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingBuild(calls *int) BuildFunc {
	return func() (*Node, []Diagnostic, error) {
		*calls++
		root := NewNode(TypeNode)
		root.Tag = 5
		root.AddChild(NewNode(TypeSprite))
		return root, nil, nil
	}
}

func TestCacheBuildsOnce(t *testing.T) {
	c := NewCache(4)
	calls := 0

	a, _, err := c.GetOrBuild("hud.json", countingBuild(&calls))
	require.NoError(t, err)
	b, _, err := c.GetOrBuild("hud.json", countingBuild(&calls))
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.True(t, c.Contains("hud.json"))
	assert.Equal(t, CacheStats{Hits: 1, Misses: 1, Len: 1}, c.Stats())

	// Each caller owns its own copy.
	assert.NotSame(t, a, b)
	assert.NotSame(t, a.ChildAt(0), b.ChildAt(0))
	assert.Equal(t, 5, b.Tag)
	assert.Equal(t, 1, b.NumChildren())
}

func TestCacheResultsCanBeAttachedTwice(t *testing.T) {
	c := NewCache(0)
	calls := 0
	p1, p2 := NewNode(TypeNode), NewNode(TypeNode)

	a, _, _ := c.GetOrBuild("x", countingBuild(&calls))
	b, _, _ := c.GetOrBuild("x", countingBuild(&calls))
	p1.AddChild(a)
	p2.AddChild(b)

	assert.Equal(t, 1, p1.NumChildren())
	assert.Equal(t, 1, p2.NumChildren())
	assert.Same(t, p1, a.Parent)
	assert.Same(t, p2, b.Parent)
}

func TestCacheFailedBuildNotCached(t *testing.T) {
	c := NewCache(0)
	boom := errors.New("boom")
	_, _, err := c.GetOrBuild("bad", func() (*Node, []Diagnostic, error) { return nil, nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, c.Contains("bad"))
	assert.Equal(t, 0, c.Len())
}

func TestCachePurge(t *testing.T) {
	c := NewCache(0)
	calls := 0
	kept, _, _ := c.GetOrBuild("a", countingBuild(&calls))
	_, _, _ = c.GetOrBuild("b", countingBuild(&calls))
	require.Equal(t, 2, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
	assert.False(t, kept.IsDisposed(), "returned clones survive a purge")

	_, _, _ = c.GetOrBuild("a", countingBuild(&calls))
	assert.Equal(t, 3, calls, "purged entries are rebuilt")
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache(2)
	calls := 0
	_, _, _ = c.GetOrBuild("a", countingBuild(&calls))
	_, _, _ = c.GetOrBuild("b", countingBuild(&calls))
	_, _, _ = c.GetOrBuild("a", countingBuild(&calls)) // a is now most recent
	_, _, _ = c.GetOrBuild("c", countingBuild(&calls))

	assert.True(t, c.Contains("a"))
	assert.False(t, c.Contains("b"))
	assert.True(t, c.Contains("c"))
	assert.Equal(t, []string{"a", "c"}, c.Keys())
}

func TestCacheRemove(t *testing.T) {
	c := NewCache(0)
	calls := 0
	_, _, _ = c.GetOrBuild("a", countingBuild(&calls))
	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))
}

func TestCacheNestedBuild(t *testing.T) {
	c := NewCache(0)
	calls := 0
	outer, _, err := c.GetOrBuild("outer", func() (*Node, []Diagnostic, error) {
		inner, _, err := c.GetOrBuild("inner", countingBuild(&calls))
		if err != nil {
			return nil, nil, err
		}
		root := NewNode(TypeNode)
		root.AddChild(inner)
		return root, nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, outer.NumChildren())
	assert.Equal(t, 2, c.Len())
}

func TestCacheReplaysDiagnostics(t *testing.T) {
	c := NewCache(0)
	problem := Diagnostic{Kind: DiagUnknownType, Path: "hud.json:$.children[0]",
		Err: &UnknownTypeError{Type: "Mystery", Path: "hud.json:$.children[0]"}}
	build := func() (*Node, []Diagnostic, error) {
		return NewNode(TypeNode), []Diagnostic{problem}, nil
	}

	_, first, err := c.GetOrBuild("hud.json", build)
	require.NoError(t, err)
	_, second, err := c.GetOrBuild("hud.json", build)
	require.NoError(t, err)

	assert.Equal(t, []Diagnostic{problem}, first)
	assert.Equal(t, []Diagnostic{problem}, second)
	assert.Equal(t, 1, c.Stats().Hits)

	// Callers own what they get back.
	second[0].Path = "changed"
	_, third, _ := c.GetOrBuild("hud.json", build)
	assert.Equal(t, "hud.json:$.children[0]", third[0].Path)
}

func TestCacheSkipsCycleBuilds(t *testing.T) {
	c := NewCache(0)
	calls := 0
	build := func() (*Node, []Diagnostic, error) {
		calls++
		err := &ConstructionError{Type: TypeSubGraph, Path: "b.json:$.children[0]",
			Err: fmt.Errorf("%w: a.json", ErrReferenceCycle)}
		return NewNode(TypeNode), []Diagnostic{{Kind: DiagConstruction, Path: err.Path, Err: err}}, nil
	}

	n, diags, err := c.GetOrBuild("b.json", build)
	require.NoError(t, err)
	require.NotNil(t, n)
	require.Len(t, diags, 1)
	assert.False(t, c.Contains("b.json"))

	_, _, _ = c.GetOrBuild("b.json", build)
	assert.Equal(t, 2, calls)
}

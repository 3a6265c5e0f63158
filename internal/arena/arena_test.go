package arena_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wazevo-emit/ssaemit/internal/arena"
)

func TestArena_AllocateAcrossPages(t *testing.T) {
	a := arena.New[int]()
	const n = 1000
	ptrs := make([]*int, n)
	for i := 0; i < n; i++ {
		p := a.Allocate()
		*p = i
		ptrs[i] = p
	}
	require.Equal(t, n, a.Allocated())
	for i := 0; i < n; i++ {
		require.Equal(t, i, *ptrs[i])
		require.Same(t, ptrs[i], a.View(i))
	}
}

func TestArena_Reset(t *testing.T) {
	a := arena.New[string]()
	p := a.Allocate()
	*p = "hello"
	a.Reset()
	require.Equal(t, 0, a.Allocated())
	p2 := a.Allocate()
	require.Equal(t, "", *p2)
}

func TestArena_SaveRestore(t *testing.T) {
	a := arena.New[int]()
	*a.Allocate() = 1
	*a.Allocate() = 2

	scope := a.Save()
	for i := 0; i < 300; i++ { // spans multiple pages.
		*a.Allocate() = 100 + i
	}
	require.Equal(t, 302, a.Allocated())

	a.Restore(scope)
	require.Equal(t, 2, a.Allocated())
	require.Equal(t, 1, *a.View(0))
	require.Equal(t, 2, *a.View(1))

	// Allocations after Restore reuse the released pages and observe zeroed memory.
	p := a.Allocate()
	require.Equal(t, 0, *p)
}

func TestArena_NestedScopes(t *testing.T) {
	a := arena.New[int]()
	outer := a.Save()
	*a.Allocate() = 1
	inner := a.Save()
	*a.Allocate() = 2
	a.Restore(inner)
	require.Equal(t, 1, a.Allocated())
	a.Restore(outer)
	require.Equal(t, 0, a.Allocated())
}

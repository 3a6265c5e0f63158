package unwind

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wazevo-emit/ssaemit/internal/ssa"
)

func setupBuilder(t *testing.T) (ssa.Builder, ssa.Value) {
	t.Helper()
	b := ssa.NewBuilder()
	b.Init(&ssa.Signature{})
	blk := b.AllocateBasicBlock()
	b.SetCurrentBlock(blk)
	ptr := blk.AddParam(b, ssa.TypeI64)
	return b, ptr
}

// loadOffsets extracts each Load instruction's offset operand, in the order the
// instructions were inserted, from a builder's formatted text.
func loadOffsets(out string) []string {
	var offsets []string
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "= Load ") {
			continue
		}
		fields := strings.Split(line, ",")
		offsets = append(offsets, strings.TrimSpace(fields[len(fields)-1]))
	}
	return offsets
}

// argTypes lays out as i32 (bytes 0-4), i64 (bytes 4-12), i32 (bytes 12-16) in the
// flat exception-argument buffer both backends read from.
func threeArgTypes() []ssa.Type { return []ssa.Type{ssa.TypeI32, ssa.TypeI64, ssa.TypeI32} }

func TestItanium_UnpacksInReverseThrowOrder(t *testing.T) {
	b, ptr := setupBuilder(t)
	vals := NewItanium().UnpackArgs(b, ptr, threeArgTypes())
	require.Len(t, vals, 3)
	for _, v := range vals {
		require.True(t, v.Valid())
	}
	// The last argument thrown is read first: descending offsets.
	require.Equal(t, []string{"0xc", "0x4", "0x0"}, loadOffsets(b.Format()))
}

func TestSEH_UnpacksInDeclarationOrder(t *testing.T) {
	b, ptr := setupBuilder(t)
	vals := NewSEH().UnpackArgs(b, ptr, threeArgTypes())
	require.Len(t, vals, 3)
	for _, v := range vals {
		require.True(t, v.Valid())
	}
	// The filter function already copied the exception data in declaration order, so
	// SEH reads the flat buffer front-to-back instead of reversing it like itanium does.
	require.Equal(t, []string{"0x0", "0x4", "0xc"}, loadOffsets(b.Format()))
}

func TestSEH_And_Itanium_ReturnSameValuesDifferentOrder(t *testing.T) {
	b, ptr := setupBuilder(t)
	itaniumVals := NewItanium().UnpackArgs(b, ptr, threeArgTypes())
	sehVals := NewSEH().UnpackArgs(b, ptr, threeArgTypes())
	// Both backends index their returned slice by the original argType position,
	// regardless of the order they actually issued loads in.
	require.Equal(t, len(itaniumVals), len(sehVals))
}

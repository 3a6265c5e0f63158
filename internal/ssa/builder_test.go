package ssa

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilder_ConstAndAdd(t *testing.T) {
	b := NewBuilder()
	b.Init(&Signature{Results: []Type{TypeI32}})

	entry := b.AllocateBasicBlock()
	b.SetCurrentBlock(entry)

	c1 := b.AllocateInstruction()
	c1.AsIconst32(40)
	b.InsertInstruction(c1)

	c2 := b.AllocateInstruction()
	c2.AsIconst32(2)
	b.InsertInstruction(c2)

	add := b.AllocateInstruction()
	add.AsIadd(c1.Return(), c2.Return())
	b.InsertInstruction(add)

	ret := b.AllocateInstruction()
	ret.AsReturn([]Value{add.Return()})
	b.InsertInstruction(ret)

	b.Seal(entry)

	out := b.Format()
	require.Contains(t, out, "Iconst32")
	require.Contains(t, out, "Iadd")
	require.Contains(t, out, "Return")
}

// TestBuilder_VariablesAcrossDiamond exercises the Braun-et-al-style lazy φ construction:
// a variable defined differently down two arms of a diamond resolves to a block
// parameter on the join block once both predecessors are known.
func TestBuilder_VariablesAcrossDiamond(t *testing.T) {
	b := NewBuilder()
	b.Init(&Signature{Params: []Type{TypeI32}, Results: []Type{TypeI32}})

	entry := b.AllocateBasicBlock()
	thenBlk := b.AllocateBasicBlock()
	elseBlk := b.AllocateBasicBlock()
	join := b.AllocateBasicBlock()

	b.SetCurrentBlock(entry)
	cond := entry.AddParam(b, TypeI32)
	v := b.DeclareVariable(TypeI32)
	b.DefineVariableInCurrentBB(v, cond)

	brz := b.AllocateInstruction()
	brz.AsBrz(cond, nil, elseBlk)
	b.InsertInstruction(brz)
	jmp := b.AllocateInstruction()
	jmp.AsJump(nil, thenBlk)
	b.InsertInstruction(jmp)
	b.Seal(entry)

	b.SetCurrentBlock(thenBlk)
	one := b.AllocateInstruction()
	one.AsIconst32(1)
	b.InsertInstruction(one)
	b.DefineVariableInCurrentBB(v, one.Return())
	toJoin1 := b.AllocateInstruction()
	toJoin1.AsJump(nil, join)
	b.InsertInstruction(toJoin1)
	b.Seal(thenBlk)

	b.SetCurrentBlock(elseBlk)
	two := b.AllocateInstruction()
	two.AsIconst32(2)
	b.InsertInstruction(two)
	b.DefineVariableInCurrentBB(v, two.Return())
	toJoin2 := b.AllocateInstruction()
	toJoin2.AsJump(nil, join)
	b.InsertInstruction(toJoin2)
	b.Seal(elseBlk)

	b.SetCurrentBlock(join)
	b.Seal(join)
	resolved := b.FindValue(v)
	require.True(t, resolved.Valid())
	// The join block gained a parameter to reconcile the two arms' definitions.
	require.Equal(t, 1, join.Params())

	ret := b.AllocateInstruction()
	ret.AsReturn([]Value{resolved})
	b.InsertInstruction(ret)

	out := b.Format()
	require.True(t, strings.Contains(out, "blk3"))
}

// TestBuilder_Dominates exercises the exported dominance query over a diamond CFG: the
// entry dominates both arms and the join, but neither arm dominates the other.
func TestBuilder_Dominates(t *testing.T) {
	b := NewBuilder()
	b.Init(&Signature{Params: []Type{TypeI32}})

	entry := b.AllocateBasicBlock()
	thenBlk := b.AllocateBasicBlock()
	elseBlk := b.AllocateBasicBlock()
	join := b.AllocateBasicBlock()

	b.SetCurrentBlock(entry)
	cond := entry.AddParam(b, TypeI32)
	brz := b.AllocateInstruction()
	brz.AsBrz(cond, nil, elseBlk)
	b.InsertInstruction(brz)
	jmp := b.AllocateInstruction()
	jmp.AsJump(nil, thenBlk)
	b.InsertInstruction(jmp)
	b.Seal(entry)

	b.SetCurrentBlock(thenBlk)
	toJoin1 := b.AllocateInstruction()
	toJoin1.AsJump(nil, join)
	b.InsertInstruction(toJoin1)
	b.Seal(thenBlk)

	b.SetCurrentBlock(elseBlk)
	toJoin2 := b.AllocateInstruction()
	toJoin2.AsJump(nil, join)
	b.InsertInstruction(toJoin2)
	b.Seal(elseBlk)

	b.SetCurrentBlock(join)
	b.Seal(join)
	ret := b.AllocateInstruction()
	ret.AsReturn(nil)
	b.InsertInstruction(ret)

	b.RunPasses()

	require.True(t, b.Dominates(thenBlk, entry))
	require.True(t, b.Dominates(elseBlk, entry))
	require.True(t, b.Dominates(join, entry))
	require.False(t, b.Dominates(thenBlk, elseBlk))
	require.False(t, b.Dominates(join, thenBlk))
}

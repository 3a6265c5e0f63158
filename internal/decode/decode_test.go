package decode_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wazevo-emit/ssaemit/internal/decode"
	"github.com/wazevo-emit/ssaemit/internal/wasm"
)

func TestDecode_AddFunction(t *testing.T) {
	// [i32.const 3, i32.const 4, i32.add, end] — spec.md §8 scenario 1.
	body := []byte{
		byte(wasm.OpcodeI32Const), 3,
		byte(wasm.OpcodeI32Const), 4,
		byte(wasm.OpcodeI32Add),
		byte(wasm.OpcodeEnd),
	}
	m := &wasm.Module{}
	d := decode.NewDecoder(body)

	op, err := d.Next(m)
	require.NoError(t, err)
	require.Equal(t, wasm.OpcodeI32Const, op.Opcode)
	require.Equal(t, int32(3), op.I32)

	op, err = d.Next(m)
	require.NoError(t, err)
	require.Equal(t, int32(4), op.I32)

	op, err = d.Next(m)
	require.NoError(t, err)
	require.Equal(t, wasm.OpcodeI32Add, op.Opcode)

	op, err = d.Next(m)
	require.NoError(t, err)
	require.Equal(t, wasm.OpcodeEnd, op.Opcode)

	require.True(t, d.Done())
}

func TestDecode_BlockTypeSingleResult(t *testing.T) {
	body := []byte{byte(wasm.OpcodeBlock), byte(wasm.ValueTypeI32), byte(wasm.OpcodeEnd)}
	m := &wasm.Module{}
	d := decode.NewDecoder(body)

	op, err := d.Next(m)
	require.NoError(t, err)
	require.Equal(t, wasm.ValueTypeI32, op.BlockType.SingleResult)
}

func TestDecode_BrTable(t *testing.T) {
	body := []byte{byte(wasm.OpcodeBrTable), 2, 0, 1, 2}
	m := &wasm.Module{}
	d := decode.NewDecoder(body)

	op, err := d.Next(m)
	require.NoError(t, err)
	require.Equal(t, []uint32{0, 1}, op.Targets)
	require.Equal(t, uint32(2), op.Default)
}

func TestDecode_MalformedOpcode(t *testing.T) {
	body := []byte{0xff, 0xff} // 0xff is not a defined single-byte opcode.
	m := &wasm.Module{}
	d := decode.NewDecoder(body)

	_, err := d.Next(m)
	require.Error(t, err)
}

func TestDecodeWithVisitor_TracksStructure(t *testing.T) {
	body := []byte{
		byte(wasm.OpcodeBlock), 0x40,
		byte(wasm.OpcodeNop),
		byte(wasm.OpcodeEnd),
	}
	m := &wasm.Module{}
	v := &countingVisitor{}
	require.NoError(t, decode.DecodeWithVisitor(body, m, v))
	require.Equal(t, 1, v.blocks)
	require.Equal(t, 1, v.ends)
	require.Equal(t, 1, v.defaults)
}

type countingVisitor struct {
	blocks, ends, defaults int
}

func (c *countingVisitor) Block(decode.Operator)    { c.blocks++ }
func (c *countingVisitor) Loop(decode.Operator)     {}
func (c *countingVisitor) If(decode.Operator)       {}
func (c *countingVisitor) Else(decode.Operator)     {}
func (c *countingVisitor) End(decode.Operator)      { c.ends++ }
func (c *countingVisitor) Try(decode.Operator)      {}
func (c *countingVisitor) Catch(decode.Operator)    {}
func (c *countingVisitor) CatchAll(decode.Operator) {}
func (c *countingVisitor) Default(decode.Operator)  { c.defaults++ }

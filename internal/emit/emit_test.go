package emit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wazevo-emit/ssaemit/internal/emit/unwind"
	"github.com/wazevo-emit/ssaemit/internal/ssa"
	"github.com/wazevo-emit/ssaemit/internal/wasm"
)

func i32Type(params, results int) wasm.FunctionType {
	ft := wasm.FunctionType{}
	for i := 0; i < params; i++ {
		ft.Params = append(ft.Params, wasm.ValueTypeI32)
	}
	for i := 0; i < results; i++ {
		ft.Results = append(ft.Results, wasm.ValueTypeI32)
	}
	return ft
}

func emitBody(t *testing.T, fn *wasm.FunctionDef, module *wasm.Module) (string, error) {
	t.Helper()
	builder := ssa.NewBuilder()
	e := NewEmitter(builder, module, &wasm.ModuleInstance{}, fn)
	err := e.Emit()
	return builder.Format(), err
}

func TestEmit_LocalGetIdentity(t *testing.T) {
	ft := i32Type(1, 1)
	fn := &wasm.FunctionDef{Type: &ft, Body: []byte{
		byte(wasm.OpcodeLocalGet), 0x00,
		byte(wasm.OpcodeEnd),
	}}
	out, err := emitBody(t, fn, &wasm.Module{})
	require.NoError(t, err)
	require.Contains(t, out, "Jump blk_ret")
}

func TestEmit_ConstAdd(t *testing.T) {
	ft := i32Type(0, 1)
	fn := &wasm.FunctionDef{Type: &ft, Body: []byte{
		byte(wasm.OpcodeI32Const), 0x01,
		byte(wasm.OpcodeI32Const), 0x02,
		byte(wasm.OpcodeI32Add),
		byte(wasm.OpcodeEnd),
	}}
	out, err := emitBody(t, fn, &wasm.Module{})
	require.NoError(t, err)
	require.Contains(t, out, "Iadd")
}

func TestEmit_DivByZeroTraps(t *testing.T) {
	ft := i32Type(0, 1)
	fn := &wasm.FunctionDef{Type: &ft, Body: []byte{
		byte(wasm.OpcodeI32Const), 0x07,
		byte(wasm.OpcodeI32Const), 0x00,
		byte(wasm.OpcodeI32DivS),
		byte(wasm.OpcodeEnd),
	}}
	out, err := emitBody(t, fn, &wasm.Module{})
	require.NoError(t, err)
	// Division lowers to a trap-guarded IR sequence, never a Go error: runtime
	// failure modes stay in the emitted function, even at emit time.
	require.Contains(t, out, "TrapIfTrue")
	require.Contains(t, out, "Sdiv")
}

func TestEmit_BrIfLoop(t *testing.T) {
	ft := i32Type(1, 0)
	fn := &wasm.FunctionDef{Type: &ft, Body: []byte{
		byte(wasm.OpcodeLoop), 0x40,
		byte(wasm.OpcodeLocalGet), 0x00,
		byte(wasm.OpcodeBrIf), 0x00,
		byte(wasm.OpcodeEnd), // end loop
		byte(wasm.OpcodeEnd), // end function
	}}
	out, err := emitBody(t, fn, &wasm.Module{})
	require.NoError(t, err)
	require.Contains(t, out, "Brnz")
}

func TestEmit_UnbalancedControlFrameIsInvariantViolation(t *testing.T) {
	ft := i32Type(0, 0)
	fn := &wasm.FunctionDef{Type: &ft, Body: []byte{
		byte(wasm.OpcodeBlock), 0x40,
	}}
	_, err := emitBody(t, fn, &wasm.Module{})
	require.Error(t, err)
	require.IsType(t, &ErrInvariantViolation{}, err)
}

func TestEmit_ThrowAndCatch(t *testing.T) {
	ft := i32Type(0, 0)
	module := &wasm.Module{ExceptionSection: []wasm.ExceptionType{{Params: []wasm.ValueType{wasm.ValueTypeI32}}}}
	fn := &wasm.FunctionDef{Type: &ft, Body: []byte{
		byte(wasm.OpcodeTry), 0x40,
		byte(wasm.OpcodeI32Const), 0x09,
		byte(wasm.OpcodeThrow), 0x00,
		byte(wasm.OpcodeCatch), 0x00,
		byte(wasm.OpcodeDrop),
		byte(wasm.OpcodeEnd), // end try
		byte(wasm.OpcodeEnd), // end function
	}}
	out, err := emitBody(t, fn, module)
	require.NoError(t, err)
	require.Contains(t, out, "Throw")
	require.Contains(t, out, "LandingPad")
}

func TestEmit_F64PromoteF32_EmitsNoOpContractionGuard(t *testing.T) {
	ft := wasm.FunctionType{Params: []wasm.ValueType{wasm.ValueTypeF32}, Results: []wasm.ValueType{wasm.ValueTypeF64}}
	fn := &wasm.FunctionDef{Type: &ft, Body: []byte{
		byte(wasm.OpcodeLocalGet), 0x00,
		byte(wasm.OpcodeF64PromoteF32),
		byte(wasm.OpcodeEnd),
	}}
	out, err := emitBody(t, fn, &wasm.Module{})
	require.NoError(t, err)
	require.Contains(t, out, "Fpromote")
	// The promote alone is not the conformance-required lowering: a no-op multiply by
	// the f64 constant 1.0 must follow it to block later contraction of the promotion.
	require.Contains(t, out, "Fmul")
	require.Contains(t, out, "F64const")
}

func TestEmit_ThrowAndCatch_SEHBackend(t *testing.T) {
	ft := i32Type(0, 0)
	module := &wasm.Module{ExceptionSection: []wasm.ExceptionType{{Params: []wasm.ValueType{wasm.ValueTypeI32}}}}
	fn := &wasm.FunctionDef{Type: &ft, Body: []byte{
		byte(wasm.OpcodeTry), 0x40,
		byte(wasm.OpcodeI32Const), 0x09,
		byte(wasm.OpcodeThrow), 0x00,
		byte(wasm.OpcodeCatch), 0x00,
		byte(wasm.OpcodeDrop),
		byte(wasm.OpcodeEnd), // end try
		byte(wasm.OpcodeEnd), // end function
	}}

	builder := ssa.NewBuilder()
	e := NewEmitter(builder, module, &wasm.ModuleInstance{}, fn, WithExceptionLowering(unwind.NewSEH()))
	err := e.Emit()
	require.NoError(t, err)

	out := builder.Format()
	require.Contains(t, out, "Throw")
	require.Contains(t, out, "LandingPad")
	// The SEH backend unpacks the landing pad's argument buffer front-to-back rather
	// than reversed, unlike the default itanium backend exercised above.
	require.Contains(t, out, "= Load ")
}

func TestEmit_UnreachableShadowVisitorSkipsNestedBlock(t *testing.T) {
	ft := i32Type(0, 1)
	fn := &wasm.FunctionDef{Type: &ft, Body: []byte{
		byte(wasm.OpcodeUnreachable),
		byte(wasm.OpcodeBlock), 0x40,
		byte(wasm.OpcodeI32Const), 0x01, // dead code: never lowered.
		byte(wasm.OpcodeEnd), // end block
		byte(wasm.OpcodeI32Const), 0x2a,
		byte(wasm.OpcodeEnd), // end function
	}}
	out, err := emitBody(t, fn, &wasm.Module{})
	require.NoError(t, err)
	// Nothing after `unreachable` is ever lowered, inside the nested block or after it:
	// the shadow visitor only tracks nesting depth until a matching end/else/catch
	// restores reachability, and here that never happens before the function ends.
	require.Equal(t, 0, strings.Count(out, "Iconst32"))
	require.Contains(t, out, "Trap")
}

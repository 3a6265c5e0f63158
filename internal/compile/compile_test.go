package compile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wazevo-emit/ssaemit/internal/wasm"
)

func i32UnaryType() wasm.FunctionType {
	return wasm.FunctionType{Params: []wasm.ValueType{wasm.ValueTypeI32}, Results: []wasm.ValueType{wasm.ValueTypeI32}}
}

func TestFunctionDefs(t *testing.T) {
	ft := i32UnaryType()
	module := &wasm.Module{
		TypeSection:     []wasm.FunctionType{ft},
		FunctionSection: []wasm.Index{0, 0},
		CodeSection: []wasm.Code{
			{Body: []byte{byte(wasm.OpcodeLocalGet), 0x00, byte(wasm.OpcodeEnd)}},
			{Body: []byte{byte(wasm.OpcodeI32Const), 0x05, byte(wasm.OpcodeEnd)}},
		},
	}

	defs := FunctionDefs(module)
	require.Len(t, defs, 2)
	require.Equal(t, wasm.Index(0), defs[0].Index)
	require.Equal(t, wasm.Index(1), defs[1].Index)
	require.Same(t, &module.TypeSection[0], defs[0].Type)
}

func TestFunctionDefs_SkipsImportedIndices(t *testing.T) {
	ft := i32UnaryType()
	module := &wasm.Module{
		TypeSection:     []wasm.FunctionType{ft},
		ImportSection:   []wasm.Import{{Kind: wasm.ImportKindFunc, DescFunc: 0}, {Kind: wasm.ImportKindTable}},
		FunctionSection: []wasm.Index{0},
		CodeSection:     []wasm.Code{{Body: []byte{byte(wasm.OpcodeI32Const), 0x01, byte(wasm.OpcodeEnd)}}},
	}

	defs := FunctionDefs(module)
	require.Len(t, defs, 1)
	require.Equal(t, wasm.Index(1), defs[0].Index)
}

func TestCompileAll_AllSucceed(t *testing.T) {
	ft := i32UnaryType()
	module := &wasm.Module{
		TypeSection:     []wasm.FunctionType{ft},
		FunctionSection: []wasm.Index{0, 0, 0},
		CodeSection: []wasm.Code{
			{Body: []byte{byte(wasm.OpcodeLocalGet), 0x00, byte(wasm.OpcodeEnd)}},
			{Body: []byte{byte(wasm.OpcodeI32Const), 0x2a, byte(wasm.OpcodeEnd)}},
			{Body: []byte{byte(wasm.OpcodeLocalGet), 0x00, byte(wasm.OpcodeI32Eqz), byte(wasm.OpcodeEnd)}},
		},
	}

	results, err := CompileAll(Module{Wasm: module, Instance: &wasm.ModuleInstance{}})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, r := range results {
		require.NoError(t, r.Err)
		require.Equal(t, wasm.Index(i), r.Index)
		require.NotEmpty(t, r.Builder.Format())
	}
}

func TestCompileAll_AggregatesFailuresWithoutHidingSuccesses(t *testing.T) {
	ft := i32UnaryType()
	module := &wasm.Module{
		TypeSection:     []wasm.FunctionType{ft},
		FunctionSection: []wasm.Index{0, 0},
		CodeSection: []wasm.Code{
			{Body: []byte{byte(wasm.OpcodeI32Const), 0x01, byte(wasm.OpcodeEnd)}},
			// Ends with an open block: Emit reports the dangling control frame as an
			// invariant violation instead of panicking.
			{Body: []byte{byte(wasm.OpcodeBlock), 0x40}},
		},
	}

	results, err := CompileAll(Module{Wasm: module, Instance: &wasm.ModuleInstance{}})
	require.Error(t, err)
	require.Len(t, results, 2)
	require.NoError(t, results[0].Err)
	require.Error(t, results[1].Err)
}

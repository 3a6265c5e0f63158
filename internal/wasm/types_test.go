package wasm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wazevo-emit/ssaemit/internal/wasm"
)

func TestFunctionType_Equal(t *testing.T) {
	a := &wasm.FunctionType{Params: []wasm.ValueType{wasm.ValueTypeI32, wasm.ValueTypeF64}, Results: []wasm.ValueType{wasm.ValueTypeI32}}
	b := &wasm.FunctionType{Params: []wasm.ValueType{wasm.ValueTypeI32, wasm.ValueTypeF64}, Results: []wasm.ValueType{wasm.ValueTypeI32}}
	c := &wasm.FunctionType{Params: []wasm.ValueType{wasm.ValueTypeI32}, Results: []wasm.ValueType{wasm.ValueTypeI32}}

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
	require.Equal(t, "(i32,f64)->(i32)", a.String())
}

func TestModule_TypeOfFunction(t *testing.T) {
	m := &wasm.Module{
		TypeSection: []wasm.FunctionType{
			{Results: []wasm.ValueType{wasm.ValueTypeI32}},
			{Params: []wasm.ValueType{wasm.ValueTypeI64}},
		},
		ImportSection: []wasm.Import{
			{Kind: wasm.ImportKindFunc, DescFunc: 0},
		},
		FunctionSection: []wasm.Index{1},
	}

	require.Equal(t, &m.TypeSection[0], m.TypeOfFunction(0))
	require.Equal(t, &m.TypeSection[1], m.TypeOfFunction(1))
}

func TestBlockType_Signature(t *testing.T) {
	m := &wasm.Module{TypeSection: []wasm.FunctionType{{Params: []wasm.ValueType{wasm.ValueTypeI32}}}}

	require.Equal(t, &wasm.FunctionType{}, wasm.BlockType{Empty: true}.Signature(m))
	require.Equal(t, &wasm.FunctionType{Results: []wasm.ValueType{wasm.ValueTypeF32}},
		wasm.BlockType{SingleResult: wasm.ValueTypeF32}.Signature(m))
	require.Equal(t, &m.TypeSection[0], wasm.BlockType{HasTypeIndex: true, TypeIndex: 0}.Signature(m))
}

package emit

import "github.com/wazevo-emit/ssaemit/internal/ssa"

// IntrinsicID names one entry of the fixed runtime-intrinsic table the emitted code
// calls into for operations that are cheaper or more correct implemented once in the
// runtime than inlined at every call site: memory growth, IEEE-exact float rounding,
// atomics wait/wake, and exception throwing.
type IntrinsicID int

const (
	IntrinsicUnreachableTrap IntrinsicID = iota
	IntrinsicDivideByZeroOrIntegerOverflowTrap
	IntrinsicInvalidFloatOperationTrap
	IntrinsicMisalignedAtomicTrap
	IntrinsicIndirectCallSignatureMismatch
	IntrinsicGrowMemory
	IntrinsicCurrentMemory
	IntrinsicAtomicWake
	IntrinsicAtomicWaitI32
	IntrinsicAtomicWaitI64
	IntrinsicThrowException
	IntrinsicCurrentExceptionData
	IntrinsicF32Min
	IntrinsicF32Max
	IntrinsicF32Ceil
	IntrinsicF32Floor
	IntrinsicF32Trunc
	IntrinsicF32Nearest
	IntrinsicF64Min
	IntrinsicF64Max
	IntrinsicF64Ceil
	IntrinsicF64Floor
	IntrinsicF64Trunc
	IntrinsicF64Nearest

	IntrinsicMemoryFill
	IntrinsicMemoryCopy
	IntrinsicMemoryInit
	IntrinsicDataDrop
	IntrinsicTableCopy
	IntrinsicTableInit
	IntrinsicElemDrop

	intrinsicCount
)

// intrinsicSignature describes one intrinsic's calling convention, not counting the
// leading execution-context argument every intrinsic call implicitly carries.
type intrinsicSignature struct {
	name    string
	params  []ssa.Type
	results []ssa.Type
}

var intrinsicTable = [intrinsicCount]intrinsicSignature{
	IntrinsicUnreachableTrap:                   {"unreachableTrap", nil, nil},
	IntrinsicDivideByZeroOrIntegerOverflowTrap: {"divideByZeroOrIntegerOverflowTrap", nil, nil},
	IntrinsicInvalidFloatOperationTrap:         {"invalidFloatOperationTrap", nil, nil},
	IntrinsicMisalignedAtomicTrap:              {"misalignedAtomicTrap", nil, nil},
	IntrinsicIndirectCallSignatureMismatch:     {"indirectCallSignatureMismatch", nil, nil},
	IntrinsicGrowMemory:                        {"growMemory", []ssa.Type{ssa.TypeI32}, []ssa.Type{ssa.TypeI32}},
	IntrinsicCurrentMemory:                     {"currentMemory", nil, []ssa.Type{ssa.TypeI32}},
	IntrinsicAtomicWake:                        {"atomic_wake", []ssa.Type{ssa.TypeI64, ssa.TypeI32}, []ssa.Type{ssa.TypeI32}},
	IntrinsicAtomicWaitI32:                     {"atomic_wait_i32", []ssa.Type{ssa.TypeI64, ssa.TypeI32, ssa.TypeI64}, []ssa.Type{ssa.TypeI32}},
	IntrinsicAtomicWaitI64:                     {"atomic_wait_i64", []ssa.Type{ssa.TypeI64, ssa.TypeI64, ssa.TypeI64}, []ssa.Type{ssa.TypeI32}},
	IntrinsicThrowException:                    {"throwException", []ssa.Type{ssa.TypeI64, ssa.TypeI64, ssa.TypeI32}, nil},
	IntrinsicCurrentExceptionData:              {"currentExceptionData", nil, []ssa.Type{ssa.TypeI64}},
	IntrinsicF32Min:                            {"f32.min", []ssa.Type{ssa.TypeF32, ssa.TypeF32}, []ssa.Type{ssa.TypeF32}},
	IntrinsicF32Max:                            {"f32.max", []ssa.Type{ssa.TypeF32, ssa.TypeF32}, []ssa.Type{ssa.TypeF32}},
	IntrinsicF32Ceil:                           {"f32.ceil", []ssa.Type{ssa.TypeF32}, []ssa.Type{ssa.TypeF32}},
	IntrinsicF32Floor:                          {"f32.floor", []ssa.Type{ssa.TypeF32}, []ssa.Type{ssa.TypeF32}},
	IntrinsicF32Trunc:                          {"f32.trunc", []ssa.Type{ssa.TypeF32}, []ssa.Type{ssa.TypeF32}},
	IntrinsicF32Nearest:                        {"f32.nearest", []ssa.Type{ssa.TypeF32}, []ssa.Type{ssa.TypeF32}},
	IntrinsicF64Min:                            {"f64.min", []ssa.Type{ssa.TypeF64, ssa.TypeF64}, []ssa.Type{ssa.TypeF64}},
	IntrinsicF64Max:                            {"f64.max", []ssa.Type{ssa.TypeF64, ssa.TypeF64}, []ssa.Type{ssa.TypeF64}},
	IntrinsicF64Ceil:                           {"f64.ceil", []ssa.Type{ssa.TypeF64}, []ssa.Type{ssa.TypeF64}},
	IntrinsicF64Floor:                          {"f64.floor", []ssa.Type{ssa.TypeF64}, []ssa.Type{ssa.TypeF64}},
	IntrinsicF64Trunc:                          {"f64.trunc", []ssa.Type{ssa.TypeF64}, []ssa.Type{ssa.TypeF64}},
	IntrinsicF64Nearest:                        {"f64.nearest", []ssa.Type{ssa.TypeF64}, []ssa.Type{ssa.TypeF64}},
	IntrinsicMemoryFill:                        {"memory.fill", []ssa.Type{ssa.TypeI32, ssa.TypeI32, ssa.TypeI32}, nil},
	IntrinsicMemoryCopy:                        {"memory.copy", []ssa.Type{ssa.TypeI32, ssa.TypeI32, ssa.TypeI32}, nil},
	IntrinsicMemoryInit:                        {"memory.init", []ssa.Type{ssa.TypeI32, ssa.TypeI32, ssa.TypeI32, ssa.TypeI32}, nil},
	IntrinsicDataDrop:                          {"data.drop", []ssa.Type{ssa.TypeI32}, nil},
	IntrinsicTableCopy:                         {"table.copy", []ssa.Type{ssa.TypeI32, ssa.TypeI32, ssa.TypeI32}, nil},
	IntrinsicTableInit:                         {"table.init", []ssa.Type{ssa.TypeI32, ssa.TypeI32, ssa.TypeI32, ssa.TypeI32}, nil},
	IntrinsicElemDrop:                          {"elem.drop", []ssa.Type{ssa.TypeI32}, nil},
}

// intrinsicSignatureOf caches one *ssa.Signature per IntrinsicID, declared lazily the
// first time a function calls it so DeclareSignature only ever sees signatures this
// function actually references.
func (e *Emitter) intrinsicSignatureOf(id IntrinsicID) *ssa.Signature {
	if e.intrinsicSigs == nil {
		e.intrinsicSigs = make(map[IntrinsicID]*ssa.Signature, intrinsicCount)
	}
	if sig, ok := e.intrinsicSigs[id]; ok {
		return sig
	}
	desc := intrinsicTable[id]
	sig := &ssa.Signature{
		ID:      ssa.SignatureID(1_000_000 + uint32(id)), // reserved ID space, never collides with wasm type indices.
		Params:  append([]ssa.Type{ssa.TypeI64}, desc.params...),
		Results: desc.results,
	}
	e.builder.DeclareSignature(sig)
	e.intrinsicSigs[id] = sig
	return sig
}

// emitIntrinsicCall calls the named runtime intrinsic, passing the execution context
// as its implicit first argument.
func (e *Emitter) emitIntrinsicCall(id IntrinsicID, args []ssa.Value) []ssa.Value {
	sig := e.intrinsicSignatureOf(id)
	fullArgs := make([]ssa.Value, 0, len(args)+1)
	fullArgs = append(fullArgs, e.execCtxValue)
	fullArgs = append(fullArgs, args...)

	instr := e.emitCall(e.intrinsicFuncRef(id), sig, fullArgs)

	if len(sig.Results) == 0 {
		return nil
	}
	first, rest := instr.Returns()
	results := make([]ssa.Value, 0, len(rest)+1)
	results = append(results, first)
	results = append(results, rest...)
	return results
}

// intrinsicFuncRef maps an IntrinsicID to the FuncRef backends resolve against the
// runtime's fixed symbol table; the reserved high bit keeps this space disjoint from
// the module's own FunctionSection indices.
func (e *Emitter) intrinsicFuncRef(id IntrinsicID) ssa.FuncRef {
	return ssa.FuncRef(0x80000000 | uint32(id))
}

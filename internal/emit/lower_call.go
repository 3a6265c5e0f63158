package emit

import (
	"github.com/wazevo-emit/ssaemit/internal/ssa"
	"github.com/wazevo-emit/ssaemit/internal/wasm"
)

// callSignatureOf caches one *ssa.Signature per wasm type index, declared lazily so a
// function's UsedSignatures only ever reports the callee shapes it actually calls.
func (e *Emitter) callSignatureOf(typeIdx wasm.Index) *ssa.Signature {
	if e.callSigs == nil {
		e.callSigs = make(map[wasm.Index]*ssa.Signature)
	}
	if sig, ok := e.callSigs[typeIdx]; ok {
		return sig
	}
	ft := &e.module.TypeSection[typeIdx]
	sig := signatureForFunctionType(ft)
	sig.ID = ssa.SignatureID(typeIdx)
	e.builder.DeclareSignature(&sig)
	e.callSigs[typeIdx] = &sig
	return &sig
}

// handleCall implements spec §4.3's direct call: a predeclared function reference,
// fed the execution/module-context pair every callee expects ahead of its declared
// WebAssembly arguments.
func (e *Emitter) handleCall(funcIdx wasm.Index) {
	ft := e.module.TypeOfFunction(funcIdx)
	typeIdx := e.typeIndexOfFunctionType(ft)
	sig := e.callSignatureOf(typeIdx)

	args := e.stack.PopN(len(ft.Params))
	fullArgs := make([]ssa.Value, 0, len(args)+2)
	fullArgs = append(fullArgs, e.execCtxValue, e.moduleCtxValue)
	fullArgs = append(fullArgs, args...)

	instr := e.emitCall(ssa.FuncRef(funcIdx), sig, fullArgs)
	e.pushCallResults(instr, len(ft.Results))
}

// handleCallIndirect implements spec §4.3's indirect call: a table lookup of
// {type-tag, code-pointer}, a type-tag compare-and-trap against the expected
// signature's canonical identity, then a call through the resolved code pointer.
func (e *Emitter) handleCallIndirect(typeIdx, tableIdx wasm.Index) {
	funcSlot := e.stack.Pop()
	ft := &e.module.TypeSection[typeIdx]
	sig := e.callSignatureOf(typeIdx)

	args := e.stack.PopN(len(ft.Params))

	tableBase := e.builder.FindValue(e.tableBaseVar)
	slotSize := e.builder.AllocateInstruction()
	slotSize.AsIconst64(16) // sizeof(wasm.TableElement)
	e.builder.InsertInstruction(slotSize)
	idx64 := e.builder.AllocateInstruction()
	idx64.AsUExtend(funcSlot, 32, 64)
	e.builder.InsertInstruction(idx64)
	byteOffset := e.binop1(func(instr *ssa.Instruction, a, b ssa.Value) { instr.AsImul(a, b) }, idx64.Return(), slotSize.Return())
	slotAddr := e.binop1(func(instr *ssa.Instruction, a, b ssa.Value) { instr.AsIadd(a, b) }, tableBase, byteOffset)

	tagLoad := e.builder.AllocateInstruction()
	tagLoad.AsLoad(slotAddr, 0, ssa.TypeI64)
	e.builder.InsertInstruction(tagLoad)

	expectedTag := e.builder.AllocateInstruction()
	expectedTag.AsIconst64(e.instance.TypeInstanceIDs[typeIdx])
	e.builder.InsertInstruction(expectedTag)

	mismatched := e.binop1(func(instr *ssa.Instruction, a, b ssa.Value) { instr.AsIcmp(a, b, ssa.IntegerCmpCondNotEqual) }, tagLoad.Return(), expectedTag.Return())
	e.emitTrapIfTrue(mismatched, ssa.TrapKindIndirectCallTypeMismatch)

	codeOffsetConst := e.builder.AllocateInstruction()
	codeOffsetConst.AsIconst64(8) // offsetof(TableElement, CodePointer)
	e.builder.InsertInstruction(codeOffsetConst)
	codeAddr := e.binop1(func(instr *ssa.Instruction, a, b ssa.Value) { instr.AsIadd(a, b) }, slotAddr, codeOffsetConst.Return())
	codePtrLoad := e.builder.AllocateInstruction()
	codePtrLoad.AsLoad(codeAddr, 0, ssa.TypeI64)
	e.builder.InsertInstruction(codePtrLoad)

	fullArgs := make([]ssa.Value, 0, len(args)+2)
	fullArgs = append(fullArgs, e.execCtxValue, e.moduleCtxValue)
	fullArgs = append(fullArgs, args...)

	instr := e.builder.AllocateInstruction()
	instr.AsCallIndirect(codePtrLoad.Return(), sig, fullArgs)
	e.builder.InsertInstruction(instr)
	e.pushCallResults(instr, len(ft.Results))
}

func (e *Emitter) pushCallResults(instr *ssa.Instruction, n int) {
	if n == 0 {
		return
	}
	first, rest := instr.Returns()
	e.stack.Push(first)
	for _, v := range rest {
		e.stack.Push(v)
	}
}

// typeIndexOfFunctionType resolves a *wasm.FunctionType back to its TypeSection index,
// needed because TypeOfFunction returns the resolved type, not its index, but
// call_indirect's signature check needs the canonical index to look up TypeInstanceIDs.
func (e *Emitter) typeIndexOfFunctionType(ft *wasm.FunctionType) wasm.Index {
	for i := range e.module.TypeSection {
		if &e.module.TypeSection[i] == ft {
			return wasm.Index(i)
		}
	}
	panic("BUG: function type not found in type section")
}

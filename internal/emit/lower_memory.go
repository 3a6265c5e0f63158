package emit

import (
	"github.com/wazevo-emit/ssaemit/internal/ssa"
	"github.com/wazevo-emit/ssaemit/internal/wasm"
)

// effectiveAddress implements spec §4.3's memory-address rule: the i32 byte index is
// zero-extended (never sign-extended) to the pointer width, then a 32-bit static
// offset (also zero-extended) is added, before adding the memory's base. No explicit
// bounds check is emitted; the target is assumed to run inside a guard-paged 64-bit
// sandbox that SIGSEGVs on out-of-bounds access and reflects it back as a trap.
func (e *Emitter) effectiveAddress(index ssa.Value, offset uint32) ssa.Value {
	ext := e.builder.AllocateInstruction()
	ext.AsUExtend(index, 32, 64)
	e.builder.InsertInstruction(ext)

	base := e.builder.FindValue(e.memoryBaseVar)
	addr := e.binop1(func(instr *ssa.Instruction, a, b ssa.Value) { instr.AsIadd(a, b) }, ext.Return(), base)
	if offset == 0 {
		return addr
	}
	off := e.builder.AllocateInstruction()
	off.AsIconst64(uint64(offset))
	e.builder.InsertInstruction(off)
	return e.binop1(func(instr *ssa.Instruction, a, b ssa.Value) { instr.AsIadd(a, b) }, addr, off.Return())
}

func (e *Emitter) handleLoad(op wasm.Opcode, offset uint32) {
	index := e.stack.Pop()
	addr := e.effectiveAddress(index, offset)
	instr := e.builder.AllocateInstruction()
	switch op {
	case wasm.OpcodeI32Load:
		instr.AsLoad(addr, 0, ssa.TypeI32)
	case wasm.OpcodeI64Load:
		instr.AsLoad(addr, 0, ssa.TypeI64)
	case wasm.OpcodeF32Load:
		instr.AsLoad(addr, 0, ssa.TypeF32)
	case wasm.OpcodeF64Load:
		instr.AsLoad(addr, 0, ssa.TypeF64)
	case wasm.OpcodeI32Load8S:
		instr.AsExtLoad(ssa.OpcodeSload8, addr, 0, false)
	case wasm.OpcodeI32Load8U:
		instr.AsExtLoad(ssa.OpcodeUload8, addr, 0, false)
	case wasm.OpcodeI32Load16S:
		instr.AsExtLoad(ssa.OpcodeSload16, addr, 0, false)
	case wasm.OpcodeI32Load16U:
		instr.AsExtLoad(ssa.OpcodeUload16, addr, 0, false)
	case wasm.OpcodeI64Load8S:
		instr.AsExtLoad(ssa.OpcodeSload8, addr, 0, true)
	case wasm.OpcodeI64Load8U:
		instr.AsExtLoad(ssa.OpcodeUload8, addr, 0, true)
	case wasm.OpcodeI64Load16S:
		instr.AsExtLoad(ssa.OpcodeSload16, addr, 0, true)
	case wasm.OpcodeI64Load16U:
		instr.AsExtLoad(ssa.OpcodeUload16, addr, 0, true)
	case wasm.OpcodeI64Load32S:
		instr.AsExtLoad(ssa.OpcodeSload32, addr, 0, true)
	case wasm.OpcodeI64Load32U:
		instr.AsExtLoad(ssa.OpcodeUload32, addr, 0, true)
	default:
		panic("BUG: unhandled load opcode")
	}
	e.builder.InsertInstruction(instr)
	e.stack.Push(instr.Return())
}

func (e *Emitter) handleStore(op wasm.Opcode, offset uint32) {
	value := e.stack.Pop()
	index := e.stack.Pop()
	addr := e.effectiveAddress(index, offset)
	instr := e.builder.AllocateInstruction()
	switch op {
	case wasm.OpcodeI32Store, wasm.OpcodeI64Store, wasm.OpcodeF32Store, wasm.OpcodeF64Store:
		instr.AsStore(ssa.OpcodeStore, value, addr, 0)
	case wasm.OpcodeI32Store8, wasm.OpcodeI64Store8:
		instr.AsStore(ssa.OpcodeIstore8, value, addr, 0)
	case wasm.OpcodeI32Store16, wasm.OpcodeI64Store16:
		instr.AsStore(ssa.OpcodeIstore16, value, addr, 0)
	case wasm.OpcodeI64Store32:
		instr.AsStore(ssa.OpcodeIstore32, value, addr, 0)
	default:
		panic("BUG: unhandled store opcode")
	}
	e.builder.InsertInstruction(instr)
}

func (e *Emitter) handleDrop() {
	e.stack.Pop()
}

func (e *Emitter) handleSelect() {
	cond := e.stack.Pop()
	y := e.stack.Pop()
	x := e.stack.Pop()
	instr := e.builder.AllocateInstruction()
	instr.AsSelect(cond, x, y)
	e.builder.InsertInstruction(instr)
	e.stack.Push(instr.Return())
}

// handleMemoryFill/Copy/Init delegate to runtime intrinsics rather than inlining a
// byte-at-a-time loop: bulk-memory operators are rare and the runtime's memmove/memset
// already handle overlap and zero-length edge cases correctly.
func (e *Emitter) handleMemoryFill() {
	n := e.stack.Pop()
	val := e.stack.Pop()
	dst := e.stack.Pop()
	e.emitIntrinsicCall(IntrinsicMemoryFill, []ssa.Value{dst, val, n})
}

func (e *Emitter) handleMemoryCopy() {
	n := e.stack.Pop()
	src := e.stack.Pop()
	dst := e.stack.Pop()
	e.emitIntrinsicCall(IntrinsicMemoryCopy, []ssa.Value{dst, src, n})
}

func (e *Emitter) handleMemoryInit(dataIdx uint32) {
	n := e.stack.Pop()
	src := e.stack.Pop()
	dst := e.stack.Pop()
	idx := e.builder.AllocateInstruction()
	idx.AsIconst32(dataIdx)
	e.builder.InsertInstruction(idx)
	e.emitIntrinsicCall(IntrinsicMemoryInit, []ssa.Value{idx.Return(), dst, src, n})
}

func (e *Emitter) handleDataDrop(dataIdx uint32) {
	idx := e.builder.AllocateInstruction()
	idx.AsIconst32(dataIdx)
	e.builder.InsertInstruction(idx)
	e.emitIntrinsicCall(IntrinsicDataDrop, []ssa.Value{idx.Return()})
}

func (e *Emitter) handleTableCopy() {
	n := e.stack.Pop()
	src := e.stack.Pop()
	dst := e.stack.Pop()
	e.emitIntrinsicCall(IntrinsicTableCopy, []ssa.Value{dst, src, n})
}

func (e *Emitter) handleTableInit(elemIdx uint32) {
	n := e.stack.Pop()
	src := e.stack.Pop()
	dst := e.stack.Pop()
	idx := e.builder.AllocateInstruction()
	idx.AsIconst32(elemIdx)
	e.builder.InsertInstruction(idx)
	e.emitIntrinsicCall(IntrinsicTableInit, []ssa.Value{idx.Return(), dst, src, n})
}

func (e *Emitter) handleElemDrop(elemIdx uint32) {
	idx := e.builder.AllocateInstruction()
	idx.AsIconst32(elemIdx)
	e.builder.InsertInstruction(idx)
	e.emitIntrinsicCall(IntrinsicElemDrop, []ssa.Value{idx.Return()})
}

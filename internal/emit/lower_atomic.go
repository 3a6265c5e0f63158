package emit

import (
	"github.com/wazevo-emit/ssaemit/internal/ssa"
	"github.com/wazevo-emit/ssaemit/internal/wasm"
)

// atomicTyp/atomicBits resolve an OpcodeAtomic's value width and SSA type, needed for
// both the misalignment check and the operation itself.
func atomicTyp(op wasm.OpcodeAtomic) (typ ssa.Type, bits uint32) {
	switch op {
	case wasm.OpcodeAtomicI64Load, wasm.OpcodeAtomicI64Store,
		wasm.OpcodeAtomicI64RmwAdd, wasm.OpcodeAtomicI64RmwSub, wasm.OpcodeAtomicI64RmwAnd,
		wasm.OpcodeAtomicI64RmwOr, wasm.OpcodeAtomicI64RmwXor, wasm.OpcodeAtomicI64RmwXchg,
		wasm.OpcodeAtomicI64RmwCmpxchg, wasm.OpcodeAtomicWait64:
		return ssa.TypeI64, 8
	default:
		return ssa.TypeI32, 4
	}
}

// emitAlignmentTrap implements spec §4.3's atomics addition: every atomic access
// additionally traps on misalignment (checked against the operation's natural width,
// not the declared alignment hint), since seq_cst atomics generally require hardware
// alignment.
func (e *Emitter) emitAlignmentTrap(addr ssa.Value, bits uint32) {
	maskConst := e.builder.AllocateInstruction()
	maskConst.AsIconst64(uint64(bits - 1))
	e.builder.InsertInstruction(maskConst)
	low := e.binop1(func(instr *ssa.Instruction, a, b ssa.Value) { instr.AsBand(a, b) }, addr, maskConst.Return())
	zero := e.emitZeroConstant(ssa.TypeI64)
	misaligned := e.binop1(func(instr *ssa.Instruction, a, b ssa.Value) { instr.AsIcmp(a, b, ssa.IntegerCmpCondNotEqual) }, low, zero)
	e.emitTrapIfTrue(misaligned, ssa.TrapKindMisalignedAtomic)
}

func (e *Emitter) handleAtomicLoad(op wasm.OpcodeAtomic, offset uint32) {
	typ, bits := atomicTyp(op)
	index := e.stack.Pop()
	addr := e.effectiveAddress(index, offset)
	e.emitAlignmentTrap(addr, bits)
	instr := e.builder.AllocateInstruction()
	instr.AsAtomicLoad(addr, 0, typ)
	e.builder.InsertInstruction(instr)
	e.stack.Push(instr.Return())
}

func (e *Emitter) handleAtomicStore(op wasm.OpcodeAtomic, offset uint32) {
	_, bits := atomicTyp(op)
	value := e.stack.Pop()
	index := e.stack.Pop()
	addr := e.effectiveAddress(index, offset)
	e.emitAlignmentTrap(addr, bits)
	instr := e.builder.AllocateInstruction()
	instr.AsAtomicStore(value, addr, 0)
	e.builder.InsertInstruction(instr)
}

var atomicRmwOps = map[wasm.OpcodeAtomic]ssa.AtomicRmwOp{
	wasm.OpcodeAtomicI32RmwAdd: ssa.AtomicRmwOpAdd, wasm.OpcodeAtomicI64RmwAdd: ssa.AtomicRmwOpAdd,
	wasm.OpcodeAtomicI32RmwSub: ssa.AtomicRmwOpSub, wasm.OpcodeAtomicI64RmwSub: ssa.AtomicRmwOpSub,
	wasm.OpcodeAtomicI32RmwAnd: ssa.AtomicRmwOpAnd, wasm.OpcodeAtomicI64RmwAnd: ssa.AtomicRmwOpAnd,
	wasm.OpcodeAtomicI32RmwOr: ssa.AtomicRmwOpOr, wasm.OpcodeAtomicI64RmwOr: ssa.AtomicRmwOpOr,
	wasm.OpcodeAtomicI32RmwXor: ssa.AtomicRmwOpXor, wasm.OpcodeAtomicI64RmwXor: ssa.AtomicRmwOpXor,
	wasm.OpcodeAtomicI32RmwXchg: ssa.AtomicRmwOpXchg, wasm.OpcodeAtomicI64RmwXchg: ssa.AtomicRmwOpXchg,
}

// handleAtomicRmw implements spec §4.3's 8-standard-op RMW family, each mapped
// straight onto OpcodeAtomicRmw plus the shared alignment trap.
func (e *Emitter) handleAtomicRmw(op wasm.OpcodeAtomic, offset uint32) {
	typ, bits := atomicTyp(op)
	value := e.stack.Pop()
	index := e.stack.Pop()
	addr := e.effectiveAddress(index, offset)
	e.emitAlignmentTrap(addr, bits)

	rmwOp, ok := atomicRmwOps[op]
	if !ok {
		panic("BUG: unhandled atomic rmw opcode")
	}
	instr := e.builder.AllocateInstruction()
	instr.AsAtomicRmw(rmwOp, addr, value, 0, typ)
	e.builder.InsertInstruction(instr)
	e.stack.Push(instr.Return())
}

func (e *Emitter) handleAtomicCmpxchg(op wasm.OpcodeAtomic, offset uint32) {
	typ, bits := atomicTyp(op)
	replacement := e.stack.Pop()
	expected := e.stack.Pop()
	index := e.stack.Pop()
	addr := e.effectiveAddress(index, offset)
	e.emitAlignmentTrap(addr, bits)

	instr := e.builder.AllocateInstruction()
	instr.AsAtomicCas(addr, expected, replacement, 0, typ)
	e.builder.InsertInstruction(instr)
	e.stack.Push(instr.Return())
}

func (e *Emitter) handleAtomicNotify(offset uint32) {
	count := e.stack.Pop()
	index := e.stack.Pop()
	addr := e.effectiveAddress(index, offset)
	e.emitAlignmentTrap(addr, 4)
	results := e.emitIntrinsicCall(IntrinsicAtomicWake, []ssa.Value{addr, count})
	e.stack.Push(results[0])
}

func (e *Emitter) handleAtomicWait(op wasm.OpcodeAtomic, offset uint32) {
	timeout := e.stack.Pop()
	expected := e.stack.Pop()
	index := e.stack.Pop()
	addr := e.effectiveAddress(index, offset)

	id := IntrinsicAtomicWaitI32
	bits := uint32(4)
	if op == wasm.OpcodeAtomicWait64 {
		id, bits = IntrinsicAtomicWaitI64, 8
	}
	e.emitAlignmentTrap(addr, bits)
	results := e.emitIntrinsicCall(id, []ssa.Value{addr, expected, timeout})
	e.stack.Push(results[0])
}

func (e *Emitter) handleFence() {
	instr := e.builder.AllocateInstruction()
	instr.AsFence()
	e.builder.InsertInstruction(instr)
}

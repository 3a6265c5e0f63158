package emit

import (
	"github.com/wazevo-emit/ssaemit/internal/decode"
	"github.com/wazevo-emit/ssaemit/internal/ssa"
	"github.com/wazevo-emit/ssaemit/internal/wasm"
)

// emitLoadMemoryAndTableBase implements spec §4.4: the entry block derives the linear
// memory's base/length and the table's base address from the incoming module-context
// pointer, at the fixed offsets instance carries, and keeps them as Variables so later
// memory.grow/table operations can redefine them without re-deriving from context.
func (e *Emitter) emitLoadMemoryAndTableBase(entry ssa.BasicBlock) {
	memBase := e.loadFromModuleCtx(e.instance.MemoryBaseOffset, ssa.TypeI64)
	memLen := e.loadFromModuleCtx(e.instance.MemoryLenOffset, ssa.TypeI64)
	tblBase := e.loadFromModuleCtx(e.instance.TableBaseOffset, ssa.TypeI64)
	e.builder.DefineVariable(e.memoryBaseVar, memBase, entry)
	e.builder.DefineVariable(e.memoryLenVar, memLen, entry)
	e.builder.DefineVariable(e.tableBaseVar, tblBase, entry)
}

func (e *Emitter) loadFromModuleCtx(offset uint32, typ ssa.Type) ssa.Value {
	instr := e.builder.AllocateInstruction()
	instr.AsLoad(e.moduleCtxValue, offset, typ)
	e.builder.InsertInstruction(instr)
	return instr.Return()
}

func (e *Emitter) handleLocalGet(idx uint32) {
	e.stack.Push(e.builder.FindValue(e.localVars[idx]))
}

func (e *Emitter) handleLocalSet(idx uint32) {
	v := e.stack.Pop()
	e.builder.DefineVariableInCurrentBB(e.localVars[idx], v)
}

func (e *Emitter) handleLocalTee(idx uint32) {
	v := e.stack.PeekAt(0)
	e.builder.DefineVariableInCurrentBB(e.localVars[idx], v)
}

// globalOffset resolves a global index's byte offset within the per-instance globals
// region; globals are packed back to back in declaration order starting at
// instance.GlobalsOffset, each taking its ValueType.Size() bytes with no padding.
func (e *Emitter) globalOffset(idx wasm.Index) uint32 {
	off := e.instance.GlobalsOffset
	for i := wasm.Index(0); i < idx; i++ {
		off += e.module.GlobalSection[i].Type.ValType.Size()
	}
	return off
}

// handleGlobalGet implements spec §4.4: mutable globals are reloaded from the
// instance's global-data region on every access (correctness over caching, since the
// emitter never assumes exclusive ownership of the instance); immutable globals fold
// to the constant their initializer expression already computed.
func (e *Emitter) handleGlobalGet(idx wasm.Index) {
	g := e.module.GlobalSection[idx]
	if !g.Type.Mutable {
		e.stack.Push(e.emitConstantExpression(g.Init, g.Type.ValType))
		return
	}
	st := wasmTypeToSSA(g.Type.ValType)
	instr := e.builder.AllocateInstruction()
	instr.AsLoad(e.moduleCtxValue, e.globalOffset(idx), st)
	e.builder.InsertInstruction(instr)
	e.stack.Push(instr.Return())
}

func (e *Emitter) handleGlobalSet(idx wasm.Index) {
	v := e.stack.Pop()
	instr := e.builder.AllocateInstruction()
	instr.AsStore(ssa.OpcodeStore, v, e.moduleCtxValue, e.globalOffset(idx))
	e.builder.InsertInstruction(instr)
}

// emitConstantExpression lowers one of the handful of operators WebAssembly allows in
// a constant-expression context (i32/i64/f32/f64.const, global.get of an already-
// immutable global; ref.null/ref.func are out of scope for value-carrying globals).
func (e *Emitter) emitConstantExpression(ce wasm.ConstantExpression, want wasm.ValueType) ssa.Value {
	dec := decode.NewDecoder(ce.Data)
	op, err := dec.Next(e.module)
	if err != nil {
		panic(err)
	}
	instr := e.builder.AllocateInstruction()
	switch op.Opcode {
	case wasm.OpcodeI32Const:
		instr.AsIconst32(uint32(op.I32))
	case wasm.OpcodeI64Const:
		instr.AsIconst64(uint64(op.I64))
	case wasm.OpcodeF32Const:
		instr.AsF32const(op.F32)
	case wasm.OpcodeF64Const:
		instr.AsF64const(op.F64)
	case wasm.OpcodeGlobalGet:
		other := e.module.GlobalSection[op.GlobalIndex]
		return e.emitConstantExpression(other.Init, want)
	default:
		panic("BUG: unsupported constant expression opcode")
	}
	e.builder.InsertInstruction(instr)
	return instr.Return()
}

func (e *Emitter) handleMemorySize() {
	e.stack.Push(e.emitIntrinsicCall(IntrinsicCurrentMemory, nil)[0])
}

func (e *Emitter) handleMemoryGrow() {
	delta := e.stack.Pop()
	results := e.emitIntrinsicCall(IntrinsicGrowMemory, []ssa.Value{delta})
	e.stack.Push(results[0])
	// The growth intrinsic may have moved the backing allocation; reload the cached
	// base/length rather than trust the pre-grow Variable definitions.
	e.emitLoadMemoryAndTableBase(e.builder.CurrentBlock())
}

package emit

import (
	"fmt"

	"github.com/wazevo-emit/ssaemit/internal/decode"
	"github.com/wazevo-emit/ssaemit/internal/numeric"
	"github.com/wazevo-emit/ssaemit/internal/ssa"
	"github.com/wazevo-emit/ssaemit/internal/wasm"
)

// dispatch routes one decoded operator to its lowering handler. It is the single
// switch every control/variable/memory/numeric/atomic/SIMD/exception handler in this
// package is reachable from.
func (e *Emitter) dispatch(op decode.Operator) error {
	switch op.Opcode {
	case wasm.OpcodeUnreachable:
		e.handleUnreachable()
	case wasm.OpcodeNop:
		// no-op.

	case wasm.OpcodeBlock:
		params, results := e.blockTypeSignature(op.BlockType)
		e.handleBlock(params, results)
	case wasm.OpcodeLoop:
		params, results := e.blockTypeSignature(op.BlockType)
		e.handleLoop(params, results)
	case wasm.OpcodeIf:
		params, results := e.blockTypeSignature(op.BlockType)
		e.handleIf(params, results)
	case wasm.OpcodeElse:
		e.handleElse()
	case wasm.OpcodeTry:
		params, results := e.blockTypeSignature(op.BlockType)
		e.handleTry(params, results)
	case wasm.OpcodeCatch:
		e.handleCatch(op.ExceptionIndex)
	case wasm.OpcodeCatchAll:
		e.handleCatchAll()
	case wasm.OpcodeThrow:
		e.handleThrow(op.ExceptionIndex)
	case wasm.OpcodeRethrow:
		e.handleRethrow(op.Depth)
	case wasm.OpcodeEnd:
		e.dispatchEnd()
	case wasm.OpcodeBr:
		e.handleBr(op.Depth)
	case wasm.OpcodeBrIf:
		e.handleBrIf(op.Depth)
	case wasm.OpcodeBrTable:
		e.handleBrTable(op.Targets, op.Default)
	case wasm.OpcodeReturn:
		e.handleReturn()
	case wasm.OpcodeCall:
		e.handleCall(op.FuncIndex)
	case wasm.OpcodeCallIndirect:
		e.handleCallIndirect(op.TypeIndex, op.TableIndex)

	case wasm.OpcodeDrop:
		e.handleDrop()
	case wasm.OpcodeSelect:
		e.handleSelect()

	case wasm.OpcodeLocalGet:
		e.handleLocalGet(op.LocalIndex)
	case wasm.OpcodeLocalSet:
		e.handleLocalSet(op.LocalIndex)
	case wasm.OpcodeLocalTee:
		e.handleLocalTee(op.LocalIndex)
	case wasm.OpcodeGlobalGet:
		e.handleGlobalGet(op.GlobalIndex)
	case wasm.OpcodeGlobalSet:
		e.handleGlobalSet(op.GlobalIndex)

	case wasm.OpcodeI32Load, wasm.OpcodeI64Load, wasm.OpcodeF32Load, wasm.OpcodeF64Load,
		wasm.OpcodeI32Load8S, wasm.OpcodeI32Load8U, wasm.OpcodeI32Load16S, wasm.OpcodeI32Load16U,
		wasm.OpcodeI64Load8S, wasm.OpcodeI64Load8U, wasm.OpcodeI64Load16S, wasm.OpcodeI64Load16U,
		wasm.OpcodeI64Load32S, wasm.OpcodeI64Load32U:
		e.handleLoad(op.Opcode, op.Offset32)
	case wasm.OpcodeI32Store, wasm.OpcodeI64Store, wasm.OpcodeF32Store, wasm.OpcodeF64Store,
		wasm.OpcodeI32Store8, wasm.OpcodeI32Store16, wasm.OpcodeI64Store8, wasm.OpcodeI64Store16,
		wasm.OpcodeI64Store32:
		e.handleStore(op.Opcode, op.Offset32)
	case wasm.OpcodeMemorySize:
		e.handleMemorySize()
	case wasm.OpcodeMemoryGrow:
		e.handleMemoryGrow()

	case wasm.OpcodeI32Const:
		e.emitConst32(uint32(op.I32))
	case wasm.OpcodeI64Const:
		e.emitConst64(uint64(op.I64))
	case wasm.OpcodeF32Const:
		e.emitConstF32(op.F32)
	case wasm.OpcodeF64Const:
		e.emitConstF64(op.F64)

	case wasm.OpcodeI32Eqz:
		e.emitEqz(ssa.TypeI32)
	case wasm.OpcodeI64Eqz:
		e.emitEqz(ssa.TypeI64)

	case wasm.OpcodeI32Eq, wasm.OpcodeI64Eq:
		e.icmp(ssa.IntegerCmpCondEqual)
	case wasm.OpcodeI32Ne, wasm.OpcodeI64Ne:
		e.icmp(ssa.IntegerCmpCondNotEqual)
	case wasm.OpcodeI32LtS, wasm.OpcodeI64LtS:
		e.icmp(ssa.IntegerCmpCondSignedLessThan)
	case wasm.OpcodeI32LtU, wasm.OpcodeI64LtU:
		e.icmp(ssa.IntegerCmpCondUnsignedLessThan)
	case wasm.OpcodeI32GtS, wasm.OpcodeI64GtS:
		e.icmp(ssa.IntegerCmpCondSignedGreaterThan)
	case wasm.OpcodeI32GtU, wasm.OpcodeI64GtU:
		e.icmp(ssa.IntegerCmpCondUnsignedGreaterThan)
	case wasm.OpcodeI32LeS, wasm.OpcodeI64LeS:
		e.icmp(ssa.IntegerCmpCondSignedLessThanOrEqual)
	case wasm.OpcodeI32LeU, wasm.OpcodeI64LeU:
		e.icmp(ssa.IntegerCmpCondUnsignedLessThanOrEqual)
	case wasm.OpcodeI32GeS, wasm.OpcodeI64GeS:
		e.icmp(ssa.IntegerCmpCondSignedGreaterThanOrEqual)
	case wasm.OpcodeI32GeU, wasm.OpcodeI64GeU:
		e.icmp(ssa.IntegerCmpCondUnsignedGreaterThanOrEqual)

	case wasm.OpcodeF32Eq, wasm.OpcodeF64Eq:
		e.fcmp(ssa.FloatCmpCondEqual)
	case wasm.OpcodeF32Ne, wasm.OpcodeF64Ne:
		e.fcmp(ssa.FloatCmpCondNotEqual)
	case wasm.OpcodeF32Lt, wasm.OpcodeF64Lt:
		e.fcmp(ssa.FloatCmpCondLessThan)
	case wasm.OpcodeF32Gt, wasm.OpcodeF64Gt:
		e.fcmp(ssa.FloatCmpCondGreaterThan)
	case wasm.OpcodeF32Le, wasm.OpcodeF64Le:
		e.fcmp(ssa.FloatCmpCondLessThanOrEqual)
	case wasm.OpcodeF32Ge, wasm.OpcodeF64Ge:
		e.fcmp(ssa.FloatCmpCondGreaterThanOrEqual)

	case wasm.OpcodeI32Clz:
		e.unop(func(i *ssa.Instruction, x ssa.Value) { i.AsClz(x) })
	case wasm.OpcodeI64Clz:
		e.unop(func(i *ssa.Instruction, x ssa.Value) { i.AsClz(x) })
	case wasm.OpcodeI32Ctz, wasm.OpcodeI64Ctz:
		e.unop(func(i *ssa.Instruction, x ssa.Value) { i.AsCtz(x) })
	case wasm.OpcodeI32Popcnt, wasm.OpcodeI64Popcnt:
		e.unop(func(i *ssa.Instruction, x ssa.Value) { i.AsPopcnt(x) })

	case wasm.OpcodeI32Add, wasm.OpcodeI64Add:
		e.binop(func(i *ssa.Instruction, x, y ssa.Value) { i.AsIadd(x, y) })
	case wasm.OpcodeI32Sub, wasm.OpcodeI64Sub:
		e.binop(func(i *ssa.Instruction, x, y ssa.Value) { i.AsIsub(x, y) })
	case wasm.OpcodeI32Mul, wasm.OpcodeI64Mul:
		e.binop(func(i *ssa.Instruction, x, y ssa.Value) { i.AsImul(x, y) })
	case wasm.OpcodeI32DivS:
		e.emitDivOrRem(true, false, 32)
	case wasm.OpcodeI64DivS:
		e.emitDivOrRem(true, false, 64)
	case wasm.OpcodeI32DivU:
		e.emitDivOrRem(false, false, 32)
	case wasm.OpcodeI64DivU:
		e.emitDivOrRem(false, false, 64)
	case wasm.OpcodeI32RemS:
		e.emitDivOrRem(true, true, 32)
	case wasm.OpcodeI64RemS:
		e.emitDivOrRem(true, true, 64)
	case wasm.OpcodeI32RemU:
		e.emitDivOrRem(false, true, 32)
	case wasm.OpcodeI64RemU:
		e.emitDivOrRem(false, true, 64)
	case wasm.OpcodeI32And, wasm.OpcodeI64And:
		e.binop(func(i *ssa.Instruction, x, y ssa.Value) { i.AsBand(x, y) })
	case wasm.OpcodeI32Or, wasm.OpcodeI64Or:
		e.binop(func(i *ssa.Instruction, x, y ssa.Value) { i.AsBor(x, y) })
	case wasm.OpcodeI32Xor, wasm.OpcodeI64Xor:
		e.binop(func(i *ssa.Instruction, x, y ssa.Value) { i.AsBxor(x, y) })
	case wasm.OpcodeI32Shl:
		e.emitShift('l', 32)
	case wasm.OpcodeI64Shl:
		e.emitShift('l', 64)
	case wasm.OpcodeI32ShrS:
		e.emitShift('s', 32)
	case wasm.OpcodeI64ShrS:
		e.emitShift('s', 64)
	case wasm.OpcodeI32ShrU:
		e.emitShift('u', 32)
	case wasm.OpcodeI64ShrU:
		e.emitShift('u', 64)
	case wasm.OpcodeI32Rotl:
		e.emitRotate(true, 32)
	case wasm.OpcodeI64Rotl:
		e.emitRotate(true, 64)
	case wasm.OpcodeI32Rotr:
		e.emitRotate(false, 32)
	case wasm.OpcodeI64Rotr:
		e.emitRotate(false, 64)

	case wasm.OpcodeF32Abs, wasm.OpcodeF64Abs:
		e.unop(func(i *ssa.Instruction, x ssa.Value) { i.AsFabs(x) })
	case wasm.OpcodeF32Neg, wasm.OpcodeF64Neg:
		e.unop(func(i *ssa.Instruction, x ssa.Value) { i.AsFneg(x) })
	case wasm.OpcodeF32Sqrt, wasm.OpcodeF64Sqrt:
		e.unop(func(i *ssa.Instruction, x ssa.Value) { i.AsSqrt(x) })
	case wasm.OpcodeF32Add, wasm.OpcodeF64Add:
		e.binop(func(i *ssa.Instruction, x, y ssa.Value) { i.AsFadd(x, y) })
	case wasm.OpcodeF32Sub, wasm.OpcodeF64Sub:
		e.binop(func(i *ssa.Instruction, x, y ssa.Value) { i.AsFsub(x, y) })
	case wasm.OpcodeF32Mul, wasm.OpcodeF64Mul:
		e.binop(func(i *ssa.Instruction, x, y ssa.Value) { i.AsFmul(x, y) })
	case wasm.OpcodeF32Div, wasm.OpcodeF64Div:
		e.binop(func(i *ssa.Instruction, x, y ssa.Value) { i.AsFdiv(x, y) })
	case wasm.OpcodeF32Copysign, wasm.OpcodeF64Copysign:
		e.binop(func(i *ssa.Instruction, x, y ssa.Value) { i.AsFcopysign(x, y) })

	// min/max/ceil/floor/trunc/nearest route through runtime intrinsics rather than
	// the SSA package's native Fmin/Fmax/Ceil/Floor/Trunc/Nearest: WebAssembly's
	// min/max propagate NaN and distinguish +0/-0 in ways x86's minss/maxss don't
	// implement directly, and the rounding-mode-sensitive family is cheaper to get
	// exactly right once in the runtime than inlined at every call site.
	case wasm.OpcodeF32Min:
		e.emitFloatIntrinsicBinop(IntrinsicF32Min)
	case wasm.OpcodeF32Max:
		e.emitFloatIntrinsicBinop(IntrinsicF32Max)
	case wasm.OpcodeF64Min:
		e.emitFloatIntrinsicBinop(IntrinsicF64Min)
	case wasm.OpcodeF64Max:
		e.emitFloatIntrinsicBinop(IntrinsicF64Max)
	case wasm.OpcodeF32Ceil:
		e.emitFloatIntrinsicUnop(IntrinsicF32Ceil)
	case wasm.OpcodeF32Floor:
		e.emitFloatIntrinsicUnop(IntrinsicF32Floor)
	case wasm.OpcodeF32Trunc:
		e.emitFloatIntrinsicUnop(IntrinsicF32Trunc)
	case wasm.OpcodeF32Nearest:
		e.emitFloatIntrinsicUnop(IntrinsicF32Nearest)
	case wasm.OpcodeF64Ceil:
		e.emitFloatIntrinsicUnop(IntrinsicF64Ceil)
	case wasm.OpcodeF64Floor:
		e.emitFloatIntrinsicUnop(IntrinsicF64Floor)
	case wasm.OpcodeF64Trunc:
		e.emitFloatIntrinsicUnop(IntrinsicF64Trunc)
	case wasm.OpcodeF64Nearest:
		e.emitFloatIntrinsicUnop(IntrinsicF64Nearest)

	case wasm.OpcodeI32WrapI64:
		e.unop(func(i *ssa.Instruction, x ssa.Value) { i.AsIreduce(x, ssa.TypeI32) })
	case wasm.OpcodeI32TruncF32S:
		e.emitTrappingTruncToInt(true, ssa.TypeF32, ssa.TypeI32, numeric.TruncBoundsI32SFromF32)
	case wasm.OpcodeI32TruncF32U:
		e.emitTrappingTruncToInt(false, ssa.TypeF32, ssa.TypeI32, numeric.TruncBoundsI32UFromF32)
	case wasm.OpcodeI32TruncF64S:
		e.emitTrappingTruncToInt(true, ssa.TypeF64, ssa.TypeI32, numeric.TruncBoundsI32SFromF64)
	case wasm.OpcodeI32TruncF64U:
		e.emitTrappingTruncToInt(false, ssa.TypeF64, ssa.TypeI32, numeric.TruncBoundsI32UFromF64)

	case wasm.OpcodeI64ExtendI32S:
		e.unop(func(i *ssa.Instruction, x ssa.Value) { i.AsSExtend(x, 32, 64) })
	case wasm.OpcodeI64ExtendI32U:
		e.unop(func(i *ssa.Instruction, x ssa.Value) { i.AsUExtend(x, 32, 64) })
	case wasm.OpcodeI64TruncF32S:
		e.emitTrappingTruncToInt(true, ssa.TypeF32, ssa.TypeI64, numeric.TruncBoundsI64SFromF32)
	case wasm.OpcodeI64TruncF32U:
		e.emitTrappingTruncToInt(false, ssa.TypeF32, ssa.TypeI64, numeric.TruncBoundsI64UFromF32)
	case wasm.OpcodeI64TruncF64S:
		e.emitTrappingTruncToInt(true, ssa.TypeF64, ssa.TypeI64, numeric.TruncBoundsI64SFromF64)
	case wasm.OpcodeI64TruncF64U:
		e.emitTrappingTruncToInt(false, ssa.TypeF64, ssa.TypeI64, numeric.TruncBoundsI64UFromF64)

	case wasm.OpcodeF32ConvertI32S, wasm.OpcodeF32ConvertI64S:
		e.unop(func(i *ssa.Instruction, x ssa.Value) { i.AsFcvtFromSint(x, ssa.TypeF32) })
	case wasm.OpcodeF32ConvertI32U, wasm.OpcodeF32ConvertI64U:
		e.unop(func(i *ssa.Instruction, x ssa.Value) { i.AsFcvtFromUint(x, ssa.TypeF32) })
	case wasm.OpcodeF64ConvertI32S, wasm.OpcodeF64ConvertI64S:
		e.unop(func(i *ssa.Instruction, x ssa.Value) { i.AsFcvtFromSint(x, ssa.TypeF64) })
	case wasm.OpcodeF64ConvertI32U, wasm.OpcodeF64ConvertI64U:
		e.unop(func(i *ssa.Instruction, x ssa.Value) { i.AsFcvtFromUint(x, ssa.TypeF64) })
	case wasm.OpcodeF32DemoteF64:
		e.unop(func(i *ssa.Instruction, x ssa.Value) { i.AsFdemote(x) })
	case wasm.OpcodeF64PromoteF32:
		e.emitF64PromoteF32()

	case wasm.OpcodeI32ReinterpretF32:
		e.unop(func(i *ssa.Instruction, x ssa.Value) { i.AsBitcast(x, ssa.TypeI32) })
	case wasm.OpcodeI64ReinterpretF64:
		e.unop(func(i *ssa.Instruction, x ssa.Value) { i.AsBitcast(x, ssa.TypeI64) })
	case wasm.OpcodeF32ReinterpretI32:
		e.unop(func(i *ssa.Instruction, x ssa.Value) { i.AsBitcast(x, ssa.TypeF32) })
	case wasm.OpcodeF64ReinterpretI64:
		e.unop(func(i *ssa.Instruction, x ssa.Value) { i.AsBitcast(x, ssa.TypeF64) })

	case wasm.OpcodeI32Extend8S:
		e.unop(func(i *ssa.Instruction, x ssa.Value) { i.AsSExtend(x, 8, 32) })
	case wasm.OpcodeI32Extend16S:
		e.unop(func(i *ssa.Instruction, x ssa.Value) { i.AsSExtend(x, 16, 32) })
	case wasm.OpcodeI64Extend8S:
		e.unop(func(i *ssa.Instruction, x ssa.Value) { i.AsSExtend(x, 8, 64) })
	case wasm.OpcodeI64Extend16S:
		e.unop(func(i *ssa.Instruction, x ssa.Value) { i.AsSExtend(x, 16, 64) })
	case wasm.OpcodeI64Extend32S:
		e.unop(func(i *ssa.Instruction, x ssa.Value) { i.AsSExtend(x, 32, 64) })

	case wasm.OpcodeMiscPrefix:
		return e.dispatchMisc(op)
	case wasm.OpcodeAtomicPrefix:
		return e.dispatchAtomic(op)
	case wasm.OpcodeSIMDPrefix:
		return e.dispatchSIMD(op)

	default:
		return &ErrInvariantViolation{Reason: fmt.Sprintf("unhandled opcode 0x%02x at offset %d", op.Opcode, op.Offset)}
	}
	return nil
}

// dispatchMisc routes the 0xfc-prefixed saturating-truncation and bulk-memory/table
// operators.
func (e *Emitter) dispatchMisc(op decode.Operator) error {
	switch op.Misc {
	case wasm.OpcodeMiscI32TruncSatF32S:
		e.emitSaturatingTruncToInt(true, ssa.TypeI32)
	case wasm.OpcodeMiscI32TruncSatF32U:
		e.emitSaturatingTruncToInt(false, ssa.TypeI32)
	case wasm.OpcodeMiscI32TruncSatF64S:
		e.emitSaturatingTruncToInt(true, ssa.TypeI32)
	case wasm.OpcodeMiscI32TruncSatF64U:
		e.emitSaturatingTruncToInt(false, ssa.TypeI32)
	case wasm.OpcodeMiscI64TruncSatF32S:
		e.emitSaturatingTruncToInt(true, ssa.TypeI64)
	case wasm.OpcodeMiscI64TruncSatF32U:
		e.emitSaturatingTruncToInt(false, ssa.TypeI64)
	case wasm.OpcodeMiscI64TruncSatF64S:
		e.emitSaturatingTruncToInt(true, ssa.TypeI64)
	case wasm.OpcodeMiscI64TruncSatF64U:
		e.emitSaturatingTruncToInt(false, ssa.TypeI64)

	case wasm.OpcodeMiscMemoryInit:
		e.handleMemoryInit(op.DataIndex)
	case wasm.OpcodeMiscDataDrop:
		e.handleDataDrop(op.DataIndex)
	case wasm.OpcodeMiscMemoryCopy:
		e.handleMemoryCopy()
	case wasm.OpcodeMiscMemoryFill:
		e.handleMemoryFill()
	case wasm.OpcodeMiscTableInit:
		e.handleTableInit(op.ElemIndex)
	case wasm.OpcodeMiscElemDrop:
		e.handleElemDrop(op.ElemIndex)
	case wasm.OpcodeMiscTableCopy:
		e.handleTableCopy()

	default:
		return &ErrInvariantViolation{Reason: fmt.Sprintf("unhandled misc opcode 0x%02x at offset %d", op.Misc, op.Offset)}
	}
	return nil
}

// dispatchAtomic routes the 0xfe-prefixed threads-proposal atomic operators.
func (e *Emitter) dispatchAtomic(op decode.Operator) error {
	switch op.Atomic {
	case wasm.OpcodeAtomicFence:
		e.handleFence()
	case wasm.OpcodeAtomicNotify:
		e.handleAtomicNotify(op.Offset32)
	case wasm.OpcodeAtomicWait32, wasm.OpcodeAtomicWait64:
		e.handleAtomicWait(op.Atomic, op.Offset32)
	case wasm.OpcodeAtomicI32Load, wasm.OpcodeAtomicI64Load:
		e.handleAtomicLoad(op.Atomic, op.Offset32)
	case wasm.OpcodeAtomicI32Store, wasm.OpcodeAtomicI64Store:
		e.handleAtomicStore(op.Atomic, op.Offset32)
	case wasm.OpcodeAtomicI32RmwCmpxchg, wasm.OpcodeAtomicI64RmwCmpxchg:
		e.handleAtomicCmpxchg(op.Atomic, op.Offset32)
	case wasm.OpcodeAtomicI32RmwAdd, wasm.OpcodeAtomicI64RmwAdd,
		wasm.OpcodeAtomicI32RmwSub, wasm.OpcodeAtomicI64RmwSub,
		wasm.OpcodeAtomicI32RmwAnd, wasm.OpcodeAtomicI64RmwAnd,
		wasm.OpcodeAtomicI32RmwOr, wasm.OpcodeAtomicI64RmwOr,
		wasm.OpcodeAtomicI32RmwXor, wasm.OpcodeAtomicI64RmwXor,
		wasm.OpcodeAtomicI32RmwXchg, wasm.OpcodeAtomicI64RmwXchg:
		e.handleAtomicRmw(op.Atomic, op.Offset32)

	default:
		return &ErrInvariantViolation{Reason: fmt.Sprintf("unhandled atomic opcode 0x%02x at offset %d", op.Atomic, op.Offset)}
	}
	return nil
}

// dispatchSIMD routes the 0xfd-prefixed v128 operators this emitter supports (see
// lower_simd.go's doc comment for the scoped-down subset).
func (e *Emitter) dispatchSIMD(op decode.Operator) error {
	switch op.SIMD {
	case wasm.OpcodeSIMDV128Load:
		e.handleV128Load(op.Offset32)
	case wasm.OpcodeSIMDV128Store:
		e.handleV128Store(op.Offset32)
	case wasm.OpcodeSIMDV128Const:
		e.handleV128Const(op.V128)

	case wasm.OpcodeSIMDI32x4Splat:
		e.handleSplat(ssa.TypeI32)
	case wasm.OpcodeSIMDI64x2Splat:
		e.handleSplat(ssa.TypeI64)
	case wasm.OpcodeSIMDF32x4Splat:
		e.handleSplat(ssa.TypeF32)
	case wasm.OpcodeSIMDF64x2Splat:
		e.handleSplat(ssa.TypeF64)

	case wasm.OpcodeSIMDI32x4ExtractLane:
		e.handleExtractLane(ssa.TypeI32, byte(op.LaneIndex))
	case wasm.OpcodeSIMDI64x2ExtractLane:
		e.handleExtractLane(ssa.TypeI64, byte(op.LaneIndex))
	case wasm.OpcodeSIMDF32x4ExtractLane:
		e.handleExtractLane(ssa.TypeF32, byte(op.LaneIndex))
	case wasm.OpcodeSIMDF64x2ExtractLane:
		e.handleExtractLane(ssa.TypeF64, byte(op.LaneIndex))

	case wasm.OpcodeSIMDI32x4ReplaceLane:
		e.handleReplaceLane(ssa.TypeI32, byte(op.LaneIndex))
	case wasm.OpcodeSIMDI64x2ReplaceLane:
		e.handleReplaceLane(ssa.TypeI64, byte(op.LaneIndex))
	case wasm.OpcodeSIMDF32x4ReplaceLane:
		e.handleReplaceLane(ssa.TypeF32, byte(op.LaneIndex))
	case wasm.OpcodeSIMDF64x2ReplaceLane:
		e.handleReplaceLane(ssa.TypeF64, byte(op.LaneIndex))

	case wasm.OpcodeSIMDI32x4Add:
		e.handleI32x4Add()
	case wasm.OpcodeSIMDI32x4Sub:
		e.handleI32x4Sub()
	case wasm.OpcodeSIMDI32x4Mul:
		e.handleI32x4Mul()

	case wasm.OpcodeSIMDF32x4Add:
		e.handleF32x4Add()
	case wasm.OpcodeSIMDF32x4Sub:
		e.handleF32x4Sub()
	case wasm.OpcodeSIMDF32x4Mul:
		e.handleF32x4Mul()
	case wasm.OpcodeSIMDF32x4Div:
		e.handleF32x4Div()

	case wasm.OpcodeSIMDI8x16AddSatS, wasm.OpcodeSIMDI16x8AddSatS:
		e.handleAddSat(true)
	case wasm.OpcodeSIMDI8x16AddSatU, wasm.OpcodeSIMDI16x8AddSatU:
		e.handleAddSat(false)

	default:
		return &ErrInvariantViolation{Reason: fmt.Sprintf("unhandled SIMD opcode 0x%02x at offset %d", op.SIMD, op.Offset)}
	}
	return nil
}

func (e *Emitter) emitConst32(v uint32) {
	instr := e.builder.AllocateInstruction()
	instr.AsIconst32(v)
	e.builder.InsertInstruction(instr)
	e.stack.Push(instr.Return())
}

func (e *Emitter) emitConst64(v uint64) {
	instr := e.builder.AllocateInstruction()
	instr.AsIconst64(v)
	e.builder.InsertInstruction(instr)
	e.stack.Push(instr.Return())
}

func (e *Emitter) emitConstF32(v float32) {
	instr := e.builder.AllocateInstruction()
	instr.AsF32const(v)
	e.builder.InsertInstruction(instr)
	e.stack.Push(instr.Return())
}

func (e *Emitter) emitConstF64(v float64) {
	instr := e.builder.AllocateInstruction()
	instr.AsF64const(v)
	e.builder.InsertInstruction(instr)
	e.stack.Push(instr.Return())
}

func (e *Emitter) emitEqz(t ssa.Type) {
	x := e.stack.Pop()
	zero := e.emitZeroConstant(t)
	e.stack.Push(e.binop1(func(i *ssa.Instruction, a, b ssa.Value) { i.AsIcmp(a, b, ssa.IntegerCmpCondEqual) }, x, zero))
}

func (e *Emitter) emitFloatIntrinsicUnop(id IntrinsicID) {
	x := e.stack.Pop()
	results := e.emitIntrinsicCall(id, []ssa.Value{x})
	e.stack.Push(results[0])
}

func (e *Emitter) emitFloatIntrinsicBinop(id IntrinsicID) {
	y := e.stack.Pop()
	x := e.stack.Pop()
	results := e.emitIntrinsicCall(id, []ssa.Value{x, y})
	e.stack.Push(results[0])
}

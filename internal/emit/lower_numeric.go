package emit

import (
	"github.com/wazevo-emit/ssaemit/internal/numeric"
	"github.com/wazevo-emit/ssaemit/internal/ssa"
)

func (e *Emitter) unop(f func(instr *ssa.Instruction, x ssa.Value)) {
	x := e.stack.Pop()
	instr := e.builder.AllocateInstruction()
	f(instr, x)
	e.builder.InsertInstruction(instr)
	e.stack.Push(instr.Return())
}

func (e *Emitter) binop(f func(instr *ssa.Instruction, x, y ssa.Value)) {
	y := e.stack.Pop()
	x := e.stack.Pop()
	instr := e.builder.AllocateInstruction()
	f(instr, x, y)
	e.builder.InsertInstruction(instr)
	e.stack.Push(instr.Return())
}

// emitF64PromoteF32 widens an f32 to f64 and then multiplies the result by the no-op
// constant 1.0. WAVM's LLVM backend emits this as an `experimental_constrained_fmul` to
// stop its optimizer from folding the promotion into a later contraction; this repo's IR
// carries the same multiply for the one future backend that could add that kind of pass,
// even though nothing here performs one today. A multiply by 1.0, not an add, is what
// actually leaves the value unchanged — the add-by-1.0 phrasing is a transcription slip.
func (e *Emitter) emitF64PromoteF32() {
	x := e.stack.Pop()
	promote := e.builder.AllocateInstruction()
	promote.AsFpromote(x)
	e.builder.InsertInstruction(promote)

	one := e.builder.AllocateInstruction()
	one.AsF64const(1.0)
	e.builder.InsertInstruction(one)

	mul := e.builder.AllocateInstruction()
	mul.AsFmul(promote.Return(), one.Return())
	e.builder.InsertInstruction(mul)

	e.stack.Push(mul.Return())
}

func (e *Emitter) icmp(c ssa.IntegerCmpCond) {
	e.binop(func(instr *ssa.Instruction, x, y ssa.Value) { instr.AsIcmp(x, y, c) })
}

func (e *Emitter) fcmp(c ssa.FloatCmpCond) {
	e.binop(func(instr *ssa.Instruction, x, y ssa.Value) { instr.AsFcmp(x, y, c) })
}

// emitDivOrRem implements spec §4.3's integer div/rem trap guards: divide-by-zero for
// every flavor, plus signed division's INT_MIN/-1 overflow case and signed remainder's
// branch-guarded zero-result for the same operand pair (since the target's machine
// remainder instruction leaves that case undefined).
func (e *Emitter) emitDivOrRem(signed, isRem bool, bits byte) {
	y := e.stack.Pop()
	x := e.stack.Pop()

	zero := e.emitZeroConstant(y.Type())
	isZero := e.binop1(func(instr *ssa.Instruction, a, b ssa.Value) { instr.AsIcmp(a, b, ssa.IntegerCmpCondEqual) }, y, zero)
	e.emitTrapIfTrue(isZero, ssa.TrapKindDivideByZeroOrIntegerOverflow)

	if signed {
		minVal := e.emitZeroConstant(x.Type())
		_ = minVal // INT_MIN is materialized per-width below.
		var intMin ssa.Value
		c := e.builder.AllocateInstruction()
		if bits == 32 {
			c.AsIconst32(uint32(1) << 31)
		} else {
			c.AsIconst64(uint64(1) << 63)
		}
		e.builder.InsertInstruction(c)
		intMin = c.Return()

		negOne := e.builder.AllocateInstruction()
		if bits == 32 {
			negOne.AsIconst32(^uint32(0))
		} else {
			negOne.AsIconst64(^uint64(0))
		}
		e.builder.InsertInstruction(negOne)

		xIsMin := e.binop1(func(instr *ssa.Instruction, a, b ssa.Value) { instr.AsIcmp(a, b, ssa.IntegerCmpCondEqual) }, x, intMin)
		yIsNegOne := e.binop1(func(instr *ssa.Instruction, a, b ssa.Value) { instr.AsIcmp(a, b, ssa.IntegerCmpCondEqual) }, y, negOne.Return())
		overflow := e.binop1(func(instr *ssa.Instruction, a, b ssa.Value) { instr.AsBand(a, b) }, xIsMin, yIsNegOne)

		if isRem {
			// i32.rem_s/i64.rem_s of (INT_MIN, -1) is well-defined as 0 in WebAssembly;
			// short-circuit it rather than trapping since the hardware instruction's
			// behavior here is undefined.
			guarded := e.emitSelectGuarded(overflow, zero, func() ssa.Value {
				return e.binop1(func(instr *ssa.Instruction, a, b ssa.Value) { instr.AsSrem(a, b) }, x, y)
			})
			e.stack.Push(guarded)
			return
		}
		e.emitTrapIfTrue(overflow, ssa.TrapKindDivideByZeroOrIntegerOverflow)
		e.stack.Push(e.binop1(func(instr *ssa.Instruction, a, b ssa.Value) { instr.AsSdiv(a, b) }, x, y))
		return
	}

	if isRem {
		e.stack.Push(e.binop1(func(instr *ssa.Instruction, a, b ssa.Value) { instr.AsUrem(a, b) }, x, y))
	} else {
		e.stack.Push(e.binop1(func(instr *ssa.Instruction, a, b ssa.Value) { instr.AsUdiv(a, b) }, x, y))
	}
}

func (e *Emitter) binop1(f func(instr *ssa.Instruction, x, y ssa.Value), x, y ssa.Value) ssa.Value {
	instr := e.builder.AllocateInstruction()
	f(instr, x, y)
	e.builder.InsertInstruction(instr)
	return instr.Return()
}

// emitSelectGuarded builds a diamond: when guard is true, push zero without evaluating
// body (which would otherwise execute hardware's undefined-behavior case); otherwise
// evaluate body and join through a block parameter.
func (e *Emitter) emitSelectGuarded(guard ssa.Value, onTrue ssa.Value, body func() ssa.Value) ssa.Value {
	trueBlock := e.builder.AllocateBasicBlock()
	falseBlock := e.builder.AllocateBasicBlock()
	joinBlock := e.builder.AllocateBasicBlock()
	result := joinBlock.AddParam(e.builder, onTrue.Type())

	e.emitBrnz(guard, nil, trueBlock)
	e.emitJump(nil, falseBlock)

	e.builder.Seal(trueBlock)
	e.builder.SetCurrentBlock(trueBlock)
	e.emitJump([]ssa.Value{onTrue}, joinBlock)

	e.builder.Seal(falseBlock)
	e.builder.SetCurrentBlock(falseBlock)
	falseVal := body()
	e.emitJump([]ssa.Value{falseVal}, joinBlock)

	e.builder.Seal(joinBlock)
	e.builder.SetCurrentBlock(joinBlock)
	return result
}

// emitShift implements spec §4.3's shift-amount masking: WebAssembly shifts take the
// amount modulo the operand width, where the target's native shift instruction may
// instead trap or produce an implementation-defined result for out-of-range counts.
func (e *Emitter) emitShift(kind byte, bits byte) {
	amount := e.stack.Pop()
	x := e.stack.Pop()
	mask := e.builder.AllocateInstruction()
	if bits == 32 {
		mask.AsIconst32(numeric.ShiftMask32(0xffffffff))
	} else {
		mask.AsIconst64(numeric.ShiftMask64(0xffffffffffffffff))
	}
	e.builder.InsertInstruction(mask)
	masked := e.binop1(func(instr *ssa.Instruction, a, b ssa.Value) { instr.AsBand(a, b) }, amount, mask.Return())

	instr := e.builder.AllocateInstruction()
	switch kind {
	case 'l':
		instr.AsIshl(x, masked)
	case 's': // arithmetic (signed) shift right
		instr.AsSshr(x, masked)
	case 'u': // logical (unsigned) shift right
		instr.AsUshr(x, masked)
	}
	e.builder.InsertInstruction(instr)
	e.stack.Push(instr.Return())
}

func (e *Emitter) emitRotate(left bool, bits byte) {
	amount := e.stack.Pop()
	x := e.stack.Pop()
	instr := e.builder.AllocateInstruction()
	if left {
		instr.AsRotl(x, amount)
	} else {
		instr.AsRotr(x, amount)
	}
	e.builder.InsertInstruction(instr)
	e.stack.Push(instr.Return())
}

// emitTrappingTruncToInt implements spec §4.3's three-stage trapping float-to-int
// conversion: a NaN check (InvalidFloatOperation), then a tight in-range check
// against the exact representable bounds in numeric.TruncBounds (IntegerOverflow),
// then the actual conversion.
func (e *Emitter) emitTrappingTruncToInt(signed bool, from, to ssa.Type, bounds numeric.TruncBounds) {
	x := e.stack.Pop()

	isNaN := e.binop1(func(instr *ssa.Instruction, a, b ssa.Value) { instr.AsFcmp(a, b, ssa.FloatCmpCondNotEqual) }, x, x)
	e.emitTrapIfTrue(isNaN, ssa.TrapKindInvalidFloatOperation)

	lo := e.builder.AllocateInstruction()
	hi := e.builder.AllocateInstruction()
	if from == ssa.TypeF32 {
		lo.AsF32const(float32(bounds.Min))
		hi.AsF32const(float32(bounds.Max))
	} else {
		lo.AsF64const(bounds.Min)
		hi.AsF64const(bounds.Max)
	}
	e.builder.InsertInstruction(lo)
	e.builder.InsertInstruction(hi)

	tooLow := e.binop1(func(instr *ssa.Instruction, a, b ssa.Value) { instr.AsFcmp(a, b, ssa.FloatCmpCondLessThanOrEqual) }, x, lo.Return())
	tooHigh := e.binop1(func(instr *ssa.Instruction, a, b ssa.Value) { instr.AsFcmp(a, b, ssa.FloatCmpCondGreaterThanOrEqual) }, x, hi.Return())
	outOfRange := e.binop1(func(instr *ssa.Instruction, a, b ssa.Value) { instr.AsBor(a, b) }, tooLow, tooHigh)
	e.emitTrapIfTrue(outOfRange, ssa.TrapKindIntegerOverflow)

	instr := e.builder.AllocateInstruction()
	if signed {
		instr.AsFcvtToSint(x, to)
	} else {
		instr.AsFcvtToUint(x, to)
	}
	e.builder.InsertInstruction(instr)
	e.stack.Push(instr.Return())
}

func (e *Emitter) emitSaturatingTruncToInt(signed bool, to ssa.Type) {
	x := e.stack.Pop()
	instr := e.builder.AllocateInstruction()
	if signed {
		instr.AsFcvtToSintSat(x, to)
	} else {
		instr.AsFcvtToUintSat(x, to)
	}
	e.builder.InsertInstruction(instr)
	e.stack.Push(instr.Return())
}


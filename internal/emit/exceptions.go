package emit

import (
	"github.com/wazevo-emit/ssaemit/internal/ssa"
)

// emitCall allocates and inserts a call instruction, lowering to OpcodeInvoke guarded
// by the innermost open try's landing pad when one exists, and to a plain OpcodeCall
// otherwise. Direct calls and intrinsic calls route through this so a throw or a
// trap-turned-exception inside a try body unwinds to the right handler chain;
// call_indirect does not (it emits a plain OpcodeCallIndirect, which no landing pad
// guards).
func (e *Emitter) emitCall(ref ssa.FuncRef, sig *ssa.Signature, args []ssa.Value) *ssa.Instruction {
	instr := e.builder.AllocateInstruction()
	if n := len(e.landingPads); n > 0 {
		instr.AsInvoke(ref, sig, args, e.landingPads[n-1])
	} else {
		instr.AsCall(ref, sig, args)
	}
	e.builder.InsertInstruction(instr)
	return instr
}

// handleTry implements spec §4.5's `try T`: a landing pad reachable only by unwinding
// through the body, and an initially-empty catch chain (NextHandler starts at the
// landing pad itself, exactly as if it were the result of a zero-arm chain).
func (e *Emitter) handleTry(params, results []ssa.Type) {
	args := e.stack.PopN(len(params))

	landingPad := e.builder.AllocateBasicBlock()
	endBlock := e.builder.AllocateBasicBlock()
	for _, t := range results {
		endBlock.AddParam(e.builder, t)
	}

	e.pushControlFrame(ControlContext{
		Kind:                        FrameTry,
		ResultTypes:                 results,
		EndBlock:                    endBlock,
		LandingPad:                  landingPad,
		NextHandler:                 landingPad,
		Selector:                    ssa.ValueInvalid,
		OuterOperandStackDepth:      e.stack.Depth(),
		OuterBranchTargetStackDepth: len(e.branchTargets),
		IsReachable:                 true,
	})
	e.pushBranchTarget(BranchTarget{ArgTypes: results, Block: endBlock})
	e.landingPads = append(e.landingPads, landingPad)

	for _, v := range args {
		e.stack.Push(v)
	}
}

// popLandingPadGuard removes f's landing pad from the invoke-guard stack the first
// time control leaves the protected try body (on the first catch/catch_all arm); later
// arms in the same chain are themselves unprotected by this try, so this is a no-op
// for them.
func (e *Emitter) popLandingPadGuard(f *ControlContext) {
	if n := len(e.landingPads); n > 0 && e.landingPads[n-1] == f.LandingPad {
		e.landingPads = e.landingPads[:n-1]
	}
}

// handleCatch implements spec §4.5's `catch T`: compare the landing pad's caught
// exception-type index against T, branch to a fresh handler on equality, chain to a
// fresh next-handler block on mismatch, and in the handler unpack T's argument values
// according to the configured backend's convention.
func (e *Emitter) handleCatch(exceptionIdx uint32) {
	e.branchToEndOfCurrent()
	f := e.currentFrame()
	e.popLandingPadGuard(f)

	e.builder.SetCurrentBlock(f.NextHandler)
	if !f.Selector.Valid() {
		sel := e.builder.AllocateInstruction()
		sel.AsLandingPad()
		e.builder.InsertInstruction(sel)
		f.Selector = sel.Return()
	}

	expected := e.builder.AllocateInstruction()
	expected.AsIconst32(exceptionIdx)
	e.builder.InsertInstruction(expected)
	matched := e.binop1(func(instr *ssa.Instruction, a, b ssa.Value) { instr.AsIcmp(a, b, ssa.IntegerCmpCondEqual) }, f.Selector, expected.Return())

	handler := e.builder.AllocateBasicBlock()
	nextHandler := e.builder.AllocateBasicBlock()
	e.emitBrnz(matched, nil, handler)
	e.emitJump(nil, nextHandler)
	e.builder.Seal(handler)
	e.builder.Seal(nextHandler)

	e.builder.SetCurrentBlock(handler)
	exType := e.module.ExceptionSection[exceptionIdx]
	argTypes := make([]ssa.Type, len(exType.Params))
	for i, vt := range exType.Params {
		argTypes[i] = wasmTypeToSSA(vt)
	}
	if len(argTypes) > 0 {
		argsPtr := e.emitIntrinsicCall(IntrinsicCurrentExceptionData, nil)[0]
		for _, v := range e.exc.UnpackArgs(e.builder, argsPtr, argTypes) {
			e.stack.Push(v)
		}
	}

	f.Kind = FrameCatch
	f.NextHandler = nextHandler
	f.IsReachable = true
}

// handleCatchAll implements spec §4.5's `catch_all`: unconditionally enters the
// handler with no argument binding, and closes the chain (no further catch/catch_all
// may follow per the WebAssembly exception-handling proposal's grammar).
func (e *Emitter) handleCatchAll() {
	e.branchToEndOfCurrent()
	f := e.currentFrame()
	e.popLandingPadGuard(f)

	e.builder.SetCurrentBlock(f.NextHandler)
	f.Kind = FrameCatch
	f.NextHandler = nil
	f.IsReachable = true
}

// handleTryEnd implements spec §4.5's "catch chain's end": close the current arm like
// a normal block end, then, if the chain never reached a closing catch_all, rethrow
// the pending exception from the dangling next-handler block and fall into unreachable.
func (e *Emitter) handleTryEnd() {
	e.branchToEndOfCurrent()
	f := e.currentFrame()
	e.popLandingPadGuard(f)

	if f.NextHandler != nil {
		e.builder.Seal(f.NextHandler)
		e.builder.SetCurrentBlock(f.NextHandler)
		instr := e.builder.AllocateInstruction()
		instr.AsRethrow(0)
		e.builder.InsertInstruction(instr)
	}

	e.popBranchTargets(1)
	cc := e.popControlFrame()
	e.builder.Seal(cc.EndBlock)
	e.builder.SetCurrentBlock(cc.EndBlock)
	e.stack.TruncateToDepth(cc.OuterOperandStackDepth)

	if cc.EndBlock.Preds() == 0 {
		e.pushZeroConstants(cc.ResultTypes)
	} else {
		for i := range cc.ResultTypes {
			e.stack.Push(cc.EndBlock.Param(i))
		}
	}
}

// handleThrow implements spec §4.5's shared throw behavior: raise exceptionIdx with
// its declared argument values, then fall into unreachable.
func (e *Emitter) handleThrow(exceptionIdx uint32) {
	exType := e.module.ExceptionSection[exceptionIdx]
	args := e.stack.PopN(len(exType.Params))
	instr := e.builder.AllocateInstruction()
	instr.AsThrow(exceptionIdx, args)
	e.builder.InsertInstruction(instr)
	e.enterUnreachable()
}

// handleRethrow implements spec §4.5's `rethrow d`: re-raise the exception caught by
// the d-th enclosing catch, then fall into unreachable.
func (e *Emitter) handleRethrow(depth uint32) {
	instr := e.builder.AllocateInstruction()
	instr.AsRethrow(depth)
	e.builder.InsertInstruction(instr)
	e.enterUnreachable()
}

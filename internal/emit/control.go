package emit

import (
	"fmt"

	"github.com/wazevo-emit/ssaemit/internal/ssa"
)

// FrameKind tags the kind of nested structured-control region a ControlContext describes.
type FrameKind int

const (
	FrameFunction FrameKind = iota
	FrameBlock
	FrameIfThen
	FrameIfElse
	FrameLoop
	FrameTry
	FrameCatch
)

func (k FrameKind) String() string {
	switch k {
	case FrameFunction:
		return "function"
	case FrameBlock:
		return "block"
	case FrameIfThen:
		return "ifThen"
	case FrameIfElse:
		return "ifElse"
	case FrameLoop:
		return "loop"
	case FrameTry:
		return "try"
	case FrameCatch:
		return "catch"
	default:
		return "unknown"
	}
}

// ControlContext is one frame of the emitter's control-frame stack, one per nested
// structured block/loop/if/try/catch currently open.
type ControlContext struct {
	Kind        FrameKind
	ResultTypes []ssa.Type

	// EndBlock is the SSA block control falls to on normal exit; its params are the
	// end-φs, one per ResultTypes entry, collecting every branch/fallthrough's arguments.
	EndBlock ssa.BasicBlock

	// ElseBlock/ElseArgs are valid only while Kind == FrameIfThen: the block to switch
	// to on `else`, and the parameter values captured at `if` to re-push there.
	ElseBlock ssa.BasicBlock
	ElseArgs  []ssa.Value

	// LoopBody is valid only while Kind == FrameLoop: the loop header, sealed at `end`
	// once every backward branch into it has been emitted.
	LoopBody ssa.BasicBlock

	OuterOperandStackDepth      int
	OuterBranchTargetStackDepth int

	IsReachable bool

	// LandingPad/NextHandler/Selector are valid only while Kind == FrameTry or
	// FrameCatch; see exceptions.go. LandingPad is the block reached by unwinding
	// through the try body. NextHandler is the block the next catch/catch_all/end_try
	// chains off: initially LandingPad itself, then a fresh comparison-failure block
	// after each catch arm, and nil once a catch_all has closed the chain. Selector is
	// the exception-type index OpcodeLandingPad yields, loaded lazily on the first
	// catch and reused by every later arm (LandingPad dominates the whole chain).
	LandingPad  ssa.BasicBlock
	NextHandler ssa.BasicBlock
	Selector    ssa.Value
}

// BranchTarget is a named destination reachable via br/br_if/br_table.
type BranchTarget struct {
	ArgTypes []ssa.Type
	// Block is the loop header (for FrameLoop frames, whose params are the loop's
	// parameter-φs) or the block end (for every other frame, whose params are the
	// end-φs).
	Block ssa.BasicBlock
}

func (e *Emitter) pushControlFrame(cc ControlContext) {
	e.controlFrames = append(e.controlFrames, cc)
}

func (e *Emitter) popControlFrame() ControlContext {
	n := len(e.controlFrames) - 1
	cc := e.controlFrames[n]
	e.controlFrames = e.controlFrames[:n]
	return cc
}

func (e *Emitter) currentFrame() *ControlContext {
	return &e.controlFrames[len(e.controlFrames)-1]
}

// frameAt returns the frame `depth` levels below the top (0 is the current frame).
func (e *Emitter) frameAt(depth uint32) *ControlContext {
	return &e.controlFrames[len(e.controlFrames)-1-int(depth)]
}

func (e *Emitter) pushBranchTarget(bt BranchTarget) {
	e.branchTargets = append(e.branchTargets, bt)
}

func (e *Emitter) popBranchTargets(n int) {
	e.branchTargets = e.branchTargets[:len(e.branchTargets)-n]
}

// getBranchTargetByDepth resolves a br/br_if/br_table label index into its target,
// per invariant 4: the branch-target stack's top-most entries parallel the control stack's.
func (e *Emitter) getBranchTargetByDepth(depth uint32) BranchTarget {
	return e.branchTargets[len(e.branchTargets)-1-int(depth)]
}

func (e *Emitter) emitJump(args []ssa.Value, target ssa.BasicBlock) {
	instr := e.builder.AllocateInstruction()
	instr.AsJump(args, target)
	e.builder.InsertInstruction(instr)
}

func (e *Emitter) emitBrz(cond ssa.Value, args []ssa.Value, target ssa.BasicBlock) {
	instr := e.builder.AllocateInstruction()
	instr.AsBrz(cond, args, target)
	e.builder.InsertInstruction(instr)
}

func (e *Emitter) emitBrnz(cond ssa.Value, args []ssa.Value, target ssa.BasicBlock) {
	instr := e.builder.AllocateInstruction()
	instr.AsBrnz(cond, args, target)
	e.builder.InsertInstruction(instr)
}

// branchToEndOfCurrent implements spec's "branch current position to endBlock (feeding
// end-φs)" step shared by `else` and `end`: a no-op when the current frame is already
// unreachable, per invariant 3.
func (e *Emitter) branchToEndOfCurrent() {
	f := e.currentFrame()
	if !f.IsReachable {
		return
	}
	args := e.stack.PeekN(len(f.ResultTypes))
	e.emitJump(args, f.EndBlock)
}

// enterUnreachable marks the current frame unreachable and switches the main dispatch
// loop into the shadow visitor (see Emitter.Emit) until a matching else/end/catch/
// catch_all at the outermost unreachable frame restores reachability.
func (e *Emitter) enterUnreachable() {
	e.currentFrame().IsReachable = false
	e.unreachable = true
	e.unreachableDepth = 0
}

// pushZeroConstants pushes one typed zero constant per typ, used in place of the end-φs
// of an end block with no predecessors (spec's "dead-branch cleanup": a block result
// nothing actually produces still has a value the stack-balance invariant requires).
func (e *Emitter) pushZeroConstants(types []ssa.Type) {
	for _, t := range types {
		e.stack.Push(e.emitZeroConstant(t))
	}
}

func (e *Emitter) emitZeroConstant(t ssa.Type) ssa.Value {
	instr := e.builder.AllocateInstruction()
	switch t {
	case ssa.TypeI32:
		instr.AsIconst32(0)
	case ssa.TypeI64:
		instr.AsIconst64(0)
	case ssa.TypeF32:
		instr.AsF32const(0)
	case ssa.TypeF64:
		instr.AsF64const(0)
	case ssa.TypeV128:
		instr.AsVconst(0, 0)
	default:
		panic(fmt.Sprintf("BUG: no zero constant for type %s", t))
	}
	e.builder.InsertInstruction(instr)
	return instr.Return()
}

// handleBlock implements spec §4.2's `block T`.
func (e *Emitter) handleBlock(params, results []ssa.Type) {
	args := e.stack.PopN(len(params))
	endBlock := e.builder.AllocateBasicBlock()
	for _, t := range results {
		endBlock.AddParam(e.builder, t)
	}

	e.pushControlFrame(ControlContext{
		Kind:                        FrameBlock,
		ResultTypes:                 results,
		EndBlock:                    endBlock,
		OuterOperandStackDepth:      e.stack.Depth(),
		OuterBranchTargetStackDepth: len(e.branchTargets),
		IsReachable:                 true,
	})
	e.pushBranchTarget(BranchTarget{ArgTypes: results, Block: endBlock})
	for _, v := range args {
		e.stack.Push(v)
	}
}

// handleLoop implements spec §4.2's `loop T`.
func (e *Emitter) handleLoop(params, results []ssa.Type) {
	args := e.stack.PopN(len(params))

	body := e.builder.AllocateBasicBlock()
	bodyPHIs := make([]ssa.Value, len(params))
	for i, t := range params {
		bodyPHIs[i] = body.AddParam(e.builder, t)
	}

	// endBlock is the normal fallthrough exit, reached when the body runs off its end
	// without branching back; it is distinct from the loop's branch target below.
	endBlock := e.builder.AllocateBasicBlock()
	for _, t := range results {
		endBlock.AddParam(e.builder, t)
	}

	e.emitJump(args, body)
	e.builder.SetCurrentBlock(body)

	e.pushControlFrame(ControlContext{
		Kind:                        FrameLoop,
		ResultTypes:                 results,
		EndBlock:                    endBlock,
		LoopBody:                    body,
		OuterOperandStackDepth:      e.stack.Depth(),
		OuterBranchTargetStackDepth: len(e.branchTargets),
		IsReachable:                 true,
	})
	// The loop's *branch target* is the body (backwards edge), not an end block,
	// per spec: "br to a loop jumps backwards".
	e.pushBranchTarget(BranchTarget{ArgTypes: params, Block: body})
	for _, v := range bodyPHIs {
		e.stack.Push(v)
	}
}

// handleIf implements spec §4.2's `if T`.
func (e *Emitter) handleIf(params, results []ssa.Type) {
	cond := e.stack.Pop()
	args := e.stack.PopN(len(params))

	thenBlock := e.builder.AllocateBasicBlock()
	elseBlock := e.builder.AllocateBasicBlock()
	endBlock := e.builder.AllocateBasicBlock()
	for _, t := range results {
		endBlock.AddParam(e.builder, t)
	}

	e.emitBrnz(cond, args, thenBlock)
	e.emitJump(args, elseBlock)
	e.builder.SetCurrentBlock(thenBlock)

	e.pushControlFrame(ControlContext{
		Kind:                        FrameIfThen,
		ResultTypes:                 results,
		EndBlock:                    endBlock,
		ElseBlock:                   elseBlock,
		ElseArgs:                    args,
		OuterOperandStackDepth:      e.stack.Depth(),
		OuterBranchTargetStackDepth: len(e.branchTargets),
		IsReachable:                 true,
	})
	e.pushBranchTarget(BranchTarget{ArgTypes: results, Block: endBlock})
	for _, v := range args {
		e.stack.Push(v)
	}
}

// handleElse implements spec §4.2's `else`.
func (e *Emitter) handleElse() {
	e.branchToEndOfCurrent()

	f := e.currentFrame()
	elseBlock, elseArgs := f.ElseBlock, f.ElseArgs
	e.builder.SetCurrentBlock(elseBlock)
	e.stack.TruncateToDepth(f.OuterOperandStackDepth)
	for _, v := range elseArgs {
		e.stack.Push(v)
	}

	f.Kind = FrameIfElse
	f.ElseBlock = nil
	f.IsReachable = true
}

// handleEnd implements spec §4.2's `end` for block/loop/if frames.
func (e *Emitter) handleEnd() {
	f := e.currentFrame()

	if f.Kind == FrameIfThen {
		// No `else` was seen: synthesise the identity edge (params -> results, which
		// only type-checks when params == results).
		e.builder.SetCurrentBlock(f.ElseBlock)
		e.emitJump(f.ElseArgs, f.EndBlock)
	} else {
		e.branchToEndOfCurrent()
	}

	e.popBranchTargets(1)
	cc := e.popControlFrame()

	if cc.Kind == FrameFunction {
		// The dedicated return block carries no instructions of its own and nothing
		// follows the function's final end; see ssa.BasicBlock.ReturnBlock.
		return
	}
	if cc.Kind == FrameLoop {
		e.builder.Seal(cc.LoopBody)
	}

	e.builder.Seal(cc.EndBlock)
	e.builder.SetCurrentBlock(cc.EndBlock)
	e.stack.TruncateToDepth(cc.OuterOperandStackDepth)

	if cc.EndBlock.Preds() == 0 {
		// Dead-branch cleanup: nothing reaches this end block (e.g. every path out of
		// the frame returned or trapped); push zeros instead of its φs, which stay
		// declared on the block but are never used.
		e.pushZeroConstants(cc.ResultTypes)
	} else {
		for i := range cc.ResultTypes {
			e.stack.Push(cc.EndBlock.Param(i))
		}
	}
}

// handleBr implements spec §4.2's `br d`.
func (e *Emitter) handleBr(depth uint32) {
	target := e.getBranchTargetByDepth(depth)
	args := e.stack.PopN(len(target.ArgTypes))
	e.emitJump(args, target.Block)
	e.enterUnreachable()
}

// handleBrIf implements spec §4.2's `br_if d`.
func (e *Emitter) handleBrIf(depth uint32) {
	target := e.getBranchTargetByDepth(depth)
	cond := e.stack.Pop()
	args := e.stack.PeekN(len(target.ArgTypes))

	fallthroughBlock := e.builder.AllocateBasicBlock()
	e.emitBrnz(cond, args, target.Block)
	e.emitJump(nil, fallthroughBlock)
	e.builder.Seal(fallthroughBlock)
	e.builder.SetCurrentBlock(fallthroughBlock)
}

// handleBrTable implements spec §4.2's `br_table targets[], default`.
func (e *Emitter) handleBrTable(targets []uint32, def uint32) {
	index := e.stack.Pop()
	defaultTarget := e.getBranchTargetByDepth(def)
	args := e.stack.PopN(len(defaultTarget.ArgTypes))

	blocks := make([]ssa.BasicBlock, len(targets)+1)
	for i, d := range targets {
		blocks[i] = e.getBranchTargetByDepth(d).Block
	}
	blocks[len(targets)] = defaultTarget.Block

	instr := e.builder.AllocateInstruction()
	instr.AsBrTable(index, args, blocks)
	e.builder.InsertInstruction(instr)
	e.enterUnreachable()
}

// handleReturn implements spec §4.2's `return`: equivalent to `br` to the function-root
// frame, whose branch target (the dedicated return block) sits at the bottom of the
// branch-target stack.
func (e *Emitter) handleReturn() {
	e.handleBr(uint32(len(e.branchTargets) - 1))
}

// handleUnreachable implements spec §4.2's `unreachable`.
func (e *Emitter) handleUnreachable() {
	e.emitTrap(ssa.TrapKindUnreachable)
	e.enterUnreachable()
}

// Package emit lowers one WebAssembly function body at a time into the SSA IR
// package's Builder, following the control-flow and operator-lowering design
// of the WebAssembly AOT/JIT emitter this repository generalizes: a per-function
// OperandStack plus a stack of ControlContext frames and BranchTarget entries,
// fed operator-by-operator from internal/decode, driving a table of per-opcode
// lowering closures.
package emit

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wazevo-emit/ssaemit/internal/decode"
	"github.com/wazevo-emit/ssaemit/internal/emit/unwind"
	"github.com/wazevo-emit/ssaemit/internal/ssa"
	"github.com/wazevo-emit/ssaemit/internal/wasm"
)

// ErrInvariantViolation signals an emitter-internal assertion failure: an operand-stack
// depth or φ-incoming-count invariant did not hold. This indicates either a bug in the
// emitter or a failure of the upstream validator contract — the emitter never recovers
// from it.
type ErrInvariantViolation struct {
	Reason string
}

func (e *ErrInvariantViolation) Error() string {
	return fmt.Sprintf("emit: invariant violation: %s", e.Reason)
}

// Option configures an Emitter at construction.
type Option func(*Emitter)

// WithExceptionLowering selects the unwind backend used for try/catch/throw/rethrow.
// Defaults to unwind.NewItanium() when not given.
func WithExceptionLowering(l unwind.ExceptionLowering) Option {
	return func(e *Emitter) { e.exc = l }
}

// WithLogger attaches a *zap.Logger the emitter uses to report the function index
// alongside any error it returns.
func WithLogger(log *zap.Logger) Option {
	return func(e *Emitter) { e.log = log }
}

// Emitter holds the entire state of lowering a single function; it is created empty,
// mutated during one linear pass over the function's operators, and discarded after
// the body's terminator per spec's single-function-scoped lifecycle.
type Emitter struct {
	builder  ssa.Builder
	module   *wasm.Module
	instance *wasm.ModuleInstance
	fn       *wasm.FunctionDef
	exc      unwind.ExceptionLowering
	log      *zap.Logger

	stack         OperandStack
	controlFrames []ControlContext
	branchTargets []BranchTarget

	// unreachable/unreachableDepth implement the unreachable shadow visitor: while
	// unreachable is true, the main dispatch loop in Emit stops emitting real IR and
	// instead only tracks nested-structure depth, per spec §4.2's recovery contract.
	unreachable      bool
	unreachableDepth int

	// landingPads holds the landing-pad block of every currently-open try body,
	// innermost last. A call/intrinsic-call emitted while this is non-empty lowers to
	// OpcodeInvoke guarded by the innermost entry instead of a plain OpcodeCall; see
	// emitCall in exceptions.go.
	landingPads []ssa.BasicBlock

	// localVars holds one ssa.Variable per WebAssembly local (parameters first, then
	// declared locals), addressed by local index.
	localVars  []ssa.Variable
	localTypes []wasm.ValueType

	// globalVars is allocated by NewEmitter but no lowering reads or writes it:
	// mutable globals are reloaded from the instance on every access (see
	// lower_variable.go).
	globalVars map[wasm.Index]ssa.Variable

	memoryBaseVar, memoryLenVar ssa.Variable
	tableBaseVar                ssa.Variable
	execCtxValue, moduleCtxValue ssa.Value

	// entryBlock is the function's single entry, recorded by emitPrologue; Emit's
	// finalize step uses it to assert that every reachable block the function built is
	// actually dominated by it, catching a malformed CFG before it ever reaches a backend.
	entryBlock ssa.BasicBlock

	// intrinsicSigs/callSigs cache the *ssa.Signature declared for each intrinsic/direct
	// call target the function actually references; see intrinsics.go and lower_call.go.
	intrinsicSigs map[IntrinsicID]*ssa.Signature
	callSigs      map[wasm.Index]*ssa.Signature

	dec *decode.Decoder
}

// NewEmitter constructs an Emitter for one function of module/instance. Call Emit to
// lower it; construct a fresh Emitter per function (per spec's concurrency model,
// separate Emitters may run on separate goroutines sharing only module/instance).
func NewEmitter(builder ssa.Builder, module *wasm.Module, instance *wasm.ModuleInstance, fn *wasm.FunctionDef, opts ...Option) *Emitter {
	e := &Emitter{
		builder:    builder,
		module:     module,
		instance:   instance,
		fn:         fn,
		exc:        unwind.NewItanium(),
		log:        zap.NewNop(),
		globalVars: make(map[wasm.Index]ssa.Variable),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Emit lowers the function body into e.builder; the populated SSA function is read back
// from that builder afterwards, and Emit itself returns only an error. Every runtime-detectable
// error is emitted as in-IR trap calls, never returned here; Emit's error return is
// reserved for the two genuinely fatal ambient conditions spec §7 names: a malformed
// opcode from the decoder, or an internal invariant violation.
func (e *Emitter) Emit() (err error) {
	defer func() {
		if err != nil {
			e.log.Error("emit: function lowering failed",
				zap.Uint32("funcIndex", e.fn.Index), zap.Error(err))
		}
	}()

	sig := signatureForFunctionType(e.fn.Type)
	e.builder.Init(&sig)
	e.emitPrologue()

	e.dec = decode.NewDecoder(e.fn.Body)
	for !e.dec.Done() {
		op, derr := e.dec.Next(e.module)
		if derr != nil {
			return derr
		}
		if e.unreachable {
			e.dispatchUnreachable(op)
			continue
		}
		if derr := e.dispatch(op); derr != nil {
			return derr
		}
	}

	if len(e.controlFrames) != 0 {
		return &ErrInvariantViolation{Reason: fmt.Sprintf("function body ended with %d open control frame(s)", len(e.controlFrames))}
	}

	e.builder.RunPasses()
	if err := e.checkEntryDominatesEveryBlock(); err != nil {
		return err
	}
	e.builder.LayoutBlocks()
	return nil
}

// checkEntryDominatesEveryBlock asserts the one structural property every block this
// emitter ever builds must have: since the function has a single entry and every branch
// instruction wires up a predecessor/successor edge through InsertInstruction, nothing
// reachable from the entry can fail to be dominated by it. A violation means a handler
// somewhere built a block graph with no real predecessor path back to the entry — always
// an emitter bug, never something a caller's WebAssembly can provoke.
func (e *Emitter) checkEntryDominatesEveryBlock() error {
	for blk := e.builder.BlockIteratorReversePostOrderBegin(); blk != nil; blk = e.builder.BlockIteratorReversePostOrderNext() {
		if !e.builder.Dominates(blk, e.entryBlock) {
			return &ErrInvariantViolation{Reason: fmt.Sprintf("entry block does not dominate reachable block %s", blk.Name())}
		}
	}
	return nil
}

// dispatchUnreachable implements the shadow visitor: nested-structure tracking only,
// forwarding else/end/catch/catch_all to the real handlers when they close the
// outermost unreachable frame.
func (e *Emitter) dispatchUnreachable(op decode.Operator) {
	switch op.Opcode {
	case wasm.OpcodeBlock, wasm.OpcodeLoop, wasm.OpcodeIf, wasm.OpcodeTry:
		e.unreachableDepth++
	case wasm.OpcodeEnd:
		if e.unreachableDepth > 0 {
			e.unreachableDepth--
			return
		}
		e.unreachable = false
		e.dispatchEnd()
	case wasm.OpcodeElse:
		if e.unreachableDepth > 0 {
			return
		}
		e.unreachable = false
		e.handleElse()
	case wasm.OpcodeCatch:
		if e.unreachableDepth > 0 {
			return
		}
		e.unreachable = false
		e.handleCatch(op.ExceptionIndex)
	case wasm.OpcodeCatchAll:
		if e.unreachableDepth > 0 {
			return
		}
		e.unreachable = false
		e.handleCatchAll()
	}
}

// dispatchEnd routes `end` to the try/catch-aware handler when the frame it closes is
// an exception-handling region, and to the generic block/loop/if/function handler
// otherwise.
func (e *Emitter) dispatchEnd() {
	switch e.currentFrame().Kind {
	case FrameTry, FrameCatch:
		e.handleTryEnd()
	default:
		e.handleEnd()
	}
}

// emitPrologue implements spec §4.6: an entry block allocating stack slots for every
// parameter and local, plus the function-root control frame whose branch target is
// the dedicated return block.
func (e *Emitter) emitPrologue() {
	entry := e.builder.AllocateBasicBlock()
	e.builder.SetCurrentBlock(entry)
	e.entryBlock = entry

	e.execCtxValue = entry.AddParam(e.builder, ssa.TypeI64)
	e.moduleCtxValue = entry.AddParam(e.builder, ssa.TypeI64)
	e.builder.AnnotateValue(e.execCtxValue, "exec_ctx")
	e.builder.AnnotateValue(e.moduleCtxValue, "module_ctx")

	e.localTypes = make([]wasm.ValueType, 0, len(e.fn.Type.Params)+len(e.fn.LocalTypes))
	e.localTypes = append(e.localTypes, e.fn.Type.Params...)
	e.localTypes = append(e.localTypes, e.fn.LocalTypes...)
	e.localVars = make([]ssa.Variable, len(e.localTypes))

	for i, vt := range e.fn.Type.Params {
		st := wasmTypeToSSA(vt)
		v := e.builder.DeclareVariable(st)
		argValue := entry.AddParam(e.builder, st)
		e.builder.DefineVariable(v, argValue, entry)
		e.localVars[i] = v
	}
	for i, vt := range e.fn.LocalTypes {
		idx := len(e.fn.Type.Params) + i
		st := wasmTypeToSSA(vt)
		v := e.builder.DeclareVariable(st)
		e.builder.DefineVariable(v, e.emitZeroConstant(st), entry)
		e.localVars[idx] = v
	}

	e.memoryBaseVar = e.builder.DeclareVariable(ssa.TypeI64)
	e.memoryLenVar = e.builder.DeclareVariable(ssa.TypeI64)
	e.tableBaseVar = e.builder.DeclareVariable(ssa.TypeI64)
	e.emitLoadMemoryAndTableBase(entry)

	e.builder.Seal(entry)

	results := make([]ssa.Type, len(e.fn.Type.Results))
	for i, vt := range e.fn.Type.Results {
		results[i] = wasmTypeToSSA(vt)
	}
	retBlock := e.builder.ReturnBlock()
	for _, t := range results {
		retBlock.AddParam(e.builder, t)
	}

	e.pushControlFrame(ControlContext{
		Kind:                        FrameFunction,
		ResultTypes:                 results,
		EndBlock:                    retBlock,
		OuterOperandStackDepth:      0,
		OuterBranchTargetStackDepth: 0,
		IsReachable:                 true,
	})
	e.pushBranchTarget(BranchTarget{ArgTypes: results, Block: retBlock})
}

func (e *Emitter) emitTrap(kind ssa.TrapKind) {
	instr := e.builder.AllocateInstruction()
	instr.AsTrap(e.execCtxValue, kind)
	e.builder.InsertInstruction(instr)
}

func (e *Emitter) emitTrapIfTrue(cond ssa.Value, kind ssa.TrapKind) {
	instr := e.builder.AllocateInstruction()
	instr.AsTrapIfTrue(e.execCtxValue, cond, kind)
	e.builder.InsertInstruction(instr)
}

func wasmTypeToSSA(vt wasm.ValueType) ssa.Type {
	switch vt {
	case wasm.ValueTypeI32:
		return ssa.TypeI32
	case wasm.ValueTypeI64:
		return ssa.TypeI64
	case wasm.ValueTypeF32:
		return ssa.TypeF32
	case wasm.ValueTypeF64:
		return ssa.TypeF64
	case wasm.ValueTypeV128:
		return ssa.TypeV128
	default:
		panic(fmt.Sprintf("BUG: unsupported value type %s", vt))
	}
}

func signatureForFunctionType(typ *wasm.FunctionType) ssa.Signature {
	sig := ssa.Signature{
		Params:  make([]ssa.Type, len(typ.Params)+2),
		Results: make([]ssa.Type, len(typ.Results)),
	}
	sig.Params[0], sig.Params[1] = ssa.TypeI64, ssa.TypeI64
	for i, vt := range typ.Params {
		sig.Params[i+2] = wasmTypeToSSA(vt)
	}
	for i, vt := range typ.Results {
		sig.Results[i] = wasmTypeToSSA(vt)
	}
	return sig
}

// blockTypeSignature resolves a decoded wasm.BlockType into (params, results) SSA types,
// for block/loop/if/try.
func (e *Emitter) blockTypeSignature(bt wasm.BlockType) (params, results []ssa.Type) {
	ft := bt.Signature(e.module)
	params = make([]ssa.Type, len(ft.Params))
	for i, vt := range ft.Params {
		params[i] = wasmTypeToSSA(vt)
	}
	results = make([]ssa.Type, len(ft.Results))
	for i, vt := range ft.Results {
		results[i] = wasmTypeToSSA(vt)
	}
	return
}

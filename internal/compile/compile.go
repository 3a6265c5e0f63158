// Package compile drives whole-module compilation: it assembles the per-function
// inputs internal/emit needs from a decoded wasm.Module and fans emission out across
// functions, since lowering one function's body never touches another's.
package compile

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wazevo-emit/ssaemit/internal/emit"
	"github.com/wazevo-emit/ssaemit/internal/ssa"
	"github.com/wazevo-emit/ssaemit/internal/wasm"
)

// FunctionDefs assembles one wasm.FunctionDef per locally-defined function (the
// CodeSection entries; imported functions have no body to compile), resolving each
// one's signature through FunctionSection/TypeSection.
//
// BranchTables is left nil on every returned FunctionDef: the decoder reads br_table's
// target vector directly off Body at decode time (see decode.Decoder.decodeCoreImmediates),
// so nothing in this package needs the precomputed field.
func FunctionDefs(module *wasm.Module) []wasm.FunctionDef {
	importedFuncCount := wasm.Index(0)
	for _, im := range module.ImportSection {
		if im.Kind == wasm.ImportKindFunc {
			importedFuncCount++
		}
	}

	defs := make([]wasm.FunctionDef, len(module.CodeSection))
	for i, code := range module.CodeSection {
		idx := importedFuncCount + wasm.Index(i)
		defs[i] = wasm.FunctionDef{
			Index:      idx,
			Type:       &module.TypeSection[module.FunctionSection[i]],
			LocalTypes: code.LocalTypes,
			Body:       code.Body,
		}
	}
	return defs
}

// Result is one function's compiled output: the populated ssa.Builder on success, or
// the error its Emitter returned on failure. Exactly one of these is meaningful.
type Result struct {
	Index   wasm.Index
	Builder ssa.Builder
	Err     error
}

// Option configures a CompileAll run.
type Option func(*options)

type options struct {
	log     *zap.Logger
	newOpts []emit.Option
}

// WithLogger attaches a *zap.Logger used for driver-level progress/outcome logging,
// and threaded through to each function's Emitter via emit.WithLogger.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithEmitOptions forwards additional options (e.g. emit.WithExceptionLowering) to
// every per-function Emitter this run constructs.
func WithEmitOptions(opts ...emit.Option) Option {
	return func(o *options) { o.newOpts = append(o.newOpts, opts...) }
}

// Module bundles the static and instance-time data CompileAll needs; both are treated
// as read-only and may be shared across every goroutine CompileAll spawns.
type Module struct {
	Wasm     *wasm.Module
	Instance *wasm.ModuleInstance
}

// CompileAll lowers every locally-defined function in m concurrently, one
// ssa.Builder/emit.Emitter pair per goroutine, sharing only m's immutable fields. It
// returns one Result per function, in function-index order regardless of completion
// order, and a non-nil error aggregating every per-function failure via multierr so one
// malformed function never hides failures in the others.
func CompileAll(m Module, opts ...Option) ([]Result, error) {
	o := &options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}

	defs := FunctionDefs(m.Wasm)
	results := make([]Result, len(defs))

	var g errgroup.Group
	for i := range defs {
		i := i
		g.Go(func() error {
			fn := &defs[i]
			builder := ssa.NewBuilder()
			emitOpts := append([]emit.Option{emit.WithLogger(o.log)}, o.newOpts...)
			e := emit.NewEmitter(builder, m.Wasm, m.Instance, fn, emitOpts...)
			err := e.Emit()
			results[i] = Result{Index: fn.Index, Builder: builder, Err: err}
			return nil // per-function errors are collected in results, not propagated here.
		})
	}
	_ = g.Wait() // never returns non-nil: every Go closure above always returns nil itself.

	var merr error
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			merr = multierr.Append(merr, fmt.Errorf("function %d: %w", r.Index, r.Err))
		}
	}
	if merr != nil {
		o.log.Error("compile: module compilation finished with failures",
			zap.Int("failed", failed), zap.Int("total", len(results)))
	} else {
		o.log.Info("compile: module compiled", zap.Int("functions", len(results)))
	}
	return results, merr
}

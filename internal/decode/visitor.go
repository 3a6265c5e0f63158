package decode

import "github.com/wazevo-emit/ssaemit/internal/wasm"

// Visitor dispatches a decoded Operator to a handler named by opcode.
// Only the structural control-flow opcodes get their own method — these
// are the ones spec.md §4.2's "unreachable shadow visitor" needs to
// track nested-structure depth while skipping everything else; every
// other opcode reaches Default. A full one-method-per-opcode visitor
// (spec.md §9's "trait/interface with one method per opcode" option) is
// what the emitter itself is, via its per-opcode lowering switch — this
// narrower Visitor exists only for the decoder's own "decode-with-
// visitor" capability (spec.md §4.1).
type Visitor interface {
	Block(Operator)
	Loop(Operator)
	If(Operator)
	Else(Operator)
	End(Operator)
	Try(Operator)
	Catch(Operator)
	CatchAll(Operator)
	Default(Operator)
}

// DecodeWithVisitor decodes every operator in the body and dispatches
// each to v, stopping at the first decode error.
func DecodeWithVisitor(body []byte, module *wasm.Module, v Visitor) error {
	d := NewDecoder(body)
	for !d.Done() {
		op, err := d.Next(module)
		if err != nil {
			return err
		}
		dispatch(op, v)
	}
	return nil
}

func dispatch(op Operator, v Visitor) {
	switch op.Opcode {
	case wasm.OpcodeBlock:
		v.Block(op)
	case wasm.OpcodeLoop:
		v.Loop(op)
	case wasm.OpcodeIf:
		v.If(op)
	case wasm.OpcodeElse:
		v.Else(op)
	case wasm.OpcodeEnd:
		v.End(op)
	case wasm.OpcodeTry:
		v.Try(op)
	case wasm.OpcodeCatch:
		v.Catch(op)
	case wasm.OpcodeCatchAll:
		v.CatchAll(op)
	default:
		v.Default(op)
	}
}

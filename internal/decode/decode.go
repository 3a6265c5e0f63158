// Package decode implements the operator decoder (spec component
// "Operator decoder"): a lazy, forward-only sequence of typed operator
// records read out of a function body's raw bytecode.
package decode

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/wazevo-emit/ssaemit/internal/leb128"
	"github.com/wazevo-emit/ssaemit/internal/wasm"
)

// ErrMalformedOpcode is wrapped into the error Next returns when it hits
// a byte that does not introduce any known opcode. Per spec.md §4.1 this
// is the decoder's only error kind — it is never raised for a
// type-incorrect operator, since that is the validator's job and the
// validator contract guarantees the decoder never sees one.
var ErrMalformedOpcode = fmt.Errorf("malformed opcode")

// Operator is a decoded instruction: an opcode plus whichever immediate
// fields that opcode carries. Exactly the fields relevant to Opcode (and
// Misc/Atomic/SIMD, when Opcode is one of the three multi-byte prefixes)
// are populated; the rest are zero.
type Operator struct {
	Offset int // byte offset of the opcode itself, for diagnostics.
	Opcode wasm.Opcode

	// Misc/Atomic/SIMD hold the second byte of a prefixed opcode.
	Misc   wasm.OpcodeMisc
	Atomic wasm.OpcodeAtomic
	SIMD   wasm.OpcodeSIMD

	I32 int32
	I64 int64
	F32 float32
	F64 float64

	LocalIndex, GlobalIndex, FuncIndex, TypeIndex, TableIndex,
	MemoryIndex, ExceptionIndex, DataIndex, ElemIndex, LaneIndex uint32

	Align, Offset32 uint32

	BlockType wasm.BlockType

	// Depth is the branch-target-stack depth for br/br_if/rethrow. catch
	// and throw carry their exception index in ExceptionIndex instead.
	Depth uint32

	// Targets/Default hold br_table's labels vector and default label.
	Targets []uint32
	Default uint32

	V128 [16]byte
}

// Decoder streams Operator records out of a function body's bytecode.
// It is forward-only and not restartable; create a new Decoder to
// re-scan from the start.
type Decoder struct {
	body []byte
	pc   int
}

// NewDecoder returns a Decoder positioned at the start of body.
func NewDecoder(body []byte) *Decoder { return &Decoder{body: body} }

// PC returns the current byte offset into the function body.
func (d *Decoder) PC() int { return d.pc }

// Done reports whether the decoder has consumed the entire body.
func (d *Decoder) Done() bool { return d.pc >= len(d.body) }

// PeekOpcode returns the next opcode byte without consuming it, so a
// caller can make a branching decision (e.g. the control core checking
// for a matching "end") before committing to a full Next.
func (d *Decoder) PeekOpcode() (wasm.Opcode, error) {
	if d.Done() {
		return 0, fmt.Errorf("%w: unexpected end of function body at offset %d", ErrMalformedOpcode, d.pc)
	}
	return wasm.Opcode(d.body[d.pc]), nil
}

// Next decodes and consumes the next Operator.
func (d *Decoder) Next(module *wasm.Module) (Operator, error) {
	if d.Done() {
		return Operator{}, fmt.Errorf("%w: unexpected end of function body at offset %d", ErrMalformedOpcode, d.pc)
	}
	start := d.pc
	op := wasm.Opcode(d.body[d.pc])
	d.pc++

	rec := Operator{Offset: start, Opcode: op}
	var err error
	switch op {
	case wasm.OpcodeMiscPrefix:
		var misc uint32
		misc, err = d.readU32leb()
		rec.Misc = byte(misc)
		if err == nil {
			err = d.decodeMiscImmediates(&rec)
		}
	case wasm.OpcodeAtomicPrefix:
		var a uint32
		a, err = d.readU32leb()
		rec.Atomic = byte(a)
		if err == nil {
			err = d.decodeAtomicImmediates(&rec)
		}
	case wasm.OpcodeSIMDPrefix:
		var s uint32
		s, err = d.readU32leb()
		rec.SIMD = byte(s)
		if err == nil {
			err = d.decodeSIMDImmediates(&rec)
		}
	default:
		err = d.decodeCoreImmediates(&rec, module)
	}
	if err != nil {
		return Operator{}, fmt.Errorf("%w: at offset %d: %v", ErrMalformedOpcode, start, err)
	}
	return rec, nil
}

func (d *Decoder) decodeCoreImmediates(rec *Operator, module *wasm.Module) error {
	switch rec.Opcode {
	case wasm.OpcodeBlock, wasm.OpcodeLoop, wasm.OpcodeIf, wasm.OpcodeTry:
		return d.readBlockType(rec, module)
	case wasm.OpcodeBr, wasm.OpcodeBrIf, wasm.OpcodeRethrow:
		v, err := d.readU32leb()
		rec.Depth = v
		return err
	case wasm.OpcodeBrTable:
		n, err := d.readU32leb()
		if err != nil {
			return err
		}
		targets := make([]uint32, n)
		for i := range targets {
			if targets[i], err = d.readU32leb(); err != nil {
				return err
			}
		}
		def, err := d.readU32leb()
		if err != nil {
			return err
		}
		rec.Targets, rec.Default = targets, def
		return nil
	case wasm.OpcodeCall, wasm.OpcodeRefFunc:
		v, err := d.readU32leb()
		rec.FuncIndex = v
		return err
	case wasm.OpcodeCallIndirect:
		t, err := d.readU32leb()
		if err != nil {
			return err
		}
		tbl, err := d.readU32leb()
		rec.TypeIndex, rec.TableIndex = t, tbl
		return err
	case wasm.OpcodeCatch:
		v, err := d.readU32leb()
		rec.ExceptionIndex = v
		return err
	case wasm.OpcodeThrow:
		v, err := d.readU32leb()
		rec.ExceptionIndex = v
		return err
	case wasm.OpcodeLocalGet, wasm.OpcodeLocalSet, wasm.OpcodeLocalTee:
		v, err := d.readU32leb()
		rec.LocalIndex = v
		return err
	case wasm.OpcodeGlobalGet, wasm.OpcodeGlobalSet:
		v, err := d.readU32leb()
		rec.GlobalIndex = v
		return err
	case wasm.OpcodeMemorySize, wasm.OpcodeMemoryGrow:
		v, err := d.readU32leb() // reserved memory index byte in Wasm 1.0.
		rec.MemoryIndex = v
		return err
	case wasm.OpcodeI32Const:
		v, consumed, err := leb128.LoadInt32(d.body, uint64(d.pc))
		rec.I32 = v
		d.pc += int(consumed)
		return err
	case wasm.OpcodeI64Const:
		v, consumed, err := leb128.LoadInt64(d.body, uint64(d.pc))
		rec.I64 = v
		d.pc += int(consumed)
		return err
	case wasm.OpcodeF32Const:
		if d.pc+4 > len(d.body) {
			return fmt.Errorf("unexpected end of body reading f32 const")
		}
		rec.F32 = math.Float32frombits(binary.LittleEndian.Uint32(d.body[d.pc:]))
		d.pc += 4
		return nil
	case wasm.OpcodeF64Const:
		if d.pc+8 > len(d.body) {
			return fmt.Errorf("unexpected end of body reading f64 const")
		}
		rec.F64 = math.Float64frombits(binary.LittleEndian.Uint64(d.body[d.pc:]))
		d.pc += 8
		return nil
	case wasm.OpcodeRefNull:
		_, err := d.readU32leb() // reftype byte, encoded as LEB here for simplicity.
		return err
	case wasm.OpcodeSelect:
		return nil
	default:
		if isMemOpcode(rec.Opcode) {
			a, err := d.readU32leb()
			if err != nil {
				return err
			}
			o, err := d.readU32leb()
			rec.Align, rec.Offset32 = a, o
			return err
		}
		if !isNoImmediateOpcode(rec.Opcode) {
			return fmt.Errorf("unknown opcode 0x%02x", byte(rec.Opcode))
		}
		// Arithmetic, comparison, control terminators, parametric, and
		// sign-extension opcodes carry no immediates.
		return nil
	}
}

func isMemOpcode(op wasm.Opcode) bool {
	return op >= wasm.OpcodeI32Load && op <= wasm.OpcodeI64Store32
}

// isNoImmediateOpcode reports whether op is a defined opcode that this
// decoder has not given its own case (because it carries no
// immediates). Anything outside these ranges/bytes is genuinely
// malformed: either reserved or simply not a WebAssembly opcode.
func isNoImmediateOpcode(op wasm.Opcode) bool {
	switch {
	case op == wasm.OpcodeUnreachable, op == wasm.OpcodeNop:
	case op == wasm.OpcodeElse, op == wasm.OpcodeEnd, op == wasm.OpcodeReturn:
	case op == wasm.OpcodeCatchAll:
	case op == wasm.OpcodeDrop, op == wasm.OpcodeSelect:
	case op == wasm.OpcodeRefIsNull:
	case op >= wasm.OpcodeI32Eqz && op <= wasm.OpcodeF64Copysign:
	case op >= wasm.OpcodeI32WrapI64 && op <= wasm.OpcodeF64ReinterpretI64:
	case op >= wasm.OpcodeI32Extend8S && op <= wasm.OpcodeI64Extend32S:
	default:
		return false
	}
	return true
}

func (d *Decoder) decodeMiscImmediates(rec *Operator) error {
	switch rec.Misc {
	case wasm.OpcodeMiscMemoryInit, wasm.OpcodeMiscTableInit:
		v, err := d.readU32leb()
		if err != nil {
			return err
		}
		if rec.Misc == wasm.OpcodeMiscTableInit {
			rec.ElemIndex = v
		} else {
			rec.DataIndex = v
		}
		_, err = d.readU32leb() // trailing table/memory index byte.
		return err
	case wasm.OpcodeMiscDataDrop:
		v, err := d.readU32leb()
		rec.DataIndex = v
		return err
	case wasm.OpcodeMiscElemDrop:
		v, err := d.readU32leb()
		rec.ElemIndex = v
		return err
	case wasm.OpcodeMiscMemoryCopy, wasm.OpcodeMiscTableCopy:
		if _, err := d.readU32leb(); err != nil {
			return err
		}
		_, err := d.readU32leb()
		return err
	case wasm.OpcodeMiscMemoryFill:
		_, err := d.readU32leb()
		return err
	default:
		// Saturating truncations have no immediates.
		return nil
	}
}

func (d *Decoder) decodeAtomicImmediates(rec *Operator) error {
	switch rec.Atomic {
	case wasm.OpcodeAtomicFence:
		_, err := d.readU32leb() // reserved byte.
		return err
	case wasm.OpcodeAtomicNotify, wasm.OpcodeAtomicWait32, wasm.OpcodeAtomicWait64:
		a, err := d.readU32leb()
		if err != nil {
			return err
		}
		o, err := d.readU32leb()
		rec.Align, rec.Offset32 = a, o
		return err
	default:
		a, err := d.readU32leb()
		if err != nil {
			return err
		}
		o, err := d.readU32leb()
		rec.Align, rec.Offset32 = a, o
		return err
	}
}

func (d *Decoder) decodeSIMDImmediates(rec *Operator) error {
	switch rec.SIMD {
	case wasm.OpcodeSIMDV128Load, wasm.OpcodeSIMDV128Store:
		a, err := d.readU32leb()
		if err != nil {
			return err
		}
		o, err := d.readU32leb()
		rec.Align, rec.Offset32 = a, o
		return err
	case wasm.OpcodeSIMDV128Const:
		if d.pc+16 > len(d.body) {
			return fmt.Errorf("unexpected end of body reading v128 const")
		}
		copy(rec.V128[:], d.body[d.pc:d.pc+16])
		d.pc += 16
		return nil
	case wasm.OpcodeSIMDI8x16ExtractLaneS, wasm.OpcodeSIMDI8x16ExtractLaneU, wasm.OpcodeSIMDI8x16ReplaceLane,
		wasm.OpcodeSIMDI16x8ExtractLaneS, wasm.OpcodeSIMDI16x8ExtractLaneU, wasm.OpcodeSIMDI16x8ReplaceLane,
		wasm.OpcodeSIMDI32x4ExtractLane, wasm.OpcodeSIMDI32x4ReplaceLane,
		wasm.OpcodeSIMDI64x2ExtractLane, wasm.OpcodeSIMDI64x2ReplaceLane,
		wasm.OpcodeSIMDF32x4ExtractLane, wasm.OpcodeSIMDF32x4ReplaceLane,
		wasm.OpcodeSIMDF64x2ExtractLane, wasm.OpcodeSIMDF64x2ReplaceLane:
		if d.Done() {
			return fmt.Errorf("unexpected end of body reading lane index")
		}
		rec.LaneIndex = uint32(d.body[d.pc])
		d.pc++
		return nil
	default:
		// Splats and per-lane arithmetic/comparison ops have no immediates.
		return nil
	}
}

func (d *Decoder) readU32leb() (uint32, error) {
	v, n, err := leb128.LoadUint32(d.body, uint64(d.pc))
	if err != nil {
		return 0, err
	}
	d.pc += int(n)
	return v, nil
}

func (d *Decoder) readBlockType(rec *Operator, module *wasm.Module) error {
	if d.Done() {
		return fmt.Errorf("unexpected end of body reading block type")
	}
	b := d.body[d.pc]
	switch b {
	case 0x40: // empty
		d.pc++
		rec.BlockType = wasm.BlockType{Empty: true}
		return nil
	case byte(wasm.ValueTypeI32), byte(wasm.ValueTypeI64), byte(wasm.ValueTypeF32), byte(wasm.ValueTypeF64), byte(wasm.ValueTypeV128):
		d.pc++
		rec.BlockType = wasm.BlockType{SingleResult: wasm.ValueType(b)}
		return nil
	default:
		idx, n, err := leb128.LoadInt33AsInt64(d.body, uint64(d.pc))
		if err != nil {
			return err
		}
		d.pc += int(n)
		if idx < 0 || int(idx) >= len(module.TypeSection) {
			return fmt.Errorf("block type index %d out of range", idx)
		}
		rec.BlockType = wasm.BlockType{HasTypeIndex: true, TypeIndex: uint32(idx)}
		return nil
	}
}

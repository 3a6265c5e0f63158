package wasm

// Module is the static descriptor the emitter compiles against: every
// section a validated WebAssembly binary carries, expanded into Go
// structs. It is immutable for the duration of compilation and may be
// shared read-only across concurrently emitting goroutines.
type Module struct {
	TypeSection     []FunctionType
	ImportSection   []Import
	FunctionSection []Index // FunctionSection[i] indexes TypeSection for the i-th locally-defined function.
	TableSection    []TableType
	MemorySection   []MemoryType
	GlobalSection   []Global
	ExportSection   []Export
	StartSection    *Index
	ElementSection  []ElementSegment
	CodeSection     []Code
	DataSection     []DataSegment
	// ExceptionSection holds exception tag signatures, indexed by `catch`/
	// `throw`/`rethrow` operator immediates. Not part of the WebAssembly
	// 1.0 core spec; this follows the exception-handling proposal's shape.
	ExceptionSection []ExceptionType
}

// TypeOfFunction resolves the FunctionType for a function in the combined
// import+local function index space.
func (m *Module) TypeOfFunction(funcIdx Index) *FunctionType {
	importedFuncCount := Index(0)
	for _, im := range m.ImportSection {
		if im.Kind == ImportKindFunc {
			if funcIdx == importedFuncCount {
				return &m.TypeSection[im.DescFunc]
			}
			importedFuncCount++
		}
	}
	localIdx := funcIdx - importedFuncCount
	return &m.TypeSection[m.FunctionSection[localIdx]]
}

// ImportKind distinguishes the four importable/exportable extern kinds.
type ImportKind byte

const (
	ImportKindFunc   ImportKind = 0x00
	ImportKindTable  ImportKind = 0x01
	ImportKindMemory ImportKind = 0x02
	ImportKindGlobal ImportKind = 0x03
)

// Import describes a single imported extern. Exactly one Desc* field is
// meaningful, selected by Kind.
type Import struct {
	Kind       ImportKind
	Module, Name string
	DescFunc   Index
	DescTable  TableType
	DescMem    MemoryType
	DescGlobal GlobalType
}

// LimitsType is the {min, max} pair WebAssembly uses for both table and
// memory limits; Max is nil when unbounded.
type LimitsType struct {
	Min uint32
	Max *uint32
}

// TableType describes a table's element kind and size limits. The
// emitter only ever sees funcref tables.
type TableType struct {
	ElemType byte
	Limit    LimitsType
}

// MemoryType is the {min,max} pair of a linear memory, in 64KiB pages.
type MemoryType = LimitsType

// GlobalType is a value type plus a mutability flag.
type GlobalType struct {
	ValType ValueType
	Mutable bool
}

// Global is a module-defined (non-imported) global: its type and
// initializer expression.
type Global struct {
	Type GlobalType
	Init ConstantExpression
}

// ConstantExpression is one of the handful of instructions WebAssembly
// allows in a constant-expression context (i32.const, i64.const,
// f32.const, f64.const, global.get, ref.null, ref.func).
type ConstantExpression struct {
	Opcode Opcode
	Data   []byte
}

// Export maps a name to an index in one of the four extern index spaces.
type Export struct {
	Kind  ImportKind
	Name  string
	Index Index
}

// ElementSegment initializes a range of a table with function indices.
type ElementSegment struct {
	TableIndex Index
	OffsetExpr ConstantExpression
	Init       []Index
}

// Code is a function body as decoded from the code section: declared
// local types (beyond the function's parameters) followed by the raw
// operator bytes the decoder streams from.
type Code struct {
	LocalTypes []ValueType
	Body       []byte
}

// DataSegment initializes a range of linear memory.
type DataSegment struct {
	MemoryIndex Index
	OffsetExpr  ConstantExpression
	Init        []byte
}

// ExceptionType is the parameter-type signature of an exception tag, the
// supplemented exception-handling-proposal analogue of a FunctionType
// with no results. catch/throw/rethrow operator immediates index this
// slice.
type ExceptionType struct {
	Params []ValueType
}

// FunctionDef is everything the emitter needs to compile one function: a
// resolved signature, the locals the function body declares beyond its
// parameters, and the raw operator bytes.
type FunctionDef struct {
	Index      Index
	Type       *FunctionType
	LocalTypes []ValueType
	Body       []byte
	// BranchTables holds the decoded target-depth vectors for every
	// br_table in Body, indexed in source order, so the decoder need not
	// re-walk LEB128 vectors on a second pass.
	BranchTables [][]uint32
}

// ModuleInstance is the runtime counterpart of Module: addresses and ids
// the emitted code will reference but that only exist once a Module has
// been instantiated. The emitter treats this as an opaque set of
// compile-time-known offsets; it never dereferences these itself.
type ModuleInstance struct {
	// GlobalsOffset is the byte offset, within the per-instance context
	// structure, of the mutable-globals data region.
	GlobalsOffset uint32
	// MemoryBaseOffset/MemoryLenOffset locate the linear memory's base
	// pointer and current length within the context structure.
	MemoryBaseOffset, MemoryLenOffset uint32
	// TableBaseOffset locates the table's TableElement array.
	TableBaseOffset uint32
	// TypeInstanceIDs maps an ExceptionType/FunctionType index to the
	// runtime's canonical type-instance pointer identity, used by
	// call_indirect and catch-type comparisons.
	TypeInstanceIDs []uint64
}

// TableElement is the bit-exact layout of one funcref table slot:
// a type tag compared by pointer identity, and the native code pointer.
type TableElement struct {
	FunctionTypeTag uint64
	CodePointer     uint64
}

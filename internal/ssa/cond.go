package ssa

// IntegerCmpCond represents a condition for an integer comparison, as used by Icmp.
type IntegerCmpCond byte

const (
	IntegerCmpCondEqual IntegerCmpCond = iota
	IntegerCmpCondNotEqual
	IntegerCmpCondSignedLessThan
	IntegerCmpCondSignedGreaterThanOrEqual
	IntegerCmpCondSignedGreaterThan
	IntegerCmpCondSignedLessThanOrEqual
	IntegerCmpCondUnsignedLessThan
	IntegerCmpCondUnsignedGreaterThanOrEqual
	IntegerCmpCondUnsignedGreaterThan
	IntegerCmpCondUnsignedLessThanOrEqual
)

// String implements fmt.Stringer.
func (c IntegerCmpCond) String() string {
	switch c {
	case IntegerCmpCondEqual:
		return "eq"
	case IntegerCmpCondNotEqual:
		return "neq"
	case IntegerCmpCondSignedLessThan:
		return "slt"
	case IntegerCmpCondSignedGreaterThanOrEqual:
		return "sge"
	case IntegerCmpCondSignedGreaterThan:
		return "sgt"
	case IntegerCmpCondSignedLessThanOrEqual:
		return "sle"
	case IntegerCmpCondUnsignedLessThan:
		return "ult"
	case IntegerCmpCondUnsignedGreaterThanOrEqual:
		return "uge"
	case IntegerCmpCondUnsignedGreaterThan:
		return "ugt"
	case IntegerCmpCondUnsignedLessThanOrEqual:
		return "ule"
	default:
		return "unknown"
	}
}

// FloatCmpCond represents a condition for a floating point comparison, as used by Fcmp.
type FloatCmpCond byte

const (
	FloatCmpCondEqual FloatCmpCond = iota
	FloatCmpCondNotEqual
	FloatCmpCondLessThan
	FloatCmpCondLessThanOrEqual
	FloatCmpCondGreaterThan
	FloatCmpCondGreaterThanOrEqual
)

// String implements fmt.Stringer.
func (c FloatCmpCond) String() string {
	switch c {
	case FloatCmpCondEqual:
		return "eq"
	case FloatCmpCondNotEqual:
		return "neq"
	case FloatCmpCondLessThan:
		return "lt"
	case FloatCmpCondLessThanOrEqual:
		return "le"
	case FloatCmpCondGreaterThan:
		return "gt"
	case FloatCmpCondGreaterThanOrEqual:
		return "ge"
	default:
		return "unknown"
	}
}

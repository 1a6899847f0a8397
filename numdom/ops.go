package numdom

// ArithOp is one of the fixed arithmetic operation codes (spec.md §6).
type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
)

// BitwiseOp is one of the fixed bitwise operation codes.
type BitwiseOp int

const (
	OpAnd BitwiseOp = iota
	OpOr
	OpXor
	OpShl
	OpLshr
	OpAshr
)

// DivOp distinguishes signed division from the unsigned/remainder family,
// which fall back to interval reasoning rather than exact octagon transfer.
type DivOp int

const (
	OpSdiv DivOp = iota
	OpUdiv
	OpSrem
	OpUrem
)

// ConvOp is one of the fixed integer conversion operation codes.
type ConvOp int

const (
	OpTrunc ConvOp = iota
	OpSext
	OpZext
)

// BoolOp is one of the fixed boolean binary operation codes.
type BoolOp int

const (
	OpBoolAnd BoolOp = iota
	OpBoolOr
	OpBoolXor
)

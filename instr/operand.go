package instr

import (
	"strconv"
	"unicode"
)

// Register names a machine register. Registers are single ASCII letters and
// are case-sensitive.
type Register byte

// IdentityRegister holds the identity of a machine when it is created.
const IdentityRegister Register = 'p'

// String returns the register letter.
func (r Register) String() string {
	return string(rune(r))
}

// ParseRegister converts a one-letter token into a Register.
func ParseRegister(s string) (Register, bool) {
	if len(s) != 1 || s[0] > unicode.MaxASCII || !unicode.IsLetter(rune(s[0])) {
		return 0, false
	}

	return Register(s[0]), true
}

// OperandKind tells whether an operand is a literal or a register reference.
type OperandKind uint8

const (
	// LiteralOperand is an immediate integer.
	LiteralOperand OperandKind = iota
	// RegisterOperand reads the current value of a register.
	RegisterOperand
)

// Operand is a value that is either a literal integer or a register
// reference. Operands are evaluated by the machine at use time.
type Operand struct {
	Kind  OperandKind
	Value int64
	Reg   Register
}

// Lit creates a literal operand.
func Lit(v int64) Operand {
	return Operand{Kind: LiteralOperand, Value: v}
}

// Reg creates a register operand.
func Reg(r Register) Operand {
	return Operand{Kind: RegisterOperand, Reg: r}
}

// IsLiteral returns true if the operand is an immediate value.
func (o Operand) IsLiteral() bool {
	return o.Kind == LiteralOperand
}

func (o Operand) String() string {
	if o.Kind == RegisterOperand {
		return o.Reg.String()
	}

	return strconv.FormatInt(o.Value, 10)
}

// ParseOperand converts a token into an operand. A token is either a signed
// decimal integer or a single letter.
func ParseOperand(s string) (Operand, bool) {
	if r, ok := ParseRegister(s); ok {
		return Reg(r), true
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Operand{}, false
	}

	return Lit(v), true
}

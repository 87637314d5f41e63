// Package instr defines the decoded instructions that a duet machine runs.
package instr

import "fmt"

// Opcode identifies one of the seven supported operations.
type Opcode uint8

const (
	OpSend           Opcode = iota // snd src
	OpSet                          // set dst src
	OpAdd                          // add dst src
	OpMultiply                     // mul dst src
	OpModulo                       // mod dst src
	OpReceive                      // rcv dst
	OpJumpIfPositive               // jgz test offset
)

var mnemonics = [...]string{
	OpSend:           "snd",
	OpSet:            "set",
	OpAdd:            "add",
	OpMultiply:       "mul",
	OpModulo:         "mod",
	OpReceive:        "rcv",
	OpJumpIfPositive: "jgz",
}

// Mnemonic returns the textual name of the opcode.
func (o Opcode) Mnemonic() string {
	if int(o) < len(mnemonics) {
		return mnemonics[o]
	}

	return fmt.Sprintf("op(%d)", uint8(o))
}

func (o Opcode) String() string {
	return o.Mnemonic()
}

// Instruction is one decoded operation.
//
// Field use depends on the opcode:
//
//	snd      Src
//	set/add/mul/mod  Dst, Src
//	rcv      Dst
//	jgz      Src (the test), Offset
type Instruction struct {
	Op     Opcode
	Dst    Register
	Src    Operand
	Offset Operand
}

// Send creates a snd instruction.
func Send(src Operand) Instruction {
	return Instruction{Op: OpSend, Src: src}
}

// Set creates a set instruction.
func Set(dst Register, src Operand) Instruction {
	return Instruction{Op: OpSet, Dst: dst, Src: src}
}

// Add creates an add instruction.
func Add(dst Register, src Operand) Instruction {
	return Instruction{Op: OpAdd, Dst: dst, Src: src}
}

// Multiply creates a mul instruction.
func Multiply(dst Register, src Operand) Instruction {
	return Instruction{Op: OpMultiply, Dst: dst, Src: src}
}

// Modulo creates a mod instruction.
func Modulo(dst Register, src Operand) Instruction {
	return Instruction{Op: OpModulo, Dst: dst, Src: src}
}

// Receive creates a rcv instruction.
func Receive(dst Register) Instruction {
	return Instruction{Op: OpReceive, Dst: dst}
}

// JumpIfPositive creates a jgz instruction.
func JumpIfPositive(test, offset Operand) Instruction {
	return Instruction{Op: OpJumpIfPositive, Src: test, Offset: offset}
}

// Writes returns the register the instruction assigns, if any.
func (i Instruction) Writes() (Register, bool) {
	switch i.Op {
	case OpSet, OpAdd, OpMultiply, OpModulo, OpReceive:
		return i.Dst, true
	default:
		return 0, false
	}
}

// Reads returns the registers whose current value the instruction uses.
// Arithmetic instructions read their destination as well as their source.
func (i Instruction) Reads() []Register {
	var regs []Register

	switch i.Op {
	case OpAdd, OpMultiply, OpModulo:
		regs = append(regs, i.Dst)
	}

	switch i.Op {
	case OpSend, OpSet, OpAdd, OpMultiply, OpModulo:
		if !i.Src.IsLiteral() {
			regs = append(regs, i.Src.Reg)
		}
	case OpJumpIfPositive:
		if !i.Src.IsLiteral() {
			regs = append(regs, i.Src.Reg)
		}
		if !i.Offset.IsLiteral() {
			regs = append(regs, i.Offset.Reg)
		}
	}

	return regs
}

// String renders the instruction in its textual form, e.g. "add a -1".
func (i Instruction) String() string {
	switch i.Op {
	case OpSend:
		return fmt.Sprintf("%s %s", i.Op, i.Src)
	case OpSet, OpAdd, OpMultiply, OpModulo:
		return fmt.Sprintf("%s %s %s", i.Op, i.Dst, i.Src)
	case OpReceive:
		return fmt.Sprintf("%s %s", i.Op, i.Dst)
	case OpJumpIfPositive:
		return fmt.Sprintf("%s %s %s", i.Op, i.Src, i.Offset)
	default:
		return i.Op.String()
	}
}

// Clone returns an independent copy of a program.
func Clone(program []Instruction) []Instruction {
	if program == nil {
		return nil
	}

	out := make([]Instruction, len(program))
	copy(out, program)

	return out
}

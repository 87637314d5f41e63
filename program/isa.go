// Package program reads and writes the text form of duet programs.
package program

import (
	"sort"

	"github.com/sarchlab/duet/instr"
)

// decodeFunc builds an instruction from its operand tokens. The ISA has
// already checked the number of tokens.
type decodeFunc func(args []string) (instr.Instruction, error)

type instInfo struct {
	op     instr.Opcode
	arity  int
	decode decodeFunc
}

// ISA maps mnemonics to the instructions they decode into.
type ISA struct {
	// name of the ISA.
	isaName string
	// map from mnemonic to the decoder of the instruction.
	mnemonicToInfo map[string]instInfo
}

// NewISA creates an empty ISA.
func NewISA(name string) *ISA {
	return &ISA{
		isaName:        name,
		mnemonicToInfo: make(map[string]instInfo),
	}
}

// Name returns the name of the ISA.
func (isa *ISA) Name() string {
	return isa.isaName
}

func (isa *ISA) registerNewInst(op instr.Opcode, arity int, decode decodeFunc) {
	isa.mnemonicToInfo[op.Mnemonic()] = instInfo{
		op:     op,
		arity:  arity,
		decode: decode,
	}
}

func (isa *ISA) lookup(mnemonic string) (instInfo, bool) {
	info, ok := isa.mnemonicToInfo[mnemonic]
	return info, ok
}

// Mnemonics returns the registered mnemonics in alphabetical order.
func (isa *ISA) Mnemonics() []string {
	names := make([]string, 0, len(isa.mnemonicToInfo))
	for name := range isa.mnemonicToInfo {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

var defaultISA = newDefaultISA()

// DefaultISA returns the ISA with the seven duet instructions.
func DefaultISA() *ISA {
	return defaultISA
}

func newDefaultISA() *ISA {
	isa := NewISA("Duet ISA")
	isa.registerNewInst(instr.OpSend, 1, decodeSend)
	isa.registerNewInst(instr.OpSet, 2, decodeArith(instr.Set))
	isa.registerNewInst(instr.OpAdd, 2, decodeArith(instr.Add))
	isa.registerNewInst(instr.OpMultiply, 2, decodeArith(instr.Multiply))
	isa.registerNewInst(instr.OpModulo, 2, decodeArith(instr.Modulo))
	isa.registerNewInst(instr.OpReceive, 1, decodeReceive)
	isa.registerNewInst(instr.OpJumpIfPositive, 2, decodeJump)

	return isa
}

package program

import (
	"github.com/pkg/errors"

	"github.com/sarchlab/duet/instr"
)

func decodeSend(args []string) (instr.Instruction, error) {
	src, err := operand(args[0])
	if err != nil {
		return instr.Instruction{}, err
	}

	return instr.Send(src), nil
}

func decodeArith(
	build func(dst instr.Register, src instr.Operand) instr.Instruction,
) decodeFunc {
	return func(args []string) (instr.Instruction, error) {
		dst, err := register(args[0])
		if err != nil {
			return instr.Instruction{}, err
		}

		src, err := operand(args[1])
		if err != nil {
			return instr.Instruction{}, err
		}

		return build(dst, src), nil
	}
}

func decodeReceive(args []string) (instr.Instruction, error) {
	dst, err := register(args[0])
	if err != nil {
		return instr.Instruction{}, err
	}

	return instr.Receive(dst), nil
}

func decodeJump(args []string) (instr.Instruction, error) {
	test, err := operand(args[0])
	if err != nil {
		return instr.Instruction{}, err
	}

	offset, err := operand(args[1])
	if err != nil {
		return instr.Instruction{}, err
	}

	return instr.JumpIfPositive(test, offset), nil
}

func register(tok string) (instr.Register, error) {
	r, ok := instr.ParseRegister(tok)
	if !ok {
		return 0, errors.Wrapf(ErrBadRegister, "%q", tok)
	}

	return r, nil
}

func operand(tok string) (instr.Operand, error) {
	o, ok := instr.ParseOperand(tok)
	if !ok {
		return instr.Operand{}, errors.Wrapf(ErrBadOperand, "%q", tok)
	}

	return o, nil
}

// Package api runs duet programs, either on one machine that recovers the last
// sent value or on two machines that exchange values until they halt or
// deadlock.
package api

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/duet/core"
	"github.com/sarchlab/duet/instr"
	"github.com/sarchlab/duet/wire"
)

var (
	// ErrHaltedBeforeRecover is returned by a solo run whose machine left the
	// program before reaching a rcv on a nonzero register.
	ErrHaltedBeforeRecover = errors.New("machine halted before recovering a value")

	// ErrNothingSent is returned by a solo run that reached a qualifying rcv
	// before any snd.
	ErrNothingSent = errors.New("rcv reached before any snd")

	// ErrStepLimitExceeded is returned when a run hits its step or round
	// limit.
	ErrStepLimitExceeded = errors.New("step limit exceeded")
)

// Stepper is a machine that a DualScheduler can drive.
type Stepper interface {
	Step() core.Outcome
	Deliver(msg *wire.ValueMsg)
	AsRemote() sim.RemotePort
}

// SoloStepper is a machine that a SoloRunner can drive.
type SoloStepper interface {
	Stepper

	Register(r instr.Register) int64
	Skip()
}

// RunSolo runs prog on a machine with identity 0 and returns the recovered
// value.
func RunSolo(ctx context.Context, prog []instr.Instruction) (int64, error) {
	res, err := NewSoloRunner(core.NewMachine(prog, 0)).Run(ctx)
	if err != nil {
		return 0, err
	}

	return res.LastSent, nil
}

// RunDual runs prog on two machines and returns how many values the machine
// with identity 1 sent.
func RunDual(ctx context.Context, prog []instr.Instruction) (int, error) {
	res, err := NewDualScheduler(prog).Run(ctx)
	if err != nil {
		return 0, err
	}

	return res.SentByOne, nil
}

// recoverFault converts a recovered machine fault into an error. Any other
// panic value is re-raised.
func recoverFault(r any) error {
	if r == nil {
		return nil
	}

	fault, ok := r.(*core.ArithmeticError)
	if !ok {
		panic(r)
	}

	return errors.Wrap(fault, "machine fault")
}

package api

import (
	"context"

	"github.com/pkg/errors"

	"github.com/sarchlab/duet/core"
)

// SoloResult summarizes a solo run.
type SoloResult struct {
	// LastSent is the recovered value.
	LastSent int64
	Steps    int
	// Outcome is the Blocked outcome that ended the run.
	Outcome core.Outcome
}

// SoloRunner steps one machine, remembering the last value it sent, until the
// machine blocks on a rcv whose register is nonzero. A rcv on a zero register
// is skipped.
type SoloRunner struct {
	machine  SoloStepper
	maxSteps int
}

// NewSoloRunner creates a runner for m.
func NewSoloRunner(m SoloStepper) *SoloRunner {
	return &SoloRunner{machine: m}
}

// WithMaxSteps limits the number of steps. 0 means no limit.
func (r *SoloRunner) WithMaxSteps(n int) *SoloRunner {
	r.maxSteps = n
	return r
}

// Run steps the machine until it recovers a value.
func (r *SoloRunner) Run(ctx context.Context) (res SoloResult, err error) {
	defer func() {
		if fault := recoverFault(recover()); fault != nil {
			err = fault
		}
	}()

	sent := false

	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, errors.Wrap(ctxErr, "solo run cancelled")
		}

		if r.maxSteps > 0 && res.Steps >= r.maxSteps {
			return res, errors.Wrapf(ErrStepLimitExceeded,
				"solo run stopped after %d steps", res.Steps)
		}

		o := r.machine.Step()

		switch o.Kind {
		case core.OutcomeHalted:
			return res, errors.Wrapf(ErrHaltedBeforeRecover,
				"after %d steps", res.Steps)
		case core.OutcomeSent:
			res.LastSent = o.Value
			sent = true
		case core.OutcomeBlocked:
			if r.machine.Register(o.Reg) == 0 {
				r.machine.Skip()
				break
			}

			res.Steps++
			res.Outcome = o

			if !sent {
				return res, errors.Wrapf(ErrNothingSent,
					"rcv %s after %d steps", o.Reg, res.Steps)
			}

			return res, nil
		}

		res.Steps++
	}
}

package api

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/duet/core"
	"github.com/sarchlab/duet/instr"
	"github.com/sarchlab/duet/wire"
)

// HookPosRelay marks a sent value being moved into the peer's inbox.
var HookPosRelay = &sim.HookPos{Name: "Scheduler Relay"}

// HookPosDone marks the end of a dual run. The item is the DualResult.
var HookPosDone = &sim.HookPos{Name: "Scheduler Done"}

// Termination tells why a dual run stopped.
type Termination int

const (
	// Running means the run has not stopped yet.
	Running Termination = iota
	// BothHalted means both counters left the program in the same round.
	BothHalted
	// Deadlock means both machines were blocked on rcv in the same round.
	Deadlock
	// Stalled means one machine halted while the other was blocked on rcv.
	Stalled
	// RoundLimit means the run hit the configured round limit.
	RoundLimit
	// Cancelled means the context was done.
	Cancelled
	// Faulted means a machine raised an arithmetic fault.
	Faulted
)

func (t Termination) String() string {
	switch t {
	case Running:
		return "Running"
	case BothHalted:
		return "BothHalted"
	case Deadlock:
		return "Deadlock"
	case Stalled:
		return "Stalled"
	case RoundLimit:
		return "RoundLimit"
	case Cancelled:
		return "Cancelled"
	case Faulted:
		return "Faulted"
	default:
		return fmt.Sprintf("Termination(%d)", int(t))
	}
}

// DualResult summarizes a dual run.
type DualResult struct {
	SentByOne  int
	SentByZero int
	Rounds     int
	Reason     Termination
}

// DualScheduler steps two machines in lockstep and relays every sent value to
// the inbox of the other machine.
type DualScheduler struct {
	*sim.HookableBase

	name      string
	machines  [2]Stepper
	sent      [2]int
	rounds    int
	maxRounds int
	reason    Termination
}

// NewDualScheduler creates a scheduler over two machines that run prog with
// identities 0 and 1.
func NewDualScheduler(prog []instr.Instruction) *DualScheduler {
	return SchedulerBuilder{}.Build("Scheduler",
		core.NewMachine(prog, 0),
		core.NewMachine(prog, 1),
	)
}

// Name returns the name of the scheduler.
func (s *DualScheduler) Name() string {
	return s.name
}

// Rounds returns the number of rounds executed so far.
func (s *DualScheduler) Rounds() int {
	return s.rounds
}

// SentByOne returns how many values the machine with identity 1 has sent.
func (s *DualScheduler) SentByOne() int {
	return s.sent[1]
}

// Round steps machine 0 and then machine 1 once, checks for termination, and
// relays what they sent. It returns Running unless the run is over.
func (s *DualScheduler) Round() Termination {
	if s.reason != Running {
		return s.reason
	}

	o0 := s.machines[0].Step()
	o1 := s.machines[1].Step()
	s.rounds++

	if reason := terminationOf(o0, o1); reason != Running {
		s.reason = reason
		return reason
	}

	s.relay(0, o0)
	s.relay(1, o1)

	return Running
}

func terminationOf(o0, o1 core.Outcome) Termination {
	halted0 := o0.Kind == core.OutcomeHalted
	halted1 := o1.Kind == core.OutcomeHalted
	blocked0 := o0.Kind == core.OutcomeBlocked
	blocked1 := o1.Kind == core.OutcomeBlocked

	switch {
	case halted0 && halted1:
		return BothHalted
	case blocked0 && blocked1:
		return Deadlock
	case halted0 && blocked1, blocked0 && halted1:
		return Stalled
	default:
		return Running
	}
}

func (s *DualScheduler) relay(from int, o core.Outcome) {
	if o.Kind != core.OutcomeSent {
		return
	}

	src := s.machines[from]
	dst := s.machines[1-from]

	msg := wire.ValueMsgBuilder{}.
		WithSrc(src.AsRemote()).
		WithDst(dst.AsRemote()).
		WithData(o.Value).
		WithSeq(s.sent[from]).
		Build()
	s.sent[from]++

	dst.Deliver(msg)

	s.InvokeHook(sim.HookCtx{Domain: s, Pos: HookPosRelay, Item: msg})
}

// Run executes rounds until the machines halt or deadlock, the round limit is
// reached, or ctx is done.
func (s *DualScheduler) Run(ctx context.Context) (res DualResult, err error) {
	defer func() {
		if fault := recoverFault(recover()); fault != nil {
			s.reason = Faulted
			res = s.finish()
			err = fault
		}
	}()

	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			s.reason = Cancelled
			return s.finish(), errors.Wrap(ctxErr, "dual run cancelled")
		}

		if s.maxRounds > 0 && s.rounds >= s.maxRounds {
			s.reason = RoundLimit
			return s.finish(), errors.Wrapf(ErrStepLimitExceeded,
				"dual run stopped after %d rounds", s.rounds)
		}

		if s.Round() != Running {
			return s.finish(), nil
		}
	}
}

func (s *DualScheduler) finish() DualResult {
	res := DualResult{
		SentByZero: s.sent[0],
		SentByOne:  s.sent[1],
		Rounds:     s.rounds,
		Reason:     s.reason,
	}

	s.InvokeHook(sim.HookCtx{Domain: s, Pos: HookPosDone, Item: res})

	return res
}

// SchedulerBuilder can create dual schedulers.
type SchedulerBuilder struct {
	maxRounds int
	hooks     []sim.Hook
}

// WithMaxRounds limits the number of rounds. 0 means no limit.
func (b SchedulerBuilder) WithMaxRounds(n int) SchedulerBuilder {
	b.maxRounds = n
	return b
}

// WithHook attaches a hook to the scheduler.
func (b SchedulerBuilder) WithHook(hook sim.Hook) SchedulerBuilder {
	hooks := make([]sim.Hook, 0, len(b.hooks)+1)
	hooks = append(hooks, b.hooks...)
	b.hooks = append(hooks, hook)

	return b
}

// Build creates a scheduler over m0 and m1. m0 is always stepped first.
func (b SchedulerBuilder) Build(name string, m0, m1 Stepper) *DualScheduler {
	s := &DualScheduler{
		HookableBase: sim.NewHookableBase(),
		name:         name,
		machines:     [2]Stepper{m0, m1},
		maxRounds:    b.maxRounds,
	}

	for _, h := range b.hooks {
		s.AcceptHook(h)
	}

	return s
}

package config

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/duet/api"
	"github.com/sarchlab/duet/core"
	"github.com/sarchlab/duet/instr"
)

// Pair is a dual scheduler together with the machines it drives.
type Pair struct {
	Scheduler *api.DualScheduler
	Machines  [2]*core.Machine
}

// Solo is a solo runner together with the machine it drives.
type Solo struct {
	Runner  *api.SoloRunner
	Machine *core.Machine
}

// PairBuilder builds machines and runners that follow a Config.
type PairBuilder struct {
	cfg   Config
	hooks []sim.Hook
}

// NewPairBuilder creates a builder that uses the default config.
func NewPairBuilder() PairBuilder {
	return PairBuilder{cfg: Default()}
}

// WithConfig sets the config.
func (b PairBuilder) WithConfig(cfg Config) PairBuilder {
	b.cfg = cfg
	return b
}

// WithMaxRounds overrides the round limit of the config.
func (b PairBuilder) WithMaxRounds(n int) PairBuilder {
	b.cfg.MaxRounds = n
	return b
}

// WithMaxSteps overrides the step limit of the config.
func (b PairBuilder) WithMaxSteps(n int) PairBuilder {
	b.cfg.MaxSteps = n
	return b
}

// WithHook attaches a hook to every machine and scheduler built.
func (b PairBuilder) WithHook(hook sim.Hook) PairBuilder {
	hooks := make([]sim.Hook, 0, len(b.hooks)+1)
	hooks = append(hooks, b.hooks...)
	b.hooks = append(hooks, hook)

	return b
}

func (b PairBuilder) allHooks() []sim.Hook {
	hooks := b.hooks
	if b.cfg.Trace != "" {
		hooks = append(hooks[:len(hooks):len(hooks)], core.NewTraceHook())
	}

	return hooks
}

func (b PairBuilder) machine(name string, prog []instr.Instruction, identity int64) *core.Machine {
	mb := core.NewBuilder().
		WithProgram(prog).
		WithIdentity(identity)

	for _, h := range b.allHooks() {
		mb = mb.WithHook(h)
	}

	return mb.Build(fmt.Sprintf("%s.Machine[%d]", name, identity))
}

// Build creates two machines running prog with identities 0 and 1 and the
// scheduler that drives them.
func (b PairBuilder) Build(name string, prog []instr.Instruction) *Pair {
	m0 := b.machine(name, prog, 0)
	m1 := b.machine(name, prog, 1)

	sb := api.SchedulerBuilder{}.WithMaxRounds(b.cfg.MaxRounds)
	for _, h := range b.allHooks() {
		sb = sb.WithHook(h)
	}

	return &Pair{
		Scheduler: sb.Build(name, m0, m1),
		Machines:  [2]*core.Machine{m0, m1},
	}
}

// BuildSolo creates one machine running prog with identity 0 and the runner
// that drives it.
func (b PairBuilder) BuildSolo(name string, prog []instr.Instruction) *Solo {
	m := b.machine(name, prog, 0)

	return &Solo{
		Runner:  api.NewSoloRunner(m).WithMaxSteps(b.cfg.MaxSteps),
		Machine: m,
	}
}

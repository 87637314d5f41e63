package core

import (
	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/duet/instr"
)

// Builder can create new machines.
type Builder struct {
	program  []instr.Instruction
	identity int64
	hooks    []sim.Hook
}

// NewBuilder creates a builder for a machine with identity 0.
func NewBuilder() Builder {
	return Builder{}
}

// WithProgram sets the program. The machine keeps its own copy.
func (b Builder) WithProgram(program []instr.Instruction) Builder {
	b.program = program
	return b
}

// WithIdentity sets the value stored in register p.
func (b Builder) WithIdentity(identity int64) Builder {
	b.identity = identity
	return b
}

// WithHook attaches a hook to the machine.
func (b Builder) WithHook(hook sim.Hook) Builder {
	hooks := make([]sim.Hook, 0, len(b.hooks)+1)
	hooks = append(hooks, b.hooks...)
	b.hooks = append(hooks, hook)

	return b
}

// Build creates a machine.
func (b Builder) Build(name string) *Machine {
	m := &Machine{
		HookableBase: sim.NewHookableBase(),
		name:         name,
		registers:    map[instr.Register]int64{instr.IdentityRegister: b.identity},
		program:      instr.Clone(b.program),
		inbox:        linkedlistqueue.New(),
	}

	for _, h := range b.hooks {
		m.AcceptHook(h)
	}

	return m
}

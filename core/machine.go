// Package core implements the duet register machine.
package core

import (
	"fmt"
	"sort"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/duet/instr"
	"github.com/sarchlab/duet/wire"
)

// ErrModuloByZero is the cause of the fault raised by "mod" with a zero
// divisor.
var ErrModuloByZero = errors.New("modulo by zero")

// HookPosStep marks the end of every step that executed an instruction.
var HookPosStep = &sim.HookPos{Name: "Machine Step"}

// HookPosHalted marks a step taken while the counter is outside the program.
var HookPosHalted = &sim.HookPos{Name: "Machine Halted"}

// HookPosDeliver marks a value being appended to the inbox.
var HookPosDeliver = &sim.HookPos{Name: "Machine Deliver"}

// ArithmeticError is the panic value raised by Step when an instruction
// cannot be computed. Runners recover it and return it as an error.
type ArithmeticError struct {
	Machine string
	PC      int
	Inst    instr.Instruction
	Err     error
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("%s: pc=%d %q: %v", e.Machine, e.PC, e.Inst.String(), e.Err)
}

// Unwrap returns the cause of the fault.
func (e *ArithmeticError) Unwrap() error {
	return e.Err
}

// Machine runs one program over its own registers. Values arrive through the
// inbox, which is an unbounded FIFO queue of *wire.ValueMsg.
type Machine struct {
	*sim.HookableBase

	name      string
	registers map[instr.Register]int64
	program   []instr.Instruction
	pc        int
	inbox     *linkedlistqueue.Queue
	steps     int
}

// NewMachine creates a machine that runs a private copy of program. The
// identity is stored in register p.
func NewMachine(program []instr.Instruction, identity int64) *Machine {
	return NewBuilder().
		WithProgram(program).
		WithIdentity(identity).
		Build(fmt.Sprintf("Machine[%d]", identity))
}

// Name returns the name of the machine.
func (m *Machine) Name() string {
	return m.name
}

// AsRemote returns the port name other components use to address the
// machine.
func (m *Machine) AsRemote() sim.RemotePort {
	return sim.RemotePort(m.name)
}

// PC returns the program counter.
func (m *Machine) PC() int {
	return m.pc
}

// Steps returns how many instructions the machine has executed.
func (m *Machine) Steps() int {
	return m.steps
}

// Program returns the instructions of the machine. The slice must not be
// modified.
func (m *Machine) Program() []instr.Instruction {
	return m.program
}

// IsHalted returns true if the counter is outside the program.
func (m *Machine) IsHalted() bool {
	return m.pc < 0 || m.pc >= len(m.program)
}

// Register returns the value of a register. Unseen registers read as 0.
func (m *Machine) Register(r instr.Register) int64 {
	return m.registers[r]
}

// InboxLen returns the number of values waiting in the inbox.
func (m *Machine) InboxLen() int {
	return m.inbox.Size()
}

// Deliver appends a message to the inbox.
func (m *Machine) Deliver(msg *wire.ValueMsg) {
	m.inbox.Enqueue(msg)

	m.InvokeHook(sim.HookCtx{
		Domain: m,
		Pos:    HookPosDeliver,
		Item:   msg,
	})
}

// Push appends a value to the inbox on behalf of a caller outside any
// scheduler.
func (m *Machine) Push(v int64) {
	msg := wire.ValueMsgBuilder{}.
		WithSrc(wire.ExternalPort).
		WithDst(m.AsRemote()).
		WithData(v).
		Build()
	m.Deliver(msg)
}

// Skip moves the counter past the current instruction without executing it.
// Solo runs use it to pass over a rcv whose register is zero.
func (m *Machine) Skip() {
	if m.IsHalted() {
		return
	}

	m.pc++
}

// Step executes the instruction at the program counter and reports what
// happened. It never blocks: a rcv on an empty inbox reports Blocked and
// leaves the counter in place.
//
// Step panics with *ArithmeticError on "mod" by zero.
func (m *Machine) Step() Outcome {
	if m.IsHalted() {
		outcome := Halted()
		m.InvokeHook(sim.HookCtx{Domain: m, Pos: HookPosHalted, Item: outcome})

		return outcome
	}

	inst := m.program[m.pc]
	delta := 1
	outcome := NoEffect()

	switch inst.Op {
	case instr.OpSend:
		outcome = Sent(m.evaluate(inst.Src))
	case instr.OpSet:
		m.registers[inst.Dst] = m.evaluate(inst.Src)
	case instr.OpAdd:
		v := m.evaluate(inst.Src)
		m.registers[inst.Dst] += v
	case instr.OpMultiply:
		v := m.evaluate(inst.Src)
		m.registers[inst.Dst] *= v
	case instr.OpModulo:
		v := m.evaluate(inst.Src)
		if v == 0 {
			panic(&ArithmeticError{
				Machine: m.name,
				PC:      m.pc,
				Inst:    inst,
				Err:     ErrModuloByZero,
			})
		}
		m.registers[inst.Dst] %= v
	case instr.OpReceive:
		outcome, delta = m.receive(inst.Dst)
	case instr.OpJumpIfPositive:
		if m.evaluate(inst.Src) > 0 {
			delta = int(m.evaluate(inst.Offset))
		}
	default:
		panic(fmt.Sprintf("unknown opcode %v at PC %d", inst.Op, m.pc))
	}

	m.pc += delta
	m.steps++

	m.InvokeHook(sim.HookCtx{Domain: m, Pos: HookPosStep, Item: outcome})

	return outcome
}

func (m *Machine) receive(dst instr.Register) (Outcome, int) {
	item, ok := m.inbox.Dequeue()
	if !ok {
		return Blocked(dst), 0
	}

	msg := item.(*wire.ValueMsg)
	m.registers[dst] = msg.Data

	return Received(msg.Data), 1
}

// evaluate returns the value of an operand. Reading an unseen register
// creates it with value 0.
func (m *Machine) evaluate(o instr.Operand) int64 {
	if o.IsLiteral() {
		return o.Value
	}

	v, ok := m.registers[o.Reg]
	if !ok {
		m.registers[o.Reg] = 0
	}

	return v
}

// State is a copy of the observable state of a machine.
type State struct {
	PC        int
	Steps     int
	Registers map[instr.Register]int64
	Inbox     []int64
}

// Snapshot copies the current state of the machine.
func (m *Machine) Snapshot() State {
	s := State{
		PC:        m.pc,
		Steps:     m.steps,
		Registers: make(map[instr.Register]int64, len(m.registers)),
		Inbox:     make([]int64, 0, m.inbox.Size()),
	}

	for r, v := range m.registers {
		s.Registers[r] = v
	}

	for _, item := range m.inbox.Values() {
		s.Inbox = append(s.Inbox, item.(*wire.ValueMsg).Data)
	}

	return s
}

// SortedRegisters returns the materialized registers in letter order.
func (s State) SortedRegisters() []instr.Register {
	regs := make([]instr.Register, 0, len(s.Registers))
	for r := range s.Registers {
		regs = append(regs, r)
	}

	sort.Slice(regs, func(i, j int) bool { return regs[i] < regs[j] })

	return regs
}

// Clone creates an independent machine with the same program, registers,
// counter and inbox. Hooks are not copied.
func (m *Machine) Clone() *Machine {
	c := &Machine{
		HookableBase: sim.NewHookableBase(),
		name:         m.name,
		registers:    make(map[instr.Register]int64, len(m.registers)),
		program:      instr.Clone(m.program),
		pc:           m.pc,
		inbox:        linkedlistqueue.New(),
		steps:        m.steps,
	}

	for r, v := range m.registers {
		c.registers[r] = v
	}

	for _, item := range m.inbox.Values() {
		c.inbox.Enqueue(item.(*wire.ValueMsg).Clone())
	}

	return c
}

package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/duet/core"
	"github.com/sarchlab/duet/instr"
	"github.com/sarchlab/duet/util/valgen"
	"github.com/sarchlab/duet/wire"
)

type recordingHook struct {
	ctxs []sim.HookCtx
}

func (h *recordingHook) Func(ctx sim.HookCtx) {
	h.ctxs = append(h.ctxs, ctx)
}

func lit(v int64) instr.Operand { return instr.Lit(v) }

func reg(r instr.Register) instr.Operand { return instr.Reg(r) }

var _ = Describe("Machine", func() {
	var m *core.Machine

	run := func(prog ...instr.Instruction) []core.Outcome {
		m = core.NewMachine(prog, 0)
		outcomes := make([]core.Outcome, 0, len(prog))
		for range prog {
			outcomes = append(outcomes, m.Step())
		}
		return outcomes
	}

	Describe("construction", func() {
		It("should seed register p with the identity", func() {
			m = core.NewMachine(nil, 1)
			Expect(m.Register(instr.IdentityRegister)).To(Equal(int64(1)))
			Expect(m.PC()).To(Equal(0))
			Expect(m.InboxLen()).To(Equal(0))
		})

		It("should own a private copy of the program", func() {
			prog := []instr.Instruction{instr.Set('a', lit(1))}
			m = core.NewMachine(prog, 0)
			prog[0] = instr.Set('a', lit(99))

			m.Step()

			Expect(m.Register('a')).To(Equal(int64(1)))
		})
	})

	Context("Arithmetic Instructions", func() {
		It("should set, add, multiply", func() {
			run(
				instr.Set('a', lit(1)),
				instr.Add('a', lit(2)),
				instr.Multiply('a', reg('a')),
			)
			Expect(m.Register('a')).To(Equal(int64(9)))
			Expect(m.PC()).To(Equal(3))
		})

		It("should report NoEffect", func() {
			outcomes := run(
				instr.Set('a', lit(5)),
				instr.Modulo('a', lit(3)),
			)
			Expect(outcomes).To(Equal([]core.Outcome{core.NoEffect(), core.NoEffect()}))
			Expect(m.Register('a')).To(Equal(int64(2)))
		})

		It("should truncate remainders toward the dividend sign", func() {
			run(
				instr.Set('a', lit(-7)),
				instr.Modulo('a', lit(3)),
				instr.Set('b', lit(7)),
				instr.Modulo('b', lit(-3)),
			)
			Expect(m.Register('a')).To(Equal(int64(-1)))
			Expect(m.Register('b')).To(Equal(int64(1)))
		})

		It("should panic on modulo by zero", func() {
			m = core.NewMachine([]instr.Instruction{
				instr.Set('a', lit(4)),
				instr.Modulo('a', reg('z')),
			}, 0)
			m.Step()

			Expect(func() { m.Step() }).To(PanicWith(MatchError(core.ErrModuloByZero)))
			Expect(m.PC()).To(Equal(1))
			Expect(m.Register('a')).To(Equal(int64(4)))
		})

		It("should materialize registers on first read", func() {
			run(instr.Set('a', reg('b')))
			Expect(m.Snapshot().Registers).To(HaveKeyWithValue(instr.Register('b'), int64(0)))
			Expect(m.Snapshot().Registers).To(HaveKeyWithValue(instr.Register('a'), int64(0)))
		})

		It("should treat register names as case-sensitive", func() {
			run(instr.Set('a', lit(1)), instr.Set('A', lit(2)))
			Expect(m.Register('a')).To(Equal(int64(1)))
			Expect(m.Register('A')).To(Equal(int64(2)))
		})
	})

	Context("Send", func() {
		It("should report the sent value without touching registers", func() {
			outcomes := run(instr.Set('a', lit(8)), instr.Send(reg('a')), instr.Send(lit(-3)))
			Expect(outcomes[1]).To(Equal(core.Sent(8)))
			Expect(outcomes[2]).To(Equal(core.Sent(-3)))
			Expect(m.Snapshot().Registers).To(HaveLen(2))
		})
	})

	Context("Receive", func() {
		BeforeEach(func() {
			m = core.NewMachine([]instr.Instruction{
				instr.Receive('a'),
				instr.Receive('b'),
			}, 0)
		})

		It("should block without moving the counter", func() {
			Expect(m.Step()).To(Equal(core.Blocked('a')))
			Expect(m.PC()).To(Equal(0))
			Expect(m.Step()).To(Equal(core.Blocked('a')))
			Expect(m.PC()).To(Equal(0))
		})

		It("should resume once a value arrives", func() {
			m.Step()
			m.Push(3)

			Expect(m.Step()).To(Equal(core.Received(3)))
			Expect(m.Register('a')).To(Equal(int64(3)))
			Expect(m.PC()).To(Equal(1))
		})

		It("should receive in FIFO order", func() {
			gen := valgen.MakeSequenceGen(3, 7)
			m.Push(gen())
			m.Push(gen())

			Expect(m.Step()).To(Equal(core.Received(3)))
			Expect(m.Step()).To(Equal(core.Received(7)))
			Expect(m.Register('a')).To(Equal(int64(3)))
			Expect(m.Register('b')).To(Equal(int64(7)))
		})

		It("should skip a blocked receive on request", func() {
			m.Step()
			m.Skip()
			Expect(m.PC()).To(Equal(1))
			Expect(m.Step()).To(Equal(core.Blocked('b')))
		})
	})

	Context("JumpIfPositive", func() {
		It("should jump by the offset when the test is positive", func() {
			m = core.NewMachine([]instr.Instruction{
				instr.JumpIfPositive(lit(1), lit(3)),
			}, 0)
			Expect(m.Step()).To(Equal(core.NoEffect()))
			Expect(m.PC()).To(Equal(3))
		})

		It("should fall through when the test is zero or negative", func() {
			m = core.NewMachine([]instr.Instruction{
				instr.JumpIfPositive(reg('a'), lit(5)),
				instr.JumpIfPositive(lit(-1), lit(5)),
			}, 0)
			m.Step()
			Expect(m.PC()).To(Equal(1))
			m.Step()
			Expect(m.PC()).To(Equal(2))
		})

		It("should take the offset from a register", func() {
			m = core.NewMachine([]instr.Instruction{
				instr.Set('o', lit(-1)),
				instr.JumpIfPositive(reg('p'), reg('o')),
			}, 1)
			m.Step()
			m.Step()
			Expect(m.PC()).To(Equal(0))
		})
	})

	Context("Halted", func() {
		It("should halt past the end", func() {
			m = core.NewMachine([]instr.Instruction{instr.Set('a', lit(1))}, 0)
			m.Step()
			Expect(m.IsHalted()).To(BeTrue())

			before := m.Snapshot()
			Expect(m.Step()).To(Equal(core.Halted()))
			Expect(m.Snapshot()).To(Equal(before))
		})

		It("should halt on a negative counter", func() {
			m = core.NewMachine([]instr.Instruction{
				instr.JumpIfPositive(lit(1), lit(-4)),
			}, 0)
			m.Step()
			Expect(m.PC()).To(Equal(-4))
			Expect(m.Step()).To(Equal(core.Halted()))
			Expect(m.PC()).To(Equal(-4))
		})

		It("should halt an empty program immediately", func() {
			m = core.NewMachine(nil, 0)
			Expect(m.Step()).To(Equal(core.Halted()))
		})
	})

	Context("Determinism", func() {
		It("should produce the same outcomes from cloned state", func() {
			m = core.NewMachine([]instr.Instruction{
				instr.Set('a', lit(3)),
				instr.Send(reg('a')),
				instr.Add('a', lit(-1)),
				instr.Receive('b'),
				instr.Multiply('b', reg('a')),
				instr.JumpIfPositive(reg('a'), lit(-4)),
			}, 1)
			m.Push(10)
			m.Push(20)
			m.Step()
			m.Step()

			c := m.Clone()
			Expect(c.Snapshot()).To(Equal(m.Snapshot()))

			for i := 0; i < 20; i++ {
				Expect(c.Step()).To(Equal(m.Step()))
				Expect(c.Snapshot()).To(Equal(m.Snapshot()))
			}
		})

		It("should keep clones independent", func() {
			m = core.NewMachine([]instr.Instruction{instr.Receive('a')}, 0)
			c := m.Clone()
			c.Push(1)

			Expect(m.InboxLen()).To(Equal(0))
			Expect(m.Step()).To(Equal(core.Blocked('a')))
			Expect(c.Step()).To(Equal(core.Received(1)))
		})
	})

	Context("Hooks", func() {
		It("should invoke hooks on step and delivery", func() {
			hook := &recordingHook{}
			m = core.NewBuilder().
				WithProgram([]instr.Instruction{instr.Send(lit(5))}).
				WithHook(hook).
				Build("Machine[0]")

			m.Push(1)
			m.Step()
			m.Step()

			Expect(hook.ctxs).To(HaveLen(3))
			Expect(hook.ctxs[0].Pos).To(BeIdenticalTo(core.HookPosDeliver))
			Expect(hook.ctxs[0].Item.(*wire.ValueMsg).Data).To(Equal(int64(1)))
			Expect(hook.ctxs[1].Pos).To(BeIdenticalTo(core.HookPosStep))
			Expect(hook.ctxs[1].Item).To(Equal(core.Sent(5)))
			Expect(hook.ctxs[2].Pos).To(BeIdenticalTo(core.HookPosHalted))
		})
	})
})

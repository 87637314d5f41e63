package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/duet/wire"
)

const (
	LevelTrace slog.Level = slog.LevelInfo + 1
)

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// TraceHook writes a trace record for every hook invocation it receives.
type TraceHook struct{}

// NewTraceHook creates a TraceHook.
func NewTraceHook() *TraceHook {
	return &TraceHook{}
}

// Func implements sim.Hook.
func (h *TraceHook) Func(ctx sim.HookCtx) {
	domain := ""
	if named, ok := ctx.Domain.(sim.Named); ok {
		domain = named.Name()
	}

	switch item := ctx.Item.(type) {
	case Outcome:
		pc := -1
		if m, ok := ctx.Domain.(*Machine); ok {
			pc = m.PC()
		}

		Trace("Step",
			"Behavior", ctx.Pos.Name,
			"Machine", domain,
			"PC", pc,
			"Outcome", item.Kind.String(),
			"Value", item.Value,
			"Reg", item.Reg.String(),
		)
	case *wire.ValueMsg:
		Trace("DataFlow",
			"Behavior", ctx.Pos.Name,
			"Domain", domain,
			"ID", item.ID,
			"From", item.Src,
			"To", item.Dst,
			"Data", item.Data,
			"Seq", item.Seq,
		)
	default:
		Trace("Hook",
			"Behavior", ctx.Pos.Name,
			"Domain", domain,
			"Item", fmt.Sprintf("%v", item),
		)
	}
}

// PrintState writes a table of the machine registers and inbox to w.
func PrintState(w io.Writer, m *Machine) {
	s := m.Snapshot()

	fmt.Fprintf(w, "==============State@%s==============\n", m.Name())
	fmt.Fprintf(w, "pc=%d, steps=%d\n", s.PC, s.Steps)

	regTable := table.NewWriter()
	regTable.SetTitle("Registers")
	regTable.AppendHeader(table.Row{"Register", "Value"})

	for _, r := range s.SortedRegisters() {
		regTable.AppendRow(table.Row{r.String(), s.Registers[r]})
	}

	fmt.Fprintln(w, regTable.Render())

	inboxTable := table.NewWriter()
	inboxTable.SetTitle(fmt.Sprintf("Inbox (%d pending)", len(s.Inbox)))
	inboxTable.AppendHeader(table.Row{"#", "Value"})

	for i, v := range s.Inbox {
		inboxTable.AppendRow(table.Row{i, v})
	}

	fmt.Fprintln(w, inboxTable.Render())
	fmt.Fprintln(w, "================================================")
}

func LogState(m *Machine) {
	s := m.Snapshot()

	regs := make(map[string]int64, len(s.Registers))
	for r, v := range s.Registers {
		regs[r.String()] = v
	}

	slog.Debug("StateCheckpoint",
		"Machine", m.Name(),
		"PC", s.PC,
		"Steps", s.Steps,
		"Registers", regs,
		"Inbox", s.Inbox,
	)
}

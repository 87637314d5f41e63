package core

import (
	"fmt"

	"github.com/sarchlab/duet/instr"
)

// OutcomeKind classifies the result of one machine step.
type OutcomeKind uint8

const (
	// OutcomeNoEffect is the result of set, add, mul, mod and jgz.
	OutcomeNoEffect OutcomeKind = iota
	// OutcomeSent carries the value produced by snd.
	OutcomeSent
	// OutcomeBlocked means rcv found the inbox empty. The counter did not
	// move, so the next step retries the same rcv.
	OutcomeBlocked
	// OutcomeReceived carries the value rcv took from the inbox.
	OutcomeReceived
	// OutcomeHalted means the counter is outside the program.
	OutcomeHalted
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNoEffect:
		return "NoEffect"
	case OutcomeSent:
		return "Sent"
	case OutcomeBlocked:
		return "Blocked"
	case OutcomeReceived:
		return "Received"
	case OutcomeHalted:
		return "Halted"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", uint8(k))
	}
}

// Outcome is the tagged result of Machine.Step. Value is set for Sent and
// Received, Reg for Blocked.
type Outcome struct {
	Kind  OutcomeKind
	Value int64
	Reg   instr.Register
}

// NoEffect is the outcome of a step without externally visible effect.
func NoEffect() Outcome {
	return Outcome{Kind: OutcomeNoEffect}
}

// Sent is the outcome of a snd.
func Sent(v int64) Outcome {
	return Outcome{Kind: OutcomeSent, Value: v}
}

// Blocked is the outcome of a rcv on an empty inbox.
func Blocked(r instr.Register) Outcome {
	return Outcome{Kind: OutcomeBlocked, Reg: r}
}

// Received is the outcome of a successful rcv.
func Received(v int64) Outcome {
	return Outcome{Kind: OutcomeReceived, Value: v}
}

// Halted is the outcome of stepping a machine whose counter left the program.
func Halted() Outcome {
	return Outcome{Kind: OutcomeHalted}
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeSent, OutcomeReceived:
		return fmt.Sprintf("%s(%d)", o.Kind, o.Value)
	case OutcomeBlocked:
		return fmt.Sprintf("%s(%s)", o.Kind, o.Reg)
	default:
		return o.Kind.String()
	}
}

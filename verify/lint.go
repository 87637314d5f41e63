package verify

import (
	"fmt"

	"github.com/sarchlab/duet/instr"
)

// RunLint performs static checks on a program. Issues are ordered by check
// and then by instruction index. An empty result means no issue was found.
func RunLint(prog []instr.Instruction) []Issue {
	var issues []Issue

	issues = append(issues, checkStructure(prog)...)
	issues = append(issues, checkJumpTargets(prog)...)
	issues = append(issues, checkUnwrittenRegisters(prog)...)
	issues = append(issues, checkCommunication(prog)...)

	return issues
}

func checkStructure(prog []instr.Instruction) []Issue {
	var issues []Issue

	for pc, inst := range prog {
		switch inst.Op {
		case instr.OpModulo:
			if inst.Src.IsLiteral() && inst.Src.Value == 0 {
				issues = append(issues, Issue{
					Type:    IssueStruct,
					PC:      pc,
					Message: fmt.Sprintf("%q divides by zero", inst.String()),
					Details: map[string]interface{}{"inst": inst.String()},
				})
			}
		case instr.OpJumpIfPositive:
			if alwaysJumps(inst) && inst.Offset.IsLiteral() && inst.Offset.Value == 0 {
				issues = append(issues, Issue{
					Type:    IssueStruct,
					PC:      pc,
					Message: fmt.Sprintf("%q jumps to itself forever", inst.String()),
					Details: map[string]interface{}{"inst": inst.String()},
				})
			}
		}
	}

	return issues
}

// checkJumpTargets reports literal jumps that leave the program. Such a jump
// halts the machine, which is legal but often a mistake.
func checkJumpTargets(prog []instr.Instruction) []Issue {
	var issues []Issue

	for pc, inst := range prog {
		if inst.Op != instr.OpJumpIfPositive || !inst.Offset.IsLiteral() {
			continue
		}

		if inst.Src.IsLiteral() && inst.Src.Value <= 0 {
			continue
		}

		target := int64(pc) + inst.Offset.Value
		if target >= 0 && target < int64(len(prog)) {
			continue
		}

		issues = append(issues, Issue{
			Type:    IssueFlow,
			PC:      pc,
			Message: fmt.Sprintf("%q targets %d outside the program and halts", inst.String(), target),
			Details: map[string]interface{}{
				"target": target,
				"len":    len(prog),
			},
		})
	}

	return issues
}

// checkUnwrittenRegisters reports registers that are read but never written.
// They always hold 0. The identity register is written at construction.
func checkUnwrittenRegisters(prog []instr.Instruction) []Issue {
	written := make(map[instr.Register]bool)
	for _, inst := range prog {
		if r, ok := inst.Writes(); ok {
			written[r] = true
		}
	}

	var issues []Issue

	reported := make(map[instr.Register]bool)

	for pc, inst := range prog {
		for _, r := range inst.Reads() {
			if r == instr.IdentityRegister || written[r] || reported[r] {
				continue
			}

			reported[r] = true
			issues = append(issues, Issue{
				Type:    IssueFlow,
				PC:      pc,
				Message: fmt.Sprintf("register %s is read but never written", r),
				Details: map[string]interface{}{"register": r.String()},
			})
		}
	}

	return issues
}

func checkCommunication(prog []instr.Instruction) []Issue {
	firstRecv, firstSend := -1, -1

	for pc, inst := range prog {
		switch inst.Op {
		case instr.OpReceive:
			if firstRecv < 0 {
				firstRecv = pc
			}
		case instr.OpSend:
			if firstSend < 0 {
				firstSend = pc
			}
		}
	}

	var issues []Issue

	if firstRecv >= 0 && firstSend < 0 {
		issues = append(issues, Issue{
			Type:    IssueFlow,
			PC:      firstRecv,
			Message: "program receives but never sends; a dual run deadlocks",
		})
	}

	if firstRecv < 0 {
		issues = append(issues, Issue{
			Type:    IssueFlow,
			PC:      -1,
			Message: "program never receives; a solo run cannot recover a value",
		})
	}

	return issues
}

func alwaysJumps(inst instr.Instruction) bool {
	return inst.Src.IsLiteral() && inst.Src.Value > 0
}

// Package verify provides static checks and run reports for duet programs.
//
// Verification has two stages:
//
// 1. Static Lint (lint.go): checks that need no execution
//   - STRUCT checks: instructions that can never work (mod by literal zero,
//     a jump that always targets itself)
//   - FLOW checks: programs that run but can never produce a useful result
//     (rcv without snd, no rcv at all, registers that are only ever read,
//     literal jumps out of the program)
//
// 2. Runs (report.go): the program is executed in solo and dual mode under
//    the limits of a config.Config and the results are collected next to the
//    lint issues.
//
// # Usage Example
//
//	prog, err := program.LoadProgramFile("duet.asm")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	issues := verify.RunLint(prog)
//	if verify.HasStructIssues(issues) {
//	    log.Fatal("lint found issues")
//	}
//
//	report := verify.GenerateReport(prog, config.Default())
//	report.WriteReport(os.Stdout)
package verify

// IssueType categorizes lint issues
type IssueType string

const (
	IssueStruct IssueType = "STRUCT" // Instruction that faults or never progresses
	IssueFlow   IssueType = "FLOW"   // Program that cannot produce a result
)

// Issue represents a single lint issue
type Issue struct {
	Type    IssueType              // STRUCT or FLOW
	PC      int                    // Instruction index (-1 if not applicable)
	Message string                 // Human-readable description
	Details map[string]interface{} // Additional structured data
}

// HasStructIssues returns true if any issue is a STRUCT issue.
func HasStructIssues(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Type == IssueStruct {
			return true
		}
	}

	return false
}

package verify

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"

	"github.com/sarchlab/duet/api"
	"github.com/sarchlab/duet/config"
	"github.com/sarchlab/duet/instr"
)

// VerificationReport represents a complete verification report
type VerificationReport struct {
	Program      []instr.Instruction
	LintIssues   []Issue
	StructIssues []Issue
	FlowIssues   []Issue

	Solo    api.SoloResult
	SoloErr error
	Dual    api.DualResult
	DualErr error
}

// GenerateReport runs lint and then runs the program in solo and dual mode
// under the limits of cfg.
func GenerateReport(prog []instr.Instruction, cfg config.Config) *VerificationReport {
	report := &VerificationReport{
		Program: prog,
	}

	report.LintIssues = RunLint(prog)

	for _, issue := range report.LintIssues {
		if issue.Type == IssueStruct {
			report.StructIssues = append(report.StructIssues, issue)
		} else {
			report.FlowIssues = append(report.FlowIssues, issue)
		}
	}

	builder := config.NewPairBuilder().WithConfig(cfg)
	ctx := context.Background()

	report.Solo, report.SoloErr = builder.BuildSolo("Report", prog).Runner.Run(ctx)
	report.Dual, report.DualErr = builder.Build("Report", prog).Scheduler.Run(ctx)

	return report
}

// OK returns true if there are no STRUCT issues and both runs succeeded.
func (r *VerificationReport) OK() bool {
	return len(r.StructIssues) == 0 && r.SoloErr == nil && r.DualErr == nil
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "DUET PROGRAM VERIFICATION REPORT")
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "\nLoaded %d instructions\n", len(r.Program))

	// STAGE 1: LINT
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 1: STATIC LINT CHECKS")
	fmt.Fprintln(w, separator)

	if len(r.LintIssues) == 0 {
		fmt.Fprintln(w, "No lint issues found")
	} else {
		WriteIssues(w, r.Program, r.LintIssues)
	}

	// STAGE 2: RUNS
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 2: RUNS")
	fmt.Fprintln(w, separator)

	runs := table.NewWriter()
	runs.AppendHeader(table.Row{"Mode", "Result", "Progress", "Status"})
	runs.AppendRow(table.Row{
		"solo", r.Solo.LastSent, fmt.Sprintf("%d steps", r.Solo.Steps), status(r.SoloErr),
	})
	runs.AppendRow(table.Row{
		"dual", r.Dual.SentByOne, fmt.Sprintf("%d rounds (%s)", r.Dual.Rounds, r.Dual.Reason),
		status(r.DualErr),
	})
	fmt.Fprintln(w, runs.Render())

	// STAGE 3: SUMMARY
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "VERIFICATION SUMMARY")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "Lint Result: %d issues detected (%d STRUCT, %d FLOW)\n",
		len(r.LintIssues), len(r.StructIssues), len(r.FlowIssues))

	if r.OK() {
		fmt.Fprintln(w, "PROGRAM PASSED ALL CHECKS")
	} else {
		fmt.Fprintln(w, "PROGRAM FAILED")
	}

	fmt.Fprintln(w)
}

// WriteIssues renders issues as a table. The instruction column is filled from
// prog when the issue points at one.
func WriteIssues(w io.Writer, prog []instr.Instruction, issues []Issue) {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("Lint issues (%d)", len(issues)))
	t.AppendHeader(table.Row{"Type", "PC", "Instruction", "Message"})

	for _, issue := range issues {
		pc, text := "-", ""
		if issue.PC >= 0 && issue.PC < len(prog) {
			pc = fmt.Sprint(issue.PC)
			text = prog[issue.PC].String()
		}

		t.AppendRow(table.Row{issue.Type, pc, text, issue.Message})
	}

	fmt.Fprintln(w, t.Render())
}

func status(err error) string {
	if err == nil {
		return "OK"
	}

	return "FAILED: " + err.Error()
}

// SaveReportToFile saves the report to a file
func (r *VerificationReport) SaveReportToFile(filename string) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create report file")
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, "failed to close report file")
		}
	}()

	bw := bufio.NewWriter(file)
	r.WriteReport(bw)

	return errors.Wrap(bw.Flush(), "failed to write report file")
}

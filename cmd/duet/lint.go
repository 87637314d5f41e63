package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/duet/verify"
)

// lintCmd represents the lint command
var lintCmd = &cobra.Command{
	Use:   "lint [program]",
	Short: "Check a program without running it",
	Long: `Check a program without running it. The exit status is 1 if any
STRUCT issue is found; FLOW issues are reported only.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prog, err := loadProgram(args)
		if err != nil {
			return err
		}

		issues := verify.RunLint(prog)
		if len(issues) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No lint issues found")
			return nil
		}

		verify.WriteIssues(cmd.OutOrStdout(), prog, issues)

		if verify.HasStructIssues(issues) {
			exitCode = 1
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)
}

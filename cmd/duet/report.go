package main

import (
	"github.com/spf13/cobra"

	"github.com/sarchlab/duet/verify"
)

var reportOutput string

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report [program]",
	Short: "Lint a program and run it in both modes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prog, err := loadProgram(args)
		if err != nil {
			return err
		}

		report := verify.GenerateReport(prog, runCfg)
		if !report.OK() {
			exitCode = 1
		}

		if reportOutput != "" {
			return report.SaveReportToFile(reportOutput)
		}

		report.WriteReport(cmd.OutOrStdout())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "",
		"Write the report to a file instead of stdout")
}

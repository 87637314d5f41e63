package main

import (
	"github.com/spf13/cobra"

	"github.com/sarchlab/duet/program"
)

// disasmCmd represents the disasm command
var disasmCmd = &cobra.Command{
	Use:   "disasm [program]",
	Short: "Print a program in normalized form",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prog, err := loadProgram(args)
		if err != nil {
			return err
		}

		return program.Format(cmd.OutOrStdout(), prog)
	},
}

func init() {
	rootCmd.AddCommand(disasmCmd)
}

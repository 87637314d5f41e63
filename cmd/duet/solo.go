package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/duet/core"
)

// soloCmd represents the solo command
var soloCmd = &cobra.Command{
	Use:   "solo [program]",
	Short: "Recover the last sent value with one machine",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSolo,
}

func init() {
	rootCmd.AddCommand(soloCmd)
}

func runSolo(cmd *cobra.Command, args []string) error {
	prog, err := loadProgram(args)
	if err != nil {
		return err
	}

	solo := pairBuilder().BuildSolo("Duet", prog)
	res, err := solo.Runner.Run(cmd.Context())

	if runCfg.DumpState {
		core.PrintState(cmd.OutOrStdout(), solo.Machine)
		core.LogState(solo.Machine)
	}

	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.LastSent)

	return nil
}

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sarchlab/duet/core"
)

// dualCmd represents the dual command
var dualCmd = &cobra.Command{
	Use:   "dual [program]",
	Short: "Run two machines that exchange values",
	Long: `Run the program on two machines with identities 0 and 1 until both
halt or both wait for a value, then print how many values machine 1 sent.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDual,
}

func init() {
	rootCmd.AddCommand(dualCmd)
}

func runDual(cmd *cobra.Command, args []string) error {
	prog, err := loadProgram(args)
	if err != nil {
		return err
	}

	pair := pairBuilder().Build("Duet", prog)
	res, err := pair.Scheduler.Run(cmd.Context())

	if runCfg.DumpState {
		for _, m := range pair.Machines {
			core.PrintState(cmd.OutOrStdout(), m)
			core.LogState(m)
		}
	}

	slog.Debug("DualDone",
		"Reason", res.Reason.String(),
		"Rounds", res.Rounds,
		"SentByZero", res.SentByZero,
		"SentByOne", res.SentByOne,
	)

	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.SentByOne)

	return nil
}

package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sarchlab/duet/config"
	"github.com/sarchlab/duet/core"
	"github.com/sarchlab/duet/instr"
	"github.com/sarchlab/duet/program"
)

var (
	cfgFile   string
	traceFile string
	maxRounds int
	maxSteps  int
	dumpState bool

	runCfg   config.Config
	traceOut io.WriteCloser
	exitCode int
)

// rootCmd runs the program in the mode named by the config.
var rootCmd = &cobra.Command{
	Use:   "duet [program]",
	Short: "Run duet register-machine programs",
	Long: `duet runs programs written for a small register machine with
seven instructions (snd set add mul mod rcv jgz).

In solo mode one machine runs until it reaches a rcv on a nonzero register
and the last sent value is printed. In dual mode two machines run the same
program, exchange every sent value, and the number of values sent by the
machine with identity 1 is printed.`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		if runCfg.Mode == config.ModeSolo {
			return runSolo(cmd, args)
		}

		return runDual(cmd, args)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "YAML run configuration")
	flags.StringVar(&traceFile, "trace", "", `write JSON trace records to a file ("-" for stderr)`)
	flags.IntVar(&maxRounds, "max-rounds", 0, "stop a dual run after this many rounds (0: no limit)")
	flags.IntVar(&maxSteps, "max-steps", 0, "stop a solo run after this many steps (0: no limit)")
	flags.BoolVar(&dumpState, "dump", false, "print machine state after the run")
}

func setup(cmd *cobra.Command, args []string) error {
	cfg := config.Default()

	if cfgFile != "" {
		var err error

		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("max-rounds") {
		cfg.MaxRounds = maxRounds
	}

	if flags.Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}

	if flags.Changed("trace") {
		cfg.Trace = traceFile
	}

	if flags.Changed("dump") {
		cfg.DumpState = dumpState
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	runCfg = cfg

	return openTrace(cmd.Context(), cfg.Trace)
}

func openTrace(ctx context.Context, path string) error {
	var w io.WriteCloser

	switch path {
	case "":
		return nil
	case "-":
		w = nopCloser{os.Stderr}
	default:
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrap(err, "cannot create trace file")
		}

		w = f
	}

	traceOut = w
	slog.SetDefault(slog.New(slog.NewJSONHandler(w,
		&slog.HandlerOptions{Level: slog.LevelDebug})))
	slog.Log(ctx, core.LevelTrace, "TraceStart",
		"Mode", string(runCfg.Mode),
		"MaxRounds", runCfg.MaxRounds,
		"MaxSteps", runCfg.MaxSteps,
	)

	return nil
}

func closeTrace() {
	if traceOut == nil {
		return
	}

	traceOut.Close()
	traceOut = nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// loadProgram reads the program named on the command line, or the one named
// by the config.
func loadProgram(args []string) ([]instr.Instruction, error) {
	path := runCfg.Program
	if len(args) > 0 {
		path = args[0]
	}

	if path == "" {
		return nil, errors.New("no program given")
	}

	return program.LoadProgramFile(path)
}

func pairBuilder() config.PairBuilder {
	return config.NewPairBuilder().WithConfig(runCfg)
}

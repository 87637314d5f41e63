// Command duet runs duet register-machine programs.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/tebeka/atexit"
)

func main() {
	atexit.Register(closeTrace)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "duet:", err)
		atexit.Exit(1)
	}

	atexit.Exit(exitCode)
}

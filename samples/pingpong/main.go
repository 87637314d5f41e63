package main

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/sarchlab/duet/config"
	"github.com/sarchlab/duet/core"
	"github.com/sarchlab/duet/program"
	"github.com/tebeka/atexit"
)

//go:embed pingpong.asm
var pingPongProgram string

func pingPong(pair *config.Pair) {
	res, err := pair.Scheduler.Run(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	for _, m := range pair.Machines {
		core.PrintState(os.Stdout, m)
	}

	fmt.Printf("stopped after %d rounds: %s\n", res.Rounds, res.Reason)
	fmt.Println(res.SentByZero, res.SentByOne)
}

func main() {
	prog, err := program.ParseString(pingPongProgram)
	if err != nil {
		panic(err)
	}

	pair := config.NewPairBuilder().
		WithMaxRounds(10_000).
		Build("PingPong", prog)

	pingPong(pair)

	atexit.Exit(0)
}

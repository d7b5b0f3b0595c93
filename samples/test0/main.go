package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/llqverify/config"
	"github.com/sarchlab/llqverify/oracle"
	"github.com/tebeka/atexit"
)

// test0 pushes and pops 10000 random words over 16 contexts, draining all
// of them whenever more than 100 words are queued.
func test0() error {
	c := config.DefaultRunConfig()
	c.Seed = 1

	engine := sim.NewSerialEngine()

	p, err := config.MakePlatformBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithRunConfig(c).
		Build("Test0")
	if err != nil {
		return err
	}

	err = p.Run()
	if err != nil {
		return err
	}

	stats := p.Session.Stats()
	fmt.Printf("%d pushes, %d pops, %d flushes in %d cycles\n",
		stats.Pushes, stats.Pops, stats.Flushes, stats.Cycles)

	return nil
}

func main() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: oracle.LevelTrace,
	})

	slog.SetDefault(slog.New(handler))

	err := test0()
	if err != nil {
		slog.Error("Test failed", "error", err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

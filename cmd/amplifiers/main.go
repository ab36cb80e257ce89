// Command amplifiers finds the phase settings giving the highest thruster
// signal, without then with the feedback loop.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"go.uber.org/zap"

	"go.creack.net/intcode/amp"
	"go.creack.net/intcode/cli"
	"go.creack.net/intcode/program"
)

var (
	chainPhases    = []int64{0, 1, 2, 3, 4}
	feedbackPhases = []int64{5, 6, 7, 8, 9}
)

func formatPhases(phases []int64) string {
	return strings.ReplaceAll(program.Format(phases), ",", ", ")
}

func run(ctx context.Context, app *cli.App, cells []int64, w io.Writer) error {
	for _, mode := range []struct {
		name     string
		phases   []int64
		feedback bool
	}{
		{"without feedback", chainPhases, false},
		{"with feedback", feedbackPhases, true},
	} {
		start := time.Now()
		best, err := amp.BestOfN(ctx, cells, mode.phases, mode.feedback, app.Config.Workers, app.MachineOptions()...)
		if err != nil {
			return fmt.Errorf("failed to search phases %s: %w", mode.name, err)
		}
		app.Logger.Debug("search done", zap.String("mode", mode.name), zap.Duration("elapsed", time.Since(start)))
		fmt.Fprintf(w, "Max thruster signal %s: %d (phases %s)\n", mode.name, best.Value, formatPhases(best.Phases))
	}
	return nil
}

func main() {
	app, err := cli.New("amplifiers")
	if err != nil {
		log.Fatalf("Failed to load config: %s.", err)
	}
	app.Flags.IntVarP(&app.Config.Workers, "workers", "w", app.Config.Workers, "permutations evaluated in parallel, 0 for one per CPU")
	if err := app.Parse(os.Args[1:]); err != nil {
		if cli.IsHelp(err) {
			return
		}
		log.Fatalf("Failed to parse flags: %s.", err)
	}
	defer app.Close()

	cells, err := app.LoadProgram()
	if err != nil {
		app.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, app, cells, os.Stdout); err != nil {
		app.Fatal(err)
	}
}

// Command gravity-assist restores the 1202 program alarm state, then looks
// for the noun and verb producing the required value.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"go.creack.net/intcode/cli"
	"go.creack.net/intcode/gravity"
)

const defaultRequiredValue = 19690720

func run(ctx context.Context, app *cli.App, program []int64, required int64, w io.Writer) error {
	v, err := gravity.Run(ctx, program, 12, 2, app.MachineOptions()...)
	if err != nil {
		return fmt.Errorf("failed to run the alarm state: %w", err)
	}
	fmt.Fprintf(w, "Program with input (12, 2): %d\n", v)

	noun, verb, err := gravity.Search(ctx, program, required, app.MachineOptions()...)
	if err != nil {
		return fmt.Errorf("failed to search inputs: %w", err)
	}
	app.Logger.Debug("inputs found", zap.Int64("noun", noun), zap.Int64("verb", verb))
	fmt.Fprintf(w, "Program with input (%d, %d): %d (required value)\n", noun, verb, required)
	fmt.Fprintf(w, "Answer: %d\n", 100*noun+verb)
	return nil
}

func main() {
	app, err := cli.New("gravity-assist")
	if err != nil {
		log.Fatalf("Failed to load config: %s.", err)
	}
	var required int64
	app.Flags.Int64VarP(&required, "required-value", "v", defaultRequiredValue, "required value to produce for part 2")
	if err := app.Parse(os.Args[1:]); err != nil {
		if cli.IsHelp(err) {
			return
		}
		log.Fatalf("Failed to parse flags: %s.", err)
	}
	defer app.Close()

	program, err := app.LoadProgram()
	if err != nil {
		app.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, app, program, required, os.Stdout); err != nil {
		app.Fatal(err)
	}
}

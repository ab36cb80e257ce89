// Command hull-painter runs the painting robot, then renders the
// registration identifier it paints when started on a white panel.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"go.creack.net/intcode/cli"
	"go.creack.net/intcode/robot"
)

func run(ctx context.Context, app *cli.App, program []int64, w io.Writer) error {
	hull, err := robot.Paint(ctx, program, robot.Black, app.MachineOptions()...)
	if err != nil {
		return fmt.Errorf("failed to paint from a black panel: %w", err)
	}
	fmt.Fprintf(w, "Number of panels painted at least once: %d\n", hull.Painted())

	hull, err = robot.Paint(ctx, program, robot.White, app.MachineOptions()...)
	if err != nil {
		return fmt.Errorf("failed to paint from a white panel: %w", err)
	}
	fmt.Fprint(w, hull.Render())
	return nil
}

func main() {
	app, err := cli.New("hull-painter")
	if err != nil {
		log.Fatalf("Failed to load config: %s.", err)
	}
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

	if err := run(ctx, app, program, os.Stdout); err != nil {
		app.Fatal(err)
	}
}

// Command arcade counts the blocks of the game, then plays it for free,
// optionally drawing it in the terminal.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"go.creack.net/intcode/arcade"
	"go.creack.net/intcode/cli"
)

func countBlocks(ctx context.Context, app *cli.App, program []int64) (int, error) {
	c := &arcade.Cabinet{Program: program, Logger: app.Logger, Options: app.MachineOptions()}
	screen, err := c.Play(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to run the demo: %w", err)
	}
	return screen.Count(arcade.Block), nil
}

func freePlay(ctx context.Context, app *cli.App, program []int64, onFrame func(*arcade.Screen)) (*arcade.Screen, error) {
	c := &arcade.Cabinet{
		Program:  program,
		Quarters: true,
		Joystick: arcade.Track,
		OnFrame:  onFrame,
		Logger:   app.Logger,
		Options:  app.MachineOptions(),
	}
	screen, err := c.Play(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to play: %w", err)
	}
	if n := screen.Count(arcade.Block); n != 0 {
		app.Logger.Warn("game over with blocks left", zap.Int("blocks", n))
	}
	return screen, nil
}

// confirm asks a yes/no question, defaulting to yes.
func confirm(r io.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s (Y/n) ", question)
	line, _ := bufio.NewReader(r).ReadString('\n') // EOF counts as the default.
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "" || answer == "y" || answer == "yes"
}

func main() {
	app, err := cli.New("arcade")
	if err != nil {
		log.Fatalf("Failed to load config: %s.", err)
	}
	var drawIntermediate, drawFast, yes bool
	app.Flags.BoolVarP(&drawIntermediate, "draw-intermediate", "d", false, "draw the screen while the game is running")
	app.Flags.BoolVarP(&drawFast, "draw-fast", "f", false, "don't pause between drawn frames")
	app.Flags.BoolVarP(&yes, "yes", "y", false, "insert the quarters without asking")
	app.Flags.DurationVar(&app.Config.DrawDelay, "draw-delay", app.Config.DrawDelay, "pause between drawn frames")
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

	blocks, err := countBlocks(ctx, app, program)
	if err != nil {
		app.Fatal(err)
	}
	fmt.Printf("Number of block tiles with no quarters: %d\n", blocks)

	if !yes && cli.IsTerminal(os.Stdin) && !confirm(os.Stdin, os.Stdout, "Insert 2 quarters?") {
		return
	}

	var (
		onFrame func(*arcade.Screen)
		term    *terminal
	)
	if drawIntermediate {
		if !cli.IsTerminal(os.Stdout) {
			app.Fatal(errors.New("drawing needs a terminal"))
		}
		delay := app.Config.DrawDelay
		if drawFast {
			delay = 0
		}
		if term, err = newTerminal(delay); err != nil {
			app.Fatal(err)
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()
		go term.watchQuit(cancel)
		onFrame = term.draw
	}

	screen, err := freePlay(ctx, app, program, onFrame)
	if term != nil {
		term.close() // Restore the terminal before any output.
	}
	if err != nil {
		app.Fatal(err)
	}
	if drawIntermediate {
		fmt.Print(screen.Render())
	}
	fmt.Printf("Final score: %d\n", screen.Score)
}

// Command intcode runs an Intcode program and prints its outputs, one per line.
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
	"strconv"
	"strings"

	"go.uber.org/zap"

	"go.creack.net/intcode/assets"
	"go.creack.net/intcode/cli"
	"go.creack.net/intcode/program"
	"go.creack.net/intcode/vm"
)

// stdinInput reads one integer per line once the given values are consumed.
type stdinInput struct {
	values  vm.Values
	scanner *bufio.Scanner
	prompt  bool
}

func (in *stdinInput) Next(ctx context.Context) (int64, error) {
	if len(in.values) > 0 {
		return in.values.Next(ctx)
	}
	if in.scanner == nil {
		return 0, vm.ErrMissingInput
	}
	for {
		if in.prompt {
			fmt.Fprint(os.Stderr, "> ")
		}
		if !in.scanner.Scan() {
			if err := in.scanner.Err(); err != nil {
				return 0, fmt.Errorf("failed to read stdin: %w", err)
			}
			return 0, vm.ErrMissingInput
		}
		line := strings.TrimSpace(in.scanner.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid integer %q\n", line)
			continue
		}
		return v, nil
	}
}

func run(ctx context.Context, app *cli.App, cells []int64, in vm.Input, w io.Writer, dump bool) error {
	m := vm.New(cells, app.MachineOptions()...)
	out := vm.OutputFunc(func(v int64) { fmt.Fprintln(w, v) })

	err := m.Run(ctx, in, out)
	app.Logger.Debug("machine stopped", zap.Stringer("state", m.State), zap.Int("steps", m.Steps), zap.Int("memory", m.Memory.Len()))
	if dump {
		fmt.Fprintln(w, program.Format(m.Memory.Cells()))
	}
	if err != nil {
		return fmt.Errorf("failed to run program: %w", err)
	}
	return nil
}

func main() {
	app, err := cli.New("intcode")
	if err != nil {
		log.Fatalf("Failed to load config: %s.", err)
	}
	var (
		inputs   string
		useStdin bool
		dump     bool
		example  string
		list     bool
	)
	app.Flags.StringVarP(&inputs, "input", "i", "", "comma separated input values")
	app.Flags.BoolVarP(&useStdin, "stdin", "s", false, "read further input values from stdin, one per line")
	app.Flags.BoolVar(&dump, "dump", false, "print the final memory")
	app.Flags.StringVarP(&example, "example", "e", "", "run a bundled example program instead of a file")
	app.Flags.BoolVar(&list, "list-examples", false, "list the bundled example programs")
	if err := app.Parse(os.Args[1:]); err != nil {
		if cli.IsHelp(err) {
			return
		}
		log.Fatalf("Failed to parse flags: %s.", err)
	}
	defer app.Close()

	if list {
		names, err := assets.Names()
		if err != nil {
			app.Fatal(err)
		}
		fmt.Println(strings.Join(names, "\n"))
		return
	}

	var cells []int64
	if example != "" {
		cells, err = assets.Load(example)
	} else {
		cells, err = app.LoadProgram()
	}
	if err != nil {
		app.Fatal(err)
	}

	values, err := cli.ParseValues(inputs)
	if err != nil {
		app.Fatal(err)
	}
	in := &stdinInput{values: values}
	if useStdin {
		in.scanner = bufio.NewScanner(os.Stdin)
		in.prompt = cli.IsTerminal(os.Stdin)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Interactive sessions need each output before the next prompt.
	bw := bufio.NewWriter(os.Stdout)
	var w io.Writer = bw
	if useStdin {
		w = os.Stdout
	}
	err = run(ctx, app, cells, in, w, dump)
	if ferr := bw.Flush(); ferr != nil && err == nil {
		err = fmt.Errorf("failed to write output: %w", ferr)
	}
	if err != nil {
		if errors.Is(err, vm.ErrMissingInput) {
			app.Logger.Info("program needs more input, use -i or --stdin")
		}
		app.Fatal(err)
	}
}

// Command asm assembles an Intcode source file into a program image.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"go.creack.net/intcode/asm"
	"go.creack.net/intcode/cli"
	"go.creack.net/intcode/disasm"
	"go.creack.net/intcode/program"
)

func run(app *cli.App, input, src string, w io.Writer, prettyPrint bool) error {
	cells, err := asm.Assemble(input, src)
	if err != nil {
		return fmt.Errorf("failed to assemble: %w", err)
	}
	app.Logger.Debug("assembled", zap.String("input", input), zap.Int("cells", len(cells)))
	if prettyPrint {
		_, err = io.WriteString(w, disasm.Listing(cells))
		return err
	}
	_, err = fmt.Fprintln(w, program.Format(cells))
	return err
}

// outputPath defaults to the input with a .txt extension.
func outputPath(input string) string {
	if i := strings.LastIndexByte(input, '.'); i > strings.LastIndexByte(input, '/') {
		input = input[:i]
	}
	return input + ".txt"
}

func main() {
	app, err := cli.New("asm")
	if err != nil {
		log.Fatalf("Failed to load config: %s.", err)
	}
	var (
		output      string
		prettyPrint bool
	)
	app.Flags.StringVarP(&output, "output", "o", "", "output file, default to <input>.txt, - for stdout")
	app.Flags.BoolVar(&prettyPrint, "pretty", false, "print the listing of the assembled program instead")
	if err := app.Parse(os.Args[1:]); err != nil {
		if cli.IsHelp(err) {
			return
		}
		log.Fatalf("Failed to parse flags: %s.", err)
	}
	defer app.Close()

	input := app.Config.Input
	src, err := os.ReadFile(input)
	if err != nil {
		app.Fatal(fmt.Errorf("failed to read file: %w", err))
	}

	if prettyPrint || output == "-" {
		if err := run(app, input, string(src), os.Stdout, prettyPrint); err != nil {
			app.Fatal(err)
		}
		return
	}
	if output == "" {
		output = outputPath(input)
	}
	if output == input {
		app.Fatal(fmt.Errorf("output %q would overwrite the input", output))
	}
	f, err := os.Create(output)
	if err != nil {
		app.Fatal(fmt.Errorf("failed to create output: %w", err))
	}
	if err := run(app, input, string(src), f, false); err != nil {
		_ = f.Close() // Best effort.
		app.Fatal(err)
	}
	if err := f.Close(); err != nil {
		app.Fatal(fmt.Errorf("failed to write output: %w", err))
	}
}

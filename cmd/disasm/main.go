// Command disasm prints the instruction listing of an Intcode program.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"go.uber.org/zap"

	"go.creack.net/intcode/cli"
	"go.creack.net/intcode/disasm"
)

func run(app *cli.App, cells []int64, w io.Writer) error {
	name, ok, err := disasm.Known(cells)
	if err != nil {
		return err
	}
	if ok {
		app.Logger.Info("found match in known programs", zap.String("name", name))
		fmt.Fprintf(w, "; known program: %s\n", name)
	}
	_, err = io.WriteString(w, disasm.Listing(cells))
	return err
}

func main() {
	app, err := cli.New("disasm")
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

	cells, err := app.LoadProgram()
	if err != nil {
		app.Fatal(err)
	}
	if err := run(app, cells, os.Stdout); err != nil {
		app.Fatal(fmt.Errorf("failed to disassemble: %w", err))
	}
}

// Command vm-viewer steps through an Intcode program in the terminal,
// showing the memory, the registers, the disassembly and the trace.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"go.creack.net/intcode/assets"
	"go.creack.net/intcode/cli"
	"go.creack.net/intcode/disasm"
	"go.creack.net/intcode/op"
	"go.creack.net/intcode/vm"
)

// memWidth is the number of cells per memory row.
const memWidth = 10

var messageColors = map[vm.MessageType]tcell.Color{
	vm.MsgInput:   tcell.ColorLightGreen,
	vm.MsgOutput:  tcell.ColorLightBlue,
	vm.MsgAwait:   tcell.ColorYellow,
	vm.MsgHalt:    tcell.ColorPurple,
	vm.MsgFault:   tcell.ColorRed,
	vm.MsgWarning: tcell.ColorOrange,
}

type Game struct {
	app *tview.Application

	root *tview.Flex

	memView    *tview.Table
	stateView  *tview.TextView
	disasmView *tview.TextView
	outputView *tview.TextView
	logsView   *tview.TextView
	inputField *tview.InputField

	m        *vm.Machine
	pending  vm.Values
	out      vm.Buffer
	messages chan vm.Message
	waiting  bool // Paused on an input instruction with no pending value.

	// Only touched from the application event loop.
	paused   bool
	nextStep bool

	ctx    context.Context
	cancel context.CancelFunc
}

func NewGame(ctx context.Context) *Game {
	app := tview.NewApplication().EnableMouse(true)

	newTextView := func(title string) *tview.TextView {
		v := tview.NewTextView().SetDynamicColors(true)
		v.SetTitle(title).SetBorder(true)
		return v
	}

	memView := tview.NewTable().SetBorders(false)
	memView.SetTitle("Memory").SetBorder(true)

	logsView := newTextView("Logs")
	logsView.ScrollToEnd()
	outputView := newTextView("Output")
	outputView.ScrollToEnd()

	inputField := tview.NewInputField().
		SetLabel("Input: ").
		SetPlaceholder("comma separated values, 'i' to focus")
	inputField.SetBorder(true)

	g := &Game{
		app:        app,
		memView:    memView,
		stateView:  newTextView("State"),
		disasmView: newTextView("Disassembly"),
		outputView: outputView,
		logsView:   logsView,
		inputField: inputField,
		messages:   make(chan vm.Message, 256),
		paused:     true,
	}
	g.ctx, g.cancel = context.WithCancel(ctx)

	rightPane := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(g.stateView, 0, 2, false).
		AddItem(g.outputView, 0, 2, false).
		AddItem(g.logsView, 0, 3, false)

	leftPane := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(g.memView, 0, 3, true).
		AddItem(g.inputField, 3, 0, false)

	g.root = tview.NewFlex().
		AddItem(leftPane, 0, 3, true).
		AddItem(g.disasmView, 0, 2, false).
		AddItem(rightPane, 0, 2, false)
	return g
}

// Load creates the machine. opts are applied before the trace channel.
func (g *Game) Load(program []int64, inputs []int64, opts ...vm.Option) {
	g.m = vm.New(program, append(opts, vm.WithMessages(g.messages))...)
	g.pending = inputs
}

func (g *Game) Stop() {
	g.app.Stop()
	g.cancel()
}

// addInput queues the values typed in the input field.
func (g *Game) addInput(s string) error {
	values, err := cli.ParseValues(s)
	if err != nil {
		return err
	}
	g.pending = append(g.pending, values...)
	return nil
}

func (g *Game) Init() {
	g.inputField.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			if err := g.addInput(g.inputField.GetText()); err != nil {
				fmt.Fprintf(g.logsView, "[red]%s[-]\n", tview.Escape(err.Error()))
				return
			}
			g.inputField.SetText("")
		}
		g.app.SetFocus(g.memView)
		g.Draw()
	})

	g.root.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if g.inputField.HasFocus() {
			return event
		}
		switch event.Key() {
		case tcell.KeyCtrlC, tcell.KeyEscape:
			g.Stop()
			return nil
		}
		switch event.Rune() {
		case 'n':
			g.nextStep = true
			return nil
		case ' ':
			g.paused = !g.paused
			return nil
		case 'i':
			g.app.SetFocus(g.inputField)
			return nil
		case 'q':
			g.Stop()
			return nil
		}
		return event
	})

	go func() {
		for {
			select {
			case msg := <-g.messages:
				g.app.QueueUpdateDraw(func() {
					g.logMessage(msg)
				})
			case <-g.ctx.Done():
				return
			}
		}
	}()
}

func (g *Game) logMessage(msg vm.Message) {
	// Reset with the tcell default, tview's [-] doesn't always restore it.
	colorCode := "[" + tcell.ColorDefault.String() + ":::]"
	if c, ok := messageColors[msg.Type]; ok {
		colorCode = "[" + c.String() + ":::]"
	}
	fmt.Fprintf(g.logsView, "%s%04d %-7s %s[:::]\n", colorCode, msg.IP, msg.Type, tview.Escape(msg.Message))
}

// Update executes the next instruction if running or if a single step
// was requested. It pauses instead of faulting when the program needs
// an input that wasn't typed yet.
func (g *Game) Update() error {
	if !g.nextStep && g.paused {
		return nil
	}
	g.nextStep = false

	if g.m.State == vm.StateHalted || g.m.State == vm.StateFaulted {
		g.paused = true
		return nil
	}
	if ins, err := g.m.Peek(); err == nil && ins.OpCode.Code == op.CodeInput && len(g.pending) == 0 {
		g.paused = true
		g.waiting = true
		return nil
	}

	g.waiting = false
	g.m.Memory.ResetAccess()
	if err := g.m.Step(g.ctx, &g.pending, &g.out); err != nil {
		g.paused = true
		return fmt.Errorf("failed to execute instruction: %w", err)
	}
	return nil
}

func (g *Game) drawState() {
	g.stateView.Clear()
	cur := ""
	if g.m.CurInstruction != nil {
		cur = g.m.CurInstruction.String()
	}
	fmt.Fprintf(g.stateView, "Machine: %d\n", g.m.ID)
	mode := "running"
	switch {
	case g.waiting:
		mode = "waiting for input"
	case g.paused:
		mode = "paused"
	}
	fmt.Fprintf(g.stateView, "State: %s (%s)\n", g.m.State, mode)
	fmt.Fprintf(g.stateView, "IP: %d\n", g.m.IP)
	fmt.Fprintf(g.stateView, "Relative base: %d\n", g.m.RelativeBase)
	fmt.Fprintf(g.stateView, "Steps: %d\n", g.m.Steps)
	fmt.Fprintf(g.stateView, "Last instruction: %s\n", tview.Escape(cur))
	fmt.Fprintf(g.stateView, "Memory size: %d\n", g.m.Memory.Len())
	fmt.Fprintf(g.stateView, "Pending input: %s\n", formatValues(g.pending))
	if err := g.m.Err(); err != nil {
		fmt.Fprintf(g.stateView, "[red]%s[-]\n", tview.Escape(err.Error()))
	}
}

func formatValues(values []int64) string {
	parts := make([]string, 0, len(values))
	for _, elem := range values {
		parts = append(parts, fmt.Sprint(elem))
	}
	return strings.Join(parts, ", ")
}

// memCell renders a memory cell: last access as attributes, the IP in
// reverse video and the relative base underlined.
func (g *Game) memCell(addr int64) *tview.TableCell {
	elem := g.m.Memory.Entry(addr)
	style := tcell.StyleDefault
	switch {
	case elem.Access == vm.AccessWrite:
		style = style.Foreground(tcell.ColorOrange).Bold(true)
	case elem.Access == vm.AccessRead:
		style = style.Foreground(tcell.ColorLightBlue).Bold(true)
	case elem.Value == 0:
		style = style.Foreground(tcell.ColorDimGray).Dim(true)
	}
	if addr == g.m.RelativeBase {
		style = style.Underline(true)
	}
	if addr == g.m.IP {
		style = style.Reverse(true)
	}
	return tview.NewTableCell(fmt.Sprint(elem.Value)).SetAlign(tview.AlignRight).SetStyle(style)
}

func (g *Game) drawMemory() {
	g.memView.Clear()
	for i := range g.m.Memory.Len() {
		addr := int64(i)
		if i%memWidth == 0 {
			g.memView.SetCell(i/memWidth, 0, tview.NewTableCell(fmt.Sprintf("%04d", i)).
				SetTextColor(tcell.ColorGray).
				SetSelectable(false))
		}
		g.memView.SetCell(i/memWidth, 1+i%memWidth, g.memCell(addr))
	}
}

func (g *Game) drawDisasm() {
	g.disasmView.Clear()
	for _, elem := range disasm.Disasm(g.m.Memory.Cells()) {
		line := tview.Escape(elem.String())
		if elem.Addr == g.m.IP {
			line = "[black:white]" + line + "[-:-]"
		}
		fmt.Fprintln(g.disasmView, line)
	}
}

func (g *Game) drawOutput() {
	g.outputView.Clear()
	for _, elem := range g.out.Values {
		fmt.Fprintln(g.outputView, elem)
	}
}

// tick steps and redraws. Runs on the event loop goroutine.
func (g *Game) tick() {
	defer g.recoverPanic()
	if err := g.Update(); err != nil {
		fmt.Fprintf(g.logsView, "[red]%s[-]\n", tview.Escape(err.Error()))
	}
	g.Draw()
}

// recoverPanic stops the application on panic. The standard logger
// writes to the logs pane, so the report goes to stderr directly.
func (g *Game) recoverPanic() {
	if e := recover(); e != nil {
		g.Stop()
		fmt.Fprintf(os.Stderr, "Recovered from panic: %v\n%s", e, debug.Stack())
	}
}

func (g *Game) Draw() {
	g.drawMemory()
	g.drawState()
	g.drawDisasm()
	g.drawOutput()
}

func main() {
	app, err := cli.New("vm-viewer")
	if err != nil {
		log.Fatalf("Failed to load config: %s.", err)
	}
	var inputs, example string
	app.Flags.StringVarP(&inputs, "input", "i", "", "comma separated input values")
	app.Flags.StringVarP(&example, "example", "e", "", "view a bundled example program instead of a file")
	app.Flags.DurationVar(&app.Config.DrawDelay, "draw-delay", app.Config.DrawDelay, "pause between steps while running")
	if err := app.Parse(os.Args[1:]); err != nil {
		if cli.IsHelp(err) {
			return
		}
		log.Fatalf("Failed to parse flags: %s.", err)
	}
	defer app.Close()

	var program []int64
	if example != "" {
		program, err = assets.Load(example)
	} else {
		program, err = app.LoadProgram()
	}
	if err != nil {
		app.Fatal(err)
	}
	values, err := cli.ParseValues(inputs)
	if err != nil {
		app.Fatal(err)
	}

	g := NewGame(context.Background())

	// Stderr belongs to the terminal UI, log in the logs pane instead.
	level := app.Config.LogLevel
	if app.Config.Trace {
		level = "debug"
	}
	logger, err := cli.NewLogger(g.logsView, level, false)
	if err != nil {
		app.Fatal(err)
	}
	app.SetLogger(logger)

	g.Load(program, values, app.MachineOptions()...)
	g.Init()
	g.Draw()

	delay := max(app.Config.DrawDelay, time.Millisecond)
	go func() {
		ticker := time.NewTicker(delay)
		defer ticker.Stop()
		for {
			g.app.QueueUpdateDraw(g.tick)
			select {
			case <-ticker.C:
			case <-g.ctx.Done():
				return
			}
		}
	}()

	if err := g.app.SetRoot(g.root, true).SetFocus(g.memView).Run(); err != nil {
		app.Fatal(err)
	}
}

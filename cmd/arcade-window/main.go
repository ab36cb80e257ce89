// Command arcade-window plays the arcade game for free in a window.
package main

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/bitmapfont/v3"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
	"golang.org/x/image/font"

	"go.creack.net/intcode/arcade"
	"go.creack.net/intcode/cli"
)

const (
	initialScreenWidth, initialScreenHeight = 640, 480

	tileSize = 12
)

var fontFace text.Face = text.NewGoXFace(bitmapfont.Face)

var tileColors = map[arcade.Tile]color.Color{
	arcade.Wall:   color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	arcade.Block:  color.RGBA{R: 0xd0, G: 0x30, B: 0x30, A: 0xff},
	arcade.Paddle: color.RGBA{R: 0xf0, G: 0xd0, B: 0x20, A: 0xff},
	arcade.Ball:   color.RGBA{R: 0x30, G: 0xe0, B: 0x30, A: 0xff},
}

// hudWidth fits the longest HUD label.
func hudWidth() int {
	return font.MeasureString(bitmapfont.Face, "State: game over (fault)").Ceil() + 2*tileSize
}

// Game implements ebiten.Game. The cabinet runs in its own goroutine
// and publishes a snapshot of the screen on each joystick read.
type Game struct {
	ui     *ebitenui.UI
	score  *widget.Text
	blocks *widget.Text
	state  *widget.Text

	mu     sync.Mutex
	screen *arcade.Screen
	status string

	cancel context.CancelFunc
}

func NewGame() *Game {
	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(widget.NewInsetsSimple(tileSize)),
			widget.RowLayoutOpts.Spacing(4),
		)),
	)
	newText := func(label string) *widget.Text {
		t := widget.NewText(widget.TextOpts.Text(label, &fontFace, color.White))
		root.AddChild(t)
		return t
	}
	return &Game{
		ui:     &ebitenui.UI{Container: root},
		score:  newText("Score: 0"),
		blocks: newText("Blocks: 0"),
		state:  newText("State: starting"),
		screen: arcade.NewScreen(),
		status: "starting",
	}
}

// Start plays the game in the background.
func (g *Game) Start(ctx context.Context, c *arcade.Cabinet, delay time.Duration) {
	ctx, g.cancel = context.WithCancel(ctx)
	c.OnFrame = func(s *arcade.Screen) {
		g.set(s.Clone(), "playing")
		time.Sleep(delay)
	}
	go func() {
		screen, err := c.Play(ctx)
		switch {
		case errors.Is(err, context.Canceled):
			return
		case err != nil:
			c.Logger.Error("game stopped", zap.Error(err))
			g.set(nil, "game over (fault)")
		default:
			g.set(screen.Clone(), "game over")
		}
	}()
}

func (g *Game) set(s *arcade.Screen, status string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s != nil {
		g.screen = s
	}
	g.status = status
}

func (g *Game) snapshot() (*arcade.Screen, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.screen, g.status
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		if g.cancel != nil {
			g.cancel()
		}
		return ebiten.Termination
	}
	s, status := g.snapshot()
	g.score.Label = fmt.Sprintf("Score: %d", s.Score)
	g.blocks.Label = fmt.Sprintf("Blocks: %d", s.Count(arcade.Block))
	g.state.Label = "State: " + status
	g.ui.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	s, _ := g.snapshot()
	lo, _ := s.Bounds()
	offset := float32(hudWidth())
	for p, tile := range s.Tiles {
		clr, ok := tileColors[tile]
		if !ok {
			continue
		}
		x := offset + float32(p.X-lo.X)*tileSize
		y := float32(tileSize) + float32(p.Y-lo.Y)*tileSize
		vector.DrawFilledRect(screen, x, y, tileSize-1, tileSize-1, clr, false)
	}
	g.ui.Draw(screen)
	if len(s.Tiles) == 0 {
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(offset), tileSize)
		text.Draw(screen, "Waiting for the first frame...", fontFace, op)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return initialScreenWidth, initialScreenHeight
}

func main() {
	app, err := cli.New("arcade-window")
	if err != nil {
		log.Fatalf("Failed to load config: %s.", err)
	}
	app.Flags.DurationVar(&app.Config.DrawDelay, "draw-delay", app.Config.DrawDelay, "pause between frames")
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

	game := NewGame()
	game.Start(ctx, &arcade.Cabinet{
		Program:  program,
		Quarters: true,
		Joystick: arcade.Track,
		Logger:   app.Logger,
		Options:  app.MachineOptions(),
	}, app.Config.DrawDelay)

	ebiten.SetWindowSize(initialScreenWidth, initialScreenHeight)
	ebiten.SetWindowTitle("Intcode arcade")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGameWithOptions(game, &ebiten.RunGameOptions{
		InitUnfocused: true,
	}); err != nil {
		app.Fatal(err)
	}
}

package main

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"go.creack.net/intcode/arcade"
)

var tileStyles = map[arcade.Tile]tcell.Style{
	arcade.Wall:   tcell.StyleDefault.Foreground(tcell.ColorGray).Bold(true),
	arcade.Block:  tcell.StyleDefault.Foreground(tcell.ColorRed),
	arcade.Paddle: tcell.StyleDefault.Foreground(tcell.ColorYellow),
	arcade.Ball:   tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true),
}

// terminal draws the game frames with tcell.
type terminal struct {
	screen tcell.Screen
	delay  time.Duration

	closeOnce sync.Once
}

func newTerminal(delay time.Duration) (*terminal, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}
	s.HideCursor()
	s.Clear()
	return &terminal{screen: s, delay: delay}, nil
}

func (t *terminal) draw(s *arcade.Screen) {
	t.screen.Clear()

	lo, hi := s.Bounds()
	for p, tile := range s.Tiles {
		t.screen.SetContent(int(p.X-lo.X), int(p.Y-lo.Y), tile.Rune(), nil, tileStyles[tile])
	}

	y := int(hi.Y-lo.Y) + 1
	label := "Score: "
	for i, r := range label {
		t.screen.SetContent(i, y, r, nil, tcell.StyleDefault)
	}
	for i, r := range strconv.FormatInt(s.Score, 10) {
		t.screen.SetContent(len(label)+i, y, r, nil, tcell.StyleDefault.Underline(true))
	}
	t.screen.Show()

	// Even without delay, give the terminal a chance to catch up.
	time.Sleep(t.delay)
}

// watchQuit calls quit on ctrl-c, escape or q. It returns once the screen is closed.
func (t *terminal) watchQuit(quit func()) {
	for {
		switch ev := t.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyEscape || ev.Rune() == 'q' {
				quit()
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

func (t *terminal) close() {
	t.closeOnce.Do(t.screen.Fini)
}

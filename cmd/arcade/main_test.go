package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"go.creack.net/intcode/arcade"
	"go.creack.net/intcode/cli"
)

func TestCountBlocksAndFreePlay(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	app := &cli.App{Logger: zap.NewNop()}

	// Cell 0 is add or mul on zeroes. Draws two blocks, reads the
	// joystick and shows it then cell 0 as the score.
	program := []int64{
		1, 100, 100, 100,
		104, 0, 104, 0, 104, 2,
		104, 1, 104, 0, 104, 2,
		104, 3, 104, 1, 104, 4,
		104, 0, 104, 1, 104, 3,
		3, 101,
		104, -1, 104, 0, 4, 101,
		104, -1, 104, 0, 4, 0,
		99,
	}

	blocks, err := countBlocks(ctx, app, program)
	if err != nil {
		t.Fatalf("count blocks: %s", err)
	}
	if blocks != 2 {
		t.Errorf("blocks = %d, want 2", blocks)
	}

	frames := 0
	screen, err := freePlay(ctx, app, program, func(s *arcade.Screen) {
		frames++
		if s.Ball != (arcade.Point{X: 3, Y: 1}) {
			t.Errorf("ball = %v at frame %d", s.Ball, frames)
		}
	})
	if err != nil {
		t.Fatalf("free play: %s", err)
	}
	if frames != 1 {
		t.Errorf("frames = %d, want 1", frames)
	}
	// Quarters turned cell 0 into 2.
	if screen.Score != 2 {
		t.Errorf("score = %d, want 2", screen.Score)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"\n", true},
		{"", true},
		{"y\n", true},
		{"Yes\n", true},
		{"n\n", false},
		{"nope\n", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		if got := confirm(strings.NewReader(tt.input), &out, "Insert?"); got != tt.want {
			t.Errorf("confirm(%q) = %t, want %t", tt.input, got, tt.want)
		}
		if out.String() != "Insert? (Y/n) " {
			t.Errorf("prompt = %q", out.String())
		}
	}
}

package arcade

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// draw returns the instructions emitting the given triples.
func draw(triples ...[3]int64) []int64 {
	var program []int64
	for _, tr := range triples {
		program = append(program, 104, tr[0], 104, tr[1], 104, tr[2])
	}
	return program
}

func TestPlayDraws(t *testing.T) {
	program := append(draw(
		[3]int64{1, 2, int64(Paddle)},
		[3]int64{6, 5, int64(Ball)},
		[3]int64{-1, 0, 12345},
		[3]int64{0, 0, int64(Block)},
		[3]int64{1, 0, int64(Block)},
		[3]int64{2, 0, int64(Wall)},
	), 99)

	screen, err := (&Cabinet{Program: program}).Play(testContext(t))
	if err != nil {
		t.Fatalf("play: %s", err)
	}
	if n := screen.Count(Block); n != 2 {
		t.Errorf("blocks = %d, want 2", n)
	}
	if screen.Score != 12345 {
		t.Errorf("score = %d, want 12345", screen.Score)
	}
	if screen.Ball != (Point{6, 5}) || screen.Paddle != (Point{1, 2}) {
		t.Errorf("ball %v paddle %v", screen.Ball, screen.Paddle)
	}
	if _, ok := screen.Tiles[ScorePoint]; ok {
		t.Errorf("score drawn as a tile")
	}
}

func TestPlayJoystick(t *testing.T) {
	// Draw ball and paddle, read the joystick, show it as the score.
	program := append(draw(
		[3]int64{5, 0, int64(Ball)},
		[3]int64{2, 0, int64(Paddle)},
	), 3, 100, 104, -1, 104, 0, 4, 100, 99)

	frames := 0
	c := &Cabinet{
		Program:  program,
		Joystick: Track,
		OnFrame: func(s *Screen) {
			frames++
			if s.Count(Ball) != 1 {
				t.Errorf("frame without the ball")
			}
		},
	}
	screen, err := c.Play(testContext(t))
	if err != nil {
		t.Fatalf("play: %s", err)
	}
	if screen.Score != 1 {
		t.Errorf("joystick = %d, want 1", screen.Score)
	}
	if frames != 1 {
		t.Errorf("frames = %d, want 1", frames)
	}
}

func TestPlayQuarters(t *testing.T) {
	// Cell 0 is add or mul on zeroes, then shown as the score.
	program := []int64{1, 20, 20, 20, 104, -1, 104, 0, 4, 0, 99}

	for _, tt := range []struct {
		quarters bool
		want     int64
	}{
		{false, 1},
		{true, 2},
	} {
		screen, err := (&Cabinet{Program: program, Quarters: tt.quarters}).Play(testContext(t))
		if err != nil {
			t.Fatalf("play: %s", err)
		}
		if screen.Score != tt.want {
			t.Errorf("quarters %t: score = %d, want %d", tt.quarters, screen.Score, tt.want)
		}
	}
}

func TestPlayInvalidTile(t *testing.T) {
	program := append(draw([3]int64{0, 0, 9}), 99)
	if _, err := (&Cabinet{Program: program}).Play(testContext(t)); !errors.Is(err, ErrInvalidTile) {
		t.Fatalf("got %v, want %v", err, ErrInvalidTile)
	}
}

func TestPlayPartialUpdate(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	program := []int64{104, 1, 104, 2, 99}

	if _, err := (&Cabinet{Program: program, Logger: zap.New(core)}).Play(testContext(t)); err != nil {
		t.Fatalf("play: %s", err)
	}
	if logs.Len() != 1 {
		t.Errorf("got %d warnings, want 1", logs.Len())
	}
}

func TestTrack(t *testing.T) {
	tests := []struct {
		paddle, ball Point
		want         int64
	}{
		{Point{5, 20}, Point{2, 3}, -1},
		{Point{5, 20}, Point{5, 3}, 0},
		{Point{5, 20}, Point{9, 3}, 1},
	}
	for _, tt := range tests {
		if got := Track(tt.paddle, tt.ball); got != tt.want {
			t.Errorf("track(%v, %v) = %d, want %d", tt.paddle, tt.ball, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	s := NewScreen()
	for x := range int64(3) {
		s.Set(Point{x, 0}, Wall)
	}
	s.Set(Point{1, 1}, Ball)
	s.Set(Point{1, 2}, Paddle)
	s.Set(Point{0, 2}, Block)

	if want := "███\n o \n░_ \n"; s.Render() != want {
		t.Errorf("render:\n%q\nwant:\n%q", s.Render(), want)
	}

	lo, hi := s.Bounds()
	if lo != (Point{0, 0}) || hi != (Point{2, 2}) {
		t.Errorf("bounds = %v %v", lo, hi)
	}
}

func TestClone(t *testing.T) {
	s := NewScreen()
	s.Set(Point{0, 0}, Block)
	c := s.Clone()
	s.Set(Point{0, 0}, Empty)

	if c.Count(Block) != 1 {
		t.Errorf("clone shares tiles with the original")
	}
}

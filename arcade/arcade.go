// Package arcade runs the Intcode arcade cabinet.
//
// The game outputs triples (x, y, tile), or (-1, 0, score) to update the
// score display. Its input is the joystick: -1 left, 0 neutral, 1 right.
package arcade

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"go.creack.net/intcode/vm"
)

var ErrInvalidTile = errors.New("invalid tile")

// Joystick decides the next joystick position.
type Joystick func(paddle, ball Point) int64

// Neutral never moves.
func Neutral(Point, Point) int64 { return 0 }

// Track moves the paddle toward the ball.
func Track(paddle, ball Point) int64 {
	return int64(cmp.Compare(ball.X, paddle.X))
}

// Cabinet is an arcade machine loaded with a game.
type Cabinet struct {
	Program []int64

	// Quarters sets the game in free play mode.
	Quarters bool

	// Joystick defaults to Neutral.
	Joystick Joystick

	// OnFrame is called each time the game reads the joystick, with the
	// screen as the player sees it. The screen must not be retained.
	OnFrame func(*Screen)

	Logger  *zap.Logger
	Options []vm.Option
}

// display decodes the output triples onto the screen.
type display struct {
	screen  *Screen
	pending [3]int64
	n       int
}

func (d *display) Emit(v int64) error {
	d.pending[d.n] = v
	d.n++
	if d.n < len(d.pending) {
		return nil
	}
	d.n = 0

	p := Point{d.pending[0], d.pending[1]}
	if p == ScorePoint {
		d.screen.Score = d.pending[2]
		return nil
	}
	t := Tile(d.pending[2])
	if !t.Valid() {
		return fmt.Errorf("%w %d at (%d, %d)", ErrInvalidTile, d.pending[2], p.X, p.Y)
	}
	d.screen.Set(p, t)
	return nil
}

// Play runs the game until it halts and returns the final screen.
func (c *Cabinet) Play(ctx context.Context) (*Screen, error) {
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	joystick := c.Joystick
	if joystick == nil {
		joystick = Neutral
	}

	m := vm.New(c.Program, append(slices.Clip(c.Options), vm.WithLogger(logger))...)
	if c.Quarters {
		if err := m.Memory.Write(0, 2); err != nil {
			return nil, fmt.Errorf("insert quarters: %w", err)
		}
	}

	d := &display{screen: NewScreen()}
	in := vm.InputFunc(func(ctx context.Context) (int64, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if c.OnFrame != nil {
			c.OnFrame(d.screen)
		}
		return joystick(d.screen.Paddle, d.screen.Ball), nil
	})

	if err := m.Run(ctx, in, d); err != nil {
		return nil, fmt.Errorf("run game: %w", err)
	}
	if d.n != 0 {
		logger.Warn("game halted with a partial screen update", zap.Int64s("pending", d.pending[:d.n]))
	}
	logger.Debug("game over", zap.Int64("score", d.screen.Score), zap.Int("steps", m.Steps))
	return d.screen, nil
}

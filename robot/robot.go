// Package robot drives the emergency hull painting robot with an Intcode brain.
//
// The robot camera is the machine input: the color of the panel under the
// robot. The machine outputs pairs: the color to paint the panel with, then
// the direction to turn before moving one panel forward.
package robot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.creack.net/intcode/vm"
)

var (
	ErrInvalidColor = errors.New("invalid paint color")
	ErrInvalidTurn  = errors.New("invalid turn direction")
)

type Color int64

const (
	Black Color = 0
	White Color = 1
)

// Point on the hull. Y grows upward.
type Point struct {
	X, Y int
}

// Direction the robot faces, clockwise.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// Turn rotates a quarter turn.
func (d Direction) Turn(right bool) Direction {
	if right {
		return (d + 1) % 4
	}
	return (d + 3) % 4
}

// Forward returns the neighbor of p in direction d.
func (d Direction) Forward(p Point) Point {
	switch d {
	case Up:
		p.Y++
	case Right:
		p.X++
	case Down:
		p.Y--
	case Left:
		p.X--
	}
	return p
}

// Hull holds the panels painted so far. Unpainted panels are black.
type Hull struct {
	Panels map[Point]Color
}

func NewHull() *Hull {
	return &Hull{Panels: map[Point]Color{}}
}

// Color returns the color of the panel at p.
func (h *Hull) Color(p Point) Color {
	return h.Panels[p]
}

// Painted returns the number of panels painted at least once.
func (h *Hull) Painted() int { return len(h.Panels) }

// Bounds returns the corners of the painted area.
func (h *Hull) Bounds() (lo, hi Point) {
	first := true
	for p := range h.Panels {
		if first {
			lo, hi, first = p, p, false
			continue
		}
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	return lo, hi
}

// Render draws the painted area, top row first. White is '#', black ' '.
func (h *Hull) Render() string {
	if len(h.Panels) == 0 {
		return ""
	}
	lo, hi := h.Bounds()

	var b strings.Builder
	for y := hi.Y; y >= lo.Y; y-- {
		for x := lo.X; x <= hi.X; x++ {
			if h.Color(Point{x, y}) == White {
				b.WriteByte('#')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Robot is both the input and the output of its machine.
type Robot struct {
	Hull   *Hull
	Pos    Point
	Facing Direction

	turning bool // Next output is a turn.
}

// Next implements vm.Input: the camera.
func (r *Robot) Next(context.Context) (int64, error) {
	return int64(r.Hull.Color(r.Pos)), nil
}

// Emit implements vm.Output.
func (r *Robot) Emit(v int64) error {
	defer func() { r.turning = !r.turning }()

	if !r.turning {
		if c := Color(v); c != Black && c != White {
			return fmt.Errorf("%w %d", ErrInvalidColor, v)
		}
		r.Hull.Panels[r.Pos] = Color(v)
		return nil
	}

	switch v {
	case 0:
		r.Facing = r.Facing.Turn(false)
	case 1:
		r.Facing = r.Facing.Turn(true)
	default:
		return fmt.Errorf("%w %d", ErrInvalidTurn, v)
	}
	r.Pos = r.Facing.Forward(r.Pos)
	return nil
}

// Paint runs the robot program until it halts, from the origin facing up.
// A start color other than black is painted on the origin first.
func Paint(ctx context.Context, program []int64, start Color, opts ...vm.Option) (*Hull, error) {
	r := &Robot{Hull: NewHull(), Facing: Up}
	if start != Black {
		r.Hull.Panels[Point{}] = start
	}

	if err := vm.New(program, opts...).Run(ctx, r, r); err != nil {
		return nil, fmt.Errorf("run robot: %w", err)
	}
	return r.Hull, nil
}

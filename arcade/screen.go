package arcade

import (
	"fmt"
	"maps"
	"strings"
)

type Tile int64

const (
	Empty Tile = iota
	Wall
	Block
	Paddle
	Ball
)

func (t Tile) String() string {
	switch t {
	case Empty:
		return "empty"
	case Wall:
		return "wall"
	case Block:
		return "block"
	case Paddle:
		return "paddle"
	case Ball:
		return "ball"
	default:
		return fmt.Sprintf("tile(%d)", int64(t))
	}
}

// Rune is the glyph used by Render.
func (t Tile) Rune() rune {
	switch t {
	case Wall:
		return '█'
	case Block:
		return '░'
	case Paddle:
		return '_'
	case Ball:
		return 'o'
	default:
		return ' '
	}
}

func (t Tile) Valid() bool { return t >= Empty && t <= Ball }

// Point on the screen. Y grows downward.
type Point struct {
	X, Y int64
}

// ScorePoint is the pseudo position the game writes the score to.
var ScorePoint = Point{-1, 0}

// Screen is the state of the game display.
type Screen struct {
	Tiles  map[Point]Tile
	Score  int64
	Ball   Point
	Paddle Point
}

func NewScreen() *Screen {
	return &Screen{Tiles: map[Point]Tile{}}
}

// Set draws t at p, tracking the ball and the paddle.
func (s *Screen) Set(p Point, t Tile) {
	switch t {
	case Ball:
		s.Ball = p
	case Paddle:
		s.Paddle = p
	}
	s.Tiles[p] = t
}

// Count returns the number of cells showing t.
func (s *Screen) Count(t Tile) int {
	n := 0
	for _, elem := range s.Tiles {
		if elem == t {
			n++
		}
	}
	return n
}

// Bounds returns the corners of the drawn area.
func (s *Screen) Bounds() (lo, hi Point) {
	first := true
	for p := range s.Tiles {
		if first {
			lo, hi, first = p, p, false
			continue
		}
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	return lo, hi
}

// Render draws the screen, top row first.
func (s *Screen) Render() string {
	if len(s.Tiles) == 0 {
		return ""
	}
	lo, hi := s.Bounds()

	var b strings.Builder
	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			b.WriteRune(s.Tiles[Point{x, y}].Rune())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Clone returns a deep copy, safe to hand to another goroutine.
func (s *Screen) Clone() *Screen {
	out := *s
	out.Tiles = maps.Clone(s.Tiles)
	return &out
}

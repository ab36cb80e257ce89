//go:build !local

package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Open on the secondary screen, left of the main one.
func init() {
	go func() {
		time.Sleep(100 * time.Millisecond)
		ebiten.SetWindowPosition(-initialScreenWidth, 0)
	}()
}

// Package gravity runs the noun/verb patched programs of the gravity assist.
package gravity

import (
	"context"
	"errors"
	"fmt"

	"go.creack.net/intcode/vm"
)

// Bounds of the noun and verb values.
const (
	MinInput = 0
	MaxInput = 99
)

// ErrNotFound is returned by Search when no pair yields the target.
var ErrNotFound = errors.New("no noun/verb pair produces the target")

// Run patches cells 1 and 2 with noun and verb, runs the program without
// input and returns the final value of cell 0.
func Run(ctx context.Context, program []int64, noun, verb int64, opts ...vm.Option) (int64, error) {
	m := vm.New(program, opts...)
	if err := m.Memory.Write(1, noun); err != nil {
		return 0, fmt.Errorf("patch noun: %w", err)
	}
	if err := m.Memory.Write(2, verb); err != nil {
		return 0, fmt.Errorf("patch verb: %w", err)
	}
	m.Memory.ResetAccess()

	if err := m.Run(ctx, vm.NoInput, vm.Discard); err != nil {
		return 0, fmt.Errorf("run (%d, %d): %w", noun, verb, err)
	}
	return m.Memory.Peek(0), nil
}

// Search looks for the first noun/verb pair, noun major, for which Run
// yields target.
func Search(ctx context.Context, program []int64, target int64, opts ...vm.Option) (noun, verb int64, err error) {
	for noun := int64(MinInput); noun <= MaxInput; noun++ {
		for verb := int64(MinInput); verb <= MaxInput; verb++ {
			v, err := Run(ctx, program, noun, verb, opts...)
			if err != nil {
				return 0, 0, err
			}
			if v == target {
				return noun, verb, nil
			}
		}
	}
	return 0, 0, fmt.Errorf("%w %d", ErrNotFound, target)
}

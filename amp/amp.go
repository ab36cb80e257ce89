// Package amp composes Intcode machines into amplifier pipelines.
//
// Every amplifier runs its own copy of the same program and is configured
// by a phase value, read as its first input.
package amp

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"go.creack.net/intcode/vm"
)

// ErrNoOutput is returned when a pipeline produced no final value.
var ErrNoOutput = errors.New("amplifier produced no output")

// Result of a phase search.
type Result struct {
	Value  int64
	Phases []int64
}

// Build creates one machine per config value, each loaded with an
// independent copy of program. Machine IDs are the config index.
func Build(program []int64, configs []int64, opts ...vm.Option) []*vm.Machine {
	machines := make([]*vm.Machine, len(configs))
	for i := range configs {
		machines[i] = vm.New(program, append(slices.Clip(opts), vm.WithID(i))...)
	}
	return machines
}

// Chain runs the amplifiers one after the other. Amplifier i reads its
// phase then the previous amplifier's last output (seed for the first one).
func Chain(ctx context.Context, program, phases []int64, seed int64, opts ...vm.Option) (int64, error) {
	acc := seed
	for i, m := range Build(program, phases, opts...) {
		in := vm.Values{phases[i], acc}
		out := &vm.Buffer{}
		if err := m.Run(ctx, &in, out); err != nil {
			return 0, fmt.Errorf("run amplifier %d: %w", i, err)
		}
		v, ok := out.Last()
		if !ok {
			return 0, fmt.Errorf("amplifier %d: %w", i, ErrNoOutput)
		}
		acc = v
	}
	return acc, nil
}

// Ring runs the amplifiers concurrently in a feedback loop: the output of
// the last amplifier goes back into the first one until they all halt.
// It returns the last value emitted by the last amplifier.
func Ring(ctx context.Context, program, phases []int64, seed int64, opts ...vm.Option) (int64, error) {
	if len(phases) == 0 {
		return seed, nil
	}

	// queues[i] feeds amplifier i, tail collects the last amplifier's output.
	queues := make([]*vm.Queue, len(phases))
	for i, p := range phases {
		queues[i] = vm.NewQueue(p)
	}
	if err := queues[0].Send(seed); err != nil {
		return 0, fmt.Errorf("seed ring: %w", err)
	}
	tail := vm.NewQueue()

	g, ctx := errgroup.WithContext(ctx)
	for i, m := range Build(program, phases, opts...) {
		in, out := queues[i], tail
		if i+1 < len(queues) {
			out = queues[i+1]
		}
		g.Go(func() error {
			defer in.Drop()
			defer out.Close()
			if err := m.Run(ctx, in, out); err != nil {
				return fmt.Errorf("run amplifier %d: %w", i, err)
			}
			return nil
		})
	}

	var (
		last int64
		got  bool
	)
	g.Go(func() error {
		// Nothing feeds the first amplifier once the harness is done.
		defer queues[0].Close()
		for {
			v, err := tail.Next(ctx)
			if errors.Is(err, vm.ErrMissingInput) {
				return nil // Last amplifier halted.
			}
			if err != nil {
				return err
			}
			last, got = v, true
			// Once the first amplifier halted, the value is only kept as the result.
			if err := queues[0].Send(v); err != nil && !errors.Is(err, vm.ErrDisconnected) {
				return fmt.Errorf("feed back %d: %w", v, err)
			}
		}
	})

	if err := g.Wait(); err != nil {
		return 0, err
	}
	if !got {
		return 0, fmt.Errorf("amplifier %d: %w", len(phases)-1, ErrNoOutput)
	}
	return last, nil
}

// BestOf evaluates every permutation of phases and returns the one yielding
// the highest final value. The chain is seeded with 0. With feedback, the
// amplifiers run as a Ring, otherwise as a Chain.
func BestOf(ctx context.Context, program, phases []int64, feedback bool, opts ...vm.Option) (Result, error) {
	return BestOfN(ctx, program, phases, feedback, 0, opts...)
}

// BestOfN is BestOf with at most workers permutations evaluated at once.
// A value <= 0 means GOMAXPROCS.
func BestOfN(ctx context.Context, program, phases []int64, feedback bool, workers int, opts ...vm.Option) (Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	run := Chain
	if feedback {
		run = Ring
	}

	perms := Permutations(phases)
	values := make([]int64, len(perms))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range perms {
		g.Go(func() error {
			v, err := run(ctx, program, p, 0, opts...)
			if err != nil {
				return fmt.Errorf("phases %v: %w", p, err)
			}
			values[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	// Strictly greater: ties keep the first permutation.
	best := Result{Value: values[0], Phases: perms[0]}
	for i, v := range values[1:] {
		if v > best.Value {
			best = Result{Value: v, Phases: perms[i+1]}
		}
	}
	return best, nil
}

package vm

import "context"

// Input is where a machine reads from on the input instruction.
// Next blocks until a value is available. It returns ErrMissingInput
// once the source is exhausted for good.
type Input interface {
	Next(ctx context.Context) (int64, error)
}

// Output receives the values of the output instruction, in order.
// Emit must not block.
type Output interface {
	Emit(v int64) error
}

// Values is a fixed input list, consumed in order.
type Values []int64

func (v *Values) Next(context.Context) (int64, error) {
	if len(*v) == 0 {
		return 0, ErrMissingInput
	}
	n := (*v)[0]
	*v = (*v)[1:]
	return n, nil
}

// InputFunc adapts a function to the Input interface.
type InputFunc func(ctx context.Context) (int64, error)

func (f InputFunc) Next(ctx context.Context) (int64, error) { return f(ctx) }

// OutputFunc adapts a function to the Output interface.
type OutputFunc func(v int64)

func (f OutputFunc) Emit(v int64) error {
	f(v)
	return nil
}

// Buffer collects every emitted value.
type Buffer struct {
	Values []int64
}

func (b *Buffer) Emit(v int64) error {
	b.Values = append(b.Values, v)
	return nil
}

// Last returns the last emitted value.
func (b *Buffer) Last() (int64, bool) {
	if len(b.Values) == 0 {
		return 0, false
	}
	return b.Values[len(b.Values)-1], true
}

// Discard drops every value.
var Discard Output = OutputFunc(func(int64) {})

// NoInput is an input that is always exhausted.
var NoInput Input = InputFunc(func(context.Context) (int64, error) { return 0, ErrMissingInput })

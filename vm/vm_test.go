package vm

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// run executes program to completion with the given inputs.
func run(t *testing.T, program []int64, inputs ...int64) (*Machine, []int64) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	m := New(program)
	in := Values(inputs)
	out := &Buffer{}
	if err := m.Run(ctx, &in, out); err != nil {
		t.Fatalf("run %v: %s", program, err)
	}
	return m, out.Values
}

// runErr executes program and expects a fault wrapping want.
func runErr(t *testing.T, program []int64, want error) *Machine {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	m := New(program)
	err := m.Run(ctx, NoInput, Discard)
	if !errors.Is(err, want) {
		t.Fatalf("run %v: got %v, want %v", program, err, want)
	}
	var f *Fault
	if !errors.As(err, &f) {
		t.Fatalf("run %v: error %T is not a *Fault", program, err)
	}
	if m.State != StateFaulted {
		t.Fatalf("state = %s, want %s", m.State, StateFaulted)
	}
	return m
}

func TestHaltImmediately(t *testing.T) {
	m, out := run(t, []int64{99})
	if len(out) != 0 {
		t.Errorf("unexpected output: %v", out)
	}
	if !slices.Equal(m.Memory.Cells(), []int64{99}) {
		t.Errorf("memory changed: %v", m.Memory.Cells())
	}
	if !m.Halted() {
		t.Errorf("state = %s, want halted", m.State)
	}
}

func TestStepAfterHalt(t *testing.T) {
	m, _ := run(t, []int64{99})
	if err := m.Step(context.Background(), NoInput, Discard); !errors.Is(err, ErrHalted) {
		t.Fatalf("step on halted machine: got %v, want %v", err, ErrHalted)
	}
}

func TestFinalMemory(t *testing.T) {
	tests := []struct {
		name    string
		program []int64
		memory  []int64
	}{
		{"add position", []int64{1, 0, 0, 0, 99}, []int64{2, 0, 0, 0, 99}},
		{"mul position", []int64{2, 3, 0, 3, 99}, []int64{2, 3, 0, 6, 99}},
		{"mul past program", []int64{2, 4, 4, 5, 99, 0}, []int64{2, 4, 4, 5, 99, 9801}},
		{"self modifying", []int64{1, 1, 1, 4, 99, 5, 6, 0, 99}, []int64{30, 1, 1, 4, 2, 5, 6, 0, 99}},
		{"immediate operands", []int64{1101, 100, -1, 4, 0}, []int64{1101, 100, -1, 4, 99}},
		{"mixed modes", []int64{1002, 4, 3, 4, 33}, []int64{1002, 4, 3, 4, 99}},
		{"gravity sample", []int64{1, 9, 10, 3, 2, 3, 11, 0, 99, 30, 40, 50}, []int64{3500, 9, 10, 70, 2, 3, 11, 0, 99, 30, 40, 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, out := run(t, tt.program)
			if len(out) != 0 {
				t.Errorf("unexpected output: %v", out)
			}
			if got := m.Memory.Cells(); !slices.Equal(got, tt.memory) {
				t.Errorf("memory = %v, want %v", got, tt.memory)
			}
		})
	}
}

func TestPositionAndRelativeAgree(t *testing.T) {
	tests := []struct {
		name     string
		position []int64
		relative []int64
		want     int64
	}{
		{
			"add",
			[]int64{1, 9, 10, 11, 99, 0, 0, 0, 0, 30, 40, 0},
			[]int64{109, 9, 22201, 0, 1, 2, 99, 0, 0, 30, 40, 0},
			70,
		},
		{
			"mul",
			[]int64{2, 9, 10, 11, 99, 0, 0, 0, 0, 30, 40, 0},
			[]int64{109, 9, 22202, 0, 1, 2, 99, 0, 0, 30, 40, 0},
			1200,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, _ := run(t, tt.position)
			rel, _ := run(t, tt.relative)
			if a, b := pos.Memory.Peek(11), rel.Memory.Peek(11); a != tt.want || b != tt.want {
				t.Errorf("position = %d, relative = %d, want %d", a, b, tt.want)
			}
		})
	}
}

func TestUnwrittenMemoryReadsZero(t *testing.T) {
	// Store 7 at 50, then output cells 100 and 50.
	m, out := run(t, []int64{1101, 7, 0, 50, 4, 100, 4, 50, 99})
	if want := []int64{0, 7}; !slices.Equal(out, want) {
		t.Fatalf("output = %v, want %v", out, want)
	}
	if m.Memory.Len() != 101 {
		t.Errorf("memory len = %d, want 101", m.Memory.Len())
	}
}

func TestOutputs(t *testing.T) {
	quine := []int64{109, 1, 204, -1, 1001, 100, 1, 100, 1008, 100, 16, 101, 1006, 101, 0, 99}
	compareEight := []int64{3, 9, 8, 9, 10, 9, 4, 9, 99, -1, 8}
	lessThanEight := []int64{3, 3, 1107, -1, 8, 3, 4, 3, 99}
	jumpPosition := []int64{3, 12, 6, 12, 15, 1, 13, 14, 13, 4, 13, 99, -1, 0, 1, 9}
	aroundEight := []int64{
		3, 21, 1008, 21, 8, 20, 1005, 20, 22, 107, 8, 21, 20, 1006, 20, 31,
		1106, 0, 36, 98, 0, 0, 1002, 21, 125, 20, 4, 20, 1105, 1, 46, 104,
		999, 1105, 1, 46, 1101, 1000, 1, 20, 4, 20, 1105, 1, 46, 98, 99,
	}

	tests := []struct {
		name    string
		program []int64
		input   []int64
		want    []int64
	}{
		{"echo", []int64{3, 0, 4, 0, 99}, []int64{42}, []int64{42}},
		{"relative base output", []int64{109, 1, 204, -1, 99}, nil, []int64{109}},
		{"quine", quine, nil, quine},
		{"large product", []int64{1102, 34915192, 34915192, 7, 4, 7, 99, 0}, nil, []int64{1219070632396864}},
		{"large immediate", []int64{104, 1125899906842624, 99}, nil, []int64{1125899906842624}},
		{"equal to eight", compareEight, []int64{8}, []int64{1}},
		{"not equal to eight", compareEight, []int64{7}, []int64{0}},
		{"less than eight", lessThanEight, []int64{5}, []int64{1}},
		{"not less than eight", lessThanEight, []int64{9}, []int64{0}},
		{"jump on zero", jumpPosition, []int64{0}, []int64{0}},
		{"jump on non zero", jumpPosition, []int64{3}, []int64{1}},
		{"below eight", aroundEight, []int64{7}, []int64{999}},
		{"eight", aroundEight, []int64{8}, []int64{1000}},
		{"above eight", aroundEight, []int64{9}, []int64{1001}},
		{"relative write", []int64{109, 5, 203, 2, 4, 7, 99}, []int64{11}, []int64{11}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out := run(t, tt.program, tt.input...)
			if !slices.Equal(out, tt.want) {
				t.Errorf("output = %v, want %v", out, tt.want)
			}
		})
	}
}

func TestFaults(t *testing.T) {
	tests := []struct {
		name    string
		program []int64
		want    error
	}{
		{"negative position read", []int64{4, -1, 99}, ErrNegativeAddress},
		{"negative relative read", []int64{109, -5, 204, 0, 99}, ErrNegativeAddress},
		{"negative jump target", []int64{1105, 1, -1}, ErrNegativeAddress},
		{"immediate write", []int64{10001, 0, 0, 0, 99}, ErrInvalidWriteMode},
		{"immediate input", []int64{103, 0, 99}, ErrInvalidWriteMode},
		{"unknown opcode", []int64{42}, ErrUnknownOpcode},
		{"negative word", []int64{-1}, ErrUnknownOpcode},
		{"unknown mode", []int64{301, 0, 0, 0, 99}, ErrUnknownParamMode},
		{"missing parameter", []int64{1, 0, 0}, ErrMissingParameter},
		{"missing input", []int64{3, 0, 99}, ErrMissingInput},
		{"write past the limit", []int64{1101, 1, 1, 1 << 62, 99}, ErrAddressTooLarge},
		{"read past the limit", []int64{4, MaxMemory, 99}, ErrAddressTooLarge},
		{"relative past the limit", []int64{109, 1 << 40, 204, 0, 99}, ErrAddressTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runErr(t, tt.program, tt.want)
		})
	}
}

func TestUnknownOpcodeStopsMutation(t *testing.T) {
	m := runErr(t, []int64{1101, 1, 1, 5, 98, 0}, ErrUnknownOpcode)

	if want := []int64{1101, 1, 1, 5, 98, 2}; !slices.Equal(m.Memory.Cells(), want) {
		t.Errorf("memory = %v, want %v", m.Memory.Cells(), want)
	}
	var f *Fault
	if !errors.As(m.Err(), &f) {
		t.Fatalf("err = %v, want a *Fault", m.Err())
	}
	if f.IP != 4 || f.Word != 98 {
		t.Errorf("fault at ip %d word %d, want ip 4 word 98", f.IP, f.Word)
	}
	if m.Steps != 1 {
		t.Errorf("steps = %d, want 1", m.Steps)
	}

	// A faulted machine keeps returning its fault.
	if err := m.Step(context.Background(), NoInput, Discard); !errors.Is(err, ErrUnknownOpcode) {
		t.Errorf("step on faulted machine: got %v", err)
	}
}

func TestRunPastTheEnd(t *testing.T) {
	// Jumps right past the last cell.
	m := runErr(t, []int64{1105, 1, 3}, ErrUnknownOpcode)

	if want := []int64{1105, 1, 3}; !slices.Equal(m.Memory.Cells(), want) {
		t.Errorf("memory = %v, want %v", m.Memory.Cells(), want)
	}
	var f *Fault
	if !errors.As(m.Err(), &f) {
		t.Fatalf("err = %v, want a *Fault", m.Err())
	}
	if f.IP != 3 || f.Word != 0 {
		t.Errorf("fault at ip %d word %d, want ip 3 word 0", f.IP, f.Word)
	}
}

func TestInputSuspends(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msgs := make(chan Message, 16)
	m := New([]int64{3, 0, 4, 0, 99}, WithMessages(msgs))
	in := NewQueue()
	out := NewQueue()

	done := make(chan error, 1)
	go func() {
		defer out.Close()
		done <- m.Run(ctx, in, out)
	}()

	for msg := range msgs {
		if msg.Type == MsgAwait {
			break
		}
	}
	if out.Len() != 0 {
		t.Fatalf("output before input: %d values", out.Len())
	}

	if err := in.Send(42); err != nil {
		t.Fatalf("send: %s", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("run: %s", err)
	}
	if v, err := out.Next(ctx); err != nil || v != 42 {
		t.Fatalf("output = %d, %v, want 42", v, err)
	}
}

func TestContextCancel(t *testing.T) {
	t.Run("waiting for input", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		m := New([]int64{3, 0, 99})

		done := make(chan error, 1)
		go func() { done <- m.Run(ctx, NewQueue(), Discard) }()
		cancel()

		err := <-done
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("got %v, want %v", err, context.Canceled)
		}
		var f *Fault
		if !errors.As(err, &f) {
			t.Fatalf("error %T is not a *Fault", err)
		}
	})

	t.Run("infinite loop", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := New([]int64{1105, 1, 0}).Run(ctx, NoInput, Discard); !errors.Is(err, context.Canceled) {
			t.Fatalf("got %v, want %v", err, context.Canceled)
		}
	})
}

func TestDisconnectedOutputIsLoggedOnce(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	msgs := make(chan Message, 16)
	m := New([]int64{104, 1, 104, 2, 104, 3, 99}, WithID(3), WithLogger(zap.New(core)), WithMessages(msgs))

	out := NewQueue()
	out.Drop()
	if err := m.Run(context.Background(), NoInput, out); err != nil {
		t.Fatalf("run: %s", err)
	}
	if !m.Halted() {
		t.Fatalf("state = %s, want halted", m.State)
	}
	if logs.Len() != 1 {
		t.Fatalf("got %d warnings, want 1", logs.Len())
	}
	if id, ok := logs.All()[0].ContextMap()["machine"]; !ok || id != int64(3) {
		t.Errorf("warning machine field = %v", id)
	}

	close(msgs)
	warnings := 0
	for msg := range msgs {
		if msg.Type == MsgWarning {
			warnings++
		}
	}
	if warnings != 1 {
		t.Errorf("got %d warning messages, want 1", warnings)
	}
}

func TestStepsAndMessages(t *testing.T) {
	msgs := make(chan Message, 16)
	m := New([]int64{1, 0, 0, 0, 104, 5, 99}, WithMessages(msgs))
	out := &Buffer{}
	if err := m.Run(context.Background(), NoInput, out); err != nil {
		t.Fatalf("run: %s", err)
	}
	if m.Steps != 3 {
		t.Errorf("steps = %d, want 3", m.Steps)
	}
	if v, ok := out.Last(); !ok || v != 5 {
		t.Errorf("last output = %d, %t", v, ok)
	}

	close(msgs)
	var types []MessageType
	for msg := range msgs {
		types = append(types, msg.Type)
	}
	if want := []MessageType{MsgOutput, MsgHalt}; !slices.Equal(types, want) {
		t.Errorf("messages = %v, want %v", types, want)
	}
}

func TestMessagesNeverBlock(t *testing.T) {
	msgs := make(chan Message) // Nobody reads it.
	m := New([]int64{104, 1, 104, 2, 99}, WithMessages(msgs))
	if err := m.Run(context.Background(), NoInput, Discard); err != nil {
		t.Fatalf("run: %s", err)
	}
}

func TestFaultError(t *testing.T) {
	f := &Fault{ID: 2, IP: 4, Word: 98, Err: ErrUnknownOpcode}
	if want := "machine 2: ip 4 (word 98): unknown opcode"; f.Error() != want {
		t.Errorf("error = %q, want %q", f.Error(), want)
	}
}

// Package vm implements the Intcode machine.
package vm

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"go.creack.net/intcode/op"
)

// State of a machine.
type State int

const (
	StateRunning State = iota
	StateAwaitingInput
	StateHalted
	StateFaulted
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateAwaitingInput:
		return "awaiting input"
	case StateHalted:
		return "halted"
	case StateFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// How many instructions Run executes between two context checks.
const ctxCheckInterval = 1024

type Machine struct {
	ID int

	Memory       *Memory
	IP           int64 // Instruction pointer.
	RelativeBase int64
	State        State
	Steps        int // Number of executed instructions.

	// CurInstruction is the last decoded instruction.
	CurInstruction *op.Instruction

	// Messages is an optional trace channel. Sends never block,
	// messages are dropped when the channel is full.
	Messages chan<- Message

	logger       *zap.Logger
	err          error // Set once faulted.
	disconnected bool  // Output receiver is gone, already reported.
}

// Option configures a Machine.
type Option func(*Machine)

func WithID(id int) Option { return func(m *Machine) { m.ID = id } }

func WithLogger(logger *zap.Logger) Option { return func(m *Machine) { m.logger = logger } }

func WithMessages(ch chan<- Message) Option { return func(m *Machine) { m.Messages = ch } }

// New creates a machine running a copy of program.
func New(program []int64, opts ...Option) *Machine {
	m := &Machine{
		Memory: NewMemory(program),
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(m)
	}
	m.logger = m.logger.With(zap.Int("machine", m.ID))
	return m
}

// Err returns the fault that stopped the machine, if any.
func (m *Machine) Err() error { return m.err }

// Halted reports whether the machine executed the halt instruction.
func (m *Machine) Halted() bool { return m.State == StateHalted }

func (m *Machine) send(mt MessageType, msg string) {
	if m.Messages == nil {
		return
	}
	select {
	case m.Messages <- NewMessage(mt, m, msg):
	default:
	}
}

func (m *Machine) fault(word int64, err error) error {
	f := &Fault{ID: m.ID, IP: m.IP, Word: word, Err: err}
	m.State = StateFaulted
	m.err = f
	m.send(MsgFault, err.Error())
	m.logger.Debug("fault", zap.Int64("ip", m.IP), zap.Int64("word", word), zap.Error(err))
	return f
}

// Peek decodes the instruction at IP without side effects.
func (m *Machine) Peek() (op.Instruction, error) {
	return op.Decode(m.Memory.Peek(m.IP))
}

// param resolves the parameter i of the current instruction.
// For reads it returns the operand value, for writes the destination address.
func (m *Machine) param(i int, write bool) (int64, error) {
	ins := m.CurInstruction

	addr := m.IP + 1 + int64(i)
	if addr >= int64(m.Memory.Len()) {
		return 0, fmt.Errorf("%w: parameter %d of %q at %d", ErrMissingParameter, i+1, ins.OpCode.Name, addr)
	}
	raw, err := m.Memory.Read(addr)
	if err != nil {
		return 0, err
	}

	mode := ins.Modes[i]
	if write && !mode.Writable() {
		return 0, fmt.Errorf("%w: parameter %d of %q", ErrInvalidWriteMode, i+1, ins.OpCode.Name)
	}

	switch mode {
	case op.ModeImmediate:
		return raw, nil
	case op.ModePosition, op.ModeRelative:
		target := raw
		if mode == op.ModeRelative {
			target += m.RelativeBase
		}
		if target < 0 {
			return 0, fmt.Errorf("%w %d: parameter %d of %q (%s %d)", ErrNegativeAddress, target, i+1, ins.OpCode.Name, mode, raw)
		}
		if write {
			return target, nil
		}
		return m.Memory.Read(target)
	default:
		return 0, fmt.Errorf("%w %d", ErrUnknownParamMode, mode)
	}
}

// params resolves the n first read parameters.
func (m *Machine) params(n int) ([op.MaxParams]int64, error) {
	var out [op.MaxParams]int64
	for i := range n {
		v, err := m.param(i, false)
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}

func boolValue(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// fetch reads the instruction word at IP. Past the end of memory the word
// is 0, which is not an opcode, and the memory doesn't grow.
func (m *Machine) fetch() (int64, error) {
	if m.IP >= int64(m.Memory.Len()) {
		return 0, nil
	}
	return m.Memory.Read(m.IP)
}

// Step decodes and executes a single instruction.
// The input instruction blocks until in has a value.
func (m *Machine) Step(ctx context.Context, in Input, out Output) error {
	switch m.State {
	case StateHalted:
		return ErrHalted
	case StateFaulted:
		return m.err
	}

	word, err := m.fetch()
	if err != nil {
		return m.fault(word, err)
	}
	ins, err := op.Decode(word)
	if err != nil {
		return m.fault(word, err)
	}
	m.CurInstruction = &ins
	m.Steps++

	if ce := m.logger.Check(zap.DebugLevel, "step"); ce != nil {
		ce.Write(zap.Int64("ip", m.IP), zap.Int64("rb", m.RelativeBase), zap.Stringer("ins", ins))
	}

	switch code := ins.OpCode.Code; code {
	case op.CodeAdd, op.CodeMul, op.CodeLessThan, op.CodeEquals:
		args, err := m.params(2)
		if err != nil {
			return m.fault(word, err)
		}
		dst, err := m.param(2, true)
		if err != nil {
			return m.fault(word, err)
		}
		var v int64
		switch code {
		case op.CodeAdd:
			v = args[0] + args[1]
		case op.CodeMul:
			v = args[0] * args[1]
		case op.CodeLessThan:
			v = boolValue(args[0] < args[1])
		case op.CodeEquals:
			v = boolValue(args[0] == args[1])
		}
		if err := m.Memory.Write(dst, v); err != nil {
			return m.fault(word, err)
		}

	case op.CodeJumpTrue, op.CodeJumpFalse:
		args, err := m.params(2)
		if err != nil {
			return m.fault(word, err)
		}
		if (args[0] != 0) == (code == op.CodeJumpTrue) {
			if args[1] < 0 {
				return m.fault(word, fmt.Errorf("%w %d: jump target", ErrNegativeAddress, args[1]))
			}
			m.IP = args[1]
			return nil // Manual override of the IP, don't advance it.
		}

	case op.CodeInput:
		dst, err := m.param(0, true)
		if err != nil {
			return m.fault(word, err)
		}
		m.State = StateAwaitingInput
		m.send(MsgAwait, "waiting for input")
		v, err := in.Next(ctx)
		if err != nil {
			return m.fault(word, fmt.Errorf("read input: %w", err))
		}
		m.State = StateRunning
		m.send(MsgInput, fmt.Sprintf("IN %d into @%d", v, dst))
		if err := m.Memory.Write(dst, v); err != nil {
			return m.fault(word, err)
		}

	case op.CodeOutput:
		args, err := m.params(1)
		if err != nil {
			return m.fault(word, err)
		}
		m.send(MsgOutput, fmt.Sprintf("OUT %d", args[0]))
		if err := out.Emit(args[0]); err != nil {
			if !errors.Is(err, ErrDisconnected) {
				return m.fault(word, fmt.Errorf("emit output: %w", err))
			}
			if !m.disconnected {
				m.disconnected = true
				m.send(MsgWarning, "output receiver disconnected")
				m.logger.Warn("output receiver disconnected while output is still available", zap.Int64("ip", m.IP))
			}
		}

	case op.CodeAdjustBase:
		args, err := m.params(1)
		if err != nil {
			return m.fault(word, err)
		}
		m.RelativeBase += args[0]

	case op.CodeHalt:
		m.State = StateHalted
		m.send(MsgHalt, fmt.Sprintf("halted after %d steps", m.Steps))
		m.logger.Debug("halt", zap.Int64("ip", m.IP), zap.Int("steps", m.Steps))
		return nil
	}

	m.IP += int64(ins.OpCode.Size())
	return nil
}

// Run executes instructions until the machine halts or faults.
func (m *Machine) Run(ctx context.Context, in Input, out Output) error {
	for i := 0; m.State != StateHalted; i++ {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return m.fault(m.Memory.Peek(m.IP), err)
			}
		}
		if err := m.Step(ctx, in, out); err != nil {
			return err
		}
	}
	return nil
}

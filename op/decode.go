package op

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownOpcode    = errors.New("unknown opcode")
	ErrUnknownParamMode = errors.New("unknown parameter mode")
)

// Instruction is a decoded instruction word.
type Instruction struct {
	OpCode OpCode
	Modes  [MaxParams]ParamMode
}

// Decode splits an instruction word into its opcode and parameter modes.
// Modes are the digits left of the opcode, least significant first.
// Missing digits are Position.
func Decode(word int64) (Instruction, error) {
	code := word % ModeBase
	oc, ok := OpCodeTable[code]
	if !ok {
		return Instruction{}, fmt.Errorf("%w %d (word %d)", ErrUnknownOpcode, code, word)
	}

	ins := Instruction{OpCode: oc}
	modes := word / ModeBase
	for i := range oc.Params {
		m := ParamMode(modes % 10)
		if !m.Valid() {
			return Instruction{}, fmt.Errorf("%w %d for parameter %d of %q (word %d)", ErrUnknownParamMode, m, i+1, oc.Name, word)
		}
		ins.Modes[i] = m
		modes /= 10
	}
	// NOTE: Digits past the last parameter are ignored.

	return ins, nil
}

// Encode is the reverse of Decode.
func (ins Instruction) Encode() int64 {
	word := int64(0)
	for i := ins.OpCode.Params - 1; i >= 0; i-- {
		word = word*10 + int64(ins.Modes[i])
	}
	return word*ModeBase + ins.OpCode.Code
}

// FormatParam renders a raw parameter value according to its mode.
func FormatParam(mode ParamMode, value int64) string {
	switch mode {
	case ModePosition:
		return fmt.Sprintf("@%d", value)
	case ModeImmediate:
		return fmt.Sprintf("#%d", value)
	case ModeRelative:
		if value < 0 {
			return fmt.Sprintf("rb%d", value)
		}
		return fmt.Sprintf("rb+%d", value)
	default:
		return fmt.Sprintf("?%d", value)
	}
}

func (ins Instruction) String() string {
	out := "<" + ins.OpCode.Name
	if ins.OpCode.Params == 0 {
		return out + ">"
	}
	modes := make([]string, 0, ins.OpCode.Params)
	for i := range ins.OpCode.Params {
		modes = append(modes, ins.Modes[i].String())
	}
	return out + " (" + strings.Join(modes, ", ") + ")>"
}

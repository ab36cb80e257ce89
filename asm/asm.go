// Package asm assembles Intcode source into program cells.
//
// The syntax is the one of the disassembler listings, so a listing
// assembles back to the original program:
//
//	; comment
//	0000  in    @count      address column, optional, checked
//	loop: add   @count, #-1, @count
//	      jnz   @count, #loop
//	      out   rb-1
//	      hlt
//	count: .data 0
//
// Parameters are @n (position), #n (immediate) or rb+n / rb-n
// (relative). Position and immediate values can be labels.
package asm

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSyntax             = errors.New("syntax error")
	ErrUnknownInstruction = errors.New("unknown instruction")
	ErrUnknownDirective   = errors.New("unknown directive")
	ErrDuplicateLabel     = errors.New("duplicate label")
	ErrUndefinedLabel     = errors.New("undefined label")
	ErrParamCount         = errors.New("wrong number of parameters")
	ErrInvalidWriteMode   = errors.New("immediate mode used as write target")
	ErrAddressMismatch    = errors.New("address mismatch")
	ErrEmptyProgram       = errors.New("empty program")
)

// Error locates an assembly error.
type Error struct {
	Name string // Name of the input, usually the file path.
	Line int
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("%s:%d: %s", e.Name, e.Line, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Assemble parses and encodes src. Windows line endings are accepted.
func Assemble(name, src string) ([]int64, error) {
	p := NewParser(name, strings.ReplaceAll(src, "\r\n", "\n"))
	if err := p.Parse(); err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}

	cells, err := NewProgram(p).Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode program: %w", err)
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyProgram)
	}
	return cells, nil
}

package asm

import (
	"fmt"
	"strings"

	"go.creack.net/intcode/op"
)

// Label names the address of the next cell.
type Label struct {
	Name string
	line int
}

func (l *Label) Line() int      { return l.line }
func (l *Label) String() string { return l.Name + string(labelChar) }

func (l *Label) Encode(p *Program) error {
	p.labels[l.Name] = p.idx()
	return nil
}

// Address asserts the current position, as printed by the disassembler.
type Address struct {
	Addr int64
	line int
}

func (a *Address) Line() int      { return a.line }
func (a *Address) String() string { return fmt.Sprintf("%04d", a.Addr) }

func (a *Address) Encode(p *Program) error {
	if a.Addr != p.idx() {
		return fmt.Errorf("%w: listed %d, assembled %d", ErrAddressMismatch, a.Addr, p.idx())
	}
	return nil
}

// Data is a run of raw cells.
type Data struct {
	Values []Parameter // Mode is ignored.
	line   int
}

func (d *Data) Line() int { return d.line }

func (d *Data) String() string {
	parts := make([]string, 0, len(d.Values))
	for _, elem := range d.Values {
		if elem.Label != "" {
			parts = append(parts, elem.Label)
			continue
		}
		parts = append(parts, fmt.Sprint(elem.Value))
	}
	return string(directiveChar) + "data " + strings.Join(parts, string(separatorChar)+" ")
}

func (d *Data) Encode(p *Program) error {
	for _, elem := range d.Values {
		v, err := p.value(elem)
		if err != nil {
			return err
		}
		p.cells = append(p.cells, v)
	}
	return nil
}

// Instruction is an opcode with its parameters.
type Instruction struct {
	OpCode op.OpCode
	Params []Parameter
	line   int
}

func (ins *Instruction) Line() int { return ins.line }

func (ins *Instruction) String() string {
	out := "<" + ins.OpCode.Name
	paramStrs := make([]string, 0, len(ins.Params))
	for _, param := range ins.Params {
		paramStrs = append(paramStrs, param.String())
	}
	if len(paramStrs) == 0 {
		return out + ">"
	}
	return out + " " + strings.Join(paramStrs, string(separatorChar)+" ") + ">"
}

func (ins *Instruction) ValidateParameters() error {
	if len(ins.Params) != ins.OpCode.Params {
		return fmt.Errorf("%w: expected %d, got %d", ErrParamCount, ins.OpCode.Params, len(ins.Params))
	}
	for i, param := range ins.Params {
		if ins.OpCode.Writes(i) && !param.Mode.Writable() {
			return fmt.Errorf("%w: parameter %d", ErrInvalidWriteMode, i+1)
		}
	}
	return nil
}

func (ins *Instruction) Encode(p *Program) error {
	word := op.Instruction{OpCode: ins.OpCode}
	for i, param := range ins.Params {
		word.Modes[i] = param.Mode
	}
	p.cells = append(p.cells, word.Encode())
	for _, param := range ins.Params {
		v, err := p.value(param)
		if err != nil {
			return err
		}
		p.cells = append(p.cells, v)
	}
	return nil
}

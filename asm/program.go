package asm

import "fmt"

// Program encodes the parsed nodes into memory cells.
type Program struct {
	p *Parser

	cells            []int64
	labels           map[string]int64
	hasLabelIndex    bool
	hasMissingLabels bool
}

func NewProgram(p *Parser) *Program {
	return &Program{
		p:      p,
		labels: nil, // Keeping as nil to indicate that we don't have any labels yet.
	}
}

// Size is the number of encoded cells.
func (p *Program) Size() int { return len(p.cells) }

func (p *Program) idx() int64 { return int64(len(p.cells)) }

// value resolves a parameter. Unknown labels are 0 on the first pass.
func (p *Program) value(param Parameter) (int64, error) {
	if param.Label == "" {
		return param.Value, nil
	}
	addr, ok := p.labels[param.Label]
	if ok {
		return addr, nil
	}
	if p.hasLabelIndex {
		return 0, fmt.Errorf("%w %q", ErrUndefinedLabel, param.Label)
	}
	p.hasMissingLabels = true
	return 0, nil
}

func (p *Program) encode() error {
	// If we have labels, it means we already encoded once and have the labels index.
	// Error out if we encounter a label that we don't know.
	p.hasLabelIndex = p.labels != nil
	if !p.hasLabelIndex {
		p.labels = map[string]int64{}
	}
	p.cells = p.cells[:0]
	for _, n := range p.p.Nodes {
		if err := n.Encode(p); err != nil {
			return &Error{Name: p.p.name, Line: n.Line(), Err: fmt.Errorf("failed to encode %s: %w", n, err)}
		}
	}
	return nil
}

// Encode returns the program cells, resolving forward label references
// with a second pass.
func (p *Program) Encode() ([]int64, error) {
	if err := p.encode(); err != nil {
		return nil, err
	}
	if !p.hasMissingLabels {
		return p.cells, nil
	}
	if err := p.encode(); err != nil {
		return nil, err
	}
	return p.cells, nil
}

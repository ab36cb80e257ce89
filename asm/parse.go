package asm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.creack.net/intcode/op"
)

// Node is a single statement of a source file.
type Node interface {
	Encode(p *Program) error
	Line() int
	String() string
}

// Parameter is an instruction operand. Label, when set, replaces Value
// once resolved.
type Parameter struct {
	Mode  op.ParamMode
	Value int64
	Label string
}

func (p Parameter) String() string {
	if p.Label == "" {
		return op.FormatParam(p.Mode, p.Value)
	}
	switch p.Mode {
	case op.ModePosition:
		return string(positionChar) + p.Label
	case op.ModeImmediate:
		return string(immediateChar) + p.Label
	default:
		return "rb+" + p.Label
	}
}

// Parser builds the node list of a source file.
type Parser struct {
	name      string
	lexer     *lexer
	currToken item
	peekToken item
	lineStart bool // No token consumed yet on the current line.

	Nodes  []Node
	labels map[string]int // Line of definition.
}

// NewParser creates a new parser.
func NewParser(name, input string) *Parser {
	p := &Parser{
		name:      name,
		lexer:     newLexer(input),
		lineStart: true,
		labels:    map[string]int{},
	}
	// Preload the next token.
	p.nextToken()
	return p
}

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.currToken = p.peekToken
	p.peekToken = p.lexer.nextItem()
}

func (p *Parser) errorf(it item, sentinel error, format string, args ...any) error {
	if it.typ == itemError {
		return &Error{Name: p.name, Line: it.line, Err: fmt.Errorf("%w: %s", ErrSyntax, it.val)}
	}
	return &Error{Name: p.name, Line: it.line, Err: fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)}
}

func (p *Parser) parseLabel() error {
	name := p.currToken.val
	if line, ok := p.labels[name]; ok {
		return p.errorf(p.currToken, ErrDuplicateLabel, "%q, first defined on line %d", name, line)
	}
	p.labels[name] = p.currToken.line
	p.Nodes = append(p.Nodes, &Label{Name: name, line: p.currToken.line})
	return nil
}

// parseAddress handles the optional address column of listings.
func (p *Parser) parseAddress() error {
	n, err := strconv.ParseInt(p.currToken.val, 10, 64)
	if err != nil {
		return p.errorf(p.currToken, ErrSyntax, "invalid address %q", p.currToken.val)
	}
	p.Nodes = append(p.Nodes, &Address{Addr: n, line: p.currToken.line})
	return nil
}

// parseValue reads a number or a label reference from the current token.
func (p *Parser) parseValue() (int64, string, error) {
	switch p.currToken.typ {
	case itemNumber:
		n, err := strconv.ParseInt(p.currToken.val, 10, 64)
		if err != nil {
			return 0, "", p.errorf(p.currToken, ErrSyntax, "invalid integer %q: %s", p.currToken.val, errors.Unwrap(err))
		}
		return n, "", nil
	case itemIdentifier:
		return 0, p.currToken.val, nil
	default:
		return 0, "", p.errorf(p.currToken, ErrSyntax, "expected number or label, got %s", p.currToken)
	}
}

func (p *Parser) parseParameter() (Parameter, error) {
	var param Parameter
	switch {
	case p.currToken.typ == itemPosition:
		param.Mode = op.ModePosition
	case p.currToken.typ == itemImmediate:
		param.Mode = op.ModeImmediate
	case p.currToken.typ == itemIdentifier && p.currToken.val == "rb":
		param.Mode = op.ModeRelative
		// Bare rb is rb+0.
		if p.peekToken.typ != itemNumber {
			return param, nil
		}
		if v := p.peekToken.val; !strings.HasPrefix(v, "+") && !strings.HasPrefix(v, "-") {
			return param, p.errorf(p.peekToken, ErrSyntax, "expected signed offset after rb, got %q", v)
		}
	default:
		return param, p.errorf(p.currToken, ErrSyntax, "expected parameter, got %s", p.currToken)
	}
	p.nextToken()
	v, label, err := p.parseValue()
	if err != nil {
		return param, err
	}
	if param.Mode == op.ModeRelative && label != "" {
		return param, p.errorf(p.currToken, ErrSyntax, "relative offset must be a number")
	}
	param.Value, param.Label = v, label
	return param, nil
}

func (p *Parser) parseInstruction() error {
	oc, ok := op.Lookup(p.currToken.val)
	if !ok {
		return p.errorf(p.currToken, ErrUnknownInstruction, "%q", p.currToken.val)
	}
	ins := &Instruction{OpCode: oc, line: p.currToken.line}

	p.nextToken()
	for !p.currToken.typ.isEOL() {
		if len(ins.Params) > 0 {
			if p.currToken.typ != itemComa {
				return p.errorf(p.currToken, ErrSyntax, "expected comma, got %s", p.currToken)
			}
			p.nextToken()
		}
		param, err := p.parseParameter()
		if err != nil {
			return err
		}
		ins.Params = append(ins.Params, param)
		p.nextToken()
	}

	if err := ins.ValidateParameters(); err != nil {
		return &Error{Name: p.name, Line: ins.line, Err: fmt.Errorf("invalid instruction %s: %w", ins, err)}
	}
	p.Nodes = append(p.Nodes, ins)
	return nil
}

func (p *Parser) parseDirective() error {
	name := strings.TrimPrefix(p.currToken.val, string(directiveChar))
	if name != "data" {
		return p.errorf(p.currToken, ErrUnknownDirective, "%q", p.currToken.val)
	}
	d := &Data{line: p.currToken.line}

	p.nextToken()
	for !p.currToken.typ.isEOL() {
		if len(d.Values) > 0 {
			if p.currToken.typ != itemComa {
				return p.errorf(p.currToken, ErrSyntax, "expected comma, got %s", p.currToken)
			}
			p.nextToken()
		}
		v, label, err := p.parseValue()
		if err != nil {
			return err
		}
		d.Values = append(d.Values, Parameter{Value: v, Label: label})
		p.nextToken()
	}
	if len(d.Values) == 0 {
		return p.errorf(p.currToken, ErrSyntax, "missing .data value")
	}
	p.Nodes = append(p.Nodes, d)
	return nil
}

// Parse reads the whole input.
func (p *Parser) Parse() error {
	for {
		p.nextToken()
		it := p.currToken

		var err error
		switch it.typ {
		case itemEOF:
			return nil
		case itemNewline:
			p.lineStart = true
			continue
		case itemNumber:
			if !p.lineStart {
				return p.errorf(it, ErrSyntax, "unexpected number %q", it.val)
			}
			err = p.parseAddress()
		case itemLabel:
			err = p.parseLabel()
		case itemIdentifier:
			err = p.parseInstruction()
		case itemDirective:
			err = p.parseDirective()
		default:
			return p.errorf(it, ErrSyntax, "unexpected %s", it)
		}
		if err != nil {
			return err
		}
		p.lineStart = false
		// Instructions and directives stop on the end of line.
		if p.currToken.typ == itemNewline {
			p.lineStart = true
		}
	}
}

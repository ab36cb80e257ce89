// Package program reads and writes Intcode program images:
// comma separated signed decimal integers.
package program

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var ErrParse = errors.New("parse error")

// ParseError locates an invalid token in a program image.
type ParseError struct {
	Name   string // Name of the input, usually the file path.
	Line   int
	Column int
	Token  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.Name, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("%s:%d:%d: %q: %s", e.Name, e.Line, e.Column, e.Token, e.Err)
}

func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Err} }

// Parse decodes a program image. Windows line endings are accepted.
func Parse(name, input string) ([]int64, error) {
	l := newLexer(strings.ReplaceAll(input, "\r\n", "\n"))

	fail := func(it item, format string, args ...any) error {
		return &ParseError{
			Name:   name,
			Line:   it.line,
			Column: it.col,
			Token:  strings.TrimSpace(it.val),
			Err:    fmt.Errorf(format, args...),
		}
	}

	var cells []int64
	for {
		it := l.nextItem()
		switch it.typ {
		case itemError:
			return nil, &ParseError{Name: name, Line: it.line, Column: it.col, Err: errors.New(it.val)}
		case itemEOF:
			if len(cells) == 0 {
				return nil, fail(it, "empty program")
			}
			return nil, fail(it, "unexpected end of input after separator")
		case itemNumber:
		default:
			return nil, fail(it, "expected number, got %s", it.typ)
		}

		n, err := strconv.ParseInt(it.val, 10, 64)
		if err != nil {
			return nil, fail(it, "invalid integer: %w", errors.Unwrap(err))
		}
		cells = append(cells, n)

		switch sep := l.nextItem(); sep.typ {
		case itemComa:
		case itemEOF:
			return cells, nil
		case itemError:
			return nil, &ParseError{Name: name, Line: sep.line, Column: sep.col, Err: errors.New(sep.val)}
		default:
			return nil, fail(sep, "expected separator, got %s", sep.typ)
		}
	}
}

// Load reads and parses the program image at path.
func Load(path string) ([]int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}
	cells, err := Parse(path, string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse program: %w", err)
	}
	return cells, nil
}

// Format renders cells back to the image format.
func Format(cells []int64) string {
	parts := make([]string, 0, len(cells))
	for _, elem := range cells {
		parts = append(parts, strconv.FormatInt(elem, 10))
	}
	return strings.Join(parts, string(separatorChar))
}

package asm

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type stateFn func(*lexer) stateFn

const eof = -1

const (
	labelChar     = ':'
	separatorChar = ','
	directiveChar = '.'
	positionChar  = '@'
	immediateChar = '#'
	commentChar   = ';'

	digitChars = "0123456789"
	identChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_" + digitChars
)

type itemType int

const (
	itemError itemType = iota // Error occurred; value is text of error.
	itemNewline
	itemIdentifier
	itemNumber // Signed decimal literal, not yet range checked.
	itemLabel  // Label definition, value without the trailing colon.
	itemComa
	itemPosition
	itemImmediate
	itemDirective
	itemEOF
)

func (it itemType) String() string {
	switch it {
	case itemError:
		return "<error>"
	case itemNewline:
		return "<newline>"
	case itemIdentifier:
		return "<identifier>"
	case itemNumber:
		return "<number>"
	case itemLabel:
		return "<label>"
	case itemComa:
		return "<coma>"
	case itemPosition:
		return "<position>"
	case itemImmediate:
		return "<immediate>"
	case itemDirective:
		return "<directive>"
	case itemEOF:
		return "<eof>"
	default:
		return fmt.Sprintf("<unknown token %d>", it)
	}
}

func (it itemType) isEOL() bool {
	return it == itemNewline || it == itemEOF
}

type item struct {
	typ  itemType // The type of this item.
	pos  int      // The start position, in bytes, of this item in the input string.
	val  string   // The value of this item.
	line int      // The line number at the start of this item.
}

func (i item) String() string {
	switch {
	case i.typ == itemEOF:
		return "EOF"
	case i.typ == itemError:
		return i.val
	case i.typ == itemNewline:
		return "'\\n'"
	case len(i.val) > 10:
		return fmt.Sprintf("%s %.10q...", i.typ, i.val)
	}
	return fmt.Sprintf("%s %q", i.typ, i.val)
}

// lexer holds the state of the scanner.
type lexer struct {
	input     string // The string being scanned.
	pos       int    // Current position in the input.
	start     int    // Start position of this item.
	atEOF     bool   // We have hit the end of input and returned eof.
	line      int    // 1+number of newlines seen.
	startLine int    // Start line of this item.
	item      item   // Item to return to parser.
}

// errorf returns an error token and terminates the scan by passing
// back a nil pointer that will be the next state, terminating l.nextItem.
func (l *lexer) errorf(format string, args ...any) stateFn {
	l.item = item{itemError, l.start, fmt.Sprintf(format, args...), l.startLine}
	l.start = 0
	l.pos = 0
	l.input = l.input[:0]
	return nil
}

// next returns the next rune in the input.
func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.atEOF = true
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += w
	if r == '\n' {
		l.line++
	}
	return r
}

// peek returns but does not consume the next rune in the input.
func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// backup steps back one rune.
func (l *lexer) backup() {
	if !l.atEOF && l.pos > 0 {
		r, w := utf8.DecodeLastRuneInString(l.input[:l.pos])
		l.pos -= w
		// Correct newline count.
		if r == '\n' {
			l.line--
		}
	}
}

// thisItem returns the item at the current input point with the specified type
// and advances the input.
func (l *lexer) thisItem(t itemType) item {
	i := item{t, l.start, l.input[l.start:l.pos], l.startLine}
	l.ignore()
	return i
}

// emit passes the trailing text as an item back to the parser.
func (l *lexer) emit(t itemType) stateFn {
	l.item = l.thisItem(t)
	return nil
}

// ignore skips over the pending input before this point.
func (l *lexer) ignore() {
	l.start = l.pos
	l.startLine = l.line
}

// accept consumes the next rune if it's from the valid set.
func (l *lexer) accept(valid string) bool {
	if strings.ContainsRune(valid, l.next()) {
		return true
	}
	l.backup()
	return false
}

// acceptRun consumes a run of runes from the valid set.
func (l *lexer) acceptRun(valid string) bool {
	accepted := false
	for strings.ContainsRune(valid, l.next()) {
		accepted = true
	}
	l.backup()
	return accepted
}

func lexText(l *lexer) stateFn {
	l.acceptRun(" \t") // Consume leading whitespace.
	l.ignore()
	if l.atEOF {
		return l.emit(itemEOF)
	}
	switch r := l.peek(); {
	case r == '\n':
		l.acceptRun(" \t\n")
		return l.emit(itemNewline)
	case r == commentChar:
		return lexComment
	case r == separatorChar:
		l.next()
		return l.emit(itemComa)
	case r == positionChar:
		l.next()
		return l.emit(itemPosition)
	case r == immediateChar:
		l.next()
		return l.emit(itemImmediate)
	case r == directiveChar:
		return lexDirective
	case r == '-' || r == '+' || ('0' <= r && r <= '9'):
		return lexNumber
	case strings.ContainsRune(identChars, r):
		return lexIdentifier
	default:
		return l.errorf("unexpected character %q", r)
	}
}

// lexComment skips up to the end of the line, the newline is kept.
func lexComment(l *lexer) stateFn {
	for {
		r := l.next()
		if r == eof {
			break
		}
		if r == '\n' {
			l.backup()
			break
		}
	}
	l.ignore()
	return lexText
}

func lexNumber(l *lexer) stateFn {
	// Optional leading sign.
	l.accept("+-")
	if !l.acceptRun(digitChars) {
		return l.errorf("malformed number %q", l.input[l.start:l.pos])
	}
	if r := l.peek(); r != eof && strings.ContainsRune(identChars, r) {
		l.next()
		return l.errorf("malformed number %q", l.input[l.start:l.pos])
	}
	return l.emit(itemNumber)
}

func lexIdentifier(l *lexer) stateFn {
	l.acceptRun(identChars)
	// If the identifier is directly followed by a label char,
	// it is a label.
	if l.peek() == labelChar {
		l.emit(itemLabel)
		l.next()
		l.ignore()
		return nil
	}
	return l.emit(itemIdentifier)
}

func lexDirective(l *lexer) stateFn {
	l.next()
	if !l.acceptRun(identChars) {
		return l.errorf("missing directive name")
	}
	return l.emit(itemDirective)
}

// nextItem returns the next item from the input.
func (l *lexer) nextItem() item {
	l.item = item{itemEOF, l.pos, "EOF", l.startLine}
	state := lexText
	for {
		state = state(l)
		if state == nil {
			return l.item
		}
	}
}

func newLexer(input string) *lexer {
	return &lexer{
		input:     input,
		line:      1,
		startLine: 1,
	}
}

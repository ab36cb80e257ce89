package program

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type stateFn func(*lexer) stateFn

const eof = -1

const (
	separatorChar = ','
	spaceChars    = " \t\n"
	digitChars    = "0123456789"
)

type itemType int

const (
	itemError  itemType = iota // Error occurred; value is text of error.
	itemNumber                 // Signed decimal literal, not yet range checked.
	itemComa
	itemEOF
)

func (it itemType) String() string {
	switch it {
	case itemError:
		return "<error>"
	case itemNumber:
		return "<number>"
	case itemComa:
		return "<coma>"
	case itemEOF:
		return "<eof>"
	default:
		return fmt.Sprintf("<unknown token %d>", it)
	}
}

type item struct {
	typ  itemType // The type of this item.
	pos  int      // The start position, in bytes, of this item in the input string.
	val  string   // The value of this item.
	line int      // The line number at the start of this item.
	col  int      // The column, in runes, at the start of this item.
}

func (i item) String() string {
	switch {
	case i.typ == itemEOF:
		return "EOF"
	case i.typ == itemError:
		return i.val
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
	lineStart int    // Position of the first byte of the current line.
	startLine int    // Start line of this item.
	startCol  int    // Start column of this item.
	item      item   // Item to return to parser.
}

// errorf returns an error token and terminates the scan by passing
// back a nil pointer that will be the next state, terminating l.nextItem.
func (l *lexer) errorf(format string, args ...any) stateFn {
	l.item = item{itemError, l.start, fmt.Sprintf(format, args...), l.startLine, l.startCol}
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
		l.lineStart = l.pos
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
			l.lineStart = strings.LastIndexByte(l.input[:l.pos], '\n') + 1
		}
	}
}

// column of the current position, 1 based, in runes.
func (l *lexer) column() int {
	return utf8.RuneCountInString(l.input[l.lineStart:l.pos]) + 1
}

// thisItem returns the item at the current input point with the specified type
// and advances the input.
func (l *lexer) thisItem(t itemType) item {
	i := item{t, l.start, l.input[l.start:l.pos], l.startLine, l.startCol}
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
	l.startCol = l.column()
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
	l.acceptRun(spaceChars) // Consume leading whitespace.
	l.ignore()
	if l.atEOF || l.pos >= len(l.input) {
		return l.emit(itemEOF)
	}
	switch r := l.peek(); {
	case r == separatorChar:
		l.next()
		return l.emit(itemComa)
	case r == '-' || r == '+' || ('0' <= r && r <= '9'):
		return lexNumber
	default:
		return l.errorf("unexpected character %q", r)
	}
}

func lexNumber(l *lexer) stateFn {
	// Optional leading sign.
	l.accept("+-")
	if !l.acceptRun(digitChars) {
		return l.errorf("malformed number %q", l.input[l.start:l.pos])
	}
	// A number must be followed by a separator, whitespace or the end.
	if r := l.peek(); r != eof && r != separatorChar && !strings.ContainsRune(spaceChars, r) {
		l.next()
		return l.errorf("malformed number %q", l.input[l.start:l.pos])
	}
	return l.emit(itemNumber)
}

// nextItem returns the next item from the input.
func (l *lexer) nextItem() item {
	l.item = item{itemEOF, l.pos, "EOF", l.startLine, l.startCol}
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
		startCol:  1,
	}
}

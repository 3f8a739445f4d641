package strip

import (
	"bytes"

	"github.com/715d/codecleaner/pkg/jslex"
)

// lineWriter rebuilds source text while spans are being dropped from it.
// Lines that hold nothing but whitespace because of a removal disappear
// entirely; lines without removals are copied byte for byte.
type lineWriter struct {
	buf       []byte
	lineStart int
	// touched is set once something was removed from the current line.
	touched bool
	// skipSpace drops horizontal whitespace up to the next other byte.
	skipSpace bool
}

func newLineWriter(sizeHint int) *lineWriter {
	return &lineWriter{buf: make([]byte, 0, sizeHint)}
}

func (w *lineWriter) write(p []byte) {
	for _, c := range p {
		if w.skipSpace {
			if c == ' ' || c == '\t' {
				continue
			}
			w.skipSpace = false
		}
		if c == '\n' {
			w.endLine()
			continue
		}
		w.buf = append(w.buf, c)
	}
}

// token appends the text of t. Whitespace and JSX text go through the
// line logic; every other token is copied verbatim, since the bytes of a
// literal spanning lines are part of its value.
func (w *lineWriter) token(src []byte, t jslex.Token) {
	text := src[t.Start:t.End]
	switch t.Kind {
	case jslex.Whitespace, jslex.JSXText:
		w.write(text)
	default:
		w.copy(text)
	}
}

// copy appends p unchanged. A line terminator inside p starts a new line
// that nothing before it can be trimmed into.
func (w *lineWriter) copy(p []byte) {
	if len(p) == 0 {
		return
	}
	w.skipSpace = false
	w.buf = append(w.buf, p...)
	if i := bytes.LastIndexByte(p, '\n'); i >= 0 {
		w.lineStart = len(w.buf) - len(p) + i + 1
		w.touched = false
	}
}

// remove records that a span was dropped at the current position. rest is
// the source following the span; newline reports whether the span contained
// a line terminator, which must survive when code sits on both sides of it.
func (w *lineWriter) remove(rest []byte, newline bool) {
	w.touched = true
	if w.lineBlank() {
		// Whatever follows keeps the indentation the span had.
		w.skipSpace = true
		return
	}

	trimmed := bytes.TrimLeft(rest, " \t")
	codeFollows := len(trimmed) > 0 && trimmed[0] != '\n' && trimmed[0] != '\r'
	switch {
	case !codeFollows:
		w.trimTrailingSpace()
	case newline:
		w.endLine()
		w.touched = true
	case len(trimmed) != len(rest):
		w.trimTrailingSpace()
	default:
		if last := w.buf[len(w.buf)-1]; fuses(last, rest[0]) {
			w.buf = append(w.buf, ' ')
		}
	}
}

func (w *lineWriter) endLine() {
	if w.touched {
		w.trimTrailingSpace()
		if w.lineBlank() {
			w.buf = w.buf[:w.lineStart]
			w.touched = false
			return
		}
	}
	w.buf = append(w.buf, '\n')
	w.lineStart = len(w.buf)
	w.touched = false
}

// bytes finishes the last line and returns the result.
func (w *lineWriter) bytes() []byte {
	if w.touched {
		w.trimTrailingSpace()
		if w.lineBlank() {
			w.buf = w.buf[:w.lineStart]
		}
	}
	return w.buf
}

func (w *lineWriter) lineBlank() bool {
	for _, c := range w.buf[w.lineStart:] {
		if c != ' ' && c != '\t' && c != '\r' {
			return false
		}
	}
	return true
}

// trimTrailingSpace removes spaces and tabs at the end of the current line,
// keeping a trailing carriage return in place.
func (w *lineWriter) trimTrailingSpace() {
	n := len(w.buf)
	cr := n > w.lineStart && w.buf[n-1] == '\r'
	if cr {
		n--
	}
	end := n
	for end > w.lineStart && (w.buf[end-1] == ' ' || w.buf[end-1] == '\t') {
		end--
	}
	if end == n {
		return
	}
	w.buf = w.buf[:end]
	if cr {
		w.buf = append(w.buf, '\r')
	}
}

// fuses reports whether a and b would lex as a single token if adjacent.
func fuses(a, b byte) bool {
	const operators = "+-*/%<>=!&|^?.:"
	if isWordByte(a) && isWordByte(b) {
		return true
	}
	return bytes.IndexByte([]byte(operators), a) >= 0 && bytes.IndexByte([]byte(operators), b) >= 0
}

func isWordByte(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' ||
		c == '_' || c == '$' || c == '#' || c == '\\' || c >= 0x80
}

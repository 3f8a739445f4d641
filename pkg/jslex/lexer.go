package jslex

import (
	"bytes"
	"fmt"
	"slices"
)

// SyntaxError reports input the tokenizer cannot classify with certainty.
type SyntaxError struct {
	Offset int
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

// regexKeywords are the keywords after which a slash starts a regular
// expression rather than a division.
var regexKeywords = map[string]bool{
	"return":     true,
	"typeof":     true,
	"instanceof": true,
	"in":         true,
	"of":         true,
	"new":        true,
	"delete":     true,
	"void":       true,
	"throw":      true,
	"case":       true,
	"do":         true,
	"else":       true,
	"yield":      true,
	"await":      true,
	"extends":    true,
}

// controlKeywords open a parenthesized statement header.
var controlKeywords = map[string]bool{
	"if":    true,
	"for":   true,
	"while": true,
	"with":  true,
}

// punctuators lists multi-byte operators, longest first.
var punctuators = []string{
	">>>=",
	"...", "===", "!==", "**=", "<<=", ">>=", ">>>", "&&=", "||=", "??=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<", ">>", "**",
}

var bom = []byte{0xEF, 0xBB, 0xBF}

type lexer struct {
	src  []byte
	pos  int
	opts Options
	toks []Token

	// parens records, per open "(", whether it opens a control header.
	parens []bool
	// last is the index of the previous significant token, or -1.
	last int
}

// Tokenize splits src into tokens. On error the partial token list is
// discarded; the error is a *SyntaxError.
func Tokenize(src []byte, opts Options) ([]Token, error) {
	lx := &lexer{
		src:  src,
		opts: opts,
		toks: make([]Token, 0, len(src)/4),
		last: -1,
	}

	if bytes.HasPrefix(src, bom) {
		lx.pos = len(bom)
		lx.emit(Whitespace, 0)
	}
	if bytes.HasPrefix(src[lx.pos:], []byte("#!")) {
		start := lx.pos
		for lx.pos < len(src) && src[lx.pos] != '\n' && src[lx.pos] != '\r' {
			lx.pos++
		}
		lx.emit(Hashbang, start)
	}

	if err := lx.scanCode(false); err != nil {
		return nil, err
	}
	return lx.toks, nil
}

// scanCode lexes ordinary code. With inBrace set it stops, without consuming,
// at the "}" that closes the enclosing substitution or JSX container.
func (lx *lexer) scanCode(inBrace bool) error {
	depth := 0
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		var err error
		switch {
		case isSpace(c):
			lx.scanSpace()
		case c == '/' && lx.peek(1) == '/':
			lx.scanLineComment()
		case c == '/' && lx.peek(1) == '*':
			err = lx.scanBlockComment()
		case c == '/' && lx.regexAllowed():
			err = lx.scanRegex()
		case c == '\'' || c == '"':
			err = lx.scanString()
		case c == '`':
			err = lx.scanTemplate()
		case isDigit(c) || (c == '.' && isDigit(lx.peek(1))):
			lx.scanNumber()
		case isIdentStart(c) || (c == '#' && isIdentStart(lx.peek(1))):
			lx.scanIdent()
		case c == '<' && lx.opts.JSX && lx.jsxStartsHere():
			lx.scanJSXOrPunct()
		case c == '{':
			depth++
			lx.pos++
			lx.emit(Punct, lx.pos-1)
		case c == '}':
			if depth == 0 {
				if inBrace {
					return nil
				}
				return lx.errorf(lx.pos, "unbalanced '}'")
			}
			depth--
			lx.pos++
			lx.emit(Punct, lx.pos-1)
		default:
			lx.scanPunct()
		}
		if err != nil {
			return err
		}
	}
	if inBrace {
		return lx.errorf(lx.pos, "unterminated substitution")
	}
	return nil
}

func (lx *lexer) peek(n int) byte {
	if lx.pos+n < len(lx.src) {
		return lx.src[lx.pos+n]
	}
	return 0
}

// emit appends a token spanning [start, lx.pos).
func (lx *lexer) emit(kind Kind, start int) {
	lx.toks = append(lx.toks, Token{Kind: kind, Start: start, End: lx.pos})
	if !kind.IsTrivia() {
		lx.last = len(lx.toks) - 1
	}
}

func (lx *lexer) errorf(offset int, format string, args ...any) error {
	line, col := 1, 1
	for _, c := range lx.src[:min(offset, len(lx.src))] {
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return &SyntaxError{Offset: offset, Line: line, Column: col, Msg: fmt.Sprintf(format, args...)}
}

func (lx *lexer) lastText() string {
	if lx.last < 0 {
		return ""
	}
	return lx.toks[lx.last].Text(lx.src)
}

// afterDot reports whether the significant token before toks[i] is a member access.
func (lx *lexer) afterDot(i int) bool {
	for j := i - 1; j >= 0; j-- {
		if lx.toks[j].Kind.IsTrivia() {
			continue
		}
		t := lx.toks[j].Text(lx.src)
		return lx.toks[j].Kind == Punct && (t == "." || t == "?.")
	}
	return false
}

// regexAllowed decides, from the previous significant token, whether a slash
// at the current position begins a regular expression.
func (lx *lexer) regexAllowed() bool {
	if lx.last < 0 {
		return true
	}
	t := lx.toks[lx.last]
	text := lx.lastText()
	switch t.Kind {
	case Hashbang:
		return true
	case Number, String, Regex:
		return false
	case Template:
		return text[len(text)-1] == '{'
	case JSXMarkup:
		return text[len(text)-1] == '{'
	case Ident:
		if lx.afterDot(lx.last) {
			return false
		}
		return regexKeywords[text]
	case Punct:
		switch text {
		case ")":
			return t.CloseControl
		case "]", "++", "--":
			return false
		}
		return true
	}
	return true
}

func (lx *lexer) scanSpace() {
	start := lx.pos
	for lx.pos < len(lx.src) && isSpace(lx.src[lx.pos]) {
		lx.pos++
	}
	lx.emit(Whitespace, start)
}

func (lx *lexer) scanLineComment() {
	start := lx.pos
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' && lx.src[lx.pos] != '\r' {
		lx.pos++
	}
	lx.emit(LineComment, start)
}

func (lx *lexer) scanBlockComment() error {
	start := lx.pos
	end := bytes.Index(lx.src[start+2:], []byte("*/"))
	if end < 0 {
		return lx.errorf(start, "unterminated block comment")
	}
	lx.pos = start + 2 + end + 2
	lx.emit(BlockComment, start)
	return nil
}

func (lx *lexer) scanNumber() {
	start := lx.pos
	if lx.src[lx.pos] == '0' && bytes.IndexByte([]byte("xXoObB"), lx.peek(1)) >= 0 {
		lx.pos += 2
		for lx.pos < len(lx.src) && isIdentPart(lx.src[lx.pos]) {
			lx.pos++
		}
		lx.emit(Number, start)
		return
	}
	lx.skipDigits()
	if lx.pos < len(lx.src) && lx.src[lx.pos] == '.' {
		lx.pos++
		lx.skipDigits()
	}
	if c := lx.peek(0); c == 'e' || c == 'E' {
		next := lx.peek(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(lx.peek(2))) {
			lx.pos += 2
			lx.skipDigits()
		}
	}
	// BigInt suffix and malformed tails stay part of the literal.
	for lx.pos < len(lx.src) && isIdentPart(lx.src[lx.pos]) {
		lx.pos++
	}
	lx.emit(Number, start)
}

func (lx *lexer) skipDigits() {
	for lx.pos < len(lx.src) && (isDigit(lx.src[lx.pos]) || lx.src[lx.pos] == '_') {
		lx.pos++
	}
}

func (lx *lexer) scanIdent() {
	start := lx.pos
	if lx.src[lx.pos] == '#' {
		lx.pos++
	}
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if c == '\\' {
			// \uXXXX and \u{...} escapes.
			lx.pos += 2
			continue
		}
		if !isIdentPart(c) {
			break
		}
		lx.pos++
	}
	lx.pos = min(lx.pos, len(lx.src))
	lx.emit(Ident, start)
}

func (lx *lexer) scanPunct() {
	start := lx.pos
	n := 1
	for _, p := range punctuators {
		if bytes.HasPrefix(lx.src[lx.pos:], []byte(p)) {
			// "?." followed by a digit is a conditional and a decimal: a?.5:1
			if p == "?." && isDigit(lx.peek(2)) {
				continue
			}
			n = len(p)
			break
		}
	}
	lx.pos += n

	var closeControl bool
	switch lx.src[start] {
	case '(':
		lx.parens = append(lx.parens, lx.opensControlHeader())
	case ')':
		if k := len(lx.parens); k > 0 {
			closeControl = lx.parens[k-1]
			lx.parens = lx.parens[:k-1]
		}
	}
	lx.emit(Punct, start)
	lx.toks[len(lx.toks)-1].CloseControl = closeControl
}

// opensControlHeader reports whether a "(" at the current position follows
// if, for, while, with or "for await".
func (lx *lexer) opensControlHeader() bool {
	if lx.last < 0 || lx.toks[lx.last].Kind != Ident || lx.afterDot(lx.last) {
		return false
	}
	text := lx.lastText()
	if controlKeywords[text] {
		return true
	}
	if text != "await" {
		return false
	}
	for j := lx.last - 1; j >= 0; j-- {
		if !lx.toks[j].Kind.IsTrivia() {
			return lx.toks[j].Kind == Ident && lx.toks[j].Text(lx.src) == "for"
		}
	}
	return false
}

// snapshot captures lexer state for backtracking.
type snapshot struct {
	pos    int
	ntoks  int
	last   int
	parens []bool
}

func (lx *lexer) save() snapshot {
	return snapshot{pos: lx.pos, ntoks: len(lx.toks), last: lx.last, parens: slices.Clone(lx.parens)}
}

func (lx *lexer) restore(s snapshot) {
	lx.pos = s.pos
	lx.toks = lx.toks[:s.ntoks]
	lx.last = s.last
	lx.parens = s.parens
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isIdentStart(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_' || c == '$' || c == '\\' || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

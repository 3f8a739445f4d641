package strip

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/715d/codecleaner/pkg/jslex"
)

// nonTerminal lists keywords that cannot end an expression, so a line break
// after them never terminates a statement.
var nonTerminal = map[string]bool{
	"in":         true,
	"instanceof": true,
	"typeof":     true,
	"new":        true,
	"delete":     true,
	"void":       true,
	"await":      true,
	"yield":      true,
	"throw":      true,
	"case":       true,
	"default":    true,
	"extends":    true,
	"of":         true,
	"else":       true,
	"do":         true,
	"var":        true,
	"let":        true,
	"const":      true,
	"export":     true,
	"import":     true,
	"async":      true,
	"function":   true,
	"class":      true,
	"static":     true,
}

// cut is a statement to remove, as an inclusive range of token indices.
type cut struct {
	from, to int
	// lastSig is the significant-token index of the statement's last token.
	lastSig int
	// repl is written in place of the statement.
	repl string
}

// LogCalls removes statements that consist of nothing but a call to one of
// callees, each a dotted path such as "console.log". Calls used as values
// (x = console.log(), a && console.log(), () => console.log(), ${console.log()})
// or followed by more expression (console.log().then()) are left alone, as
// are callees matched only as part of a longer name (myconsole.log).
//
// When the call is the whole body of an if, else, for, while or do statement
// it is replaced by an empty statement so the body stays syntactically present.
func LogCalls(src []byte, opts jslex.Options, callees []string) ([]byte, error) {
	toks, err := jslex.Tokenize(src, opts)
	if err != nil {
		return src, fmt.Errorf("tokenize: %w", err)
	}

	paths := make([][]string, 0, len(callees))
	for _, c := range callees {
		paths = append(paths, strings.Split(c, "."))
	}

	s := newStmtScanner(src, toks)
	var cuts []cut
	for si := 0; si < len(s.sig); si++ {
		c, ok := s.matchStatement(si, paths)
		if !ok {
			continue
		}
		cuts = append(cuts, c)
		si = c.lastSig
	}
	if len(cuts) == 0 {
		return src, nil
	}

	w := newLineWriter(len(src))
	next := 0
	for _, c := range cuts {
		for ; next < c.from; next++ {
			w.token(src, toks[next])
		}
		w.remove(src[toks[c.to].End:], false)
		if c.repl != "" {
			w.write([]byte(c.repl))
		}
		next = c.to + 1
	}
	for ; next < len(toks); next++ {
		w.token(src, toks[next])
	}
	return w.bytes(), nil
}

// stmtScanner answers questions about the significant tokens of a file.
type stmtScanner struct {
	src  []byte
	toks []jslex.Token
	// sig holds the indices of all non-trivia tokens.
	sig []int
}

func newStmtScanner(src []byte, toks []jslex.Token) *stmtScanner {
	s := &stmtScanner{src: src, toks: toks, sig: make([]int, 0, len(toks)/2)}
	for i, t := range toks {
		if !t.Kind.IsTrivia() {
			s.sig = append(s.sig, i)
		}
	}
	return s
}

func (s *stmtScanner) tok(k int) jslex.Token {
	return s.toks[s.sig[k]]
}

func (s *stmtScanner) text(k int) string {
	return s.tok(k).Text(s.src)
}

func (s *stmtScanner) is(k int, kind jslex.Kind, text string) bool {
	return k >= 0 && k < len(s.sig) && s.tok(k).Kind == kind && s.text(k) == text
}

func (s *stmtScanner) afterDot(k int) bool {
	return s.is(k-1, jslex.Punct, ".") || s.is(k-1, jslex.Punct, "?.")
}

func (s *stmtScanner) newlineBetween(a, b int) bool {
	return bytes.ContainsAny(s.src[s.tok(a).End:s.tok(b).Start], "\n\r")
}

// matchStatement reports whether a removable call statement starts at si.
func (s *stmtScanner) matchStatement(si int, paths [][]string) (cut, bool) {
	open, ok := s.matchCallee(si, paths)
	if !ok {
		return cut{}, false
	}
	repl, ok := s.statementStart(si)
	if !ok {
		return cut{}, false
	}
	closing, ok := s.matchParen(open)
	if !ok {
		return cut{}, false
	}
	last, ok := s.statementEnd(closing)
	if !ok {
		return cut{}, false
	}
	// Without the statement, an expression ending before it would run on into
	// a following line that starts with ( [ ` + - or /.
	if repl == "" && si > 0 && last+1 < len(s.sig) && s.mayEndExpression(si-1) && s.continues(last+1) {
		repl = ";"
	}
	return cut{from: s.sig[si], to: s.sig[last], lastSig: last, repl: repl}, true
}

// matchCallee returns the index of the "(" following a callee path at si.
func (s *stmtScanner) matchCallee(si int, paths [][]string) (int, bool) {
	for _, path := range paths {
		k := si
		matched := true
		for i, part := range path {
			if i > 0 {
				if !s.is(k, jslex.Punct, ".") {
					matched = false
					break
				}
				k++
			}
			if !s.is(k, jslex.Ident, part) {
				matched = false
				break
			}
			k++
		}
		if matched && s.is(k, jslex.Punct, "(") {
			return k, true
		}
	}
	return 0, false
}

// matchParen returns the index of the ")" balancing the "(" at open.
func (s *stmtScanner) matchParen(open int) (int, bool) {
	depth := 0
	for k := open; k < len(s.sig); k++ {
		if s.tok(k).Kind != jslex.Punct {
			continue
		}
		switch s.text(k) {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 {
				return k, true
			}
		}
	}
	return 0, false
}

// statementStart reports whether si begins a statement, and what must replace
// the statement if it is removed.
func (s *stmtScanner) statementStart(si int) (string, bool) {
	if si == 0 {
		return "", true
	}
	prev := si - 1
	t := s.tok(prev)
	text := s.text(prev)
	switch t.Kind {
	case jslex.Hashbang:
		return "", true
	case jslex.Punct:
		switch text {
		case ";", "{", "}":
			return "", true
		case ":":
			return "", s.isCaseColon(prev)
		case ")":
			if t.CloseControl {
				return ";", true
			}
		}
	case jslex.Ident:
		if (text == "else" || text == "do") && !s.afterDot(prev) {
			return ";", true
		}
	}
	if s.newlineBetween(prev, si) && s.endsExpression(prev) {
		return "", true
	}
	return "", false
}

// isCaseColon reports whether the ":" at k ends a case or default label.
func (s *stmtScanner) isCaseColon(k int) bool {
	depth := 0
	for j := k - 1; j >= 0; j-- {
		t := s.tok(j)
		text := s.text(j)
		switch {
		case t.Kind == jslex.Punct && (text == ")" || text == "]" || text == "}"):
			depth++
		case t.Kind == jslex.Punct && (text == "(" || text == "[" || text == "{"):
			depth--
			if depth < 0 {
				return false
			}
		case depth > 0:
		case t.Kind == jslex.Punct && (text == "?" || text == ";" || text == ":"):
			return false
		case t.Kind == jslex.Ident && (text == "case" || text == "default") && !s.afterDot(j):
			return true
		}
	}
	return false
}

// mayEndExpression reports whether the token at k might close an expression
// that a directly following token could continue. A "}" may close an object
// literal or a function expression as well as a block.
func (s *stmtScanner) mayEndExpression(k int) bool {
	if s.is(k, jslex.Punct, "}") {
		return true
	}
	return s.newlineBetween(k, k+1) && s.endsExpression(k)
}

// endsExpression reports whether the token at k can be the last token of an
// expression, making a following line break a statement boundary.
func (s *stmtScanner) endsExpression(k int) bool {
	text := s.text(k)
	switch s.tok(k).Kind {
	case jslex.Number, jslex.String, jslex.Regex:
		return true
	case jslex.Template:
		return strings.HasSuffix(text, "`")
	case jslex.JSXMarkup:
		return strings.HasSuffix(text, ">")
	case jslex.Ident:
		return !nonTerminal[text] || s.afterDot(k)
	case jslex.Punct:
		switch text {
		case ")", "]", "}", "++", "--":
			return true
		}
	}
	return false
}

// statementEnd returns the index of the statement's last token when the call
// closing at k is not continued by further expression.
func (s *stmtScanner) statementEnd(k int) (int, bool) {
	n := k + 1
	if n == len(s.sig) {
		return k, true
	}
	switch {
	case s.is(n, jslex.Punct, ";"):
		return n, true
	case s.is(n, jslex.Punct, "}"):
		return k, true
	case s.newlineBetween(k, n) && !s.continues(n):
		return k, true
	}
	return 0, false
}

// continues reports whether the token at k, at the start of a line, would
// extend the expression on the previous line.
func (s *stmtScanner) continues(k int) bool {
	text := s.text(k)
	switch s.tok(k).Kind {
	case jslex.Template:
		return true
	case jslex.Ident:
		return text == "in" || text == "instanceof"
	case jslex.Punct:
		switch text {
		case "{", "}", ";", "!", "~", "++", "--":
			return false
		}
		return true
	}
	return false
}

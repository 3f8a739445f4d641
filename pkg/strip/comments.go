// Package strip removes comments and debug logging statements from
// JavaScript and TypeScript source.
//
// Both passes work on the token stream produced by jslex rather than on raw
// text, so comment-like sequences inside strings, template literals, regular
// expressions and JSX text are never mistaken for comments, and call
// arguments are matched by balanced parentheses. Input the tokenizer cannot
// classify is returned unchanged together with the error: there is no
// pattern-matching fallback.
package strip

import (
	"bytes"
	"fmt"

	"github.com/715d/codecleaner/pkg/jslex"
)

// Comments returns src with all line, block and documentation comments
// removed. A hashbang line is not a comment and is kept. Input without
// comments is returned as is.
func Comments(src []byte, opts jslex.Options) ([]byte, error) {
	toks, err := jslex.Tokenize(src, opts)
	if err != nil {
		return src, fmt.Errorf("tokenize: %w", err)
	}

	drop := make([]bool, len(toks))
	found := false
	for i, t := range toks {
		if t.Kind.IsComment() {
			drop[i] = true
			found = true
		}
	}
	if !found {
		return src, nil
	}
	dropEmptyContainers(src, toks, drop)

	w := newLineWriter(len(src))
	for i, t := range toks {
		if !drop[i] {
			w.token(src, t)
			continue
		}
		newline := t.Kind == jslex.BlockComment && bytes.ContainsAny(src[t.Start:t.End], "\n\r")
		w.remove(src[t.End:], newline)
	}
	return w.bytes(), nil
}

// dropEmptyContainers extends drop to JSX child containers such as
// {/* note */} that hold nothing but comments, so no empty {} is left behind.
// Attribute containers are kept: a={} must not become a=.
func dropEmptyContainers(src []byte, toks []jslex.Token, drop []bool) {
	prev := -1
	for i, t := range toks {
		if t.Kind.IsTrivia() {
			continue
		}
		if isMarkup(src, t, "{") && prev >= 0 && isChildPosition(src, toks[prev]) {
			j := i + 1
			hasComment := false
			for j < len(toks) && toks[j].Kind.IsTrivia() {
				hasComment = hasComment || toks[j].Kind.IsComment()
				j++
			}
			if hasComment && j < len(toks) && isMarkup(src, toks[j], "}") {
				for k := i; k <= j; k++ {
					drop[k] = true
				}
			}
		}
		prev = i
	}
}

func isMarkup(src []byte, t jslex.Token, text string) bool {
	return t.Kind == jslex.JSXMarkup && t.Text(src) == text
}

// isChildPosition reports whether a container following t sits among an
// element's children rather than inside its opening tag.
func isChildPosition(src []byte, t jslex.Token) bool {
	switch t.Kind {
	case jslex.JSXText:
		return true
	case jslex.JSXMarkup:
		text := t.Text(src)
		return text == "}" || text[len(text)-1] == '>'
	}
	return false
}

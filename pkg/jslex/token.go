// Package jslex tokenizes JavaScript, TypeScript and JSX source text without
// building a syntax tree.
//
// The tokenizer is lossless: the returned tokens cover every byte of the input
// exactly once and in order, so concatenating their text reproduces the source.
// This lets callers rewrite source by dropping or replacing whole tokens while
// everything else is copied through untouched.
package jslex

import (
	"path/filepath"
	"strings"
)

// Kind classifies a token.
type Kind uint8

const (
	// Whitespace is a run of spaces, tabs, line terminators or a leading byte order mark.
	Whitespace Kind = iota
	// LineComment is a // comment up to, but not including, the line terminator.
	LineComment
	// BlockComment is a /* */ comment, including /** */ documentation comments.
	BlockComment
	// Hashbang is a #! line at the very start of the file.
	Hashbang
	// Ident is an identifier, keyword or private name (#x).
	Ident
	// Number is a numeric literal.
	Number
	// String is a single- or double-quoted string literal.
	String
	// Template is one chunk of a template literal. A chunk ends either with the
	// closing backquote or with the "${" that opens a substitution.
	Template
	// Regex is a regular expression literal including its flags.
	Regex
	// Punct is an operator or punctuator.
	Punct
	// JSXMarkup is tag syntax of a JSX element, or a "{"/"}" delimiting a JSX
	// expression container.
	JSXMarkup
	// JSXText is literal text between JSX tags.
	JSXText
)

var kindNames = [...]string{
	Whitespace:   "Whitespace",
	LineComment:  "LineComment",
	BlockComment: "BlockComment",
	Hashbang:     "Hashbang",
	Ident:        "Ident",
	Number:       "Number",
	String:       "String",
	Template:     "Template",
	Regex:        "Regex",
	Punct:        "Punct",
	JSXMarkup:    "JSXMarkup",
	JSXText:      "JSXText",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsComment reports whether k is a line or block comment.
func (k Kind) IsComment() bool {
	return k == LineComment || k == BlockComment
}

// IsTrivia reports whether k carries no program meaning.
func (k Kind) IsTrivia() bool {
	return k == Whitespace || k.IsComment()
}

// Token is a half-open byte range [Start, End) of the source.
type Token struct {
	Kind  Kind
	Start int
	End   int

	// CloseControl is set on a ")" that closes the header of an if, for,
	// while or with statement.
	CloseControl bool
}

// Text returns the token's bytes as a string.
func (t Token) Text(src []byte) string {
	return string(src[t.Start:t.End])
}

// Options controls dialect-dependent scanning.
type Options struct {
	// JSX enables JSX elements in expression position.
	JSX bool
}

// OptionsFor returns the options matching a file's extension. JSX is enabled
// for .js, .jsx and .tsx; plain TypeScript uses <T>expr type assertions,
// which conflict with JSX.
func OptionsFor(path string) Options {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".jsx", ".mjs", ".cjs", ".tsx":
		return Options{JSX: true}
	default:
		return Options{}
	}
}

package jslex

import "bytes"

// jsxStartsHere reports whether the "<" at the current position can open a
// JSX element: it must sit in expression position and be followed by a tag
// name or ">" (a fragment).
func (lx *lexer) jsxStartsHere() bool {
	if !lx.regexAllowed() {
		return false
	}
	next := lx.peek(1)
	return next == '>' || 'a' <= next && next <= 'z' || 'A' <= next && next <= 'Z' || next == '_' || next == '$'
}

// scanJSXOrPunct lexes a JSX element, or backtracks and lexes "<" as an
// operator when the element is not well formed. In .tsx files this is what
// separates <T,>(x) => x generic arrows from elements.
func (lx *lexer) scanJSXOrPunct() {
	snap := lx.save()
	if err := lx.scanJSXElement(); err != nil {
		lx.restore(snap)
		lx.scanPunct()
	}
}

func (lx *lexer) scanJSXElement() error {
	start := lx.pos
	lx.pos++
	name := lx.scanJSXName()
	selfClosing, err := lx.scanJSXTag(start)
	if err != nil {
		return err
	}
	if selfClosing {
		return nil
	}
	return lx.scanJSXChildren(start, name)
}

// scanJSXTag lexes attributes up to and including the ">" or "/>" that ends
// an opening tag whose markup began at markStart.
func (lx *lexer) scanJSXTag(markStart int) (selfClosing bool, err error) {
	mark := markStart
	flush := func() {
		if lx.pos > mark {
			lx.emit(JSXMarkup, mark)
		}
	}
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == '/' && lx.peek(1) == '>':
			lx.pos += 2
			flush()
			return true, nil
		case c == '>':
			lx.pos++
			flush()
			return false, nil
		case c == '/' && lx.peek(1) == '/':
			flush()
			lx.scanLineComment()
			mark = lx.pos
		case c == '/' && lx.peek(1) == '*':
			flush()
			if err := lx.scanBlockComment(); err != nil {
				return false, err
			}
			mark = lx.pos
		case c == '{':
			flush()
			if err := lx.scanJSXContainer(); err != nil {
				return false, err
			}
			mark = lx.pos
		case c == '"' || c == '\'':
			// JSX attribute strings have no escapes and may span lines.
			end := bytes.IndexByte(lx.src[lx.pos+1:], c)
			if end < 0 {
				return false, lx.errorf(lx.pos, "unterminated JSX attribute string")
			}
			lx.pos += end + 2
		case isSpace(c) || isIdentPart(c) || c == '-' || c == ':' || c == '.' || c == '=':
			lx.pos++
		default:
			return false, lx.errorf(lx.pos, "unexpected %q in JSX tag", c)
		}
	}
	return false, lx.errorf(markStart, "unterminated JSX tag")
}

// scanJSXContainer lexes {expression} inside a tag or between children.
func (lx *lexer) scanJSXContainer() error {
	lx.pos++
	lx.emit(JSXMarkup, lx.pos-1)
	if err := lx.scanCode(true); err != nil {
		return err
	}
	lx.pos++
	lx.emit(JSXMarkup, lx.pos-1)
	return nil
}

func (lx *lexer) scanJSXChildren(start int, name string) error {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == '{':
			if err := lx.scanJSXContainer(); err != nil {
				return err
			}
		case c == '<' && lx.peek(1) == '/':
			closeStart := lx.pos
			lx.pos += 2
			lx.skipJSXSpace()
			closing := lx.scanJSXName()
			lx.skipJSXSpace()
			if lx.pos >= len(lx.src) || lx.src[lx.pos] != '>' {
				return lx.errorf(closeStart, "malformed JSX closing tag")
			}
			lx.pos++
			if closing != name {
				return lx.errorf(closeStart, "closing tag </%s> does not match <%s>", closing, name)
			}
			lx.emit(JSXMarkup, closeStart)
			return nil
		case c == '<':
			if err := lx.scanJSXElement(); err != nil {
				return err
			}
		default:
			textStart := lx.pos
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '{' && lx.src[lx.pos] != '<' {
				lx.pos++
			}
			lx.emit(JSXText, textStart)
		}
	}
	return lx.errorf(start, "unterminated JSX element <%s>", name)
}

func (lx *lexer) scanJSXName() string {
	start := lx.pos
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if !isIdentPart(c) && c != '-' && c != ':' && c != '.' {
			break
		}
		lx.pos++
	}
	return string(lx.src[start:lx.pos])
}

func (lx *lexer) skipJSXSpace() {
	for lx.pos < len(lx.src) && isSpace(lx.src[lx.pos]) {
		lx.pos++
	}
}

package jslex

func (lx *lexer) scanString() error {
	start := lx.pos
	quote := lx.src[lx.pos]
	lx.pos++
	for lx.pos < len(lx.src) {
		switch c := lx.src[lx.pos]; c {
		case '\\':
			lx.pos += 2
			// A CRLF line continuation is a single escape.
			if lx.pos < len(lx.src) && lx.src[lx.pos-1] == '\r' && lx.src[lx.pos] == '\n' {
				lx.pos++
			}
		case quote:
			lx.pos++
			lx.emit(String, start)
			return nil
		case '\n', '\r':
			return lx.errorf(start, "unterminated string literal")
		default:
			lx.pos++
		}
	}
	return lx.errorf(start, "unterminated string literal")
}

// scanTemplate lexes a template literal. Each substitution is lexed as code,
// so comments, strings and nested templates inside ${...} are ordinary tokens.
func (lx *lexer) scanTemplate() error {
	start := lx.pos
	chunk := lx.pos
	lx.pos++
	for lx.pos < len(lx.src) {
		switch c := lx.src[lx.pos]; {
		case c == '\\':
			lx.pos += 2
		case c == '`':
			lx.pos++
			lx.emit(Template, chunk)
			return nil
		case c == '$' && lx.peek(1) == '{':
			lx.pos += 2
			lx.emit(Template, chunk)
			if err := lx.scanCode(true); err != nil {
				return err
			}
			// scanCode stopped on the closing "}", which opens the next chunk.
			chunk = lx.pos
			lx.pos++
		default:
			lx.pos++
		}
	}
	return lx.errorf(start, "unterminated template literal")
}

func (lx *lexer) scanRegex() error {
	start := lx.pos
	lx.pos++
	inClass := false
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == '\\':
			if next := lx.peek(1); next == '\n' || next == '\r' {
				return lx.errorf(start, "unterminated regular expression")
			}
			lx.pos += 2
			continue
		case c == '\n' || c == '\r':
			return lx.errorf(start, "unterminated regular expression")
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			lx.pos++
			for lx.pos < len(lx.src) && isIdentPart(lx.src[lx.pos]) {
				lx.pos++
			}
			lx.emit(Regex, start)
			return nil
		}
		lx.pos++
	}
	return lx.errorf(start, "unterminated regular expression")
}

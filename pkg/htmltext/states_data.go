package htmltext

func (t *Tokenizer) dataState(in *InputStream, tok *Token) step {
	for {
		c, pos := t.peek(in)
		switch c {
		case EndOfBuffer:
			return stepSuspend
		case EOF:
			return t.emitEOF(in, tok)
		case '&':
			in.Advance(1)
			t.beginCharacterReference(pos, StateData)
			return stepContinue
		case '<':
			// The run before a tag is emitted on its own.
			if tok.hasCharacters() {
				return stepEmit
			}
			in.Advance(1)
			t.tagStart = pos
			t.state = StateTagOpen
			return stepContinue
		default:
			in.Advance(1)
			tok.appendCharacter(c, pos)
			if t.full(tok) {
				return stepEmit
			}
		}
	}
}

func (t *Tokenizer) characterReferenceInDataState(in *InputStream, tok *Token) step {
	for {
		c := in.Peek(0)
		if c == EndOfBuffer {
			return stepSuspend
		}
		switch t.entity.Feed(c) {
		case EntityContinue:
			in.Advance(1)
		case EntityDecoded:
			in.Advance(1)
			tok.appendCharacters(t.entity.Text(), t.refStart)
			t.state = StateData
			return stepContinue
		case EntityAborted:
			tok.appendCharacters(t.entity.Text(), t.refStart)
			t.state = StateData
			return stepContinue
		}
	}
}

func (t *Tokenizer) tagOpenState(in *InputStream, tok *Token) step {
	c := in.Peek(0)
	switch {
	case c == EndOfBuffer:
		return stepSuspend
	case c == '!':
		in.Advance(1)
		t.state = StateCommentStart1
	case c == '/':
		in.Advance(1)
		t.state = StateCloseTag
	case isASCIIAlpha(c):
		in.Advance(1)
		tok.beginTag(KindStartTag, t.tagStart)
		tok.appendName(toASCIILower(c))
		t.state = StateTagName
	default:
		tok.appendCharacter('<', t.tagStart)
		t.state = StateData
	}
	return stepContinue
}

func (t *Tokenizer) closeTagState(in *InputStream, tok *Token) step {
	c := in.Peek(0)
	switch {
	case c == EndOfBuffer:
		return stepSuspend
	case isASCIIAlpha(c):
		in.Advance(1)
		tok.beginTag(KindEndTag, t.tagStart)
		tok.appendName(toASCIILower(c))
		t.state = StateTagName
	case c == '>':
		// "</>" produces nothing.
		in.Advance(1)
		t.state = StateData
	default:
		tok.appendCharacters(closeTagPrefix, t.tagStart)
		t.state = StateData
	}
	return stepContinue
}

var closeTagPrefix = []byte("</")

func (t *Tokenizer) tagNameState(in *InputStream, tok *Token) step {
	for {
		c := in.Peek(0)
		switch {
		case c == EndOfBuffer:
			return stepSuspend
		case c == EOF:
			return t.emitTag(tok)
		case isSpace(c):
			in.Advance(1)
			t.state = StateBeforeAttributeName
			return stepContinue
		case c == '/':
			in.Advance(1)
			t.state = StateVoidTag
			return stepContinue
		case c == '>':
			in.Advance(1)
			return t.emitTag(tok)
		default:
			in.Advance(1)
			tok.appendName(toASCIILower(c))
		}
	}
}

func (t *Tokenizer) voidTagState(in *InputStream, tok *Token) step {
	c := in.Peek(0)
	switch c {
	case EndOfBuffer:
		return stepSuspend
	case EOF:
		return t.emitTag(tok)
	case '>':
		in.Advance(1)
		tok.selfClosing = true
		return t.emitTag(tok)
	default:
		t.state = StateBeforeAttributeName
		return stepContinue
	}
}

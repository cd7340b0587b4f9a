package htmltext

func (t *Tokenizer) beforeAttributeNameState(in *InputStream, tok *Token) step {
	for {
		c := in.Peek(0)
		switch {
		case c == EndOfBuffer:
			return stepSuspend
		case c == EOF:
			return t.emitTag(tok)
		case isSpace(c):
			in.Advance(1)
		case c == '/':
			in.Advance(1)
			t.state = StateVoidTag
			return stepContinue
		case c == '>':
			in.Advance(1)
			return t.emitTag(tok)
		default:
			in.Advance(1)
			tok.beginAttribute()
			tok.appendAttrName(toASCIILower(c))
			t.state = StateAttributeName
			return stepContinue
		}
	}
}

func (t *Tokenizer) attributeNameState(in *InputStream, tok *Token) step {
	for {
		c := in.Peek(0)
		switch {
		case c == EndOfBuffer:
			return stepSuspend
		case c == EOF:
			return t.emitTag(tok)
		case isSpace(c):
			in.Advance(1)
			t.state = StateAfterAttributeName
			return stepContinue
		case c == '/':
			in.Advance(1)
			t.state = StateVoidTag
			return stepContinue
		case c == '=':
			in.Advance(1)
			t.state = StateBeforeAttributeValue
			return stepContinue
		case c == '>':
			in.Advance(1)
			return t.emitTag(tok)
		default:
			in.Advance(1)
			tok.appendAttrName(toASCIILower(c))
		}
	}
}

func (t *Tokenizer) afterAttributeNameState(in *InputStream, tok *Token) step {
	for {
		c := in.Peek(0)
		switch {
		case c == EndOfBuffer:
			return stepSuspend
		case c == EOF:
			return t.emitTag(tok)
		case isSpace(c):
			in.Advance(1)
		case c == '/':
			in.Advance(1)
			t.state = StateVoidTag
			return stepContinue
		case c == '=':
			in.Advance(1)
			t.state = StateBeforeAttributeValue
			return stepContinue
		case c == '>':
			in.Advance(1)
			return t.emitTag(tok)
		default:
			in.Advance(1)
			tok.beginAttribute()
			tok.appendAttrName(toASCIILower(c))
			t.state = StateAttributeName
			return stepContinue
		}
	}
}

func (t *Tokenizer) beforeAttributeValueState(in *InputStream, tok *Token) step {
	for {
		c := in.Peek(0)
		switch {
		case c == EndOfBuffer:
			return stepSuspend
		case c == EOF:
			return t.emitTag(tok)
		case isSpace(c):
			in.Advance(1)
		case c == '"':
			in.Advance(1)
			t.state = StateAttributeValueDoubleQuoted
			return stepContinue
		case c == '\'':
			in.Advance(1)
			t.state = StateAttributeValueSingleQuoted
			return stepContinue
		case c == '>':
			in.Advance(1)
			return t.emitTag(tok)
		default:
			t.state = StateAttributeValueUnquoted
			return stepContinue
		}
	}
}

func (t *Tokenizer) attributeValueDoubleQuotedState(in *InputStream, tok *Token) step {
	return t.quotedAttributeValue(in, tok, '"', StateAttributeValueDoubleQuoted)
}

func (t *Tokenizer) attributeValueSingleQuotedState(in *InputStream, tok *Token) step {
	return t.quotedAttributeValue(in, tok, '\'', StateAttributeValueSingleQuoted)
}

func (t *Tokenizer) quotedAttributeValue(in *InputStream, tok *Token, quote rune, self State) step {
	for {
		c, pos := t.peek(in)
		switch c {
		case EndOfBuffer:
			return stepSuspend
		case EOF:
			return t.emitTag(tok)
		case quote:
			in.Advance(1)
			tok.finishAttribute()
			t.state = StateBeforeAttributeName
			return stepContinue
		case '&':
			in.Advance(1)
			t.beginCharacterReference(pos, self)
			return stepContinue
		default:
			in.Advance(1)
			tok.appendAttrValue(c)
		}
	}
}

func (t *Tokenizer) attributeValueUnquotedState(in *InputStream, tok *Token) step {
	for {
		c, pos := t.peek(in)
		switch {
		case c == EndOfBuffer:
			return stepSuspend
		case c == EOF:
			return t.emitTag(tok)
		case isSpace(c):
			in.Advance(1)
			tok.finishAttribute()
			t.state = StateBeforeAttributeName
			return stepContinue
		case c == '&':
			in.Advance(1)
			t.beginCharacterReference(pos, StateAttributeValueUnquoted)
			return stepContinue
		case c == '>':
			in.Advance(1)
			return t.emitTag(tok)
		default:
			in.Advance(1)
			tok.appendAttrValue(c)
		}
	}
}

func (t *Tokenizer) characterReferenceInAttributeValueState(in *InputStream, tok *Token) step {
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
			tok.appendAttrValueBytes(t.entity.Text())
			t.state = t.returnState
			return stepContinue
		case EntityAborted:
			tok.appendAttrValueBytes(t.entity.Text())
			t.state = t.returnState
			return stepContinue
		}
	}
}

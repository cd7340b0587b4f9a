package htmltext

import "bytes"

var rawTextElements = [...][]byte{[]byte("script"), []byte("style")}

// IsRawTextElement reports whether a start tag with this lower-case name
// switches the tokenizer into raw-text mode.
func IsRawTextElement(name []byte) bool {
	for _, raw := range rawTextElements {
		if bytes.Equal(name, raw) {
			return true
		}
	}
	return false
}

func (t *Tokenizer) rawDataState(in *InputStream, tok *Token) step {
	for {
		c, pos := t.peek(in)
		switch c {
		case EndOfBuffer:
			return stepSuspend
		case EOF:
			return t.emitEOF(in, tok)
		case '<':
			in.Advance(1)
			t.tagStart = pos
			t.state = StateRawDataLessThanSign
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

func (t *Tokenizer) rawDataLessThanSignState(in *InputStream, tok *Token) step {
	c := in.Peek(0)
	switch c {
	case EndOfBuffer:
		return stepSuspend
	case '/':
		in.Advance(1)
		t.temp = t.temp[:0]
		t.state = StateRawDataEndTagOpen
	default:
		tok.appendCharacter('<', t.tagStart)
		t.state = StateRawData
	}
	return stepContinue
}

func (t *Tokenizer) rawDataEndTagOpenState(in *InputStream, tok *Token) step {
	c := in.Peek(0)
	switch {
	case c == EndOfBuffer:
		return stepSuspend
	case isASCIILower(c):
		in.Advance(1)
		t.temp = append(t.temp, byte(c))
		t.state = StateRawDataEndTagName
	default:
		tok.appendCharacters(closeTagPrefix, t.tagStart)
		t.state = StateRawData
	}
	return stepContinue
}

func (t *Tokenizer) rawDataEndTagNameState(in *InputStream, tok *Token) step {
	for {
		c := in.Peek(0)
		switch {
		case c == EndOfBuffer:
			return stepSuspend
		case isASCIILower(c):
			in.Advance(1)
			t.temp = append(t.temp, byte(c))
		case (isSpace(c) || c == '/' || c == '>') && bytes.Equal(t.temp, t.endTagName):
			// Emit the text run first; the terminator is still unread, so the
			// next call lands here again with an empty token.
			if tok.hasCharacters() {
				return stepEmit
			}
			tok.beginTag(KindEndTag, t.tagStart)
			tok.setName(t.temp)
			t.state = StateTagName
			return stepContinue
		default:
			tok.appendCharacters(closeTagPrefix, t.tagStart)
			tok.appendCharacters(t.temp, t.tagStart)
			t.state = StateRawData
			return stepContinue
		}
	}
}

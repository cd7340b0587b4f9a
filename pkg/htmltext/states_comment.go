package htmltext

// Comments are scanned and discarded; no token is produced for them.

func (t *Tokenizer) commentStart1State(in *InputStream, _ *Token) step {
	switch in.Peek(0) {
	case EndOfBuffer:
		return stepSuspend
	case '-':
		in.Advance(1)
		t.state = StateCommentStart2
	default:
		t.state = StateBogusComment
	}
	return stepContinue
}

func (t *Tokenizer) commentStart2State(in *InputStream, _ *Token) step {
	switch in.Peek(0) {
	case EndOfBuffer:
		return stepSuspend
	case '-':
		in.Advance(1)
		t.state = StateComment
	default:
		t.state = StateBogusComment
	}
	return stepContinue
}

func (t *Tokenizer) commentState(in *InputStream, _ *Token) step {
	for {
		switch in.Peek(0) {
		case EndOfBuffer:
			return stepSuspend
		case EOF:
			t.state = StateData
			return stepContinue
		case '-':
			in.Advance(1)
			t.state = StateCommentEnd1
			return stepContinue
		default:
			in.Advance(1)
		}
	}
}

// commentEnd1State is lenient: "->" also closes the comment.
func (t *Tokenizer) commentEnd1State(in *InputStream, _ *Token) step {
	switch in.Peek(0) {
	case EndOfBuffer:
		return stepSuspend
	case EOF:
		t.state = StateData
	case '-':
		in.Advance(1)
		t.state = StateCommentEnd2
	case '>':
		in.Advance(1)
		t.state = StateData
	default:
		in.Advance(1)
		t.state = StateComment
	}
	return stepContinue
}

func (t *Tokenizer) commentEnd2State(in *InputStream, _ *Token) step {
	for {
		switch in.Peek(0) {
		case EndOfBuffer:
			return stepSuspend
		case EOF:
			t.state = StateData
			return stepContinue
		case '-':
			in.Advance(1)
		case '>':
			in.Advance(1)
			t.state = StateData
			return stepContinue
		default:
			in.Advance(1)
			t.state = StateComment
			return stepContinue
		}
	}
}

func (t *Tokenizer) bogusCommentState(in *InputStream, _ *Token) step {
	for {
		switch in.Peek(0) {
		case EndOfBuffer:
			return stepSuspend
		case EOF:
			t.state = StateData
			return stepContinue
		case '>':
			in.Advance(1)
			t.state = StateData
			return stepContinue
		default:
			in.Advance(1)
		}
	}
}

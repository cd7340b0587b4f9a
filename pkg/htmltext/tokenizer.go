package htmltext

type step uint8

const (
	stepContinue step = iota
	stepEmit
	stepSuspend
)

type stateFunc func(*Tokenizer, *InputStream, *Token) step

var stateTable = [numStates]stateFunc{
	StateData:                               (*Tokenizer).dataState,
	StateCharacterReferenceInData:           (*Tokenizer).characterReferenceInDataState,
	StateCharacterReferenceInAttributeValue: (*Tokenizer).characterReferenceInAttributeValueState,
	StateRawData:                            (*Tokenizer).rawDataState,
	StateRawDataLessThanSign:                (*Tokenizer).rawDataLessThanSignState,
	StateRawDataEndTagOpen:                  (*Tokenizer).rawDataEndTagOpenState,
	StateRawDataEndTagName:                  (*Tokenizer).rawDataEndTagNameState,
	StateTagOpen:                            (*Tokenizer).tagOpenState,
	StateCloseTag:                           (*Tokenizer).closeTagState,
	StateTagName:                            (*Tokenizer).tagNameState,
	StateBeforeAttributeName:                (*Tokenizer).beforeAttributeNameState,
	StateAttributeName:                      (*Tokenizer).attributeNameState,
	StateAfterAttributeName:                 (*Tokenizer).afterAttributeNameState,
	StateBeforeAttributeValue:               (*Tokenizer).beforeAttributeValueState,
	StateAttributeValueDoubleQuoted:         (*Tokenizer).attributeValueDoubleQuotedState,
	StateAttributeValueSingleQuoted:         (*Tokenizer).attributeValueSingleQuotedState,
	StateAttributeValueUnquoted:             (*Tokenizer).attributeValueUnquotedState,
	StateVoidTag:                            (*Tokenizer).voidTagState,
	StateCommentStart1:                      (*Tokenizer).commentStart1State,
	StateCommentStart2:                      (*Tokenizer).commentStart2State,
	StateComment:                            (*Tokenizer).commentState,
	StateCommentEnd1:                        (*Tokenizer).commentEnd1State,
	StateCommentEnd2:                        (*Tokenizer).commentEnd2State,
	StateBogusComment:                       (*Tokenizer).bogusCommentState,
}

// Tokenizer is a resumable state machine that turns the characters of an
// InputStream into tokens. It keeps its state between Next calls, so input may
// be appended in arbitrary segments.
type Tokenizer struct {
	entity      EntityDecoder
	endTagName  []byte
	temp        []byte
	tagStart    Position
	refStart    Position
	opts        tokenizerOptions
	state       State
	returnState State
	eofEmitted  bool
}

// NewTokenizer creates a tokenizer in the Data state.
func NewTokenizer(opts ...Options) *Tokenizer {
	t := &Tokenizer{opts: resolveOptions(JoinOptions(opts...))}
	t.entity.setMaxName(t.opts.maxEntityNameLength)
	t.entity.Reset()
	return t
}

// Reset returns the tokenizer to the Data state, keeping its options.
func (t *Tokenizer) Reset() {
	t.endTagName = t.endTagName[:0]
	t.temp = t.temp[:0]
	t.tagStart = Position{}
	t.refStart = Position{}
	t.state = StateData
	t.returnState = StateData
	t.eofEmitted = false
	t.entity.Reset()
}

// State returns the current state.
func (t *Tokenizer) State() State {
	return t.state
}

// SetState forces the current state. It exists for embedders and tests that
// need to drive a single state in isolation.
func (t *Tokenizer) SetState(s State) {
	if s < numStates {
		t.state = s
	}
}

// EnterRawData switches into raw-text mode for the element name. Only an end
// tag with exactly this name, in lower case, leaves the mode.
func (t *Tokenizer) EnterRawData(name string) {
	t.endTagName = t.endTagName[:0]
	for i := 0; i < len(name); i++ {
		t.endTagName = append(t.endTagName, byte(toASCIILower(rune(name[i]))))
	}
	t.state = StateRawData
}

// AppropriateEndTagName returns the element name that closes raw-text mode.
func (t *Tokenizer) AppropriateEndTagName() string {
	return string(t.endTagName)
}

// Done reports whether the EndOfFile token has been produced.
func (t *Tokenizer) Done() bool {
	return t.eofEmitted
}

// Next advances the tokenizer until tok holds a complete token.
// It returns false when the buffered input is exhausted and more is needed, or
// once EndOfFile has been produced. A pending character run is returned before
// Next reports that input is exhausted.
func (t *Tokenizer) Next(in *InputStream, tok *Token) bool {
	if tok.complete {
		tok.Reset()
	}
	if t.eofEmitted || in == nil {
		return false
	}
	for {
		switch stateTable[t.state](t, in, tok) {
		case stepContinue:
		case stepEmit:
			return t.emit(tok)
		case stepSuspend:
			if tok.hasCharacters() {
				return t.emit(tok)
			}
			return false
		}
	}
}

func (t *Tokenizer) emit(tok *Token) bool {
	tok.complete = true
	if !t.opts.trackPositions {
		tok.pos = Position{}
	}
	return true
}

// peek returns the next character and its position without consuming it.
func (t *Tokenizer) peek(in *InputStream) (rune, Position) {
	return in.Peek(0), in.Position()
}

func (t *Tokenizer) full(tok *Token) bool {
	return t.opts.maxTokenSize > 0 && len(tok.data) >= t.opts.maxTokenSize
}

func (t *Tokenizer) beginCharacterReference(pos Position, returnState State) {
	t.entity.Reset()
	t.refStart = pos
	t.returnState = returnState
	if returnState == StateData {
		t.state = StateCharacterReferenceInData
		return
	}
	t.state = StateCharacterReferenceInAttributeValue
}

func (t *Tokenizer) emitTag(tok *Token) step {
	tok.finishTag()
	t.state = StateData
	return stepEmit
}

func (t *Tokenizer) emitEOF(in *InputStream, tok *Token) step {
	if tok.hasCharacters() {
		return stepEmit
	}
	tok.makeEndOfFile(in.Position())
	t.eofEmitted = true
	return stepEmit
}

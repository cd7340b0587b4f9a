package htmltext

// State identifies a tokenizer state.
type State uint8

const (
	StateData State = iota
	StateCharacterReferenceInData
	StateCharacterReferenceInAttributeValue
	StateRawData
	StateRawDataLessThanSign
	StateRawDataEndTagOpen
	StateRawDataEndTagName
	StateTagOpen
	StateCloseTag
	StateTagName
	StateBeforeAttributeName
	StateAttributeName
	StateAfterAttributeName
	StateBeforeAttributeValue
	StateAttributeValueDoubleQuoted
	StateAttributeValueSingleQuoted
	StateAttributeValueUnquoted
	StateVoidTag
	StateCommentStart1
	StateCommentStart2
	StateComment
	StateCommentEnd1
	StateCommentEnd2
	StateBogusComment

	numStates
)

var stateNames = [numStates]string{
	StateData:                               "Data",
	StateCharacterReferenceInData:           "CharacterReferenceInData",
	StateCharacterReferenceInAttributeValue: "CharacterReferenceInAttributeValue",
	StateRawData:                            "RawData",
	StateRawDataLessThanSign:                "RawDataLessThanSign",
	StateRawDataEndTagOpen:                  "RawDataEndTagOpen",
	StateRawDataEndTagName:                  "RawDataEndTagName",
	StateTagOpen:                            "TagOpen",
	StateCloseTag:                           "CloseTag",
	StateTagName:                            "TagName",
	StateBeforeAttributeName:                "BeforeAttributeName",
	StateAttributeName:                      "AttributeName",
	StateAfterAttributeName:                 "AfterAttributeName",
	StateBeforeAttributeValue:               "BeforeAttributeValue",
	StateAttributeValueDoubleQuoted:         "AttributeValueDoubleQuoted",
	StateAttributeValueSingleQuoted:         "AttributeValueSingleQuoted",
	StateAttributeValueUnquoted:             "AttributeValueUnquoted",
	StateVoidTag:                            "VoidTag",
	StateCommentStart1:                      "CommentStart1",
	StateCommentStart2:                      "CommentStart2",
	StateComment:                            "Comment",
	StateCommentEnd1:                        "CommentEnd1",
	StateCommentEnd2:                        "CommentEnd2",
	StateBogusComment:                       "BogusComment",
}

// String returns the state name, suitable for debugging.
func (s State) String() string {
	if s < numStates {
		return stateNames[s]
	}
	return "Unknown"
}

// IsRawText reports whether s belongs to raw-text mode.
func (s State) IsRawText() bool {
	switch s {
	case StateRawData, StateRawDataLessThanSign, StateRawDataEndTagOpen, StateRawDataEndTagName:
		return true
	default:
		return false
	}
}

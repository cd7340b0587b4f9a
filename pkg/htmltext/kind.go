package htmltext

// Kind identifies the kind of a markup token.
type Kind byte

const (
	KindNone Kind = iota
	KindStartTag
	KindEndTag
	KindCharacter
	KindEndOfFile
)

// String returns a stable name for the kind, suitable for debugging.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindStartTag:
		return "StartTag"
	case KindEndTag:
		return "EndTag"
	case KindCharacter:
		return "Character"
	case KindEndOfFile:
		return "EndOfFile"
	default:
		return "Unknown"
	}
}

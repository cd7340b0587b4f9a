package htmltext

import (
	"strconv"
	"strings"
)

// Attr is an owned attribute name and value.
type Attr struct {
	Name  string
	Value string
}

// CompactToken is an immutable snapshot of a scratch Token. It owns all of its
// data and may be handed to another goroutine.
type CompactToken struct {
	Name        string
	Data        string
	Attrs       []Attr
	Pos         Position
	Kind        Kind
	SelfClosing bool
}

// NewCompactToken copies tok into a CompactToken.
func NewCompactToken(tok *Token) CompactToken {
	if tok == nil {
		return CompactToken{}
	}
	ct := CompactToken{
		Kind:        tok.kind,
		Pos:         tok.pos,
		SelfClosing: tok.selfClosing,
	}
	switch tok.kind {
	case KindStartTag, KindEndTag:
		ct.Name = string(tok.name)
	case KindCharacter:
		ct.Data = string(tok.data)
	}
	if tok.kind == KindStartTag && len(tok.attrs) > 0 {
		ct.Attrs = make([]Attr, len(tok.attrs))
		for i, a := range tok.attrs {
			ct.Attrs[i] = Attr{Name: string(a.name), Value: string(a.value)}
		}
	}
	return ct
}

// Attr returns the value of the named attribute.
func (t CompactToken) Attr(name string) (string, bool) {
	for _, a := range t.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func (t CompactToken) String() string {
	var b strings.Builder
	b.WriteString(t.Kind.String())
	switch t.Kind {
	case KindStartTag, KindEndTag:
		b.WriteByte('(')
		b.WriteString(t.Name)
		for _, a := range t.Attrs {
			b.WriteByte(' ')
			b.WriteString(a.Name)
			b.WriteByte('=')
			b.WriteString(strconv.Quote(a.Value))
		}
		if t.SelfClosing {
			b.WriteString(" /")
		}
		b.WriteByte(')')
	case KindCharacter:
		b.WriteByte('(')
		b.WriteString(strconv.Quote(t.Data))
		b.WriteByte(')')
	}
	return b.String()
}

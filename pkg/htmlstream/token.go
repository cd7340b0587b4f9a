package htmlstream

import (
	"strconv"
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/jacoelho/markup/pkg/htmltext"
)

// Attribute is a resolved attribute. Atom is zero when the name is not a known atom.
type Attribute struct {
	Name  string
	Value string
	Atom  atom.Atom
}

// Token is the atomic token handed to tree construction.
type Token struct {
	name        string
	Data        string
	Attrs       []Attribute
	Pos         htmltext.Position
	Atom        atom.Atom
	Kind        htmltext.Kind
	SelfClosing bool
}

// NewTag builds a tag token by hand. Names are lower-cased and resolved, and
// duplicate attribute names keep their first occurrence.
func NewTag(kind htmltext.Kind, name string, attrs ...Attribute) Token {
	tok := Token{Kind: kind}
	tok.Atom, tok.name = resolveName(nil, strings.ToLower(name))
	if kind != htmltext.KindStartTag {
		return tok
	}
	for _, a := range attrs {
		a.Atom, a.Name = resolveName(nil, strings.ToLower(a.Name))
		tok.addAttr(a)
	}
	return tok
}

// Name returns the tag name.
func (t *Token) Name() string {
	return t.name
}

// Is reports whether t is a tag whose name is a.
func (t *Token) Is(a atom.Atom) bool {
	return a != 0 && t.Atom == a
}

// IsStartTag reports whether t is a start tag for a.
func (t *Token) IsStartTag(a atom.Atom) bool {
	return t.Kind == htmltext.KindStartTag && t.Is(a)
}

// IsEndTag reports whether t is an end tag for a.
func (t *Token) IsEndTag(a atom.Atom) bool {
	return t.Kind == htmltext.KindEndTag && t.Is(a)
}

// Attr returns the value of the named attribute.
func (t *Token) Attr(name string) (string, bool) {
	for _, a := range t.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func (t *Token) String() string {
	var b strings.Builder
	b.WriteString(t.Kind.String())
	switch t.Kind {
	case htmltext.KindStartTag, htmltext.KindEndTag:
		b.WriteByte('(')
		b.WriteString(t.Name())
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
	case htmltext.KindCharacter:
		b.WriteByte('(')
		b.WriteString(strconv.Quote(t.Data))
		b.WriteByte(')')
	}
	return b.String()
}

// addAttr appends a unless an attribute with the same name is already present.
func (t *Token) addAttr(a Attribute) {
	for i := range t.Attrs {
		if t.Attrs[i].Name == a.Name {
			return
		}
	}
	t.Attrs = append(t.Attrs, a)
}

func resolveName(names *nameInterner, name string) (atom.Atom, string) {
	if a := atom.Lookup([]byte(name)); a != 0 {
		return a, a.String()
	}
	if names == nil {
		return 0, name
	}
	return 0, names.internString(name)
}

func resolveNameBytes(names *nameInterner, name []byte) (atom.Atom, string) {
	if a := atom.Lookup(name); a != 0 {
		return a, a.String()
	}
	if names == nil {
		return 0, string(name)
	}
	return 0, names.intern(name)
}

package htmlstream

import "github.com/jacoelho/markup/pkg/htmltext"

// Converter builds atomic tokens and owns the interner for unknown names.
// A Converter is not safe for concurrent use.
type Converter struct {
	names nameInterner
}

// NewConverter returns a converter that interns at most maxNames unknown
// names. A non-positive maxNames means no limit.
func NewConverter(maxNames int) *Converter {
	c := &Converter{}
	c.names.setMax(maxNames)
	return c
}

// Stats reports interning activity for unknown names.
func (c *Converter) Stats() InternStats {
	return c.names.stats
}

// FromCompact builds an atomic token from a compact token. Attribute values are
// shared with ct, which is immutable.
func (c *Converter) FromCompact(ct *htmltext.CompactToken) Token {
	tok := Token{
		Kind:        ct.Kind,
		Data:        ct.Data,
		Pos:         ct.Pos,
		SelfClosing: ct.SelfClosing,
	}
	switch ct.Kind {
	case htmltext.KindStartTag:
		tok.Atom, tok.name = resolveName(&c.names, ct.Name)
		if len(ct.Attrs) > 0 {
			tok.Attrs = make([]Attribute, 0, len(ct.Attrs))
		}
		for _, a := range ct.Attrs {
			attr := Attribute{Value: a.Value}
			attr.Atom, attr.Name = resolveName(&c.names, a.Name)
			tok.addAttr(attr)
		}
	case htmltext.KindEndTag:
		tok.Atom, tok.name = resolveName(&c.names, ct.Name)
	}
	return tok
}

// FromScratch builds an atomic token directly from a scratch token, copying
// everything it keeps.
func (c *Converter) FromScratch(st *htmltext.Token) Token {
	tok := Token{
		Kind:        st.Kind(),
		Pos:         st.Position(),
		SelfClosing: st.SelfClosing(),
	}
	switch st.Kind() {
	case htmltext.KindStartTag:
		tok.Atom, tok.name = resolveNameBytes(&c.names, st.Name())
		if n := st.AttrCount(); n > 0 {
			tok.Attrs = make([]Attribute, 0, n)
		}
		for i := 0; i < st.AttrCount(); i++ {
			name, value := st.Attr(i)
			attr := Attribute{Value: string(value)}
			attr.Atom, attr.Name = resolveNameBytes(&c.names, name)
			tok.addAttr(attr)
		}
	case htmltext.KindEndTag:
		tok.Atom, tok.name = resolveNameBytes(&c.names, st.Name())
	case htmltext.KindCharacter:
		tok.Data = string(st.Data())
	}
	return tok
}

// FromCompact converts ct with a throwaway interner.
func FromCompact(ct *htmltext.CompactToken) Token {
	var c Converter
	return c.FromCompact(ct)
}

// FromScratch converts st with a throwaway interner.
func FromScratch(st *htmltext.Token) Token {
	var c Converter
	return c.FromScratch(st)
}

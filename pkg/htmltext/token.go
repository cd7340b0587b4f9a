package htmltext

import (
	"bytes"
	"unicode/utf8"
)

type attrEntry struct {
	name  []byte
	value []byte
}

// Token is the scratch token filled in place by Tokenizer.Next.
// Byte slices returned by its accessors are only valid until the next Next call;
// copy them, or build a CompactToken, to retain the data.
type Token struct {
	name        []byte
	data        []byte
	attrs       []attrEntry
	pos         Position
	kind        Kind
	selfClosing bool
	attrOpen    bool
	complete    bool
}

// Kind reports the token kind.
func (t *Token) Kind() Kind {
	return t.kind
}

// Name returns the lower-cased tag name of a StartTag or EndTag.
func (t *Token) Name() []byte {
	return t.name
}

// Data returns the text of a Character token.
func (t *Token) Data() []byte {
	return t.data
}

// SelfClosing reports whether the tag ended with "/>".
func (t *Token) SelfClosing() bool {
	return t.selfClosing
}

// AttrCount reports the number of attributes on a StartTag.
func (t *Token) AttrCount() int {
	return len(t.attrs)
}

// Attr returns the name and value of the i-th attribute in source order.
func (t *Token) Attr(i int) (name, value []byte) {
	if i < 0 || i >= len(t.attrs) {
		return nil, nil
	}
	return t.attrs[i].name, t.attrs[i].value
}

// Position returns where the token starts.
func (t *Token) Position() Position {
	return t.pos
}

// Reset clears the token while keeping its buffers for reuse.
func (t *Token) Reset() {
	t.name = t.name[:0]
	t.data = t.data[:0]
	for i := range t.attrs {
		t.attrs[i].name = t.attrs[i].name[:0]
		t.attrs[i].value = t.attrs[i].value[:0]
	}
	t.attrs = t.attrs[:0]
	t.pos = Position{}
	t.kind = KindNone
	t.selfClosing = false
	t.attrOpen = false
	t.complete = false
}

func (t *Token) hasCharacters() bool {
	return t.kind == KindCharacter && len(t.data) > 0
}

func (t *Token) appendCharacter(r rune, pos Position) {
	if t.kind == KindNone {
		t.kind = KindCharacter
		t.pos = pos
	}
	t.data = utf8.AppendRune(t.data, r)
}

func (t *Token) appendCharacters(b []byte, pos Position) {
	if len(b) == 0 {
		return
	}
	if t.kind == KindNone {
		t.kind = KindCharacter
		t.pos = pos
	}
	t.data = append(t.data, b...)
}

func (t *Token) beginTag(kind Kind, pos Position) {
	t.kind = kind
	t.pos = pos
	t.name = t.name[:0]
}

func (t *Token) appendName(r rune) {
	t.name = utf8.AppendRune(t.name, r)
}

func (t *Token) beginAttribute() {
	t.finishAttribute()
	n := len(t.attrs)
	if n < cap(t.attrs) {
		t.attrs = t.attrs[:n+1]
		t.attrs[n].name = t.attrs[n].name[:0]
		t.attrs[n].value = t.attrs[n].value[:0]
	} else {
		t.attrs = append(t.attrs, attrEntry{})
	}
	t.attrOpen = true
}

func (t *Token) appendAttrName(r rune) {
	if !t.attrOpen {
		return
	}
	last := &t.attrs[len(t.attrs)-1]
	last.name = utf8.AppendRune(last.name, r)
}

func (t *Token) appendAttrValue(r rune) {
	if !t.attrOpen {
		return
	}
	last := &t.attrs[len(t.attrs)-1]
	last.value = utf8.AppendRune(last.value, r)
}

func (t *Token) appendAttrValueBytes(b []byte) {
	if !t.attrOpen {
		return
	}
	last := &t.attrs[len(t.attrs)-1]
	last.value = append(last.value, b...)
}

// finishAttribute closes the open attribute, dropping it when an earlier
// attribute has the same name.
func (t *Token) finishAttribute() {
	if !t.attrOpen {
		return
	}
	t.attrOpen = false
	last := len(t.attrs) - 1
	name := t.attrs[last].name
	for i := 0; i < last; i++ {
		if bytes.Equal(t.attrs[i].name, name) {
			t.attrs = t.attrs[:last]
			return
		}
	}
}

func (t *Token) finishTag() {
	t.finishAttribute()
	if t.kind == KindEndTag {
		t.attrs = t.attrs[:0]
	}
}

func (t *Token) makeEndOfFile(pos Position) {
	t.kind = KindEndOfFile
	t.pos = pos
}

func (t *Token) setName(b []byte) {
	t.name = append(t.name[:0], b...)
}

package htmltext

import "unicode/utf8"

const defaultMaxEntityNameLength = 32

// namedEntities is intentionally limited to the five predefined references.
var namedEntities = map[string]string{
	"amp":  "&",
	"apos": "'",
	"gt":   ">",
	"lt":   "<",
	"quot": "\"",
}

type entityState uint8

const (
	entityInitial entityState = iota
	entityNumeric
	entityPossiblyHex
	entityHex
	entityDecimal
	entityNamed
)

// EntityStatus reports the outcome of feeding one character to an EntityDecoder.
type EntityStatus uint8

const (
	// EntityContinue means the character was consumed and more are needed.
	EntityContinue EntityStatus = iota
	// EntityDecoded means the terminating ';' was consumed and Text holds the replacement.
	EntityDecoded
	// EntityAborted means the character was not consumed and Text holds the
	// consumed characters verbatim, starting with '&'.
	EntityAborted
)

// EntityDecoder resolves one character reference after the '&' has been read.
// It is fed one character at a time so decoding can pause at a buffer boundary.
type EntityDecoder struct {
	raw      []byte
	name     []byte
	out      []byte
	value    rune
	maxName  int
	state    entityState
	overflow bool
}

// NewEntityDecoder returns a decoder that aborts named references longer than maxName.
// A non-positive maxName selects the default limit.
func NewEntityDecoder(maxName int) *EntityDecoder {
	d := &EntityDecoder{}
	d.setMaxName(maxName)
	d.Reset()
	return d
}

func (d *EntityDecoder) setMaxName(maxName int) {
	if maxName <= 0 {
		maxName = defaultMaxEntityNameLength
	}
	d.maxName = maxName
}

// Reset prepares the decoder for a new reference. The leading '&' is assumed consumed.
func (d *EntityDecoder) Reset() {
	d.state = entityInitial
	d.raw = append(d.raw[:0], '&')
	d.name = d.name[:0]
	d.out = d.out[:0]
	d.value = 0
	d.overflow = false
	if d.maxName <= 0 {
		d.maxName = defaultMaxEntityNameLength
	}
}

// Text returns the replacement after EntityDecoded or the verbatim input after
// EntityAborted. The slice is valid until the next Reset.
func (d *EntityDecoder) Text() []byte {
	return d.out
}

// Abort ends decoding without a replacement and returns the consumed text verbatim.
func (d *EntityDecoder) Abort() []byte {
	d.out = append(d.out[:0], d.raw...)
	return d.out
}

// Feed consumes c if it continues or terminates the reference.
func (d *EntityDecoder) Feed(c rune) EntityStatus {
	switch d.state {
	case entityInitial:
		switch {
		case c == '#':
			d.consume(c)
			d.state = entityNumeric
		case isASCIIAlnum(c):
			d.consume(c)
			d.name = append(d.name, byte(c))
			d.state = entityNamed
		default:
			return d.abort()
		}
	case entityNumeric:
		switch {
		case c == 'x' || c == 'X':
			d.consume(c)
			d.state = entityPossiblyHex
		case isASCIIDigit(c):
			d.consume(c)
			d.accumulate(10, c)
			d.state = entityDecimal
		default:
			return d.abort()
		}
	case entityPossiblyHex:
		if !isASCIIHexDigit(c) {
			return d.abort()
		}
		d.consume(c)
		d.accumulate(16, c)
		d.state = entityHex
	case entityHex, entityDecimal:
		base := rune(10)
		if d.state == entityHex {
			base = 16
		}
		switch {
		case c == ';':
			d.consume(c)
			d.finishNumeric()
			return EntityDecoded
		case base == 16 && isASCIIHexDigit(c), base == 10 && isASCIIDigit(c):
			d.consume(c)
			d.accumulate(base, c)
		default:
			return d.abort()
		}
	case entityNamed:
		switch {
		case c == ';':
			d.consume(c)
			d.finishNamed()
			return EntityDecoded
		case isASCIIAlnum(c):
			if len(d.name) >= d.maxName {
				return d.abort()
			}
			d.consume(c)
			d.name = append(d.name, byte(c))
		default:
			return d.abort()
		}
	}
	return EntityContinue
}

func (d *EntityDecoder) consume(c rune) {
	d.raw = utf8.AppendRune(d.raw, c)
}

func (d *EntityDecoder) abort() EntityStatus {
	d.Abort()
	return EntityAborted
}

func (d *EntityDecoder) accumulate(base, c rune) {
	if d.overflow {
		return
	}
	d.value = d.value*base + hexValue(c)
	if d.value > utf8.MaxRune {
		d.overflow = true
	}
}

func (d *EntityDecoder) finishNumeric() {
	r := d.value
	if d.overflow || r > utf8.MaxRune || (r >= 0xD800 && r <= 0xDFFF) {
		r = utf8.RuneError
	}
	d.out = utf8.AppendRune(d.out[:0], r)
}

func (d *EntityDecoder) finishNamed() {
	if value, ok := namedEntities[string(d.name)]; ok {
		d.out = append(d.out[:0], value...)
		return
	}
	d.out = utf8.AppendRune(d.out[:0], utf8.RuneError)
}

func hexValue(c rune) rune {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}

func isASCIIDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isASCIIHexDigit(c rune) bool {
	return isASCIIDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isASCIIAlpha(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isASCIIAlnum(c rune) bool {
	return isASCIIAlpha(c) || isASCIIDigit(c)
}

func isASCIILower(c rune) bool {
	return c >= 'a' && c <= 'z'
}

func toASCIILower(c rune) rune {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func isSpace(c rune) bool {
	switch c {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	default:
		return false
	}
}

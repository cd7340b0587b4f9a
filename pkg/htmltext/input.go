package htmltext

import (
	"strings"
	"unicode/utf8"
)

const (
	// EOF is reported by Peek once the stream is closed and fully consumed.
	EOF rune = -1
	// EndOfBuffer is reported by Peek when the buffered text is consumed but
	// the stream is still open.
	EndOfBuffer rune = -2
)

// compactThreshold is the consumed prefix size that triggers buffer compaction.
const compactThreshold = 16 * 1024

// InputStream is a pull-based character cursor over appended text segments.
// Line endings are normalized on append: "\r\n" and a lone '\r' both become
// '\n', including a CRLF pair split across two segments.
type InputStream struct {
	buf        []byte
	pushed     []rune
	pos        int
	position   Position
	prevColumn int
	skipLF     bool
	closed     bool
}

// NewInputStream returns an empty, open stream.
func NewInputStream() *InputStream {
	return &InputStream{position: startPosition()}
}

// Reset empties the stream and reopens it.
func (s *InputStream) Reset() {
	if s == nil {
		return
	}
	s.buf = s.buf[:0]
	s.pushed = s.pushed[:0]
	s.pos = 0
	s.position = startPosition()
	s.prevColumn = 0
	s.skipLF = false
	s.closed = false
}

// Append adds a decoded text segment to the end of the stream.
// Appending to a closed stream is ignored.
func (s *InputStream) Append(text string) {
	if s == nil || s.closed || text == "" {
		return
	}
	s.compact()
	if !s.skipLF && strings.IndexByte(text, '\r') < 0 {
		s.buf = append(s.buf, text...)
		return
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '\r':
			s.buf = append(s.buf, '\n')
			s.skipLF = true
			continue
		case '\n':
			if s.skipLF {
				s.skipLF = false
				continue
			}
		}
		s.skipLF = false
		s.buf = append(s.buf, c)
	}
}

// Close marks the end of input. Peek reports EOF once buffered text is consumed.
func (s *InputStream) Close() {
	if s == nil {
		return
	}
	s.closed = true
}

// Closed reports whether Close has been called.
func (s *InputStream) Closed() bool {
	return s != nil && s.closed
}

// Buffered reports the number of unread bytes, including pushed-back characters.
func (s *InputStream) Buffered() int {
	if s == nil {
		return 0
	}
	n := len(s.buf) - s.pos
	for _, r := range s.pushed {
		n += utf8.RuneLen(r)
	}
	return n
}

// Position returns the position of the next character to be consumed.
func (s *InputStream) Position() Position {
	if s == nil {
		return Position{}
	}
	return s.position
}

// Peek returns the character offset positions ahead of the cursor without
// consuming it, or EOF/EndOfBuffer when the stream has no such character.
func (s *InputStream) Peek(offset int) rune {
	if s == nil {
		return EOF
	}
	if offset < len(s.pushed) {
		return s.pushed[len(s.pushed)-1-offset]
	}
	offset -= len(s.pushed)
	for i := s.pos; ; {
		if i >= len(s.buf) {
			if s.closed {
				return EOF
			}
			return EndOfBuffer
		}
		r, size := utf8.DecodeRune(s.buf[i:])
		if offset == 0 {
			return r
		}
		offset--
		i += size
	}
}

// Advance consumes n characters. It stops early at the end of buffered text.
func (s *InputStream) Advance(n int) {
	if s == nil {
		return
	}
	for ; n > 0; n-- {
		var (
			r    rune
			size int
		)
		if last := len(s.pushed) - 1; last >= 0 {
			r = s.pushed[last]
			s.pushed = s.pushed[:last]
			size = utf8.RuneLen(r)
		} else {
			if s.pos >= len(s.buf) {
				return
			}
			r, size = utf8.DecodeRune(s.buf[s.pos:])
			s.pos += size
		}
		s.position.Offset += int64(size)
		s.prevColumn = s.position.Column
		if r == '\n' {
			s.position.Line++
			s.position.Column = 1
		} else {
			s.position.Column++
		}
	}
}

// PushBack returns r to the front of the stream so the next Peek reports it.
// Position tracking assumes r is the character most recently consumed; only a
// single character of push-back restores the column exactly across a newline.
func (s *InputStream) PushBack(r rune) {
	if s == nil || r < 0 {
		return
	}
	s.pushed = append(s.pushed, r)
	s.position.Offset -= int64(utf8.RuneLen(r))
	if r == '\n' {
		s.position.Line--
		s.position.Column = s.prevColumn
		return
	}
	if s.position.Column > 1 {
		s.position.Column--
	}
}

func (s *InputStream) compact() {
	if s.pos < compactThreshold || s.pos < len(s.buf)/2 {
		return
	}
	n := copy(s.buf, s.buf[s.pos:])
	s.buf = s.buf[:n]
	s.pos = 0
}

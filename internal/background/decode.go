package background

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jacoelho/markup/pkg/htmltext"
)

// sniffLen is how many leading bytes are held back to sniff the encoding.
const sniffLen = 1024

// streamWriter appends decoded text to an input stream.
type streamWriter struct {
	in *htmltext.InputStream
}

func (w streamWriter) Write(p []byte) (int, error) {
	w.in.Append(string(p))
	return len(p), nil
}

// textDecoder turns bytes into text for the input stream. Partial multi-byte
// sequences are carried across writes by the transform writer; invalid
// sequences become U+FFFD.
type textDecoder struct {
	w     *transform.Writer
	out   streamWriter
	sniff []byte
	label string
	name  string
}

func newTextDecoder(in *htmltext.InputStream, label string) (*textDecoder, error) {
	d := &textDecoder{out: streamWriter{in: in}, label: label}
	if label == "" {
		return d, nil
	}
	enc, name := charset.Lookup(label)
	if enc == nil {
		return nil, fmt.Errorf("unknown encoding %q", label)
	}
	d.use(enc, name)
	return d, nil
}

// Name returns the canonical encoding name, or "" while still sniffing.
func (d *textDecoder) Name() string {
	return d.name
}

func (d *textDecoder) use(enc encoding.Encoding, name string) {
	d.name = name
	if name == "utf-8" {
		// Nop is returned by sniffing for UTF-8; it would let invalid bytes through.
		enc = unicode.UTF8
	}
	d.w = transform.NewWriter(d.out, unicode.BOMOverride(enc.NewDecoder()))
}

func (d *textDecoder) Write(p []byte) error {
	if d.w == nil {
		d.sniff = append(d.sniff, p...)
		if len(d.sniff) < sniffLen {
			return nil
		}
		d.determine()
		p, d.sniff = d.sniff, nil
	}
	_, err := d.w.Write(p)
	return err
}

// Close flushes any trailing partial sequence as U+FFFD.
func (d *textDecoder) Close() error {
	if d.w == nil {
		d.determine()
		p := d.sniff
		d.sniff = nil
		if _, err := d.w.Write(p); err != nil {
			return err
		}
	}
	return d.w.Close()
}

func (d *textDecoder) determine() {
	enc, name, certain := charset.DetermineEncoding(d.sniff, "")
	if !certain && name == "windows-1252" && isASCII(d.sniff) {
		enc, name = unicode.UTF8, "utf-8"
	}
	d.use(enc, name)
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

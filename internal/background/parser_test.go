package background

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/jacoelho/markup/pkg/htmltext"
)

type collector struct {
	chunks []*Chunk
	mu     sync.Mutex
}

func (c *collector) sink(chunk *Chunk) {
	c.mu.Lock()
	c.chunks = append(c.chunks, chunk)
	c.mu.Unlock()
}

func (c *collector) snapshot() []*Chunk {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Chunk(nil), c.chunks...)
}

func (c *collector) waitFor(t *testing.T, n int) []*Chunk {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if got := c.snapshot(); len(got) >= n {
			return got
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d chunks, have %d", n, len(c.snapshot()))
	return nil
}

func startParser(t *testing.T, opts ...Option) (*Parser, *collector) {
	t.Helper()
	c := &collector{}
	opts = append([]Option{WithTokenizerOptions(htmltext.TrackPositions(false))}, opts...)
	p, err := New(c.sink, opts...)
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	p.Start()
	t.Cleanup(p.Stop)
	return p, c
}

func waitDone(t *testing.T, p *Parser) {
	t.Helper()
	select {
	case <-p.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("worker did not exit")
	}
}

func parse(t *testing.T, segments []string, opts ...Option) []*Chunk {
	t.Helper()
	p, c := startParser(t, opts...)
	for _, seg := range segments {
		p.OnBytes([]byte(seg))
	}
	p.OnComplete()
	waitDone(t, p)
	return c.snapshot()
}

func flatten(chunks []*Chunk) []htmltext.CompactToken {
	var out []htmltext.CompactToken
	for _, c := range chunks {
		for _, tok := range c.Tokens {
			if n := len(out); n > 0 && tok.Kind == htmltext.KindCharacter && out[n-1].Kind == htmltext.KindCharacter {
				out[n-1].Data += tok.Data
				continue
			}
			out = append(out, tok)
		}
	}
	return out
}

func names(chunk *Chunk) []string {
	out := make([]string, 0, len(chunk.Tokens))
	for _, tok := range chunk.Tokens {
		out = append(out, tok.String())
	}
	return out
}

func TestChunkingAtBound(t *testing.T) {
	p, c := startParser(t)
	p.OnBytes([]byte(strings.Repeat("<a></a>", 2500)))

	chunks := c.waitFor(t, 5)
	if len(chunks) != 5 {
		t.Fatalf("chunks = %d, want 5", len(chunks))
	}
	for i, chunk := range chunks {
		if chunk.Seq != uint64(i+1) {
			t.Fatalf("chunk %d seq = %d, want %d", i, chunk.Seq, i+1)
		}
		if chunk.Len() != DefaultChunkSize {
			t.Fatalf("chunk %d len = %d, want %d", i, chunk.Len(), DefaultChunkSize)
		}
		for j, tok := range chunk.Tokens {
			want := htmltext.KindStartTag
			if j%2 == 1 {
				want = htmltext.KindEndTag
			}
			if tok.Kind != want || tok.Name != "a" {
				t.Fatalf("chunk %d token %d = %v, want %v a", i, j, tok, want)
			}
		}
	}

	p.OnComplete()
	waitDone(t, p)
	chunks = c.snapshot()
	if len(chunks) != 6 {
		t.Fatalf("chunks after complete = %d, want 6", len(chunks))
	}
	last := chunks[5]
	if last.Len() != 1 || last.Tokens[0].Kind != htmltext.KindEndOfFile {
		t.Fatalf("last chunk = %v, want only EndOfFile", names(last))
	}
	if got := p.Stats(); got.Chunks != 6 || got.Tokens != 5001 {
		t.Fatalf("stats = %+v, want 6 chunks 5001 tokens", got)
	}
}

func TestScriptEndFlushes(t *testing.T) {
	chunks := parse(t, []string{"<script>if (a < b) x()</script><p>"})
	got := make([][]string, 0, len(chunks))
	for _, chunk := range chunks {
		got = append(got, names(chunk))
	}
	want := [][]string{
		{"StartTag(script)", `Character("if (a < b) x()")`, "EndTag(script)"},
		{"StartTag(p)", "EndOfFile"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("chunks mismatch (-want +got):\n%s", diff)
	}
}

func TestEarlyResourceBatching(t *testing.T) {
	chunks := parse(t, []string{`<link rel=import href=a><link REL="Import" href=b><p>x`})
	got := make([][]string, 0, len(chunks))
	for _, chunk := range chunks {
		got = append(got, names(chunk))
	}
	want := [][]string{
		{`StartTag(link rel="import" href="a")`, `StartTag(link rel="Import" href="b")`},
		{"StartTag(p)", `Character("x")`, "EndOfFile"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("chunks mismatch (-want +got):\n%s", diff)
	}
}

func TestEarlyResourceDisabled(t *testing.T) {
	chunks := parse(t, []string{`<link rel=import href=a><p>`}, WithEarlyResource(nil))
	if len(chunks) != 1 || chunks[0].Len() != 3 {
		t.Fatalf("chunks = %d, want one chunk of 3 tokens", len(chunks))
	}
}

func TestSplitInputDecoding(t *testing.T) {
	tests := []struct {
		name     string
		segments []string
		opts     []Option
		want     []htmltext.CompactToken
	}{
		{
			name:     "utf-8 split rune",
			segments: []string{"<p>\xc3", "\xa9</p>"},
			opts:     []Option{WithEncoding("utf-8")},
			want: []htmltext.CompactToken{
				{Kind: htmltext.KindStartTag, Name: "p"},
				{Kind: htmltext.KindCharacter, Data: "é"},
				{Kind: htmltext.KindEndTag, Name: "p"},
				{Kind: htmltext.KindEndOfFile},
			},
		},
		{
			name:     "entity split",
			segments: []string{"a&am", "p;b"},
			opts:     []Option{WithEncoding("utf-8")},
			want: []htmltext.CompactToken{
				{Kind: htmltext.KindCharacter, Data: "a&b"},
				{Kind: htmltext.KindEndOfFile},
			},
		},
		{
			name:     "invalid bytes replaced",
			segments: []string{"x\xffy\xe2"},
			opts:     []Option{WithEncoding("utf-8")},
			want: []htmltext.CompactToken{
				{Kind: htmltext.KindCharacter, Data: "x�y�"},
				{Kind: htmltext.KindEndOfFile},
			},
		},
		{
			name:     "windows-1252",
			segments: []string{"caf\xe9"},
			opts:     []Option{WithEncoding("latin1")},
			want: []htmltext.CompactToken{
				{Kind: htmltext.KindCharacter, Data: "café"},
				{Kind: htmltext.KindEndOfFile},
			},
		},
		{
			name:     "sniffed utf-8 bom",
			segments: []string{"\xef\xbb", "\xbfhi"},
			want: []htmltext.CompactToken{
				{Kind: htmltext.KindCharacter, Data: "hi"},
				{Kind: htmltext.KindEndOfFile},
			},
		},
		{
			name:     "sniffed utf-16le bom",
			segments: []string{"\xff\xfeh\x00i\x00"},
			want: []htmltext.CompactToken{
				{Kind: htmltext.KindCharacter, Data: "hi"},
				{Kind: htmltext.KindEndOfFile},
			},
		},
		{
			name:     "sniffed ascii",
			segments: []string{"<b>", "ok"},
			want: []htmltext.CompactToken{
				{Kind: htmltext.KindStartTag, Name: "b"},
				{Kind: htmltext.KindCharacter, Data: "ok"},
				{Kind: htmltext.KindEndOfFile},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := flatten(parse(t, tt.segments, tt.opts...))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnknownEncoding(t *testing.T) {
	if _, err := New(func(*Chunk) {}, WithEncoding("no-such-charset")); err == nil {
		t.Fatalf("New error = nil, want unknown encoding error")
	}
	if _, err := New(nil); err == nil {
		t.Fatalf("New(nil) error = nil, want error")
	}
}

func TestStopDiscardsQueuedWork(t *testing.T) {
	c := &collector{}
	p, err := New(c.sink)
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	p.OnBytes([]byte("<p>queued"))
	p.OnComplete()
	p.Stop()
	p.Stop()
	p.Start()
	waitDone(t, p)
	if got := c.snapshot(); len(got) != 0 {
		t.Fatalf("chunks after Stop = %d, want 0", len(got))
	}
	p.OnBytes([]byte("ignored"))
}

func TestHandleRevoke(t *testing.T) {
	p, err := New(func(*Chunk) {})
	if err != nil {
		t.Fatalf("New error = %v", err)
	}
	h := NewHandle(p)
	if !h.Valid() || h.Get() != p {
		t.Fatalf("new handle does not reference parser")
	}
	if got := h.Revoke(); got != p {
		t.Fatalf("Revoke = %p, want %p", got, p)
	}
	if h.Valid() || h.Get() != nil {
		t.Fatalf("revoked handle still valid")
	}
	if got := h.Revoke(); got != nil {
		t.Fatalf("second Revoke = %p, want nil", got)
	}
	var nilHandle *Handle
	if nilHandle.Get() != nil || nilHandle.Revoke() != nil {
		t.Fatalf("nil handle returned a parser")
	}
}

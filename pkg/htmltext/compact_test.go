package htmltext

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompactTokenOwnsData(t *testing.T) {
	in := NewInputStream()
	in.Append(`<a href="one">text`)
	in.Close()
	tz := NewTokenizer()
	var tok Token

	if !tz.Next(in, &tok) {
		t.Fatalf("Next = false, want start tag")
	}
	tag := NewCompactToken(&tok)
	if !tz.Next(in, &tok) {
		t.Fatalf("Next = false, want characters")
	}
	text := NewCompactToken(&tok)

	// Overwrite the scratch buffers in place.
	tok.Reset()
	tok.beginTag(KindStartTag, Position{})
	tok.appendName('z')
	tok.beginAttribute()
	tok.appendAttrName('q')

	want := CompactToken{
		Kind:  KindStartTag,
		Name:  "a",
		Attrs: []Attr{{Name: "href", Value: "one"}},
		Pos:   Position{Offset: 0, Line: 1, Column: 1},
	}
	if diff := cmp.Diff(want, tag); diff != "" {
		t.Fatalf("start tag changed (-want +got):\n%s", diff)
	}
	if text.Data != "text" {
		t.Fatalf("text = %q, want text", text.Data)
	}
	if value, ok := tag.Attr("href"); !ok || value != "one" {
		t.Fatalf("Attr(href) = %q, %v, want one, true", value, ok)
	}
	if _, ok := tag.Attr("missing"); ok {
		t.Fatalf("Attr(missing) found, want absent")
	}
}

func TestCompactTokenString(t *testing.T) {
	tests := []struct {
		tok  CompactToken
		want string
	}{
		{tok: start("div", Attr{Name: "id", Value: "x"}), want: `StartTag(div id="x")`},
		{tok: CompactToken{Kind: KindStartTag, Name: "br", SelfClosing: true}, want: `StartTag(br /)`},
		{tok: end("p"), want: `EndTag(p)`},
		{tok: chars("a\nb"), want: `Character("a\nb")`},
		{tok: eof, want: `EndOfFile`},
	}
	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Fatalf("String = %q, want %q", got, tt.want)
		}
	}
}

func TestNewCompactTokenNil(t *testing.T) {
	if got := NewCompactToken(nil); got.Kind != KindNone {
		t.Fatalf("kind = %v, want %v", got.Kind, KindNone)
	}
}

func TestJoinOptions(t *testing.T) {
	opts := JoinOptions(
		TrackPositions(false),
		MaxEntityNameLength(4),
		MaxTokenSize(10),
		TrackPositions(true),
		MaxTokenSize(-1),
	)
	got := resolveOptions(opts)
	want := tokenizerOptions{trackPositions: true, maxEntityNameLength: 4}
	if got != want {
		t.Fatalf("resolved = %+v, want %+v", got, want)
	}
	if got := resolveOptions(Options{}); got.maxEntityNameLength != defaultMaxEntityNameLength || !got.trackPositions {
		t.Fatalf("defaults = %+v", got)
	}
}

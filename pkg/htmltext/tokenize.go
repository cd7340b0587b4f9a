package htmltext

// Tokenize runs the tokenizer over src to completion and returns every token,
// ending with EndOfFile. Start tags of raw-text elements switch the tokenizer
// into raw-text mode the same way the background parser does.
func Tokenize(src string, opts ...Options) []CompactToken {
	in := NewInputStream()
	in.Append(src)
	in.Close()
	tz := NewTokenizer(opts...)
	var (
		tok Token
		out []CompactToken
	)
	for tz.Next(in, &tok) {
		out = append(out, NewCompactToken(&tok))
		SwitchMode(tz, &tok)
	}
	return out
}

// SwitchMode enters raw-text mode when tok is the start tag of a raw-text
// element. Drivers call it after every token they take from Next.
func SwitchMode(tz *Tokenizer, tok *Token) bool {
	if tok.kind != KindStartTag || !IsRawTextElement(tok.name) {
		return false
	}
	tz.EnterRawData(string(tok.name))
	return true
}

// Package htmltext provides a lenient, resumable markup tokenizer.
//
// Text is appended to an InputStream as it is decoded; a Tokenizer pulls
// characters from the stream and fills a reusable scratch Token. When the
// buffered text runs out before the stream is closed, Next returns false and
// the tokenizer keeps its state until more text arrives. CompactToken is the
// owned snapshot of a scratch token that can be handed to another goroutine.
//
// Malformed input never produces an error: unterminated tags are emitted at
// end of input, unmatched '<' becomes literal text and comments are dropped.
package htmltext

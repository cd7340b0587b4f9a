// Package markup parses a stream of markup bytes into structural tokens.
//
// Lexing runs on a background goroutine that decodes the input, tokenizes it
// and hands over batches of tokens. A DocumentParser delivers those tokens to a
// TreeBuilder on the host event loop, suspending while a parser-blocking script
// runs or early resources load and yielding to the loop on a time budget.
//
// For synchronous tokenization of an in-memory document use
// htmltext.Tokenize.
package markup

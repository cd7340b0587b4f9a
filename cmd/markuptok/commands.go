package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"

	"github.com/jacoelho/markup"
	"github.com/jacoelho/markup/internal/eventloop"
	harness "github.com/jacoelho/markup/internal/testing"
	"github.com/jacoelho/markup/pkg/htmlstream"
	"github.com/jacoelho/markup/pkg/htmltext"
)

func newTokensCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Tokenize a document synchronously, one token per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := e.load(cmd)
			if err != nil {
				return err
			}
			content, err := readText(args[0])
			if err != nil {
				return err
			}
			text, err := decodeText(content, cfg.Encoding)
			if err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}
			opts := htmltext.JoinOptions(
				htmltext.MaxTokenSize(cfg.MaxTokenSize),
				htmltext.TrackPositions(cfg.TrackPositions),
			)
			for _, tok := range htmltext.Tokenize(text, opts) {
				if cfg.TrackPositions {
					err = writef(e.stdout, "%s\t%s\n", tok.Pos, tok.String())
				} else {
					err = writeln(e.stdout, tok.String())
				}
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func decodeText(content []byte, label string) (string, error) {
	var (
		r   io.Reader
		err error
	)
	if label != "" {
		r, err = charset.NewReaderLabel(label, bytes.NewReader(content))
	} else {
		r, err = charset.NewReader(bytes.NewReader(content), "")
	}
	if err != nil {
		return "", err
	}
	text, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(text), nil
}

func newParseCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Run the background pipeline and print every delivered token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, opts, err := e.parserOptions(cmd)
			if err != nil {
				return err
			}
			content, err := readText(args[0])
			if err != nil {
				return err
			}
			stats, err := parseDocument(cmd.Context(), content, opts, e.stdout)
			if err != nil {
				return err
			}
			return writef(e.stdout, "chunks=%d tokens=%d pumps=%d yields=%d scripts=%d names=%d\n",
				stats.Chunks, stats.Tokens, stats.Pumps, stats.Yields, stats.Scripts, stats.Names.Count)
		},
	}
}

// printer writes tokens and plays the script host: every </script> blocks
// the parser until a goroutine reports the script as executed.
type printer struct {
	out     io.Writer
	logger  *slog.Logger
	parser  *markup.DocumentParser
	err     error
	pending bool
}

func (p *printer) ConstructTree(tok *htmlstream.Token) {
	if tok.IsEndTag(atom.Script) {
		p.pending = true
	}
	if p.err == nil {
		p.err = writeln(p.out, tok.String())
	}
	if p.err != nil {
		p.parser.Stop()
	}
}

func (p *printer) HasParserBlockingScript() bool { return p.pending }

func (p *printer) TakeScriptToProcess() (markup.ScriptHandle, htmltext.Position) {
	p.pending = false
	return nil, htmltext.Position{}
}

func (p *printer) RunScript(_ markup.ScriptHandle, pos htmltext.Position) {
	p.logger.Info("run script", "position", pos.String())
	go p.parser.ScriptExecutionCompleted()
}

func parseDocument(ctx context.Context, content []byte, opts markup.ParserOptions, out io.Writer) (markup.Stats, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger()
	loop := eventloop.New(eventloop.WithLogger(logger))
	host := &printer{out: out, logger: logger}
	p, err := markup.New(loop, host, opts.WithScriptHost(host))
	if err != nil {
		return markup.Stats{}, err
	}
	host.parser = p
	defer p.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	readErr := make(chan error, 1)
	go func() {
		readErr <- p.ParseReader(ctx, bytes.NewReader(content))
	}()
	go func() {
		select {
		case <-p.Done():
		case <-ctx.Done():
		}
		loop.Close()
	}()
	if err := loop.Run(ctx); err != nil {
		return markup.Stats{}, err
	}
	if err := <-readErr; err != nil {
		return markup.Stats{}, err
	}
	if host.err != nil {
		return markup.Stats{}, host.err
	}
	return p.Stats(), nil
}

func newVerifyCmd(e *env) *cobra.Command {
	var sizes []int
	cmd := &cobra.Command{
		Use:   "verify <file>",
		Short: "Check that the pipeline matches synchronous tokenization for split input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, opts, err := e.parserOptions(cmd)
			if err != nil {
				return err
			}
			content, err := readText(args[0])
			if err != nil {
				return err
			}
			text, err := decodeText(content, opts.Encoding())
			if err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}
			// Both sides see the same decoded text.
			opts = opts.WithEncoding("utf-8")
			for _, size := range sizes {
				tc := harness.NewCase(args[0], []byte(text), size)
				d := harness.Compare(harness.Whole{}, harness.Document{Options: opts}, tc)
				if d.Right.Err != nil {
					return fmt.Errorf("segments of %d: %w", size, d.Right.Err)
				}
				if !d.Equal() {
					diff := cmp.Diff(harness.Normalize(d.Left.Tokens), harness.Normalize(d.Right.Tokens))
					return fmt.Errorf("segments of %d differ (-sync +pipeline):\n%s", size, diff)
				}
				if err := writef(e.stdout, "segments of %d: %d tokens match\n", size, len(harness.Normalize(d.Left.Tokens))); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntSliceVar(&sizes, "segment", []int{0, 1, 7, 512}, "segment sizes in bytes (0 keeps the file whole)")
	return cmd
}

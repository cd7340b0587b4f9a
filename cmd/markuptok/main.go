package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"

	"github.com/jacoelho/markup"
	"github.com/jacoelho/markup/internal/config"
	"github.com/jacoelho/markup/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	return runWithArgs(os.Args[1:], os.Stdout, os.Stderr)
}

func runWithArgs(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		if writeErr := writef(stderr, "error: %v\n", err); writeErr != nil {
			return 1
		}
		return 1
	}
	return 0
}

// settings holds the persistent flags. Flags left unset fall back to the
// configuration file.
type settings struct {
	configPath  string
	encoding    string
	logLevel    string
	chunkSize   int
	chunkTokens int
	timeLimit   time.Duration
	logJSON     bool
	logJournal  bool
}

type env struct {
	stdout io.Writer
	stderr io.Writer
	flags  settings
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	e := &env{stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:           "markuptok",
		Short:         "Tokenize markup documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	f := root.PersistentFlags()
	f.StringVar(&e.flags.configPath, "config", "", "path to a CUE configuration file")
	f.StringVar(&e.flags.encoding, "encoding", "", "input encoding label (default: sniffed)")
	f.IntVar(&e.flags.chunkSize, "chunk-size", 0, "tokens per background chunk")
	f.IntVar(&e.flags.chunkTokens, "chunk-tokens", 0, "tokens between time checks")
	f.DurationVar(&e.flags.timeLimit, "time-limit", 0, "time budget of one pump pass")
	f.StringVar(&e.flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	f.BoolVar(&e.flags.logJSON, "log-json", false, "log as JSON")
	f.BoolVar(&e.flags.logJournal, "log-journal", false, "also log to the systemd journal")

	root.AddCommand(newTokensCmd(e))
	root.AddCommand(newParseCmd(e))
	root.AddCommand(newVerifyCmd(e))
	return root
}

// load resolves the configuration file and applies flags that were set.
func (e *env) load(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if e.flags.configPath != "" {
		loaded, err := config.Load(e.flags.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	flags := cmd.Flags()
	if flags.Changed("encoding") {
		cfg.Encoding = e.flags.encoding
	}
	if flags.Changed("chunk-size") {
		cfg.ChunkSize = e.flags.chunkSize
	}
	if flags.Changed("chunk-tokens") {
		cfg.ChunkTokens = e.flags.chunkTokens
	}
	if flags.Changed("time-limit") {
		cfg.TimeLimit = e.flags.timeLimit.String()
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = e.flags.logLevel
	}
	if flags.Changed("log-json") && e.flags.logJSON {
		cfg.Log.Format = "json"
	}
	if flags.Changed("log-journal") {
		cfg.Log.Journal = e.flags.logJournal
	}
	return cfg, nil
}

func (e *env) logger(cfg config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)
	return logging.New(logging.Options{
		Writer:  e.stderr,
		Level:   levelVar,
		JSON:    cfg.Log.Format == "json",
		Journal: cfg.Log.Journal,
	}), nil
}

// parserOptions resolves configuration, logger and parser options in one go.
func (e *env) parserOptions(cmd *cobra.Command) (config.Config, markup.ParserOptions, error) {
	cfg, err := e.load(cmd)
	if err != nil {
		return config.Config{}, markup.ParserOptions{}, err
	}
	logger, err := e.logger(cfg)
	if err != nil {
		return config.Config{}, markup.ParserOptions{}, err
	}
	opts, err := cfg.ParserOptions()
	if err != nil {
		return config.Config{}, markup.ParserOptions{}, err
	}
	return cfg, opts.WithLogger(logger), nil
}

// readText reads path and rejects content that is not text.
func readText(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(content) == 0 {
		return content, nil
	}
	mtype := mimetype.Detect(content)
	for t := mtype; t != nil; t = t.Parent() {
		if t.Is("text/plain") {
			return content, nil
		}
	}
	return nil, fmt.Errorf("%s is %s, not text", path, mtype.String())
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}

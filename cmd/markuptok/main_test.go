package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := runWithArgs(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestTokensCommand(t *testing.T) {
	path := writeFile(t, "doc.html", []byte(`<p class=x>hi</p>`))
	code, stdout, stderr := runCLI(t, "tokens", path)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0 (stderr %q)", code, stderr)
	}
	want := strings.Join([]string{
		"1:1\tStartTag(p class=\"x\")",
		"1:12\tCharacter(\"hi\")",
		"1:14\tEndTag(p)",
		"1:18\tEndOfFile",
	}, "\n") + "\n"
	if stdout != want {
		t.Fatalf("stdout = %q, want %q", stdout, want)
	}
}

func TestTokensCommandWithoutPositions(t *testing.T) {
	path := writeFile(t, "doc.html", []byte(`<b>x</b>`))
	cfg := writeFile(t, "markup.cue", []byte(`trackPositions: false`))
	code, stdout, stderr := runCLI(t, "--config", cfg, "tokens", path)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0 (stderr %q)", code, stderr)
	}
	want := "StartTag(b)\nCharacter(\"x\")\nEndTag(b)\nEndOfFile\n"
	if stdout != want {
		t.Fatalf("stdout = %q, want %q", stdout, want)
	}
}

func TestTokensCommandEncoding(t *testing.T) {
	path := writeFile(t, "latin1.html", []byte("caf\xe9"))
	cfg := writeFile(t, "markup.cue", []byte(`trackPositions: false`))
	code, stdout, stderr := runCLI(t, "--config", cfg, "--encoding", "latin1", "tokens", path)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0 (stderr %q)", code, stderr)
	}
	if want := "Character(\"café\")\nEndOfFile\n"; stdout != want {
		t.Fatalf("stdout = %q, want %q", stdout, want)
	}
}

func TestParseCommandRunsScripts(t *testing.T) {
	path := writeFile(t, "doc.html", []byte(`<script>go()</script><p>after</p>`))
	code, stdout, stderr := runCLI(t, "--chunk-size", "2", "parse", path)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0 (stderr %q)", code, stderr)
	}
	want := strings.Join([]string{
		"StartTag(script)",
		`Character("go()")`,
		"EndTag(script)",
		"StartTag(p)",
		`Character("after")`,
		"EndTag(p)",
		"EndOfFile",
	}, "\n") + "\n"
	if !strings.HasPrefix(stdout, want) {
		t.Fatalf("stdout = %q, want prefix %q", stdout, want)
	}
	if !strings.Contains(stdout, "tokens=7") || !strings.Contains(stdout, "scripts=1") {
		t.Fatalf("stdout = %q, want stats with 7 tokens and 1 script", stdout)
	}
}

func TestVerifyCommand(t *testing.T) {
	path := writeFile(t, "doc.html", []byte("<div a=1>x &amp; y<!-- c --><script>a</b</script>\r\nz</div>"))
	code, stdout, stderr := runCLI(t, "verify", "--segment", "0,1,3", path)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0 (stderr %q)", code, stderr)
	}
	if got := strings.Count(stdout, "tokens match"); got != 3 {
		t.Fatalf("stdout = %q, want 3 matching runs", stdout)
	}
}

func TestRejectsBinaryInput(t *testing.T) {
	path := writeFile(t, "image.png", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	code, _, stderr := runCLI(t, "tokens", path)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "not text") {
		t.Fatalf("stderr = %q, want not text error", stderr)
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "missing file argument", args: []string{"tokens"}, want: "accepts 1 arg"},
		{name: "missing file", args: []string{"tokens", filepath.Join(t.TempDir(), "nope.html")}, want: "nope.html"},
		{name: "bad log level", args: []string{"--log-level", "loud", "parse", "x"}, want: "log level"},
		{name: "bad config", args: []string{"--config", filepath.Join(t.TempDir(), "missing.cue"), "parse", "x"}, want: "missing.cue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			if code != 1 {
				t.Fatalf("exit code = %d, want 1", code)
			}
			if !strings.Contains(stderr, tt.want) {
				t.Fatalf("stderr = %q, want it to contain %q", stderr, tt.want)
			}
		})
	}
}

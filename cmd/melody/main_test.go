package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"melody/internal/diagfmt"
	"melody/internal/driver"
)

// run executes the CLI in dir and returns stdout, stderr and the error.
func run(t *testing.T, dir, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(dir)
	a := &app{}
	root := newRootCmd(a)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	a.finish(io.Discard, err != nil)
	return out.String(), errOut.String(), err
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestCheckReportsErrors(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"ok.twig":         "<div>{{ a }}</div>",
		"pages/bad.twig":  "<p>{{ a is evn }}</p>",
		"notes/skip.html": "{{",
	})
	out, errOut, err := run(t, dir, "", "check", "--format", "short", "--ui", "off", ".")
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("err = %v", err)
	}
	if !strings.HasPrefix(out, "error SYN2003 pages/bad.twig:1:") {
		t.Fatalf("stdout:\n%s", out)
	}
	if strings.Count(strings.TrimSpace(out), "\n") != 0 {
		t.Fatalf("want a single diagnostic, got:\n%s", out)
	}
	if errOut != "" {
		t.Fatalf("unexpected stderr:\n%s", errOut)
	}
}

func TestCheckPrettySummary(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.twig": "<div></span>",
		"b.twig": "ok",
	})
	out, errOut, err := run(t, dir, "", "check", "--ui", "off", ".")
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(out, "error[SYN2004]") || !strings.Contains(out, "--> a.twig:1:") {
		t.Fatalf("stdout:\n%s", out)
	}
	if strings.TrimSpace(errOut) != "checked 2 templates, 1 failed" {
		t.Fatalf("stderr: %q", errOut)
	}
}

func TestCheckCleanJSON(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.twig": "{% if x %}{{ x }}{% endif %}"})
	out, _, err := run(t, dir, "", "check", "--format", "json", ".")
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	var report diagfmt.DiagnosticsOutput
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if report.Count != 0 || len(report.Diagnostics) != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestCheckUsesConfig(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"melody.toml":    "[check]\nextensions = [\".html\"]\n",
		"page.html":      "{{ a is evn }}",
		"ignored.twig":   "{{",
		"vendor/x.html":  "{{",
		"melody.alt.yml": "check:\n  exclude: [vendor]\n  extensions: [html]\n",
	})
	out, _, err := run(t, dir, "", "check", "--format", "short", "--ui", "off", ".")
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(out, "page.html") || strings.Contains(out, "ignored.twig") {
		t.Fatalf("toml config not applied:\n%s", out)
	}

	out, _, err = run(t, dir, "", "--config", "melody.alt.yml", "check", "--format", "short", "--ui", "off", ".")
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("err = %v", err)
	}
	if strings.Contains(out, "vendor") || !strings.Contains(out, "page.html") {
		t.Fatalf("yaml config not applied:\n%s", out)
	}
}

func TestCheckBadConfig(t *testing.T) {
	dir := writeFiles(t, map[string]string{"melody.toml": "[check]\nbogus = 1\n"})
	_, _, err := run(t, dir, "", "check", ".")
	if err == nil || errors.Is(err, errDiagnostics) || !strings.Contains(err.Error(), "bogus") {
		t.Fatalf("err = %v", err)
	}
}

func TestTokenizeStdin(t *testing.T) {
	out, _, err := run(t, t.TempDir(), "hi {{ x }}", "tokenize", "--format", "json", "-")
	if err != nil {
		t.Fatal(err)
	}
	var tokens []diagfmt.TokenOutput
	if err := json.Unmarshal([]byte(out), &tokens); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(tokens) < 2 || tokens[0].Kind != "TEXT" || tokens[len(tokens)-1].Kind != "EOF" {
		t.Fatalf("tokens = %+v", tokens)
	}
}

func TestTokenizeLexError(t *testing.T) {
	_, errOut, err := run(t, t.TempDir(), `{{ "open`, "tokenize", "-")
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(errOut, "error[LEX1002]") || !strings.Contains(errOut, "<stdin>:1:") {
		t.Fatalf("stderr:\n%s", errOut)
	}
}

func TestParseFormats(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.twig": "{{ a + 1 }}"})

	out, _, err := run(t, dir, "", "parse", "--format", "tree", "a.twig")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `BinaryExpression "+"`) || !strings.Contains(out, `Identifier "a"`) {
		t.Fatalf("tree:\n%s", out)
	}

	out, _, err = run(t, dir, "", "parse", "--format", "json", "a.twig")
	if err != nil {
		t.Fatal(err)
	}
	var tree map[string]any
	if err := json.Unmarshal([]byte(out), &tree); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if tree["type"] != "SequenceExpression" {
		t.Fatalf("root = %v", tree["type"])
	}

	out, _, err = run(t, dir, "", "parse", "--format", "json", ".")
	if err != nil {
		t.Fatal(err)
	}
	var trees []fileTree
	if err := json.Unmarshal([]byte(out), &trees); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(trees) != 1 || trees[0].Path != "a.twig" {
		t.Fatalf("trees = %+v", trees)
	}
}

func TestParseErrorFrame(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.twig": "<div>\n{{ a is evn }}\n</div>"})
	out, errOut, err := run(t, dir, "", "parse", "a.twig")
	if !errors.Is(err, errDiagnostics) {
		t.Fatalf("err = %v", err)
	}
	if out != "" {
		t.Fatalf("tree printed for failed parse:\n%s", out)
	}
	for _, want := range []string{"error[SYN2003]", "a.twig:2:", "^", "advice:"} {
		if !strings.Contains(errOut, want) {
			t.Errorf("missing %q in:\n%s", want, errOut)
		}
	}
}

func TestVersionJSON(t *testing.T) {
	out, _, err := run(t, t.TempDir(), "", "version", "--format", "json", "--full")
	if err != nil {
		t.Fatal(err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Tool != "melody" || payload.Version == "" || payload.GitCommit == "" || payload.BuildDate == "" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestVersionIgnoresBrokenConfig(t *testing.T) {
	dir := writeFiles(t, map[string]string{"melody.toml": "not toml ["})
	if _, _, err := run(t, dir, "", "version"); err != nil {
		t.Fatalf("err = %v", err)
	}
}

func TestReadModes(t *testing.T) {
	tests := []struct {
		value string
		ui    uiMode
		color colorMode
		bad   bool
	}{
		{value: "", ui: uiModeAuto, color: colorAuto},
		{value: " ON ", ui: uiModeOn, color: colorOn},
		{value: "off", ui: uiModeOff, color: colorOff},
		{value: "sometimes", bad: true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			ui, uiErr := readUIMode(tt.value)
			color, colorErr := readColorMode(tt.value)
			if tt.bad {
				if uiErr == nil || colorErr == nil {
					t.Fatalf("accepted %q", tt.value)
				}
				return
			}
			if uiErr != nil || colorErr != nil || ui != tt.ui || color != tt.color {
				t.Fatalf("got %q/%q (%v, %v)", ui, color, uiErr, colorErr)
			}
		})
	}
	if shouldUseTUI(uiModeAuto, nil) || !shouldUseTUI(uiModeOn, nil) {
		t.Fatal("shouldUseTUI")
	}
}

func TestBadColorFlag(t *testing.T) {
	_, _, err := run(t, t.TempDir(), "", "--color", "rainbow", "version")
	if err == nil || !strings.Contains(err.Error(), "--color") {
		t.Fatalf("err = %v", err)
	}
}

func TestCheckSummary(t *testing.T) {
	results := []driver.ParseResult{{Cached: true}, {}}
	if got := checkSummary(results); got != "checked 2 templates, 0 failed (1 cached)" {
		t.Fatalf("got %q", got)
	}
	if got := checkSummary(results[:1]); got != "checked 1 template, 0 failed (1 cached)" {
		t.Fatalf("got %q", got)
	}
}

func TestProgressCounter(t *testing.T) {
	a := &app{}
	if a.progress() != "" {
		t.Fatal("progress before check started")
	}
	a.total.Store(3)
	a.observe(driver.Event{File: "a.twig", Stage: driver.StageLex})
	a.observe(driver.Event{File: "a.twig", Stage: driver.StageDone})
	a.observe(driver.Event{File: "b.twig", Stage: driver.StageFailed, Cached: true})
	if got := a.progress(); got != "2/3 templates" {
		t.Fatalf("got %q", got)
	}
}

package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"melody/internal/ast"
	"melody/internal/diag"
	"melody/internal/source"
	"melody/internal/token"
)

func pos(index, line, col int) source.Position {
	return source.Position{Index: index, Line: line, Column: col}
}

func sampleBag() *diag.Bag {
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SynUnknownTest, "a.twig", source.Loc(pos(8, 1, 8), pos(11, 1, 11)), `unknown test "evn"`).
		WithAdvice(`Did you mean "even"?`))
	bag.Add(diag.NewError(diag.SynUnclosedElement, "b.twig", source.Loc(pos(0, 2, 0), pos(5, 2, 5)), `unclosed element "div"`))
	return bag
}

func TestPretty(t *testing.T) {
	var buf bytes.Buffer
	if err := Pretty(&buf, sampleBag(), PrettyOpts{ShowFrame: true}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		`error[SYN2003]: unknown test "evn"`,
		"  --> a.twig:1:9",
		`  advice: Did you mean "even"?`,
		"  --> b.twig:2:1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("unexpected escape codes:\n%s", out)
	}
}

func TestPrettyMax(t *testing.T) {
	var buf bytes.Buffer
	if err := Pretty(&buf, sampleBag(), PrettyOpts{Max: 1}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "... and 1 more") {
		t.Fatalf("no overflow line:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "b.twig") {
		t.Fatalf("second diagnostic printed:\n%s", buf.String())
	}
}

func TestPaintFrame(t *testing.T) {
	frame := "  1 | {{ a is evn }}\n>  1 | x\n    |    ^^^\n"
	st := newStyles(false)
	if got := paintFrame(frame, st); got != frame {
		t.Fatalf("uncoloured frame changed:\n%q\n%q", got, frame)
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sampleBag(), JSONOpts{IncludePositions: true, Max: 1}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || out.Dropped != 1 {
		t.Fatalf("count=%d dropped=%d", out.Count, out.Dropped)
	}
	d := out.Diagnostics[0]
	if d.Code != "SYN2003" || d.Severity != "ERROR" || d.Advice == "" {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if d.Location.StartLine != 1 || d.Location.StartCol != 9 || d.Location.EndByte != 11 {
		t.Fatalf("unexpected location %+v", d.Location)
	}
}

func TestShort(t *testing.T) {
	var buf bytes.Buffer
	if err := Short(&buf, sampleBag(), false); err != nil {
		t.Fatal(err)
	}
	want := "error SYN2003 a.twig:1:9 unknown test \"evn\"\n" +
		"error SYN2005 b.twig:2:1 unclosed element \"div\"\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestFormatTokens(t *testing.T) {
	tokens := []token.Token{
		{Kind: token.Text, Text: "hi", Pos: pos(0, 1, 0), End: pos(2, 1, 2)},
		{Kind: token.EOF, Pos: pos(2, 1, 2), End: pos(2, 1, 2)},
		{Kind: token.Text, Text: "after eof"},
	}
	var pretty bytes.Buffer
	if err := FormatTokensPretty(&pretty, tokens); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(pretty.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got:\n%s", pretty.String())
	}
	if !strings.Contains(lines[0], `TEXT`) || !strings.HasSuffix(lines[0], `"hi" at 1:1-1:3`) {
		t.Fatalf("unexpected line %q", lines[0])
	}

	var js bytes.Buffer
	if err := FormatTokensJSON(&js, tokens); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(js.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].Kind != "TEXT" || out[0].Location.End.Index != 2 || out[1].Kind != "EOF" {
		t.Fatalf("unexpected tokens %+v", out)
	}
}

func sampleTree() ast.Node {
	return &ast.Sequence{Expressions: []ast.Node{
		&ast.PrintTextStatement{Value: &ast.StringLiteral{Value: "hi"}},
		&ast.PrintExpressionStatement{Value: &ast.Identifier{Name: "x"}},
	}}
}

func TestFormatASTJSON(t *testing.T) {
	concat := &ast.BinaryConcatExpression{
		BinaryExpression: ast.BinaryExpression{
			Operator: "~",
			Left:     &ast.StringLiteral{Value: "a"},
			Right:    &ast.StringLiteral{Value: "b"},
		},
		WasImplicitConcatenation: true,
	}
	root := sampleTree().(*ast.Sequence)
	root.Add(&ast.PrintExpressionStatement{Value: concat})
	root.Expressions[1].SetTrims(true, false)

	var buf bytes.Buffer
	if err := FormatASTJSON(&buf, root); err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out["type"] != "SequenceExpression" {
		t.Fatalf("root type %v", out["type"])
	}
	exprs := out["expressions"].([]any)
	if len(exprs) != 3 {
		t.Fatalf("want 3 expressions, got %d", len(exprs))
	}
	second := exprs[1].(map[string]any)
	if second["trimLeft"] != true || second["value"].(map[string]any)["name"] != "x" {
		t.Fatalf("unexpected second statement %v", second)
	}
	value := exprs[2].(map[string]any)["value"].(map[string]any)
	if value["type"] != "BinaryConcatExpression" || value["operator"] != "~" || value["wasImplicitConcatenation"] != true {
		t.Fatalf("concat not flattened: %v", value)
	}
	if value["left"].(map[string]any)["value"] != "a" {
		t.Fatalf("left operand %v", value["left"])
	}
	if _, ok := value["loc"].(map[string]any)["start"]; !ok {
		t.Fatalf("missing loc: %v", value["loc"])
	}
}

func TestFormatASTPretty(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatASTPretty(&buf, sampleTree(), "t.twig"); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		`├─ expressions[0]: PrintTextStatement`,
		`│  └─ value: StringLiteral value="hi"`,
		`└─ expressions[1]: PrintExpressionStatement`,
		`   └─ value: Identifier name="x"`,
	}
	if len(lines) != len(want)+1 || !strings.HasPrefix(lines[0], "t.twig (") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
	for i, prefix := range want {
		if !strings.HasPrefix(lines[i+1], prefix) {
			t.Errorf("line %d = %q, want prefix %q", i+1, lines[i+1], prefix)
		}
	}
}

func TestFormatASTTree(t *testing.T) {
	root := &ast.BinaryExpression{
		Operator: "+",
		Left:     &ast.Identifier{Name: "a"},
		Right:    &ast.NumericLiteral{Raw: "1"},
	}
	var buf bytes.Buffer
	if err := FormatASTTree(&buf, root); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("want 3 lines, got:\n%s", buf.String())
	}
	if strings.TrimSpace(lines[0]) != `BinaryExpression "+"` {
		t.Fatalf("root line %q", lines[0])
	}
	if !strings.Contains(lines[1], "/") || !strings.Contains(lines[1], `\`) {
		t.Fatalf("connector line %q", lines[1])
	}
	left := strings.Index(lines[2], `Identifier "a"`)
	right := strings.Index(lines[2], `NumericLiteral "1"`)
	if left < 0 || right <= left {
		t.Fatalf("children line %q", lines[2])
	}
}

func TestRenderTreeWideLabel(t *testing.T) {
	node := &treeNode{label: "a-very-long-root-label", children: []*treeNode{{label: "x"}}}
	block := renderTree(node)
	for i, line := range block.lines {
		if len(line) != block.width {
			t.Errorf("line %d width %d, want %d: %q", i, len(line), block.width, line)
		}
	}
	if block.lines[1][block.root] != '|' {
		t.Fatalf("connector not under root: %q", block.lines[1])
	}
}

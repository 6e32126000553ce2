package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("page.twig", []byte("hello world"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}
	id2 := fs.Add("page.twig", []byte("hello universe"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	// GetLatest указывает на последнюю версию
	latestID, exists := fs.GetLatest("page.twig")
	if !exists || latestID != id2 {
		t.Errorf("Expected latest ID %d, got %d (exists=%v)", id2, latestID, exists)
	}

	// старая версия всё ещё доступна
	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Errorf("Expected first file content 'hello world', got %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Expected 2 files, got %d", fs.Len())
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("a.twig", []byte("a\nb\n")))

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
}

func TestCRLFNormalization(t *testing.T) {
	normalized, changed := normalizeCRLF([]byte("a\r\nb\r\nc\r"))
	if !changed {
		t.Error("Expected CRLF normalization to be detected")
	}
	if string(normalized) != "a\nb\nc\r" {
		t.Errorf("unexpected normalized content %q", normalized)
	}
}

func TestBOMRemoval(t *testing.T) {
	withoutBOM, hadBOM := removeBOM([]byte{0xEF, 0xBB, 0xBF, 'x', '\n'})
	if !hadBOM {
		t.Error("Expected BOM to be detected")
	}
	if string(withoutBOM) != "x\n" {
		t.Errorf("Expected content without BOM %q, got %q", "x\n", withoutBOM)
	}
}

func TestPositionAt(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("p.twig", []byte("αβ\n{{ x }}\n")))

	tests := []struct {
		off  int
		want Position
	}{
		{0, Position{Index: 0, Line: 1, Column: 0}},
		{2, Position{Index: 2, Line: 1, Column: 1}}, // α занимает 2 байта
		{4, Position{Index: 4, Line: 1, Column: 2}}, // сам '\n'
		{5, Position{Index: 5, Line: 2, Column: 0}},
		{8, Position{Index: 8, Line: 2, Column: 3}},
		{100, Position{Index: 13, Line: 3, Column: 0}},
	}
	for _, tt := range tests {
		if got := file.PositionAt(tt.off); got != tt.want {
			t.Errorf("PositionAt(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("p.twig", []byte("one\ntwo\n")))
	cases := map[int]string{0: "", 1: "one", 2: "two", 3: "", 4: ""}
	for n, want := range cases {
		if got := file.GetLine(n); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", n, got, want)
		}
	}
	if file.LineCount() != 3 {
		t.Errorf("LineCount = %d, want 3", file.LineCount())
	}
}

func TestLoadBOMAndCRLF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.twig")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa\r\nb\r\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	file := fs.Get(id)
	if string(file.Content) != "a\nb\n" {
		t.Errorf("Expected file content 'a\\nb\\n', got %q", file.Content)
	}
	if file.Flags&FileHadBOM == 0 || file.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("Expected BOM and CRLF flags, got %b", file.Flags)
	}
}

func TestLoadMissing(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "missing.twig")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestRelativePath(t *testing.T) {
	tmp := t.TempDir()
	base := filepath.Join(tmp, "base")

	got, err := RelativePath(filepath.Join(base, "nested", "a.twig"), base)
	if err != nil {
		t.Fatalf("RelativePath: %v", err)
	}
	if got != "nested/a.twig" {
		t.Errorf("expected relative path, got %q", got)
	}

	outside := filepath.Join(tmp, "other", "b.twig")
	got, err = RelativePath(outside, base)
	if err != nil {
		t.Fatalf("RelativePath: %v", err)
	}
	if got != normalizePath(outside) {
		t.Errorf("expected absolute fallback %q, got %q", normalizePath(outside), got)
	}
}

func TestLocationCover(t *testing.T) {
	a := Loc(Position{Index: 3, Line: 1, Column: 3}, Position{Index: 5, Line: 1, Column: 5})
	b := Loc(Position{Index: 1, Line: 1, Column: 1}, Position{Index: 4, Line: 1, Column: 4})
	c := a.Cover(b)
	if c.Start.Index != 1 || c.End.Index != 5 {
		t.Errorf("Cover = %v", c)
	}
	if !c.Contains(a) || !c.Contains(b) || a.Contains(c) {
		t.Error("Contains mismatch")
	}
	if c.Len() != 4 {
		t.Errorf("Len = %d", c.Len())
	}
}

package scan

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path string
		want Language
	}{
		{"src/auth.py", LangPython},
		{"src/App.tsx", LangTypeScript},
		{"src/index.ts", LangTypeScript},
		{"lib/util.js", LangJavaScript},
		{"lib/View.jsx", LangJavaScript},
		{"SCRIPT.PY", LangPython},
		{"README.md", ""},
		{"Makefile", ""},
	}
	for _, tt := range tests {
		if got := DetectLanguage(tt.path); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.path, tt.want, got)
		}
	}
}

func TestClassOf(t *testing.T) {
	if ClassOf(LangPython) != "backend" {
		t.Error("python should be backend")
	}
	if ClassOf(LangTypeScript) != "frontend" || ClassOf(LangJavaScript) != "frontend" {
		t.Error("js/ts should be frontend")
	}
}

func touch(t *testing.T, root string, rel string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCollect_Walk(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "src/app.py")
	touch(t, dir, "src/web/index.ts")
	touch(t, dir, "README.md")
	touch(t, dir, "node_modules/pkg/index.js")
	touch(t, dir, "__pycache__/app.cpython-312.pyc")
	touch(t, dir, ".venv/lib/site.py")

	files, err := Collect([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d: %+v", len(files), files)
	}

	byPath := make(map[string]File)
	for _, f := range files {
		rel, _ := filepath.Rel(dir, f.Path)
		byPath[filepath.ToSlash(rel)] = f
	}
	app, ok := byPath["src/app.py"]
	if !ok {
		t.Fatalf("app.py missing: %v", byPath)
	}
	if app.Language != LangPython || app.Class != "backend" {
		t.Errorf("unexpected file metadata: %+v", app)
	}
	if _, ok := byPath["src/web/index.ts"]; !ok {
		t.Errorf("index.ts missing: %v", byPath)
	}
}

func TestCollect_GitignoreRespected(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "src/app.py")
	touch(t, dir, "generated/schema.py")
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("generated/\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := Collect([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d: %+v", len(files), files)
	}
}

func TestCollect_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "one.py")
	path := filepath.Join(dir, "one.py")

	files, err := Collect([]string{path, path})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Errorf("duplicate paths should collapse, got %d", len(files))
	}
}

func TestCollect_UnsupportedExplicitFileDropped(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "notes.txt")

	files, err := Collect([]string{filepath.Join(dir, "notes.txt")})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 {
		t.Errorf("unsupported extension should be dropped, got %+v", files)
	}
}

func TestCollect_MissingPath(t *testing.T) {
	if _, err := Collect([]string{filepath.Join(t.TempDir(), "ghost.py")}); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestByLanguage(t *testing.T) {
	files := []File{
		{Path: "a.py", Language: LangPython},
		{Path: "b.ts", Language: LangTypeScript},
		{Path: "c.py", Language: LangPython},
	}
	groups := ByLanguage(files)
	if len(groups[LangPython]) != 2 || len(groups[LangTypeScript]) != 1 {
		t.Errorf("unexpected grouping: %v", groups)
	}
}

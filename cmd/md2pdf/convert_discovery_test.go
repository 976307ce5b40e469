package main

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		inputPath    string
		outputDir    string
		baseInputDir string
		outExt       string
		want         string
	}{
		{
			name:      "no output dir swaps extension in place",
			inputPath: filepath.Join("docs", "readme.md"),
			outExt:    ".pdf",
			want:      filepath.Join("docs", "readme.pdf"),
		},
		{
			name:      "html format swaps to html",
			inputPath: filepath.Join("docs", "readme.md"),
			outExt:    ".html",
			want:      filepath.Join("docs", "readme.html"),
		},
		{
			name:      "output dir ending in extension is a file path",
			inputPath: "readme.md",
			outputDir: filepath.Join("out", "final.pdf"),
			outExt:    ".pdf",
			want:      filepath.Join("out", "final.pdf"),
		},
		{
			name:      "output dir receives renamed file",
			inputPath: filepath.Join("docs", "readme.markdown"),
			outputDir: "out",
			outExt:    ".pdf",
			want:      filepath.Join("out", "readme.pdf"),
		},
		{
			name:         "relative layout preserved under output dir",
			inputPath:    filepath.Join("docs", "sub", "page.md"),
			outputDir:    "out",
			baseInputDir: "docs",
			outExt:       ".pdf",
			want:         filepath.Join("out", "sub", "page.pdf"),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := resolveOutputPath(tt.inputPath, tt.outputDir, tt.baseInputDir, tt.outExt)
			if got != tt.want {
				t.Errorf("resolveOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDiscoverFiles_SingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(input, []byte("# hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := discoverFiles(input, "", "pdf")
	if err != nil {
		t.Fatalf("discoverFiles() error = %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("discoverFiles() returned %d files, want 1", len(files))
	}
	if want := filepath.Join(dir, "doc.pdf"); files[0].OutputPath != want {
		t.Errorf("OutputPath = %q, want %q", files[0].OutputPath, want)
	}
}

func TestDiscoverFiles_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.md", "b.markdown", "skip.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(sub, "c.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := discoverFiles(dir, "out", "html")
	if err != nil {
		t.Fatalf("discoverFiles() error = %v", err)
	}

	var outputs []string
	for _, f := range files {
		outputs = append(outputs, f.OutputPath)
	}
	sort.Strings(outputs)

	want := []string{
		filepath.Join("out", "a.html"),
		filepath.Join("out", "b.html"),
		filepath.Join("out", "sub", "c.html"),
	}
	if len(outputs) != len(want) {
		t.Fatalf("discovered %v, want %v", outputs, want)
	}
	for i := range want {
		if outputs[i] != want[i] {
			t.Errorf("output[%d] = %q, want %q", i, outputs[i], want[i])
		}
	}
}

func TestDiscoverFiles_Errors(t *testing.T) {
	t.Parallel()

	if _, err := discoverFiles(filepath.Join(t.TempDir(), "nope.md"), "", "pdf"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("discoverFiles(missing) error = %v, want os.ErrNotExist", err)
	}

	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := discoverFiles(txt, "", "pdf"); !errors.Is(err, ErrInvalidExtension) {
		t.Errorf("discoverFiles(txt) error = %v, want ErrInvalidExtension", err)
	}
}

func TestValidateMarkdownExtension(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"a.md", "b.markdown", filepath.Join("x", "y.md")} {
		if err := validateMarkdownExtension(path); err != nil {
			t.Errorf("validateMarkdownExtension(%q) error = %v", path, err)
		}
	}
	for _, path := range []string{"a.txt", "b", "c.MD"} {
		if err := validateMarkdownExtension(path); !errors.Is(err, ErrInvalidExtension) {
			t.Errorf("validateMarkdownExtension(%q) error = %v, want ErrInvalidExtension", path, err)
		}
	}
}

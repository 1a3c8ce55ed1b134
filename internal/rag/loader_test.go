package rag

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFileUnsupported(t *testing.T) {
	path := writeFile(t, t.TempDir(), "image.png", []byte{0x89, 'P', 'N', 'G'})
	_, err := LoadFile(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"notes.txt", true},
		{"README.md", true},
		{"paper.PDF", true},
		{"report.docx", true},
		{"page.html", true},
		{"photo.jpg", false},
		{"archive.tar.gz", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := IsSupported(tt.path); got != tt.want {
			t.Errorf("IsSupported(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestLoadTextPlain(t *testing.T) {
	path := writeFile(t, t.TempDir(), "notes.txt", []byte("hello there\nsecond line"))
	docs, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("docs = %d, want 1", len(docs))
	}
	if docs[0].Content != "hello there\nsecond line" {
		t.Errorf("content = %q", docs[0].Content)
	}
	if docs[0].Source != path {
		t.Errorf("source = %q, want %q", docs[0].Source, path)
	}
	if docs[0].Page != 0 {
		t.Errorf("page = %d, want 0", docs[0].Page)
	}
}

func TestLoadTextBOM(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		data []byte
	}{
		{"utf8 bom", []byte{0xEF, 0xBB, 0xBF, 'h', 'i'}},
		{"utf16 le", []byte{0xFF, 0xFE, 'h', 0, 'i', 0}},
		{"utf16 be", []byte{0xFE, 0xFF, 0, 'h', 0, 'i'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, strings.ReplaceAll(tt.name, " ", "")+".txt", tt.data)
			docs, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile() error = %v", err)
			}
			if len(docs) != 1 || docs[0].Content != "hi" {
				t.Errorf("docs = %+v, want content %q", docs, "hi")
			}
		})
	}
}

func TestLoadFileDropsBlankDocuments(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.txt", []byte("   \n\t  "))
	docs, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("docs = %d, want 0 for blank file", len(docs))
	}
}

func TestLoadDOCX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.docx")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte(`<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second</w:t></w:r><w:r><w:t xml:space="preserve"> paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	docs, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("docs = %d, want 1", len(docs))
	}
	if !strings.Contains(docs[0].Content, "First paragraph.") {
		t.Errorf("content missing first paragraph: %q", docs[0].Content)
	}
	if !strings.Contains(docs[0].Content, "Second paragraph.") {
		t.Errorf("content missing merged runs: %q", docs[0].Content)
	}
	// paragraphs are separated so the splitter sees boundaries
	if !strings.Contains(docs[0].Content, "First paragraph.\n\nSecond") {
		t.Errorf("paragraphs not separated: %q", docs[0].Content)
	}
}

func TestLoadDOCXMissingBody(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, _ := zw.Create("other.xml")
	w.Write([]byte("<x/>"))
	zw.Close()
	f.Close()

	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for docx without document.xml")
	}
}

func TestLoadHTML(t *testing.T) {
	html := `<html><head><title>My Page</title>
<script>var ignored = true;</script>
<style>.x { color: red }</style></head>
<body>
  <h1>Heading</h1>
  <p>Body paragraph with <b>markup</b> inside.</p>
  <script>more.ignored()</script>
</body></html>`
	path := writeFile(t, t.TempDir(), "page.html", []byte(html))

	docs, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("docs = %d, want 1", len(docs))
	}
	content := docs[0].Content
	for _, want := range []string{"My Page", "Heading", "Body paragraph with markup inside."} {
		if !strings.Contains(content, want) {
			t.Errorf("content missing %q:\n%s", want, content)
		}
	}
	for _, banned := range []string{"ignored", "color: red"} {
		if strings.Contains(content, banned) {
			t.Errorf("content leaked %q:\n%s", banned, content)
		}
	}
}

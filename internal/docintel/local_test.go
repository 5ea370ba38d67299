package docintel

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLocalExtractorPlainText(t *testing.T) {
	ex := LocalExtractor{}
	got, err := ex.Extract(context.Background(), []byte("first line\n\nsecond line\n"), "notes.txt")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if got.Text != "first line\n\nsecond line\n" {
		t.Fatalf("unexpected text: %q", got.Text)
	}
	if len(got.Paragraphs) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(got.Paragraphs))
	}
	if got.Paragraphs[0].Content != "first line" || got.Paragraphs[1].Content != "second line" {
		t.Fatalf("unexpected paragraphs: %+v", got.Paragraphs)
	}
	if got.Paragraphs[0].Confidence != nil {
		t.Fatalf("local extraction should not score paragraphs")
	}
}

func TestLocalExtractorUnsupportedType(t *testing.T) {
	ex := LocalExtractor{}
	_, err := ex.Extract(context.Background(), []byte("x"), "photo.heic")
	if err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
	if !strings.Contains(err.Error(), "unsupported file type") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLocalExtractorEmptyContent(t *testing.T) {
	ex := LocalExtractor{}
	if _, err := ex.Extract(context.Background(), nil, "notes.txt"); err == nil {
		t.Fatalf("expected error for empty content")
	}
}

func TestLocalExtractorDOCX(t *testing.T) {
	docXML := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Hello</w:t></w:r></w:p>
    <w:p><w:r><w:t>World</w:t></w:r></w:p>
  </w:body>
</w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := f.Write([]byte(docXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	ex := LocalExtractor{}
	got, err := ex.Extract(context.Background(), buf.Bytes(), "report.docx")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if !strings.Contains(got.Text, "Hello") || !strings.Contains(got.Text, "World") {
		t.Fatalf("docx text missing content: %q", got.Text)
	}
}

func TestLocalExtractorDOCXMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/styles.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := f.Write([]byte("<x/>")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	ex := LocalExtractor{}
	if _, err := ex.Extract(context.Background(), buf.Bytes(), "report.docx"); err == nil {
		t.Fatalf("expected error when document.xml is absent")
	}
}

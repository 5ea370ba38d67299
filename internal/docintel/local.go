package docintel

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// LocalExtractor extracts text on the host without calling a document
// intelligence service. It handles PDF (github.com/ledongthuc/pdf), DOCX,
// and plain text; it produces no confidence scores.
type LocalExtractor struct{}

// Extract pulls text from the payload based on the declared file name.
func (LocalExtractor) Extract(ctx context.Context, content []byte, fileName string) (Extraction, error) {
	if err := ctx.Err(); err != nil {
		return Extraction{}, err
	}
	if len(content) == 0 {
		return Extraction{}, errors.New("empty file content")
	}

	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		text, err = extractPDF(content)
	case ".docx":
		text, err = extractDOCX(content)
	case ".txt", ".md", ".text", "":
		text = string(content)
	default:
		return Extraction{}, fmt.Errorf("unsupported file type: %s", fileName)
	}
	if err != nil {
		return Extraction{}, err
	}

	return Extraction{
		Text:       text,
		Paragraphs: splitParagraphs(text),
	}, nil
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	return stripDocxXML(string(raw)), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// splitParagraphs breaks extracted text into ordered paragraph entries.
func splitParagraphs(text string) []Paragraph {
	var out []Paragraph
	for _, block := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(block)
		if trimmed == "" {
			continue
		}
		out = append(out, Paragraph{Content: trimmed})
	}
	return out
}

var _ Extractor = LocalExtractor{}

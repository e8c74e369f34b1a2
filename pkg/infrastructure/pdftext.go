package infrastructure

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"resume-tailor/internal/domain"
)

// MinExtractedChars is the shortest text layer accepted as a real resume.
const MinExtractedChars = 100

// PDFExtractor reads the text layer of an uploaded PDF. It does no OCR.
type PDFExtractor struct {
	minChars int
	parse    func(data []byte) (string, error)
}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{minChars: MinExtractedChars, parse: extractPDF}
}

// ExtractFile reads path, removes it on every return path, and returns the
// extracted text.
func (e *PDFExtractor) ExtractFile(path string) (string, error) {
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			slog.Warn("extractor: failed to remove upload", "path", path, "error", err)
		}
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	text, err := e.parse(data)
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(text)); n < e.minChars {
		return "", &domain.ExtractionInsufficientError{Length: n, Min: e.minChars}
	}
	return text, nil
}

// FirstLine returns the first non-empty trimmed line, usually the name.
func FirstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			return l
		}
	}
	return ""
}

func extractPDF(data []byte) (text string, err error) {
	// the parser panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	for i := 1; i <= pdfReader.NumPage(); i++ {
		p := pdfReader.Page(i)
		if p.V.IsNull() {
			continue
		}
		pageText, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		buf.WriteString(pageText)
		buf.WriteString("\n")
	}
	if buf.Len() > 0 {
		return buf.String(), nil
	}

	// fall back to the whole-document reader
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

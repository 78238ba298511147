package extract

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Sentinel errors for the two fatal extraction outcomes. Callers branch with errors.Is.
var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrExtractionFailed  = errors.New("document extraction failed")
)

// IsSupported reports whether the declared extension can be extracted.
// Leading dots and case differences are tolerated.
func IsSupported(ext string) bool {
	switch normalizeExt(ext) {
	case "pdf", "docx", "txt":
		return true
	}
	return false
}

// Text converts a raw document into a plain text blob. The output is not
// guaranteed to be clean; downstream stages must tolerate OCR artifacts and
// stray control characters.
func Text(content []byte, ext string) (string, error) {
	switch normalizeExt(ext) {
	case "pdf":
		return pdfText(content)
	case "docx":
		return docxText(content)
	case "txt":
		return sanitize(string(content)), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

func pdfText(content []byte) (_ string, retErr error) {
	// The pdf reader panics on some malformed files; convert that to ErrExtractionFailed.
	defer func() {
		if r := recover(); r != nil {
			retErr = fmt.Errorf("%w: pdf reader panic: %v", ErrExtractionFailed, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: read pdf: %v", ErrExtractionFailed, err)
	}

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	result := sanitize(builder.String())
	if result == "" {
		return "", fmt.Errorf("%w: pdf contains no extractable text", ErrExtractionFailed)
	}
	return result, nil
}

var docxTagPattern = regexp.MustCompile(`<[^>]+>`)

func docxText(content []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: read docx: %v", ErrExtractionFailed, err)
	}
	defer doc.Close()

	// GetContent returns WordprocessingML; keep paragraph boundaries, drop markup.
	raw := doc.Editable().GetContent()
	raw = strings.ReplaceAll(raw, "</w:p>", "\n")
	raw = docxTagPattern.ReplaceAllString(raw, "")
	return sanitize(html.UnescapeString(raw)), nil
}

func sanitize(s string) string {
	s = strings.ToValidUTF8(s, " ")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.TrimSpace(s)
}

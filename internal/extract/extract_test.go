package extract

import (
	"errors"
	"strings"
	"testing"
)

func TestTextPlain(t *testing.T) {
	got, err := Text([]byte("  Go developer with Postgres experience.\r\nRemote.  "), "txt")
	if err != nil {
		t.Fatalf("extract txt: %v", err)
	}
	want := "Go developer with Postgres experience.\nRemote."
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestTextExtensionNormalization(t *testing.T) {
	for _, ext := range []string{"txt", ".txt", "TXT", " .TxT "} {
		if _, err := Text([]byte("hello"), ext); err != nil {
			t.Fatalf("ext %q: %v", ext, err)
		}
	}
}

func TestTextUnsupportedFormat(t *testing.T) {
	_, err := Text([]byte("whatever"), "xyz")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if !strings.Contains(err.Error(), "xyz") {
		t.Fatalf("error should name the extension: %v", err)
	}
}

func TestTextCorruptPDF(t *testing.T) {
	_, err := Text([]byte("this is not a pdf"), "pdf")
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func TestTextCorruptDocx(t *testing.T) {
	_, err := Text([]byte("this is not a zip archive"), "docx")
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func TestTextInvalidUTF8Sanitized(t *testing.T) {
	got, err := Text([]byte{'o', 'k', 0xff, 0xfe, '!', 0x00}, "txt")
	if err != nil {
		t.Fatalf("extract txt: %v", err)
	}
	if !strings.HasPrefix(got, "ok") || strings.ContainsRune(got, 0x00) {
		t.Fatalf("unexpected sanitized output %q", got)
	}
}

func TestIsSupported(t *testing.T) {
	cases := map[string]bool{
		"pdf":  true,
		".PDF": true,
		"docx": true,
		"txt":  true,
		"doc":  false,
		"xyz":  false,
		"":     false,
	}
	for ext, want := range cases {
		if got := IsSupported(ext); got != want {
			t.Fatalf("IsSupported(%q) = %v, want %v", ext, got, want)
		}
	}
}

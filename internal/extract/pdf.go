package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrUnreadableDocument is returned when the bytes are not a parseable PDF.
	ErrUnreadableDocument = errors.New("document is not a readable PDF")

	// ErrEmptyText is returned when a valid PDF yields no extractable text,
	// e.g. scanned-image-only documents.
	ErrEmptyText = errors.New("no text could be extracted from document")
)

// Text extracts the plain text of a PDF, one page after another in document
// order, pages separated by a newline, surrounding whitespace trimmed.
func Text(data []byte) (text string, err error) {
	if !isPDF(data) {
		return "", fmt.Errorf("%w: missing %%PDF header", ErrUnreadableDocument)
	}

	// The parser panics on some malformed files instead of returning an error.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrUnreadableDocument, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// A single undecodable page does not invalidate the document.
			continue
		}
		pages = append(pages, content)
	}

	text = strings.TrimSpace(strings.Join(pages, "\n"))
	if text == "" {
		return "", ErrEmptyText
	}
	return text, nil
}

// isPDF checks for the "%PDF-" magic bytes.
func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

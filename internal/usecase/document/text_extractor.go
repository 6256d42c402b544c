package document

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PageExtractor returns the raw text of every page, in page order.
type PageExtractor interface {
	ExtractPages(data []byte) ([]string, error)
}

type TextExtractor struct{}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// ExtractPages keeps one entry per page so the index gives the page number.
// Pages without a content object come back as "".
func (te *TextExtractor) ExtractPages(data []byte) (pages []string, err error) {
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF reader: %w", err)
	}

	numPages := reader.NumPage()
	pages = make([]string, 0, numPages)

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read page %d: %w", i, err)
		}
		pages = append(pages, text)
	}

	return pages, nil
}

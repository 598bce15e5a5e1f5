package pdfextract

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/ledongthuc/pdf"

	"github.com/biz-cto/rag-chatbot/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.PageExtractor = (*Extractor)(nil)

// Extractor extracts per-page plain text from PDF documents.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates a new PDF page extractor.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// ExtractPages returns the text of every page in order. A page that fails
// to parse is logged and returned as an empty string so page numbering
// stays intact for the citation labels.
func (e *Extractor) ExtractPages(data []byte) ([]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	pageCount := reader.NumPage()
	pages := make([]string, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			e.logger.Warn("failed to extract text from page", "page", i, "error", err)
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

package driven

// PageExtractor extracts per-page text from a document.
type PageExtractor interface {
	// ExtractPages returns the text of each page in order. A page that
	// yields no text is returned as an empty string; callers drop blank
	// pages at ingestion.
	ExtractPages(data []byte) ([]string, error)
}

package domain

// DocumentChunk is one retrievable unit of source text: a single PDF page
// with its citation metadata. Chunks are created during ingestion and are
// immutable afterwards; a reload replaces the whole set.
type DocumentChunk struct {
	Content string `json:"content"`
	Source  string `json:"source"` // human-readable citation label, e.g. "guide.pdf (페이지 3)"
	File    string `json:"file"`   // originating object key
	Page    int    `json:"page"`   // 1-based page number
}

// ExcerptLimit is the maximum length of a source excerpt included in a
// response; longer content is cut and marked with an ellipsis.
const ExcerptLimit = 200

// Excerpt returns the chunk content truncated to ExcerptLimit runes.
func (c DocumentChunk) Excerpt() string {
	runes := []rune(c.Content)
	if len(runes) <= ExcerptLimit {
		return c.Content
	}
	return string(runes[:ExcerptLimit]) + "..."
}

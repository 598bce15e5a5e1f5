package mocks

import (
	"fmt"
	"strings"
)

// MockPageExtractor splits document bytes into pages for testing.
// Page boundaries are marked with form feeds in the input.
type MockPageExtractor struct {
	// Err makes every extraction fail, simulating an unparseable document.
	Err error
}

// NewMockPageExtractor creates a new MockPageExtractor
func NewMockPageExtractor() *MockPageExtractor {
	return &MockPageExtractor{}
}

func (m *MockPageExtractor) ExtractPages(data []byte) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	return strings.Split(string(data), "\f"), nil
}

package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// MockBlobStore is an in-memory BlobStore for testing
type MockBlobStore struct {
	Objects map[string][]byte

	// ListErr makes ListObjects fail, simulating an unreachable bucket.
	ListErr error
	// DownloadErrs marks individual keys as failing to download.
	DownloadErrs map[string]error
}

// NewMockBlobStore creates a new MockBlobStore
func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{
		Objects:      make(map[string][]byte),
		DownloadErrs: make(map[string]error),
	}
}

func (m *MockBlobStore) ListObjects(ctx context.Context, suffix string) ([]string, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var keys []string
	for key := range m.Objects {
		if strings.HasSuffix(strings.ToLower(key), strings.ToLower(suffix)) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MockBlobStore) Download(ctx context.Context, key string) ([]byte, error) {
	if err, ok := m.DownloadErrs[key]; ok {
		return nil, err
	}
	data, ok := m.Objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}
	return data, nil
}

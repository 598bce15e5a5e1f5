package bedrock

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func testEmbeddingConfig() EmbeddingConfig {
	cfg := DefaultEmbeddingConfig()
	cfg.Dimensions = 4
	cfg.BatchSize = 2
	cfg.BatchPause = 0
	cfg.RetryBaseDelay = time.Millisecond
	cfg.RetryJitterMax = time.Millisecond
	return cfg
}

func embeddingBody(t *testing.T, values []float32) []byte {
	t.Helper()
	raw, err := json.Marshal(embeddingResponse{Embedding: values})
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return raw
}

func TestEmbedQuery(t *testing.T) {
	invoker := &fakeInvoker{
		responses: [][]byte{embeddingBody(t, []float32{0.1, 0.2, 0.3, 0.4})},
	}
	client := NewEmbeddingClient(invoker, testEmbeddingConfig(), nil)

	vec, err := client.EmbedQuery(context.Background(), "휴가 규정")
	if err != nil {
		t.Fatalf("EmbedQuery returned error: %v", err)
	}
	if len(vec) != 4 {
		t.Fatalf("expected 4 dimensions, got %d", len(vec))
	}
	if vec[0] != 0.1 {
		t.Errorf("expected first component 0.1, got %v", vec[0])
	}

	var req embeddingRequest
	if err := json.Unmarshal(invoker.calls[0].Body, &req); err != nil {
		t.Fatalf("unmarshal request: %v", err)
	}
	if req.InputText != "휴가 규정" {
		t.Errorf("unexpected input text: %q", req.InputText)
	}
}

func TestEmbedQueryBlankSkipsRemoteCall(t *testing.T) {
	invoker := &fakeInvoker{}
	client := NewEmbeddingClient(invoker, testEmbeddingConfig(), nil)

	vec, err := client.EmbedQuery(context.Background(), "   \n  ")
	if err != nil {
		t.Fatalf("EmbedQuery returned error: %v", err)
	}
	if invoker.callCount() != 0 {
		t.Errorf("expected no remote calls for blank query, got %d", invoker.callCount())
	}
	for i, v := range vec {
		if v != 0 {
			t.Fatalf("expected zero vector, component %d is %v", i, v)
		}
	}
}

func TestEmbedQueryTruncatesOverlongInput(t *testing.T) {
	// The budget is counted in characters, not bytes: Korean input must
	// keep as many characters as ASCII and never end in a split rune.
	inputs := map[string]string{
		"ascii":  strings.Repeat("a", 20000),
		"korean": strings.Repeat("가", 9000),
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			invoker := &fakeInvoker{
				responses: [][]byte{embeddingBody(t, []float32{1, 2, 3, 4})},
			}
			client := NewEmbeddingClient(invoker, testEmbeddingConfig(), nil)

			if _, err := client.EmbedQuery(context.Background(), input); err != nil {
				t.Fatalf("EmbedQuery returned error: %v", err)
			}

			var req embeddingRequest
			if err := json.Unmarshal(invoker.calls[0].Body, &req); err != nil {
				t.Fatalf("unmarshal request: %v", err)
			}
			if got := utf8.RuneCountInString(req.InputText); got != maxEmbeddingInputChars {
				t.Errorf("expected input truncated to %d chars, got %d", maxEmbeddingInputChars, got)
			}
			if !utf8.ValidString(req.InputText) {
				t.Error("truncated input is not valid UTF-8")
			}
			if strings.ContainsRune(req.InputText, '�') {
				t.Error("truncated input contains a replacement character")
			}
		})
	}
}

func TestEmbedQueryExhaustionReturnsZeroVector(t *testing.T) {
	invoker := &fakeInvoker{
		responses: [][]byte{nil},
		errs:      []error{throttlingErr()},
	}
	cfg := testEmbeddingConfig()
	cfg.MaxRetries = 2
	client := NewEmbeddingClient(invoker, cfg, nil)

	vec, err := client.EmbedQuery(context.Background(), "some question")
	if err != nil {
		t.Fatalf("exhaustion must not propagate an error, got %v", err)
	}
	if invoker.callCount() != 3 {
		t.Errorf("expected 3 attempts, got %d", invoker.callCount())
	}
	for i, v := range vec {
		if v != 0 {
			t.Fatalf("expected zero vector, component %d is %v", i, v)
		}
	}
}

func TestEmbedQueryFatalErrorReturnsZeroVector(t *testing.T) {
	invoker := &fakeInvoker{
		responses: [][]byte{nil},
		errs:      []error{validationErr()},
	}
	client := NewEmbeddingClient(invoker, testEmbeddingConfig(), nil)

	vec, err := client.EmbedQuery(context.Background(), "some question")
	if err != nil {
		t.Fatalf("fatal error must not propagate, got %v", err)
	}
	if invoker.callCount() != 1 {
		t.Errorf("expected no retries on fatal error, got %d calls", invoker.callCount())
	}
	for i, v := range vec {
		if v != 0 {
			t.Fatalf("expected zero vector, component %d is %v", i, v)
		}
	}
}

func TestEmbedDocumentsKeepsAlignment(t *testing.T) {
	invoker := &fakeInvoker{
		responses: [][]byte{
			embeddingBody(t, []float32{1, 0, 0, 0}),
			nil,
			embeddingBody(t, []float32{0, 0, 1, 0}),
		},
		errs: []error{nil, validationErr(), nil},
	}
	client := NewEmbeddingClient(invoker, testEmbeddingConfig(), nil)

	vecs, err := client.EmbedDocuments(context.Background(), []string{"alpha", "bravo", "charlie"})
	if err != nil {
		t.Fatalf("EmbedDocuments returned error: %v", err)
	}
	if len(vecs) != 3 {
		t.Fatalf("expected 3 embeddings, got %d", len(vecs))
	}
	if vecs[0][0] != 1 {
		t.Errorf("first embedding lost: %v", vecs[0])
	}
	for i, v := range vecs[1] {
		if v != 0 {
			t.Fatalf("failed item must map to a zero vector, component %d is %v", i, v)
		}
	}
	if vecs[2][2] != 1 {
		t.Errorf("third embedding lost: %v", vecs[2])
	}
}

func TestEmbedDocumentsEmptyInput(t *testing.T) {
	client := NewEmbeddingClient(&fakeInvoker{}, testEmbeddingConfig(), nil)
	vecs, err := client.EmbedDocuments(context.Background(), nil)
	if err != nil {
		t.Fatalf("EmbedDocuments returned error: %v", err)
	}
	if vecs != nil {
		t.Errorf("expected nil result for empty input, got %v", vecs)
	}
}

func TestEmbedDocumentsHonoursContextCancellation(t *testing.T) {
	invoker := &fakeInvoker{
		responses: [][]byte{embeddingBody(t, []float32{1, 1, 1, 1})},
	}
	client := NewEmbeddingClient(invoker, testEmbeddingConfig(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.EmbedDocuments(ctx, []string{"alpha", "bravo"}); err == nil {
		t.Fatal("expected context error")
	}
}

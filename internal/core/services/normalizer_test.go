package services

import (
	"strings"
	"testing"

	"github.com/biz-cto/rag-chatbot/internal/core/domain"
)

func TestNormalizePlainText(t *testing.T) {
	got, outcome := Normalize("연차 휴가는 15일입니다.", testChunks()[:1])

	if outcome != OutcomePlainText {
		t.Errorf("expected plain-text outcome, got %v", outcome)
	}
	if got.Answer != "연차 휴가는 15일입니다." {
		t.Errorf("unexpected answer: %q", got.Answer)
	}
	if len(got.Sources) != 1 || got.Sources[0].Source != "policy.pdf (페이지 1)" {
		t.Errorf("expected retrieval-derived sources, got %+v", got.Sources)
	}
}

func TestNormalizeStructuredJSON(t *testing.T) {
	raw := `{"answer": "X", "sources": [{"source": "policy.pdf", "contents": ["관련 내용"]}]}`
	got, outcome := Normalize(raw, nil)

	if outcome != OutcomeParsed {
		t.Errorf("expected parsed outcome, got %v", outcome)
	}
	if got.Answer != "X" {
		t.Errorf("expected answer X, got %q", got.Answer)
	}
	if len(got.Sources) != 1 || got.Sources[0].Source != "policy.pdf" {
		t.Errorf("model-provided sources must be kept, got %+v", got.Sources)
	}
}

func TestNormalizeInjectsSourcesWhenMissing(t *testing.T) {
	got, _ := Normalize(`{"answer": "X", "sources": []}`, testChunks())

	if got.Answer != "X" {
		t.Errorf("expected answer X, got %q", got.Answer)
	}
	if len(got.Sources) == 0 {
		t.Fatal("expected sources injected from retrieved chunks")
	}
	// Chunks from the same file group under one source entry.
	if got.Sources[0].Source != "policy.pdf (페이지 1)" {
		t.Errorf("unexpected first source: %q", got.Sources[0].Source)
	}
}

func TestNormalizeRepairsDoubleEncoding(t *testing.T) {
	raw := `{"answer": "{\"answer\": \"Y\", \"sources\": []}", "sources": []}`
	got, outcome := Normalize(raw, nil)

	if outcome != OutcomeRepaired {
		t.Errorf("expected repaired outcome, got %v", outcome)
	}
	if got.Answer != "Y" {
		t.Errorf("expected inner answer Y, got %q", got.Answer)
	}
	if got.Sources == nil {
		t.Error("sources must never be nil")
	}
}

func TestNormalizeDoubleEncodingWithInnerSources(t *testing.T) {
	raw := `{"answer": "{\"answer\": \"Y\", \"sources\": [{\"source\": \"inner.pdf\", \"contents\": [\"본문\"]}]}", "sources": []}`
	got, outcome := Normalize(raw, testChunks())

	if outcome != OutcomeRepaired {
		t.Errorf("expected repaired outcome, got %v", outcome)
	}
	if got.Answer != "Y" {
		t.Errorf("expected inner answer Y, got %q", got.Answer)
	}
	if len(got.Sources) != 1 || got.Sources[0].Source != "inner.pdf" {
		t.Errorf("inner sources must win over injection, got %+v", got.Sources)
	}
}

func TestNormalizeMalformedJSON(t *testing.T) {
	raw := `{"answer": "절반만 온 응답`
	got, outcome := Normalize(raw, testChunks()[:1])

	if outcome != OutcomeUnrepaired {
		t.Errorf("expected unrepaired outcome, got %v", outcome)
	}
	if got.Answer != raw {
		t.Errorf("malformed output must fall back to the raw text, got %q", got.Answer)
	}
	if len(got.Sources) != 1 {
		t.Errorf("expected retrieval-derived sources, got %+v", got.Sources)
	}
}

func TestNormalizeOrdinaryAnswerStartingWithBrace(t *testing.T) {
	// An answer string that merely starts with a brace but has no nested
	// answer key is left alone.
	raw := `{"answer": "{참고} 연차는 15일입니다.", "sources": []}`
	got, outcome := Normalize(raw, nil)

	if outcome != OutcomeParsed {
		t.Errorf("expected parsed outcome, got %v", outcome)
	}
	if got.Answer != "{참고} 연차는 15일입니다." {
		t.Errorf("unexpected answer: %q", got.Answer)
	}
}

func TestDeriveSourcesGroupsAndTruncates(t *testing.T) {
	long := strings.Repeat("가", domain.ExcerptLimit+50)
	chunks := []domain.DocumentChunk{
		{Content: "첫 페이지", Source: "a.pdf (페이지 1)"},
		{Content: long, Source: "a.pdf (페이지 1)"},
		{Content: "다른 문서", Source: "b.pdf (페이지 1)"},
	}

	sources := deriveSources(chunks)
	if len(sources) != 2 {
		t.Fatalf("expected 2 grouped sources, got %d", len(sources))
	}
	if len(sources[0].Contents) != 2 {
		t.Errorf("expected 2 excerpts for a.pdf, got %d", len(sources[0].Contents))
	}
	truncated := sources[0].Contents[1]
	if !strings.HasSuffix(truncated, "...") {
		t.Errorf("expected truncated excerpt to end with ellipsis: %q", truncated)
	}
	if len([]rune(truncated)) != domain.ExcerptLimit+3 {
		t.Errorf("unexpected excerpt length: %d", len([]rune(truncated)))
	}
}

func TestDeriveSourcesEmpty(t *testing.T) {
	sources := deriveSources(nil)
	if sources == nil {
		t.Fatal("sources must be an empty slice, not nil")
	}
	if len(sources) != 0 {
		t.Errorf("expected no sources, got %+v", sources)
	}
}

package retrieval

import (
	"errors"
	"testing"
)

func TestIndexRejectsEmpty(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Index(nil, nil, nil); !errors.Is(err, ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments, got %v", err)
	}
}

func TestQueryRanksByOverlap(t *testing.T) {
	s := NewMemoryStore()
	err := s.Index([]string{
		"built distributed systems in Go with Kubernetes",
		"organized the office holiday party",
		"designed Go microservices and distributed queues",
	}, nil, nil)
	if err != nil {
		t.Fatalf("index: %v", err)
	}

	results := s.Query([]string{"distributed Go systems"}, 2)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Document == "organized the office holiday party" {
			t.Fatalf("irrelevant document ranked: %v", results)
		}
	}
	if results[0].Score < results[1].Score {
		t.Fatalf("results not sorted by score: %v", results)
	}
}

func TestQueryNoOverlap(t *testing.T) {
	s := NewMemoryStore()
	_ = s.Index([]string{"alpha beta"}, nil, nil)
	if got := s.Query([]string{"gamma"}, 4); len(got) != 0 {
		t.Fatalf("expected no results, got %v", got)
	}
}

func TestIndexCarriesMetadata(t *testing.T) {
	s := NewMemoryStore()
	err := s.Index(
		[]string{"shipped the billing service"},
		[]map[string]string{{"type": "experience", "company": "Acme"}},
		[]string{"exp-1"},
	)
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	results := s.Query([]string{"billing service"}, 1)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Metadata["company"] != "Acme" {
		t.Fatalf("metadata lost: %v", results[0].Metadata)
	}
}

func TestIndexSkipsBlankDocuments(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Index([]string{"  ", "real content here"}, nil, nil); err != nil {
		t.Fatalf("index: %v", err)
	}
	if got := s.Query([]string{"content"}, 4); len(got) != 1 {
		t.Fatalf("expected 1 result, got %v", got)
	}
}

func TestQueryDefaultTopK(t *testing.T) {
	s := NewMemoryStore()
	docs := []string{
		"go one", "go two", "go three", "go four", "go five", "go six",
	}
	if err := s.Index(docs, nil, nil); err != nil {
		t.Fatalf("index: %v", err)
	}
	if got := s.Query([]string{"go"}, 0); len(got) != 4 {
		t.Fatalf("expected default topK of 4, got %d", len(got))
	}
}

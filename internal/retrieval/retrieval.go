// Package retrieval provides the similarity-search capability agents query
// for context. A store is created fresh per workflow run, bulk-indexed
// before any agent runs, then queried read-only by concurrent tasks.
package retrieval

import (
	"errors"
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/google/uuid"
)

// Result is one ranked snippet.
type Result struct {
	Document string            `json:"document"`
	Metadata map[string]string `json:"metadata"`
	Score    float64           `json:"score"`
}

// Store is the retrieval capability consumed by feature orchestrators.
type Store interface {
	Index(documents []string, metadatas []map[string]string, ids []string) error
	Query(queries []string, topK int) []Result
}

// ErrNoDocuments is returned when an index call carries nothing to index.
var ErrNoDocuments = errors.New("retrieval: no documents to index")

type entry struct {
	id    string
	doc   string
	meta  map[string]string
	terms map[string]int
	norm  float64
}

// MemoryStore is an ephemeral word-overlap index. Scoring is cosine-like:
// shared term counts normalized by document length, which is enough to rank
// short resume and job-description chunks.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []entry
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

// Index adds documents in bulk. Metadata and ids are positional; missing
// ids are generated.
func (m *MemoryStore) Index(documents []string, metadatas []map[string]string, ids []string) error {
	if len(documents) == 0 {
		return ErrNoDocuments
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, doc := range documents {
		if strings.TrimSpace(doc) == "" {
			continue
		}
		e := entry{doc: doc, terms: tokenize(doc)}
		if i < len(metadatas) {
			e.meta = metadatas[i]
		}
		if i < len(ids) && ids[i] != "" {
			e.id = ids[i]
		} else {
			e.id = uuid.NewString()
		}
		total := 0
		for _, c := range e.terms {
			total += c
		}
		e.norm = math.Sqrt(float64(total))
		m.entries = append(m.entries, e)
	}
	return nil
}

// Query ranks documents against the union of query terms.
func (m *MemoryStore) Query(queries []string, topK int) []Result {
	if topK <= 0 {
		topK = 4
	}
	terms := make(map[string]int)
	for _, q := range queries {
		for t, c := range tokenize(q) {
			terms[t] += c
		}
	}
	if len(terms) == 0 {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	results := make([]Result, 0, len(m.entries))
	for _, e := range m.entries {
		overlap := 0
		for t := range terms {
			overlap += e.terms[t]
		}
		if overlap == 0 || e.norm == 0 {
			continue
		}
		results = append(results, Result{
			Document: e.doc,
			Metadata: e.meta,
			Score:    float64(overlap) / e.norm,
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

// tokenize keeps ident-like lowercase words: a token starts with a letter
// or '_' and continues with letters, digits, or '_'. Quotes and symbols are
// delimiters.
func tokenize(text string) map[string]int {
	out := make(map[string]int)
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			out[strings.ToLower(b.String())]++
			b.Reset()
		}
	}
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || r == '_':
			b.WriteRune(r)
		case unicode.IsDigit(r) && b.Len() > 0:
			b.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return out
}

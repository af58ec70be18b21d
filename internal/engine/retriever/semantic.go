package retriever

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/faix-chatbot/engine/internal/engine/kb"
)

// semanticIndex is an in-memory vector store over the corpus. The corpus is
// small and fixed, so brute-force cosine scan is the whole search.
type semanticIndex struct {
	embedder Embedder

	mu   sync.RWMutex
	docs []semanticDoc
}

type semanticDoc struct {
	doc kb.Document
	vec []float32
}

func newSemanticIndex(ctx context.Context, embedder Embedder, docs []kb.Document) (*semanticIndex, error) {
	idx := &semanticIndex{embedder: embedder}
	for _, d := range docs {
		vec, err := embedder.Embed(ctx, d.Title+"\n"+d.Text)
		if err != nil {
			return nil, fmt.Errorf("embed corpus %s: %w", d.ID, err)
		}
		idx.docs = append(idx.docs, semanticDoc{doc: d, vec: vec})
	}
	return idx, nil
}

type scoredDoc struct {
	doc   kb.Document
	score float64
}

// search embeds the query and returns scope-filtered documents above
// minScore, best first.
func (s *semanticIndex) search(ctx context.Context, query string, scopes map[string]struct{}, topK int, minScore float64) ([]scoredDoc, error) {
	qv, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits []scoredDoc
	for _, sd := range s.docs {
		if _, ok := scopes[sd.doc.Scope]; !ok {
			continue
		}
		score := cosine(qv, sd.vec)
		if score < minScore {
			continue
		}
		hits = append(hits, scoredDoc{doc: sd.doc, score: score})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

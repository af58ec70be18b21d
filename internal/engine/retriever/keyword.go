package retriever

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"

	"github.com/faix-chatbot/engine/internal/engine/kb"
)

// keywordIndex is an in-memory Bleve full-text index over the corpus. It is
// the always-available retrieval path: no external service stands behind it.
type keywordIndex struct {
	index bleve.Index
	byID  map[string]kb.Document
}

type keywordDoc struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Scope string `json:"scope"`
}

func newKeywordIndex(docs []kb.Document) (*keywordIndex, error) {
	mapping := bleve.NewIndexMapping()
	index, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, fmt.Errorf("keyword index: %w", err)
	}

	byID := make(map[string]kb.Document, len(docs))
	batch := index.NewBatch()
	for _, d := range docs {
		byID[d.ID] = d
		if err := batch.Index(d.ID, keywordDoc{Title: d.Title, Text: d.Text, Scope: d.Scope}); err != nil {
			return nil, fmt.Errorf("keyword index %s: %w", d.ID, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		return nil, fmt.Errorf("keyword index batch: %w", err)
	}
	return &keywordIndex{index: index, byID: byID}, nil
}

// search runs a match query and normalizes Bleve scores against the top hit
// so the caller's min-score threshold applies on a 0..1 scale. Scope
// filtering happens after search; the corpus is small enough that asking for
// extra hits is cheaper than a scope term query.
func (k *keywordIndex) search(query string, scopes map[string]struct{}, topK int, minScore float64) ([]scoredDoc, error) {
	req := bleve.NewSearchRequestOptions(bleve.NewMatchQuery(query), topK*4, 0, false)
	res, err := k.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	if len(res.Hits) == 0 {
		return nil, nil
	}

	top := res.Hits[0].Score
	if top <= 0 {
		return nil, nil
	}
	var hits []scoredDoc
	for _, hit := range res.Hits {
		doc, ok := k.byID[hit.ID]
		if !ok {
			continue
		}
		if _, ok := scopes[doc.Scope]; !ok {
			continue
		}
		score := hit.Score / top
		if score < minScore {
			continue
		}
		hits = append(hits, scoredDoc{doc: doc, score: score})
		if len(hits) >= topK {
			break
		}
	}
	return hits, nil
}

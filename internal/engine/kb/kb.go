// Package kb holds the compiled-in faculty knowledge corpus. The corpus backs
// two consumers: the retriever indexes every document, and the fallback chain
// queries Lookup directly when generation fails.
package kb

import (
	"encoding/json"
	_ "embed"
	"fmt"
	"strings"

	"github.com/faix-chatbot/engine/internal/engine/model"
)

//go:embed corpus.json
var corpusJSON []byte

// Document is one corpus entry. Scope restricts which agents may see it; Keys
// are exact-match entity values (course codes, staff names) that force the
// document into retrieval results.
type Document struct {
	ID      string   `json:"id"`
	Scope   string   `json:"scope"`
	Intents []string `json:"intents"`
	Keys    []string `json:"keys,omitempty"`
	Title   string   `json:"title"`
	Text    string   `json:"text"`
}

type KB struct {
	docs     []Document
	byIntent map[model.Intent][]int
	byKey    map[string][]int
}

// Load parses and indexes the embedded corpus. Every intent tag must belong
// to the closed enumeration; a bad tag is a build defect, not input.
func Load() (*KB, error) {
	var docs []Document
	if err := json.Unmarshal(corpusJSON, &docs); err != nil {
		return nil, fmt.Errorf("kb corpus: %w", err)
	}
	k := &KB{
		docs:     docs,
		byIntent: make(map[model.Intent][]int),
		byKey:    make(map[string][]int),
	}
	for i, d := range docs {
		if d.ID == "" || d.Text == "" {
			return nil, fmt.Errorf("kb corpus: document %d missing id or text", i)
		}
		for _, raw := range d.Intents {
			intent, err := model.ParseIntent(raw)
			if err != nil {
				return nil, fmt.Errorf("kb corpus %s: %w", d.ID, err)
			}
			k.byIntent[intent] = append(k.byIntent[intent], i)
		}
		for _, key := range d.Keys {
			norm := normalizeKey(key)
			k.byKey[norm] = append(k.byKey[norm], i)
		}
	}
	return k, nil
}

// Documents returns the full corpus for indexing.
func (k *KB) Documents() []Document { return k.docs }

// ByKey returns documents whose exact-match keys cover the entity value.
// Course codes match on their programme prefix, so "BAXI 3413" finds the
// BAXI document.
func (k *KB) ByKey(e model.Entity) []Document {
	norm := normalizeKey(e.Value)
	if e.Kind == model.EntityCourseCode {
		if sp := strings.IndexByte(norm, ' '); sp > 0 {
			norm = norm[:sp]
		}
	}
	idxs, ok := k.byKey[norm]
	if !ok {
		return nil
	}
	out := make([]Document, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, k.docs[i])
	}
	return out
}

// Lookup is the direct-answer path used when generation fails: entity keys
// win over intent tags, and the first matching document's text is the answer.
func (k *KB) Lookup(intent model.Intent, ents []model.Entity) (string, bool) {
	for _, e := range ents {
		if docs := k.ByKey(e); len(docs) > 0 {
			return docs[0].Text, true
		}
	}
	idxs, ok := k.byIntent[intent]
	if !ok || len(idxs) == 0 {
		return "", false
	}
	return k.docs[idxs[0]].Text, true
}

func normalizeKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Package retriever finds corpus context for a query. Semantic search runs
// first when an embedding service is configured; keyword search is the
// fallback and the only path otherwise. Retrieval never fails a request: the
// worst outcome is an empty context list.
package retriever

import (
	"context"
	"fmt"
	"sort"

	"github.com/faix-chatbot/engine/internal/engine/kb"
	"github.com/faix-chatbot/engine/internal/engine/model"
	logx "github.com/faix-chatbot/engine/pkg/logger"
)

type Retriever struct {
	cfg      model.RetrieverConfig
	kbase    *kb.KB
	semantic *semanticIndex
	keyword  *keywordIndex
}

// New builds both indexes over the corpus. embedder may be nil (keyword
// only). A failure to embed the corpus disables semantic search rather than
// failing startup; the keyword index failing is fatal since nothing remains.
func New(ctx context.Context, cfg model.RetrieverConfig, kbase *kb.KB, embedder Embedder) (*Retriever, error) {
	kw, err := newKeywordIndex(kbase.Documents())
	if err != nil {
		return nil, err
	}
	r := &Retriever{cfg: cfg, kbase: kbase, keyword: kw}

	if embedder != nil {
		sem, err := newSemanticIndex(ctx, embedder, kbase.Documents())
		if err != nil {
			logx.Warn().Err(err).Str("component", "retriever").Msg("semantic index unavailable, keyword-only retrieval")
		} else {
			r.semantic = sem
		}
	}
	return r, nil
}

// Retrieve returns context documents for the query, best first. Medium-band
// classifications widen top-k to compensate for routing uncertainty. Exact
// entity matches are forced to rank 0 with a score lifted just above the best
// organic hit so ordering stays strictly descending.
func (r *Retriever) Retrieve(ctx context.Context, query string, ents []model.Entity, scopes []string, band model.ConfidenceBand) []model.ContextDocument {
	scopeSet := make(map[string]struct{}, len(scopes))
	for _, s := range scopes {
		scopeSet[s] = struct{}{}
	}
	topK := r.cfg.TopK
	if band == model.BandMedium {
		topK = r.cfg.WideTopK
	}

	hits, method := r.search(ctx, query, scopeSet, topK)
	hits = r.forceEntityDocs(hits, ents, scopeSet)
	if len(hits) > topK {
		hits = hits[:topK]
	}

	out := make([]model.ContextDocument, 0, len(hits))
	for _, h := range hits {
		out = append(out, model.ContextDocument{
			SourceID: h.doc.ID,
			Text:     h.doc.Title + "\n" + h.doc.Text,
			Score:    h.score,
			Method:   method,
		})
	}
	return out
}

func (r *Retriever) search(ctx context.Context, query string, scopes map[string]struct{}, topK int) ([]scoredDoc, model.RetrievalMethod) {
	if r.semantic != nil {
		hits, err := r.semantic.search(ctx, query, scopes, topK, r.cfg.MinScore)
		if err == nil {
			return hits, model.RetrievalSemantic
		}
		logx.Warn().Err(err).Str("component", "retriever").Msg("semantic search failed, falling back to keyword")
	}
	hits, err := r.keyword.search(query, scopes, topK, r.cfg.MinScore)
	if err != nil {
		logx.Error().Err(err).Str("component", "retriever").Msg("keyword search failed, returning no context")
		return nil, model.RetrievalKeyword
	}
	return hits, model.RetrievalKeyword
}

// forceEntityDocs prepends documents keyed on extracted entities. A forced
// document that already ranks organically is promoted, not duplicated.
func (r *Retriever) forceEntityDocs(hits []scoredDoc, ents []model.Entity, scopes map[string]struct{}) []scoredDoc {
	var forced []scoredDoc
	seen := make(map[string]struct{})
	best := 0.0
	if len(hits) > 0 {
		best = hits[0].score
	}
	for _, e := range ents {
		for _, doc := range r.kbase.ByKey(e) {
			if _, ok := scopes[doc.Scope]; !ok {
				continue
			}
			if _, ok := seen[doc.ID]; ok {
				continue
			}
			seen[doc.ID] = struct{}{}
			forced = append(forced, scoredDoc{doc: doc, score: best + 0.01})
		}
	}
	if len(forced) == 0 {
		return hits
	}

	var rest []scoredDoc
	for _, h := range hits {
		if _, ok := seen[h.doc.ID]; !ok {
			rest = append(rest, h)
		}
	}
	out := append(forced, rest...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })
	return out
}

// Describe reports the active retrieval paths for startup logging.
func (r *Retriever) Describe() string {
	if r.semantic != nil {
		return fmt.Sprintf("semantic+keyword over %d documents", len(r.kbase.Documents()))
	}
	return fmt.Sprintf("keyword over %d documents", len(r.kbase.Documents()))
}

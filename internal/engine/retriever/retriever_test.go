package retriever

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faix-chatbot/engine/internal/engine/kb"
	"github.com/faix-chatbot/engine/internal/engine/model"
)

// stubEmbedder projects text onto three hand-picked signal words so cosine
// scores are fully predictable in tests.
type stubEmbedder struct {
	failAfter int
	calls     int
}

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	s.calls++
	if s.failAfter > 0 && s.calls > s.failAfter {
		return nil, errors.New("embedding service down")
	}
	lower := strings.ToLower(text)
	vec := make([]float32, 3)
	for i, word := range []string{"tuition", "calendar", "forensics"} {
		if strings.Contains(lower, word) {
			vec[i] = 1
		}
	}
	return vec, nil
}

func testConfig() model.RetrieverConfig {
	return model.RetrieverConfig{TopK: 3, WideTopK: 5, MinScore: 0.15}
}

func loadKB(t *testing.T) *kb.KB {
	t.Helper()
	k, err := kb.Load()
	require.NoError(t, err)
	return k
}

func TestKeywordOnlyRetrieval(t *testing.T) {
	r, err := New(context.Background(), testConfig(), loadKB(t), nil)
	require.NoError(t, err)

	docs := r.Retrieve(context.Background(), "how much is the tuition fee per semester", nil, []string{"faq"}, model.BandHigh)
	require.NotEmpty(t, docs)
	assert.Equal(t, "faq-fees", docs[0].SourceID)
	assert.Equal(t, model.RetrievalKeyword, docs[0].Method)
	assert.LessOrEqual(t, len(docs), 3)
}

func TestScopeFiltering(t *testing.T) {
	r, err := New(context.Background(), testConfig(), loadKB(t), nil)
	require.NoError(t, err)

	docs := r.Retrieve(context.Background(), "semester calendar dates", nil, []string{"staff"}, model.BandHigh)
	for _, d := range docs {
		assert.NotContains(t, d.SourceID, "schedule-")
	}
}

func TestSemanticRetrieval(t *testing.T) {
	emb := &stubEmbedder{}
	r, err := New(context.Background(), testConfig(), loadKB(t), emb)
	require.NoError(t, err)

	docs := r.Retrieve(context.Background(), "tuition costs", nil, []string{"faq"}, model.BandHigh)
	require.NotEmpty(t, docs)
	assert.Equal(t, "faq-fees", docs[0].SourceID)
	assert.Equal(t, model.RetrievalSemantic, docs[0].Method)
}

func TestSemanticFailureFallsBackToKeyword(t *testing.T) {
	k := loadKB(t)
	emb := &stubEmbedder{failAfter: len(k.Documents())}
	r, err := New(context.Background(), testConfig(), k, emb)
	require.NoError(t, err)

	docs := r.Retrieve(context.Background(), "tuition fee payment", nil, []string{"faq"}, model.BandHigh)
	require.NotEmpty(t, docs)
	assert.Equal(t, model.RetrievalKeyword, docs[0].Method)
}

func TestEntityForcesDocumentToRankZero(t *testing.T) {
	r, err := New(context.Background(), testConfig(), loadKB(t), nil)
	require.NoError(t, err)

	ents := []model.Entity{{Kind: model.EntityCourseCode, Value: "BAXS 2243"}}
	docs := r.Retrieve(context.Background(), "what will I learn", ents, []string{"faq"}, model.BandHigh)
	require.NotEmpty(t, docs)
	assert.Equal(t, "faq-course-baxs", docs[0].SourceID)
	for i := 1; i < len(docs); i++ {
		assert.GreaterOrEqual(t, docs[i-1].Score, docs[i].Score, "scores must stay descending")
	}
}

func TestForcedDocRespectsScope(t *testing.T) {
	r, err := New(context.Background(), testConfig(), loadKB(t), nil)
	require.NoError(t, err)

	// Staff document forced only when the staff scope is allowed.
	ents := []model.Entity{{Kind: model.EntityPersonName, Value: "Halizah Basiron"}}
	docs := r.Retrieve(context.Background(), "consultation hours", ents, []string{"schedule"}, model.BandHigh)
	for _, d := range docs {
		assert.NotEqual(t, "staff-halizah", d.SourceID)
	}
}

func TestMediumBandWidensTopK(t *testing.T) {
	r, err := New(context.Background(), testConfig(), loadKB(t), nil)
	require.NoError(t, err)

	narrow := r.Retrieve(context.Background(), "programme courses degree bachelor", nil, []string{"faq"}, model.BandHigh)
	wide := r.Retrieve(context.Background(), "programme courses degree bachelor", nil, []string{"faq"}, model.BandMedium)
	assert.LessOrEqual(t, len(narrow), 3)
	assert.LessOrEqual(t, len(wide), 5)
	assert.GreaterOrEqual(t, len(wide), len(narrow))
}

func TestNoHitsReturnsEmpty(t *testing.T) {
	r, err := New(context.Background(), testConfig(), loadKB(t), nil)
	require.NoError(t, err)

	docs := r.Retrieve(context.Background(), "zzzz qqqq", nil, []string{"faq"}, model.BandHigh)
	assert.Empty(t, docs)
}

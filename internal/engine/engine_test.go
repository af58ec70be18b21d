package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/faix-chatbot/engine/internal/core/error"
	"github.com/faix-chatbot/engine/internal/engine/classifier"
	"github.com/faix-chatbot/engine/internal/engine/conversations"
	"github.com/faix-chatbot/engine/internal/engine/feedback"
	"github.com/faix-chatbot/engine/internal/engine/kb"
	"github.com/faix-chatbot/engine/internal/engine/model"
	"github.com/faix-chatbot/engine/internal/engine/prompt"
	"github.com/faix-chatbot/engine/internal/engine/repo"
	"github.com/faix-chatbot/engine/internal/engine/retriever"
	"github.com/faix-chatbot/engine/internal/engine/validator"
)

// scriptedGen plays the model role in the fallback chain.
type scriptedGen struct {
	text  string
	err   error
	calls int
}

func (s *scriptedGen) Generate(_ context.Context, _ model.AgentDescriptor, _ []*schema.Message) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func buildEngine(t *testing.T, gen validator.Generator) *Engine {
	t.Helper()

	cls, err := classifier.New(model.ClassifierConfig{Timeout: "5s", CacheSize: 64}, nil)
	require.NoError(t, err)

	reg, err := model.NewAgentRegistry(model.AgentConfig{
		FAQTimeout: "20s", ScheduleTimeout: "15s", StaffTimeout: "10s", CatchallTimeout: "15s",
	})
	require.NoError(t, err)

	kbase, err := kb.Load()
	require.NoError(t, err)

	ret, err := retriever.New(context.Background(), model.RetrieverConfig{TopK: 3, WideTopK: 5, MinScore: 0.15}, kbase, nil)
	require.NoError(t, err)

	store := feedback.NewMemoryStore(50)
	conv, err := conversations.NewManager(repo.NewMemoryConversationRepository(), model.ConversationConfig{TTL: "15m", MaxTurns: 10})
	require.NoError(t, err)

	eng, err := New(Deps{
		Classifier: cls,
		Registry:   reg,
		Retriever:  ret,
		Assembler:  prompt.NewAssembler(0),
		Chain:      validator.NewChain(gen, kbase, validator.New(model.ValidatorConfig{MinChars: 20, StrictMinChars: 40})),
		Filter:     feedback.NewAvoidanceFilter(store, 0.7),
		Feedback:   store,
		Conv:       conv,
	})
	require.NoError(t, err)
	return eng
}

func TestProcessEmptyInput(t *testing.T) {
	gen := &scriptedGen{text: "should never be called"}
	eng := buildEngine(t, gen)

	out, err := eng.Process(context.Background(), model.QueryInput{Message: "   ", SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, validator.FailureText("en"), out.Response)
	assert.Equal(t, model.IntentUnknown, out.Intent)
	assert.Zero(t, out.Confidence)
	assert.Equal(t, model.AgentCatchall, out.AgentID)
	assert.NotEmpty(t, out.MessageID)
	assert.Zero(t, gen.calls, "empty input must not reach the model")
}

func TestProcessEstablishedQuestionRoutesToFAQ(t *testing.T) {
	gen := &scriptedGen{text: "FAIX was established in 2005 and hosts four undergraduate programmes."}
	eng := buildEngine(t, gen)

	out, err := eng.Process(context.Background(), model.QueryInput{Message: "When was FAIX established?", SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, model.IntentAboutFAIX, out.Intent)
	assert.Equal(t, 0.9, out.Confidence)
	assert.Equal(t, model.AgentFAQ, out.AgentID, "staff agent excludes history questions")
	assert.Equal(t, model.SourceLLM, out.Origin)
	assert.Contains(t, out.Response, "2005")
}

func TestProcessFallsToKnowledgeBaseOnTimeout(t *testing.T) {
	gen := &scriptedGen{err: errx.Wrap(errors.New("deadline"), errx.ErrGenerationTimeout)}
	eng := buildEngine(t, gen)

	out, err := eng.Process(context.Background(), model.QueryInput{Message: "how much is the tuition fee", SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, model.IntentFees, out.Intent)
	assert.Equal(t, model.SourceKnowledgeBase, out.Origin)
	assert.Contains(t, out.Response, "RM 1,800")
}

func TestProcessInvalidAgentHint(t *testing.T) {
	eng := buildEngine(t, &scriptedGen{text: "irrelevant"})

	_, err := eng.Process(context.Background(), model.QueryInput{Message: "hello", SessionID: "s1", AgentID: "billing"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errx.ErrInvalidAgentHint))
}

func TestProcessAvoidsBadRatedAnswer(t *testing.T) {
	answer := "Tuition for local students is RM 1,800 per semester at FAIX."
	gen := &scriptedGen{text: answer}
	eng := buildEngine(t, gen)
	ctx := context.Background()

	first, err := eng.Process(ctx, model.QueryInput{Message: "how much is the tuition fee", SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, answer, first.Response)
	assert.Equal(t, model.SourceLLM, first.Origin)

	require.NoError(t, eng.RecordFeedback(ctx, first.MessageID, model.RatingBad))

	second, err := eng.Process(ctx, model.QueryInput{Message: "what is the tuition fee amount", SessionID: "s2"})
	require.NoError(t, err)
	assert.NotEqual(t, answer, second.Response, "bad-rated text must not be repeated")
	assert.Equal(t, model.SourceKnowledgeBase, second.Origin)
}

func TestRecordFeedbackUnknownMessage(t *testing.T) {
	eng := buildEngine(t, &scriptedGen{text: "irrelevant"})
	err := eng.RecordFeedback(context.Background(), "no-such-id", model.RatingGood)
	assert.Error(t, err)
}

func TestRecordFeedbackInvalidRating(t *testing.T) {
	eng := buildEngine(t, &scriptedGen{text: "A long enough answer about the faculty for the validator."})
	ctx := context.Background()

	out, err := eng.Process(ctx, model.QueryInput{Message: "hello there", SessionID: "s1"})
	require.NoError(t, err)
	assert.Error(t, eng.RecordFeedback(ctx, out.MessageID, model.Rating("meh")))
}

func TestProcessPersistsHistoryAndLanguage(t *testing.T) {
	gen := &scriptedGen{text: "Kemasukan memerlukan CGPA 3.00 dengan kredit Matematik dan MUET Band 3."}
	eng := buildEngine(t, gen)
	ctx := context.Background()

	out, err := eng.Process(ctx, model.QueryInput{Message: "apakah syarat kemasukan untuk program ini", SessionID: "ms-1"})
	require.NoError(t, err)
	assert.Equal(t, "ms", out.Language)

	// the stored language now breaks ties for ambiguous follow-ups
	second, err := eng.Process(ctx, model.QueryInput{Message: "program?", SessionID: "ms-1"})
	require.NoError(t, err)
	assert.Equal(t, "ms", second.Language)
}

func TestProcessCallerHistoryPreferred(t *testing.T) {
	gen := &scriptedGen{text: "As mentioned, the semester starts on 7 September 2026."}
	eng := buildEngine(t, gen)

	out, err := eng.Process(context.Background(), model.QueryInput{
		Message:   "when does the semester start",
		SessionID: "s1",
		History: []model.ConversationTurn{
			{Role: model.RoleUser, Content: "hi"},
			{Role: model.RoleAssistant, Content: "Hello! How can I help?"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.AgentSchedule, out.AgentID)
}

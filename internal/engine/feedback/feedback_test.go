package feedback

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faix-chatbot/engine/internal/engine/model"
)

func badRecord(text string) model.FeedbackRecord {
	return model.FeedbackRecord{
		MessageID:    "msg-1",
		Intent:       model.IntentFees,
		ResponseText: text,
		Rating:       model.RatingBad,
		Timestamp:    time.Now().UTC(),
	}
}

func TestMemoryStoreWindow(t *testing.T) {
	s := NewMemoryStore(2)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		rec := badRecord(fmt.Sprintf("answer number %d", i))
		rec.MessageID = fmt.Sprintf("msg-%d", i)
		require.NoError(t, s.Record(ctx, rec))
	}

	recs, err := s.RecentBad(ctx, model.IntentFees)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "msg-2", recs[0].MessageID)
	assert.Equal(t, "msg-3", recs[1].MessageID)
}

func TestMemoryStoreGoodRatingsInvisibleToRecentBad(t *testing.T) {
	s := NewMemoryStore(10)
	ctx := context.Background()

	rec := badRecord("a perfectly fine answer")
	rec.Rating = model.RatingGood
	require.NoError(t, s.Record(ctx, rec))

	recs, err := s.RecentBad(ctx, model.IntentFees)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestFilterRejectsIdenticalText(t *testing.T) {
	s := NewMemoryStore(10)
	ctx := context.Background()
	require.NoError(t, s.Record(ctx, badRecord("Tuition is RM 1,800 per semester for local students.")))

	f := NewAvoidanceFilter(s, 0.7)
	assert.True(t, f.ShouldAvoid(ctx, model.IntentFees, "Tuition is RM 1,800 per semester for local students."))
}

func TestFilterAllowsDifferentText(t *testing.T) {
	s := NewMemoryStore(10)
	ctx := context.Background()
	require.NoError(t, s.Record(ctx, badRecord("Tuition is RM 1,800 per semester for local students.")))

	f := NewAvoidanceFilter(s, 0.7)
	assert.False(t, f.ShouldAvoid(ctx, model.IntentFees, "The FAIX Merit Scholarship waives the full tuition for students above CGPA 3.75."))
}

func TestFilterScopedToIntent(t *testing.T) {
	s := NewMemoryStore(10)
	ctx := context.Background()
	require.NoError(t, s.Record(ctx, badRecord("Tuition is RM 1,800 per semester for local students.")))

	f := NewAvoidanceFilter(s, 0.7)
	assert.False(t, f.ShouldAvoid(ctx, model.IntentAdmission, "Tuition is RM 1,800 per semester for local students."))
}

type failingStore struct{}

func (failingStore) Record(context.Context, model.FeedbackRecord) error { return nil }
func (failingStore) RecentBad(context.Context, model.Intent) ([]model.FeedbackRecord, error) {
	return nil, errors.New("store down")
}

func TestFilterFailsOpen(t *testing.T) {
	f := NewAvoidanceFilter(failingStore{}, 0.7)
	assert.False(t, f.ShouldAvoid(context.Background(), model.IntentFees, "any answer at all"))
}

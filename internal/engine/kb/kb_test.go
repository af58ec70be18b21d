package kb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faix-chatbot/engine/internal/engine/model"
)

func TestLoad(t *testing.T) {
	k, err := Load()
	require.NoError(t, err)
	assert.NotEmpty(t, k.Documents())
}

func TestLookupByIntent(t *testing.T) {
	k, err := Load()
	require.NoError(t, err)

	text, ok := k.Lookup(model.IntentFees, nil)
	require.True(t, ok)
	assert.Contains(t, text, "RM 1,800")
}

func TestLookupEntityKeyWinsOverIntent(t *testing.T) {
	k, err := Load()
	require.NoError(t, err)

	ents := []model.Entity{{Kind: model.EntityCourseCode, Value: "BAXI 3413"}}
	text, ok := k.Lookup(model.IntentProgramInfo, ents)
	require.True(t, ok)
	assert.Contains(t, text, "Natural Language Processing")
}

func TestLookupStaffNameKey(t *testing.T) {
	k, err := Load()
	require.NoError(t, err)

	ents := []model.Entity{{Kind: model.EntityPersonName, Value: "Halizah Basiron"}}
	text, ok := k.Lookup(model.IntentStaffContact, ents)
	require.True(t, ok)
	assert.Contains(t, text, "halizah@university.edu.my")
}

func TestLookupMiss(t *testing.T) {
	k, err := Load()
	require.NoError(t, err)

	_, ok := k.Lookup(model.IntentGreeting, nil)
	assert.False(t, ok)
}

func TestScopesAreKnown(t *testing.T) {
	k, err := Load()
	require.NoError(t, err)
	for _, d := range k.Documents() {
		assert.Contains(t, []string{"faq", "schedule", "staff"}, d.Scope, d.ID)
	}
}

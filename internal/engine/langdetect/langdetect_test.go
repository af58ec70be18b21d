package langdetect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faix-chatbot/engine/internal/engine/lexicon"
	"github.com/faix-chatbot/engine/internal/engine/model"
)

func TestDetectChineseByScript(t *testing.T) {
	assert.Equal(t, lexicon.LangChinese, Detect("学费是多少", ""))
}

func TestDetectMalayByMarkers(t *testing.T) {
	assert.Equal(t, lexicon.LangMalay, Detect("berapa yuran untuk program ini", ""))
}

func TestDetectEnglishDefault(t *testing.T) {
	assert.Equal(t, lexicon.LangEnglish, Detect("what are the admission requirements", ""))
}

func TestDetectEmptyFallsBackToSession(t *testing.T) {
	assert.Equal(t, lexicon.LangMalay, Detect("   ", lexicon.LangMalay))
	assert.Equal(t, lexicon.LangEnglish, Detect("", "xx"))
}

func TestDetectMalayShortForms(t *testing.T) {
	assert.Equal(t, lexicon.LangMalay, Detect("yuran brp", ""))
}

func TestDetectEnglishShortForms(t *testing.T) {
	assert.Equal(t, lexicon.LangEnglish, Detect("wat r the fees", ""))
}

func TestDetectTieBreaksOnSession(t *testing.T) {
	// "program" scores in neither stopword list.
	assert.Equal(t, lexicon.LangMalay, Detect("program?", lexicon.LangMalay))
	assert.Equal(t, lexicon.LangEnglish, Detect("program?", ""))
}

func TestExtractCourseCode(t *testing.T) {
	ents := ExtractEntities("Tell me about BAXI 3413 and BITZ")
	require.Len(t, ents, 2)
	assert.Equal(t, model.EntityCourseCode, ents[0].Kind)
	assert.Equal(t, "BAXI 3413", ents[0].Value)
	assert.Equal(t, "BITZ", ents[1].Value)
}

func TestExtractEmailAndPhone(t *testing.T) {
	ents := ExtractEntities("email dean@faix.edu.my or call 012-345 6789")
	kinds := map[model.EntityKind]string{}
	for _, e := range ents {
		kinds[e.Kind] = e.Value
	}
	assert.Equal(t, "dean@faix.edu.my", kinds[model.EntityEmail])
	assert.Equal(t, "012-345 6789", kinds[model.EntityPhone])
}

func TestExtractAmountAndDate(t *testing.T) {
	ents := ExtractEntities("pay RM 1,500.50 before 15 March 2026")
	kinds := map[model.EntityKind]string{}
	for _, e := range ents {
		kinds[e.Kind] = e.Value
	}
	assert.Equal(t, "RM 1,500.50", kinds[model.EntityAmount])
	assert.Equal(t, "15 March 2026", kinds[model.EntityDate])
}

func TestExtractStaffName(t *testing.T) {
	ents := ExtractEntities("how do I reach sazilah salam?")
	require.Len(t, ents, 1)
	assert.Equal(t, model.EntityPersonName, ents[0].Kind)
	assert.Equal(t, "Sazilah Salam", ents[0].Value)
}

func TestOverlapsResolveToLongest(t *testing.T) {
	// The amount pattern and date pattern never overlap, so force one with a
	// course code embedded in an email local part.
	ents := ExtractEntities("write to baxi@faix.edu.my")
	require.Len(t, ents, 1)
	assert.Equal(t, model.EntityEmail, ents[0].Kind)
}

func TestNoEntities(t *testing.T) {
	assert.Empty(t, ExtractEntities("hello there"))
}

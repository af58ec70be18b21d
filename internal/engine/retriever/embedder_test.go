package retriever

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/faix-chatbot/engine/internal/core/error"
)

func TestOllamaEmbedderRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		w.Write([]byte(`{"embedding":[0.1,0.2,0.3]}`))
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "", time.Second)
	vec, err := e.Embed(context.Background(), "tuition fees")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestOllamaEmbedderTagsServiceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "", time.Second)
	_, err := e.Embed(context.Background(), "tuition fees")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errx.ErrRetrievalUnavailable))
}

func TestOllamaEmbedderTagsEmptyVector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"embedding":[]}`))
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "", time.Second)
	_, err := e.Embed(context.Background(), "tuition fees")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errx.ErrRetrievalUnavailable))
}

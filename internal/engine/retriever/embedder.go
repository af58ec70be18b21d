package retriever

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	errx "github.com/faix-chatbot/engine/internal/core/error"
)

// Embedder turns text into a vector. An error means the embedding service is
// unavailable; the retriever then degrades to keyword search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// OllamaEmbedder calls an Ollama-compatible /api/embeddings endpoint.
type OllamaEmbedder struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewOllamaEmbedder(baseURL, embedModel string, timeout time.Duration) *OllamaEmbedder {
	if embedModel == "" {
		embedModel = "nomic-embed-text"
	}
	return &OllamaEmbedder{
		baseURL: baseURL,
		model:   embedModel,
		client:  &http.Client{Timeout: timeout},
	}
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

func (o *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Model: o.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("embedding request marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, errx.Wrap(fmt.Errorf("embedding call: %w", err), errx.ErrRetrievalUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, errx.Wrap(fmt.Errorf("embedding service status %d: %s", resp.StatusCode, snippet), errx.ErrRetrievalUnavailable)
	}
	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errx.Wrap(fmt.Errorf("embedding response decode: %w", err), errx.ErrRetrievalUnavailable)
	}
	if len(out.Embedding) == 0 {
		return nil, errx.Wrap(fmt.Errorf("embedding service returned empty vector"), errx.ErrRetrievalUnavailable)
	}
	return out.Embedding, nil
}

package service

import (
	"context"
	"fmt"

	"github.com/DIodide/eval-next-sub004/internal/config"
	"github.com/go-resty/resty/v2"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	taskTypeQuery    = "RETRIEVAL_QUERY"
	taskTypeDocument = "RETRIEVAL_DOCUMENT"
)

// GeminiEmbeddingService generates embeddings through the Gemini
// embedContent API. Implements EmbeddingProvider.
type GeminiEmbeddingService struct {
	client     *resty.Client
	model      string
	apiKey     string
	baseURL    string
	dimensions int
}

// NewGeminiEmbeddingService creates a Gemini-backed embedding provider.
// The service is constructed even without an API key; every embed call
// checks IsConfigured first so an unconfigured provider fails fast with
// ErrNotConfigured instead of an opaque HTTP 403.
func NewGeminiEmbeddingService(cfg *config.EmbeddingConfig) *GeminiEmbeddingService {
	client := resty.New()
	client.SetHeader("Content-Type", "application/json")

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}

	return &GeminiEmbeddingService{
		client:     client,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		dimensions: cfg.Dimensions,
	}
}

// GetModel returns the model name being used
func (s *GeminiEmbeddingService) GetModel() string {
	return s.model
}

// Dimensions returns the embedding dimensionality
func (s *GeminiEmbeddingService) Dimensions() int {
	return s.dimensions
}

// IsConfigured reports whether an API key is available.
func (s *GeminiEmbeddingService) IsConfigured() bool {
	return s.apiKey != ""
}

// Gemini API request/response structures
type geminiEmbedRequest struct {
	Model                string        `json:"model"`
	Content              geminiContent `json:"content"`
	TaskType             string        `json:"taskType,omitempty"`
	OutputDimensionality int           `json:"outputDimensionality,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiEmbedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// EmbedQuery generates an embedding optimized for search queries
func (s *GeminiEmbeddingService) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return s.embed(ctx, text, taskTypeQuery)
}

// EmbedDocument generates an embedding optimized for stored documents
func (s *GeminiEmbeddingService) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return s.embed(ctx, text, taskTypeDocument)
}

func (s *GeminiEmbeddingService) embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	if !s.IsConfigured() {
		return nil, fmt.Errorf("%w: missing API key", ErrNotConfigured)
	}

	req := geminiEmbedRequest{
		Model:                "models/" + s.model,
		Content:              geminiContent{Parts: []geminiPart{{Text: text}}},
		TaskType:             taskType,
		OutputDimensionality: s.dimensions,
	}

	var resp geminiEmbedResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("key", s.apiKey).
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(fmt.Sprintf("%s/models/%s:embedContent", s.baseURL, s.model))

	if err != nil {
		return nil, fmt.Errorf("%w: failed to call Gemini API: %v", ErrProvider, err)
	}

	if httpResp.StatusCode() != 200 {
		if resp.Error != nil && resp.Error.Message != "" {
			return nil, fmt.Errorf("%w: Gemini API error: %s", ErrProvider, resp.Error.Message)
		}
		return nil, fmt.Errorf("%w: Gemini API error: status %d", ErrProvider, httpResp.StatusCode())
	}

	if len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned", ErrProvider)
	}

	return resp.Embedding.Values, nil
}

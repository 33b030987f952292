package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DIodide/eval-next-sub004/internal/config"
)

func newTestGemini(baseURL, apiKey string) *GeminiEmbeddingService {
	return NewGeminiEmbeddingService(&config.EmbeddingConfig{
		Provider:   "gemini",
		Model:      "text-embedding-004",
		APIKey:     apiKey,
		BaseURL:    baseURL,
		Dimensions: 4,
	})
}

// TestGeminiNotConfigured verifies an unconfigured provider fails before any
// network call
func TestGeminiNotConfigured(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unconfigured provider should not reach the network")
	}))
	defer server.Close()

	svc := newTestGemini(server.URL, "")

	if svc.IsConfigured() {
		t.Fatal("IsConfigured should be false without an API key")
	}

	_, err := svc.EmbedQuery(context.Background(), "aggressive duelist")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("want ErrNotConfigured, got %v", err)
	}
}

// TestGeminiEmbedSuccess verifies request shape and response decoding
func TestGeminiEmbedSuccess(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing key query param")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"embedding": map[string]interface{}{
				"values": []float32{0.1, 0.2, 0.3, 0.4},
			},
		})
	}))
	defer server.Close()

	svc := newTestGemini(server.URL, "test-key")

	vec, err := svc.EmbedDocument(context.Background(), "Player: Jordan Lee")
	if err != nil {
		t.Fatalf("EmbedDocument failed: %v", err)
	}
	if len(vec) != 4 {
		t.Fatalf("want 4 values, got %d", len(vec))
	}

	if gotPath != "/models/text-embedding-004:embedContent" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotBody["taskType"] != "RETRIEVAL_DOCUMENT" {
		t.Errorf("document embed should use RETRIEVAL_DOCUMENT, got %v", gotBody["taskType"])
	}
}

// TestGeminiQueryTaskType verifies queries are embedded with the query task
// type
func TestGeminiQueryTaskType(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"embedding": map[string]interface{}{"values": []float32{1}},
		})
	}))
	defer server.Close()

	svc := newTestGemini(server.URL, "test-key")
	if _, err := svc.EmbedQuery(context.Background(), "clutch IGL"); err != nil {
		t.Fatalf("EmbedQuery failed: %v", err)
	}

	if gotBody["taskType"] != "RETRIEVAL_QUERY" {
		t.Errorf("query embed should use RETRIEVAL_QUERY, got %v", gotBody["taskType"])
	}
}

// TestGeminiEmptyEmbedding verifies an empty values array is a provider error
func TestGeminiEmptyEmbedding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"embedding": map[string]interface{}{"values": []float32{}},
		})
	}))
	defer server.Close()

	svc := newTestGemini(server.URL, "test-key")
	_, err := svc.EmbedQuery(context.Background(), "support main")
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("want ErrProvider for empty embedding, got %v", err)
	}
}

// TestGeminiAPIError verifies non-200 responses surface the API message
func TestGeminiAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"code":    429,
				"message": "Resource has been exhausted",
				"status":  "RESOURCE_EXHAUSTED",
			},
		})
	}))
	defer server.Close()

	svc := newTestGemini(server.URL, "test-key")
	_, err := svc.EmbedQuery(context.Background(), "entry fragger")
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("want ErrProvider, got %v", err)
	}
}

// TestGeminiTransportError verifies unreachable endpoints map to ErrProvider
func TestGeminiTransportError(t *testing.T) {
	svc := newTestGemini("http://127.0.0.1:1", "test-key")
	_, err := svc.EmbedQuery(context.Background(), "flex player")
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("want ErrProvider on transport failure, got %v", err)
	}
}

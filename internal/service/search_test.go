package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DIodide/eval-next-sub004/internal/domain"
)

func newTestSearchService(store *fakeStore, provider *fakeProvider) *TalentSearchService {
	return NewTalentSearchService(store, provider, SearchConfig{
		DefaultLimit: 20,
		MaxLimit:     100,
	}, nil)
}

// TestSearchInvalidFilters verifies contradictory or out-of-range filters
// are rejected before the provider is called
func TestSearchInvalidFilters(t *testing.T) {
	minSim := float32(1.5)
	lowGpa := 2.0
	highGpa := 3.5
	badGpa := 5.0

	testCases := []struct {
		name string
		req  SearchRequest
	}{
		{
			name: "empty query",
			req:  SearchRequest{Query: ""},
		},
		{
			name: "min gpa above max gpa",
			req:  SearchRequest{Query: "igl", MinGPA: &highGpa, MaxGPA: &lowGpa},
		},
		{
			name: "gpa out of range",
			req:  SearchRequest{Query: "igl", MinGPA: &badGpa},
		},
		{
			name: "min similarity out of range",
			req:  SearchRequest{Query: "igl", MinSimilarity: &minSim},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			provider := &fakeProvider{configured: true}
			svc := newTestSearchService(store, provider)

			_, err := svc.Search(context.Background(), &tc.req)
			if !errors.Is(err, ErrInvalidFilters) {
				t.Fatalf("want ErrInvalidFilters, got %v", err)
			}
			if provider.callCount() != 0 {
				t.Errorf("provider should not be called for invalid filters")
			}
		})
	}
}

// TestSearchLimitNormalization verifies default and clamped limits reach the
// store
func TestSearchLimitNormalization(t *testing.T) {
	testCases := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{name: "zero gets default", limit: 0, wantLimit: 20},
		{name: "negative gets default", limit: -5, wantLimit: 20},
		{name: "within bounds kept", limit: 50, wantLimit: 50},
		{name: "above max clamped", limit: 500, wantLimit: 100},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			svc := newTestSearchService(store, &fakeProvider{configured: true})

			_, err := svc.Search(context.Background(), &SearchRequest{Query: "igl", Limit: tc.limit})
			if err != nil {
				t.Fatalf("Search failed: %v", err)
			}
			if store.lastFilters.Limit != tc.wantLimit {
				t.Errorf("limit: got %d, want %d", store.lastFilters.Limit, tc.wantLimit)
			}
		})
	}
}

// TestSearchFiltersPassthrough verifies structured filters reach the store
// unchanged
func TestSearchFiltersPassthrough(t *testing.T) {
	store := newFakeStore()
	svc := newTestSearchService(store, &fakeProvider{configured: true})

	minGpa := 3.0
	_, err := svc.Search(context.Background(), &SearchRequest{
		Query:       "shot caller",
		Game:        "VALORANT",
		ClassYears:  []int{2026, 2027},
		SchoolTypes: []string{"high_school"},
		Locations:   []string{"Texas"},
		MinGPA:      &minGpa,
		Roles:       []string{"IGL"},
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	f := store.lastFilters
	if f.Game != "VALORANT" {
		t.Errorf("game: got %q", f.Game)
	}
	if len(f.ClassYears) != 2 || f.ClassYears[0] != 2026 {
		t.Errorf("class years: got %v", f.ClassYears)
	}
	if f.MinGPA == nil || *f.MinGPA != 3.0 {
		t.Errorf("min gpa: got %v", f.MinGPA)
	}
	if len(f.Roles) != 1 || f.Roles[0] != "IGL" {
		t.Errorf("roles: got %v", f.Roles)
	}
}

// TestSearchEmptyResults verifies an empty result set is a valid response
func TestSearchEmptyResults(t *testing.T) {
	store := newFakeStore()
	svc := newTestSearchService(store, &fakeProvider{configured: true})

	resp, err := svc.Search(context.Background(), &SearchRequest{Query: "cracked aim"})
	if err != nil {
		t.Fatalf("empty result set should not be an error: %v", err)
	}
	if resp.Total != 0 {
		t.Errorf("total: got %d, want 0", resp.Total)
	}
	if resp.Results == nil {
		t.Error("results should be an empty slice, not nil")
	}
}

// TestSearchRankedResults verifies results come back in store order with
// totals
func TestSearchRankedResults(t *testing.T) {
	store := newFakeStore()
	store.searchResults = []domain.VectorSearchResult{
		{PlayerID: "p7", Similarity: 0.91},
		{PlayerID: "p2", Similarity: 0.84},
	}
	svc := newTestSearchService(store, &fakeProvider{configured: true})

	resp, err := svc.Search(context.Background(), &SearchRequest{Query: "entry fragger"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("total: got %d, want 2", resp.Total)
	}
	if resp.Results[0].PlayerID != "p7" {
		t.Errorf("first result: got %s, want p7", resp.Results[0].PlayerID)
	}
}

// TestSearchProviderErrors verifies embedding failures propagate with their
// sentinel
func TestSearchProviderErrors(t *testing.T) {
	store := newFakeStore()
	svc := newTestSearchService(store, &fakeProvider{configured: false})

	_, err := svc.Search(context.Background(), &SearchRequest{Query: "igl"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("want ErrNotConfigured, got %v", err)
	}

	svc = newTestSearchService(store, &fakeProvider{configured: true, failOn: "igl"})
	_, err = svc.Search(context.Background(), &SearchRequest{Query: "igl"})
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("want ErrProvider, got %v", err)
	}
}

// TestSearchStoreError verifies store failures map to ErrQuery
func TestSearchStoreError(t *testing.T) {
	store := newFakeStore()
	store.searchErr = errors.New("connection refused")
	svc := newTestSearchService(store, &fakeProvider{configured: true})

	_, err := svc.Search(context.Background(), &SearchRequest{Query: "igl"})
	if !errors.Is(err, ErrQuery) {
		t.Fatalf("want ErrQuery, got %v", err)
	}
}

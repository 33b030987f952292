package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

// fakeObjectStorage is an in-memory ObjectStorage.
type fakeObjectStorage struct {
	objects map[string][]byte
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{objects: make(map[string][]byte)}
}

func (s *fakeObjectStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *fakeObjectStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeObjectStorage) GetURL(key string) string {
	return "https://reports.test/" + key
}

func (s *fakeObjectStorage) Delete(ctx context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func (s *fakeObjectStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := s.objects[key]
	return ok, nil
}

func testStats(refreshID string) *RefreshStats {
	now := time.Now()
	return &RefreshStats{
		RefreshID: refreshID,
		Processed: 5,
		Succeeded: 4,
		Failed:    1,
		FailedIDs: []string{"p3"},
		StartTime: now.Add(-time.Minute),
		EndTime:   now,
		Duration:  time.Minute,
	}
}

// TestReportArchiveFetchRoundTrip verifies an archived run can be loaded
// back by its ID
func TestReportArchiveFetchRoundTrip(t *testing.T) {
	store := newFakeObjectStorage()
	archiver := NewReportArchiver(store, nil)

	url, err := archiver.Archive(context.Background(), testStats("run-1"))
	if err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	if !strings.Contains(url, "refresh-reports/run-1.json") {
		t.Errorf("report URL should carry the run key, got %q", url)
	}

	stats, err := archiver.Fetch(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if stats.Processed != 5 || stats.Succeeded != 4 || stats.Failed != 1 {
		t.Errorf("round-tripped stats mismatch: %+v", stats)
	}
	if len(stats.FailedIDs) != 1 || stats.FailedIDs[0] != "p3" {
		t.Errorf("failed IDs: got %v, want [p3]", stats.FailedIDs)
	}
}

// TestReportFetchMissing verifies a missing report surfaces
// ErrReportNotFound
func TestReportFetchMissing(t *testing.T) {
	archiver := NewReportArchiver(newFakeObjectStorage(), nil)

	_, err := archiver.Fetch(context.Background(), "ghost")
	if !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("want ErrReportNotFound, got %v", err)
	}
}

// TestReportRemove verifies deletion and the not-found path
func TestReportRemove(t *testing.T) {
	store := newFakeObjectStorage()
	archiver := NewReportArchiver(store, nil)

	if _, err := archiver.Archive(context.Background(), testStats("run-2")); err != nil {
		t.Fatalf("Archive failed: %v", err)
	}

	if err := archiver.Remove(context.Background(), "run-2"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if len(store.objects) != 0 {
		t.Errorf("report should be deleted, %d objects remain", len(store.objects))
	}

	if err := archiver.Remove(context.Background(), "run-2"); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("second remove should report not found, got %v", err)
	}
}

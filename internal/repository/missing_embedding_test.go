package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils/tests"
)

// sqlRecorder captures every statement gorm renders, letting query shape be
// asserted without a database.
type sqlRecorder struct {
	queries []string
}

func (r *sqlRecorder) LogMode(gormlogger.LogLevel) gormlogger.Interface { return r }

func (r *sqlRecorder) Info(context.Context, string, ...interface{}) {}

func (r *sqlRecorder) Warn(context.Context, string, ...interface{}) {}

func (r *sqlRecorder) Error(context.Context, string, ...interface{}) {}

func (r *sqlRecorder) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	sql, _ := fc()
	r.queries = append(r.queries, sql)
}

func newDryRunDB(t *testing.T, rec *sqlRecorder) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{
		DryRun: true,
		Logger: rec,
	})
	if err != nil {
		t.Fatalf("failed to open dry-run db: %v", err)
	}
	return db
}

// TestMissingEmbeddingQueriesAgree verifies the missing-count and the
// missing-enumeration render the same anti-join, so a player can never be
// counted missing by one and not the other
func TestMissingEmbeddingQueriesAgree(t *testing.T) {
	rec := &sqlRecorder{}
	db := newDryRunDB(t, rec)

	playerRepo := NewPlayerRepository(db)
	embeddingRepo := NewPlayerEmbeddingRepository(db)

	if _, err := playerRepo.ListMissingEmbeddingIDs(context.Background()); err != nil {
		t.Fatalf("ListMissingEmbeddingIDs failed: %v", err)
	}
	if _, err := embeddingRepo.CountMissing(context.Background()); err != nil {
		t.Fatalf("CountMissing failed: %v", err)
	}

	if len(rec.queries) != 2 {
		t.Fatalf("expected 2 rendered queries, got %d: %v", len(rec.queries), rec.queries)
	}

	for i, query := range rec.queries {
		if !strings.Contains(query, missingEmbeddingJoin) {
			t.Errorf("query %d missing the anti-join:\n%s", i, query)
		}
		if !strings.Contains(query, missingEmbeddingCondition) {
			t.Errorf("query %d missing the IS NULL condition:\n%s", i, query)
		}
	}
}

// TestEmbeddedAndMissingPartition verifies the embedded side counts rows in
// player_embeddings directly while the missing side is its anti-join, so
// the two sides partition the player set on exactly one criterion
func TestEmbeddedAndMissingPartition(t *testing.T) {
	rec := &sqlRecorder{}
	db := newDryRunDB(t, rec)

	embeddingRepo := NewPlayerEmbeddingRepository(db)

	if _, err := embeddingRepo.CountEmbedded(context.Background()); err != nil {
		t.Fatalf("CountEmbedded failed: %v", err)
	}
	if _, err := embeddingRepo.Exists(context.Background(), "p1"); err != nil {
		t.Fatalf("Exists failed: %v", err)
	}

	if len(rec.queries) != 2 {
		t.Fatalf("expected 2 rendered queries, got %d: %v", len(rec.queries), rec.queries)
	}

	for i, query := range rec.queries {
		if !strings.Contains(query, "player_embeddings") {
			t.Errorf("query %d should target player_embeddings:\n%s", i, query)
		}
		if strings.Contains(query, "IS NULL") {
			t.Errorf("query %d must test row presence, not the anti-join:\n%s", i, query)
		}
	}
}

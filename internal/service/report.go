package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/DIodide/eval-next-sub004/internal/logger"
	"github.com/DIodide/eval-next-sub004/internal/storage"
)

// ReportArchiver uploads refresh run reports to object storage so runs can
// be audited after the fact. Archival is best-effort: a failed upload never
// fails the refresh it describes.
type ReportArchiver struct {
	store  storage.ObjectStorage
	logger *logger.Logger
}

// NewReportArchiver creates a new ReportArchiver instance.
func NewReportArchiver(store storage.ObjectStorage, log *logger.Logger) *ReportArchiver {
	if log == nil {
		log = logger.GetDefault()
	}
	return &ReportArchiver{
		store:  store,
		logger: log.WithField(logger.FieldComponent, "report_archiver"),
	}
}

// reportKey maps a refresh run ID to its object key. Keyed by run ID alone
// so reports can be fetched and removed without knowing when the run ended.
func reportKey(refreshID string) string {
	return fmt.Sprintf("refresh-reports/%s.json", refreshID)
}

// Archive uploads the stats of a completed refresh run as JSON.
// Parameters:
//   - ctx: context for cancellation.
//   - stats: completed run statistics; RefreshID must be set.
// Returns:
//   - string: URL of the archived report.
//   - error: non-nil if serialization or the upload fails.
func (a *ReportArchiver) Archive(ctx context.Context, stats *RefreshStats) (string, error) {
	payload, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize refresh report: %w", err)
	}

	key := reportKey(stats.RefreshID)
	if err := a.store.Upload(ctx, key, bytes.NewReader(payload), int64(len(payload)), "application/json"); err != nil {
		return "", fmt.Errorf("failed to upload refresh report: %w", err)
	}

	url := a.store.GetURL(key)
	a.logger.WithFields(logger.Fields{
		logger.FieldRefreshID: stats.RefreshID,
		"report_url":          url,
	}).Info("Archived refresh report")

	return url, nil
}

// Fetch retrieves an archived refresh report by run ID.
// Parameters:
//   - ctx: context for cancellation.
//   - refreshID: the run whose report to load.
// Returns:
//   - *RefreshStats: the archived run statistics.
//   - error: ErrReportNotFound when no report exists for the ID, other
//     errors on storage or decode failure.
func (a *ReportArchiver) Fetch(ctx context.Context, refreshID string) (*RefreshStats, error) {
	key := reportKey(refreshID)

	exists, err := a.store.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to check refresh report: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrReportNotFound, refreshID)
	}

	body, err := a.store.Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to download refresh report: %w", err)
	}
	defer body.Close()

	var stats RefreshStats
	if err := json.NewDecoder(body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("failed to decode refresh report: %w", err)
	}

	return &stats, nil
}

// Remove deletes an archived refresh report.
// Returns ErrReportNotFound when no report exists for the ID.
func (a *ReportArchiver) Remove(ctx context.Context, refreshID string) error {
	key := reportKey(refreshID)

	exists, err := a.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to check refresh report: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrReportNotFound, refreshID)
	}

	if err := a.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete refresh report: %w", err)
	}

	a.logger.WithField(logger.FieldRefreshID, refreshID).Info("Removed refresh report")
	return nil
}

package storage

import (
	"fmt"
	"strings"
)

// NewStorage creates the report store for the configured backend.
// Parameters:
//   - cfg: storage configuration; Bucket is required, Type is detected from
//     the endpoint when empty.
// Returns:
//   - ObjectStorage: initialized storage client.
//   - error: non-nil if the configuration is unusable or the client cannot
//     be created.
func NewStorage(cfg *S3Config) (ObjectStorage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage: bucket is required")
	}

	if cfg.Type == "" {
		cfg.Type = detectStorageType(cfg.Endpoint)
	}

	return NewS3Storage(cfg)
}

// detectStorageType infers the backend flavor from the endpoint host.
// R2 needs the distinction because its buckets cannot be created via API.
func detectStorageType(endpoint string) StorageType {
	host := strings.ToLower(endpoint)

	switch {
	case strings.Contains(host, "r2.cloudflarestorage.com"):
		return StorageTypeR2
	case strings.Contains(host, "amazonaws.com"):
		return StorageTypeS3
	default:
		return StorageTypeS3Compatible
	}
}

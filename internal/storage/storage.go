// Package storage exports feed snapshots to files or MongoDB.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/IshaanNene/NoticeGoat/internal/config"
	"github.com/IshaanNene/NoticeGoat/internal/types"
)

// Storage is the interface for all snapshot backends.
type Storage interface {
	// Store persists one feed snapshot.
	Store(ctx context.Context, feed types.FeedResult) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the storage backend identifier.
	Name() string
}

// New creates the backend named by cfg.Type. A comma-separated type list
// fans out to every named backend.
func New(cfg config.StorageConfig, logger *slog.Logger) (Storage, error) {
	var kinds []string
	for _, k := range strings.Split(cfg.Type, ",") {
		if k = strings.TrimSpace(k); k != "" {
			kinds = append(kinds, k)
		}
	}
	if len(kinds) == 0 {
		return nil, fmt.Errorf("no storage type configured")
	}

	backends := make([]Storage, 0, len(kinds))
	for _, kind := range kinds {
		b, err := newBackend(kind, cfg, logger)
		if err != nil {
			for _, opened := range backends {
				opened.Close()
			}
			return nil, &types.StorageError{Backend: kind, Err: err}
		}
		backends = append(backends, b)
	}
	if len(backends) == 1 {
		return backends[0], nil
	}
	return NewMultiStorage(backends, logger), nil
}

func newBackend(kind string, cfg config.StorageConfig, logger *slog.Logger) (Storage, error) {
	switch kind {
	case "mongo":
		return NewMongoStorage(cfg.MongoURI, cfg.Database, cfg.Collection, logger)
	default:
		return NewFileStorage(kind, cfg.OutputPath, logger)
	}
}

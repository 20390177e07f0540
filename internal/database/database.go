// Package database provides the request audit log with support for multiple backends.
package database

import (
	"context"
	"fmt"

	"github.com/factchecker/satyata/internal/config"
	"github.com/factchecker/satyata/internal/models"
)

// Store defines the interface for audit persistence.
type Store interface {
	// Audit logs
	LogRequest(ctx context.Context, log *models.AuditLog) error
	GetAuditLogs(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)

	// Lifecycle
	Close() error
	Migrate() error
}

// Open returns the store selected by cfg.Driver.
func Open(cfg *config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLiteStore(cfg.Path)
	case "none":
		return NopStore{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// NopStore discards audit entries.
type NopStore struct{}

func (NopStore) LogRequest(context.Context, *models.AuditLog) error { return nil }

func (NopStore) GetAuditLogs(context.Context, int, int) ([]*models.AuditLog, error) {
	return []*models.AuditLog{}, nil
}

func (NopStore) Close() error   { return nil }
func (NopStore) Migrate() error { return nil }

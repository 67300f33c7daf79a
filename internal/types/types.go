package types

import (
	"context"

	"github.com/xhad/cdpask/internal/models"
)

// Core interfaces
type DocumentStore interface {
	Upsert(ctx context.Context, doc models.PlatformDoc) error
	UpsertAll(ctx context.Context, docs []models.PlatformDoc) error
	Get(ctx context.Context, platform models.Platform) (models.PlatformDoc, error)
	List(ctx context.Context) ([]models.PlatformDoc, error)
	Close()
}

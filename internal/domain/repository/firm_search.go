package repository

import (
	"context"

	"github.com/oksasatya/firmhub/internal/domain/entity"
)

// FirmSearchQuery is a full text query over firm listings.
type FirmSearchQuery struct {
	Text     string
	Category entity.Category
	Region   entity.Region
	Size     int
}

// FirmSearchIndex keeps a searchable copy of firms. The database stays the source of truth.
type FirmSearchIndex interface {
	IndexFirm(ctx context.Context, f *entity.Firm) error
	DeleteFirm(ctx context.Context, id string) error
	// SearchFirms returns matching firm ids ordered by relevance.
	SearchFirms(ctx context.Context, q FirmSearchQuery) ([]string, error)
}

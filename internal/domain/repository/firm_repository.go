package repository

import (
	"context"

	"github.com/oksasatya/firmhub/internal/domain/entity"
)

// FirmFilter narrows List results. Zero values match everything.
type FirmFilter struct {
	VendorID string
	Category entity.Category
	Region   entity.Region
}

// FirmRepository defines the interface for firm-related database operations.
type FirmRepository interface {
	Create(ctx context.Context, f *entity.Firm) error
	GetByID(ctx context.Context, id string) (*entity.Firm, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Firm, error)
	List(ctx context.Context, filter FirmFilter) ([]*entity.Firm, error)
	UpdateImage(ctx context.Context, id string, img *entity.Image) error
	Delete(ctx context.Context, id string) error
}

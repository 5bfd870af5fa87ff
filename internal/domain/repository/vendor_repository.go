package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/firmhub/internal/domain/entity"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrDuplicateEmail    = errors.New("duplicate email")
	ErrDuplicateFirmName = errors.New("duplicate firm name")
)

// VendorRepository defines the interface for vendor-related database operations.
type VendorRepository interface {
	Create(ctx context.Context, v *entity.Vendor) error
	GetByID(ctx context.Context, id string) (*entity.Vendor, error)
	GetByEmail(ctx context.Context, email string) (*entity.Vendor, error)
	GetByUsername(ctx context.Context, username string) (*entity.Vendor, error)
	List(ctx context.Context) ([]*entity.Vendor, error)
	// AppendFirm adds firmID to the end of the vendor's firm list.
	AppendFirm(ctx context.Context, vendorID, firmID string) error
	// RemoveFirm drops firmID from the vendor's firm list; a missing id is not an error.
	RemoveFirm(ctx context.Context, vendorID, firmID string) error
}

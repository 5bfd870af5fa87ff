package mock

import (
	"context"

	"github.com/oksasatya/firmhub/internal/domain/entity"
	"github.com/oksasatya/firmhub/internal/domain/repository"
)

var (
	_ repository.VendorRepository = (*VendorRepository)(nil)
	_ repository.FirmRepository   = (*FirmRepository)(nil)
	_ repository.FirmSearchIndex  = (*FirmSearchIndex)(nil)
)

// VendorRepository is a mock implementation of repository.VendorRepository.
type VendorRepository struct {
	CreateFn        func(context.Context, *entity.Vendor) error
	GetByIDFn       func(context.Context, string) (*entity.Vendor, error)
	GetByEmailFn    func(context.Context, string) (*entity.Vendor, error)
	GetByUsernameFn func(context.Context, string) (*entity.Vendor, error)
	ListFn          func(context.Context) ([]*entity.Vendor, error)
	AppendFirmFn    func(context.Context, string, string) error
	RemoveFirmFn    func(context.Context, string, string) error
}

// NewVendorRepository returns a mock where lookups miss and writes succeed.
func NewVendorRepository() *VendorRepository {
	notFound := func(context.Context, string) (*entity.Vendor, error) { return nil, repository.ErrNotFound }
	return &VendorRepository{
		CreateFn:        func(context.Context, *entity.Vendor) error { return nil },
		GetByIDFn:       notFound,
		GetByEmailFn:    notFound,
		GetByUsernameFn: notFound,
		ListFn:          func(context.Context) ([]*entity.Vendor, error) { return nil, nil },
		AppendFirmFn:    func(context.Context, string, string) error { return nil },
		RemoveFirmFn:    func(context.Context, string, string) error { return nil },
	}
}

func (m *VendorRepository) Create(ctx context.Context, v *entity.Vendor) error {
	return m.CreateFn(ctx, v)
}

func (m *VendorRepository) GetByID(ctx context.Context, id string) (*entity.Vendor, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *VendorRepository) GetByEmail(ctx context.Context, email string) (*entity.Vendor, error) {
	return m.GetByEmailFn(ctx, email)
}

func (m *VendorRepository) GetByUsername(ctx context.Context, username string) (*entity.Vendor, error) {
	return m.GetByUsernameFn(ctx, username)
}

func (m *VendorRepository) List(ctx context.Context) ([]*entity.Vendor, error) {
	return m.ListFn(ctx)
}

func (m *VendorRepository) AppendFirm(ctx context.Context, vendorID, firmID string) error {
	return m.AppendFirmFn(ctx, vendorID, firmID)
}

func (m *VendorRepository) RemoveFirm(ctx context.Context, vendorID, firmID string) error {
	return m.RemoveFirmFn(ctx, vendorID, firmID)
}

// FirmRepository is a mock implementation of repository.FirmRepository.
type FirmRepository struct {
	CreateFn      func(context.Context, *entity.Firm) error
	GetByIDFn     func(context.Context, string) (*entity.Firm, error)
	GetByIDsFn    func(context.Context, []string) ([]*entity.Firm, error)
	ListFn        func(context.Context, repository.FirmFilter) ([]*entity.Firm, error)
	UpdateImageFn func(context.Context, string, *entity.Image) error
	DeleteFn      func(context.Context, string) error
}

// NewFirmRepository returns a mock where lookups miss and writes succeed.
func NewFirmRepository() *FirmRepository {
	return &FirmRepository{
		CreateFn:      func(context.Context, *entity.Firm) error { return nil },
		GetByIDFn:     func(context.Context, string) (*entity.Firm, error) { return nil, repository.ErrNotFound },
		GetByIDsFn:    func(context.Context, []string) ([]*entity.Firm, error) { return []*entity.Firm{}, nil },
		ListFn:        func(context.Context, repository.FirmFilter) ([]*entity.Firm, error) { return []*entity.Firm{}, nil },
		UpdateImageFn: func(context.Context, string, *entity.Image) error { return nil },
		DeleteFn:      func(context.Context, string) error { return nil },
	}
}

func (m *FirmRepository) Create(ctx context.Context, f *entity.Firm) error {
	return m.CreateFn(ctx, f)
}

func (m *FirmRepository) GetByID(ctx context.Context, id string) (*entity.Firm, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *FirmRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Firm, error) {
	return m.GetByIDsFn(ctx, ids)
}

func (m *FirmRepository) List(ctx context.Context, filter repository.FirmFilter) ([]*entity.Firm, error) {
	return m.ListFn(ctx, filter)
}

func (m *FirmRepository) UpdateImage(ctx context.Context, id string, img *entity.Image) error {
	return m.UpdateImageFn(ctx, id, img)
}

func (m *FirmRepository) Delete(ctx context.Context, id string) error {
	return m.DeleteFn(ctx, id)
}

// FirmSearchIndex is a mock implementation of repository.FirmSearchIndex.
type FirmSearchIndex struct {
	IndexFirmFn   func(context.Context, *entity.Firm) error
	DeleteFirmFn  func(context.Context, string) error
	SearchFirmsFn func(context.Context, repository.FirmSearchQuery) ([]string, error)
}

func NewFirmSearchIndex() *FirmSearchIndex {
	return &FirmSearchIndex{
		IndexFirmFn:   func(context.Context, *entity.Firm) error { return nil },
		DeleteFirmFn:  func(context.Context, string) error { return nil },
		SearchFirmsFn: func(context.Context, repository.FirmSearchQuery) ([]string, error) { return nil, nil },
	}
}

func (m *FirmSearchIndex) IndexFirm(ctx context.Context, f *entity.Firm) error {
	return m.IndexFirmFn(ctx, f)
}

func (m *FirmSearchIndex) DeleteFirm(ctx context.Context, id string) error {
	return m.DeleteFirmFn(ctx, id)
}

func (m *FirmSearchIndex) SearchFirms(ctx context.Context, q repository.FirmSearchQuery) ([]string, error) {
	return m.SearchFirmsFn(ctx, q)
}

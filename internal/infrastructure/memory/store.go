// Package memory holds map-backed repositories for local runs without Postgres and for tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/firmhub/internal/domain/entity"
	"github.com/oksasatya/firmhub/internal/domain/repository"
)

// Store keeps vendors and firms in memory with the same uniqueness rules as the SQL schema.
type Store struct {
	mu      sync.RWMutex
	vendors map[string]*entity.Vendor
	firms   map[string]*entity.Firm
	vOrder  []string
	fOrder  []string
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		vendors: map[string]*entity.Vendor{},
		firms:   map[string]*entity.Firm{},
		now:     time.Now,
	}
}

// Vendors returns the vendor repository view of the store.
func (s *Store) Vendors() *VendorRepository { return &VendorRepository{s: s} }

// Firms returns the firm repository view of the store.
func (s *Store) Firms() *FirmRepository { return &FirmRepository{s: s} }

func copyVendor(v *entity.Vendor) *entity.Vendor {
	c := *v
	c.FirmIDs = append([]string{}, v.FirmIDs...)
	return &c
}

func copyFirm(f *entity.Firm) *entity.Firm {
	c := *f
	c.Categories = append([]entity.Category{}, f.Categories...)
	c.Regions = append([]entity.Region{}, f.Regions...)
	if f.Image != nil {
		img := *f.Image
		c.Image = &img
	}
	return &c
}

type VendorRepository struct{ s *Store }

func (r *VendorRepository) Create(_ context.Context, v *entity.Vendor) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.vendors {
		if existing.Username == v.Username {
			return repository.ErrDuplicateUsername
		}
		if existing.Email == v.Email {
			return repository.ErrDuplicateEmail
		}
	}
	now := s.now()
	v.ID = uuid.NewString()
	v.FirmIDs = []string{}
	v.CreatedAt, v.UpdatedAt = now, now
	s.vendors[v.ID] = copyVendor(v)
	s.vOrder = append(s.vOrder, v.ID)
	return nil
}

func (r *VendorRepository) find(match func(*entity.Vendor) bool) (*entity.Vendor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, id := range r.s.vOrder {
		if v := r.s.vendors[id]; match(v) {
			return copyVendor(v), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *VendorRepository) GetByID(_ context.Context, id string) (*entity.Vendor, error) {
	return r.find(func(v *entity.Vendor) bool { return v.ID == id })
}

func (r *VendorRepository) GetByEmail(_ context.Context, email string) (*entity.Vendor, error) {
	return r.find(func(v *entity.Vendor) bool { return v.Email == email })
}

func (r *VendorRepository) GetByUsername(_ context.Context, username string) (*entity.Vendor, error) {
	return r.find(func(v *entity.Vendor) bool { return v.Username == username })
}

func (r *VendorRepository) List(_ context.Context) ([]*entity.Vendor, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Vendor, 0, len(r.s.vOrder))
	for _, id := range r.s.vOrder {
		out = append(out, copyVendor(r.s.vendors[id]))
	}
	return out, nil
}

func (r *VendorRepository) AppendFirm(_ context.Context, vendorID, firmID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vendors[vendorID]
	if !ok {
		return repository.ErrNotFound
	}
	v.FirmIDs = append(v.FirmIDs, firmID)
	v.UpdatedAt = r.s.now()
	return nil
}

func (r *VendorRepository) RemoveFirm(_ context.Context, vendorID, firmID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vendors[vendorID]
	if !ok {
		return repository.ErrNotFound
	}
	kept := v.FirmIDs[:0]
	for _, id := range v.FirmIDs {
		if id != firmID {
			kept = append(kept, id)
		}
	}
	v.FirmIDs = kept
	v.UpdatedAt = r.s.now()
	return nil
}

type FirmRepository struct{ s *Store }

func (r *FirmRepository) Create(_ context.Context, f *entity.Firm) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.vendors[f.VendorID]; !ok {
		return repository.ErrNotFound
	}
	for _, existing := range s.firms {
		if existing.Name == f.Name {
			return repository.ErrDuplicateFirmName
		}
	}
	now := s.now()
	f.ID = uuid.NewString()
	f.CreatedAt, f.UpdatedAt = now, now
	s.firms[f.ID] = copyFirm(f)
	s.fOrder = append(s.fOrder, f.ID)
	return nil
}

func (r *FirmRepository) GetByID(_ context.Context, id string) (*entity.Firm, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	f, ok := r.s.firms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyFirm(f), nil
}

func (r *FirmRepository) GetByIDs(_ context.Context, ids []string) ([]*entity.Firm, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.Firm{}
	for _, id := range ids {
		if f, ok := r.s.firms[id]; ok {
			out = append(out, copyFirm(f))
		}
	}
	return out, nil
}

func hasCategory(f *entity.Firm, c entity.Category) bool {
	for _, x := range f.Categories {
		if x == c {
			return true
		}
	}
	return false
}

func hasRegion(f *entity.Firm, reg entity.Region) bool {
	for _, x := range f.Regions {
		if x == reg {
			return true
		}
	}
	return false
}

func (r *FirmRepository) List(_ context.Context, filter repository.FirmFilter) ([]*entity.Firm, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*entity.Firm{}
	for _, id := range r.s.fOrder {
		f, ok := r.s.firms[id]
		if !ok {
			continue
		}
		if filter.VendorID != "" && f.VendorID != filter.VendorID {
			continue
		}
		if filter.Category != "" && !hasCategory(f, filter.Category) {
			continue
		}
		if filter.Region != "" && !hasRegion(f, filter.Region) {
			continue
		}
		out = append(out, copyFirm(f))
	}
	return out, nil
}

func (r *FirmRepository) UpdateImage(_ context.Context, id string, img *entity.Image) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.firms[id]
	if !ok {
		return repository.ErrNotFound
	}
	if img == nil {
		f.Image = nil
	} else {
		c := *img
		f.Image = &c
	}
	f.UpdatedAt = r.s.now()
	return nil
}

func (r *FirmRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.firms[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.firms, id)
	kept := r.s.fOrder[:0]
	for _, fid := range r.s.fOrder {
		if fid != id {
			kept = append(kept, fid)
		}
	}
	r.s.fOrder = kept
	return nil
}

var (
	_ repository.VendorRepository = (*VendorRepository)(nil)
	_ repository.FirmRepository   = (*FirmRepository)(nil)
)

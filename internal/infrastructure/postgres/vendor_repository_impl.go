package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/firmhub/internal/domain/entity"
	"github.com/oksasatya/firmhub/internal/domain/repository"
)

const vendorColumns = `id::text, username, email, password_hash, firm_ids::text[], created_at, updated_at`

type VendorRepository struct {
	pool *pgxpool.Pool
}

func NewVendorRepository(pool *pgxpool.Pool) *VendorRepository {
	return &VendorRepository{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVendor(row rowScanner) (*entity.Vendor, error) {
	v := &entity.Vendor{}
	if err := row.Scan(&v.ID, &v.Username, &v.Email, &v.Password, &v.FirmIDs,
		&v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	if v.FirmIDs == nil {
		v.FirmIDs = []string{}
	}
	return v, nil
}

func (r *VendorRepository) Create(ctx context.Context, v *entity.Vendor) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO vendors (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id::text, created_at, updated_at
	`, v.Username, v.Email, v.Password)

	if err := row.Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return mapError(err)
	}
	v.FirmIDs = []string{}
	return nil
}

func (r *VendorRepository) GetByID(ctx context.Context, id string) (*entity.Vendor, error) {
	return scanVendor(r.pool.QueryRow(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE id = $1`, id))
}

func (r *VendorRepository) GetByEmail(ctx context.Context, email string) (*entity.Vendor, error) {
	return scanVendor(r.pool.QueryRow(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE email = $1`, email))
}

func (r *VendorRepository) GetByUsername(ctx context.Context, username string) (*entity.Vendor, error) {
	return scanVendor(r.pool.QueryRow(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE username = $1`, username))
}

func (r *VendorRepository) List(ctx context.Context) ([]*entity.Vendor, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+vendorColumns+` FROM vendors ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*entity.Vendor{}
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *VendorRepository) AppendFirm(ctx context.Context, vendorID, firmID string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE vendors
		SET firm_ids = array_append(firm_ids, $2::uuid), updated_at = now()
		WHERE id = $1
	`, vendorID, firmID)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *VendorRepository) RemoveFirm(ctx context.Context, vendorID, firmID string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE vendors
		SET firm_ids = array_remove(firm_ids, $2::uuid), updated_at = now()
		WHERE id = $1
	`, vendorID, firmID)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.VendorRepository = (*VendorRepository)(nil)

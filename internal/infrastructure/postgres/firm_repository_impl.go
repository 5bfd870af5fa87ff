package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/firmhub/internal/domain/entity"
	"github.com/oksasatya/firmhub/internal/domain/repository"
)

const firmColumns = `id::text, name, area, categories, regions, offer, image_name, image_url, vendor_id::text, created_at, updated_at`

type FirmRepository struct {
	pool *pgxpool.Pool
}

func NewFirmRepository(pool *pgxpool.Pool) *FirmRepository {
	return &FirmRepository{pool: pool}
}

func scanFirm(row rowScanner) (*entity.Firm, error) {
	var (
		f                   entity.Firm
		categories, regions []string
		imgName, imgURL     string
	)
	if err := row.Scan(&f.ID, &f.Name, &f.Area, &categories, &regions, &f.Offer,
		&imgName, &imgURL, &f.VendorID, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	f.Categories = make([]entity.Category, len(categories))
	for i, c := range categories {
		f.Categories[i] = entity.Category(c)
	}
	f.Regions = make([]entity.Region, len(regions))
	for i, r := range regions {
		f.Regions[i] = entity.Region(r)
	}
	if imgName != "" {
		f.Image = &entity.Image{Name: imgName, URL: imgURL}
	}
	return &f, nil
}

func imageColumns(img *entity.Image) (string, string) {
	if img == nil {
		return "", ""
	}
	return img.Name, img.URL
}

func (r *FirmRepository) Create(ctx context.Context, f *entity.Firm) error {
	imgName, imgURL := imageColumns(f.Image)
	row := r.pool.QueryRow(ctx, `
		INSERT INTO firms (name, area, categories, regions, offer, image_name, image_url, vendor_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id::text, created_at, updated_at
	`, f.Name, f.Area, entity.CategoryStrings(f.Categories), entity.RegionStrings(f.Regions),
		f.Offer, imgName, imgURL, f.VendorID)

	return mapError(row.Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt))
}

func (r *FirmRepository) GetByID(ctx context.Context, id string) (*entity.Firm, error) {
	return scanFirm(r.pool.QueryRow(ctx, `SELECT `+firmColumns+` FROM firms WHERE id = $1`, id))
}

// GetByIDs returns the firms in the order of ids, skipping ids that no longer exist.
func (r *FirmRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Firm, error) {
	out := []*entity.Firm{}
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.pool.Query(ctx, `SELECT `+firmColumns+` FROM firms WHERE id = ANY($1::text[]::uuid[])`, ids)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var found []*entity.Firm
	for rows.Next() {
		f, err := scanFirm(rows)
		if err != nil {
			return nil, err
		}
		found = append(found, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orderByIDs(ids, found), nil
}

// orderByIDs returns found in the order of ids, skipping ids with no row.
func orderByIDs(ids []string, found []*entity.Firm) []*entity.Firm {
	byID := make(map[string]*entity.Firm, len(found))
	for _, f := range found {
		byID[f.ID] = f
	}
	out := make([]*entity.Firm, 0, len(ids))
	for _, id := range ids {
		if f, ok := byID[id]; ok {
			out = append(out, f)
		}
	}
	return out
}

// listQuery builds the SELECT for filter with numbered placeholders.
func listQuery(filter repository.FirmFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}
	if filter.VendorID != "" {
		add("vendor_id = ?::uuid", filter.VendorID)
	}
	if filter.Category != "" {
		add("? = ANY(categories)", string(filter.Category))
	}
	if filter.Region != "" {
		add("? = ANY(regions)", string(filter.Region))
	}

	q := `SELECT ` + firmColumns + ` FROM firms`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	return q + ` ORDER BY created_at, id`, args
}

func (r *FirmRepository) List(ctx context.Context, filter repository.FirmFilter) ([]*entity.Firm, error) {
	q, args := listQuery(filter)
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := []*entity.Firm{}
	for rows.Next() {
		f, err := scanFirm(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *FirmRepository) UpdateImage(ctx context.Context, id string, img *entity.Image) error {
	imgName, imgURL := imageColumns(img)
	res, err := r.pool.Exec(ctx, `
		UPDATE firms
		SET image_name = $1, image_url = $2, updated_at = $3
		WHERE id = $4
	`, imgName, imgURL, time.Now(), id)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *FirmRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM firms WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.FirmRepository = (*FirmRepository)(nil)

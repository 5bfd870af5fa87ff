package application

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/firmhub/config"
	"github.com/oksasatya/firmhub/internal/domain/entity"
	repo "github.com/oksasatya/firmhub/internal/domain/repository"
	"github.com/oksasatya/firmhub/pkg/mailer"
	mailtpl "github.com/oksasatya/firmhub/pkg/mailer/templates"
	"github.com/oksasatya/firmhub/pkg/metrics"
)

// sniffLen is how many leading bytes are inspected to detect the image type.
const sniffLen = 3072

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

type FirmService struct {
	Firms         repo.FirmRepository
	Vendors       repo.VendorRepository
	Images        ImageStore
	Index         repo.FirmSearchIndex
	Pub           JobPublisher
	Cfg           *config.Config
	MaxImageBytes int64
	Metrics       *metrics.Metrics
	Logger        *logrus.Logger
}

func NewFirmService(firms repo.FirmRepository, vendors repo.VendorRepository, images ImageStore, search repo.FirmSearchIndex, pub JobPublisher, cfg *config.Config, m *metrics.Metrics, logger *logrus.Logger) *FirmService {
	maxBytes := int64(5 << 20)
	if cfg != nil && cfg.UploadMaxBytes > 0 {
		maxBytes = cfg.UploadMaxBytes
	}
	return &FirmService{
		Firms:         firms,
		Vendors:       vendors,
		Images:        images,
		Index:         search,
		Pub:           pub,
		Cfg:           cfg,
		MaxImageBytes: maxBytes,
		Metrics:       m,
		Logger:        logger,
	}
}

// ImageUpload is an image file received from a client.
type ImageUpload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

type CreateFirmInput struct {
	Name       string
	Area       string
	Categories []string
	Regions    []string
	Offer      string
	Image      *ImageUpload
}

type ListFirmsInput struct {
	VendorID string
	Category string
	Region   string
}

type SearchFirmsInput struct {
	Query    string
	Category string
	Region   string
	Size     int
}

// Create persists a firm for vendorID and appends it to the vendor's firm list.
// The firm insert and the vendor update are separate writes.
func (s *FirmService) Create(ctx context.Context, vendorID string, in CreateFirmInput) (*entity.Firm, error) {
	categories, err := entity.NormalizeCategories(in.Categories)
	if err != nil {
		return nil, ErrInvalidTag
	}
	regions, err := entity.NormalizeRegions(in.Regions)
	if err != nil {
		return nil, ErrInvalidTag
	}

	vendor, err := s.vendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	f := &entity.Firm{
		Name:       strings.TrimSpace(in.Name),
		Area:       strings.TrimSpace(in.Area),
		Categories: categories,
		Regions:    regions,
		Offer:      strings.TrimSpace(in.Offer),
		VendorID:   vendor.ID,
	}

	if in.Image != nil {
		img, err := s.storeImage(ctx, vendor.ID, in.Image)
		if err != nil {
			return nil, err
		}
		f.Image = img
	}

	if err := s.Firms.Create(ctx, f); err != nil {
		s.discardImage(ctx, f.Image)
		if errors.Is(err, repo.ErrDuplicateFirmName) {
			return nil, ErrFirmNameTaken
		}
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrVendorNotFound
		}
		return nil, err
	}

	if err := s.Vendors.AppendFirm(ctx, vendor.ID, f.ID); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithFields(logrus.Fields{"vendor_id": vendor.ID, "firm_id": f.ID}).
				Warn("firm saved but vendor firm list not updated")
		}
		return nil, err
	}
	vendor.FirmIDs = append(vendor.FirmIDs, f.ID)
	s.Metrics.FirmCreated()

	s.indexFirm(ctx, f)
	imageURL := ""
	if f.Image != nil {
		imageURL = f.Image.URL
	}
	publish(ctx, s.Pub, s.Cfg, s.Logger, mailer.EmailJob{
		To:       vendor.Email,
		Template: mailtpl.FirmCreated,
		Data: mailtpl.NewFirmData(s.Cfg, vendor.Username, vendor.Email,
			mailtpl.WithFirm(f.Name, f.Area, entity.CategoryStrings(f.Categories), entity.RegionStrings(f.Regions), imageURL),
			mailtpl.WithTime(f.CreatedAt),
		),
	})
	return f, nil
}

func (s *FirmService) Get(ctx context.Context, id string) (*entity.Firm, error) {
	if !validID(id) {
		return nil, ErrFirmNotFound
	}
	f, err := s.Firms.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrFirmNotFound
	}
	return f, err
}

func (s *FirmService) List(ctx context.Context, in ListFirmsInput) ([]*entity.Firm, error) {
	filter := repo.FirmFilter{}
	if in.VendorID != "" {
		if !validID(in.VendorID) {
			return nil, ErrInvalidID
		}
		filter.VendorID = in.VendorID
	}
	if in.Category != "" {
		if !entity.IsCategory(in.Category) {
			return nil, ErrInvalidTag
		}
		filter.Category = entity.Category(in.Category)
	}
	if in.Region != "" {
		if !entity.IsRegion(in.Region) {
			return nil, ErrInvalidTag
		}
		filter.Region = entity.Region(in.Region)
	}
	return s.Firms.List(ctx, filter)
}

// Search runs a full text query and loads the hits from the database in relevance order.
// Without a search index it returns an empty list.
func (s *FirmService) Search(ctx context.Context, in SearchFirmsInput) ([]*entity.Firm, error) {
	if s.Index == nil {
		return []*entity.Firm{}, nil
	}
	q := repo.FirmSearchQuery{Text: strings.TrimSpace(in.Query), Size: in.Size}
	if in.Category != "" {
		if !entity.IsCategory(in.Category) {
			return nil, ErrInvalidTag
		}
		q.Category = entity.Category(in.Category)
	}
	if in.Region != "" {
		if !entity.IsRegion(in.Region) {
			return nil, ErrInvalidTag
		}
		q.Region = entity.Region(in.Region)
	}
	ids, err := s.Index.SearchFirms(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.Firms.GetByIDs(ctx, ids)
}

// ReplaceImage swaps the firm's image; only the owning vendor may do this.
func (s *FirmService) ReplaceImage(ctx context.Context, vendorID, firmID string, upload *ImageUpload) (*entity.Firm, error) {
	f, err := s.owned(ctx, vendorID, firmID)
	if err != nil {
		return nil, err
	}
	img, err := s.storeImage(ctx, vendorID, upload)
	if err != nil {
		return nil, err
	}
	if err := s.Firms.UpdateImage(ctx, f.ID, img); err != nil {
		s.discardImage(ctx, img)
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrFirmNotFound
		}
		return nil, err
	}
	s.discardImage(ctx, f.Image)
	f.Image = img
	f.UpdatedAt = time.Now()
	s.indexFirm(ctx, f)
	return f, nil
}

// Delete removes the firm row, then the vendor's reference, image and search document.
func (s *FirmService) Delete(ctx context.Context, vendorID, firmID string) error {
	f, err := s.owned(ctx, vendorID, firmID)
	if err != nil {
		return err
	}
	if err := s.Firms.Delete(ctx, f.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrFirmNotFound
		}
		return err
	}
	if err := s.Vendors.RemoveFirm(ctx, f.VendorID, f.ID); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"vendor_id": f.VendorID, "firm_id": f.ID}).
			Warn("firm deleted but vendor firm list not updated")
	}
	s.discardImage(ctx, f.Image)
	if s.Index != nil {
		if err := s.Index.DeleteFirm(ctx, f.ID); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("firm_id", f.ID).Warn("es delete failed")
		}
	}
	s.Metrics.FirmDeleted()

	if v, err := s.Vendors.GetByID(ctx, f.VendorID); err == nil {
		publish(ctx, s.Pub, s.Cfg, s.Logger, mailer.EmailJob{
			To:       v.Email,
			Template: mailtpl.FirmDeleted,
			Data: mailtpl.NewFirmData(s.Cfg, v.Username, v.Email,
				mailtpl.WithFirm(f.Name, f.Area, nil, nil, ""),
				mailtpl.WithTime(time.Now()),
			),
		})
	}
	return nil
}

func (s *FirmService) vendor(ctx context.Context, vendorID string) (*entity.Vendor, error) {
	if !validID(vendorID) {
		return nil, ErrVendorNotFound
	}
	v, err := s.Vendors.GetByID(ctx, vendorID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrVendorNotFound
	}
	return v, err
}

func (s *FirmService) owned(ctx context.Context, vendorID, firmID string) (*entity.Firm, error) {
	f, err := s.Get(ctx, firmID)
	if err != nil {
		return nil, err
	}
	if f.VendorID != vendorID {
		return nil, ErrNotFirmOwner
	}
	return f, nil
}

// storeImage checks size and content type, then writes the image to the store.
func (s *FirmService) storeImage(ctx context.Context, vendorID string, up *ImageUpload) (*entity.Image, error) {
	if up == nil || up.Reader == nil {
		return nil, ErrUnsupportedImage
	}
	if s.Images == nil {
		return nil, ErrStorageUnavailable
	}
	if up.Size > s.MaxImageBytes {
		return nil, ErrImageTooLarge
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(up.Reader, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	head = head[:n]
	if n == 0 {
		return nil, ErrUnsupportedImage
	}
	mt := mimetype.Detect(head)
	if !mimetype.EqualsAny(mt.String(), allowedImageTypes...) {
		return nil, ErrUnsupportedImage
	}

	// the declared size may lie; cap what is actually read
	body := &countingReader{r: io.LimitReader(io.MultiReader(bytes.NewReader(head), up.Reader), s.MaxImageBytes+1)}
	name := "firms/" + vendorID + "/" + uuid.NewString() + mt.Extension()
	url, err := s.Images.Save(ctx, name, mt.String(), body)
	if err != nil {
		return nil, err
	}
	if body.n > s.MaxImageBytes {
		_ = s.Images.Delete(ctx, name)
		return nil, ErrImageTooLarge
	}
	s.Metrics.ImageStored(body.n)
	return &entity.Image{Name: name, URL: url}, nil
}

func (s *FirmService) discardImage(ctx context.Context, img *entity.Image) {
	if img == nil || s.Images == nil {
		return
	}
	if err := s.Images.Delete(ctx, img.Name); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("image", img.Name).Warn("image cleanup failed")
	}
}

func (s *FirmService) indexFirm(ctx context.Context, f *entity.Firm) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexFirm(ctx, f); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("firm_id", f.ID).Warn("es index failed")
	}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

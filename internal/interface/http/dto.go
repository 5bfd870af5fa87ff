package handlers

import (
	"time"

	"github.com/oksasatya/firmhub/internal/application"
	"github.com/oksasatya/firmhub/internal/domain/entity"
)

type imageDTO struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type firmDTO struct {
	ID        string    `json:"id"`
	FirmName  string    `json:"firm_name"`
	Area      string    `json:"area"`
	Category  []string  `json:"category"`
	Region    []string  `json:"region"`
	Offer     string    `json:"offer,omitempty"`
	Image     *imageDTO `json:"image,omitempty"`
	VendorID  string    `json:"vendor_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type vendorDTO struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirmIDs   []string  `json:"firm_ids"`
	Firms     []firmDTO `json:"firms,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type loginDTO struct {
	VendorID    string    `json:"vendor_id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func toFirmDTO(f *entity.Firm) firmDTO {
	d := firmDTO{
		ID:        f.ID,
		FirmName:  f.Name,
		Area:      f.Area,
		Category:  entity.CategoryStrings(f.Categories),
		Region:    entity.RegionStrings(f.Regions),
		Offer:     f.Offer,
		VendorID:  f.VendorID,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
	if d.Category == nil {
		d.Category = []string{}
	}
	if d.Region == nil {
		d.Region = []string{}
	}
	if f.Image != nil {
		d.Image = &imageDTO{Name: f.Image.Name, URL: f.Image.URL}
	}
	return d
}

func toFirmDTOs(firms []*entity.Firm) []firmDTO {
	out := make([]firmDTO, 0, len(firms))
	for _, f := range firms {
		out = append(out, toFirmDTO(f))
	}
	return out
}

func toVendorDTO(v *entity.Vendor) vendorDTO {
	ids := v.FirmIDs
	if ids == nil {
		ids = []string{}
	}
	return vendorDTO{
		ID:        v.ID,
		Username:  v.Username,
		Email:     v.Email,
		FirmIDs:   ids,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

func toVendorViewDTO(view *application.VendorView) vendorDTO {
	d := toVendorDTO(view.Vendor)
	d.Firms = toFirmDTOs(view.Firms)
	return d
}

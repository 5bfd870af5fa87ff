package templates

import (
	"time"

	"github.com/oksasatya/firmhub/config"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) { d.Time = t.UTC().Format("02 January 2006, 15:04") }
}

func WithFirm(name, area string, categories, regions []string, imageURL string) Option {
	return func(d *EmailData) {
		d.FirmName = name
		d.FirmArea = area
		d.Categories = categories
		d.Regions = regions
		d.ImageURL = imageURL
	}
}

func base(cfg *config.Config, username, email string) EmailData {
	d := EmailData{Username: username, Email: email, RecipientEmail: email}
	if cfg != nil {
		d.CompanyName = cfg.CompanyName
		d.AppName = cfg.AppName
		d.SupportURL = cfg.SupportURL
		d.DashboardURL = cfg.DashboardURL
	}
	return d
}

func build(d EmailData, opts []Option) map[string]any {
	for _, o := range opts {
		o(&d)
	}
	return ToMap(d)
}

// NewWelcomeVendorData builds the data for the welcome_vendor template.
func NewWelcomeVendorData(cfg *config.Config, username, email string, opts ...Option) map[string]any {
	return build(base(cfg, username, email), opts)
}

// NewFirmData builds the data for firm_created and firm_deleted templates.
func NewFirmData(cfg *config.Config, username, email string, opts ...Option) map[string]any {
	return build(base(cfg, username, email), opts)
}

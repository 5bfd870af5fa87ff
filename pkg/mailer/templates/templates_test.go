package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/firmhub/config"
)

func TestRenderFirmCreated(t *testing.T) {
	cfg := &config.Config{CompanyName: "FirmHub", DashboardURL: "https://dash.test"}
	data := NewFirmData(cfg, "spicy", "spicy@example.com",
		WithFirm("Spice Route", "Indiranagar", []string{"veg"}, []string{"south-indian", "chinese"}, ""),
		WithTime(time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)),
	)

	subject, text, html, err := Render(FirmCreated, data)
	require.NoError(t, err)
	require.Equal(t, "Spice Route is now listed on FirmHub", subject)
	require.Contains(t, text, "Regions: south-indian, chinese")
	require.Contains(t, text, "02 January 2026, 03:04")
	require.Contains(t, html, "https://dash.test")
	require.NotContains(t, html, "<img")
}

func TestRenderWelcomeDefaultsCompany(t *testing.T) {
	data := NewWelcomeVendorData(nil, "spicy", "spicy@example.com")
	subject, _, html, err := Render(WelcomeVendor, data)
	require.NoError(t, err)
	require.Equal(t, "Welcome to FirmHub, spicy", subject)
	require.Contains(t, html, "spicy@example.com")
}

func TestRenderEscapesHTML(t *testing.T) {
	data := NewFirmData(nil, "<b>x</b>", "x@example.com", WithFirm("A&B", "here", nil, nil, ""))
	_, _, html, err := Render(FirmDeleted, data)
	require.NoError(t, err)
	require.Contains(t, html, "&lt;b&gt;x&lt;/b&gt;")
	require.Contains(t, html, "A&amp;B")
}

func TestRenderUnknown(t *testing.T) {
	_, _, _, err := Render("nope", map[string]any{})
	require.Error(t, err)
	require.False(t, Known("nope"))
	require.True(t, Known(FirmCreated))
}

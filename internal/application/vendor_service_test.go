package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/firmhub/internal/domain/entity"
	"github.com/oksasatya/firmhub/internal/mock"
	"github.com/oksasatya/firmhub/pkg/helpers"
	"github.com/oksasatya/firmhub/pkg/mailer"
	mailtpl "github.com/oksasatya/firmhub/pkg/mailer/templates"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v, err := f.vendors.Register(ctx, RegisterInput{Username: " spicy ", Email: "Spicy@Example.com", Password: "password123"})
	require.NoError(t, err)
	require.NotEmpty(t, v.ID)
	require.Equal(t, "spicy", v.Username)
	require.Equal(t, "spicy@example.com", v.Email)
	require.NotEqual(t, "password123", v.Password)
	require.True(t, helpers.CompareHashAndPassword(v.Password, "password123"))

	require.Len(t, f.pub.Jobs, 1)
	job := f.pub.Jobs[0].(mailer.EmailJob)
	require.Equal(t, mailtpl.WelcomeVendor, job.Template)
	require.Equal(t, "spicy@example.com", job.To)

	_, err = f.vendors.Register(ctx, RegisterInput{Username: "other", Email: "spicy@example.com", Password: "password123"})
	require.ErrorIs(t, err, ErrEmailTaken)
	_, err = f.vendors.Register(ctx, RegisterInput{Username: "spicy", Email: "other@example.com", Password: "password123"})
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegisterRaceMapsConstraint(t *testing.T) {
	vendors := mock.NewVendorRepository()
	vendors.CreateFn = func(context.Context, *entity.Vendor) error { return errDupEmail }
	s := &VendorService{Vendors: vendors}

	_, err := s.Register(context.Background(), RegisterInput{Username: "a", Email: "a@x.test", Password: "password123"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterLookupError(t *testing.T) {
	boom := errors.New("db down")
	vendors := mock.NewVendorRepository()
	vendors.GetByEmailFn = func(context.Context, string) (*entity.Vendor, error) { return nil, boom }
	s := &VendorService{Vendors: vendors}

	_, err := s.Register(context.Background(), RegisterInput{Username: "a", Email: "a@x.test", Password: "password123"})
	require.ErrorIs(t, err, boom)
}

func TestLoginRefreshLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.vendors.Register(ctx, RegisterInput{Username: "spicy", Email: "spicy@example.com", Password: "password123"})
	require.NoError(t, err)

	_, _, err = f.vendors.Login(ctx, "spicy@example.com", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = f.vendors.Login(ctx, "nobody@example.com", "password123")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	v, pair, err := f.vendors.Login(ctx, "SPICY@example.com", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)

	key := helpers.SessionKey(v.ID)
	require.True(t, f.mr.Exists(key))
	sid := f.mr.HGet(key, "sid")
	claims, err := f.vendors.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, sid, claims.SessionID)

	rotated, vid, err := f.vendors.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, v.ID, vid)
	require.NotEqual(t, sid, f.mr.HGet(key, "sid"))

	// the old refresh token is bound to the replaced session id
	_, _, err = f.vendors.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, f.vendors.Logout(ctx, v.ID))
	require.False(t, f.mr.Exists(key))
	_, _, err = f.vendors.Refresh(ctx, rotated.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.vendors.Refresh(context.Background(), "not-a-token")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshWithoutSessionStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.vendors.Register(ctx, RegisterInput{Username: "spicy", Email: "spicy@example.com", Password: "password123"})
	require.NoError(t, err)
	_, pair, err := f.vendors.Login(ctx, "spicy@example.com", "password123")
	require.NoError(t, err)

	f.vendors.Redis = nil
	_, _, err = f.vendors.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetAndListExpandFirms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.vendors.Register(ctx, RegisterInput{Username: "a", Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)
	b, err := f.vendors.Register(ctx, RegisterInput{Username: "b", Email: "b@example.com", Password: "password123"})
	require.NoError(t, err)

	first, err := f.firms.Create(ctx, a.ID, CreateFirmInput{Name: "First", Area: "North"})
	require.NoError(t, err)
	second, err := f.firms.Create(ctx, a.ID, CreateFirmInput{Name: "Second", Area: "South"})
	require.NoError(t, err)

	view, err := f.vendors.Get(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, []string{first.ID, second.ID}, view.Vendor.FirmIDs)
	require.Len(t, view.Firms, 2)
	require.Equal(t, "First", view.Firms[0].Name)

	all, err := f.vendors.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, a.ID, all[0].Vendor.ID)
	require.Len(t, all[0].Firms, 2)
	require.Equal(t, b.ID, all[1].Vendor.ID)
	require.Empty(t, all[1].Firms)

	_, err = f.vendors.Get(ctx, "not-a-uuid")
	require.ErrorIs(t, err, ErrInvalidID)
	_, err = f.vendors.Get(ctx, "00000000-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, ErrVendorNotFound)
}

func TestNotifyDisabled(t *testing.T) {
	f := newFixture(t)
	f.vendors.Cfg.MailSendEnabled = false
	_, err := f.vendors.Register(context.Background(), RegisterInput{Username: "a", Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)
	require.Empty(t, f.pub.Jobs)
}

func TestNotifyPublishFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.pub.Err = errors.New("broker down")
	_, err := f.vendors.Register(context.Background(), RegisterInput{Username: "a", Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)
}

package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/firmhub/config"
	"github.com/oksasatya/firmhub/internal/domain/entity"
	repo "github.com/oksasatya/firmhub/internal/domain/repository"
	"github.com/oksasatya/firmhub/pkg/helpers"
	"github.com/oksasatya/firmhub/pkg/mailer"
	mailtpl "github.com/oksasatya/firmhub/pkg/mailer/templates"
	"github.com/oksasatya/firmhub/pkg/metrics"
)

type VendorService struct {
	Vendors    repo.VendorRepository
	Firms      repo.FirmRepository
	JWT        *helpers.JWTManager
	Redis      *redis.Client
	SessionTTL time.Duration
	Pub        JobPublisher
	Cfg        *config.Config
	Metrics    *metrics.Metrics
	Logger     *logrus.Logger
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// VendorView is a vendor with its firms expanded in firm-list order.
type VendorView struct {
	Vendor *entity.Vendor
	Firms  []*entity.Firm
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func NewVendorService(vendors repo.VendorRepository, firms repo.FirmRepository, jwt *helpers.JWTManager, rdb *redis.Client, pub JobPublisher, cfg *config.Config, m *metrics.Metrics, logger *logrus.Logger) *VendorService {
	ttl := 24 * time.Hour
	if cfg != nil && cfg.SessionTTL > 0 {
		ttl = cfg.SessionTTL
	}
	return &VendorService{
		Vendors:    vendors,
		Firms:      firms,
		JWT:        jwt,
		Redis:      rdb,
		SessionTTL: ttl,
		Pub:        pub,
		Cfg:        cfg,
		Metrics:    m,
		Logger:     logger,
	}
}

// Register creates a vendor with a bcrypt-hashed password.
// Uniqueness is pre-checked and enforced again by the unique constraints.
func (s *VendorService) Register(ctx context.Context, in RegisterInput) (*entity.Vendor, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)

	if _, err := s.Vendors.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if _, err := s.Vendors.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	v := &entity.Vendor{Username: username, Email: email, Password: hash}
	if err := s.Vendors.Create(ctx, v); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		case errors.Is(err, repo.ErrDuplicateUsername):
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	s.Metrics.VendorRegistered()
	if s.Logger != nil {
		s.Logger.WithField("vendor_id", v.ID).Info("vendor registered")
	}

	s.notify(ctx, mailer.EmailJob{
		To:       v.Email,
		Template: mailtpl.WelcomeVendor,
		Data:     mailtpl.NewWelcomeVendorData(s.Cfg, v.Username, v.Email, mailtpl.WithTime(time.Now())),
	})
	return v, nil
}

// Authenticate validates email/password and returns the vendor without issuing tokens.
func (s *VendorService) Authenticate(ctx context.Context, email, password string) (*entity.Vendor, error) {
	v, err := s.Vendors.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil || v == nil {
		s.Metrics.Login(false)
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(v.Password, password) {
		s.Metrics.Login(false)
		return nil, ErrInvalidCredentials
	}
	s.Metrics.Login(true)
	return v, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *VendorService) IssueTokens(ctx context.Context, v *entity.Vendor) (TokenPair, error) {
	sid := uuid.NewString()
	pair, err := s.tokens(v.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("vendor_id", v.ID).Error("generate tokens failed")
		}
		return TokenPair{}, err
	}

	if s.Redis != nil {
		fields := map[string]any{
			"vendor_id":  v.ID,
			"username":   v.Username,
			"email":      v.Email,
			"sid":        sid,
			"created_at": nowRFC3339(),
		}
		key := helpers.SessionKey(v.ID)
		pipe := s.Redis.TxPipeline()
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, s.SessionTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil {
			if s.Logger != nil {
				s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
			}
			return TokenPair{}, rErr
		}
	}
	return pair, nil
}

func (s *VendorService) tokens(vendorID, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(vendorID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(vendorID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *VendorService) Login(ctx context.Context, email, password string) (*entity.Vendor, TokenPair, error) {
	v, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, v)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return v, pair, nil
}

// Refresh validates the refresh token against the live session and rotates both tokens.
func (s *VendorService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	v, err := s.Vendors.GetByID(ctx, claims.VendorID)
	if err != nil || v == nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	// without a session store there is nothing to rotate against
	if s.Redis == nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	key := helpers.SessionKey(v.ID)
	current, rErr := s.Redis.HGet(ctx, key, "sid").Result()
	if rErr != nil || current != claims.SessionID {
		return TokenPair{}, "", ErrInvalidCredentials
	}

	sid := uuid.NewString()
	pair, err := s.tokens(v.ID, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	pipe := s.Redis.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"sid":        sid,
		"updated_at": nowRFC3339(),
	})
	pipe.Expire(ctx, key, s.SessionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return TokenPair{}, "", err
	}
	return pair, v.ID, nil
}

// Logout drops the vendor's session so outstanding tokens stop working.
func (s *VendorService) Logout(ctx context.Context, vendorID string) error {
	if s.Redis == nil {
		return nil
	}
	return helpers.RedisDel(ctx, s.Redis, helpers.SessionKey(vendorID))
}

func (s *VendorService) Get(ctx context.Context, id string) (*VendorView, error) {
	if !validID(id) {
		return nil, ErrInvalidID
	}
	v, err := s.Vendors.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrVendorNotFound
	}
	if err != nil {
		return nil, err
	}
	firms, err := s.Firms.GetByIDs(ctx, v.FirmIDs)
	if err != nil {
		return nil, err
	}
	return &VendorView{Vendor: v, Firms: firms}, nil
}

// List returns every vendor with firms expanded, using one query per table.
func (s *VendorService) List(ctx context.Context) ([]*VendorView, error) {
	vendors, err := s.Vendors.List(ctx)
	if err != nil {
		return nil, err
	}
	firms, err := s.Firms.List(ctx, repo.FirmFilter{})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Firm, len(firms))
	for _, f := range firms {
		byID[f.ID] = f
	}

	out := make([]*VendorView, 0, len(vendors))
	for _, v := range vendors {
		view := &VendorView{Vendor: v, Firms: make([]*entity.Firm, 0, len(v.FirmIDs))}
		for _, id := range v.FirmIDs {
			if f, ok := byID[id]; ok {
				view.Firms = append(view.Firms, f)
			}
		}
		out = append(out, view)
	}
	return out, nil
}

// notify enqueues an email when sending is enabled; failures are logged only.
func (s *VendorService) notify(ctx context.Context, job mailer.EmailJob) {
	publish(ctx, s.Pub, s.Cfg, s.Logger, job)
}

func publish(ctx context.Context, pub JobPublisher, cfg *config.Config, logger *logrus.Logger, job mailer.EmailJob) {
	if pub == nil || cfg == nil || !cfg.MailSendEnabled {
		return
	}
	if err := pub.PublishJSON(ctx, job); err != nil && logger != nil {
		logger.WithError(err).WithField("template", job.Template).Warn("failed to publish email job")
	}
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/firmhub/internal/application"
	"github.com/oksasatya/firmhub/internal/interface/middleware"
	"github.com/oksasatya/firmhub/pkg/helpers"
	"github.com/oksasatya/firmhub/pkg/response"
	"github.com/oksasatya/firmhub/pkg/validation"
)

type VendorHandler struct {
	Svc     *application.VendorService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewVendorHandler(svc *application.VendorService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *VendorHandler {
	return &VendorHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *VendorHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	v, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusCreated, toVendorDTO(v), "vendor registered")
}

func (h *VendorHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	v, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.OK(c, http.StatusOK, loginDTO{
		VendorID:    v.ID,
		Username:    v.Username,
		Email:       v.Email,
		AccessToken: pair.AccessToken,
		ExpiresAt:   pair.AccessTokenExpiry,
	}, "login successful")
}

// Refresh takes the refresh token from its cookie or, failing that, the JSON body.
func (h *VendorHandler) Refresh(c *gin.Context) {
	refresh, _ := c.Cookie(helpers.RefreshCookie)
	if refresh == "" {
		var req refreshRequest
		_ = c.ShouldBindJSON(&req)
		refresh = req.RefreshToken
	}
	if refresh == "" {
		response.Fail(c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, vid, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.OK(c, http.StatusOK, gin.H{
		"vendor_id":    vid,
		"access_token": pair.AccessToken,
		"expires_at":   pair.AccessTokenExpiry,
	}, "token refreshed")
}

func (h *VendorHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), c.GetString(middleware.CtxVendorIDKey)); err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Cookies.Clear(c)
	response.OK(c, http.StatusOK, gin.H{"logged_out": true}, "logged out")
}

func (h *VendorHandler) List(c *gin.Context) {
	views, err := h.Svc.List(c.Request.Context())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	out := make([]vendorDTO, 0, len(views))
	for _, v := range views {
		out = append(out, toVendorViewDTO(v))
	}
	response.List(c, out, "vendors")
}

func (h *VendorHandler) Get(c *gin.Context) {
	h.get(c, c.Param("id"))
}

func (h *VendorHandler) Me(c *gin.Context) {
	h.get(c, c.GetString(middleware.CtxVendorIDKey))
}

func (h *VendorHandler) get(c *gin.Context, id string) {
	view, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, toVendorViewDTO(view), "vendor")
}

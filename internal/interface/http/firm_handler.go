package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/firmhub/internal/application"
	"github.com/oksasatya/firmhub/internal/interface/middleware"
	"github.com/oksasatya/firmhub/pkg/response"
	"github.com/oksasatya/firmhub/pkg/validation"
)

// multipartOverhead is allowed on top of the image limit for the other form fields.
const multipartOverhead = 1 << 20

type FirmHandler struct {
	Svc           *application.FirmService
	Logger        *logrus.Logger
	MaxImageBytes int64
}

func NewFirmHandler(svc *application.FirmService, logger *logrus.Logger) *FirmHandler {
	return &FirmHandler{Svc: svc, Logger: logger, MaxImageBytes: svc.MaxImageBytes}
}

type createFirmForm struct {
	FirmName   string   `form:"firm_name" binding:"required,max=120"`
	Area       string   `form:"area" binding:"required,max=120"`
	Categories []string `form:"category" binding:"omitempty,dive,firmcategory"`
	Regions    []string `form:"region" binding:"omitempty,dive,firmregion"`
	Offer      string   `form:"offer" binding:"max=500"`
}

type listFirmsQuery struct {
	VendorID string `form:"vendor_id" binding:"omitempty,uuid"`
	Category string `form:"category" binding:"omitempty,firmcategory"`
	Region   string `form:"region" binding:"omitempty,firmregion"`
}

type searchFirmsQuery struct {
	Q        string `form:"q" binding:"max=200"`
	Category string `form:"category" binding:"omitempty,firmcategory"`
	Region   string `form:"region" binding:"omitempty,firmregion"`
	Size     int    `form:"size" binding:"omitempty,min=1,max=100"`
}

// Create accepts multipart/form-data with an optional image file.
// Tags may be sent as repeated category/region fields or with a [] suffix.
func (h *FirmHandler) Create(c *gin.Context) {
	h.limitBody(c)
	var form createFirmForm
	if err := c.ShouldBind(&form); err != nil {
		h.bindFailed(c, err)
		return
	}
	form.Categories = append(form.Categories, c.PostFormArray("category[]")...)
	form.Regions = append(form.Regions, c.PostFormArray("region[]")...)

	upload, closeFn, err := h.imageUpload(c, false)
	if err != nil {
		h.bindFailed(c, err)
		return
	}
	defer closeFn()

	f, err := h.Svc.Create(c.Request.Context(), c.GetString(middleware.CtxVendorIDKey), application.CreateFirmInput{
		Name:       form.FirmName,
		Area:       form.Area,
		Categories: form.Categories,
		Regions:    form.Regions,
		Offer:      form.Offer,
		Image:      upload,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusCreated, toFirmDTO(f), "firm created")
}

func (h *FirmHandler) List(c *gin.Context) {
	var q listFirmsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	firms, err := h.Svc.List(c.Request.Context(), application.ListFirmsInput{
		VendorID: q.VendorID,
		Category: q.Category,
		Region:   q.Region,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.List(c, toFirmDTOs(firms), "firms")
}

func (h *FirmHandler) Get(c *gin.Context) {
	f, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, toFirmDTO(f), "firm")
}

func (h *FirmHandler) Search(c *gin.Context) {
	var q searchFirmsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	firms, err := h.Svc.Search(c.Request.Context(), application.SearchFirmsInput{
		Query:    q.Q,
		Category: q.Category,
		Region:   q.Region,
		Size:     q.Size,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.List(c, toFirmDTOs(firms), "search results")
}

func (h *FirmHandler) ReplaceImage(c *gin.Context) {
	h.limitBody(c)
	upload, closeFn, err := h.imageUpload(c, true)
	if err != nil {
		h.bindFailed(c, err)
		return
	}
	defer closeFn()

	f, err := h.Svc.ReplaceImage(c.Request.Context(), c.GetString(middleware.CtxVendorIDKey), c.Param("id"), upload)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, toFirmDTO(f), "firm image updated")
}

func (h *FirmHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.GetString(middleware.CtxVendorIDKey), c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"deleted": true, "id": c.Param("id")}, "firm deleted")
}

func (h *FirmHandler) limitBody(c *gin.Context) {
	if h.MaxImageBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxImageBytes+multipartOverhead)
	}
}

var errImageRequired = errors.New("image is required")

// imageUpload opens the "image" form file. A missing file is nil unless required.
func (h *FirmHandler) imageUpload(c *gin.Context, required bool) (*application.ImageUpload, func(), error) {
	noop := func() {}
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		if required {
			return nil, noop, errImageRequired
		}
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, err
	}
	file, err := fh.Open()
	if err != nil {
		return nil, noop, err
	}
	return &application.ImageUpload{Filename: fh.Filename, Size: fh.Size, Reader: file}, closer(file), nil
}

func closer(f multipart.File) func() {
	return func() { _ = f.Close() }
}

func (h *FirmHandler) bindFailed(c *gin.Context, err error) {
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		response.Fail(c, http.StatusRequestEntityTooLarge, application.ErrImageTooLarge.Error(),
			gin.H{"max_bytes": strconv.FormatInt(h.MaxImageBytes, 10)})
	case errors.Is(err, errImageRequired):
		response.Fail(c, http.StatusBadRequest, "invalid payload", gin.H{"image": "is required"})
	default:
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
	}
}

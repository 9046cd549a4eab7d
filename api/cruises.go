package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/Domenick1991/cruisebooking/internal/domain"
	"github.com/Domenick1991/cruisebooking/internal/media"
	"github.com/Domenick1991/cruisebooking/internal/service/cruises"
	"github.com/gin-gonic/gin"
)

const (
	msgCruiseNotFound    = "Cruise not found"
	msgInvalidCruiseData = "Invalid cruise data"
	maxImageUploadBytes  = 10 << 20
)

type ImageUploader interface {
	Upload(ctx context.Context, cruiseID int64, r io.Reader) (string, error)
}

type CruiseHandler struct {
	service cruises.CruiseUseCase
	images  ImageUploader
}

type cruiseRequest struct {
	Name                string   `json:"name" binding:"required"`
	Description         string   `json:"description" binding:"required"`
	DepartureLocation   string   `json:"departureLocation" binding:"required"`
	DestinationLocation string   `json:"destinationLocation" binding:"required"`
	Duration            int      `json:"duration" binding:"required,min=1"`
	BasePrice           float64  `json:"basePrice" binding:"min=0"`
	TaxesFees           float64  `json:"taxesFees" binding:"min=0"`
	Gratuities          float64  `json:"gratuities" binding:"min=0"`
	Image               string   `json:"image" binding:"required"`
	Rating              float64  `json:"rating" binding:"min=0,max=5"`
	ReviewCount         int      `json:"reviewCount" binding:"min=0"`
	IsActive            *bool    `json:"isActive"`
	DepartureOptions    []string `json:"departureOptions"`
}

func (r cruiseRequest) input() domain.CruiseInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return domain.CruiseInput{
		Name:                r.Name,
		Description:         r.Description,
		DepartureLocation:   r.DepartureLocation,
		DestinationLocation: r.DestinationLocation,
		Duration:            r.Duration,
		BasePrice:           r.BasePrice,
		TaxesFees:           r.TaxesFees,
		Gratuities:          r.Gratuities,
		Image:               r.Image,
		Rating:              r.Rating,
		ReviewCount:         r.ReviewCount,
		IsActive:            active,
		DepartureOptions:    r.DepartureOptions,
	}
}

// NewCruiseHandler builds the catalog endpoints. images may be nil, in which
// case uploads answer 501.
func NewCruiseHandler(service cruises.CruiseUseCase, images ImageUploader) *CruiseHandler {
	return &CruiseHandler{service: service, images: images}
}

func (h *CruiseHandler) Register(router *gin.RouterGroup) {
	router.GET("/cruises", h.list)
	router.GET("/cruises/:id", h.get)
	router.POST("/cruises", RequireAdmin(), h.create)
	router.PUT("/cruises/:id", RequireAdmin(), h.update)
	router.DELETE("/cruises/:id", RequireAdmin(), h.delete)
	router.POST("/cruises/:id/image", RequireAdmin(), h.uploadImage)
}

func (h *CruiseHandler) list(c *gin.Context) {
	cruises, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err, msgCruiseNotFound, "Error fetching cruises")
		return
	}
	c.JSON(http.StatusOK, cruises)
}

func (h *CruiseHandler) get(c *gin.Context) {
	id, ok := cruiseID(c)
	if !ok {
		return
	}
	cruise, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, msgCruiseNotFound, "Error fetching cruise")
		return
	}
	c.JSON(http.StatusOK, cruise)
}

func (h *CruiseHandler) create(c *gin.Context) {
	var req cruiseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, msgInvalidCruiseData)
		return
	}

	cruise, err := h.service.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err, msgCruiseNotFound, "Error creating cruise")
		return
	}
	c.JSON(http.StatusCreated, cruise)
}

func (h *CruiseHandler) update(c *gin.Context) {
	id, ok := cruiseID(c)
	if !ok {
		return
	}
	var req cruiseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, msgInvalidCruiseData)
		return
	}

	cruise, found, err := h.service.Update(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, err, msgCruiseNotFound, "Error updating cruise")
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, errorResponse{Message: msgCruiseNotFound})
		return
	}
	c.JSON(http.StatusOK, cruise)
}

func (h *CruiseHandler) delete(c *gin.Context) {
	id, ok := cruiseID(c)
	if !ok {
		return
	}
	deleted, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, msgCruiseNotFound, "Error deleting cruise")
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, errorResponse{Message: msgCruiseNotFound})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CruiseHandler) uploadImage(c *gin.Context) {
	if h.images == nil {
		c.JSON(http.StatusNotImplemented, errorResponse{Message: "Image storage is not configured"})
		return
	}
	id, ok := cruiseID(c)
	if !ok {
		return
	}
	if _, err := h.service.GetByID(c.Request.Context(), id); err != nil {
		respondError(c, err, msgCruiseNotFound, "Error uploading image")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageUploadBytes)
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{
			Message: "Invalid image upload",
			Errors:  []domain.FieldError{{Field: "image", Message: "is required"}},
		})
		return
	}
	src, err := file.Open()
	if err != nil {
		respondError(c, err, msgCruiseNotFound, "Error uploading image")
		return
	}
	defer src.Close()

	url, err := h.images.Upload(c.Request.Context(), id, src)
	if err != nil {
		if errors.Is(err, media.ErrInvalidImage) {
			c.JSON(http.StatusBadRequest, errorResponse{
				Message: "Invalid image upload",
				Errors:  []domain.FieldError{{Field: "image", Message: "must be a JPEG, PNG, GIF, BMP or TIFF image"}},
			})
			return
		}
		respondError(c, err, msgCruiseNotFound, "Error uploading image")
		return
	}

	cruise, found, err := h.service.SetImage(c.Request.Context(), id, url)
	if err != nil {
		respondError(c, err, msgCruiseNotFound, "Error uploading image")
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, errorResponse{Message: msgCruiseNotFound})
		return
	}
	c.JSON(http.StatusOK, cruise)
}

// cruiseID parses :id; an unparsable id cannot name a cruise, so it is a 404.
func cruiseID(c *gin.Context) (int64, bool) {
	return pathID(c, msgCruiseNotFound)
}

func pathID(c *gin.Context, notFound string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, errorResponse{Message: notFound})
		return 0, false
	}
	return id, true
}

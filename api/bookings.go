package api

import (
	"net/http"

	"github.com/Domenick1991/cruisebooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

const (
	msgBookingNotFound    = "Booking not found"
	msgInvalidBookingData = "Invalid booking data"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type bookingRequest struct {
	CruiseID      int64  `json:"cruiseId" binding:"required,gt=0"`
	CabinType     string `json:"cabinType" binding:"required,oneof=interior oceanview balcony suite"`
	Adults        int    `json:"adults" binding:"required,min=1,max=6"`
	Children      *int   `json:"children" binding:"required,min=0,max=4"`
	DepartureDate string `json:"departureDate" binding:"required"`
}

// input expects a bound request; Children is non-nil after binding.
func (r bookingRequest) input() booking.CreateBookingInput {
	return booking.CreateBookingInput{
		CruiseID:      r.CruiseID,
		CabinType:     r.CabinType,
		Adults:        r.Adults,
		Children:      *r.Children,
		DepartureDate: r.DepartureDate,
	}
}

type statusRequest struct {
	Status string `json:"status"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/calculate-price", h.calculatePrice)
	router.POST("/bookings", RequireAuth(), h.create)
	router.GET("/bookings", RequireAuth(), h.listMine)
	router.GET("/admin/bookings", RequireAdmin(), h.listAll)
	router.PATCH("/bookings/:id/status", RequireAdmin(), h.updateStatus)
}

func (h *BookingHandler) calculatePrice(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, msgInvalidBookingData)
		return
	}

	quote, err := h.service.Quote(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err, msgCruiseNotFound, "Error calculating price")
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, msgInvalidBookingData)
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), callerFrom(c).UserID, req.input())
	if err != nil {
		respondError(c, err, msgCruiseNotFound, "Error creating booking")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *BookingHandler) listMine(c *gin.Context) {
	bookings, err := h.service.ListForUser(c.Request.Context(), callerFrom(c).UserID)
	if err != nil {
		respondError(c, err, msgBookingNotFound, "Error fetching bookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) listAll(c *gin.Context) {
	bookings, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err, msgBookingNotFound, "Error fetching bookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) updateStatus(c *gin.Context) {
	id, ok := pathID(c, msgBookingNotFound)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: "Invalid status value"})
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err, msgBookingNotFound, "Error updating booking status")
		return
	}
	c.JSON(http.StatusOK, updated)
}

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Domenick1991/cruisebooking/internal/domain"
	"github.com/gin-gonic/gin"
)

type TicketRenderer interface {
	Render(b *domain.Booking, cruise *domain.Cruise, user *domain.User) ([]byte, error)
}

type bookingGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

type cruiseGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.Cruise, error)
}

type userGetter interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// TicketHandler serves booking confirmations as PDF downloads.
type TicketHandler struct {
	bookings bookingGetter
	cruises  cruiseGetter
	users    userGetter
	renderer TicketRenderer
}

func NewTicketHandler(bookings bookingGetter, cruises cruiseGetter, users userGetter, renderer TicketRenderer) *TicketHandler {
	return &TicketHandler{bookings: bookings, cruises: cruises, users: users, renderer: renderer}
}

func (h *TicketHandler) Register(router *gin.RouterGroup) {
	router.GET("/bookings/:id/ticket", RequireAuth(), h.download)
}

func (h *TicketHandler) download(c *gin.Context) {
	id, ok := pathID(c, msgBookingNotFound)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	b, err := h.bookings.GetByID(ctx, id)
	if err != nil {
		respondError(c, err, msgBookingNotFound, "Error generating ticket")
		return
	}
	caller := callerFrom(c)
	if b.UserID != caller.UserID && !caller.IsAdmin {
		// other customers' bookings are indistinguishable from missing ones
		c.JSON(http.StatusNotFound, errorResponse{Message: msgBookingNotFound})
		return
	}

	cruise, err := h.cruises.GetByID(ctx, b.CruiseID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		respondError(c, err, msgBookingNotFound, "Error generating ticket")
		return
	}
	user, err := h.users.GetByID(ctx, b.UserID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		respondError(c, err, msgBookingNotFound, "Error generating ticket")
		return
	}

	pdf, err := h.renderer.Render(b, cruise, user)
	if err != nil {
		respondError(c, err, msgBookingNotFound, "Error generating ticket")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=booking-%d.pdf", b.ID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

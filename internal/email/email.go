package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/cruisebooking/internal/domain"
	"github.com/Domenick1991/cruisebooking/internal/kafka"
	"github.com/Domenick1991/cruisebooking/internal/logging"
)

// UserLookup resolves the recipient of a notification.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Sender turns booking events into customer notifications. Delivery is a log
// line; an SMTP relay is not part of this service.
type Sender struct {
	users UserLookup
	log   logging.Logger
}

func NewSender(users UserLookup, log logging.Logger) *Sender {
	return &Sender{users: users, log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	user, err := s.users.GetByID(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("lookup recipient %d: %w", event.UserID, err)
	}

	subject, body := Compose(event, user)
	s.log.Info(ctx, "send email", "to", user.Email, "subject", subject, "body", body, "event_id", event.ID)
	return nil
}

// Compose renders subject and body for a booking event.
func Compose(event kafka.BookingEvent, user *domain.User) (string, string) {
	switch event.Type {
	case kafka.EventBookingCreated:
		return fmt.Sprintf("Booking #%d received", event.BookingID),
			fmt.Sprintf("Hi %s, we received your %s cabin booking departing %s. Total: $%.2f. Status: %s.",
				user.FirstName, event.CabinType, event.DepartureDate.Format("2006-01-02"), event.TotalPrice, event.Status)
	case kafka.EventBookingStatusChanged:
		return fmt.Sprintf("Booking #%d is now %s", event.BookingID, event.Status),
			fmt.Sprintf("Hi %s, the status of your booking #%d changed to %s.", user.FirstName, event.BookingID, event.Status)
	default:
		return fmt.Sprintf("Booking #%d update", event.BookingID),
			fmt.Sprintf("Hi %s, there is an update on booking #%d.", user.FirstName, event.BookingID)
	}
}

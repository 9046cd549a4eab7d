package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/cruisebooking/internal/domain"
	"github.com/Domenick1991/cruisebooking/internal/kafka"
	"github.com/Domenick1991/cruisebooking/internal/logging"
	"github.com/Domenick1991/cruisebooking/internal/pricing"
	"github.com/Domenick1991/cruisebooking/internal/repository"
	"github.com/google/uuid"
)

const (
	MinAdults   = 1
	MaxAdults   = 6
	MinChildren = 0
	MaxChildren = 4
)

type BookingUseCase interface {
	Quote(ctx context.Context, input CreateBookingInput) (*pricing.Quote, error)
	CreateBooking(ctx context.Context, userID int64, input CreateBookingInput) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListForUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	ListAll(ctx context.Context) ([]domain.Booking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	cruises            repository.CruiseRepository
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	log                logging.Logger
	now                func() time.Time
}

type CreateBookingInput struct {
	CruiseID      int64  `json:"cruiseId"`
	CabinType     string `json:"cabinType"`
	Adults        int    `json:"adults"`
	Children      int    `json:"children"`
	DepartureDate string `json:"departureDate"`
}

type BookingServiceOption func(*BookingService)

// WithEvents publishes lifecycle events to bookingTopic and, when set, notificationsTopic.
func WithEvents(producer Producer, bookingTopic, notificationsTopic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.bookingTopic = bookingTopic
		s.notificationsTopic = notificationsTopic
	}
}

func WithLogger(log logging.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.log = log
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	cruises repository.CruiseRepository,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings: bookings,
		cruises:  cruises,
		log:      logging.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Validate checks presence and ranges of every field.
func (in CreateBookingInput) Validate() error {
	v := domain.NewValidationError("Invalid booking data")
	if in.CruiseID <= 0 {
		v.Add("cruiseId", "is required")
	}
	if _, err := domain.ParseCabinType(in.CabinType); err != nil {
		v.Add("cabinType", "must be one of interior, oceanview, balcony, suite")
	}
	if in.Adults < MinAdults || in.Adults > MaxAdults {
		v.Add("adults", fmt.Sprintf("must be between %d and %d", MinAdults, MaxAdults))
	}
	if in.Children < MinChildren || in.Children > MaxChildren {
		v.Add("children", fmt.Sprintf("must be between %d and %d", MinChildren, MaxChildren))
	}
	if strings.TrimSpace(in.DepartureDate) == "" {
		v.Add("departureDate", "is required")
	} else if _, err := ParseDepartureDate(in.DepartureDate); err != nil {
		v.Add("departureDate", "must be a date (YYYY-MM-DD) or RFC3339 timestamp")
	}
	return v.OrNil()
}

// ParseDepartureDate accepts a calendar date or an RFC3339 timestamp.
func ParseDepartureDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func (s *BookingService) Quote(ctx context.Context, input CreateBookingInput) (*pricing.Quote, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	return s.quote(ctx, input)
}

func (s *BookingService) quote(ctx context.Context, input CreateBookingInput) (*pricing.Quote, error) {
	cruise, err := s.cruises.GetByID(ctx, input.CruiseID)
	if err != nil {
		return nil, fmt.Errorf("cruise %d: %w", input.CruiseID, err)
	}

	quote, err := pricing.Calculate(*cruise, pricing.Request{
		CabinType: domain.CabinType(input.CabinType),
		Adults:    input.Adults,
		Children:  input.Children,
	})
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (s *BookingService) CreateBooking(ctx context.Context, userID int64, input CreateBookingInput) (*domain.Booking, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	quote, err := s.quote(ctx, input)
	if err != nil {
		return nil, err
	}

	departure, _ := ParseDepartureDate(input.DepartureDate)
	now := s.now()
	booking := &domain.Booking{
		UserID:        userID,
		CruiseID:      input.CruiseID,
		CabinType:     domain.CabinType(input.CabinType),
		Adults:        input.Adults,
		Children:      input.Children,
		DepartureDate: departure,
		TotalPrice:    quote.TotalPrice,
		Status:        domain.BookingStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("store booking: %w", err)
	}

	s.log.Info(ctx, "booking created", "booking_id", booking.ID, "user_id", userID, "cruise_id", booking.CruiseID, "total_price", booking.TotalPrice)
	if err := s.publish(ctx, kafka.EventBookingCreated, booking); err != nil {
		s.log.Warn(ctx, "failed to publish booking event", "event", kafka.EventBookingCreated, "booking_id", booking.ID, "error", err)
	}
	return booking, nil
}

// UpdateStatus sets any of the three statuses, including leaving cancelled.
func (s *BookingService) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Booking, error) {
	next, err := domain.ParseBookingStatus(status)
	if err != nil {
		return nil, domain.NewValidationError("Invalid status value").Add("status", err.Error())
	}

	updated, err := s.bookings.UpdateStatus(ctx, id, next, s.now())
	if err != nil {
		return nil, fmt.Errorf("booking %d: %w", id, err)
	}

	s.log.Info(ctx, "booking status updated", "booking_id", id, "status", next)
	if err := s.publish(ctx, kafka.EventBookingStatusChanged, updated); err != nil {
		s.log.Warn(ctx, "failed to publish booking event", "event", kafka.EventBookingStatusChanged, "booking_id", id, "error", err)
	}
	return updated, nil
}

func (s *BookingService) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("booking %d: %w", id, err)
	}
	return b, nil
}

func (s *BookingService) ListForUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *BookingService) ListAll(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.List(ctx)
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		ID:            uuid.NewString(),
		Type:          eventType,
		BookingID:     booking.ID,
		UserID:        booking.UserID,
		CruiseID:      booking.CruiseID,
		CabinType:     string(booking.CabinType),
		Status:        string(booking.Status),
		TotalPrice:    booking.TotalPrice,
		DepartureDate: booking.DepartureDate,
		OccurredAt:    s.now(),
	}
	key := strconv.FormatInt(booking.ID, 10)

	var errs []error
	if err := s.producer.Publish(ctx, s.bookingTopic, key, event); err != nil {
		errs = append(errs, err)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, key, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ BookingUseCase = (*BookingService)(nil)

package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/cruisebooking/internal/domain"
	"github.com/Domenick1991/cruisebooking/internal/kafka"
	"github.com/Domenick1991/cruisebooking/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	if args.Error(0) == nil {
		booking.ID = 1
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, updatedAt time.Time) (*domain.Booking, error) {
	args := m.Called(ctx, id, status, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockCruiseRepository struct {
	mock.Mock
}

func (m *MockCruiseRepository) Create(ctx context.Context, cruise *domain.Cruise) error {
	return m.Called(ctx, cruise).Error(0)
}

func (m *MockCruiseRepository) GetByID(ctx context.Context, id int64) (*domain.Cruise, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cruise), args.Error(1)
}

func (m *MockCruiseRepository) List(ctx context.Context) ([]domain.Cruise, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Cruise), args.Error(1)
}

func (m *MockCruiseRepository) Update(ctx context.Context, cruise *domain.Cruise) error {
	return m.Called(ctx, cruise).Error(0)
}

func (m *MockCruiseRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

var fixedNow = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

func sampleCruise() *domain.Cruise {
	return &domain.Cruise{ID: 4, Name: "Caribbean Paradise", BasePrice: 1000, TaxesFees: 200, Gratuities: 100}
}

func validInput() CreateBookingInput {
	return CreateBookingInput{CruiseID: 4, CabinType: "balcony", Adults: 2, Children: 1, DepartureDate: "2025-06-15"}
}

func TestBookingService_CreateBooking_Success(t *testing.T) {
	mockBookingRepo := &MockBookingRepository{}
	mockCruiseRepo := &MockCruiseRepository{}
	mockProducer := &MockProducer{}

	service := NewBookingService(mockBookingRepo, mockCruiseRepo,
		WithEvents(mockProducer, "bookings", "notifications"),
		WithClock(func() time.Time { return fixedNow }),
	)
	ctx := context.Background()

	mockCruiseRepo.On("GetByID", ctx, int64(4)).Return(sampleCruise(), nil).Once()
	mockBookingRepo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil).Once()
	mockProducer.On("Publish", ctx, "bookings", "1", mock.MatchedBy(func(e kafka.BookingEvent) bool {
		return e.Type == kafka.EventBookingCreated && e.BookingID == 1 && e.Status == "pending"
	})).Return(nil).Once()
	mockProducer.On("Publish", ctx, "notifications", "1", mock.Anything).Return(nil).Once()

	booking, err := service.CreateBooking(ctx, 2, validInput())

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPending, booking.Status)
	assert.Equal(t, int64(2), booking.UserID)
	assert.Equal(t, domain.CabinBalcony, booking.CabinType)
	assert.InDelta(t, 5250, booking.TotalPrice, 1e-9)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), booking.DepartureDate)
	assert.Equal(t, fixedNow, booking.CreatedAt)
	assert.Equal(t, booking.CreatedAt, booking.UpdatedAt)

	mockCruiseRepo.AssertExpectations(t)
	mockBookingRepo.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_CreateBooking_ValidationErrors(t *testing.T) {
	service := NewBookingService(&MockBookingRepository{}, &MockCruiseRepository{})
	ctx := context.Background()

	testCases := []struct {
		name   string
		mutate func(*CreateBookingInput)
		field  string
	}{
		{"missing cruise", func(in *CreateBookingInput) { in.CruiseID = 0 }, "cruiseId"},
		{"unknown cabin", func(in *CreateBookingInput) { in.CabinType = "penthouse" }, "cabinType"},
		{"no adults", func(in *CreateBookingInput) { in.Adults = 0 }, "adults"},
		{"too many adults", func(in *CreateBookingInput) { in.Adults = 7 }, "adults"},
		{"negative children", func(in *CreateBookingInput) { in.Children = -1 }, "children"},
		{"too many children", func(in *CreateBookingInput) { in.Children = 5 }, "children"},
		{"missing date", func(in *CreateBookingInput) { in.DepartureDate = " " }, "departureDate"},
		{"bad date", func(in *CreateBookingInput) { in.DepartureDate = "next tuesday" }, "departureDate"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)

			booking, err := service.CreateBooking(ctx, 1, input)
			assert.Nil(t, booking)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tc.field, verr.Fields[0].Field)
		})
	}
}

func TestBookingService_CreateBooking_CruiseNotFound(t *testing.T) {
	mockBookingRepo := &MockBookingRepository{}
	mockCruiseRepo := &MockCruiseRepository{}
	service := NewBookingService(mockBookingRepo, mockCruiseRepo)
	ctx := context.Background()

	mockCruiseRepo.On("GetByID", ctx, int64(4)).Return(nil, domain.ErrNotFound).Once()

	booking, err := service.CreateBooking(ctx, 1, validInput())

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	mockBookingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookingService_CreateBooking_PublishFailureIsNotFatal(t *testing.T) {
	mockBookingRepo := &MockBookingRepository{}
	mockCruiseRepo := &MockCruiseRepository{}
	mockProducer := &MockProducer{}
	service := NewBookingService(mockBookingRepo, mockCruiseRepo, WithEvents(mockProducer, "bookings", ""))
	ctx := context.Background()

	mockCruiseRepo.On("GetByID", ctx, int64(4)).Return(sampleCruise(), nil).Once()
	mockBookingRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
	mockProducer.On("Publish", ctx, "bookings", "1", mock.Anything).Return(errors.New("kafka down")).Once()

	booking, err := service.CreateBooking(ctx, 1, validInput())

	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPending, booking.Status)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_CreateBooking_StoreFailure(t *testing.T) {
	mockBookingRepo := &MockBookingRepository{}
	mockCruiseRepo := &MockCruiseRepository{}
	service := NewBookingService(mockBookingRepo, mockCruiseRepo)
	ctx := context.Background()

	mockCruiseRepo.On("GetByID", ctx, int64(4)).Return(sampleCruise(), nil).Once()
	mockBookingRepo.On("Create", ctx, mock.Anything).Return(errors.New("disk full")).Once()

	booking, err := service.CreateBooking(ctx, 1, validInput())
	assert.Nil(t, booking)
	assert.ErrorContains(t, err, "disk full")
}

func TestBookingService_Quote(t *testing.T) {
	mockCruiseRepo := &MockCruiseRepository{}
	service := NewBookingService(&MockBookingRepository{}, mockCruiseRepo)
	ctx := context.Background()

	mockCruiseRepo.On("GetByID", ctx, int64(4)).Return(sampleCruise(), nil).Once()

	quote, err := service.Quote(ctx, validInput())
	require.NoError(t, err)
	assert.InDelta(t, 5250, quote.TotalPrice, 1e-9)
	assert.InDelta(t, 2750, quote.Breakdown.BasePrice, 1e-9)
	assert.InDelta(t, 1650, quote.Breakdown.CabinUpgrade, 1e-9)
	assert.InDelta(t, 600, quote.Breakdown.TaxesFees, 1e-9)
	assert.InDelta(t, 250, quote.Breakdown.Gratuities, 1e-9)
}

func TestBookingService_UpdateStatus(t *testing.T) {
	mockBookingRepo := &MockBookingRepository{}
	mockProducer := &MockProducer{}
	service := NewBookingService(mockBookingRepo, &MockCruiseRepository{},
		WithEvents(mockProducer, "bookings", ""),
		WithClock(func() time.Time { return fixedNow }),
	)
	ctx := context.Background()

	confirmed := &domain.Booking{ID: 3, Status: domain.BookingStatusConfirmed, UpdatedAt: fixedNow}
	mockBookingRepo.On("UpdateStatus", ctx, int64(3), domain.BookingStatusConfirmed, fixedNow).Return(confirmed, nil).Once()
	mockProducer.On("Publish", ctx, "bookings", "3", mock.Anything).Return(nil).Once()

	booking, err := service.UpdateStatus(ctx, 3, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, booking.Status)

	mockBookingRepo.AssertExpectations(t)
	mockProducer.AssertExpectations(t)
}

func TestBookingService_UpdateStatus_InvalidValue(t *testing.T) {
	mockBookingRepo := &MockBookingRepository{}
	service := NewBookingService(mockBookingRepo, &MockCruiseRepository{})

	booking, err := service.UpdateStatus(context.Background(), 3, "archived")

	assert.Nil(t, booking)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid status value", verr.Message)
	mockBookingRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBookingService_UpdateStatus_NotFound(t *testing.T) {
	mockBookingRepo := &MockBookingRepository{}
	service := NewBookingService(mockBookingRepo, &MockCruiseRepository{}, WithClock(func() time.Time { return fixedNow }))
	ctx := context.Background()

	mockBookingRepo.On("UpdateStatus", ctx, int64(9), domain.BookingStatusCancelled, fixedNow).Return(nil, domain.ErrNotFound).Once()

	_, err := service.UpdateStatus(ctx, 9, "cancelled")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func newMemoryService(now func() time.Time) (*BookingService, *repository.MemoryCruiseRepository) {
	cruises := repository.NewMemoryCruiseRepository()
	return NewBookingService(repository.NewMemoryBookingRepository(), cruises, WithClock(now)), cruises
}

func TestBookingService_Lifecycle_WithMemoryStore(t *testing.T) {
	clock := fixedNow
	service, cruises := newMemoryService(func() time.Time { return clock })
	ctx := context.Background()

	cruise := sampleCruise()
	cruise.ID = 0
	require.NoError(t, cruises.Create(ctx, cruise))

	input := validInput()
	input.CruiseID = cruise.ID

	mine, err := service.CreateBooking(ctx, 1, input)
	require.NoError(t, err)
	_, err = service.CreateBooking(ctx, 2, input)
	require.NoError(t, err)

	clock = clock.Add(time.Hour)
	first, err := service.UpdateStatus(ctx, mine.ID, "cancelled")
	require.NoError(t, err)

	clock = clock.Add(time.Hour)
	second, err := service.UpdateStatus(ctx, mine.ID, "cancelled")
	require.NoError(t, err)

	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	first.UpdatedAt, second.UpdatedAt = time.Time{}, time.Time{}
	assert.Equal(t, first, second, "repeating a status is idempotent apart from updatedAt")

	reopened, err := service.UpdateStatus(ctx, mine.ID, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, reopened.Status, "cancelled is not terminal")
	assert.Equal(t, mine.TotalPrice, reopened.TotalPrice, "price is fixed at creation")

	forUser, err := service.ListForUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, forUser, 1)
	assert.Equal(t, domain.BookingStatusConfirmed, forUser[0].Status)

	all, err := service.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestBookingService_BookingsSurviveCruiseDeletion(t *testing.T) {
	service, cruises := newMemoryService(time.Now)
	ctx := context.Background()

	cruise := sampleCruise()
	require.NoError(t, cruises.Create(ctx, cruise))

	input := validInput()
	input.CruiseID = cruise.ID
	created, err := service.CreateBooking(ctx, 1, input)
	require.NoError(t, err)

	deleted, err := cruises.Delete(ctx, cruise.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	got, err := service.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, cruise.ID, got.CruiseID)

	_, err = service.CreateBooking(ctx, 1, input)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestParseDepartureDate(t *testing.T) {
	d, err := ParseDepartureDate("2025-07-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDepartureDate("2025-07-05T09:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 9, d.Hour())

	_, err = ParseDepartureDate("05/07/2025")
	assert.Error(t, err)
}

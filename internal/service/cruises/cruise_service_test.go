package cruises

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/cruisebooking/internal/domain"
	"github.com/Domenick1991/cruisebooking/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCruiseRepository struct {
	mock.Mock
}

func (m *MockCruiseRepository) Create(ctx context.Context, cruise *domain.Cruise) error {
	args := m.Called(ctx, cruise)
	if args.Error(0) == nil {
		cruise.ID = 1
	}
	return args.Error(0)
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

type MockCache struct {
	mock.Mock
}

func (m *MockCache) CruisesVersion(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCache) GetCruises(ctx context.Context) ([]domain.Cruise, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Cruise), args.Error(1)
}

func (m *MockCache) SetCruises(ctx context.Context, version int64, cruises []domain.Cruise) error {
	return m.Called(ctx, version, cruises).Error(0)
}

func (m *MockCache) InvalidateCruises(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func validInput() domain.CruiseInput {
	return domain.CruiseInput{
		Name:                "Caribbean Paradise",
		Description:         "Seven nights of island hopping",
		DepartureLocation:   "Miami, FL",
		DestinationLocation: "Eastern Caribbean",
		Duration:            7,
		BasePrice:           1299,
		TaxesFees:           199,
		Gratuities:          99,
		Image:               "https://images.example.com/caribbean.jpg",
		Rating:              4.8,
		ReviewCount:         124,
		IsActive:            true,
		DepartureOptions:    []string{"2025-06-15"},
	}
}

func TestCruiseService_List_CacheMiss(t *testing.T) {
	mockRepo := &MockCruiseRepository{}
	mockCache := &MockCache{}
	service := NewCruiseService(mockRepo, mockCache, nil)
	ctx := context.Background()

	cruises := []domain.Cruise{{ID: 1, Name: "Caribbean Paradise"}, {ID: 2, Name: "Mediterranean Odyssey"}}

	mockCache.On("GetCruises", ctx).Return(nil, nil).Once()
	mockCache.On("CruisesVersion", ctx).Return(int64(4), nil).Once()
	mockRepo.On("List", ctx).Return(cruises, nil).Once()
	mockCache.On("SetCruises", ctx, int64(4), cruises).Return(nil).Once()

	result, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, cruises, result)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestCruiseService_List_CacheHit(t *testing.T) {
	mockRepo := &MockCruiseRepository{}
	mockCache := &MockCache{}
	service := NewCruiseService(mockRepo, mockCache, nil)
	ctx := context.Background()

	cached := []domain.Cruise{{ID: 3, Name: "Alaskan Adventure"}}
	mockCache.On("GetCruises", ctx).Return(cached, nil).Once()

	result, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, cached, result)
	mockRepo.AssertNotCalled(t, "List", mock.Anything)
}

func TestCruiseService_List_CacheErrorFallsBackToStore(t *testing.T) {
	mockRepo := &MockCruiseRepository{}
	mockCache := &MockCache{}
	service := NewCruiseService(mockRepo, mockCache, nil)
	ctx := context.Background()

	cruises := []domain.Cruise{{ID: 1}}
	mockCache.On("GetCruises", ctx).Return(nil, errors.New("redis down")).Once()
	mockCache.On("CruisesVersion", ctx).Return(int64(0), errors.New("redis down")).Once()
	mockRepo.On("List", ctx).Return(cruises, nil).Once()

	result, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, cruises, result)
	mockCache.AssertNotCalled(t, "SetCruises", mock.Anything, mock.Anything, mock.Anything)
}

func TestCruiseService_List_VersionReadBeforeStore(t *testing.T) {
	mockRepo := &MockCruiseRepository{}
	mockCache := &MockCache{}
	service := NewCruiseService(mockRepo, mockCache, nil)
	ctx := context.Background()

	var calls []string
	cruises := []domain.Cruise{{ID: 1}}
	mockCache.On("GetCruises", ctx).Return(nil, nil).Once()
	mockCache.On("CruisesVersion", ctx).Return(int64(7), nil).Once().
		Run(func(mock.Arguments) { calls = append(calls, "version") })
	mockRepo.On("List", ctx).Return(cruises, nil).Once().
		Run(func(mock.Arguments) { calls = append(calls, "store") })
	mockCache.On("SetCruises", ctx, int64(7), cruises).Return(nil).Once()

	_, err := service.List(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"version", "store"}, calls)
	mockCache.AssertExpectations(t)
}

func TestCruiseService_List_NoCache(t *testing.T) {
	mockRepo := &MockCruiseRepository{}
	service := NewCruiseService(mockRepo, nil, nil)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return([]domain.Cruise{}, nil).Once()

	result, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Empty(t, result)
}

func TestCruiseService_Create(t *testing.T) {
	mockRepo := &MockCruiseRepository{}
	mockCache := &MockCache{}
	service := NewCruiseService(mockRepo, mockCache, nil)
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.MatchedBy(func(c *domain.Cruise) bool {
		return c.Name == "Caribbean Paradise" && c.BasePrice == 1299
	})).Return(nil).Once()
	mockCache.On("InvalidateCruises", ctx).Return(nil).Once()

	cruise, err := service.Create(ctx, validInput())

	require.NoError(t, err)
	assert.Equal(t, int64(1), cruise.ID)
	assert.Equal(t, []string{"2025-06-15"}, cruise.DepartureOptions)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestCruiseService_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.CruiseInput)
		field  string
	}{
		{"missing name", func(in *domain.CruiseInput) { in.Name = " " }, "name"},
		{"missing image", func(in *domain.CruiseInput) { in.Image = "" }, "image"},
		{"zero duration", func(in *domain.CruiseInput) { in.Duration = 0 }, "duration"},
		{"negative base price", func(in *domain.CruiseInput) { in.BasePrice = -1 }, "basePrice"},
		{"negative taxes", func(in *domain.CruiseInput) { in.TaxesFees = -0.5 }, "taxesFees"},
		{"negative gratuities", func(in *domain.CruiseInput) { in.Gratuities = -3 }, "gratuities"},
		{"rating above five", func(in *domain.CruiseInput) { in.Rating = 5.1 }, "rating"},
		{"negative review count", func(in *domain.CruiseInput) { in.ReviewCount = -1 }, "reviewCount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockCruiseRepository{}
			service := NewCruiseService(mockRepo, nil, nil)

			in := validInput()
			tt.mutate(&in)
			_, err := service.Create(context.Background(), in)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "Invalid cruise data", verr.Message)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, tt.field, verr.Fields[0].Field)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCruiseService_GetByID_NotFound(t *testing.T) {
	mockRepo := &MockCruiseRepository{}
	service := NewCruiseService(mockRepo, nil, nil)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, int64(99)).Return(nil, domain.ErrNotFound).Once()

	cruise, err := service.GetByID(ctx, 99)

	assert.Nil(t, cruise)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCruiseService_Update_Missing(t *testing.T) {
	mockRepo := &MockCruiseRepository{}
	mockCache := &MockCache{}
	service := NewCruiseService(mockRepo, mockCache, nil)
	ctx := context.Background()

	mockRepo.On("Update", ctx, mock.AnythingOfType("*domain.Cruise")).Return(domain.ErrNotFound).Once()

	cruise, ok, err := service.Update(ctx, 42, validInput())

	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, cruise)
	mockCache.AssertNotCalled(t, "InvalidateCruises", mock.Anything)
}

func TestCruiseService_Delete(t *testing.T) {
	mockRepo := &MockCruiseRepository{}
	mockCache := &MockCache{}
	service := NewCruiseService(mockRepo, mockCache, nil)
	ctx := context.Background()

	mockRepo.On("Delete", ctx, int64(1)).Return(true, nil).Once()
	mockRepo.On("Delete", ctx, int64(2)).Return(false, nil).Once()
	mockCache.On("InvalidateCruises", ctx).Return(nil).Once()

	deleted, err := service.Delete(ctx, 1)
	assert.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = service.Delete(ctx, 2)
	assert.NoError(t, err)
	assert.False(t, deleted)

	mockCache.AssertExpectations(t)
}

func TestCruiseService_MemoryRoundTrip(t *testing.T) {
	service := NewCruiseService(repository.NewMemoryCruiseRepository(), nil, nil)
	ctx := context.Background()

	created, err := service.Create(ctx, validInput())
	require.NoError(t, err)

	in := validInput()
	in.Name = "Caribbean Paradise Deluxe"
	in.DepartureOptions = nil
	updated, ok, err := service.Update(ctx, created.ID, in)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Caribbean Paradise Deluxe", updated.Name)
	assert.Empty(t, updated.DepartureOptions)

	withImage, ok, err := service.SetImage(ctx, created.ID, "https://cdn.example.com/cruises/1.jpg")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/cruises/1.jpg", withImage.Image)

	_, ok, err = service.SetImage(ctx, 404, "x")
	assert.NoError(t, err)
	assert.False(t, ok)

	deleted, err := service.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = service.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

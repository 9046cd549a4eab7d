package cruises

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/cruisebooking/internal/domain"
	"github.com/Domenick1991/cruisebooking/internal/logging"
	"github.com/Domenick1991/cruisebooking/internal/repository"
)

type CruiseUseCase interface {
	Create(ctx context.Context, input domain.CruiseInput) (*domain.Cruise, error)
	GetByID(ctx context.Context, id int64) (*domain.Cruise, error)
	List(ctx context.Context) ([]domain.Cruise, error)
	Update(ctx context.Context, id int64, input domain.CruiseInput) (*domain.Cruise, bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	SetImage(ctx context.Context, id int64, imageURL string) (*domain.Cruise, bool, error)
}

// CruiseCache is a read-through cache of the full catalog. A nil slice from
// GetCruises is a miss. InvalidateCruises bumps the version, and a list stored
// under an older version is never returned.
type CruiseCache interface {
	CruisesVersion(ctx context.Context) (int64, error)
	GetCruises(ctx context.Context) ([]domain.Cruise, error)
	SetCruises(ctx context.Context, version int64, cruises []domain.Cruise) error
	InvalidateCruises(ctx context.Context) error
}

type CruiseService struct {
	repo  repository.CruiseRepository
	cache CruiseCache
	log   logging.Logger
}

func NewCruiseService(repo repository.CruiseRepository, cache CruiseCache, log logging.Logger) *CruiseService {
	if log == nil {
		log = logging.Nop()
	}
	return &CruiseService{repo: repo, cache: cache, log: log}
}

// ValidateInput enforces required fields and numeric ranges of a cruise.
func ValidateInput(in domain.CruiseInput) error {
	v := domain.NewValidationError("Invalid cruise data")
	required := map[string]string{
		"name":                in.Name,
		"description":         in.Description,
		"departureLocation":   in.DepartureLocation,
		"destinationLocation": in.DestinationLocation,
		"image":               in.Image,
	}
	for _, field := range []string{"name", "description", "departureLocation", "destinationLocation", "image"} {
		if strings.TrimSpace(required[field]) == "" {
			v.Add(field, "is required")
		}
	}
	if in.Duration < 1 {
		v.Add("duration", "must be at least 1 day")
	}
	if in.BasePrice < 0 {
		v.Add("basePrice", "must not be negative")
	}
	if in.TaxesFees < 0 {
		v.Add("taxesFees", "must not be negative")
	}
	if in.Gratuities < 0 {
		v.Add("gratuities", "must not be negative")
	}
	if in.Rating < 0 || in.Rating > 5 {
		v.Add("rating", "must be between 0 and 5")
	}
	if in.ReviewCount < 0 {
		v.Add("reviewCount", "must not be negative")
	}
	return v.OrNil()
}

func (s *CruiseService) Create(ctx context.Context, input domain.CruiseInput) (*domain.Cruise, error) {
	if err := ValidateInput(input); err != nil {
		return nil, err
	}

	cruise := &domain.Cruise{}
	input.Apply(cruise)
	if err := s.repo.Create(ctx, cruise); err != nil {
		return nil, fmt.Errorf("store cruise: %w", err)
	}
	s.invalidate(ctx)
	s.log.Info(ctx, "cruise created", "cruise_id", cruise.ID, "name", cruise.Name)
	return cruise, nil
}

func (s *CruiseService) GetByID(ctx context.Context, id int64) (*domain.Cruise, error) {
	cruise, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cruise %d: %w", id, err)
	}
	return cruise, nil
}

func (s *CruiseService) List(ctx context.Context) ([]domain.Cruise, error) {
	var (
		version   int64
		cacheable bool
	)
	if s.cache != nil {
		if cached, err := s.cache.GetCruises(ctx); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			s.log.Warn(ctx, "cruise cache read failed", "error", err)
		}
		// read before the store so a concurrent invalidation outdates our write
		v, err := s.cache.CruisesVersion(ctx)
		if err != nil {
			s.log.Warn(ctx, "cruise cache version read failed", "error", err)
		} else {
			version, cacheable = v, true
		}
	}

	cruises, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if cacheable {
		if err := s.cache.SetCruises(ctx, version, cruises); err != nil {
			s.log.Warn(ctx, "cruise cache write failed", "error", err)
		}
	}
	return cruises, nil
}

// Update replaces every mutable field. The bool is false when id does not exist.
func (s *CruiseService) Update(ctx context.Context, id int64, input domain.CruiseInput) (*domain.Cruise, bool, error) {
	if err := ValidateInput(input); err != nil {
		return nil, false, err
	}

	cruise := &domain.Cruise{ID: id}
	input.Apply(cruise)
	if err := s.repo.Update(ctx, cruise); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("update cruise %d: %w", id, err)
	}
	s.invalidate(ctx)

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("reload cruise %d: %w", id, err)
	}
	return updated, true, nil
}

// Delete removes the cruise only; bookings that reference it are kept.
func (s *CruiseService) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete cruise %d: %w", id, err)
	}
	if deleted {
		s.invalidate(ctx)
		s.log.Info(ctx, "cruise deleted", "cruise_id", id)
	}
	return deleted, nil
}

func (s *CruiseService) SetImage(ctx context.Context, id int64, imageURL string) (*domain.Cruise, bool, error) {
	cruise, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	cruise.Image = imageURL
	if err := s.repo.Update(ctx, cruise); err != nil {
		return nil, false, fmt.Errorf("update cruise %d image: %w", id, err)
	}
	s.invalidate(ctx)
	return cruise, true, nil
}

func (s *CruiseService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCruises(ctx); err != nil {
		s.log.Warn(ctx, "cruise cache invalidation failed", "error", err)
	}
}

var _ CruiseUseCase = (*CruiseService)(nil)

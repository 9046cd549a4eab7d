package repository

import (
	"context"
	"time"

	"github.com/Domenick1991/cruisebooking/internal/domain"
)

// Lookups of a missing id return domain.ErrNotFound. Every write either stores
// the whole record or returns an error without mutating anything.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

type CruiseRepository interface {
	Create(ctx context.Context, cruise *domain.Cruise) error
	GetByID(ctx context.Context, id int64) (*domain.Cruise, error)
	List(ctx context.Context) ([]domain.Cruise, error)
	Update(ctx context.Context, cruise *domain.Cruise) error
	Delete(ctx context.Context, id int64) (bool, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, updatedAt time.Time) (*domain.Booking, error)
}

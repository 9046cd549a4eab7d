package bootstrap

import (
	"context"
	"fmt"

	"github.com/Domenick1991/cruisebooking/config"
	"github.com/Domenick1991/cruisebooking/internal/logging"
	"github.com/Domenick1991/cruisebooking/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Stores groups the repositories of the configured storage driver.
type Stores struct {
	Users    repository.UserRepository
	Cruises  repository.CruiseRepository
	Bookings repository.BookingRepository

	// Ping is nil for the in-memory driver.
	Ping  Probe
	close func()
}

func (s *Stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStores connects to the configured store and, for Postgres, applies
// pending migrations.
func OpenStores(ctx context.Context, cfg *config.Config, log logging.Logger) (*Stores, error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		if err := repository.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info(ctx, "using postgres storage")
		return &Stores{
			Users:    repository.NewUserRepository(pool),
			Cruises:  repository.NewCruiseRepository(pool),
			Bookings: repository.NewBookingRepository(pool),
			Ping:     pool.Ping,
			close:    pool.Close,
		}, nil
	default:
		log.Warn(ctx, "using in-memory storage, data is lost on restart")
		return &Stores{
			Users:    repository.NewMemoryUserRepository(),
			Cruises:  repository.NewMemoryCruiseRepository(),
			Bookings: repository.NewMemoryBookingRepository(),
		}, nil
	}
}

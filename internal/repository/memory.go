package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/cruisebooking/internal/domain"
)

// table is an insertion-ordered, id-keyed map with a monotonic id counter.
type table[T any] struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]T
	order  []int64
}

func newTable[T any]() *table[T] {
	return &table[T]{nextID: 1, rows: make(map[int64]T)}
}

func (t *table[T]) insert(build func(id int64) T) T {
	row, _ := t.insertUnless(nil, build)
	return row
}

// insertUnless stores a new row unless conflicts reports a clash with an
// existing one. The check and the insert happen under one lock.
func (t *table[T]) insertUnless(conflicts func(T) bool, build func(id int64) T) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if conflicts != nil {
		for _, row := range t.rows {
			if conflicts(row) {
				var zero T
				return zero, false
			}
		}
	}

	id := t.nextID
	t.nextID++
	row := build(id)
	t.rows[id] = row
	t.order = append(t.order, id)
	return row, true
}

func (t *table[T]) get(id int64) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	return row, ok
}

func (t *table[T]) replace(id int64, fn func(T) T) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	row = fn(row)
	t.rows[id] = row
	return row, true
}

func (t *table[T]) remove(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

func (t *table[T]) filter(keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		row := t.rows[id]
		if keep == nil || keep(row) {
			out = append(out, row)
		}
	}
	return out
}

func (t *table[T]) find(match func(T) bool) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, id := range t.order {
		if row := t.rows[id]; match(row) {
			return row, true
		}
	}
	var zero T
	return zero, false
}

type MemoryUserRepository struct {
	users *table[domain.User]
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: newTable[domain.User]()}
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	stored, ok := r.users.insertUnless(func(u domain.User) bool {
		return strings.EqualFold(u.Username, user.Username) || strings.EqualFold(u.Email, user.Email)
	}, func(id int64) domain.User {
		u := *user
		u.ID = id
		return u
	})
	if !ok {
		return domain.ErrConflict
	}
	*user = stored
	return nil
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := r.users.get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, ok := r.users.find(func(u domain.User) bool { return strings.EqualFold(u.Username, username) })
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, ok := r.users.find(func(u domain.User) bool { return strings.EqualFold(u.Email, email) })
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.users.filter(nil), nil
}

type MemoryCruiseRepository struct {
	cruises *table[domain.Cruise]
}

func NewMemoryCruiseRepository() *MemoryCruiseRepository {
	return &MemoryCruiseRepository{cruises: newTable[domain.Cruise]()}
}

func cloneCruise(c domain.Cruise) domain.Cruise {
	c.DepartureOptions = append([]string{}, c.DepartureOptions...)
	return c
}

func (r *MemoryCruiseRepository) Create(ctx context.Context, cruise *domain.Cruise) error {
	if cruise.CreatedAt.IsZero() {
		cruise.CreatedAt = time.Now()
	}
	stored := r.cruises.insert(func(id int64) domain.Cruise {
		c := cloneCruise(*cruise)
		c.ID = id
		return c
	})
	*cruise = cloneCruise(stored)
	return nil
}

func (r *MemoryCruiseRepository) GetByID(ctx context.Context, id int64) (*domain.Cruise, error) {
	c, ok := r.cruises.get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	c = cloneCruise(c)
	return &c, nil
}

func (r *MemoryCruiseRepository) List(ctx context.Context) ([]domain.Cruise, error) {
	rows := r.cruises.filter(nil)
	for i := range rows {
		rows[i] = cloneCruise(rows[i])
	}
	return rows, nil
}

func (r *MemoryCruiseRepository) Update(ctx context.Context, cruise *domain.Cruise) error {
	_, ok := r.cruises.replace(cruise.ID, func(existing domain.Cruise) domain.Cruise {
		next := cloneCruise(*cruise)
		next.CreatedAt = existing.CreatedAt
		return next
	})
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MemoryCruiseRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return r.cruises.remove(id), nil
}

type MemoryBookingRepository struct {
	bookings *table[domain.Booking]
}

func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{bookings: newTable[domain.Booking]()}
}

func (r *MemoryBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	stored := r.bookings.insert(func(id int64) domain.Booking {
		b := *booking
		b.ID = id
		return b
	})
	*booking = stored
	return nil
}

func (r *MemoryBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, ok := r.bookings.get(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (r *MemoryBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return r.bookings.filter(func(b domain.Booking) bool { return b.UserID == userID }), nil
}

func (r *MemoryBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	return r.bookings.filter(nil), nil
}

func (r *MemoryBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, updatedAt time.Time) (*domain.Booking, error) {
	b, ok := r.bookings.replace(id, func(b domain.Booking) domain.Booking {
		b.Status = status
		b.UpdatedAt = updatedAt
		return b
	})
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

var (
	_ UserRepository    = (*MemoryUserRepository)(nil)
	_ CruiseRepository  = (*MemoryCruiseRepository)(nil)
	_ BookingRepository = (*MemoryBookingRepository)(nil)
)

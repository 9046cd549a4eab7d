package seed

import (
	"context"
	"testing"

	"github.com/Domenick1991/cruisebooking/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRun_EmptyStore(t *testing.T) {
	ctx := context.Background()
	userRepo := repository.NewMemoryUserRepository()
	cruiseRepo := repository.NewMemoryCruiseRepository()

	require.NoError(t, Run(ctx, userRepo, cruiseRepo, nil))

	cruises, err := cruiseRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, cruises, 3)
	assert.Equal(t, int64(1), cruises[0].ID)
	assert.Equal(t, "Caribbean Paradise", cruises[0].Name)
	assert.Equal(t, "Alaskan Adventure", cruises[2].Name)

	admin, err := userRepo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(DemoPassword)))

	customer, err := userRepo.GetByUsername(ctx, "customer")
	require.NoError(t, err)
	assert.False(t, customer.IsAdmin)
}

func TestRun_Idempotent(t *testing.T) {
	ctx := context.Background()
	userRepo := repository.NewMemoryUserRepository()
	cruiseRepo := repository.NewMemoryCruiseRepository()

	require.NoError(t, Run(ctx, userRepo, cruiseRepo, nil))
	require.NoError(t, Run(ctx, userRepo, cruiseRepo, nil))

	cruises, _ := cruiseRepo.List(ctx)
	accounts, _ := userRepo.List(ctx)
	assert.Len(t, cruises, 3)
	assert.Len(t, accounts, 2)
}

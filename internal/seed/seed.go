// Package seed loads the demo catalog and accounts into an empty store.
package seed

import (
	"context"
	"fmt"

	"github.com/Domenick1991/cruisebooking/internal/domain"
	"github.com/Domenick1991/cruisebooking/internal/logging"
	"github.com/Domenick1991/cruisebooking/internal/repository"
	"github.com/Domenick1991/cruisebooking/internal/service/users"
	"golang.org/x/crypto/bcrypt"
)

const DemoPassword = "password123"

func strPtr(s string) *string { return &s }

var demoUsers = []domain.User{
	{
		Username:       "admin",
		Email:          "admin@cruises.com",
		FirstName:      "Admin",
		LastName:       "User",
		PhoneNumber:    strPtr("123-456-7890"),
		IsAdmin:        true,
		ProfilePicture: strPtr(""),
	},
	{
		Username:       "customer",
		Email:          "customer@example.com",
		FirstName:      "John",
		LastName:       "Doe",
		PhoneNumber:    strPtr("555-123-4567"),
		ProfilePicture: strPtr(""),
	},
}

var demoCruises = []domain.CruiseInput{
	{
		Name:                "Caribbean Paradise",
		Description:         "Enjoy crystal clear waters, white sand beaches, and luxurious accommodations on this unforgettable Caribbean adventure.",
		DepartureLocation:   "Miami",
		DestinationLocation: "Bahamas",
		Duration:            7,
		BasePrice:           1299,
		TaxesFees:           199,
		Gratuities:          101,
		Image:               "https://images.unsplash.com/photo-1580541631971-c7f8c0f8e414",
		Rating:              4.5,
		ReviewCount:         128,
		IsActive:            true,
		DepartureOptions:    []string{"2025-06-15", "2025-07-05", "2025-07-25", "2025-08-15"},
	},
	{
		Name:                "Mediterranean Explorer",
		Description:         "Discover the rich history, culture, and cuisine of the Mediterranean with stops in Spain, France, and Italy.",
		DepartureLocation:   "Barcelona",
		DestinationLocation: "Rome",
		Duration:            10,
		BasePrice:           2199,
		TaxesFees:           299,
		Gratuities:          150,
		Image:               "https://images.unsplash.com/photo-1534447677768-be436bb09401",
		Rating:              5,
		ReviewCount:         97,
		IsActive:            true,
		DepartureOptions:    []string{"2025-05-22", "2025-06-12", "2025-07-02", "2025-08-22"},
	},
	{
		Name:                "Alaskan Adventure",
		Description:         "Experience the majestic glaciers, wildlife, and breathtaking landscapes of Alaska on this unforgettable journey.",
		DepartureLocation:   "Seattle",
		DestinationLocation: "Juneau",
		Duration:            12,
		BasePrice:           1899,
		TaxesFees:           249,
		Gratuities:          144,
		Image:               "https://images.unsplash.com/photo-1579656450812-5b1da79e7cc3",
		Rating:              4.8,
		ReviewCount:         86,
		IsActive:            true,
		DepartureOptions:    []string{"2025-05-10", "2025-06-05", "2025-07-15", "2025-08-10"},
	},
}

// Run inserts demo data into each repository that is still empty. Both
// accounts use DemoPassword.
func Run(ctx context.Context, userRepo repository.UserRepository, cruiseRepo repository.CruiseRepository, log logging.Logger) error {
	if log == nil {
		log = logging.Nop()
	}

	existingUsers, err := userRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	if len(existingUsers) == 0 {
		hash, err := users.HashPassword(DemoPassword, bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		for _, u := range demoUsers {
			u.Password = hash
			if err := userRepo.Create(ctx, &u); err != nil {
				return fmt.Errorf("seed user %s: %w", u.Username, err)
			}
		}
		log.Info(ctx, "seeded demo users", "count", len(demoUsers))
	}

	existingCruises, err := cruiseRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list cruises: %w", err)
	}
	if len(existingCruises) == 0 {
		for _, in := range demoCruises {
			var c domain.Cruise
			in.Apply(&c)
			if err := cruiseRepo.Create(ctx, &c); err != nil {
				return fmt.Errorf("seed cruise %s: %w", in.Name, err)
			}
		}
		log.Info(ctx, "seeded demo cruises", "count", len(demoCruises))
	}
	return nil
}

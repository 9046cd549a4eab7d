package domain

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// ParseBookingStatus accepts only the three known statuses.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return BookingStatus(s), nil
	default:
		return "", fmt.Errorf("unknown booking status %q", s)
	}
}

type CabinType string

const (
	CabinInterior  CabinType = "interior"
	CabinOceanview CabinType = "oceanview"
	CabinBalcony   CabinType = "balcony"
	CabinSuite     CabinType = "suite"
)

// CabinTypes lists the cabin classes from cheapest to most expensive.
var CabinTypes = []CabinType{CabinInterior, CabinOceanview, CabinBalcony, CabinSuite}

func ParseCabinType(s string) (CabinType, error) {
	for _, c := range CabinTypes {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown cabin type %q", s)
}

type Booking struct {
	ID            int64         `json:"id"`
	UserID        int64         `json:"userId"`
	CruiseID      int64         `json:"cruiseId"`
	CabinType     CabinType     `json:"cabinType"`
	Adults        int           `json:"adults"`
	Children      int           `json:"children"`
	DepartureDate time.Time     `json:"departureDate"`
	TotalPrice    float64       `json:"totalPrice"`
	Status        BookingStatus `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// Package pricing computes booking prices from a cruise's fare components.
package pricing

import (
	"fmt"

	"github.com/Domenick1991/cruisebooking/internal/domain"
)

const childFareFactor = 0.75

// Gratuities are charged at half rate for children.
const childGratuityFactor = 0.5

var cabinMultipliers = map[domain.CabinType]float64{
	domain.CabinInterior:  1.0,
	domain.CabinOceanview: 1.3,
	domain.CabinBalcony:   1.6,
	domain.CabinSuite:     2.2,
}

type Request struct {
	CabinType domain.CabinType
	Adults    int
	Children  int
}

type Breakdown struct {
	BasePrice    float64 `json:"basePrice"`
	CabinUpgrade float64 `json:"cabinUpgrade"`
	TaxesFees    float64 `json:"taxesFees"`
	Gratuities   float64 `json:"gratuities"`
}

type Quote struct {
	TotalPrice float64   `json:"totalPrice"`
	Breakdown  Breakdown `json:"breakdown"`
}

// Multiplier returns the price factor for a cabin class.
func Multiplier(cabin domain.CabinType) (float64, error) {
	m, ok := cabinMultipliers[cabin]
	if !ok {
		return 0, fmt.Errorf("unknown cabin type %q", cabin)
	}
	return m, nil
}

// Calculate prices req against cruise. No rounding is applied; the operation
// order matches the stored prices of existing bookings.
func Calculate(cruise domain.Cruise, req Request) (Quote, error) {
	multiplier, err := Multiplier(req.CabinType)
	if err != nil {
		return Quote{}, domain.NewValidationError("Invalid booking data").Add("cabinType", err.Error())
	}

	adults := float64(req.Adults)
	children := float64(req.Children)

	basePrice := cruise.BasePrice*adults + cruise.BasePrice*childFareFactor*children
	cabinPrice := basePrice * multiplier
	cabinUpgrade := cabinPrice - basePrice
	taxesFees := cruise.TaxesFees * (adults + children)
	gratuities := cruise.Gratuities * (adults + children*childGratuityFactor)

	return Quote{
		TotalPrice: cabinPrice + taxesFees + gratuities,
		Breakdown: Breakdown{
			BasePrice:    basePrice,
			CabinUpgrade: cabinUpgrade,
			TaxesFees:    taxesFees,
			Gratuities:   gratuities,
		},
	}, nil
}

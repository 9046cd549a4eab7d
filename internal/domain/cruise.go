package domain

import "time"

type Cruise struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	DepartureLocation   string    `json:"departureLocation"`
	DestinationLocation string    `json:"destinationLocation"`
	Duration            int       `json:"duration"`
	BasePrice           float64   `json:"basePrice"`
	TaxesFees           float64   `json:"taxesFees"`
	Gratuities          float64   `json:"gratuities"`
	Image               string    `json:"image"`
	Rating              float64   `json:"rating"`
	ReviewCount         int       `json:"reviewCount"`
	IsActive            bool      `json:"isActive"`
	DepartureOptions    []string  `json:"departureOptions"`
	CreatedAt           time.Time `json:"createdAt"`
}

// CruiseInput holds the mutable fields of a cruise. Update replaces all of them.
type CruiseInput struct {
	Name                string
	Description         string
	DepartureLocation   string
	DestinationLocation string
	Duration            int
	BasePrice           float64
	TaxesFees           float64
	Gratuities          float64
	Image               string
	Rating              float64
	ReviewCount         int
	IsActive            bool
	DepartureOptions    []string
}

// Apply copies the mutable fields onto c, leaving ID and CreatedAt untouched.
func (in CruiseInput) Apply(c *Cruise) {
	c.Name = in.Name
	c.Description = in.Description
	c.DepartureLocation = in.DepartureLocation
	c.DestinationLocation = in.DestinationLocation
	c.Duration = in.Duration
	c.BasePrice = in.BasePrice
	c.TaxesFees = in.TaxesFees
	c.Gratuities = in.Gratuities
	c.Image = in.Image
	c.Rating = in.Rating
	c.ReviewCount = in.ReviewCount
	c.IsActive = in.IsActive
	c.DepartureOptions = append([]string(nil), in.DepartureOptions...)
	if c.DepartureOptions == nil {
		c.DepartureOptions = []string{}
	}
}

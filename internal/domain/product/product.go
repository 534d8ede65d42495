package product

type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	OfferPrice  float64
	Images      []string
	Stock       int64
	IsActive    bool

	// Denormalized review aggregates, refreshed whenever a review for
	// the product is written.
	RatingsCount   int64
	RatingsAverage float64
}

// EffectivePrice is what the buyer actually pays: the offer price when one
// is set, the list price otherwise.
func (p *Product) EffectivePrice() float64 {
	if p.OfferPrice > 0 {
		return p.OfferPrice
	}
	return p.Price
}

// FirstImage returns the primary catalog image, or "" when none exists.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

type ListFilter struct {
	Search     string
	OnlyActive bool
}

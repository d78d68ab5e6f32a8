package domain

import "time"

// Cart holds a user's not-yet-ordered package selection. One cart per user,
// created on first add.
type Cart struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem is one (cart, package) pair. The pair is unique; repeat adds
// accumulate on Quantity.
type CartItem struct {
	ID        string
	CartID    string
	PackageID string
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartLine joins an item with its package for display and checkout math.
type CartLine struct {
	Item    CartItem
	Package ServicePackage
}

// LineTotalCents returns priceCents x quantity for a priced line.
func (l CartLine) LineTotalCents() int64 {
	if l.Package.PriceCents == nil {
		return 0
	}
	return *l.Package.PriceCents * int64(l.Item.Quantity)
}

package domain

import "time"

// PackageStatus enumerates catalog lifecycle states.
type PackageStatus string

const (
	PackageStatusDraft    PackageStatus = "DRAFT"
	PackageStatusActive   PackageStatus = "ACTIVE"
	PackageStatusArchived PackageStatus = "ARCHIVED"
)

// DefaultCurrency is the only currency the storefront sells in.
const DefaultCurrency = "GBP"

// ServicePackage is a sellable, catalog-defined offering. A nil PriceCents
// means the package is priced by custom quote and cannot pass checkout.
type ServicePackage struct {
	ID                  string
	Slug                string
	Name                string
	Summary             *string
	PriceCents          *int64
	PriceCurrency       string
	IsCustomQuote       bool
	MaxPages            *int
	IncludesBackend     bool
	IncludesDatabase    bool
	IncludesHosting     bool
	IncludesAdminPanel  bool
	RequiresKickoffCall bool
	Status              PackageStatus
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Purchasable reports whether the package can be bought through checkout.
func (p *ServicePackage) Purchasable() bool {
	return p != nil && !p.IsCustomQuote && p.PriceCents != nil
}

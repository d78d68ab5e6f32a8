package domain

// DefaultServicePackage describes one entry of the built-in catalog that is
// materialized into the store the first time its slug is referenced.
type DefaultServicePackage struct {
	Name                string
	Slug                string
	Summary             string
	PriceCents          *int64
	IsCustomQuote       bool
	MaxPages            *int
	IncludesBackend     bool
	IncludesDatabase    bool
	IncludesHosting     bool
	IncludesAdminPanel  bool
	RequiresKickoffCall bool
}

func priceOf(cents int64) *int64 { return &cents }
func pagesOf(n int) *int         { return &n }

// DefaultServicePackages is the hardcoded fallback catalog.
var DefaultServicePackages = []DefaultServicePackage{
	{
		Name:                "Single Page Sprint",
		Slug:                "single-page-sprint",
		Summary:             "A focused, high-converting landing page with sharp copy and design.",
		PriceCents:          priceOf(50000),
		MaxPages:            pagesOf(1),
		RequiresKickoffCall: true,
	},
	{
		Name:                "Five Page Studio",
		Slug:                "five-page-studio",
		Summary:             "A full marketing site with multiple sections, built for credibility.",
		PriceCents:          priceOf(120000),
		MaxPages:            pagesOf(5),
		RequiresKickoffCall: true,
	},
	{
		Name:                "Full Stack Growth",
		Slug:                "full-stack-growth",
		Summary:             "A complete web platform with database, admin panel, and scale-ready architecture.",
		PriceCents:          priceOf(250000),
		MaxPages:            pagesOf(10),
		IncludesBackend:     true,
		IncludesDatabase:    true,
		IncludesAdminPanel:  true,
		RequiresKickoffCall: true,
	},
	{
		Name:                "Bespoke Build",
		Slug:                "bespoke-build",
		Summary:             "Tailored scope, advanced integrations, and product strategy.",
		IsCustomQuote:       true,
		IncludesBackend:     true,
		IncludesDatabase:    true,
		IncludesAdminPanel:  true,
		RequiresKickoffCall: true,
	},
}

// FindDefaultServicePackage returns the fallback entry for a slug, or nil.
func FindDefaultServicePackage(slug string) *DefaultServicePackage {
	for i := range DefaultServicePackages {
		if DefaultServicePackages[i].Slug == slug {
			return &DefaultServicePackages[i]
		}
	}
	return nil
}

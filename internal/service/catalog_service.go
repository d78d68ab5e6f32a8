package service

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tidywork/studio-service/internal/domain"
	"github.com/tidywork/studio-service/internal/persistence"
	"github.com/tidywork/studio-service/internal/repository"
)

const (
	catalogCacheKey = "catalog:active"
	catalogCacheTTL = 5 * time.Minute
)

// CatalogService manages service packages and the default-catalog fallback.
type CatalogService struct {
	packages repository.PackageRepository
	cache    *persistence.Redis
}

// NewCatalogService constructs the service. cache may be nil in tests.
func NewCatalogService(packages repository.PackageRepository, cache *persistence.Redis) *CatalogService {
	return &CatalogService{packages: packages, cache: cache}
}

// EnsurePackage resolves a slug, materializing the hardcoded default entry
// into the store on first reference. Unknown slugs are ErrPackageNotFound.
func (s *CatalogService) EnsurePackage(ctx context.Context, slug string) (*domain.ServicePackage, error) {
	existing, err := s.packages.GetBySlug(ctx, slug)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	fallback := domain.FindDefaultServicePackage(slug)
	if fallback == nil {
		return nil, ErrPackageNotFound
	}

	pkg := packageFromDefault(fallback)
	if err := s.packages.Create(ctx, pkg); err != nil {
		// Concurrent materialization of the same slug loses the insert race;
		// the winner's row is the one to use.
		if repository.IsUniqueViolation(err) {
			return s.packages.GetBySlug(ctx, slug)
		}
		return nil, err
	}
	s.invalidate(ctx)
	return pkg, nil
}

// PackageInput is the admin create/update payload. PriceRaw is a major-unit
// decimal string; MaxPagesRaw is a bare integer string.
type PackageInput struct {
	Name                string
	Slug                string
	Summary             string
	PriceRaw            string
	MaxPagesRaw         string
	IsCustomQuote       bool
	IncludesBackend     bool
	IncludesDatabase    bool
	IncludesHosting     bool
	IncludesAdminPanel  bool
	RequiresKickoffCall bool
	Status              domain.PackageStatus
}

// CreatePackage creates a catalog entry from admin form input.
func (s *CatalogService) CreatePackage(ctx context.Context, input PackageInput) (*domain.ServicePackage, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrMissingFields
	}

	pkg := &domain.ServicePackage{
		Name:          name,
		Slug:          deriveSlug(input.Slug, name),
		PriceCurrency: domain.DefaultCurrency,
	}
	applyPackageInput(pkg, input)

	if err := s.packages.Create(ctx, pkg); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return pkg, nil
}

// UpdatePackage overwrites a catalog entry from admin form input.
func (s *CatalogService) UpdatePackage(ctx context.Context, id string, input PackageInput) (*domain.ServicePackage, error) {
	pkg, err := s.packages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	pkg.Name = strings.TrimSpace(input.Name)
	pkg.Slug = Slugify(input.Slug)
	applyPackageInput(pkg, input)

	if err := s.packages.Update(ctx, pkg); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return pkg, nil
}

// SeedDefaults upserts the whole default catalog without clobbering edits.
func (s *CatalogService) SeedDefaults(ctx context.Context) error {
	for i := range domain.DefaultServicePackages {
		pkg := packageFromDefault(&domain.DefaultServicePackages[i])
		if err := s.packages.CreateIfAbsent(ctx, pkg); err != nil {
			return err
		}
	}
	s.invalidate(ctx)
	return nil
}

// ListActive returns sellable packages through the read-through cache.
func (s *CatalogService) ListActive(ctx context.Context) ([]domain.ServicePackage, error) {
	var cached []domain.ServicePackage
	if s.cache.GetJSON(ctx, catalogCacheKey, &cached) {
		return cached, nil
	}

	packages, err := s.packages.ListByStatus(ctx, domain.PackageStatusActive)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, catalogCacheKey, packages, catalogCacheTTL)
	return packages, nil
}

// ListAll returns every package for the admin console, newest first.
func (s *CatalogService) ListAll(ctx context.Context) ([]domain.ServicePackage, error) {
	return s.packages.ListAll(ctx)
}

func (s *CatalogService) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, catalogCacheKey)
}

func applyPackageInput(pkg *domain.ServicePackage, input PackageInput) {
	summary := strings.TrimSpace(input.Summary)
	if summary == "" {
		pkg.Summary = nil
	} else {
		pkg.Summary = &summary
	}

	pkg.IsCustomQuote = input.IsCustomQuote
	// A custom-quote package always stores a null price, whatever was typed.
	if input.IsCustomQuote {
		pkg.PriceCents = nil
	} else {
		pkg.PriceCents = ParsePriceCents(input.PriceRaw)
	}

	pkg.MaxPages = parseMaxPages(input.MaxPagesRaw)
	pkg.IncludesBackend = input.IncludesBackend
	pkg.IncludesDatabase = input.IncludesDatabase
	pkg.IncludesHosting = input.IncludesHosting
	pkg.IncludesAdminPanel = input.IncludesAdminPanel
	pkg.RequiresKickoffCall = input.RequiresKickoffCall

	pkg.Status = input.Status
	switch pkg.Status {
	case domain.PackageStatusDraft, domain.PackageStatusActive, domain.PackageStatusArchived:
	default:
		pkg.Status = domain.PackageStatusDraft
	}
}

func packageFromDefault(d *domain.DefaultServicePackage) *domain.ServicePackage {
	summary := d.Summary
	return &domain.ServicePackage{
		Slug:                d.Slug,
		Name:                d.Name,
		Summary:             &summary,
		PriceCents:          d.PriceCents,
		PriceCurrency:       domain.DefaultCurrency,
		IsCustomQuote:       d.IsCustomQuote,
		MaxPages:            d.MaxPages,
		IncludesBackend:     d.IncludesBackend,
		IncludesDatabase:    d.IncludesDatabase,
		IncludesHosting:     d.IncludesHosting,
		IncludesAdminPanel:  d.IncludesAdminPanel,
		RequiresKickoffCall: d.RequiresKickoffCall,
		Status:              domain.PackageStatusActive,
	}
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases, collapses non-alphanumeric runs to a single hyphen,
// and trims leading/trailing hyphens.
func Slugify(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = slugPattern.ReplaceAllString(value, "-")
	return strings.Trim(value, "-")
}

func deriveSlug(explicit, name string) string {
	if slug := Slugify(explicit); slug != "" {
		return slug
	}
	return Slugify(name)
}

// ParsePriceCents converts a major-unit decimal string to integer cents.
// Unparseable input yields a null price.
func ParsePriceCents(raw string) *int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil
	}
	cents := int64(math.Round(value * 100))
	return &cents
}

func parseMaxPages(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	pages, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &pages
}

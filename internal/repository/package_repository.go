package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tidywork/studio-service/internal/domain"
)

// PackageRepository encapsulates service package persistence.
type PackageRepository interface {
	Create(ctx context.Context, pkg *domain.ServicePackage) error
	Update(ctx context.Context, pkg *domain.ServicePackage) error
	CreateIfAbsent(ctx context.Context, pkg *domain.ServicePackage) error
	GetByID(ctx context.Context, id string) (*domain.ServicePackage, error)
	GetBySlug(ctx context.Context, slug string) (*domain.ServicePackage, error)
	ListByStatus(ctx context.Context, status domain.PackageStatus) ([]domain.ServicePackage, error)
	ListAll(ctx context.Context) ([]domain.ServicePackage, error)
}

type packageRepository struct {
	pool *pgxpool.Pool
}

// NewPackageRepository instantiates the repository.
func NewPackageRepository(pool *pgxpool.Pool) PackageRepository {
	return &packageRepository{pool: pool}
}

const packageColumns = `id, slug, name, summary, price_cents, price_currency, is_custom_quote,
               max_pages, includes_backend, includes_database, includes_hosting,
               includes_admin_panel, requires_kickoff_call, status, created_at, updated_at`

func (r *packageRepository) Create(ctx context.Context, pkg *domain.ServicePackage) error {
	const query = `
        INSERT INTO service_packages (slug, name, summary, price_cents, price_currency, is_custom_quote,
            max_pages, includes_backend, includes_database, includes_hosting,
            includes_admin_panel, requires_kickoff_call, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		pkg.Slug,
		pkg.Name,
		pkg.Summary,
		pkg.PriceCents,
		pkg.PriceCurrency,
		pkg.IsCustomQuote,
		pkg.MaxPages,
		pkg.IncludesBackend,
		pkg.IncludesDatabase,
		pkg.IncludesHosting,
		pkg.IncludesAdminPanel,
		pkg.RequiresKickoffCall,
		pkg.Status,
	).Scan(&pkg.ID, &pkg.CreatedAt, &pkg.UpdatedAt)
}

func (r *packageRepository) Update(ctx context.Context, pkg *domain.ServicePackage) error {
	const query = `
        UPDATE service_packages SET slug=$1, name=$2, summary=$3, price_cents=$4, is_custom_quote=$5,
            max_pages=$6, includes_backend=$7, includes_database=$8, includes_hosting=$9,
            includes_admin_panel=$10, requires_kickoff_call=$11, status=$12, updated_at=NOW()
        WHERE id=$13`

	cmd, err := r.pool.Exec(ctx, query,
		pkg.Slug,
		pkg.Name,
		pkg.Summary,
		pkg.PriceCents,
		pkg.IsCustomQuote,
		pkg.MaxPages,
		pkg.IncludesBackend,
		pkg.IncludesDatabase,
		pkg.IncludesHosting,
		pkg.IncludesAdminPanel,
		pkg.RequiresKickoffCall,
		pkg.Status,
		pkg.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CreateIfAbsent inserts the package unless the slug already exists. Used by
// default-catalog seeding so repeat seeds never clobber admin edits.
func (r *packageRepository) CreateIfAbsent(ctx context.Context, pkg *domain.ServicePackage) error {
	const query = `
        INSERT INTO service_packages (slug, name, summary, price_cents, price_currency, is_custom_quote,
            max_pages, includes_backend, includes_database, includes_hosting,
            includes_admin_panel, requires_kickoff_call, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        ON CONFLICT (slug) DO NOTHING`

	_, err := r.pool.Exec(ctx, query,
		pkg.Slug,
		pkg.Name,
		pkg.Summary,
		pkg.PriceCents,
		pkg.PriceCurrency,
		pkg.IsCustomQuote,
		pkg.MaxPages,
		pkg.IncludesBackend,
		pkg.IncludesDatabase,
		pkg.IncludesHosting,
		pkg.IncludesAdminPanel,
		pkg.RequiresKickoffCall,
		pkg.Status,
	)
	return err
}

func (r *packageRepository) GetByID(ctx context.Context, id string) (*domain.ServicePackage, error) {
	query := `SELECT ` + packageColumns + ` FROM service_packages WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *packageRepository) GetBySlug(ctx context.Context, slug string) (*domain.ServicePackage, error) {
	query := `SELECT ` + packageColumns + ` FROM service_packages WHERE slug=$1`
	return r.fetchSingle(ctx, query, slug)
}

func (r *packageRepository) ListByStatus(ctx context.Context, status domain.PackageStatus) ([]domain.ServicePackage, error) {
	query := `SELECT ` + packageColumns + ` FROM service_packages WHERE status=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPackages(rows)
}

func (r *packageRepository) ListAll(ctx context.Context) ([]domain.ServicePackage, error) {
	query := `SELECT ` + packageColumns + ` FROM service_packages ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPackages(rows)
}

func (r *packageRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.ServicePackage, error) {
	var pkg domain.ServicePackage
	if err := scanPackage(r.pool.QueryRow(ctx, query, arg), &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

func scanPackage(row pgx.Row, pkg *domain.ServicePackage) error {
	return row.Scan(
		&pkg.ID,
		&pkg.Slug,
		&pkg.Name,
		&pkg.Summary,
		&pkg.PriceCents,
		&pkg.PriceCurrency,
		&pkg.IsCustomQuote,
		&pkg.MaxPages,
		&pkg.IncludesBackend,
		&pkg.IncludesDatabase,
		&pkg.IncludesHosting,
		&pkg.IncludesAdminPanel,
		&pkg.RequiresKickoffCall,
		&pkg.Status,
		&pkg.CreatedAt,
		&pkg.UpdatedAt,
	)
}

func scanPackages(rows pgx.Rows) ([]domain.ServicePackage, error) {
	var result []domain.ServicePackage
	for rows.Next() {
		var pkg domain.ServicePackage
		if err := scanPackage(rows, &pkg); err != nil {
			return nil, err
		}
		result = append(result, pkg)
	}
	return result, rows.Err()
}

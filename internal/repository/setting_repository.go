package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tidywork/studio-service/internal/domain"
)

// SettingRepository persists the singleton-by-convention site setting row.
type SettingRepository interface {
	GetOldest(ctx context.Context) (*domain.SiteSetting, error)
	Create(ctx context.Context, setting *domain.SiteSetting) error
	UpdateAcceptingOrders(ctx context.Context, id string, accepting bool) error
}

type settingRepository struct {
	pool *pgxpool.Pool
}

// NewSettingRepository instantiates the repository.
func NewSettingRepository(pool *pgxpool.Pool) SettingRepository {
	return &settingRepository{pool: pool}
}

// GetOldest returns the first-created row; that row is the setting of record.
func (r *settingRepository) GetOldest(ctx context.Context) (*domain.SiteSetting, error) {
	const query = `
        SELECT id, accepting_orders, created_at, updated_at
        FROM site_settings ORDER BY created_at ASC LIMIT 1`

	var setting domain.SiteSetting
	if err := r.pool.QueryRow(ctx, query).Scan(
		&setting.ID,
		&setting.AcceptingOrders,
		&setting.CreatedAt,
		&setting.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingRepository) Create(ctx context.Context, setting *domain.SiteSetting) error {
	const query = `
        INSERT INTO site_settings (accepting_orders)
        VALUES ($1)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query, setting.AcceptingOrders).
		Scan(&setting.ID, &setting.CreatedAt, &setting.UpdatedAt)
}

func (r *settingRepository) UpdateAcceptingOrders(ctx context.Context, id string, accepting bool) error {
	const query = `UPDATE site_settings SET accepting_orders=$1, updated_at=NOW() WHERE id=$2`
	_, err := r.pool.Exec(ctx, query, accepting, id)
	return err
}

package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/shahair/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProviderRepository interface {
	List(ctx context.Context) ([]domain.PaymentProvider, error)
	GetByID(ctx context.Context, id string) (*domain.PaymentProvider, error)
}

type PGProviderRepository struct {
	db *pgxpool.Pool
}

func NewProviderRepository(db *pgxpool.Pool) ProviderRepository {
	return &PGProviderRepository{db: db}
}

func (r *PGProviderRepository) List(ctx context.Context) ([]domain.PaymentProvider, error) {
	rows, err := r.db.Query(ctx, `SELECT id, base_url, name FROM payment_providers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	providers := make([]domain.PaymentProvider, 0)
	for rows.Next() {
		var p domain.PaymentProvider
		if err := rows.Scan(&p.ID, &p.BaseURL, &p.Name); err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, rows.Err()
}

func (r *PGProviderRepository) GetByID(ctx context.Context, id string) (*domain.PaymentProvider, error) {
	row := r.db.QueryRow(ctx, `SELECT id, base_url, name FROM payment_providers WHERE id=$1`, id)
	var p domain.PaymentProvider
	if err := row.Scan(&p.ID, &p.BaseURL, &p.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProviderNotFound
		}
		return nil, err
	}
	return &p, nil
}

var _ ProviderRepository = (*PGProviderRepository)(nil)

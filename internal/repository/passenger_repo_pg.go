package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/shahair/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PassengerRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Passenger, error)
}

type PGPassengerRepository struct {
	db *pgxpool.Pool
}

func NewPassengerRepository(db *pgxpool.Pool) PassengerRepository {
	return &PGPassengerRepository{db: db}
}

func (r *PGPassengerRepository) GetByID(ctx context.Context, id string) (*domain.Passenger, error) {
	row := r.db.QueryRow(ctx, `SELECT id, legal_name, first_name, last_name, date_of_birth, passport_no, email, contact_no FROM passengers WHERE id=$1`, id)
	var p domain.Passenger
	if err := row.Scan(&p.ID, &p.LegalName, &p.FirstName, &p.LastName, &p.DateOfBirth, &p.PassportNo, &p.Email, &p.ContactNo); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPassengerNotFound
		}
		return nil, err
	}
	return &p, nil
}

var _ PassengerRepository = (*PGPassengerRepository)(nil)

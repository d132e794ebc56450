package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/shahair/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	SearchByRoute(ctx context.Context, source, destination string) ([]domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT id, capacity, source, destination, duration_minutes, departure_minute, business, eco_price, bus_price FROM flights WHERE id=$1`, id)
	var f domain.Flight
	if err := row.Scan(&f.ID, &f.Capacity, &f.Source, &f.Destination, &f.Duration, &f.Time, &f.Business, &f.EcoPrice, &f.BusPrice); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) SearchByRoute(ctx context.Context, source, destination string) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT id, capacity, source, destination, duration_minutes, departure_minute, business, eco_price, bus_price FROM flights WHERE source=$1 AND destination=$2 ORDER BY departure_minute`, source, destination)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := rows.Scan(&f.ID, &f.Capacity, &f.Source, &f.Destination, &f.Duration, &f.Time, &f.Business, &f.EcoPrice, &f.BusPrice); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

var _ FlightRepository = (*PGFlightRepository)(nil)

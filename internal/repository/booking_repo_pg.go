package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/shahair/internal/domain"
	"github.com/Domenick1991/shahair/internal/ident"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	// CreateOrReuse registers the passenger if the passport is new, then
	// either returns the existing booking for (flight, passenger, date) or
	// inserts a fresh one. Everything runs in one transaction with the
	// flight row locked, so concurrent identical requests serialize.
	CreateOrReuse(ctx context.Context, passenger *domain.Passenger, booking *domain.Booking) (*domain.Booking, bool, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	CountForFlightDate(ctx context.Context, flightID string, date time.Time) (int, error)
	SetInvoice(ctx context.Context, bookingID, providerID, invoiceID string) (*domain.Booking, error)
	SetPaymentReceived(ctx context.Context, bookingID string, paid bool) (*domain.Booking, error)
	ListInvoicedUnpaid(ctx context.Context, limit int) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, flight_id, passenger_id, departure_date, booking_class, invoice_id, payment_provider_id, payment_received, created_at, updated_at`

const idGenAttempts = 5

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.FlightID, &b.PassengerID, &b.Date, &b.Class, &b.InvoiceID, &b.ProviderID, &b.PaymentReceived, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) CreateOrReuse(ctx context.Context, passenger *domain.Passenger, booking *domain.Booking) (*domain.Booking, bool, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	// Lock the flight row so the duplicate check, the capacity gate and the
	// insert cannot interleave with a concurrent request for the same flight.
	var capacity int
	if err := tx.QueryRow(ctx, `SELECT capacity FROM flights WHERE id=$1 FOR UPDATE`, booking.FlightID).Scan(&capacity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, domain.ErrFlightNotFound
		}
		return nil, false, err
	}

	passengerID, created, err := registerPassenger(ctx, tx, passenger)
	if err != nil {
		return nil, false, err
	}
	booking.PassengerID = passengerID

	if !created {
		existing, err := scanBooking(tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE flight_id=$1 AND passenger_id=$2 AND departure_date=$3`,
			booking.FlightID, passengerID, booking.Date))
		if err == nil {
			if err := tx.Commit(ctx); err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, false, err
		}
	}

	var taken int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE flight_id=$1 AND departure_date=$2`, booking.FlightID, booking.Date).Scan(&taken); err != nil {
		return nil, false, err
	}
	if taken >= capacity {
		return nil, false, domain.ErrCapacityExceeded
	}

	id, err := freshID(ctx, tx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id=$1)`, ident.NewBookingID)
	if err != nil {
		return nil, false, err
	}
	booking.ID = id

	inserted, err := scanBooking(tx.QueryRow(ctx, `INSERT INTO bookings (id, flight_id, passenger_id, departure_date, booking_class, invoice_id, payment_provider_id, payment_received)
		VALUES ($1, $2, $3, $4, $5, NULL, NULL, false)
		RETURNING `+bookingColumns, booking.ID, booking.FlightID, booking.PassengerID, booking.Date, booking.Class))
	if err != nil {
		return nil, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}
	return inserted, true, nil
}

// registerPassenger resolves the passport to a passenger id, inserting a new
// row when the passport is unseen. A known email on an unseen passport is a
// conflict. Reports whether a row was inserted so the caller can skip the
// duplicate-booking lookup for brand-new passengers.
func registerPassenger(ctx context.Context, tx pgx.Tx, p *domain.Passenger) (string, bool, error) {
	var id string
	err := tx.QueryRow(ctx, `SELECT id FROM passengers WHERE passport_no=$1`, p.PassportNo).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", false, err
	}

	var emailTaken bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM passengers WHERE email=$1)`, p.Email).Scan(&emailTaken); err != nil {
		return "", false, err
	}
	if emailTaken {
		return "", false, domain.ErrDuplicateEmail
	}

	id, err = freshID(ctx, tx, `SELECT EXISTS(SELECT 1 FROM passengers WHERE id=$1)`, ident.NewPassengerID)
	if err != nil {
		return "", false, err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO passengers (id, legal_name, first_name, last_name, date_of_birth, passport_no, email, contact_no)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, p.LegalName, p.FirstName, p.LastName, p.DateOfBirth, p.PassportNo, p.Email, p.ContactNo); err != nil {
		return "", false, err
	}
	p.ID = id
	return id, true, nil
}

func freshID(ctx context.Context, tx pgx.Tx, existsQuery string, generate func() string) (string, error) {
	for attempt := 0; attempt < idGenAttempts; attempt++ {
		id := generate()
		var exists bool
		if err := tx.QueryRow(ctx, existsQuery, id).Scan(&exists); err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique id in %d attempts", idGenAttempts)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) CountForFlightDate(ctx context.Context, flightID string, date time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE flight_id=$1 AND departure_date=$2`, flightID, date).Scan(&count)
	return count, err
}

func (r *PGBookingRepository) SetInvoice(ctx context.Context, bookingID, providerID, invoiceID string) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `UPDATE bookings SET invoice_id=$1, payment_provider_id=$2, updated_at=now() WHERE id=$3 AND invoice_id IS NULL RETURNING `+bookingColumns,
		invoiceID, providerID, bookingID))
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	// No row updated: either the booking is unknown or someone invoiced it
	// between the orchestrator's check and this write.
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id=$1)`, bookingID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrAlreadyInvoiced
	}
	return nil, domain.ErrBookingNotFound
}

func (r *PGBookingRepository) SetPaymentReceived(ctx context.Context, bookingID string, paid bool) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `UPDATE bookings SET payment_received=$1, updated_at=now() WHERE id=$2 RETURNING `+bookingColumns, paid, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) ListInvoicedUnpaid(ctx context.Context, limit int) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE invoice_id IS NOT NULL AND NOT payment_received ORDER BY updated_at LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.FlightID, &b.PassengerID, &b.Date, &b.Class, &b.InvoiceID, &b.ProviderID, &b.PaymentReceived, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)

package directory

import (
	"context"
	"time"

	"github.com/Domenick1991/shahair/internal/domain"
	"github.com/Domenick1991/shahair/internal/repository"
)

const dateLayout = "2006-01-02"

type DirectoryUseCase interface {
	ListAirports(ctx context.Context) ([]domain.Airport, error)
	SearchFlights(ctx context.Context, date, source, destination string) ([]domain.FlightAvailability, error)
	Remaining(ctx context.Context, flight *domain.Flight, date time.Time) (int, error)
}

type Cache interface {
	GetAirports(ctx context.Context) ([]domain.Airport, error)
	SetAirports(ctx context.Context, airports []domain.Airport) error
	GetSearch(ctx context.Context, source, destination, date string) ([]domain.FlightAvailability, error)
	SetSearch(ctx context.Context, source, destination, date string, results []domain.FlightAvailability) error
}

type DirectoryService struct {
	airports repository.AirportRepository
	flights  repository.FlightRepository
	bookings repository.BookingRepository
	cache    Cache
}

func NewDirectoryService(airports repository.AirportRepository, flights repository.FlightRepository, bookings repository.BookingRepository, cache Cache) *DirectoryService {
	return &DirectoryService{airports: airports, flights: flights, bookings: bookings, cache: cache}
}

func (s *DirectoryService) ListAirports(ctx context.Context) ([]domain.Airport, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetAirports(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	airports, err := s.airports.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetAirports(ctx, airports)
	}
	return airports, nil
}

// SearchFlights lists flights on the route together with the seats still free
// on the requested date.
func (s *DirectoryService) SearchFlights(ctx context.Context, date, source, destination string) ([]domain.FlightAvailability, error) {
	if date == "" {
		return nil, domain.MissingField("missing_date", "Missing required date of departure")
	}
	if source == "" {
		return nil, domain.MissingField("missing_source", "Missing source airport code")
	}
	if destination == "" {
		return nil, domain.MissingField("missing_destination", "Missing destination airport code")
	}

	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, domain.InvalidField("invalid_date", "Date of departure must look like YYYY-MM-DD")
	}

	for _, code := range []string{source, destination} {
		ok, err := s.airports.Exists(ctx, code)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrAirportNotFound
		}
	}

	if s.cache != nil {
		if cached, err := s.cache.GetSearch(ctx, source, destination, date); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.flights.SearchByRoute(ctx, source, destination)
	if err != nil {
		return nil, err
	}

	results := make([]domain.FlightAvailability, 0, len(flights))
	for _, f := range flights {
		left, err := s.Remaining(ctx, &f, day)
		if err != nil {
			return nil, err
		}
		results = append(results, domain.FlightAvailability{Flight: f, SeatsLeft: left})
	}

	if s.cache != nil {
		_ = s.cache.SetSearch(ctx, source, destination, date, results)
	}
	return results, nil
}

// Remaining is capacity minus the bookings already taken for the flight on
// that date. A legitimate sequence of bookings can drive it to zero but never
// below: the booking path rejects the request that would oversell.
func (s *DirectoryService) Remaining(ctx context.Context, flight *domain.Flight, date time.Time) (int, error) {
	taken, err := s.bookings.CountForFlightDate(ctx, flight.ID, date)
	if err != nil {
		return 0, err
	}
	return flight.Capacity - taken, nil
}

var _ DirectoryUseCase = (*DirectoryService)(nil)

package domain

type Flight struct {
	ID          string
	Capacity    int
	Source      string
	Destination string
	Duration    int
	Time        int
	Business    bool
	EcoPrice    float64
	BusPrice    *float64
}

// FlightAvailability pairs a flight with the seats still free on a given date.
type FlightAvailability struct {
	Flight    Flight
	SeatsLeft int
}

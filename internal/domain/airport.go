package domain

// Airport is immutable reference data keyed by its 3-letter IATA code.
type Airport struct {
	Code string
	Name string
}

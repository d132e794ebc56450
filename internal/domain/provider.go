package domain

// PaymentProvider is a third-party invoicing service reachable over HTTP at
// BaseURL. Rows are provisioned out-of-band, not through the booking API.
type PaymentProvider struct {
	ID      string
	BaseURL string
	Name    string
}

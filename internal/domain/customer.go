package domain

import "time"

// Customer is a requester identity keyed by email.
type Customer struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
}

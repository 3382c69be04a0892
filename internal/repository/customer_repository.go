package repository

import (
	"context"

	"github.com/spec-kit/support-desk/internal/domain"
)

// CustomerRepository encapsulates customer persistence.
type CustomerRepository interface {
	UpsertByEmail(ctx context.Context, db DBTX, customer *domain.Customer) (created bool, err error)
}

type customerRepository struct{}

// NewCustomerRepository instantiates repository.
func NewCustomerRepository() CustomerRepository {
	return &customerRepository{}
}

// UpsertByEmail inserts the customer or, when the email already exists,
// loads the stored row into customer. The stored name is never overwritten.
func (r *customerRepository) UpsertByEmail(ctx context.Context, db DBTX, customer *domain.Customer) (bool, error) {
	const query = `
        INSERT INTO customers (name, email)
        VALUES ($1, $2)
        ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
        RETURNING customer_id, name, created_at, (xmax = 0) AS inserted`
	var created bool
	err := db.QueryRow(ctx, query, customer.Name, customer.Email).
		Scan(&customer.ID, &customer.Name, &customer.CreatedAt, &created)
	if err != nil {
		return false, err
	}
	return created, nil
}

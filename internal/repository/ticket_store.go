package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/support-desk/internal/domain"
)

// TicketStore runs the ticket workflows against the connection pool.
type TicketStore struct {
	pool      *pgxpool.Pool
	customers CustomerRepository
	tickets   TicketRepository
}

// NewTicketStore builds a store. A nil pool makes every call return ErrUnavailable.
func NewTicketStore(pool *pgxpool.Pool) *TicketStore {
	return &TicketStore{
		pool:      pool,
		customers: NewCustomerRepository(),
		tickets:   NewTicketRepository(),
	}
}

// ListTickets returns every ticket with its customer's name and email.
func (s *TicketStore) ListTickets(ctx context.Context) ([]domain.TicketRecord, error) {
	if s.pool == nil {
		return nil, ErrUnavailable
	}
	records, err := s.tickets.ListWithCustomers(ctx, s.pool)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return records, nil
}

// CreateTicket resolves the customer by email and inserts the ticket in one
// transaction. customer.ID, customer.Name, ticket.ID, ticket.CustomerID and
// ticket.CreatedAt are filled in on success. Nothing is persisted on error.
func (s *TicketStore) CreateTicket(ctx context.Context, customer *domain.Customer, ticket *domain.Ticket) (bool, error) {
	if s.pool == nil {
		return false, ErrUnavailable
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	// no-op once committed
	defer func() { _ = tx.Rollback(ctx) }()

	created, err := s.customers.UpsertByEmail(ctx, tx, customer)
	if err != nil {
		return false, fmt.Errorf("upsert customer: %w", err)
	}

	ticket.CustomerID = customer.ID
	if err := s.tickets.Insert(ctx, tx, ticket); err != nil {
		return false, fmt.Errorf("insert ticket: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit ticket: %w", err)
	}
	return created, nil
}

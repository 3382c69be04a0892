package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-desk/internal/domain"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Insert(ctx context.Context, db DBTX, ticket *domain.Ticket) error
	ListWithCustomers(ctx context.Context, db DBTX) ([]domain.TicketRecord, error)
}

type ticketRepository struct{}

// NewTicketRepository instantiates repository.
func NewTicketRepository() TicketRepository {
	return &ticketRepository{}
}

func (r *ticketRepository) Insert(ctx context.Context, db DBTX, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (customer_id, subject, description, priority, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING ticket_id, created_at`
	return db.QueryRow(ctx, query,
		ticket.CustomerID,
		ticket.Subject,
		ticket.Description,
		ticket.Priority,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt)
}

func (r *ticketRepository) ListWithCustomers(ctx context.Context, db DBTX) ([]domain.TicketRecord, error) {
	const query = `
        SELECT t.ticket_id, t.customer_id, t.subject, t.description, t.priority, t.status, t.created_at,
               c.name, c.email
        FROM tickets t
        JOIN customers c ON c.customer_id = t.customer_id
        ORDER BY t.ticket_id`
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTicketRecords(rows)
}

func scanTicketRecords(rows pgx.Rows) ([]domain.TicketRecord, error) {
	result := make([]domain.TicketRecord, 0)
	for rows.Next() {
		var rec domain.TicketRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.CustomerID,
			&rec.Subject,
			&rec.Description,
			&rec.Priority,
			&rec.Status,
			&rec.CreatedAt,
			&rec.CustomerName,
			&rec.CustomerEmail,
		); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

package dto

import (
	"time"

	"github.com/spec-kit/support-desk/internal/domain"
)

// CreateTicketRequest payload. Status is optional and defaults to open.
type CreateTicketRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
}

// TicketResponse is one row of the ticket list.
type TicketResponse struct {
	TicketID    int64                 `json:"ticket_id"`
	CustomerID  int64                 `json:"customer_id"`
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	Status      domain.TicketStatus   `json:"status"`
	CreatedAt   time.Time             `json:"created_at"`
	Name        string                `json:"name"`
	Email       string                `json:"email"`
}

// CreateTicketResponse acknowledges a created ticket.
type CreateTicketResponse struct {
	Message       string        `json:"message"`
	TicketID      int64         `json:"ticket_id"`
	CustomerID    int64         `json:"customer_id"`
	TicketDetails TicketDetails `json:"ticket_details"`
}

// TicketDetails echoes the submitted fields.
type TicketDetails struct {
	Name        string                `json:"name"`
	Email       string                `json:"email"`
	Subject     string                `json:"subject"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	Status      domain.TicketStatus   `json:"status"`
}

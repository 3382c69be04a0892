package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

const msgTicketCreated = "Ticket created successfully"

// TicketsHandler serves the dashboard ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	records, err := h.service.ListTickets(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(records))
	for i := range records {
		items = append(items, ticketResponse(&records[i]))
	}
	return c.JSON(items)
}

// CreateTicket POST /create_ticket.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid request body", nil)
	}

	res, err := h.service.CreateTicket(c.UserContext(), service.TicketCreateInput{
		Name:        req.Name,
		Email:       req.Email,
		Subject:     req.Subject,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.CreateTicketResponse{
		Message:    msgTicketCreated,
		TicketID:   res.Ticket.ID,
		CustomerID: res.Customer.ID,
		TicketDetails: dto.TicketDetails{
			Name:        res.SubmittedName,
			Email:       res.Customer.Email,
			Subject:     res.Ticket.Subject,
			Description: res.Ticket.Description,
			Priority:    res.Ticket.Priority,
			Status:      res.Ticket.Status,
		},
	})
}

func ticketResponse(rec *domain.TicketRecord) dto.TicketResponse {
	return dto.TicketResponse{
		TicketID:    rec.ID,
		CustomerID:  rec.CustomerID,
		Subject:     rec.Subject,
		Description: rec.Description,
		Priority:    rec.Priority,
		Status:      rec.Status,
		CreatedAt:   rec.CreatedAt,
		Name:        rec.CustomerName,
		Email:       rec.CustomerEmail,
	}
}

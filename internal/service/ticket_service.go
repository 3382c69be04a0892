package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

const (
	msgDatabaseUnavailable = "Failed to connect to database"
	msgCreateFailed        = "Failed to create ticket"
)

// TicketStore persists customers and tickets.
type TicketStore interface {
	ListTickets(ctx context.Context) ([]domain.TicketRecord, error)
	CreateTicket(ctx context.Context, customer *domain.Customer, ticket *domain.Ticket) (customerCreated bool, err error)
}

// TicketListCache caches the joined ticket list. Get reports the cache
// generation; Set must be given the generation observed before the store was
// read so that a concurrent Invalidate wins.
type TicketListCache interface {
	Get(ctx context.Context) (records []domain.TicketRecord, generation int64, hit bool, err error)
	Set(ctx context.Context, generation int64, records []domain.TicketRecord) error
	Invalidate(ctx context.Context) error
}

// TicketService coordinates ticket workflows.
type TicketService struct {
	store      TicketStore
	cache      TicketListCache
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for ticket service. Cache,
// Dispatcher and Metrics are optional.
type TicketDependencies struct {
	Store      TicketStore
	Cache      TicketListCache
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Name        string
	Email       string
	Subject     string
	Description string
	Priority    string
	Status      string
}

// TicketCreateResult is what a successful creation reports back.
type TicketCreateResult struct {
	Ticket          domain.Ticket
	Customer        domain.Customer
	CustomerCreated bool
	// SubmittedName is the name from the request, which differs from
	// Customer.Name when an existing customer kept its stored name.
	SubmittedName string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		store:      deps.Store,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// ListTickets returns all tickets with customer name and email.
func (s *TicketService) ListTickets(ctx context.Context) ([]domain.TicketRecord, error) {
	var (
		generation int64
		cacheable  bool
	)
	if s.cache != nil {
		records, gen, hit, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("ticket cache read failed", zap.Error(err))
		} else {
			s.metrics.RecordCacheLookup(hit)
			if hit {
				return records, nil
			}
			generation, cacheable = gen, true
		}
	}

	records, err := s.store.ListTickets(ctx)
	if err != nil {
		return nil, apperrors.NewServiceUnavailable(msgDatabaseUnavailable, err)
	}

	if cacheable {
		if err := s.cache.Set(ctx, generation, records); err != nil {
			s.logger.Warn("ticket cache write failed", zap.Error(err))
		}
	}
	return records, nil
}

// CreateTicket validates input, resolves the customer by email and stores the ticket.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*TicketCreateResult, error) {
	input = input.normalized()
	if err := input.validate(); err != nil {
		return nil, err
	}

	customer := &domain.Customer{Name: input.Name, Email: input.Email}
	ticket := &domain.Ticket{
		Subject:     input.Subject,
		Description: input.Description,
		Priority:    domain.TicketPriority(input.Priority),
		Status:      domain.TicketStatus(input.Status),
	}

	created, err := s.store.CreateTicket(ctx, customer, ticket)
	if err != nil {
		if errors.Is(err, repository.ErrUnavailable) {
			return nil, apperrors.NewServiceUnavailable(msgDatabaseUnavailable, err)
		}
		s.logger.Error("create ticket failed", zap.String("email", input.Email), zap.Error(err))
		return nil, apperrors.NewOperationFailed(msgCreateFailed, err)
	}

	if !created && customer.Name != input.Name {
		s.logger.Info("existing customer kept stored name",
			zap.Int64("customer_id", customer.ID),
			zap.String("stored_name", customer.Name),
			zap.String("submitted_name", input.Name))
	}

	s.metrics.RecordTicketCreated(created)
	s.invalidateList(ctx)
	s.publishCreated(ctx, customer, ticket, created)

	return &TicketCreateResult{
		Ticket:          *ticket,
		Customer:        *customer,
		CustomerCreated: created,
		SubmittedName:   input.Name,
	}, nil
}

func (s *TicketService) invalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("ticket cache invalidation failed", zap.Error(err))
	}
}

func (s *TicketService) publishCreated(ctx context.Context, customer *domain.Customer, ticket *domain.Ticket, customerCreated bool) {
	if customerCreated {
		s.publishEvent(ctx, events.Event{
			Type: events.EventCustomerCreated,
			Payload: events.CustomerCreatedPayload{
				CustomerID: customer.ID,
				Name:       customer.Name,
				Email:      customer.Email,
			},
		})
	}
	s.publishEvent(ctx, events.Event{
		Type: events.EventTicketCreated,
		Payload: events.TicketCreatedPayload{
			TicketID:    ticket.ID,
			CustomerID:  customer.ID,
			Email:       customer.Email,
			Subject:     ticket.Subject,
			Priority:    ticket.Priority,
			Status:      ticket.Status,
			NewCustomer: customerCreated,
		},
	})
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func (in TicketCreateInput) normalized() TicketCreateInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Description = strings.TrimSpace(in.Description)
	in.Priority = strings.ToLower(strings.TrimSpace(in.Priority))
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	if in.Status == "" {
		in.Status = string(domain.TicketStatusOpen)
	}
	return in
}

// validate reports the first missing field in request order, then enum violations.
func (in TicketCreateInput) validate() error {
	required := []struct {
		field string
		value string
	}{
		{"name", in.Name},
		{"email", in.Email},
		{"subject", in.Subject},
		{"description", in.Description},
		{"priority", in.Priority},
	}
	for _, r := range required {
		if r.value == "" {
			return apperrors.NewMissingField(r.field)
		}
	}

	if p := domain.TicketPriority(in.Priority); !p.Valid() {
		allowed := make([]string, 0, len(domain.TicketPriorities))
		for _, known := range domain.TicketPriorities {
			allowed = append(allowed, string(known))
		}
		return apperrors.NewInvalidField("priority", in.Priority, allowed)
	}
	if st := domain.TicketStatus(in.Status); !st.Valid() {
		allowed := make([]string, 0, len(domain.TicketStatuses))
		for _, known := range domain.TicketStatuses {
			allowed = append(allowed, string(known))
		}
		return apperrors.NewInvalidField("status", in.Status, allowed)
	}
	return nil
}

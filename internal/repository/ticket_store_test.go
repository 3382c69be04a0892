package repository_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/persistence"
	"github.com/spec-kit/support-desk/internal/repository"
)

// testPool connects to the database named by SUPPORTDESK_TEST_POSTGRES_DSN
// and applies migrations. Tests are skipped when it is unset.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("SUPPORTDESK_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SUPPORTDESK_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := persistence.RunMigrations(ctx, pool, zap.NewNop()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

func uniqueEmail() string {
	return uuid.NewString() + "@example.test"
}

func countRows(t *testing.T, pool *pgxpool.Pool, query string, args ...any) int {
	t.Helper()
	var n int
	if err := pool.QueryRow(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func newTicket(priority domain.TicketPriority) *domain.Ticket {
	return &domain.Ticket{
		Subject:     "Printer on fire",
		Description: "It is still on fire",
		Priority:    priority,
		Status:      domain.TicketStatusOpen,
	}
}

func TestCreateTicketReusesCustomerByEmail(t *testing.T) {
	pool := testPool(t)
	store := repository.NewTicketStore(pool)
	ctx := context.Background()
	email := uniqueEmail()

	first := &domain.Customer{Name: "Ada", Email: email}
	t1 := newTicket(domain.TicketPriorityLow)
	created, err := store.CreateTicket(ctx, first, t1)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if !created {
		t.Error("first create should insert the customer")
	}

	second := &domain.Customer{Name: "Someone Else", Email: email}
	t2 := newTicket(domain.TicketPriorityHigh)
	created, err = store.CreateTicket(ctx, second, t2)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if created {
		t.Error("second create should reuse the customer")
	}
	if second.ID != first.ID {
		t.Errorf("customer id = %d, want %d", second.ID, first.ID)
	}
	if second.Name != "Ada" {
		t.Errorf("stored name = %q, want Ada", second.Name)
	}
	if t2.CustomerID != first.ID {
		t.Errorf("ticket customer id = %d, want %d", t2.CustomerID, first.ID)
	}
	if n := countRows(t, pool, `SELECT COUNT(*) FROM customers WHERE email=$1`, email); n != 1 {
		t.Errorf("customers with email = %d, want 1", n)
	}
}

func TestConcurrentCreatesShareOneCustomer(t *testing.T) {
	pool := testPool(t)
	store := repository.NewTicketStore(pool)
	ctx := context.Background()
	email := uniqueEmail()

	const workers = 8
	type result struct {
		customerID int64
		created    bool
		err        error
	}
	results := make([]result, workers)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			customer := &domain.Customer{Name: "Racer", Email: email}
			created, err := store.CreateTicket(ctx, customer, newTicket(domain.TicketPriorityLow))
			results[i] = result{customerID: customer.ID, created: created, err: err}
		}(i)
	}
	close(start)
	wg.Wait()

	inserted := 0
	for i, r := range results {
		if r.err != nil {
			t.Fatalf("worker %d: %v", i, r.err)
		}
		if r.customerID != results[0].customerID {
			t.Errorf("worker %d customer id = %d, want %d", i, r.customerID, results[0].customerID)
		}
		if r.created {
			inserted++
		}
	}
	if inserted != 1 {
		t.Errorf("created reported %d times, want 1", inserted)
	}
	if n := countRows(t, pool, `SELECT COUNT(*) FROM customers WHERE email=$1`, email); n != 1 {
		t.Errorf("customers with email = %d, want 1", n)
	}
	if n := countRows(t, pool, `SELECT COUNT(*) FROM tickets t JOIN customers c USING (customer_id) WHERE c.email=$1`, email); n != workers {
		t.Errorf("tickets for email = %d, want %d", n, workers)
	}
}

func TestCreateTicketRollsBackOnFailure(t *testing.T) {
	pool := testPool(t)
	store := repository.NewTicketStore(pool)
	ctx := context.Background()
	email := uniqueEmail()

	before := countRows(t, pool, `SELECT COUNT(*) FROM tickets`)

	// violates the priority CHECK constraint after the customer upsert ran
	_, err := store.CreateTicket(ctx, &domain.Customer{Name: "Bob", Email: email}, newTicket("urgent"))
	if err == nil {
		t.Fatal("expected constraint violation")
	}

	if n := countRows(t, pool, `SELECT COUNT(*) FROM customers WHERE email=$1`, email); n != 0 {
		t.Errorf("customers with email = %d, want 0 after rollback", n)
	}
	if after := countRows(t, pool, `SELECT COUNT(*) FROM tickets`); after != before {
		t.Errorf("tickets = %d, want %d after rollback", after, before)
	}
}

func TestListTicketsIncludesCustomer(t *testing.T) {
	pool := testPool(t)
	store := repository.NewTicketStore(pool)
	ctx := context.Background()
	email := uniqueEmail()

	ticket := newTicket(domain.TicketPriorityMedium)
	if _, err := store.CreateTicket(ctx, &domain.Customer{Name: "Cy", Email: email}, ticket); err != nil {
		t.Fatalf("create: %v", err)
	}

	records, err := store.ListTickets(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, rec := range records {
		if rec.ID != ticket.ID {
			continue
		}
		if rec.CustomerName != "Cy" || rec.CustomerEmail != email {
			t.Errorf("customer = %q <%s>, want Cy <%s>", rec.CustomerName, rec.CustomerEmail, email)
		}
		if rec.Status != domain.TicketStatusOpen {
			t.Errorf("status = %q, want open", rec.Status)
		}
		if rec.CreatedAt.IsZero() {
			t.Error("created_at not populated")
		}
		return
	}
	t.Fatalf("ticket %d not listed", ticket.ID)
}

func TestStoreWithoutPool(t *testing.T) {
	store := repository.NewTicketStore(nil)
	ctx := context.Background()

	if _, err := store.ListTickets(ctx); !errors.Is(err, repository.ErrUnavailable) {
		t.Errorf("ListTickets err = %v, want ErrUnavailable", err)
	}
	if _, err := store.CreateTicket(ctx, &domain.Customer{}, &domain.Ticket{}); !errors.Is(err, repository.ErrUnavailable) {
		t.Errorf("CreateTicket err = %v, want ErrUnavailable", err)
	}
}

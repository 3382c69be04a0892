package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/spec-kit/support-desk/internal/ai"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

type answererFunc func(ctx context.Context, question string) (string, error)

func (f answererFunc) Ask(ctx context.Context, question string) (string, error) {
	return f(ctx, question)
}

func TestAskRequiresQuestion(t *testing.T) {
	called := false
	svc := NewAskService(answererFunc(func(context.Context, string) (string, error) {
		called = true
		return "", nil
	}), nil, nil)

	for _, q := range []string{"", "   \n"} {
		_, err := svc.Ask(context.Background(), q)
		de := apperrors.ToDomainError(err)
		if de == nil || de.HTTPStatus != http.StatusBadRequest || de.Message != "Question is required" {
			t.Fatalf("Ask(%q) err = %v", q, err)
		}
	}
	if called {
		t.Fatal("gateway called for a blank question")
	}
}

func TestAskForwardsQuestionVerbatim(t *testing.T) {
	var got string
	svc := NewAskService(answererFunc(func(_ context.Context, q string) (string, error) {
		got = q
		return "Reset it from settings.", nil
	}), nil, nil)

	answer, err := svc.Ask(context.Background(), "  How do I reset my password?\n")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if got != "  How do I reset my password?\n" {
		t.Fatalf("forwarded %q", got)
	}
	if answer != "Reset it from settings." {
		t.Fatalf("answer = %q", answer)
	}
}

func TestAskMapsGatewayErrors(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		status    int
		code      string
		retryable bool
	}{
		{"transient", &ai.Error{Kind: ai.ErrTransient, Err: errors.New("503")}, http.StatusServiceUnavailable, "AI_UNAVAILABLE", true},
		{"rejected", &ai.Error{Kind: ai.ErrRejected, Err: errors.New("401")}, http.StatusBadGateway, "AI_REJECTED", false},
		{"malformed", &ai.Error{Kind: ai.ErrMalformedResponse}, http.StatusBadGateway, "AI_BAD_RESPONSE", false},
		{"unclassified", errors.New("boom"), http.StatusBadGateway, "AI_BAD_RESPONSE", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewAskService(answererFunc(func(context.Context, string) (string, error) {
				return "", tc.err
			}), nil, nil)

			_, err := svc.Ask(context.Background(), "hi")
			de := apperrors.ToDomainError(err)
			if de.HTTPStatus != tc.status || de.Code != tc.code {
				t.Fatalf("got %d %s, want %d %s", de.HTTPStatus, de.Code, tc.status, tc.code)
			}
			details, ok := de.Details.(map[string]any)
			if !ok || details["retryable"] != tc.retryable {
				t.Fatalf("details = %#v", de.Details)
			}
		})
	}
}

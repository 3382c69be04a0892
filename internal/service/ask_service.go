package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/ai"
	"github.com/spec-kit/support-desk/internal/observability"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// Answerer answers free-text questions.
type Answerer interface {
	Ask(ctx context.Context, question string) (string, error)
}

// AskService validates questions and relays them to the AI gateway.
type AskService struct {
	gateway Answerer
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewAskService constructs the service.
func NewAskService(gateway Answerer, metrics *observability.Metrics, logger *zap.Logger) *AskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AskService{gateway: gateway, metrics: metrics, logger: logger}
}

// Ask forwards question verbatim and returns the cleaned answer.
func (s *AskService) Ask(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", apperrors.NewValidationError("Question is required", map[string]any{"field": "question"})
	}

	answer, err := s.gateway.Ask(ctx, question)
	if err != nil {
		s.logger.Warn("ai gateway failed", zap.Bool("retryable", ai.IsRetryable(err)), zap.Error(err))
		switch {
		case errors.Is(err, ai.ErrTransient):
			s.metrics.RecordAIRequest("transient")
			return "", apperrors.NewUpstreamError("AI_UNAVAILABLE", "AI provider temporarily unavailable", http.StatusServiceUnavailable, true, err)
		case errors.Is(err, ai.ErrRejected):
			s.metrics.RecordAIRequest("rejected")
			return "", apperrors.NewUpstreamError("AI_REJECTED", "AI provider rejected the request", http.StatusBadGateway, false, err)
		default:
			s.metrics.RecordAIRequest("malformed")
			return "", apperrors.NewUpstreamError("AI_BAD_RESPONSE", "AI provider returned an unusable response", http.StatusBadGateway, false, err)
		}
	}

	s.metrics.RecordAIRequest("ok")
	return answer, nil
}

// Package metrics orchestrates analysis requests: it forwards a normalized
// portfolio to the external analytics engine and enriches the payload with
// the submitted holdings. It performs no metric computation itself.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/darshanpatil2511/BullFin-AI/internal/domain/portfolio"
	"github.com/darshanpatil2511/BullFin-AI/internal/infra/external/quant"
)

// UpstreamError means the engine was unreachable, timed out, or answered with
// a payload that could not be decoded. It is not retried automatically;
// Timeout tells the caller whether waiting longer is worth a retry.
type UpstreamError struct {
	Cause   error
	Timeout bool
}

func (e *UpstreamError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("analytics engine timed out: %v", e.Cause)
	}
	return fmt.Sprintf("analytics engine unavailable: %v", e.Cause)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// EngineClient computes metrics for a portfolio.
type EngineClient interface {
	Compute(ctx context.Context, p portfolio.Portfolio) (*portfolio.MetricsResult, error)
}

// Service is the metrics orchestrator.
type Service struct {
	engine  EngineClient
	timeout time.Duration
}

// NewService creates an orchestrator. timeout bounds each engine call;
// zero means the engine client's own timeout is the only bound.
func NewService(engine EngineClient, timeout time.Duration) *Service {
	return &Service{
		engine:  engine,
		timeout: timeout,
	}
}

// ComputeMetrics runs one analysis request.
//
// An empty portfolio fails with portfolio.ErrMissingPortfolio before any
// network call. On success the submitted holdings are attached to the result
// unchanged and the engine's metric fields pass through unmodified. Engine-
// reported failures (*quant.StatusError) propagate verbatim, with no retry
// and no fallback payload; everything else wraps as *UpstreamError.
func (s *Service) ComputeMetrics(ctx context.Context, p portfolio.Portfolio) (*portfolio.MetricsResult, error) {
	if len(p) == 0 {
		return nil, portfolio.ErrMissingPortfolio
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := s.engine.Compute(ctx, p)
	if err != nil {
		var statusErr *quant.StatusError
		if errors.As(err, &statusErr) {
			log.Warn().
				Int("status", statusErr.Status).
				Str("message", statusErr.Message).
				Msg("Engine rejected portfolio")
			return nil, statusErr
		}

		upstream := &UpstreamError{Cause: err, Timeout: isTimeout(err)}
		log.Error().Err(err).Bool("timeout", upstream.Timeout).Msg("Engine call failed")
		return nil, upstream
	}

	// Attach the original holdings so derivation needs no second round trip.
	result.Portfolio = p
	return result, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

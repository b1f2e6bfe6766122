// Package app contains the application layer: service implementations that
// compose core guards with secondary ports inside a single transaction.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	coreerrors "github.com/example/rewards/internal/core/errors"
	"github.com/example/rewards/internal/core/identity"
	"github.com/example/rewards/internal/ports/secondary"
)

const instrumentationName = "github.com/example/rewards/internal/app"

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func resolveClock(clock secondary.Clock) secondary.Clock {
	if clock != nil {
		return clock
	}
	return SystemClock{}
}

// startSpan opens one span per public operation.
func startSpan(ctx context.Context, name string, deployment identity.Identity, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("rewards.deployment", deployment.String()))
	return otel.Tracer(instrumentationName).Start(ctx, name, trace.WithAttributes(attrs...))
}

func finishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func requireCaller(caller identity.Identity) error {
	if caller.IsZero() {
		return fmt.Errorf("%w: caller identity is required", coreerrors.ErrUnauthorized)
	}
	return nil
}

func requireDeployment(deployment identity.Identity) error {
	if deployment.IsZero() {
		return fmt.Errorf("%w: deployment is required", coreerrors.ErrInvalidInput)
	}
	return nil
}

// loadGovernance fetches the governance record, mapping absence to ErrNotInitialized.
func loadGovernance(ctx context.Context, tx secondary.Tx, deployment identity.Identity) (*secondary.GovernanceRecord, error) {
	record, err := tx.Governance().Get(ctx, deployment)
	if errors.Is(err, coreerrors.ErrNotFound) {
		return nil, fmt.Errorf("%w: deployment %s", coreerrors.ErrNotInitialized, deployment)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load governance: %w", err)
	}
	return record, nil
}

// loadEpoch fetches an epoch by key, reporting absence as (nil, nil).
func loadEpoch(ctx context.Context, tx secondary.Tx, key identity.Identity) (*secondary.EpochRecord, error) {
	record, err := tx.Epochs().Get(ctx, key)
	if errors.Is(err, coreerrors.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load epoch: %w", err)
	}
	return record, nil
}

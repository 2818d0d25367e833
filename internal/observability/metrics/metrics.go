// Package metrics defines the service metrics contract and its Prometheus and
// no-op implementations.
package metrics

import (
	"context"
	"time"
)

// Metrics records operation-level and demonlist-specific measurements.
// Services depend on this interface; tests use NoOpMetrics.
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, module, operation string)
	RecordOperationSuccess(ctx context.Context, module, operation string)
	RecordOperationFailure(ctx context.Context, module, operation string)
	RecordOperationDuration(ctx context.Context, module, operation string, d time.Duration)

	RecordSubmissionRejected(ctx context.Context, reason string)
	RecordPositionShift(ctx context.Context, startingAt int)
	RecordScoreRecomputation(ctx context.Context, playerID int64)
}

// NoOpMetrics discards all measurements.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordOperationAttempt(context.Context, string, string)                {}
func (NoOpMetrics) RecordOperationSuccess(context.Context, string, string)                {}
func (NoOpMetrics) RecordOperationFailure(context.Context, string, string)                {}
func (NoOpMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (NoOpMetrics) RecordSubmissionRejected(context.Context, string)                      {}
func (NoOpMetrics) RecordPositionShift(context.Context, int)                              {}
func (NoOpMetrics) RecordScoreRecomputation(context.Context, int64)                       {}

var _ Metrics = NoOpMetrics{}

package workflows

import (
	"context"
	"errors"
	"slices"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/hulltrace/internal/core/domain"
	"github.com/samirrijal/hulltrace/internal/core/usecases"
)

// Application error types that retrying cannot fix.
const (
	ErrTypeInvalidInput       = "InvalidInput"
	ErrTypeUnknownAlgorithm   = "UnknownAlgorithm"
	ErrTypeInvariantViolation = "InvariantViolation"
)

// ComparisonActivities holds the activity implementations for the comparison workflow.
type ComparisonActivities struct {
	Hull *usecases.HullService
}

// ValidateComparison checks the points and resolves the algorithm names,
// dropping duplicates.
func (a *ComparisonActivities) ValidateComparison(ctx context.Context, points []domain.PointInput, algs []domain.Algorithm) ([]domain.Algorithm, error) {
	if _, err := a.Hull.Validate(points); err != nil {
		return nil, classify(err)
	}
	names := make([]domain.Algorithm, 0, len(algs))
	for _, alg := range algs {
		parsed, err := domain.ParseAlgorithm(string(alg))
		if err != nil {
			return nil, classify(err)
		}
		if !slices.Contains(names, parsed) {
			names = append(names, parsed)
		}
	}
	return names, nil
}

// RunAlgorithm computes one hull. Steps are counted but not returned.
func (a *ComparisonActivities) RunAlgorithm(ctx context.Context, alg domain.Algorithm, points []domain.PointInput, requestID string) (domain.ComparisonEntry, error) {
	activity.GetLogger(ctx).Info("running algorithm", "algorithm", alg, "points", len(points))

	res, err := a.Hull.Run(ctx, alg, points, usecases.RunOptions{DiscardSteps: true, RequestID: requestID})
	if err != nil {
		return domain.ComparisonEntry{}, classify(err)
	}
	return domain.ComparisonEntry{Hull: res.Hull, Stats: res.Stats}, nil
}

// classify marks the domain errors as non-retryable; the algorithms are
// deterministic. Anything else (a canceled activity context) is retried.
func classify(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidInput, err)
	case errors.Is(err, domain.ErrUnknownAlgorithm):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeUnknownAlgorithm, err)
	case errors.Is(err, domain.ErrInvariantViolation):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvariantViolation, err)
	}
	return err
}

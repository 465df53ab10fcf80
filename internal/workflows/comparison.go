package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/hulltrace/internal/core/domain"
	"github.com/samirrijal/hulltrace/internal/core/geometry"
)

// ComparisonInput is the input for the comparison workflow.
type ComparisonInput struct {
	Points     []domain.PointInput
	Algorithms []domain.Algorithm // empty means all
	RequestID  string
}

// ComparisonWorkflow validates the points once, then runs each algorithm as
// its own activity so a slow or failing algorithm is retried on its own.
// Runs are sequential; the result records whether every algorithm agreed.
func ComparisonWorkflow(ctx workflow.Context, input ComparisonInput) (*domain.Comparison, error) {
	logger := workflow.GetLogger(ctx)

	algs := input.Algorithms
	if len(algs) == 0 {
		algs = domain.Algorithms
	}
	logger.Info("Starting comparison workflow", "points", len(input.Points), "algorithms", len(algs))

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts:        3,
			NonRetryableErrorTypes: []string{ErrTypeInvalidInput, ErrTypeUnknownAlgorithm, ErrTypeInvariantViolation},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: Reject bad input before any algorithm runs
	var names []domain.Algorithm
	if err := workflow.ExecuteActivity(ctx, "ValidateComparison", input.Points, algs).Get(ctx, &names); err != nil {
		return nil, err
	}

	// Step 2: One activity per algorithm
	cmp := &domain.Comparison{
		InputSize: len(input.Points),
		Results:   make(map[domain.Algorithm]domain.ComparisonEntry, len(names)),
		Agree:     true,
	}
	var reference domain.Polygon
	for i, alg := range names {
		var entry domain.ComparisonEntry
		if err := workflow.ExecuteActivity(ctx, "RunAlgorithm", alg, input.Points, input.RequestID).Get(ctx, &entry); err != nil {
			logger.Warn("algorithm failed", "algorithm", alg, "error", err)
			return nil, err
		}
		cmp.Results[alg] = entry
		if i == 0 {
			reference = entry.Hull
		} else if !geometry.SameVertices(reference, entry.Hull) {
			cmp.Agree = false
		}
	}

	logger.Info("Comparison finished", "agree", cmp.Agree)
	return cmp, nil
}

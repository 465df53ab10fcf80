package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/hulltrace/internal/core/algorithms"
	"github.com/samirrijal/hulltrace/internal/core/domain"
	"github.com/samirrijal/hulltrace/internal/core/geometry"
	"github.com/samirrijal/hulltrace/internal/core/ports"
	"github.com/samirrijal/hulltrace/internal/pkg/metrics"
	"github.com/samirrijal/hulltrace/internal/pkg/telemetry"
)

// DefaultMaxPoints bounds the input size when no limit is configured.
const DefaultMaxPoints = 10000

// RunOptions tunes a single HullService.Run.
type RunOptions struct {
	// DiscardSteps keeps step_count but returns no steps.
	DiscardSteps bool
	// RequestID is copied into the published run event.
	RequestID string
}

// HullService validates input, runs algorithms, and takes care of caching,
// run events, tracing and metrics around them.
type HullService struct {
	cache     ports.CacheService
	cacheTTL  int
	publisher ports.RunPublisher
	tracer    trace.Tracer
	maxPoints int
	log       *slog.Logger
}

// Option configures a HullService.
type Option func(*HullService)

// WithCache memoizes results in cache for ttlSeconds.
func WithCache(cache ports.CacheService, ttlSeconds int) Option {
	return func(s *HullService) {
		s.cache = cache
		s.cacheTTL = ttlSeconds
	}
}

// WithPublisher announces every computed run.
func WithPublisher(p ports.RunPublisher) Option {
	return func(s *HullService) { s.publisher = p }
}

// WithTracer overrides the global OpenTelemetry tracer.
func WithTracer(t trace.Tracer) Option {
	return func(s *HullService) { s.tracer = t }
}

// WithMaxPoints rejects inputs larger than n.
func WithMaxPoints(n int) Option {
	return func(s *HullService) {
		if n > 0 {
			s.maxPoints = n
		}
	}
}

// WithLogger sets the logger used for best-effort failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *HullService) { s.log = l }
}

// NewHullService creates a new HullService.
func NewHullService(opts ...Option) *HullService {
	s := &HullService{
		maxPoints: DefaultMaxPoints,
		tracer:    otel.Tracer(telemetry.InstrumentationName),
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxPoints is the configured input limit.
func (s *HullService) MaxPoints() int {
	return s.maxPoints
}

// Algorithms describes every supported algorithm.
func (s *HullService) Algorithms() []domain.AlgorithmInfo {
	out := make([]domain.AlgorithmInfo, 0, len(domain.Algorithms))
	for _, alg := range domain.Algorithms {
		out = append(out, domain.Describe(alg))
	}
	return out
}

// Validate turns caller input into points. Every point needs two finite
// coordinates and the list may not exceed the configured limit.
func (s *HullService) Validate(in []domain.PointInput) ([]domain.Point, error) {
	if len(in) > s.maxPoints {
		return nil, fmt.Errorf("%w: %d points exceeds the limit of %d", domain.ErrInvalidInput, len(in), s.maxPoints)
	}
	out := make([]domain.Point, len(in))
	for i, p := range in {
		switch {
		case p.X == nil || p.Y == nil:
			return nil, fmt.Errorf("%w: point %d is missing a coordinate", domain.ErrInvalidInput, i)
		case !finite(*p.X) || !finite(*p.Y):
			return nil, fmt.Errorf("%w: point %d has a non-finite coordinate", domain.ErrInvalidInput, i)
		}
		out[i] = domain.Pt(*p.X, *p.Y)
	}
	return out, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Run validates in and computes its hull with alg. Results are served from
// the cache when possible. The algorithm itself cannot be interrupted; if
// ctx ends first Run returns ctx.Err() and the result is discarded.
func (s *HullService) Run(ctx context.Context, alg domain.Algorithm, in []domain.PointInput, opts RunOptions) (*domain.Result, error) {
	ctx, span := s.tracer.Start(ctx, "hull.run", trace.WithAttributes(
		telemetry.AttrAlgorithm.String(string(alg)),
		telemetry.AttrInputSize.Int(len(in)),
	))
	defer span.End()

	res, cached, err := s.run(ctx, alg, in, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		telemetry.AttrHullSize.Int(res.Stats.HullSize),
		telemetry.AttrStepCount.Int(res.Stats.StepCount),
		telemetry.AttrCacheHit.Bool(cached),
	)
	if res.Stats.SuccessfulM != nil {
		span.SetAttributes(telemetry.AttrSuccessful.Int(*res.Stats.SuccessfulM))
	}
	if res.Stats.IterationsAttempted != nil {
		span.SetAttributes(telemetry.AttrIterations.Int(*res.Stats.IterationsAttempted))
	}

	s.publish(ctx, res, len(in), cached, opts.RequestID)
	return res, nil
}

func (s *HullService) run(ctx context.Context, alg domain.Algorithm, in []domain.PointInput, opts RunOptions) (*domain.Result, bool, error) {
	alg, err := domain.ParseAlgorithm(string(alg))
	if err != nil {
		metrics.ObserveRun("unknown", "invalid", 0, 0, 0)
		return nil, false, err
	}
	pts, err := s.Validate(in)
	if err != nil {
		metrics.ObserveRun(string(alg), "invalid", 0, 0, 0)
		return nil, false, err
	}

	key := cacheKey(alg, pts, opts.DiscardSteps)
	if res, ok := s.lookup(ctx, key); ok {
		return res, true, nil
	}

	res, err := s.compute(ctx, alg, pts, algorithms.Options{DiscardSteps: opts.DiscardSteps})
	if err != nil {
		return nil, false, err
	}

	s.store(ctx, key, res)
	s.log.DebugContext(ctx, "hull computed",
		"algorithm", alg,
		"input_size", len(pts),
		"hull_size", res.Stats.HullSize,
		"step_count", res.Stats.StepCount,
		"execution_time_ms", res.Stats.ExecutionTimeMS,
	)
	return res, false, nil
}

// compute runs the algorithm on its own goroutine so that a caller deadline
// is honoured even though the algorithm never checks ctx.
func (s *HullService) compute(ctx context.Context, alg domain.Algorithm, pts []domain.Point, opts algorithms.Options) (*domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type outcome struct {
		res *domain.Result
		err error
	}
	done := make(chan outcome, 1)
	start := time.Now()
	go func() {
		res, err := algorithms.Run(alg, pts, opts)
		done <- outcome{res, err}
	}()

	select {
	case <-ctx.Done():
		metrics.ObserveRun(string(alg), "canceled", 0, 0, 0)
		return nil, fmt.Errorf("%s: %w", alg.Title(), ctx.Err())
	case o := <-done:
		if o.err != nil {
			metrics.ObserveRun(string(alg), "error", 0, 0, 0)
			s.log.ErrorContext(ctx, "algorithm failed", "algorithm", alg, "input_size", len(pts), "error", o.err)
			return nil, o.err
		}
		metrics.ObserveRun(string(alg), "ok", time.Since(start), o.res.Stats.HullSize, o.res.Stats.StepCount)
		if it := o.res.Stats.IterationsAttempted; it != nil && *it > 0 {
			metrics.ChanIterations.Observe(float64(*it))
		}
		return o.res, nil
	}
}

func (s *HullService) lookup(ctx context.Context, key string) (*domain.Result, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ports.ErrCacheMiss) {
			s.log.WarnContext(ctx, "cache get failed", "key", key, "error", err)
		}
		metrics.CacheMisses.WithLabelValues("run").Inc()
		return nil, false
	}
	var res domain.Result
	if err := json.Unmarshal(data, &res); err != nil {
		s.log.WarnContext(ctx, "cached result unreadable", "key", key, "error", err)
		metrics.CacheMisses.WithLabelValues("run").Inc()
		return nil, false
	}
	if res.Hull == nil {
		res.Hull = domain.Polygon{}
	}
	if res.Steps == nil {
		res.Steps = []domain.Step{}
	}
	metrics.CacheHits.WithLabelValues("run").Inc()
	return &res, true
}

func (s *HullService) store(ctx context.Context, key string, res *domain.Result) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.log.WarnContext(ctx, "cache set failed", "key", key, "error", err)
	}
}

func (s *HullService) publish(ctx context.Context, res *domain.Result, inputSize int, cached bool, requestID string) {
	if s.publisher == nil {
		return
	}
	ev := domain.NewRunEvent(res, inputSize, cached)
	ev.RequestID = requestID
	if err := s.publisher.PublishRun(ctx, ev); err != nil {
		metrics.EventsPublished.WithLabelValues("error").Inc()
		s.log.WarnContext(ctx, "publish run event failed", "algorithm", res.Algorithm, "error", err)
		return
	}
	metrics.EventsPublished.WithLabelValues("ok").Inc()
}

// Compare runs each of algs (all algorithms when empty) over the same
// points. Steps are counted but not kept.
func (s *HullService) Compare(ctx context.Context, algs []domain.Algorithm, in []domain.PointInput) (*domain.Comparison, error) {
	ctx, span := s.tracer.Start(ctx, "hull.compare", trace.WithAttributes(
		telemetry.AttrInputSize.Int(len(in)),
	))
	defer span.End()

	if len(algs) == 0 {
		algs = domain.Algorithms
	}
	names := make([]domain.Algorithm, 0, len(algs))
	for _, alg := range algs {
		parsed, err := domain.ParseAlgorithm(string(alg))
		if err != nil {
			return nil, err
		}
		if !slices.Contains(names, parsed) {
			names = append(names, parsed)
		}
	}
	pts, err := s.Validate(in)
	if err != nil {
		return nil, err
	}

	cmp := &domain.Comparison{
		InputSize: len(pts),
		Results:   make(map[domain.Algorithm]domain.ComparisonEntry, len(names)),
		Agree:     true,
	}
	var reference domain.Polygon
	for i, alg := range names {
		res, err := s.compute(ctx, alg, pts, algorithms.Options{DiscardSteps: true})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		cmp.Results[alg] = domain.ComparisonEntry{Hull: res.Hull, Stats: res.Stats}
		if i == 0 {
			reference = res.Hull
		} else if !geometry.SameVertices(reference, res.Hull) {
			cmp.Agree = false
		}
	}

	span.SetAttributes(attribute.Bool("hull.agree", cmp.Agree))
	return cmp, nil
}

// cacheKey identifies a run by algorithm, step mode and the exact bit
// patterns of the input coordinates.
func cacheKey(alg domain.Algorithm, pts []domain.Point, discard bool) string {
	h := sha256.New()
	var buf [16]byte
	for _, p := range pts {
		binary.LittleEndian.PutUint64(buf[:8], math.Float64bits(p.X))
		binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(p.Y))
		h.Write(buf[:])
	}
	mode := "steps"
	if discard {
		mode = "count"
	}
	return fmt.Sprintf("run:%s:%s:%s", alg, mode, hex.EncodeToString(h.Sum(nil)))
}

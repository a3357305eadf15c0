// README: Trip planning pipeline. Resolve location, build the prompt, generate,
// normalize, then commit the result to the caller's session.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"voyage/internal/ai"
	"voyage/internal/maps"
	"voyage/internal/metrics"
	"voyage/internal/modules/itinerary"
	"voyage/internal/types"
	"voyage/internal/weather"
)

var (
	// ErrNoResult means even the synthesized itinerary came back empty.
	ErrNoResult = errors.New("no itinerary could be produced")
	// ErrSuperseded means a newer plan for the same session was stored first.
	ErrSuperseded = errors.New("plan superseded by a newer request")
)

// Session is the slice of a session scope the planner writes through.
type Session interface {
	Begin(ctx context.Context) (uint64, error)
	SetCurrent(ctx context.Context, seq uint64, it itinerary.Itinerary) (bool, error)
}

// commitTimeout bounds the session write. The write is detached from the
// request deadline so a plan produced at the deadline is still stored.
const commitTimeout = 5 * time.Second

type PlanResult struct {
	Itinerary itinerary.Itinerary       `json:"itinerary"`
	Stage     itinerary.Stage           `json:"stage"`
	Seq       uint64                    `json:"seq"`
	Request   itinerary.TripRequestView `json:"request"`
}

type Options struct {
	RadiusMeters int
	Limit        int
}

// TripPlanner orchestrates the location lookup, generation backend and
// normalizer for one trip request.
type TripPlanner struct {
	resolver   maps.Resolver
	weather    weather.Service
	generator  ai.Generator
	normalizer *itinerary.Normalizer
	metrics    *metrics.Metrics
	log        *zap.Logger
	radius     int
	limit      int
}

// NewTripPlanner wires the pipeline. Nil collaborators are replaced by their
// disabled forms so a bare planner still produces the synthesized plan.
func NewTripPlanner(resolver maps.Resolver, wx weather.Service, generator ai.Generator, m *metrics.Metrics, log *zap.Logger, opts Options) *TripPlanner {
	if log == nil {
		log = zap.NewNop()
	}
	if resolver == nil {
		resolver = maps.Unconfigured{}
	}
	if wx == nil {
		wx = weather.Disabled{}
	}
	if generator == nil {
		generator = ai.Disabled{}
	}
	if opts.RadiusMeters <= 0 {
		opts.RadiusMeters = maps.DefaultRadiusMeters
	}
	if opts.Limit <= 0 {
		opts.Limit = maps.DefaultLimit
	}
	return &TripPlanner{
		resolver:   resolver,
		weather:    wx,
		generator:  generator,
		normalizer: itinerary.NewNormalizer(log),
		metrics:    m,
		log:        log,
		radius:     opts.RadiusMeters,
		limit:      opts.Limit,
	}
}

// Plan runs the pipeline and stores the result as the session's current
// itinerary. Location, weather and generation failures are absorbed; only
// store errors, ErrNoResult and ErrSuperseded reach the caller.
func (p *TripPlanner) Plan(ctx context.Context, sess Session, req itinerary.TripRequest) (PlanResult, error) {
	seq, err := sess.Begin(ctx)
	if err != nil {
		return PlanResult{}, err
	}
	log := p.log.With(zap.String("destination", req.Destination()), zap.Uint64("seq", seq))

	hints := p.gatherHints(ctx, log, req.Destination())
	prompt := ai.BuildPrompt(req, hints)

	start := time.Now()
	outcome := p.generator.Generate(ctx, prompt)
	p.metrics.ObserveGeneration(time.Since(start))
	if outcome.Kind() == itinerary.OutcomeUnavailable {
		p.metrics.UpstreamFailure("generator")
		log.Warn("generator unavailable, falling back")
	}

	it, stage := p.normalizer.Normalize(outcome, req.Destination(), hints.POIs)
	if it.Empty() {
		it, stage = itinerary.Synthesize(req.Destination(), hints.POIs), itinerary.StageFallback
		if it.Empty() {
			return PlanResult{}, ErrNoResult
		}
	}
	p.metrics.PipelineResult(string(stage))

	commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), commitTimeout)
	defer cancel()
	stored, err := sess.SetCurrent(commitCtx, seq, it)
	if err != nil {
		return PlanResult{}, fmt.Errorf("store itinerary: %w", err)
	}
	if !stored {
		log.Info("discarding superseded plan")
		return PlanResult{}, ErrSuperseded
	}

	log.Info("itinerary planned", zap.String("stage", string(stage)), zap.Int("pois", len(hints.POIs)))
	return PlanResult{Itinerary: it, Stage: stage, Seq: seq, Request: req.View()}, nil
}

// gatherHints collects the optional prompt context. Every failure here is
// logged and dropped.
func (p *TripPlanner) gatherHints(ctx context.Context, log *zap.Logger, destination string) ai.PromptHints {
	var hints ai.PromptHints

	center, err := p.resolver.ResolvePlace(ctx, destination)
	if err != nil {
		if !errors.Is(err, maps.ErrNotFound) {
			p.metrics.UpstreamFailure("places")
		}
		log.Warn("resolve destination failed", zap.Error(err))
		return hints
	}
	hints.Center = &types.Point{Lat: center.Lat, Lng: center.Lng}

	pois, err := p.resolver.NearbyPoints(ctx, center, p.radius, p.limit)
	if err != nil {
		p.metrics.UpstreamFailure("places")
		log.Warn("nearby lookup failed", zap.Error(err))
	} else {
		hints.POIs = pois
	}

	hints.Weather = p.weather.Current(ctx, center)
	return hints
}

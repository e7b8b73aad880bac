// Package app orchestrates the telemetry normalization pipeline: per-driver
// extraction fans out over a worker pool, then a barrier computes the
// field-wide bounds and time zero that every driver is normalized against.
package app

import (
	"context"
	"fmt"
	"runtime"

	"github.com/arf1/racedata/internal/adapters/f1source"
	"github.com/arf1/racedata/internal/domain/extract"
	"github.com/arf1/racedata/internal/domain/geom"
	"github.com/arf1/racedata/internal/domain/model"
	"github.com/arf1/racedata/pkg/logger"
	"github.com/arf1/racedata/pkg/metrics"
)

// PathRule selects the driver whose geometry becomes the reference path.
type PathRule string

const (
	// PathRuleFirst uses the first successfully extracted driver in
	// upstream iteration order. This assumes that driver covers a
	// representative lap; a driver who retires on lap one would yield a
	// partial path.
	PathRuleFirst PathRule = "first"

	// PathRuleLongest uses the driver with the most samples.
	PathRuleLongest PathRule = "longest"
)

// Source is the upstream boundary the assembler consumes.
type Source interface {
	Session(ctx context.Context, year int, grandPrix, sessionType string) (f1source.Session, error)
	PositionData(ctx context.Context, sessionID, driverID string) (extract.Frame, error)
	CarData(ctx context.Context, sessionID, driverID string) (extract.Frame, error)
}

// Service assembles one RaceDataset per invocation. It holds no state
// across runs.
type Service struct {
	source    Source
	extractor *extract.Extractor

	workerCount int
	pathRule    PathRule

	log logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of extraction workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithPathRule sets the reference path selection rule.
func WithPathRule(rule PathRule) Option {
	return func(s *Service) {
		if rule == PathRuleFirst || rule == PathRuleLongest {
			s.pathRule = rule
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// New constructs a Service around an upstream source.
func New(source Source, opts ...Option) *Service {
	s := &Service{
		source:      source,
		workerCount: runtime.NumCPU(),
		pathRule:    PathRuleFirst,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("assembler")
	}
	s.extractor = extract.New(extract.WithLogger(s.log.Named("extractor")))
	return s
}

// Check loads session metadata and the driver list without touching
// telemetry. Used by the CLI connection check.
func (s *Service) Check(ctx context.Context, year int, grandPrix, sessionType string) (f1source.Session, error) {
	sess, err := s.source.Session(ctx, year, grandPrix, sessionType)
	if err != nil {
		return f1source.Session{}, fmt.Errorf("loading session: %w", err)
	}
	return sess, nil
}

// Assemble runs the full pipeline for one session and returns the dataset.
func (s *Service) Assemble(ctx context.Context, year int, grandPrix, sessionType string) (*model.RaceDataset, error) {
	sess, err := s.source.Session(ctx, year, grandPrix, sessionType)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	metrics.SetWorkerCount(s.workerCount)
	tracks, skipped, err := s.extractAll(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("extraction aborted: %w", err)
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: all %d drivers were dropped", ErrNoUsableTelemetry, len(sess.Drivers))
	}

	// Barrier: shared bounds over every driver's scene positions, so
	// relative car positions stay meaningful after normalization.
	series := make([]geom.Series, len(tracks))
	for i, t := range tracks {
		series[i] = t.Positions
	}
	bounds, err := geom.ComputeBounds(geom.Concat(series...))
	if err != nil {
		return nil, fmt.Errorf("computing shared bounds: %w", err)
	}

	// Shared temporal zero: the earliest start across the field. Drivers
	// starting later keep their positive offset.
	globalMinTime := tracks[0].Times[0]
	for _, t := range tracks[1:] {
		if t.Times[0] < globalMinTime {
			globalMinTime = t.Times[0]
		}
	}

	for i := range tracks {
		for j := range tracks[i].Times {
			tracks[i].Times[j] -= globalMinTime
		}
		tracks[i].Normalized = geom.Normalize(tracks[i].Positions, bounds)
	}

	ref := s.referenceIndex(tracks)
	drivers := make(map[string]model.Driver, len(tracks))
	for _, t := range tracks {
		drivers[t.Driver.ID] = t.Driver
	}

	s.log.Info(ctx, "dataset assembled",
		logger.Int("drivers", len(tracks)),
		logger.Int("skipped", len(skipped)),
		logger.Float64("global_min_time", globalMinTime),
		logger.String("reference_driver", tracks[ref].Driver.ID),
	)

	return &model.RaceDataset{
		Meta:            sess.Meta,
		Bounds:          bounds,
		Drivers:         drivers,
		Tracks:          tracks,
		ReferencePath:   tracks[ref].Normalized,
		ReferenceDriver: tracks[ref].Driver.ID,
		Skipped:         skipped,
	}, nil
}

// referenceIndex applies the configured path rule.
func (s *Service) referenceIndex(tracks []model.DriverTrack) int {
	if s.pathRule == PathRuleLongest {
		best := 0
		for i, t := range tracks {
			if t.Len() > tracks[best].Len() {
				best = i
			}
		}
		return best
	}
	return 0
}

// Package extract builds one driver's track from raw upstream series.
//
// Extraction is per-driver and stateless: positional and auxiliary frames
// are merged onto one time axis, required channels are validated, optional
// channels are zero-filled, timestamps are reduced to seconds and positions
// are converted to scene convention. Spatial normalization is not applied
// here; that needs field-wide bounds and belongs to the assembler.
package extract

import (
	"context"
	"fmt"
	"time"

	"github.com/arf1/racedata/internal/domain/geom"
	"github.com/arf1/racedata/internal/domain/model"
	"github.com/arf1/racedata/pkg/logger"
	"github.com/arf1/racedata/pkg/metrics"
)

// Channel names exposed by the upstream source after merging.
const (
	ChannelX        = "X"
	ChannelY        = "Y"
	ChannelZ        = "Z"
	ChannelThrottle = "Throttle"
	ChannelBrake    = "Brake"
	ChannelSpeed    = "Speed"
)

// requiredChannels must all be present or the driver is skipped entirely.
var requiredChannels = []string{ChannelX, ChannelY, ChannelZ}

// optionalChannels are zero-filled when absent.
var optionalChannels = []string{ChannelThrottle, ChannelBrake, ChannelSpeed}

// Extractor turns raw per-driver frames into DriverTracks.
type Extractor struct {
	log logger.Logger
}

// Option applies a configuration option to the Extractor.
type Option func(*Extractor)

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(e *Extractor) {
		if log != nil {
			e.log = log
		}
	}
}

// New constructs an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.Named("extractor")
	}
	return e
}

// Track extracts one driver's track from its positional and auxiliary
// frames. A returned error means this driver is unusable; the caller drops
// the driver and continues with the rest of the field.
func (e *Extractor) Track(ctx context.Context, driver model.Driver, pos, aux Frame) (model.DriverTrack, error) {
	start := time.Now()
	defer func() {
		metrics.RecordExtractionLatency(float64(time.Since(start).Milliseconds()))
	}()

	if pos.Len() == 0 {
		return model.DriverTrack{}, fmt.Errorf("driver %s: %w", driver.ID, ErrEmptyTrack)
	}
	if !pos.valid() || !aux.valid() {
		return model.DriverTrack{}, fmt.Errorf("driver %s: %w", driver.ID, ErrColumnMismatch)
	}

	merged := MergeChannels(pos, aux)
	for _, name := range requiredChannels {
		if _, ok := merged.Channels[name]; !ok {
			return model.DriverTrack{}, fmt.Errorf("driver %s: %w: %s", driver.ID, ErrMissingChannel, name)
		}
	}

	n := merged.Len()
	times := make([]float64, n)
	for i, t := range merged.Time {
		times[i] = t.Seconds()
	}

	track := geom.Series{
		X: merged.Channels[ChannelX],
		Y: merged.Channels[ChannelY],
		Z: merged.Channels[ChannelZ],
	}

	out := model.DriverTrack{
		Driver:    driver,
		Positions: geom.SceneFromTrack(track),
		Times:     times,
	}
	filled := make([]string, 0, len(optionalChannels))
	for _, name := range optionalChannels {
		col, ok := merged.Channels[name]
		if !ok {
			col = make([]float64, n)
			filled = append(filled, name)
		}
		switch name {
		case ChannelThrottle:
			out.Throttle = col
		case ChannelBrake:
			out.Brake = col
		case ChannelSpeed:
			out.Speed = col
		}
	}
	if len(filled) > 0 {
		e.log.Debug(ctx, "zero-filled optional channels",
			logger.String("driver", driver.ID),
			logger.Any("channels", filled),
		)
	}

	metrics.AddSamplesExtracted(n)
	return out, nil
}

// Package synth generates synthetic sessions and seeds them into the
// source cache, so the pipeline can run offline against realistic data.
package synth

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/arf1/racedata/internal/adapters/f1source"
	"github.com/arf1/racedata/internal/domain/extract"
	"github.com/arf1/racedata/pkg/logger"
)

// Track shape and channel constants for the generated session.
const (
	defaultDrivers  = 20
	defaultSamples  = 600
	sampleInterval  = 0.2   // seconds between positional samples
	auxOffset       = 0.05  // auxiliary axis offset from the positional axis
	startStagger    = 0.35  // seconds between consecutive drivers' starts
	baseRadiusX     = 800.0 // metres, scaled to decimetres on output
	baseRadiusY     = 500.0
	elevationAmp    = 4.0
	lateralJitter   = 3.5
	throttleBase    = 70.0
	throttleAmp     = 30.0
	speedBase       = 200.0
	speedAmp        = 120.0
	sessionStartSec = 10.0 // session time of the first driver's first sample
)

// Config controls the generated session.
type Config struct {
	Year        int
	GrandPrix   string
	SessionType string
	Drivers     int
	Samples     int
	Seed        int64
}

func (c *Config) defaults() {
	if c.Drivers <= 0 {
		c.Drivers = defaultDrivers
	}
	if c.Samples <= 0 {
		c.Samples = defaultSamples
	}
}

// Seed writes one synthetic session into the store under the same cache
// keys the source client resolves, so a subsequent pipeline run is served
// entirely from cache.
func Seed(ctx context.Context, store f1source.Store, cfg Config) (f1source.SessionDocument, error) {
	cfg.defaults()
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // deterministic fixture data

	doc := f1source.SessionDocument{
		SessionID:     fmt.Sprintf("%d_%s_%s", cfg.Year, cfg.GrandPrix, cfg.SessionType),
		SessionName:   "Race",
		EventDate:     fmt.Sprintf("%d-03-05 15:00:00", cfg.Year),
		TotalLaps:     57,
		TrackLengthKM: 2 * math.Pi * math.Sqrt((baseRadiusX*baseRadiusX+baseRadiusY*baseRadiusY)/2) / 1000,
	}
	for i := 0; i < cfg.Drivers; i++ {
		num := strconv.Itoa(i + 1)
		doc.Drivers = append(doc.Drivers, f1source.DriverRecord{
			ID:           num,
			FullName:     "Driver " + num,
			Abbreviation: fmt.Sprintf("D%02d", i+1),
			TeamName:     "Team " + strconv.Itoa(i/2+1),
		})
	}

	if err := putJSON(ctx, store, f1source.SessionKey(cfg.Year, cfg.GrandPrix, cfg.SessionType), doc); err != nil {
		return f1source.SessionDocument{}, err
	}

	for i, d := range doc.Drivers {
		pos, aux := driverSeries(rng, i, cfg.Samples)
		if err := putJSON(ctx, store, f1source.PositionKey(doc.SessionID, d.ID), pos); err != nil {
			return f1source.SessionDocument{}, err
		}
		if err := putJSON(ctx, store, f1source.CarKey(doc.SessionID, d.ID), aux); err != nil {
			return f1source.SessionDocument{}, err
		}
	}

	logger.Named("synth").Info(ctx, "synthetic session seeded",
		logger.String("session", doc.SessionID),
		logger.Int("drivers", cfg.Drivers),
		logger.Int("samples", cfg.Samples),
	)
	return doc, nil
}

// driverSeries produces one driver's lap around an elliptical track plus
// matching throttle/brake/speed waves. Drivers alternate between the two
// upstream timestamp encodings so both survive a cache round-trip.
func driverSeries(rng *rand.Rand, idx, samples int) (pos, aux rawSeries) {
	start := sessionStartSec + float64(idx)*startStagger
	phase := rng.Float64() * 2 * math.Pi
	rawMillis := idx%2 == 1

	pos = newRawSeries(samples, rawMillis)
	aux = newRawSeries(samples, rawMillis)
	for j := 0; j < samples; j++ {
		t := start + float64(j)*sampleInterval
		a := phase + 2*math.Pi*float64(j)/float64(samples)

		// Decimetre positions in track convention: X/Y ground, Z altitude.
		x := (baseRadiusX*math.Cos(a) + rng.Float64()*lateralJitter) * 10
		y := (baseRadiusY*math.Sin(a) + rng.Float64()*lateralJitter) * 10
		z := elevationAmp * math.Sin(2*a) * 10

		pos.add(t, map[string]float64{"X": x, "Y": y, "Z": z})
		aux.add(t+auxOffset, map[string]float64{
			"Throttle": clamp(throttleBase+throttleAmp*math.Sin(3*a), 0, 100),
			"Brake":    boolToFloat(math.Sin(3*a) < -0.8),
			"Speed":    speedBase + speedAmp*math.Abs(math.Sin(3*a)),
		})
	}
	return pos, aux
}

// rawSeries builds a SeriesDocument with a chosen timestamp encoding.
type rawSeries struct {
	doc       f1source.SeriesDocument
	rawMillis bool
}

func newRawSeries(samples int, rawMillis bool) rawSeries {
	return rawSeries{
		doc: f1source.SeriesDocument{
			SessionTime: make([]extract.SessionTime, 0, samples),
			Channels:    make(map[string][]float64),
		},
		rawMillis: rawMillis,
	}
}

func (r *rawSeries) add(seconds float64, channels map[string]float64) {
	r.doc.SessionTime = append(r.doc.SessionTime, sessionTime(seconds, r.rawMillis))
	for name, v := range channels {
		r.doc.Channels[name] = append(r.doc.Channels[name], v)
	}
}

func (r rawSeries) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.doc)
}

// sessionTime encodes seconds in one of the two upstream timestamp forms.
func sessionTime(seconds float64, rawMillis bool) extract.SessionTime {
	if rawMillis {
		return extract.TimeFromMillis(int64(math.Round(seconds * 1e3)))
	}
	return extract.TimeFromDuration(time.Duration(seconds * float64(time.Second)))
}

func putJSON(ctx context.Context, store f1source.Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return store.Put(ctx, key, data)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Package export writes the assembled dataset as the JSON document the AR
// front end consumes. The document shape is a hard contract: every field
// below must survive field-for-field.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arf1/racedata/internal/domain/geom"
	"github.com/arf1/racedata/internal/domain/model"
	"github.com/arf1/racedata/pkg/logger"
	"github.com/arf1/racedata/pkg/metrics"
)

const eventDateFmt = "2006-01-02 15:04:05"

// Fixed coordinate-system block describing the normalized scene space.
const (
	coordDescription = "Normalized to -0.5 to 0.5 range, centered at (0,0,0) for AR placement"
	coordRange       = "[-0.5, 0.5] for each axis"
)

// Document is the exported artifact.
type Document struct {
	Metadata  Metadata              `json:"metadata"`
	Drivers   map[string]DriverInfo `json:"drivers"`
	Track     Track                 `json:"track"`
	Telemetry []DriverTelemetry     `json:"telemetry"`
}

// Metadata describes the session and the shared normalization context.
type Metadata struct {
	Year             int              `json:"year"`
	GrandPrix        string           `json:"grand_prix"`
	SessionType      string           `json:"session_type"`
	SessionName      string           `json:"session_name"`
	EventDate        string           `json:"event_date"`
	TotalLaps        int              `json:"total_laps"`
	TrackLengthKM    float64          `json:"track_length_km"`
	NumDrivers       int              `json:"num_drivers"`
	CoordinateBounds geom.Bounds3D    `json:"coordinate_bounds"`
	CoordinateSystem CoordinateSystem `json:"coordinate_system"`
}

// CoordinateSystem documents the axis mapping for the AR consumer.
type CoordinateSystem struct {
	Description string            `json:"description"`
	Range       string            `json:"range"`
	Mapping     map[string]string `json:"mapping"`
}

// DriverInfo is one entry of the drivers map.
type DriverInfo struct {
	Number       string `json:"number"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Team         string `json:"team"`
}

// Track is the standalone reference geometry, channels omitted.
type Track struct {
	Path        [][]float64 `json:"path"`
	Description string      `json:"description"`
}

// DriverTelemetry is one driver's full timeline.
type DriverTelemetry struct {
	Driver              string      `json:"driver"`
	Positions           [][]float64 `json:"positions"`
	PositionsNormalized [][]float64 `json:"positions_normalized"`
	Times               []float64   `json:"times"`
	Throttle            []float64   `json:"throttle"`
	Brake               []float64   `json:"brake"`
	Speed               []float64   `json:"speed"`
}

// Filename returns the artifact filename for a session.
func Filename(meta model.SessionMeta) string {
	return fmt.Sprintf("race_data_%d_%s_%s.json", meta.Year, meta.GrandPrix, meta.SessionType)
}

// BuildDocument converts the dataset to the export document.
func BuildDocument(ds *model.RaceDataset) Document {
	doc := Document{
		Metadata: Metadata{
			Year:             ds.Meta.Year,
			GrandPrix:        ds.Meta.GrandPrix,
			SessionType:      ds.Meta.SessionType,
			SessionName:      ds.Meta.SessionName,
			EventDate:        ds.Meta.EventDate.Format(eventDateFmt),
			TotalLaps:        ds.Meta.TotalLaps,
			TrackLengthKM:    ds.Meta.TrackLengthKM,
			NumDrivers:       len(ds.Tracks),
			CoordinateBounds: ds.Bounds,
			CoordinateSystem: CoordinateSystem{
				Description: coordDescription,
				Range:       coordRange,
				Mapping: map[string]string{
					"f1_x": "threejs_x",
					"f1_y": "threejs_z (depth)",
					"f1_z": "threejs_y (height)",
				},
			},
		},
		Drivers: make(map[string]DriverInfo, len(ds.Drivers)),
		Track: Track{
			Path:        ds.ReferencePath.Rows(),
			Description: "Reference track path from driver " + ds.ReferenceDriver,
		},
		Telemetry: make([]DriverTelemetry, 0, len(ds.Tracks)),
	}

	for id, d := range ds.Drivers {
		doc.Drivers[id] = DriverInfo{
			Number:       d.ID,
			Name:         d.FullName,
			Abbreviation: d.Abbreviation,
			Team:         d.TeamName,
		}
	}

	for _, t := range ds.Tracks {
		doc.Telemetry = append(doc.Telemetry, DriverTelemetry{
			Driver:              t.Driver.ID,
			Positions:           t.Positions.Rows(),
			PositionsNormalized: t.Normalized.Rows(),
			Times:               t.Times,
			Throttle:            t.Throttle,
			Brake:               t.Brake,
			Speed:               t.Speed,
		})
	}
	return doc
}

// Exporter writes datasets into an output directory.
type Exporter struct {
	outDir string
	log    logger.Logger
}

// Option applies a configuration option to the Exporter.
type Option func(*Exporter)

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(e *Exporter) {
		if log != nil {
			e.log = log
		}
	}
}

// New constructs an Exporter targeting outDir (created on first write).
func New(outDir string, opts ...Option) (*Exporter, error) {
	if outDir == "" {
		return nil, ErrNoOutputDir
	}
	e := &Exporter{outDir: outDir}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.Named("export")
	}
	return e, nil
}

// Write serializes the dataset and returns the artifact path.
func (e *Exporter) Write(ctx context.Context, ds *model.RaceDataset) (string, error) {
	if err := os.MkdirAll(e.outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir %s: %w", e.outDir, err)
	}

	doc := BuildDocument(ds)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding dataset: %w", err)
	}

	path := filepath.Join(e.outDir, Filename(ds.Meta))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	metrics.SetExportBytes(int64(len(data)))
	e.log.Info(ctx, "dataset exported",
		logger.String("path", path),
		logger.Int("bytes", len(data)),
		logger.Int("drivers", len(ds.Tracks)),
	)
	return path, nil
}

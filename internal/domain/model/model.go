// Package model contains domain models passed between pipeline layers.
package model

import (
	"time"

	"github.com/arf1/racedata/internal/domain/geom"
)

// Driver identifies one entrant in a session.
type Driver struct {
	ID           string // car number as reported by the source
	FullName     string
	Abbreviation string
	TeamName     string
}

// DriverTrack is one driver's full time-ordered telemetry for a session.
// Columns are index-aligned; insertion order is chronological and is
// consumed downstream as an animation timeline.
type DriverTrack struct {
	Driver Driver

	// Positions are scene-convention, unnormalized coordinates.
	Positions geom.Series

	// Normalized holds positions rescaled against the dataset's shared
	// bounds. Empty until the assembler applies them.
	Normalized geom.Series

	// Times are seconds relative to session start; the assembler shifts
	// them so the earliest driver in the field starts at zero.
	Times []float64

	// Auxiliary channels, zero-filled when the source omits them.
	Throttle []float64
	Brake    []float64
	Speed    []float64
}

// Len returns the number of samples in the track.
func (t DriverTrack) Len() int { return len(t.Times) }

// SessionMeta describes the session the telemetry came from.
type SessionMeta struct {
	Year          int
	GrandPrix     string
	SessionType   string
	SessionName   string
	EventDate     time.Time
	TotalLaps     int
	TrackLengthKM float64
}

// SkippedDriver records a driver dropped during extraction, with the
// reason surfaced to the run summary.
type SkippedDriver struct {
	ID     string
	Reason string
}

// RaceDataset is the assembled, AR-ready artifact for one session.
type RaceDataset struct {
	Meta   SessionMeta
	Bounds geom.Bounds3D

	// Drivers maps driver ID to identity for every included track.
	Drivers map[string]Driver

	// Tracks are in upstream driver order, raw plus normalized plus
	// shifted times.
	Tracks []DriverTrack

	// ReferencePath is one driver's normalized geometry, exported as the
	// dataset's standalone track path.
	ReferencePath geom.Series

	// ReferenceDriver is the ID of the driver the path was taken from.
	ReferenceDriver string

	// Skipped lists drivers dropped during extraction.
	Skipped []SkippedDriver
}

package f1source

import (
	"github.com/arf1/racedata/internal/domain/extract"
	"github.com/arf1/racedata/internal/domain/model"
)

// SessionDocument is the upstream session payload: metadata plus the
// driver entry list.
type SessionDocument struct {
	SessionID     string         `json:"session_id"`
	SessionName   string         `json:"session_name"`
	EventDate     string         `json:"event_date"` // "2006-01-02 15:04:05"
	TotalLaps     int            `json:"total_laps"`
	TrackLengthKM float64        `json:"track_length_km"`
	Drivers       []DriverRecord `json:"drivers"`
}

// DriverRecord is one driver identity record as delivered upstream.
type DriverRecord struct {
	ID           string `json:"id"`
	FullName     string `json:"full_name"`
	Abbreviation string `json:"abbreviation"`
	TeamName     string `json:"team_name"`
}

// Driver converts the record to the domain identity.
func (r DriverRecord) Driver() model.Driver {
	return model.Driver{
		ID:           r.ID,
		FullName:     r.FullName,
		Abbreviation: r.Abbreviation,
		TeamName:     r.TeamName,
	}
}

// SeriesDocument is one channel series payload: a session-relative time
// axis plus named channels of matching length. Timestamps arrive in either
// upstream duration encoding; extract.SessionTime absorbs both.
type SeriesDocument struct {
	SessionTime []extract.SessionTime `json:"session_time"`
	Channels    map[string][]float64  `json:"channels"`
}

// Frame converts the payload to the extractor's frame type.
func (d SeriesDocument) Frame() extract.Frame {
	return extract.Frame{
		Time:     d.SessionTime,
		Channels: d.Channels,
	}
}

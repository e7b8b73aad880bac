// Package f1source is the client for the upstream telemetry provider.
//
// The provider exposes finished sessions over HTTP: one session document
// (metadata plus driver list) and, per driver, a positional series and an
// auxiliary (car data) series. Responses are cached on disk so repeated
// runs of the pipeline do not refetch a session.
package f1source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/arf1/racedata/internal/domain/extract"
	"github.com/arf1/racedata/internal/domain/model"
	"github.com/arf1/racedata/pkg/logger"
	"github.com/arf1/racedata/pkg/metrics"
)

const (
	defaultBaseURL = "https://api.f1telemetry.example/v1"
	defaultTimeout = 60 * time.Second
	eventDateFmt   = "2006-01-02 15:04:05"
)

// Session is the loaded session: metadata and the driver list, in upstream
// iteration order.
type Session struct {
	ID      string
	Meta    model.SessionMeta
	Drivers []model.Driver
}

// Client fetches session telemetry, consulting the cache first.
type Client struct {
	baseURL string
	http    *http.Client
	store   Store
	log     logger.Logger
}

// NewClient constructs a Client. A Store is required; the source is the
// only component allowed to touch the cache directory.
func NewClient(store Store, opts ...Option) (*Client, error) {
	if store == nil {
		return nil, ErrNoStore
	}
	c := &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		store:   store,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Named("f1source")
	}
	return c, nil
}

// Session loads the session document for one event.
func (c *Client) Session(ctx context.Context, year int, grandPrix, sessionType string) (Session, error) {
	q := url.Values{}
	q.Set("year", strconv.Itoa(year))
	q.Set("gp", grandPrix)
	q.Set("type", sessionType)

	body, err := c.fetch(ctx, SessionKey(year, grandPrix, sessionType), "/session", q)
	if err != nil {
		return Session{}, err
	}

	var doc SessionDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return Session{}, errors.Wrap(err, "decoding session document")
	}

	meta := model.SessionMeta{
		Year:          year,
		GrandPrix:     grandPrix,
		SessionType:   sessionType,
		SessionName:   doc.SessionName,
		TotalLaps:     doc.TotalLaps,
		TrackLengthKM: doc.TrackLengthKM,
	}
	if doc.EventDate != "" {
		date, err := time.Parse(eventDateFmt, doc.EventDate)
		if err != nil {
			return Session{}, errors.Wrapf(err, "parsing event date %q", doc.EventDate)
		}
		meta.EventDate = date
	}

	drivers := make([]model.Driver, len(doc.Drivers))
	for i, r := range doc.Drivers {
		drivers[i] = r.Driver()
	}

	c.log.Info(ctx, "session loaded",
		logger.String("session", doc.SessionName),
		logger.Int("drivers", len(drivers)),
		logger.Int("total_laps", doc.TotalLaps),
	)
	return Session{ID: doc.SessionID, Meta: meta, Drivers: drivers}, nil
}

// PositionData loads one driver's positional series.
func (c *Client) PositionData(ctx context.Context, sessionID, driverID string) (extract.Frame, error) {
	return c.series(ctx, PositionKey(sessionID, driverID),
		fmt.Sprintf("/session/%s/position/%s", sessionID, driverID))
}

// CarData loads one driver's auxiliary series.
func (c *Client) CarData(ctx context.Context, sessionID, driverID string) (extract.Frame, error) {
	return c.series(ctx, CarKey(sessionID, driverID),
		fmt.Sprintf("/session/%s/car/%s", sessionID, driverID))
}

func (c *Client) series(ctx context.Context, key, path string) (extract.Frame, error) {
	body, err := c.fetch(ctx, key, path, nil)
	if err != nil {
		return extract.Frame{}, err
	}
	var doc SeriesDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return extract.Frame{}, errors.Wrapf(err, "decoding series %s", key)
	}
	return doc.Frame(), nil
}

// fetch returns the payload for key, from cache when present, otherwise
// from upstream (caching the response on the way out).
func (c *Client) fetch(ctx context.Context, key, path string, query url.Values) ([]byte, error) {
	if data, ok, err := c.store.Get(ctx, key); err != nil {
		return nil, err
	} else if ok {
		metrics.RecordSourceRequest("hit")
		c.log.Debug(ctx, "cache hit", logger.String("key", key))
		return data, nil
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		metrics.RecordSourceRequest("error")
		return nil, errors.Wrap(err, "building upstream request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordSourceRequest("error")
		return nil, errors.Wrapf(ErrUnavailable, "%s: %v", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		metrics.RecordSourceRequest("error")
		return nil, errors.Wrapf(ErrNotFound, "%s", path)
	default:
		metrics.RecordSourceRequest("error")
		return nil, errors.Wrapf(ErrUnavailable, "%s: status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordSourceRequest("error")
		return nil, errors.Wrapf(ErrUnavailable, "%s: reading body: %v", path, err)
	}

	metrics.RecordSourceRequest("miss")
	if err := c.store.Put(ctx, key, body); err != nil {
		// A cache write failure is not fatal to the run; the data is in hand.
		c.log.Warn(ctx, "cache write failed", logger.String("key", key), logger.Error(err))
	}
	return body, nil
}

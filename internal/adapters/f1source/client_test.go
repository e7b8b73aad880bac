package f1source_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arf1/racedata/internal/adapters/f1source"
	"github.com/arf1/racedata/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

func sessionDoc() f1source.SessionDocument {
	return f1source.SessionDocument{
		SessionID:     "2023_bahrain_r",
		SessionName:   "Race",
		EventDate:     "2023-03-05 15:00:00",
		TotalLaps:     57,
		TrackLengthKM: 5.412,
		Drivers: []f1source.DriverRecord{
			{ID: "1", FullName: "Max Verstappen", Abbreviation: "VER", TeamName: "Red Bull Racing"},
			{ID: "44", FullName: "Lewis Hamilton", Abbreviation: "HAM", TeamName: "Mercedes"},
		},
	}
}

func TestClient(t *testing.T) {
	Convey("Given an upstream server and an empty cache", t, func() {
		ctx := context.Background()
		var hits int
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			switch r.URL.Path {
			case "/v1/session":
				_ = json.NewEncoder(w).Encode(sessionDoc())
			case "/v1/session/2023_bahrain_r/position/44":
				_ = json.NewEncoder(w).Encode(f1source.SeriesDocument{
					SessionTime: nil,
					Channels:    map[string][]float64{},
				})
			default:
				http.NotFound(w, r)
			}
		}))
		defer srv.Close()

		store, err := f1source.NewFileStore(t.TempDir())
		So(err, ShouldBeNil)
		client, err := f1source.NewClient(store, f1source.WithBaseURL(srv.URL+"/v1"))
		So(err, ShouldBeNil)

		Convey("When loading a session", func() {
			sess, err := client.Session(ctx, 2023, "Bahrain", "R")
			So(err, ShouldBeNil)

			Convey("Then metadata and drivers are populated in upstream order", func() {
				So(sess.ID, ShouldEqual, "2023_bahrain_r")
				So(sess.Meta.SessionName, ShouldEqual, "Race")
				So(sess.Meta.Year, ShouldEqual, 2023)
				So(sess.Meta.TotalLaps, ShouldEqual, 57)
				So(sess.Meta.EventDate.Year(), ShouldEqual, 2023)
				So(len(sess.Drivers), ShouldEqual, 2)
				So(sess.Drivers[0].Abbreviation, ShouldEqual, "VER")
			})

			Convey("And a second load is served from the cache", func() {
				before := hits
				again, err := client.Session(ctx, 2023, "Bahrain", "R")
				So(err, ShouldBeNil)
				So(hits, ShouldEqual, before)
				So(again.ID, ShouldEqual, sess.ID)
			})
		})

		Convey("When requesting a series that does not exist", func() {
			_, err := client.PositionData(ctx, "2023_bahrain_r", "99")

			Convey("Then the not-found sentinel is surfaced", func() {
				So(errors.Is(err, f1source.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When the upstream is unreachable", func() {
			srv.Close()
			fresh, err := f1source.NewFileStore(t.TempDir())
			So(err, ShouldBeNil)
			broken, err := f1source.NewClient(fresh, f1source.WithBaseURL(srv.URL+"/v1"))
			So(err, ShouldBeNil)

			_, err = broken.Session(ctx, 2023, "Bahrain", "R")

			Convey("Then the unavailable sentinel is surfaced", func() {
				So(errors.Is(err, f1source.ErrUnavailable), ShouldBeTrue)
			})
		})
	})
}

func TestFileStore(t *testing.T) {
	Convey("Given a file store in a fresh directory", t, func() {
		ctx := context.Background()
		store, err := f1source.NewFileStore(t.TempDir() + "/cache/nested")
		So(err, ShouldBeNil)

		Convey("When reading a missing key", func() {
			_, ok, err := store.Get(ctx, "absent")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("When writing and reading back a key", func() {
			So(store.Put(ctx, f1source.SessionKey(2023, "Bahrain", "R"), []byte(`{"a":1}`)), ShouldBeNil)
			data, ok, err := store.Get(ctx, f1source.SessionKey(2023, "Bahrain", "R"))
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(string(data), ShouldEqual, `{"a":1}`)
		})

		Convey("When the directory is not configured", func() {
			_, err := f1source.NewFileStore("")
			So(errors.Is(err, f1source.ErrNoCacheDir), ShouldBeTrue)
		})
	})
}

package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arf1/racedata/internal/adapters/f1source"
	"github.com/arf1/racedata/internal/app"
	"github.com/arf1/racedata/internal/domain/extract"
	"github.com/arf1/racedata/internal/domain/geom"
	"github.com/arf1/racedata/internal/domain/model"
	"github.com/arf1/racedata/pkg/logger"
	"github.com/google/go-cmp/cmp"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logger.Init()
}

type fakeSource struct {
	sess    f1source.Session
	pos     map[string]extract.Frame
	car     map[string]extract.Frame
	sessErr error

	// onPosition, when set, runs before each PositionData call. Used to
	// cancel the run context mid-extraction.
	onPosition func(driverID string)
}

func (f *fakeSource) Session(context.Context, int, string, string) (f1source.Session, error) {
	return f.sess, f.sessErr
}

func (f *fakeSource) PositionData(_ context.Context, _, driverID string) (extract.Frame, error) {
	if f.onPosition != nil {
		f.onPosition(driverID)
	}
	return f.pos[driverID], nil
}

func (f *fakeSource) CarData(_ context.Context, _, driverID string) (extract.Frame, error) {
	return f.car[driverID], nil
}

func times(vals ...float64) []extract.SessionTime {
	out := make([]extract.SessionTime, len(vals))
	for i, v := range vals {
		out[i] = extract.TimeFromDuration(time.Duration(v * float64(time.Second)))
	}
	return out
}

// threeDriverSource builds a field where driver "16" is missing its Z
// channel and must be dropped.
func threeDriverSource() *fakeSource {
	drivers := []model.Driver{
		{ID: "1", FullName: "Max Verstappen", Abbreviation: "VER", TeamName: "Red Bull Racing"},
		{ID: "16", FullName: "Charles Leclerc", Abbreviation: "LEC", TeamName: "Ferrari"},
		{ID: "44", FullName: "Lewis Hamilton", Abbreviation: "HAM", TeamName: "Mercedes"},
	}
	return &fakeSource{
		sess: f1source.Session{
			ID:      "s1",
			Meta:    model.SessionMeta{Year: 2023, GrandPrix: "Bahrain", SessionType: "R", SessionName: "Race"},
			Drivers: drivers,
		},
		pos: map[string]extract.Frame{
			"1": {
				Time: times(12, 13, 14),
				Channels: map[string][]float64{
					extract.ChannelX: {0, 100, 200},
					extract.ChannelY: {0, 50, 100},
					extract.ChannelZ: {0, 0, 0},
				},
			},
			"16": {
				Time: times(12.5, 13.5),
				Channels: map[string][]float64{
					extract.ChannelX: {10, 20},
					extract.ChannelY: {10, 20},
				},
			},
			"44": {
				Time: times(15, 16),
				Channels: map[string][]float64{
					extract.ChannelX: {50, 150},
					extract.ChannelY: {25, 75},
					extract.ChannelZ: {0, 0},
				},
			},
		},
		car: map[string]extract.Frame{},
	}
}

func TestAssemble(t *testing.T) {
	ctx := context.Background()

	Convey("Given a field with one unusable driver", t, func() {
		svc := app.New(threeDriverSource(), app.WithWorkerCount(2))

		Convey("When assembling the dataset", func() {
			ds, err := svc.Assemble(ctx, 2023, "Bahrain", "R")
			So(err, ShouldBeNil)

			Convey("Then exactly the usable drivers are included, in upstream order", func() {
				So(len(ds.Tracks), ShouldEqual, 2)
				So(ds.Tracks[0].Driver.ID, ShouldEqual, "1")
				So(ds.Tracks[1].Driver.ID, ShouldEqual, "44")
				So(len(ds.Drivers), ShouldEqual, 2)
			})

			Convey("And the dropped driver is recorded with a reason", func() {
				So(len(ds.Skipped), ShouldEqual, 1)
				So(ds.Skipped[0].ID, ShouldEqual, "16")
				So(ds.Skipped[0].Reason, ShouldContainSubstring, "Z")
			})

			Convey("And times share one zero with stagger preserved", func() {
				// Driver 1 starts at 12s, driver 44 at 15s.
				So(ds.Tracks[0].Times[0], ShouldEqual, 0.0)
				So(ds.Tracks[1].Times[0], ShouldEqual, 3.0)
			})

			Convey("And bounds are shared across the whole field", func() {
				all := geom.Concat(ds.Tracks[0].Positions, ds.Tracks[1].Positions)
				want, err := geom.ComputeBounds(all)
				So(err, ShouldBeNil)
				So(ds.Bounds, ShouldResemble, want)

				Convey("So per-driver normalization equals normalize-then-split", func() {
					whole := geom.Normalize(all, ds.Bounds)
					n0 := ds.Tracks[0].Len()
					So(ds.Tracks[0].Normalized.X, ShouldResemble, whole.X[:n0])
					So(ds.Tracks[1].Normalized.X, ShouldResemble, whole.X[n0:])
				})
			})

			Convey("And the reference path is the first extracted driver's geometry", func() {
				So(ds.ReferenceDriver, ShouldEqual, "1")
				So(ds.ReferencePath, ShouldResemble, ds.Tracks[0].Normalized)
			})
		})

		Convey("When assembling twice on identical input", func() {
			first, err := app.New(threeDriverSource(), app.WithWorkerCount(4)).Assemble(ctx, 2023, "Bahrain", "R")
			So(err, ShouldBeNil)
			second, err := app.New(threeDriverSource(), app.WithWorkerCount(1)).Assemble(ctx, 2023, "Bahrain", "R")
			So(err, ShouldBeNil)

			Convey("Then the numeric output is identical regardless of worker count", func() {
				So(cmp.Diff(first, second), ShouldBeBlank)
			})
		})

		Convey("When the longest path rule is configured", func() {
			svc := app.New(threeDriverSource(), app.WithPathRule(app.PathRuleLongest))
			ds, err := svc.Assemble(ctx, 2023, "Bahrain", "R")
			So(err, ShouldBeNil)

			Convey("Then the driver with the most samples provides the path", func() {
				So(ds.ReferenceDriver, ShouldEqual, "1") // 3 samples vs 2
			})
		})
	})

	Convey("Given a field where every driver is unusable", t, func() {
		src := threeDriverSource()
		for id, f := range src.pos {
			delete(f.Channels, extract.ChannelZ)
			src.pos[id] = f
		}
		svc := app.New(src)

		Convey("When assembling", func() {
			_, err := svc.Assemble(ctx, 2023, "Bahrain", "R")

			Convey("Then assembly fails with the no-usable-data error", func() {
				So(errors.Is(err, app.ErrNoUsableTelemetry), ShouldBeTrue)
			})
		})
	})

	Convey("Given a run whose context is cancelled mid-extraction", t, func() {
		cancelCtx, cancel := context.WithCancel(ctx)
		src := threeDriverSource()
		src.onPosition = func(driverID string) {
			if driverID == "16" {
				cancel()
			}
		}
		svc := app.New(src, app.WithWorkerCount(1))

		Convey("When assembling", func() {
			ds, err := svc.Assemble(cancelCtx, 2023, "Bahrain", "R")

			Convey("Then no partial dataset is returned and the cause is cancellation", func() {
				So(ds, ShouldBeNil)
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})

	Convey("Given a context cancelled before extraction starts", t, func() {
		cancelCtx, cancel := context.WithCancel(ctx)
		cancel()
		svc := app.New(threeDriverSource())

		Convey("When assembling", func() {
			_, err := svc.Assemble(cancelCtx, 2023, "Bahrain", "R")

			Convey("Then the failure reports cancellation, not unusable telemetry", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				So(errors.Is(err, app.ErrNoUsableTelemetry), ShouldBeFalse)
			})
		})
	})

	Convey("Given an unavailable upstream", t, func() {
		svc := app.New(&fakeSource{sessErr: f1source.ErrUnavailable})

		Convey("When assembling", func() {
			_, err := svc.Assemble(ctx, 2023, "Bahrain", "R")

			Convey("Then the failure is fatal and carries the cause", func() {
				So(errors.Is(err, f1source.ErrUnavailable), ShouldBeTrue)
			})
		})
	})
}

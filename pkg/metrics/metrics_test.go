package metrics_test

import (
	"context"
	"testing"

	"github.com/arf1/racedata/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetrics(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording extraction outcomes", func() {
			metrics.RecordDriverProcessed()
			metrics.RecordDriverProcessed()
			metrics.RecordDriverSkipped()
			metrics.AddSamplesExtracted(1500)
			metrics.SetWorkerCount(8)

			Convey("Then the registry gathers the expected families", func() {
				families, err := metrics.Registry().Gather()
				So(err, ShouldBeNil)
				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["racedata_pipeline_drivers_processed_total"], ShouldBeTrue)
				So(names["racedata_pipeline_drivers_skipped_total"], ShouldBeTrue)
				So(names["racedata_pipeline_samples_extracted_total"], ShouldBeTrue)
				So(names["racedata_pipeline_worker_count"], ShouldBeTrue)
			})
		})

		Convey("When recording source request outcomes", func() {
			metrics.RecordSourceRequest("hit")
			metrics.RecordSourceRequest("miss")
			metrics.RecordSourceRequest("miss")

			Convey("Then the labelled counter is registered", func() {
				n, err := testutil.GatherAndCount(metrics.Registry())
				So(err, ShouldBeNil)
				So(n, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When pushing without a configured gateway", func() {
			err := metrics.Push(context.Background(), "")

			Convey("Then the sentinel error is returned", func() {
				So(err, ShouldEqual, metrics.ErrNoGateway)
			})
		})
	})
}

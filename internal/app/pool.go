package app

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/arf1/racedata/internal/adapters/f1source"
	"github.com/arf1/racedata/internal/domain/model"
	"github.com/arf1/racedata/pkg/logger"
	"github.com/arf1/racedata/pkg/metrics"
)

// slot holds one driver's extraction outcome. Each worker writes only its
// own index, so the slice needs no lock; results are folded in upstream
// driver order after the pool drains, which keeps output identical to
// sequential execution.
type slot struct {
	track model.DriverTrack
	skip  *model.SkippedDriver
}

// extractAll fans per-driver extraction out over the worker pool and
// collects tracks in upstream order plus the skip list. A cancelled
// context aborts the run: partial results are never returned, since a
// dataset missing drivers without skip records would be indistinguishable
// from a complete one.
func (s *Service) extractAll(ctx context.Context, sess f1source.Session) ([]model.DriverTrack, []model.SkippedDriver, error) {
	slots := make([]slot, len(sess.Drivers))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < s.workerCount; w++ {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			log := s.log.Named(name)
			for idx := range jobs {
				slots[idx] = s.extractOne(ctx, log, sess, idx)
			}
		}("worker-" + strconv.Itoa(w))
	}

feed:
	for i := range sess.Drivers {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	tracks := make([]model.DriverTrack, 0, len(slots))
	var skipped []model.SkippedDriver
	for _, sl := range slots {
		switch {
		case sl.skip != nil:
			skipped = append(skipped, *sl.skip)
		case sl.track.Len() > 0:
			tracks = append(tracks, sl.track)
		}
	}
	return tracks, skipped, nil
}

// extractOne fetches and extracts a single driver. Any failure drops only
// this driver; the rest of the field continues.
func (s *Service) extractOne(ctx context.Context, log logger.Logger, sess f1source.Session, idx int) slot {
	driver := sess.Drivers[idx]

	skip := func(err error) slot {
		metrics.RecordDriverSkipped()
		log.Warn(ctx, "driver skipped",
			logger.String("driver", driver.ID),
			logger.String("name", driver.FullName),
			logger.Error(err),
		)
		return slot{skip: &model.SkippedDriver{ID: driver.ID, Reason: err.Error()}}
	}

	pos, err := s.source.PositionData(ctx, sess.ID, driver.ID)
	if err != nil {
		return skip(fmt.Errorf("position data: %w", err))
	}
	aux, err := s.source.CarData(ctx, sess.ID, driver.ID)
	if err != nil {
		return skip(fmt.Errorf("car data: %w", err))
	}

	track, err := s.extractor.Track(ctx, driver, pos, aux)
	if err != nil {
		return skip(err)
	}

	metrics.RecordDriverProcessed()
	log.Debug(ctx, "driver extracted",
		logger.String("driver", driver.ID),
		logger.Int("samples", track.Len()),
	)
	return slot{track: track}
}

// Command racedata runs the telemetry normalization pipeline: it loads one
// session from the upstream source (cache first), extracts and normalizes
// every driver's track, and writes the AR dataset to the output directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/arf1/racedata/internal/adapters/export"
	"github.com/arf1/racedata/internal/adapters/f1source"
	"github.com/arf1/racedata/internal/app"
	"github.com/arf1/racedata/internal/config"
	"github.com/arf1/racedata/internal/domain/model"
	"github.com/arf1/racedata/pkg/logger"
	"github.com/arf1/racedata/pkg/metrics"
)

const pushTimeout = 10 * time.Second

func main() {
	checkOnly := flag.Bool("check", false, "Verify upstream connectivity and print the driver list, then exit")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Apply configured log level (fallback to info on invalid input).
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Every run gets an id so log lines from overlapping runs can be told
	// apart when output is aggregated.
	runID := uuid.NewString()
	log.Info(ctx, "pipeline starting",
		logger.String("run_id", runID),
		logger.Int("year", cfg.Year),
		logger.String("grand_prix", cfg.GrandPrix),
		logger.String("session_type", cfg.SessionType),
	)

	if err := run(ctx, cfg, *checkOnly); err != nil {
		log.Error(ctx, "pipeline failed", logger.String("run_id", runID), logger.Error(err))
		os.Stderr.WriteString("pipeline failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, checkOnly bool) error {
	started := time.Now()
	log := logger.Get()

	store, err := f1source.NewFileStore(cfg.CacheDir)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	client, err := f1source.NewClient(store, f1source.WithBaseURL(cfg.APIBaseURL))
	if err != nil {
		return fmt.Errorf("building source client: %w", err)
	}

	svc := app.New(client,
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithPathRule(app.PathRule(cfg.TrackPathRule)),
	)

	if checkOnly {
		sess, err := svc.Check(ctx, cfg.Year, cfg.GrandPrix, cfg.SessionType)
		if err != nil {
			return err
		}
		renderCheck(sess)
		return nil
	}

	ds, err := svc.Assemble(ctx, cfg.Year, cfg.GrandPrix, cfg.SessionType)
	if err != nil {
		return err
	}

	exporter, err := export.New(cfg.OutputDir)
	if err != nil {
		return err
	}
	path, err := exporter.Write(ctx, ds)
	if err != nil {
		return err
	}

	renderSummary(ds, path)

	metrics.RecordRunDuration(time.Since(started).Seconds())
	if cfg.PushGateway != "" {
		pushCtx, cancel := context.WithTimeout(ctx, pushTimeout)
		defer cancel()
		if err := metrics.Push(pushCtx, cfg.PushGateway); err != nil {
			// Metrics delivery failing does not invalidate the artifact.
			log.Warn(ctx, "metrics push failed",
				logger.String("gateway", cfg.PushGateway), logger.Error(err))
		}
	}
	return nil
}

// renderCheck prints the session metadata and driver list for -check runs.
func renderCheck(sess f1source.Session) {
	fmt.Printf("session: %s (%d %s %s)\n",
		sess.Meta.SessionName, sess.Meta.Year, sess.Meta.GrandPrix, sess.Meta.SessionType)
	fmt.Printf("laps: %d  track: %.3f km  drivers: %d\n",
		sess.Meta.TotalLaps, sess.Meta.TrackLengthKM, len(sess.Drivers))

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Driver", "Abbr", "Team"})
	for _, d := range sess.Drivers {
		t.AppendRow(table.Row{d.ID, d.FullName, d.Abbreviation, d.TeamName})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// renderSummary prints the per-driver outcome of a full run.
func renderSummary(ds *model.RaceDataset, path string) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Driver", "Name", "Samples", "Start Offset (s)"})

	total := 0
	for _, track := range ds.Tracks {
		total += track.Len()
		t.AppendRow(table.Row{
			track.Driver.ID,
			track.Driver.FullName,
			track.Len(),
			fmt.Sprintf("%.3f", track.Times[0]),
		})
	}
	for _, s := range ds.Skipped {
		t.AppendRow(table.Row{s.ID, "(skipped)", 0, s.Reason})
	}
	t.AppendFooter(table.Row{"", "total points", total, ""})
	t.SetStyle(table.StyleLight)
	t.Render()

	fmt.Printf("bounds ranges: x=%.1f y=%.1f z=%.1f  reference driver: %s\n",
		ds.Bounds.Ranges[0], ds.Bounds.Ranges[1], ds.Bounds.Ranges[2], ds.ReferenceDriver)
	fmt.Printf("wrote %s\n", path)
}

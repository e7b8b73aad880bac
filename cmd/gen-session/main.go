// Command gen-session seeds the source cache with a synthetic session so
// the pipeline can be exercised without upstream access.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/arf1/racedata/internal/adapters/f1source"
	"github.com/arf1/racedata/internal/synth"
	"github.com/arf1/racedata/pkg/logger"
)

// Default generation parameters.
const (
	defaultYear    = 2023
	defaultGP      = "Bahrain"
	defaultType    = "R"
	defaultDrivers = 20
	defaultSamples = 600
	defaultTimeout = 2 * time.Minute
)

func main() {
	var (
		cacheDir = flag.String("cache", "./cache", "Cache directory to seed")
		year     = flag.Int("year", defaultYear, "Session year")
		gp       = flag.String("gp", defaultGP, "Grand prix name")
		sType    = flag.String("type", defaultType, "Session type (R, Q, FP1...)")
		drivers  = flag.Int("drivers", defaultDrivers, "Number of drivers to generate")
		samples  = flag.Int("samples", defaultSamples, "Positional samples per driver")
		seed     = flag.Int64("seed", 1, "Random seed")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	store, err := f1source.NewFileStore(*cacheDir)
	if err != nil {
		os.Stderr.WriteString("failed to open cache: " + err.Error() + "\n")
		os.Exit(1)
	}

	doc, err := synth.Seed(ctx, store, synth.Config{
		Year:        *year,
		GrandPrix:   *gp,
		SessionType: *sType,
		Drivers:     *drivers,
		Samples:     *samples,
		Seed:        *seed,
	})
	if err != nil {
		os.Stderr.WriteString("seeding failed: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Get().Info(ctx, "cache seeded",
		logger.String("session", doc.SessionID),
		logger.String("cache_dir", *cacheDir),
	)
}

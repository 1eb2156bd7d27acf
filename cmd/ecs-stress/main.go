package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/pulseecs/pulseecs/ecs"
	"go.uber.org/zap"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	trackDiffs := flag.Bool("track-diffs", false, "Run frames through RunSystemsTracked instead of RunSystems.")
	logLevel := flag.String("log-level", "info", "zap log level for the stress run.")
	flag.Parse()

	logger, err := ecs.NewLogger(ecs.LoggingConfig{Level: *logLevel, Format: "console"})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting ecs stress test",
		zap.Int("entities", *entityCount),
		zap.Duration("duration", *duration),
	)

	world := ecs.NewWorld(ecs.WithLogger(logger))
	if *trackDiffs {
		world.Tracker().Enable()
	}

	scheduler := ecs.NewScheduler()
	RegisterStressSystems(scheduler)

	rng := rand.New(rand.NewSource(1))
	log.Printf("Populating world with %d entities...\n", *entityCount)
	for i := 0; i < *entityCount; i++ {
		SpawnRandomEntity(world, rng)
	}
	log.Println("Population complete.")

	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		GCPauseMetrics: *gcPauseMetrics,
		TrackDiffs:     *trackDiffs,
		UpdateTime:     Stats{Samples: make([]time.Duration, 0)},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	var totalUpdates int64
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			scheduler.NextFrame(world, deltaTime)
			if *trackDiffs {
				scheduler.RunSystemsTracked(world)
			} else {
				scheduler.RunSystems(world)
			}
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			totalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.UpdateTime.Finalize()
	report.SchedulerStats = scheduler.Stats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Simulation finished.")

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	log.Println("Stress test complete.")
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/safewaylabs/safeway-sim/core"
	"github.com/safewaylabs/safeway-sim/internal/logging"
	"github.com/safewaylabs/safeway-sim/internal/stats"
)

func main() {
	mapPath := flag.String("map", "configs/map_cross.json", "path to the road map JSON")
	scenarioPath := flag.String("scenario", "configs/scenario_head_on.json", "path to the vehicle scenario JSON")
	mode := flag.String("mode", "v2v", "coordination mode: baseline | v2v")
	ticks := flag.Int("ticks", 600, "number of simulation ticks to run")
	dt := flag.Float64("dt", core.DefaultDt, "simulation step in seconds")
	radius := flag.Float64("radius", core.DefaultBroadcastRadius, "broadcast radius in metres")
	latency := flag.Float64("latency", core.DefaultLatency, "message latency in seconds")
	packetLoss := flag.Float64("packet-loss", core.DefaultPacketDropRate, "packet drop probability in [0,1]")
	seed := flag.Int64("seed", 1, "seed for the packet-loss RNG")
	snapshotEvery := flag.Int("snapshot-every", 0, "emit a JSON world snapshot every N ticks (0 disables)")
	flag.Parse()

	log, _ := logging.WithRunLogger(logging.NewFromEnv())
	ctx := context.Background()

	cfg := core.DefaultConfig()
	cfg.Dt = *dt
	cfg.BroadcastRadius = *radius
	cfg.Latency = *latency
	cfg.PacketDropRate = *packetLoss
	cfg.Seed = *seed

	switch *mode {
	case "v2v":
		cfg.UseV2V = true
	case "baseline":
		cfg.UseV2V = false
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q (want baseline or v2v)\n", *mode)
		os.Exit(2)
	}

	graph, err := loadGraph(*mapPath)
	if err != nil {
		log.Error(ctx, "failed to load road map", logging.String("path", *mapPath), logging.String("error", err.Error()))
		os.Exit(1)
	}

	recorder := stats.New()
	world := core.NewWorld(graph, cfg,
		core.WithLogger(log),
		core.WithMetricsRecorder(recorder),
	)

	specs, err := loadScenario(*scenarioPath)
	if err != nil {
		log.Error(ctx, "failed to load scenario", logging.String("path", *scenarioPath), logging.String("error", err.Error()))
		os.Exit(1)
	}
	for _, spec := range specs {
		v, dest := core.NewVehicleFromSpec(spec)
		if err := world.AddVehicle(v, &dest); err != nil {
			log.Error(ctx, "failed to add vehicle",
				logging.Int("vehicle_id", spec.ID),
				logging.String("error", err.Error()))
			os.Exit(1)
		}
	}

	log.Info(ctx, "starting simulation",
		logging.String("mode", *mode),
		logging.Int("vehicles", len(specs)),
		logging.Int("ticks", *ticks),
		logging.Float64("dt", cfg.Dt),
		logging.Float64("broadcast_radius", cfg.BroadcastRadius),
	)

	enc := json.NewEncoder(os.Stdout)
	for i := 0; i < *ticks; i++ {
		world.Tick()
		if *snapshotEvery > 0 && (i+1)%*snapshotEvery == 0 {
			if err := enc.Encode(world.Snapshot()); err != nil {
				log.Warn(ctx, "failed to encode snapshot", logging.String("error", err.Error()))
			}
		}
	}

	log.Info(ctx, "simulation complete",
		logging.Float64("sim_time", world.Time()),
		logging.Uint64("tick_count", world.TickCount()),
	)
	fmt.Println(recorder.Summary())
}

func loadGraph(path string) (*core.RoadGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return core.LoadRoadGraph(f)
}

func loadScenario(path string) ([]core.VehicleSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return core.LoadScenario(f)
}

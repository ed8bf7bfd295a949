package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/safewaylabs/safeway-sim/core"
	"github.com/safewaylabs/safeway-sim/internal/logging"
	"github.com/safewaylabs/safeway-sim/internal/observability"
	"github.com/safewaylabs/safeway-sim/internal/stream"
	"github.com/safewaylabs/safeway-sim/timectrl"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP address for /metrics and /ws")
	mapPath := flag.String("map", "configs/map_cross.json", "path to the road map JSON")
	scenarioPath := flag.String("scenario", "configs/scenario_head_on.json", "path to the vehicle scenario JSON")
	baseline := flag.Bool("baseline", false, "disable V2V coordination")
	accelerated := flag.Bool("accelerated", false, "run ticks as fast as possible instead of real time")
	ticks := flag.Int("ticks", 0, "stop after this many ticks (0 runs until interrupted)")
	dt := flag.Float64("dt", core.DefaultDt, "simulation step in seconds")
	seed := flag.Int64("seed", 1, "seed for the packet-loss RNG")
	flag.Parse()

	log, _ := logging.WithRunLogger(logging.NewFromEnv())
	ctx := context.Background()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	collector, err := observability.NewSimCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.String("error", err.Error()))
		os.Exit(1)
	}

	cfg := core.DefaultConfig()
	cfg.UseV2V = !*baseline
	cfg.Dt = *dt
	cfg.Seed = *seed

	world, err := buildWorld(*mapPath, *scenarioPath, cfg, log, collector)
	if err != nil {
		log.Error(ctx, "failed to build world", logging.String("error", err.Error()))
		os.Exit(1)
	}

	hub := stream.NewHub(log)
	defer hub.Close()

	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	mux.Handle("/ws", hub)

	srv := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(context.Background(), "http server exited", logging.String("error", err.Error()))
		}
	}()

	mode := timectrl.RealTime
	if *accelerated {
		mode = timectrl.Accelerated
	}
	tc := timectrl.NewTimeController(time.Duration(cfg.Dt*float64(time.Second)), mode)

	log.Info(ctx, "starting sim server",
		logging.String("addr", *addr),
		logging.Int("vehicles", len(world.VehicleIDs())),
		logging.Float64("dt", cfg.Dt),
	)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	tc.Run(runCtx, timectrl.TickerFunc(func() {
		start := time.Now()
		world.Tick()
		collector.ObserveTickDuration(time.Since(start).Seconds())
		hub.Publish(world.Snapshot())
	}), *ticks)

	log.Info(ctx, "shutting down sim server",
		logging.Uint64("tick_count", world.TickCount()),
		logging.Float64("sim_time", world.Time()),
	)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func buildWorld(mapPath, scenarioPath string, cfg core.Config, log logging.Logger, rec core.MetricsRecorder) (*core.World, error) {
	mf, err := os.Open(mapPath)
	if err != nil {
		return nil, err
	}
	defer mf.Close()
	graph, err := core.LoadRoadGraph(mf)
	if err != nil {
		return nil, err
	}

	sf, err := os.Open(scenarioPath)
	if err != nil {
		return nil, err
	}
	defer sf.Close()
	specs, err := core.LoadScenario(sf)
	if err != nil {
		return nil, err
	}

	world := core.NewWorld(graph, cfg,
		core.WithLogger(log),
		core.WithMetricsRecorder(rec),
	)
	for _, spec := range specs {
		v, dest := core.NewVehicleFromSpec(spec)
		if err := world.AddVehicle(v, &dest); err != nil {
			return nil, err
		}
	}
	return world, nil
}

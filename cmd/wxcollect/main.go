package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"weather-intel/internal/collect"
	"weather-intel/internal/config"
	"weather-intel/internal/provider"
	"weather-intel/internal/registry"
	"weather-intel/internal/store"
)

func main() {
	once := flag.Bool("once", false, "run a single collection cycle and exit")
	flag.Parse()

	if err := run(*once); err != nil {
		log.Fatalf("wxcollect: %v", err)
	}
}

func run(once bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.EnsureSchema(); err != nil {
		return err
	}

	reg := registry.Default()
	prov := provider.NewPacedProvider(buildProvider(cfg), cfg.CallPacing)
	cycle := collect.New(reg, prov, st, cfg.FetchTimeout)

	log.Printf("wxcollect: provider=%s store=%s locations=%d",
		prov.Name(), cfg.DBPath, len(reg.Locations()))

	if once {
		runCycle(cycle, st, cfg)
		return nil
	}

	scheduler := gocron.NewScheduler(time.UTC)
	if _, err := scheduler.Every(cfg.CollectInterval).Do(func() {
		runCycle(cycle, st, cfg)
	}); err != nil {
		return err
	}

	log.Printf("wxcollect: collecting every %s", cfg.CollectInterval)
	scheduler.StartBlocking()
	return nil
}

func runCycle(cycle *collect.Cycle, st *store.Store, cfg *config.Config) {
	started := time.Now()
	report := cycle.RunOnce(context.Background())
	log.Printf("wxcollect: cycle finished in %s: %d succeeded, %d failed",
		time.Since(started).Round(time.Millisecond),
		len(report.Succeeded), len(report.Failed))

	if cfg.Retention > 0 {
		pruned, err := st.Prune(time.Now().Add(-cfg.Retention))
		if err != nil {
			log.Printf("wxcollect: prune failed: %v", err)
		} else if pruned > 0 {
			log.Printf("wxcollect: pruned %d rows past retention horizon", pruned)
		}
	}
}

func buildProvider(cfg *config.Config) provider.Provider {
	if cfg.Provider == config.ProviderWeatherAPI {
		return provider.NewWeatherAPI(cfg.APIKey)
	}
	return provider.NewOpenWeatherMap(cfg.APIKey)
}

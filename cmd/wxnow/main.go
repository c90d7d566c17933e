package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"weather-intel/internal/analytics"
	"weather-intel/internal/models"
	"weather-intel/internal/registry"
	"weather-intel/internal/store"
)

func main() {
	dbPath := flag.String("db", store.DefaultPath(), "path to the weather database")
	series := flag.Bool("series", false, "print the raw observation series instead of current conditions")
	variance := flag.Bool("variance", false, "print the hourly cross-location temperature spread")
	hours := flag.Int("hours", 24, "window size in hours for -series and -variance")
	flag.Parse()

	if err := run(*dbPath, *series, *variance, *hours); err != nil {
		log.Fatalf("wxnow: %v", err)
	}
}

func run(dbPath string, series, variance bool, hours int) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.EnsureSchema(); err != nil {
		return err
	}

	reg := registry.Default()
	a := analytics.New(st, reg, 0)

	switch {
	case series:
		return printSeries(a, hours)
	case variance:
		return printVariance(a, hours)
	default:
		return printLatest(a, reg)
	}
}

func printLatest(a *analytics.Analytics, reg *registry.Registry) error {
	latest, err := a.LatestPerLocation()
	if err != nil {
		var se *store.StorageError
		if errors.As(err, &se) {
			return fmt.Errorf("store unreadable: %w", err)
		}
		return err
	}

	if len(latest) == 0 {
		// An empty result here is a cold start, not a fault.
		fmt.Println(mutedStyle.Render("No observations in the last hour. Run wxcollect first."))
		return nil
	}

	fmt.Println(titleStyle.Render("Current Conditions"))
	for _, loc := range reg.Locations() {
		obs, ok := latest[loc.Name]
		if !ok {
			fmt.Printf("%s\n  %s\n", labelStyle.Render(loc.Name), mutedStyle.Render("no recent reading"))
			continue
		}
		fmt.Print(renderObservation(loc.Name, obs))
	}
	return nil
}

func renderObservation(name string, obs models.Observation) string {
	out := fmt.Sprintf("%s\n", labelStyle.Render(name))
	out += fmt.Sprintf("  %s  feels like %.1f°F\n",
		tempStyle.Render(fmt.Sprintf("%.1f°F", obs.TemperatureF)), obs.FeelsLikeF)
	out += fmt.Sprintf("  %s\n", valueStyle.Render(obs.Description))
	out += fmt.Sprintf("  Humidity %d%% | Wind %.1f mph %s | %s\n",
		obs.Humidity, obs.WindSpeedMph, obs.WindDirection,
		obs.Timestamp.Local().Format("Jan 2 15:04"))
	return out
}

func printSeries(a *analytics.Analytics, hours int) error {
	observations, err := a.SeriesWindow(hours)
	if err != nil {
		return err
	}
	if len(observations) == 0 {
		fmt.Println(mutedStyle.Render(fmt.Sprintf("No observations in the last %d hours.", hours)))
		return nil
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Observations, last %d hours", hours)))
	for _, obs := range observations {
		fmt.Printf("%s  %-16s %6.1f°F  %s\n",
			obs.Timestamp.Local().Format("Jan 2 15:04"),
			obs.Location, obs.TemperatureF, obs.Description)
	}
	return nil
}

func printVariance(a *analytics.Analytics, hours int) error {
	buckets, err := a.VarianceByHour(hours)
	if err != nil {
		return err
	}
	if len(buckets) == 0 {
		fmt.Println(mutedStyle.Render(fmt.Sprintf("No observations in the last %d hours.", hours)))
		return nil
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Unpredictability Index, last %d hours", hours)))
	fmt.Println(labelStyle.Render("hour               min      max    range   stddev"))
	for _, b := range buckets {
		line := fmt.Sprintf("%s  %6.1f  %6.1f  %6.1f  %6.2f",
			b.HourBucket.Local().Format("Jan 2 15:04"),
			b.MinTemperature, b.MaxTemperature, b.Range, b.StdDev)
		if b.Range >= 5 {
			line = spreadStyle.Render(line)
		}
		fmt.Println(line)
	}
	return nil
}

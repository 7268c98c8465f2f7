package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/ghalamif/stationbridge"
)

func main() {
	cmd := "run"
	args := os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "run":
		err = runCommand(args)
	case "validate":
		err = validateCommand(args)
	case "stats":
		err = statsCommand(args)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		log.Fatalf("stationbridge %s: %v", cmd, err)
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Optional YAML config file; environment variables override it")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := stationbridge.LoadConfig(*cfgPath)
	if err != nil {
		return err
	}
	rt, err := stationbridge.NewRuntime(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rt.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func validateCommand(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Optional YAML config file to validate together with the environment")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := stationbridge.LoadConfig(*cfgPath)
	if err != nil {
		return err
	}
	table, err := stationbridge.LoadMappingTable(cfg.SensorMap)
	if err != nil {
		return err
	}
	fmt.Printf("config ok: station %s -> %s every %s, %d mapped fields from %s\n",
		cfg.WeatherLink.StationID, cfg.Wunderground.ID, cfg.UpdateInterval(), table.Len(), cfg.SensorMap)
	return nil
}

func statsCommand(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	url := fs.String("url", "http://localhost:3030/metrics", "Prometheus metrics endpoint")
	interval := fs.Duration("interval", 2*time.Second, "Refresh interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	fmt.Printf("Streaming metrics from %s (Ctrl+C to stop)\n", *url)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			snap, err := fetchSnapshot(*url)
			if err != nil {
				fmt.Fprintf(os.Stderr, "stats error: %v\n", err)
				continue
			}
			fmt.Printf("[%s] %s\n", time.Now().Format(time.RFC3339), snap)
		}
	}
}

type snapshot struct {
	updatesOK     float64
	updatesFailed float64
	lastRunOK     float64
	lastRunFailed float64
}

func (s snapshot) String() string {
	return fmt.Sprintf("updates ok=%.0f failed=%.0f last_run ok=%.3fs failed=%.3fs",
		s.updatesOK, s.updatesFailed, s.lastRunOK, s.lastRunFailed)
}

func fetchSnapshot(url string) (snapshot, error) {
	resp, err := http.Get(url)
	if err != nil {
		return snapshot{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return snapshot{}, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return parseSnapshot(resp.Body)
}

func parseSnapshot(r io.Reader) (snapshot, error) {
	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(r)
	if err != nil {
		return snapshot{}, err
	}

	var s snapshot
	if mf, ok := families["weather_updates_total"]; ok {
		s.updatesOK = byStatus(mf, "success", func(m *dto.Metric) float64 { return m.GetCounter().GetValue() })
		s.updatesFailed = byStatus(mf, "failed", func(m *dto.Metric) float64 { return m.GetCounter().GetValue() })
	}
	if mf, ok := families["weather_update_run_time_seconds"]; ok {
		s.lastRunOK = byStatus(mf, "success", func(m *dto.Metric) float64 { return m.GetGauge().GetValue() })
		s.lastRunFailed = byStatus(mf, "failed", func(m *dto.Metric) float64 { return m.GetGauge().GetValue() })
	}
	return s, nil
}

func byStatus(mf *dto.MetricFamily, status string, value func(*dto.Metric) float64) float64 {
	for _, m := range mf.GetMetric() {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == "status" && lp.GetValue() == status {
				return value(m)
			}
		}
	}
	return 0
}

func printUsage() {
	fmt.Printf(`stationbridge: forward WeatherLink observations to Weather Underground

Usage:
  stationbridge [command] [flags]

Commands:
  run        Start the collection schedule and metrics server (default)
  validate   Load and validate configuration and the mapping table, then exit
  stats      Poll the Prometheus metrics endpoint and print update counters

Examples:
  stationbridge
  stationbridge run -config ./config.yaml
  stationbridge validate
  stationbridge stats -url http://localhost:3030/metrics -interval 5s
`)
}

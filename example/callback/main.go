package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/ghalamif/stationbridge"
)

// Prints mapped observations instead of uploading them to Weather Underground.
func main() {
	cfg, err := stationbridge.LoadConfig("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	stdout := stationbridge.NewCallbackPublisher("stdout", func(_ context.Context, obs stationbridge.MappedObservation) error {
		keys := make([]string, 0, len(obs))
		for k := range obs {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		fmt.Printf("%s", time.Now().Format(time.RFC3339))
		for _, k := range keys {
			fmt.Printf(" %s=%v", k, obs[k])
		}
		fmt.Println()
		return nil
	})

	rt, err := stationbridge.NewRuntime(cfg, stationbridge.WithPublisher(stdout))
	if err != nil {
		log.Fatalf("build runtime: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rt.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("runtime error: %v", err)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/ghalamif/stationbridge"
)

func main() {
	cfg, err := stationbridge.LoadConfig("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	pub, observations, closeObservations := stationbridge.NewChannelPublisher("fanout", 8)
	defer closeObservations()

	go fanoutWorker("archive", observations)

	rt, err := stationbridge.NewRuntime(cfg, stationbridge.WithPublisher(pub))
	if err != nil {
		log.Fatalf("build runtime: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rt.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("runtime error: %v", err)
	}
}

func fanoutWorker(name string, observations <-chan stationbridge.MappedObservation) {
	for obs := range observations {
		fmt.Printf("[%s] received %d fields at %s\n", name, len(obs), time.Now().Format(time.RFC3339))
	}
}

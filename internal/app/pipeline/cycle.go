package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ghalamif/stationbridge/internal/domain"
	"github.com/ghalamif/stationbridge/internal/ports"
)

// State is a step of a collection cycle. Succeeded and Failed are terminal.
type State uint8

const (
	StateFetching State = iota + 1
	StateTransforming
	StatePublishing
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StateTransforming:
		return "transforming"
	case StatePublishing:
		return "publishing"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Cycle runs fetch → transform → publish once per call to Run. A failing
// stage ends the cycle, never the caller.
type Cycle struct {
	stationID   string
	upstream    *Upstream
	transformer ports.Transformer
	downstream  *Downstream
	obs         ports.Observability
}

func NewCycle(stationID string, up *Upstream, tr ports.Transformer, down *Downstream, obs ports.Observability) *Cycle {
	return &Cycle{
		stationID:   stationID,
		upstream:    up,
		transformer: tr,
		downstream:  down,
		obs:         obs,
	}
}

// Run executes one cycle and returns its terminal state.
func (c *Cycle) Run(ctx context.Context) State {
	start := time.Now()
	stage, err := c.run(ctx)

	status := ports.StatusLabel(err)
	c.obs.SetGauge(ports.MetricUpdateRunTime, time.Since(start).Seconds(), status)
	c.obs.IncCounter(ports.MetricUpdates, status)

	if err != nil {
		c.obs.LogError("cycle_failed", err,
			ports.Field{Key: "stage", Value: stage.String()},
			ports.Field{Key: "kind", Value: errorKind(err)},
			ports.Field{Key: "station", Value: c.stationID})
		return StateFailed
	}
	return StateSucceeded
}

func (c *Cycle) run(ctx context.Context) (stage State, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while %s: %v", stage, r)
		}
	}()

	stage = StateFetching
	c.obs.LogInfo("weatherlink_collection_started", ports.Field{Key: "station", Value: c.stationID})
	env, err := c.upstream.FetchCurrent(ctx, c.stationID)
	if err != nil {
		return stage, err
	}
	c.obs.LogInfo("weatherlink_collection_complete")

	stage = StateTransforming
	mapped, err := c.transformer.Transform(env)
	if err != nil {
		return stage, err
	}
	c.obs.LogInfo("conversion_complete", ports.Field{Key: "fields", Value: len(mapped)})

	stage = StatePublishing
	if err := c.downstream.Publish(ctx, mapped); err != nil {
		return stage, err
	}
	c.obs.LogInfo("observation_sent")

	return StateSucceeded, nil
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrUpstreamFetch):
		return "upstream_fetch"
	case errors.Is(err, domain.ErrMalformedInput):
		return "malformed_input"
	case errors.Is(err, domain.ErrDownstreamPublish):
		return "downstream_publish"
	default:
		return "unexpected"
	}
}

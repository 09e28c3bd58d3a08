// Package fallback implements the Fallback Controller (spec §4.5): on a
// rate-limited model it records a cooldown entry and retries once against
// a statically configured fallback model.
package fallback

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/samkirk/gca-bridge/internal/apierr"
	"github.com/samkirk/gca-bridge/internal/ir"
	"github.com/samkirk/gca-bridge/internal/registry"
	"github.com/samkirk/gca-bridge/internal/streamutil"
)

// Controller wraps non-streaming and streaming Gemini calls with the
// cooldown + static-fallback retry of spec §4.5.
type Controller struct {
	table    *registry.FallbackTable
	cooldown *registry.CooldownTracker

	breakersMu sync.Mutex
	breakers   map[string]*gobreaker.CircuitBreaker[any]

	recorder *streamutil.ResultRecorder[cooldownEvent]
}

type cooldownEvent struct {
	model      string
	at         time.Time
	statusCode int
}

// NewController builds a Controller over shared fallback/cooldown state.
// Recording a cooldown observation is moved off the caller's hot path
// onto streamutil's async result recorder, matching how the teacher's
// async_result worker defers registry bookkeeping outside the response
// path.
func NewController(table *registry.FallbackTable, cooldown *registry.CooldownTracker) *Controller {
	c := &Controller{
		table:    table,
		cooldown: cooldown,
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
	}
	c.recorder = streamutil.NewResultRecorder(streamutil.DefaultResultRecorderConfig(), func(e cooldownEvent) {
		c.cooldown.Record(e.model, e.at, e.statusCode)
		c.breaker(e.model).Execute(func() (any, error) {
			return nil, apierr.RateLimit{Model: e.model, StatusCode_: e.statusCode}
		})
	})
	return c
}

// breaker returns the model's advisory circuit breaker, creating it on
// first use. The breaker's open/closed state is exposed to operators
// (e.g. the management status endpoint) but never gates a call — rate
// limiting is already enforced upstream by Code Assist itself.
func (c *Controller) breaker(model string) *gobreaker.CircuitBreaker[any] {
	c.breakersMu.Lock()
	defer c.breakersMu.Unlock()
	if cb, ok := c.breakers[model]; ok {
		return cb
	}
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name: model,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		Timeout: registry.DefaultCooldown,
	})
	c.breakers[model] = cb
	return cb
}

// BreakerState reports the advisory circuit state for a model ("closed",
// "open", "half-open"), or "" if no failure has ever been observed for it.
func (c *Controller) BreakerState(model string) string {
	c.breakersMu.Lock()
	cb, ok := c.breakers[model]
	c.breakersMu.Unlock()
	if !ok {
		return ""
	}
	return cb.State().String()
}

// WrapNonStreaming implements spec §4.5's wrap_nonstreaming entry point.
func WrapNonStreaming[T any](ctx context.Context, c *Controller, model string, req *ir.CanonicalRequest, doit func(ctx context.Context, model string, req *ir.CanonicalRequest) (T, error)) (T, error) {
	req.Model = model
	result, err := doit(ctx, model, req)
	if err == nil {
		return result, nil
	}

	fallbackModel, ok := c.considerFallback(model, err)
	if !ok {
		return result, err
	}

	req.Model = fallbackModel
	return doit(ctx, fallbackModel, req)
}

// WrapStreaming implements spec §4.5's wrap_streaming entry point. doit
// must build a fresh client/stream per call so a retried attempt starts
// with clean first-chunk state.
func WrapStreaming(ctx context.Context, c *Controller, model string, req *ir.CanonicalRequest, doit func(ctx context.Context, model string, req *ir.CanonicalRequest) (<-chan ir.Chunk, error)) (<-chan ir.Chunk, error) {
	req.Model = model
	ch, err := doit(ctx, model, req)
	if err == nil {
		return ch, nil
	}

	fallbackModel, ok := c.considerFallback(model, err)
	if !ok {
		return nil, err
	}

	req.Model = fallbackModel
	return doit(ctx, fallbackModel, req)
}

// considerFallback applies spec §4.5's guard: only a typed rate-limit
// error on a model that (a) has a fallback entry and (b) isn't already in
// cooldown triggers the cooldown-record + fallback-lookup sequence.
func (c *Controller) considerFallback(model string, err error) (fallbackModel string, ok bool) {
	var rl apierr.RateLimit
	if !errors.As(err, &rl) {
		return "", false
	}
	now := time.Now()
	if c.cooldown.InCooldown(model, now) {
		return "", false
	}
	fallbackModel, found := c.table.Lookup(model)
	if !found {
		return "", false
	}

	c.recorder.Record(cooldownEvent{model: model, at: now, statusCode: rl.StatusCode_})
	return fallbackModel, true
}

// BestAvailable is spec §4.5's cooldown accessor, exposed here so callers
// don't need to reach into internal/registry directly.
func (c *Controller) BestAvailable(model string) string {
	return c.table.BestAvailable(model, c.cooldown, time.Now())
}

// Close stops the async cooldown recorder, draining any pending events.
func (c *Controller) Close() {
	c.recorder.Stop()
}

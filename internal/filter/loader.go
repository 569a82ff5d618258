package filter

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"modguard/internal/logger"
)

// Loader refreshes the registry from the rule store on a jittered interval.
type Loader struct {
	repo      Repository
	registry  *Registry
	interval  time.Duration
	jitterMax time.Duration
	log       logger.Logger
}

func NewLoader(repo Repository, registry *Registry, interval, jitterMax time.Duration, log logger.Logger) *Loader {
	return &Loader{
		repo:      repo,
		registry:  registry,
		interval:  interval,
		jitterMax: jitterMax,
		log:       log,
	}
}

// Reload fetches the stored configs and swaps them into the registry.
func (l *Loader) Reload(ctx context.Context) error {
	start := time.Now()
	configs, err := l.repo.GetListConfigs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load filter lists: %w", err)
	}
	if err := l.registry.Load(configs); err != nil {
		return fmt.Errorf("failed to build filter lists: %w", err)
	}

	rules := 0
	for _, list := range l.registry.Lists() {
		rules += list.RuleCount()
	}
	l.log.Infow("Filter lists reloaded",
		"lists", len(l.registry.Lists()),
		"rules", rules,
		"duration", time.Since(start),
	)
	return nil
}

// Start runs periodic reloads until the context is cancelled. A failed
// reload keeps the previous generation and retries on the next tick.
func (l *Loader) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(l.nextInterval()):
			if err := l.Reload(ctx); err != nil {
				l.log.Errorw("Periodic filter list reload failed", "error", err)
			}
		}
	}
}

// nextInterval spreads replicas apart so they do not hit the store in step.
func (l *Loader) nextInterval() time.Duration {
	if l.jitterMax <= 0 {
		return l.interval
	}
	return l.interval + time.Duration(rand.Int63n(int64(l.jitterMax)))
}

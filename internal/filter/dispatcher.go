package filter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"modguard/internal/logger"
	"modguard/internal/platform"
	"modguard/pkg/logging"
	"modguard/pkg/metrics"
)

// Dispatcher runs the fan-out/reduce cycle for each inbound event: build the
// context, collect triggered rules from every subscribed list, merge their
// action sets into one, apply it, and alert the moderators.
type Dispatcher struct {
	registry *Registry
	env      *Env
	alerts   *AlertSender
	log      logger.Logger
}

func NewDispatcher(registry *Registry, env *Env, alerts *AlertSender, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		env:      env,
		alerts:   alerts,
		log:      log,
	}
}

// HandleMessage filters one inbound event. It returns an error only when the
// event itself is unusable; action and alert failures are logged and the
// dispatch still completes, so one broken side effect never blocks the rest.
func (d *Dispatcher) HandleMessage(ctx context.Context, evt platform.MessageEvent) error {
	if evt.Author.Bot {
		return nil
	}

	event, ok := ParseEvent(evt.Type)
	if !ok {
		metrics.FilterEventsTotal.WithLabelValues(evt.Type, "unknown").Inc()
		d.log.Warnw("Dropping event of unknown type", "type", evt.Type, "event_id", evt.ID)
		return nil
	}

	ctx = logging.WithDispatchID(ctx, uuid.New().String())
	ctx = logging.WithEventID(ctx, evt.ID)
	start := time.Now()

	msg := evt.Message
	fctx := NewContext(event, evt.Author, evt.Channel, evt.Content, &msg, evt.Embeds)

	triggered, actions, err := d.evaluate(ctx, fctx)
	if err != nil {
		metrics.FilterEventsTotal.WithLabelValues(event.String(), "error").Inc()
		return err
	}

	if len(triggered) == 0 {
		metrics.FilterEventsTotal.WithLabelValues(event.String(), "clean").Inc()
		metrics.ObserveDispatchDuration(event.String(), time.Since(start))
		return nil
	}

	actions.Apply(ctx, fctx, d.env)

	if fctx.SendAlert {
		if err := d.alerts.Send(ctx, fctx, triggered); err != nil {
			d.log.ErrorwCtx(ctx, "Failed to alert moderators", "error", err)
		}
	}

	metrics.FilterEventsTotal.WithLabelValues(event.String(), "triggered").Inc()
	metrics.ObserveDispatchDuration(event.String(), time.Since(start))
	d.log.InfowCtx(ctx, "Filter dispatch complete",
		"event", event.String(),
		"lists", len(triggered),
		"actions", fctx.ActionDescriptions,
		"duration", time.Since(start),
	)
	return nil
}

// evaluate fans the context out to the subscribed lists and reduces the
// triggered rules' action sets into a single merged set. The reduction is
// order-insensitive, so the subscription order never changes the outcome.
func (d *Dispatcher) evaluate(ctx context.Context, fctx *Context) ([]TriggeredList, *ActionSet, error) {
	var triggered []TriggeredList
	actions := NewActionSet()

	for _, list := range d.registry.Subscribed(fctx.Event) {
		rules := list.TriggersFor(fctx)
		if len(rules) == 0 {
			continue
		}
		triggered = append(triggered, TriggeredList{List: list, Rules: rules})
		metrics.FilterTriggeredTotal.WithLabelValues(list.Name()).Add(float64(len(rules)))

		for _, rule := range rules {
			merged, err := actions.Union(rule.Actions)
			if err != nil {
				return nil, nil, err
			}
			actions = merged
		}
	}
	return triggered, actions, nil
}

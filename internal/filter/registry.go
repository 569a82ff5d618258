package filter

import (
	"sync"

	"modguard/internal/logger"
	"modguard/pkg/metrics"
)

// Registry owns the loaded filter lists and their event subscriptions.
// Load swaps in a freshly built generation under the write lock, so a reload
// never leaves a dispatch observing a half-updated list.
type Registry struct {
	parser *SettingsParser
	log    logger.Logger

	mu     sync.RWMutex
	lists  map[string]List
	subs   map[Event][]List
	warned map[string]bool
}

func NewRegistry(parser *SettingsParser, log logger.Logger) *Registry {
	return &Registry{
		parser: parser,
		log:    log,
		lists:  make(map[string]List),
		subs:   make(map[Event][]List),
		warned: make(map[string]bool),
	}
}

// constructors maps stored list names to their implementations. A stored
// list with no constructor is warned about once and skipped, so retiring a
// list type does not break loading the rest.
func (r *Registry) construct(name string) (List, error) {
	switch name {
	case TokenListName:
		return NewTokenList(r.parser, r.log), nil
	case ExpressionListName:
		return NewExpressionList(r.parser, r.log)
	default:
		return nil, nil
	}
}

// Load builds lists from the stored configs and swaps them in. Configs
// sharing a name land in the same list as separate groups.
func (r *Registry) Load(configs []ListConfig) error {
	lists := make(map[string]List)
	for _, cfg := range configs {
		list, ok := lists[cfg.Name]
		if !ok {
			built, err := r.construct(cfg.Name)
			if err != nil {
				return err
			}
			if built == nil {
				r.warnUnknown(cfg.Name)
				continue
			}
			list = built
			lists[cfg.Name] = list
		}
		if err := list.AddGroup(cfg); err != nil {
			return err
		}
	}

	subs := make(map[Event][]List)
	for _, list := range lists {
		for _, event := range list.Subscriptions() {
			subs[event] = append(subs[event], list)
		}
		metrics.SetActiveRules(list.Name(), list.RuleCount())
	}

	r.mu.Lock()
	r.lists = lists
	r.subs = subs
	r.mu.Unlock()
	return nil
}

// Subscribed returns the lists that want to see the given event.
func (r *Registry) Subscribed(event Event) []List {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.subs[event]
}

// Lists returns the loaded lists keyed by name.
func (r *Registry) Lists() map[string]List {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make(map[string]List, len(r.lists))
	for name, list := range r.lists {
		result[name] = list
	}
	return result
}

func (r *Registry) warnUnknown(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.warned[name] {
		return
	}
	r.warned[name] = true
	r.log.Warnw("A filter list was loaded from the rule store, but no matching implementation",
		"list", name,
	)
}

package filter

import (
	"context"
	"fmt"
	"sort"

	"modguard/internal/logger"
	"modguard/internal/platform"
)

// Env carries the boundary collaborators action entries call into during the
// apply phase.
type Env struct {
	Gateway      platform.Gateway
	Logger       logger.Logger
	ModChannelID string
	PingRoles    map[string]string
}

// ActionEntry is one remedial action of a specific kind. Entries are
// immutable after construction: Merge returns a new entry and never mutates
// its operands. Merge is associative over same-kind operands; merging across
// kinds is a contract violation and returns an error, which the ActionSet
// layer prevents by keying entries on Kind.
type ActionEntry interface {
	Kind() string
	Merge(other ActionEntry) (ActionEntry, error)
	Apply(ctx context.Context, fctx *Context, env *Env)
}

// ActionSet holds at most one ActionEntry per kind.
type ActionSet struct {
	entries map[string]ActionEntry
}

func NewActionSet(entries ...ActionEntry) *ActionSet {
	s := &ActionSet{entries: make(map[string]ActionEntry, len(entries))}
	for _, e := range entries {
		s.entries[e.Kind()] = e
	}
	return s
}

func (s *ActionSet) Get(kind string) (ActionEntry, bool) {
	if s == nil {
		return nil, false
	}
	e, ok := s.entries[kind]
	return e, ok
}

func (s *ActionSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

func (s *ActionSet) Empty() bool {
	return s.Len() == 0
}

// Union combines two sets into a new one. Entries sharing a kind are merged
// with the kind-specific Merge; entries unique to either side are kept as
// is. Union never mutates its operands, and because every entry's Merge is
// associative, reducing any number of sets with Union is order-insensitive.
func (s *ActionSet) Union(other *ActionSet) (*ActionSet, error) {
	if s == nil || s.Empty() {
		return other, nil
	}
	if other == nil || other.Empty() {
		return s, nil
	}

	result := &ActionSet{entries: make(map[string]ActionEntry, len(s.entries)+len(other.entries))}
	for kind, entry := range s.entries {
		result.entries[kind] = entry
	}
	for kind, entry := range other.entries {
		existing, ok := result.entries[kind]
		if !ok {
			result.entries[kind] = entry
			continue
		}
		merged, err := existing.Merge(entry)
		if err != nil {
			return nil, fmt.Errorf("failed to merge %q entries: %w", kind, err)
		}
		result.entries[kind] = merged
	}
	return result, nil
}

// Apply executes every entry exactly once, in lexical kind order so the
// sequence of side effects is fixed across dispatches.
func (s *ActionSet) Apply(ctx context.Context, fctx *Context, env *Env) {
	if s.Empty() {
		return
	}

	kinds := make([]string, 0, len(s.entries))
	for kind := range s.entries {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	for _, kind := range kinds {
		s.entries[kind].Apply(ctx, fctx, env)
	}
}

// FallbackTo returns a set where every kind missing from s is filled in from
// defaults. Used so a rule with partial actions inherits the rest from its
// filter list.
func (s *ActionSet) FallbackTo(defaults *ActionSet) *ActionSet {
	if defaults == nil || defaults.Empty() {
		return s
	}
	if s == nil || s.Empty() {
		return defaults
	}

	result := &ActionSet{entries: make(map[string]ActionEntry, len(s.entries)+len(defaults.entries))}
	for kind, entry := range defaults.entries {
		result.entries[kind] = entry
	}
	for kind, entry := range s.entries {
		result.entries[kind] = entry
	}
	return result
}

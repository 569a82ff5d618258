package filter

import (
	"fmt"

	"modguard/internal/logger"
)

// Rule is a single condition plus the actions to apply when it matches.
// Matching logic is supplied by the owning list as a closure; the core only
// needs the trigger answer and the rule's ActionSet.
type Rule struct {
	ID          int64
	Content     string
	Description string
	Actions     *ActionSet
	Validations *Validations
	Extra       string

	matches func(fctx *Context) bool
}

// TriggeredOn reports whether the rule's condition holds for the context.
func (r *Rule) TriggeredOn(fctx *Context) bool {
	if r.matches == nil {
		return false
	}
	return r.matches(fctx)
}

// ListType distinguishes deny groups from allow groups within a filter list.
type ListType int

const (
	DenyList ListType = iota
	AllowList
)

// List dispatches contexts to its rules and reports which ones triggered.
// TriggersFor must not mutate the context beyond appending matches.
type List interface {
	Name() string
	Subscriptions() []Event
	AddGroup(cfg ListConfig) error
	TriggersFor(fctx *Context) []*Rule
	RuleCount() int
}

type groupDefaults struct {
	actions     *ActionSet
	validations *Validations
}

// baseList carries the rule groups and group defaults shared by every
// concrete list type.
type baseList struct {
	name     string
	groups   map[ListType][]*Rule
	defaults map[ListType]*groupDefaults
	parser   *SettingsParser
	log      logger.Logger
}

func newBaseList(name string, parser *SettingsParser, log logger.Logger) baseList {
	return baseList{
		name:     name,
		groups:   make(map[ListType][]*Rule),
		defaults: make(map[ListType]*groupDefaults),
		parser:   parser,
		log:      log,
	}
}

func (b *baseList) Name() string {
	return b.name
}

func (b *baseList) RuleCount() int {
	n := 0
	for _, rules := range b.groups {
		n += len(rules)
	}
	return n
}

// addGroup loads one stored group (deny or allow) into the list. Rules whose
// settings are malformed or whose condition fails to compile are logged and
// skipped; the rest of the group still loads.
func (b *baseList) addGroup(cfg ListConfig, compile func(rc RuleConfig) (func(*Context) bool, error)) error {
	defaultActions, defaultValidations, err := b.parser.Parse(cfg.Settings)
	if err != nil {
		return fmt.Errorf("failed to parse defaults for list %q: %w", cfg.Name, err)
	}

	listType := ListType(cfg.ListType)
	b.defaults[listType] = &groupDefaults{
		actions:     defaultActions,
		validations: defaultValidations,
	}

	rules := make([]*Rule, 0, len(cfg.Rules))
	for _, rc := range cfg.Rules {
		actions, validations, err := b.parser.Parse(rc.Settings)
		if err != nil {
			b.log.Warnw("Skipping rule with malformed settings",
				"list", cfg.Name,
				"rule_id", rc.ID,
				"error", err,
			)
			continue
		}

		matcher, err := compile(rc)
		if err != nil {
			b.log.Warnw("Skipping rule whose condition does not compile",
				"list", cfg.Name,
				"rule_id", rc.ID,
				"error", err,
			)
			continue
		}

		rules = append(rules, &Rule{
			ID:          rc.ID,
			Content:     rc.Content,
			Description: rc.Description,
			Actions:     actions.FallbackTo(defaultActions),
			Validations: validations,
			Extra:       rc.Extra,
			matches:     matcher,
		})
	}
	b.groups[listType] = rules
	return nil
}

// filterListResult sifts the rules and returns those that apply to the
// context and actually trigger. The group defaults answer whether rules are
// relevant by default; a rule carrying its own validations overrides that
// answer, and triggers only when none of its own validations failed and
// every failing default is covered by one of its passing overrides.
func filterListResult(fctx *Context, rules []*Rule, defaults *Validations) []*Rule {
	_, failedByDefault := defaults.Evaluate(fctx)
	defaultAnswer := len(failedByDefault) == 0

	var relevant []*Rule
	for _, rule := range rules {
		if rule.Validations.Empty() {
			if defaultAnswer && rule.TriggeredOn(fctx) {
				relevant = append(relevant, rule)
			}
			continue
		}

		passed, failed := rule.Validations.Evaluate(fctx)
		if len(failed) > 0 || !subset(failedByDefault, passed) {
			continue
		}
		if rule.TriggeredOn(fctx) {
			relevant = append(relevant, rule)
		}
	}
	return relevant
}

func subset(a, b map[string]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

package filter

import (
	"modguard/internal/logger"
	"modguard/pkg/expr"
)

// ExpressionListName is the stored name of the CEL expression list.
const ExpressionListName = "expression"

// ExpressionList matches events against per-rule CEL expressions. Rules see
// the message content, the event name and the author and channel as maps, so
// a single rule can combine content and metadata conditions.
type ExpressionList struct {
	baseList
	evaluator *expr.Evaluator
}

func NewExpressionList(parser *SettingsParser, log logger.Logger) (List, error) {
	evaluator, err := expr.NewEvaluator()
	if err != nil {
		return nil, err
	}
	return &ExpressionList{
		baseList:  newBaseList(ExpressionListName, parser, log),
		evaluator: evaluator,
	}, nil
}

func (l *ExpressionList) Subscriptions() []Event {
	return []Event{EventMessage, EventMessageEdit}
}

func (l *ExpressionList) AddGroup(cfg ListConfig) error {
	return l.addGroup(cfg, func(rc RuleConfig) (func(*Context) bool, error) {
		program, err := l.evaluator.Compile(rc.Content)
		if err != nil {
			return nil, err
		}
		ruleID := rc.ID
		return func(fctx *Context) bool {
			matched, err := expr.Evaluate(program, expressionVars(fctx))
			if err != nil {
				// A runtime error in one expression must not block the
				// dispatch; the rule simply does not trigger.
				l.log.Warnw("Rule expression failed to evaluate",
					"list", l.name,
					"rule_id", ruleID,
					"error", err,
				)
				return false
			}
			return matched
		}, nil
	})
}

func (l *ExpressionList) TriggersFor(fctx *Context) []*Rule {
	defaults, ok := l.defaults[DenyList]
	if !ok {
		return nil
	}
	return filterListResult(fctx, l.groups[DenyList], defaults.validations)
}

func expressionVars(fctx *Context) map[string]interface{} {
	roles := make([]interface{}, 0, len(fctx.Author.Roles))
	for _, r := range fctx.Author.Roles {
		roles = append(roles, r)
	}

	return map[string]interface{}{
		"content": fctx.Content,
		"event":   fctx.Event.String(),
		"author": map[string]interface{}{
			"id":    fctx.Author.ID,
			"name":  fctx.Author.Name,
			"bot":   fctx.Author.Bot,
			"roles": roles,
		},
		"channel": map[string]interface{}{
			"id":       fctx.Channel.ID,
			"name":     fctx.Channel.Name,
			"guild_id": fctx.Channel.GuildID,
			"category": fctx.Channel.Category,
			"in_guild": fctx.Channel.InGuild(),
		},
	}
}

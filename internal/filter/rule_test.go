package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func alwaysMatch(fctx *Context) bool { return true }

func TestFilterListResult_DefaultsGateRulesWithoutOverrides(t *testing.T) {
	rule := &Rule{ID: 1, matches: alwaysMatch}
	fctx := dmContext(EventMessage, "x")

	// Defaults pass in a guild but fail in a DM.
	defaults := NewValidations(&FilterDMValidation{ApplyInDM: false})

	assert.Empty(t, filterListResult(fctx, []*Rule{rule}, defaults))
	assert.Len(t, filterListResult(guildContext(EventMessage, "x"), []*Rule{rule}, defaults), 1)
}

func TestFilterListResult_OverrideRescuesFailingDefault(t *testing.T) {
	rule := &Rule{
		ID:          1,
		matches:     alwaysMatch,
		Validations: NewValidations(&FilterDMValidation{ApplyInDM: true}),
	}
	fctx := dmContext(EventMessage, "x")
	defaults := NewValidations(&FilterDMValidation{ApplyInDM: false})

	assert.Len(t, filterListResult(fctx, []*Rule{rule}, defaults), 1)
}

func TestFilterListResult_FailingOverrideBlocksRule(t *testing.T) {
	rule := &Rule{
		ID:          1,
		matches:     alwaysMatch,
		Validations: NewValidations(&EnabledValidation{Enabled: false}),
	}
	fctx := guildContext(EventMessage, "x")

	assert.Empty(t, filterListResult(fctx, []*Rule{rule}, nil))
}

func TestFilterListResult_UncoveredDefaultFailureBlocksRule(t *testing.T) {
	// The rule overrides "enabled" but not the failing "filter_dm" default.
	rule := &Rule{
		ID:          1,
		matches:     alwaysMatch,
		Validations: NewValidations(&EnabledValidation{Enabled: true}),
	}
	fctx := dmContext(EventMessage, "x")
	defaults := NewValidations(&FilterDMValidation{ApplyInDM: false})

	assert.Empty(t, filterListResult(fctx, []*Rule{rule}, defaults))
}

func TestFilterListResult_NonMatchingRuleNeverTriggers(t *testing.T) {
	rule := &Rule{ID: 1, matches: func(fctx *Context) bool { return false }}
	fctx := guildContext(EventMessage, "x")

	assert.Empty(t, filterListResult(fctx, []*Rule{rule}, nil))
}

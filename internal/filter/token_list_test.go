package filter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modguard/internal/logger"
)

func newTestTokenList(t *testing.T, cfg ListConfig) List {
	t.Helper()
	list := NewTokenList(NewSettingsParser(logger.NopLogger()), logger.NopLogger())
	require.NoError(t, list.AddGroup(cfg))
	return list
}

func tokenListConfig(t *testing.T, defaults string, rules ...RuleConfig) ListConfig {
	t.Helper()
	return ListConfig{
		ID:       1,
		Name:     TokenListName,
		ListType: int(DenyList),
		Settings: rawSettings(t, defaults),
		Rules:    rules,
	}
}

func TestTokenList_MatchesCaseInsensitively(t *testing.T) {
	list := newTestTokenList(t, tokenListConfig(t, `{"enabled": true}`,
		RuleConfig{ID: 1, Content: `badword`},
	))

	fctx := guildContext(EventMessage, "well BADWORD indeed")
	rules := list.TriggersFor(fctx)

	require.Len(t, rules, 1)
	assert.Equal(t, int64(1), rules[0].ID)
	assert.Equal(t, []string{"BADWORD"}, fctx.Matches)
}

func TestTokenList_CleanMessageTriggersNothing(t *testing.T) {
	list := newTestTokenList(t, tokenListConfig(t, `{"enabled": true}`,
		RuleConfig{ID: 1, Content: `badword`},
	))

	fctx := guildContext(EventMessage, "perfectly fine")
	assert.Empty(t, list.TriggersFor(fctx))
	assert.Empty(t, fctx.Matches)
}

func TestTokenList_SearchesInsideSpoilers(t *testing.T) {
	list := newTestTokenList(t, tokenListConfig(t, `{"enabled": true}`,
		RuleConfig{ID: 1, Content: `badword`},
	))

	fctx := guildContext(EventMessage, "nothing to see ||badword|| here")
	rules := list.TriggersFor(fctx)

	require.Len(t, rules, 1)
	assert.Equal(t, []string{"badword"}, fctx.Matches)
}

func TestTokenList_StripsCombiningMarks(t *testing.T) {
	list := newTestTokenList(t, tokenListConfig(t, `{"enabled": true}`,
		RuleConfig{ID: 1, Content: `badword`},
	))

	fctx := guildContext(EventMessage, "b̷a̷d̷w̷o̷r̷d̷")
	rules := list.TriggersFor(fctx)

	require.Len(t, rules, 1)
	assert.Equal(t, []string{"badword"}, fctx.Matches)
}

func TestTokenList_DisabledDefaultsSuppressRules(t *testing.T) {
	list := newTestTokenList(t, tokenListConfig(t, `{"enabled": false}`,
		RuleConfig{ID: 1, Content: `badword`},
		RuleConfig{ID: 2, Content: `badword`, Settings: rawSettings(t, `{"enabled": true}`)},
	))

	fctx := guildContext(EventMessage, "badword")
	rules := list.TriggersFor(fctx)

	// Only the rule overriding the disabled default survives.
	require.Len(t, rules, 1)
	assert.Equal(t, int64(2), rules[0].ID)
}

func TestTokenList_RuleActionsFallBackToDefaults(t *testing.T) {
	list := newTestTokenList(t, tokenListConfig(t,
		`{"enabled": true, "delete_messages": true, "infraction_and_notification": {"infraction_type": "warning", "infraction_reason": "default"}}`,
		RuleConfig{ID: 1, Content: `badword`, Settings: rawSettings(t, `{"infraction_and_notification": {"infraction_type": "mute", "infraction_reason": "specific"}}`)},
	))

	fctx := guildContext(EventMessage, "badword")
	rules := list.TriggersFor(fctx)
	require.Len(t, rules, 1)

	entry, ok := rules[0].Actions.Get(KindInfraction)
	require.True(t, ok)
	assert.Equal(t, InfractionMute, entry.(*InfractionAction).Type)

	entry, ok = rules[0].Actions.Get(KindDeleteMessages)
	require.True(t, ok)
	assert.True(t, entry.(*DeleteAction).Delete)
}

func TestTokenList_InvalidRegexIsSkipped(t *testing.T) {
	list := newTestTokenList(t, tokenListConfig(t, `{"enabled": true}`,
		RuleConfig{ID: 1, Content: `([unclosed`},
		RuleConfig{ID: 2, Content: `badword`},
	))

	assert.Equal(t, 1, list.RuleCount())
}

func TestTokenList_MalformedRuleSettingsAreSkipped(t *testing.T) {
	broken := map[string]json.RawMessage{"delete_messages": json.RawMessage(`"yes"`)}
	list := newTestTokenList(t, ListConfig{
		Name:     TokenListName,
		ListType: int(DenyList),
		Settings: rawSettings(t, `{"enabled": true}`),
		Rules: []RuleConfig{
			{ID: 1, Content: `badword`, Settings: broken},
			{ID: 2, Content: `badword`},
		},
	})

	assert.Equal(t, 1, list.RuleCount())
}

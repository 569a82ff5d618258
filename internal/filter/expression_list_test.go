package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modguard/internal/logger"
)

func newTestExpressionList(t *testing.T, rules ...RuleConfig) List {
	t.Helper()
	list, err := NewExpressionList(NewSettingsParser(logger.NopLogger()), logger.NopLogger())
	require.NoError(t, err)
	require.NoError(t, list.AddGroup(ListConfig{
		Name:     ExpressionListName,
		ListType: int(DenyList),
		Settings: rawSettings(t, `{"enabled": true}`),
		Rules:    rules,
	}))
	return list
}

func TestExpressionList_MatchesOnContent(t *testing.T) {
	list := newTestExpressionList(t,
		RuleConfig{ID: 1, Content: `content.contains("free nitro")`},
	)

	fctx := guildContext(EventMessage, "click here for free nitro")
	require.Len(t, list.TriggersFor(fctx), 1)

	fctx = guildContext(EventMessage, "nothing suspicious")
	assert.Empty(t, list.TriggersFor(fctx))
}

func TestExpressionList_SeesEventAndChannelMetadata(t *testing.T) {
	list := newTestExpressionList(t,
		RuleConfig{ID: 1, Content: `event == "message_edit" && channel.in_guild`},
	)

	assert.Len(t, list.TriggersFor(guildContext(EventMessageEdit, "x")), 1)
	assert.Empty(t, list.TriggersFor(guildContext(EventMessage, "x")))
	assert.Empty(t, list.TriggersFor(dmContext(EventMessageEdit, "x")))
}

func TestExpressionList_SeesAuthorRoles(t *testing.T) {
	list := newTestExpressionList(t,
		RuleConfig{ID: 1, Content: `!("staff" in author.roles)`},
	)

	fctx := guildContext(EventMessage, "x")
	assert.Len(t, list.TriggersFor(fctx), 1)

	fctx.Author.Roles = []string{"staff"}
	assert.Empty(t, list.TriggersFor(fctx))
}

func TestExpressionList_NonBoolExpressionIsSkipped(t *testing.T) {
	list := newTestExpressionList(t,
		RuleConfig{ID: 1, Content: `content + "x"`},
		RuleConfig{ID: 2, Content: `content == "y"`},
	)

	assert.Equal(t, 1, list.RuleCount())
}

func TestExpressionList_UnparsableExpressionIsSkipped(t *testing.T) {
	list := newTestExpressionList(t,
		RuleConfig{ID: 1, Content: `content ===`},
		RuleConfig{ID: 2, Content: `content == "y"`},
	)

	assert.Equal(t, 1, list.RuleCount())
}

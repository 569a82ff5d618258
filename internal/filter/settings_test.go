package filter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modguard/internal/logger"
)

func rawSettings(t *testing.T, blob string) map[string]json.RawMessage {
	t.Helper()
	var data map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(blob), &data))
	return data
}

func TestSettingsParser_FullBlob(t *testing.T) {
	parser := NewSettingsParser(logger.NopLogger())

	actions, validations, err := parser.Parse(rawSettings(t, `{
		"infraction_and_notification": {
			"infraction_type": "mute",
			"infraction_reason": "watch it",
			"infraction_duration_seconds": 600,
			"dm_content": "calm down",
			"superstar": {"reason": "bad nick", "duration_seconds": 3600}
		},
		"mentions": {"ping_type": ["here"], "dm_ping_type": ["moderators"]},
		"delete_messages": true,
		"enabled": true,
		"filter_dm": false,
		"bypass_roles": ["staff"],
		"channel_scope": {"disabled_channels": ["c1"], "disabled_categories": [], "enabled_channels": []}
	}`))
	require.NoError(t, err)

	require.NotNil(t, actions)
	assert.Equal(t, 3, actions.Len())

	entry, ok := actions.Get(KindInfraction)
	require.True(t, ok)
	infraction := entry.(*InfractionAction)
	assert.Equal(t, InfractionMute, infraction.Type)
	assert.Equal(t, "watch it", infraction.Reason)
	require.NotNil(t, infraction.Duration)
	assert.Equal(t, 10*time.Minute, *infraction.Duration)
	require.NotNil(t, infraction.Superstar)
	assert.Equal(t, "bad nick", infraction.Superstar.Reason)

	require.NotNil(t, validations)
	assert.Equal(t, 4, validations.Len())
}

func TestSettingsParser_PermanentInfractionHasNilDuration(t *testing.T) {
	parser := NewSettingsParser(logger.NopLogger())

	actions, _, err := parser.Parse(rawSettings(t, `{
		"infraction_and_notification": {"infraction_type": "ban", "infraction_reason": "raid"}
	}`))
	require.NoError(t, err)

	entry, ok := actions.Get(KindInfraction)
	require.True(t, ok)
	assert.Nil(t, entry.(*InfractionAction).Duration)
}

func TestSettingsParser_EffectlessEntriesAreDropped(t *testing.T) {
	parser := NewSettingsParser(logger.NopLogger())

	actions, validations, err := parser.Parse(rawSettings(t, `{
		"infraction_and_notification": {"infraction_type": ""},
		"mentions": {"ping_type": [], "dm_ping_type": []},
		"delete_messages": false
	}`))
	require.NoError(t, err)
	assert.Nil(t, actions)
	assert.Nil(t, validations)
}

func TestSettingsParser_UnknownNamesAreSkipped(t *testing.T) {
	parser := NewSettingsParser(logger.NopLogger())

	actions, validations, err := parser.Parse(rawSettings(t, `{
		"brand_new_setting": {"foo": 1},
		"enabled": true
	}`))
	require.NoError(t, err)
	assert.Nil(t, actions)
	require.NotNil(t, validations)
	assert.Equal(t, 1, validations.Len())
}

func TestSettingsParser_UnknownInfractionTypeIsAnError(t *testing.T) {
	parser := NewSettingsParser(logger.NopLogger())

	_, _, err := parser.Parse(rawSettings(t, `{
		"infraction_and_notification": {"infraction_type": "timeout"}
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestSettingsParser_MalformedSettingIsAnError(t *testing.T) {
	parser := NewSettingsParser(logger.NopLogger())

	_, _, err := parser.Parse(rawSettings(t, `{"delete_messages": "yes"}`))
	require.Error(t, err)
}

package filter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modguard/internal/platform"
)

func mergeInfractions(t *testing.T, a, b *InfractionAction) *InfractionAction {
	t.Helper()
	merged, err := a.Merge(b)
	require.NoError(t, err)
	return merged.(*InfractionAction)
}

func TestInfractionMerge_NoInfractionIsIdentity(t *testing.T) {
	mute := &InfractionAction{Type: InfractionMute, Reason: "profanity"}
	identity := &InfractionAction{Type: NoInfraction}

	assert.Same(t, mute, mergeInfractions(t, identity, mute))
	assert.Same(t, mute, mergeInfractions(t, mute, identity))
}

func TestInfractionMerge_MoreSevereTypeWins(t *testing.T) {
	mute := &InfractionAction{Type: InfractionMute, Reason: "spam", Duration: durPtr(time.Hour)}
	warning := &InfractionAction{Type: InfractionWarning, Reason: "language", Duration: durPtr(48 * time.Hour)}

	merged := mergeInfractions(t, mute, warning)
	assert.Equal(t, InfractionMute, merged.Type)
	// The winner's duration rides along even when the loser's is longer.
	require.NotNil(t, merged.Duration)
	assert.Equal(t, time.Hour, *merged.Duration)
	assert.Equal(t, "• spam\n\n• language", merged.Reason)
}

func TestInfractionMerge_IsCommutativeOnType(t *testing.T) {
	mute := &InfractionAction{Type: InfractionMute}
	warning := &InfractionAction{Type: InfractionWarning}

	ab := mergeInfractions(t, mute, warning)
	ba := mergeInfractions(t, warning, mute)
	assert.Equal(t, ab.Type, ba.Type)
	assert.Equal(t, ab.Duration, ba.Duration)
}

func TestInfractionMerge_SameTypeMergesFields(t *testing.T) {
	a := &InfractionAction{Type: InfractionMute, Reason: "spam", Duration: durPtr(time.Hour), DMContent: "stop it"}
	b := &InfractionAction{Type: InfractionMute, Reason: "flooding", Duration: nil, DMContent: "stop it"}

	merged := mergeInfractions(t, a, b)
	assert.Equal(t, InfractionMute, merged.Type)
	assert.Nil(t, merged.Duration)
	assert.Equal(t, "• spam\n\n• flooding", merged.Reason)
	assert.Equal(t, "stop it", merged.DMContent)
}

func TestInfractionMerge_SuperstarFoldsIntoOtherSide(t *testing.T) {
	star := &InfractionAction{Type: InfractionSuperstar, Reason: "bad nick", Duration: durPtr(24 * time.Hour)}
	mute := &InfractionAction{Type: InfractionMute, Reason: "spam", Duration: durPtr(time.Hour)}

	merged := mergeInfractions(t, star, mute)
	assert.Equal(t, InfractionMute, merged.Type)
	assert.Equal(t, "spam", merged.Reason)
	require.NotNil(t, merged.Superstar)
	assert.Equal(t, "bad nick", merged.Superstar.Reason)
	require.NotNil(t, merged.Superstar.Duration)
	assert.Equal(t, 24*time.Hour, *merged.Superstar.Duration)
}

func TestInfractionMerge_SuperstarFoldKeepsEmbeddedSuperstars(t *testing.T) {
	star := &InfractionAction{Type: InfractionSuperstar, Reason: "bad nick", Duration: durPtr(time.Hour)}
	mute := &InfractionAction{
		Type:      InfractionMute,
		Superstar: &SuperstarParams{Reason: "old nick", Duration: nil},
	}

	merged := mergeInfractions(t, mute, star)
	assert.Equal(t, InfractionMute, merged.Type)
	require.NotNil(t, merged.Superstar)
	assert.Contains(t, merged.Superstar.Reason, "bad nick")
	assert.Contains(t, merged.Superstar.Reason, "old nick")
	// A permanent embedded superstar keeps the merged one permanent.
	assert.Nil(t, merged.Superstar.Duration)
}

func TestInfractionMerge_IsAssociative(t *testing.T) {
	a := &InfractionAction{Type: InfractionWarning, Reason: "one"}
	b := &InfractionAction{Type: InfractionMute, Reason: "two", Duration: durPtr(time.Hour)}
	c := &InfractionAction{Type: InfractionSuperstar, Reason: "three"}

	left := mergeInfractions(t, mergeInfractions(t, a, b), c)
	right := mergeInfractions(t, a, mergeInfractions(t, b, c))

	assert.Equal(t, left.Type, right.Type)
	assert.Equal(t, left.Duration, right.Duration)
	require.NotNil(t, left.Superstar)
	require.NotNil(t, right.Superstar)
	assert.Equal(t, left.Superstar.Reason, right.Superstar.Reason)
}

func TestInfractionMerge_RejectsOtherKinds(t *testing.T) {
	a := &InfractionAction{Type: InfractionMute}
	_, err := a.Merge(&DeleteAction{Delete: true})
	require.Error(t, err)
}

func TestInfractionApply_NotifiesThenInfracts(t *testing.T) {
	gw := &fakeGateway{}
	env := newTestEnv(gw)
	fctx := guildContext(EventMessage, "bad words")

	action := &InfractionAction{
		Type:      InfractionMute,
		Reason:    "profanity",
		Duration:  durPtr(time.Hour),
		DMContent: "mind your language",
	}
	action.Apply(context.Background(), fctx, env)

	require.Len(t, gw.dms, 1)
	assert.Equal(t, "42", gw.dms[0].Target)
	assert.Equal(t, "Hey <@42>!\nmind your language", gw.dms[0].Content)

	require.Len(t, gw.infractions, 1)
	assert.Equal(t, "mute", gw.infractions[0].Kind)
	assert.Equal(t, "chan-1", gw.infractions[0].ChannelID)
	require.NotNil(t, gw.infractions[0].ExpiresAt)

	assert.Equal(t, []string{"notified", "mute"}, fctx.ActionDescriptions)
}

func TestInfractionApply_BanGoesToModChannel(t *testing.T) {
	gw := &fakeGateway{}
	env := newTestEnv(gw)
	fctx := guildContext(EventMessage, "raid")

	action := &InfractionAction{Type: InfractionBan, Reason: "raiding"}
	action.Apply(context.Background(), fctx, env)

	require.Len(t, gw.infractions, 1)
	assert.Equal(t, "mod-channel", gw.infractions[0].ChannelID)
	assert.Nil(t, gw.infractions[0].ExpiresAt)
}

func TestInfractionApply_DMEventGoesToModChannel(t *testing.T) {
	gw := &fakeGateway{}
	env := newTestEnv(gw)
	fctx := dmContext(EventMessage, "spam")

	action := &InfractionAction{Type: InfractionWarning, Reason: "spam"}
	action.Apply(context.Background(), fctx, env)

	require.Len(t, gw.infractions, 1)
	assert.Equal(t, "mod-channel", gw.infractions[0].ChannelID)
}

func TestInfractionApply_ForbiddenDMFallsBackToChannel(t *testing.T) {
	gw := &fakeGateway{dmErr: platform.ErrForbidden}
	env := newTestEnv(gw)
	fctx := guildContext(EventMessage, "bad words")

	action := &InfractionAction{DMContent: "please stop", Type: NoInfraction}
	action.Apply(context.Background(), fctx, env)

	assert.Empty(t, gw.dms)
	require.Len(t, gw.channelMsgs, 1)
	assert.Equal(t, "chan-1", gw.channelMsgs[0].Target)
	assert.Equal(t, "please stop", gw.channelMsgs[0].Content)
	assert.Equal(t, []string{"notified"}, fctx.ActionDescriptions)
}

func TestInfractionApply_SuperstarRenames(t *testing.T) {
	gw := &fakeGateway{}
	env := newTestEnv(gw)
	fctx := guildContext(EventMessage, "nick")

	action := &InfractionAction{
		Type:      InfractionWatch,
		Superstar: &SuperstarParams{Reason: "offensive nickname", Duration: durPtr(time.Hour)},
	}
	action.Apply(context.Background(), fctx, env)

	require.Len(t, gw.renames, 1)
	assert.Equal(t, "42", gw.renames[0].ActorID)
	assert.Equal(t, "offensive nickname", gw.renames[0].Reason)
	require.NotNil(t, gw.renames[0].ExpiresAt)
	assert.Equal(t, []string{"superstarred", "watch"}, fctx.ActionDescriptions)
}

func TestInfractionApply_MergesContextDMFields(t *testing.T) {
	gw := &fakeGateway{}
	env := newTestEnv(gw)
	fctx := guildContext(EventMessage, "x")
	fctx.DMContent = "earlier notice"

	action := &InfractionAction{Type: NoInfraction, DMContent: "new notice"}
	action.Apply(context.Background(), fctx, env)

	assert.Equal(t, "• earlier notice\n\n• new notice", fctx.DMContent)
	require.Len(t, gw.dms, 1)
	assert.Contains(t, gw.dms[0].Content, "earlier notice")
	assert.Contains(t, gw.dms[0].Content, "new notice")
}

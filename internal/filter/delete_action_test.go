package filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modguard/internal/platform"
)

func TestDeleteActionMerge_IsBooleanOr(t *testing.T) {
	merged, err := (&DeleteAction{Delete: false}).Merge(&DeleteAction{Delete: true})
	require.NoError(t, err)
	assert.True(t, merged.(*DeleteAction).Delete)

	merged, err = (&DeleteAction{Delete: false}).Merge(&DeleteAction{Delete: false})
	require.NoError(t, err)
	assert.False(t, merged.(*DeleteAction).Delete)
}

func TestDeleteActionApply_DeletesGuildMessage(t *testing.T) {
	gw := &fakeGateway{}
	env := newTestEnv(gw)
	fctx := guildContext(EventMessage, "spam")

	(&DeleteAction{Delete: true}).Apply(context.Background(), fctx, env)

	require.Len(t, gw.deletions, 1)
	assert.Equal(t, "chan-1", gw.deletions[0].ChannelID)
	assert.Equal(t, "msg-1", gw.deletions[0].MessageID)
	assert.Equal(t, []string{"deleted"}, fctx.ActionDescriptions)
}

func TestDeleteActionApply_SkipsDMs(t *testing.T) {
	gw := &fakeGateway{}
	env := newTestEnv(gw)
	fctx := dmContext(EventMessage, "spam")

	(&DeleteAction{Delete: true}).Apply(context.Background(), fctx, env)

	assert.Empty(t, gw.deletions)
	assert.Empty(t, fctx.ActionDescriptions)
}

func TestDeleteActionApply_AlreadyDeletedStillCounts(t *testing.T) {
	gw := &fakeGateway{deleteErr: platform.ErrNotFound}
	env := newTestEnv(gw)
	fctx := guildContext(EventMessageEdit, "spam")

	(&DeleteAction{Delete: true}).Apply(context.Background(), fctx, env)

	assert.Equal(t, []string{"deleted"}, fctx.ActionDescriptions)
}

func TestDeleteActionApply_FalseIsANoOp(t *testing.T) {
	gw := &fakeGateway{}
	env := newTestEnv(gw)
	fctx := guildContext(EventMessage, "spam")

	(&DeleteAction{Delete: false}).Apply(context.Background(), fctx, env)

	assert.Empty(t, gw.deletions)
}

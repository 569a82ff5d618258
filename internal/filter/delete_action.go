package filter

import (
	"context"
	"errors"
	"fmt"

	"modguard/internal/platform"
)

// KindDeleteMessages is the action kind removing the offending message.
const KindDeleteMessages = "delete_messages"

// DeleteAction deletes the originating message. Merging is a boolean OR:
// if any triggered rule wants the message gone, it goes.
type DeleteAction struct {
	Delete bool
}

func (a *DeleteAction) Kind() string {
	return KindDeleteMessages
}

func (a *DeleteAction) Merge(other ActionEntry) (ActionEntry, error) {
	b, ok := other.(*DeleteAction)
	if !ok {
		return nil, fmt.Errorf("cannot merge %q with %q", a.Kind(), other.Kind())
	}
	return &DeleteAction{Delete: a.Delete || b.Delete}, nil
}

func (a *DeleteAction) Apply(ctx context.Context, fctx *Context, env *Env) {
	if !a.Delete || (fctx.Event != EventMessage && fctx.Event != EventMessageEdit) {
		return
	}
	// Messages can only be deleted in guild channels.
	if fctx.Message == nil || !fctx.Channel.InGuild() {
		return
	}

	err := env.Gateway.DeleteMessage(ctx, fctx.Message.ChannelID, fctx.Message.ID)
	if err != nil && !errors.Is(err, platform.ErrNotFound) {
		env.Logger.ErrorwCtx(ctx, "Failed to delete message",
			"error", err,
			"message_id", fctx.Message.ID,
		)
		return
	}
	describe(fctx, "deleted")
}

// Package platform defines the boundary to the chat platform: the event
// shapes the gateway publishes, and the Gateway interface through which the
// filtering core requests moderation side effects. The core decides what to
// request; delivery is the gateway's problem.
package platform

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrForbidden is returned when the recipient blocks direct messages.
	ErrForbidden = errors.New("platform: recipient forbids direct messages")

	// ErrNotFound is returned when the target no longer exists, e.g. an
	// already-deleted message.
	ErrNotFound = errors.New("platform: target not found")
)

// Actor is whoever produced the triggering event.
type Actor struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Bot   bool     `json:"bot"`
	Roles []string `json:"roles,omitempty"`
}

// Mention renders the platform mention tag for the actor.
func (a Actor) Mention() string {
	return "<@" + a.ID + ">"
}

// Channel is where the event happened. GuildID is empty for DM channels.
type Channel struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	GuildID  string `json:"guild_id,omitempty"`
	Category string `json:"category,omitempty"`
}

func (c Channel) InGuild() bool {
	return c.GuildID != ""
}

// MessageRef points back at the originating message.
type MessageRef struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	URL       string `json:"url,omitempty"`
}

// Embed is an opaque rich-content block attached to messages and alerts.
type Embed struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

func (e Embed) Empty() bool {
	return e.Title == "" && e.Description == "" && e.URL == ""
}

// MessageEvent is the envelope the gateway publishes for each inbound
// message or message edit.
type MessageEvent struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"` // "message" or "message_edit"
	Author    Actor      `json:"author"`
	Channel   Channel    `json:"channel"`
	Message   MessageRef `json:"message"`
	Content   string     `json:"content"`
	Embeds    []Embed    `json:"embeds,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// InfractionRequest asks the gateway to issue an infraction against an actor.
// A nil ExpiresAt means the infraction is permanent. ChannelID is the channel
// the request is issued from; bans and DM-originated infractions are
// redirected to the moderation channel by the caller.
type InfractionRequest struct {
	ActorID   string     `json:"actor_id"`
	Kind      string     `json:"kind"`
	Reason    string     `json:"reason,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	ChannelID string     `json:"channel_id"`
}

// Alert is the structured moderator alert emitted once per dispatch.
type Alert struct {
	Title   string  `json:"title"`
	Content string  `json:"content,omitempty"`
	Body    string  `json:"body"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

// Gateway is the platform-action collaborator. All operations are
// synchronous requests against the bot gateway's REST API.
type Gateway interface {
	SendDirectMessage(ctx context.Context, actorID, content string, embed Embed) error
	SendToChannel(ctx context.Context, channelID, content string, embed Embed) error
	IssueInfraction(ctx context.Context, req InfractionRequest) error
	ForceRename(ctx context.Context, actorID string, expiresAt *time.Time, reason string) error
	DeleteMessage(ctx context.Context, channelID, messageID string) error
	SendAlert(ctx context.Context, channelID string, alert Alert) error
}

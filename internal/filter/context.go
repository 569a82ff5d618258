// Package filter implements the action-aggregation and event-dispatch core
// of the moderation bot: a shared filtering context, a merge algebra over
// moderation actions, and the dispatch loop that fans events out to filter
// lists and reduces their verdicts into a single applied action.
package filter

import (
	"modguard/internal/platform"
)

// Event is the kind of chat event being filtered.
type Event int

const (
	EventMessage Event = iota
	EventMessageEdit
)

func (e Event) String() string {
	switch e {
	case EventMessage:
		return "message"
	case EventMessageEdit:
		return "message_edit"
	default:
		return "unknown"
	}
}

// Title renders the event name for alert headers ("Message Edit Filter").
func (e Event) Title() string {
	switch e {
	case EventMessage:
		return "Message"
	case EventMessageEdit:
		return "Message Edit"
	default:
		return "Unknown"
	}
}

// ParseEvent maps a wire event type to an Event.
func ParseEvent(s string) (Event, bool) {
	switch s {
	case "message":
		return EventMessage, true
	case "message_edit":
		return EventMessageEdit, true
	default:
		return 0, false
	}
}

// Context is the mutable record owned by a single dispatch. Input fields are
// set once at construction. Output fields follow a phase ownership rule:
// the matching phase may only append to Matches; the apply phase owns
// DMContent, DMEmbed, SendAlert, AlertContent, AlertEmbeds and
// ActionDescriptions. No two concurrent dispatches share a Context.
type Context struct {
	// Input
	Event   Event
	Author  platform.Actor
	Channel platform.Channel
	Content string
	Message *platform.MessageRef
	Embeds  []platform.Embed

	// Output
	DMContent          string
	DMEmbed            string
	SendAlert          bool
	AlertContent       string
	AlertEmbeds        []platform.Embed
	ActionDescriptions []string
	Matches            []string
}

// NewContext builds a context for one event. Alerting defaults to on; an
// action entry may switch it off during the apply phase.
func NewContext(event Event, author platform.Actor, channel platform.Channel, content string, msg *platform.MessageRef, embeds []platform.Embed) *Context {
	return &Context{
		Event:     event,
		Author:    author,
		Channel:   channel,
		Content:   content,
		Message:   msg,
		Embeds:    embeds,
		SendAlert: true,
	}
}

// WithContent returns a copy of the context with the content replaced.
// Used for sub-evaluations (e.g. matching against cleaned text) so the
// original input is never mutated. Output accumulators still belong to the
// original context: matches found against the copy must be recorded via
// AppendMatch on the original.
func (c *Context) WithContent(content string) *Context {
	clone := *c
	clone.Content = content
	return &clone
}

// AppendMatch records a raw match found by a rule.
func (c *Context) AppendMatch(match string) {
	c.Matches = append(c.Matches, match)
}

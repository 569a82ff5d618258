package filter

import (
	"context"
	"sync"
	"time"

	"modguard/internal/logger"
	"modguard/internal/platform"
)

// fakeGateway records every platform call so tests can assert on the exact
// side effects a dispatch produced.
type fakeGateway struct {
	mu sync.Mutex

	dms         []fakeMessage
	channelMsgs []fakeMessage
	infractions []platform.InfractionRequest
	renames     []fakeRename
	deletions   []fakeDeletion
	alerts      []fakeAlert

	dmErr     error
	deleteErr error
	alertErr  error
}

type fakeMessage struct {
	Target  string
	Content string
	Embed   platform.Embed
}

type fakeRename struct {
	ActorID   string
	ExpiresAt *time.Time
	Reason    string
}

type fakeDeletion struct {
	ChannelID string
	MessageID string
}

type fakeAlert struct {
	ChannelID string
	Alert     platform.Alert
}

func (g *fakeGateway) SendDirectMessage(ctx context.Context, actorID, content string, embed platform.Embed) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.dmErr != nil {
		return g.dmErr
	}
	g.dms = append(g.dms, fakeMessage{Target: actorID, Content: content, Embed: embed})
	return nil
}

func (g *fakeGateway) SendToChannel(ctx context.Context, channelID, content string, embed platform.Embed) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.channelMsgs = append(g.channelMsgs, fakeMessage{Target: channelID, Content: content, Embed: embed})
	return nil
}

func (g *fakeGateway) IssueInfraction(ctx context.Context, req platform.InfractionRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.infractions = append(g.infractions, req)
	return nil
}

func (g *fakeGateway) ForceRename(ctx context.Context, actorID string, expiresAt *time.Time, reason string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.renames = append(g.renames, fakeRename{ActorID: actorID, ExpiresAt: expiresAt, Reason: reason})
	return nil
}

func (g *fakeGateway) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.deleteErr != nil {
		return g.deleteErr
	}
	g.deletions = append(g.deletions, fakeDeletion{ChannelID: channelID, MessageID: messageID})
	return nil
}

func (g *fakeGateway) SendAlert(ctx context.Context, channelID string, alert platform.Alert) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.alertErr != nil {
		return g.alertErr
	}
	g.alerts = append(g.alerts, fakeAlert{ChannelID: channelID, Alert: alert})
	return nil
}

func newTestEnv(gw *fakeGateway) *Env {
	return &Env{
		Gateway:      gw,
		Logger:       logger.NopLogger(),
		ModChannelID: "mod-channel",
		PingRoles:    map[string]string{"moderators": "111"},
	}
}

func guildContext(event Event, content string) *Context {
	return NewContext(event,
		platform.Actor{ID: "42", Name: "someone"},
		platform.Channel{ID: "chan-1", Name: "general", GuildID: "guild-1"},
		content,
		&platform.MessageRef{ID: "msg-1", ChannelID: "chan-1", URL: "https://chat.example/msg-1"},
		nil,
	)
}

func dmContext(event Event, content string) *Context {
	return NewContext(event,
		platform.Actor{ID: "42", Name: "someone"},
		platform.Channel{ID: "dm-1", Name: "dm"},
		content,
		nil,
		nil,
	)
}

func durPtr(d time.Duration) *time.Duration {
	return &d
}

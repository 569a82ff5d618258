package filter

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// KindMentions is the action kind that prepends moderator pings to the alert.
const KindMentions = "mentions"

// PingAction adds mentions to the alert content. Which set is used depends
// on whether the event happened in a guild channel or a DM.
type PingAction struct {
	GuildMentions map[string]struct{}
	DMMentions    map[string]struct{}
}

func NewPingAction(guildMentions, dmMentions []string) *PingAction {
	a := &PingAction{
		GuildMentions: make(map[string]struct{}, len(guildMentions)),
		DMMentions:    make(map[string]struct{}, len(dmMentions)),
	}
	for _, m := range guildMentions {
		a.GuildMentions[m] = struct{}{}
	}
	for _, m := range dmMentions {
		a.DMMentions[m] = struct{}{}
	}
	return a
}

func (a *PingAction) Kind() string {
	return KindMentions
}

func (a *PingAction) Empty() bool {
	return len(a.GuildMentions) == 0 && len(a.DMMentions) == 0
}

// Merge unions the mention sets of both entries.
func (a *PingAction) Merge(other ActionEntry) (ActionEntry, error) {
	b, ok := other.(*PingAction)
	if !ok {
		return nil, fmt.Errorf("cannot merge %q with %q", a.Kind(), other.Kind())
	}

	merged := &PingAction{
		GuildMentions: unionSet(a.GuildMentions, b.GuildMentions),
		DMMentions:    unionSet(a.DMMentions, b.DMMentions),
	}
	return merged, nil
}

func (a *PingAction) Apply(ctx context.Context, fctx *Context, env *Env) {
	mentions := a.DMMentions
	if fctx.Channel.InGuild() {
		mentions = a.GuildMentions
	}
	if len(mentions) == 0 {
		return
	}

	resolved := make([]string, 0, len(mentions))
	for mention := range mentions {
		resolved = append(resolved, resolveMention(mention, env.PingRoles))
	}
	sort.Strings(resolved)

	fctx.AlertContent = strings.TrimSpace(strings.Join(resolved, " ") + " " + fctx.AlertContent)
}

// resolveMention renders the platform formatting for a mention: literal
// @here/@everyone, a configured role alias, a raw role id, or the string as
// given.
func resolveMention(mention string, roles map[string]string) string {
	if mention == "here" || mention == "everyone" {
		return "@" + mention
	}
	if id, ok := roles[mention]; ok {
		return "<@&" + id + ">"
	}
	if isDigits(mention) {
		return "<@&" + mention + ">"
	}
	return mention
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func unionSet(a, b map[string]struct{}) map[string]struct{} {
	result := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		result[k] = struct{}{}
	}
	for k := range b {
		result[k] = struct{}{}
	}
	return result
}

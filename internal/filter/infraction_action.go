package filter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"modguard/internal/platform"
	"modguard/pkg/metrics"
)

// KindInfraction is the action kind issuing an infraction and/or notifying
// the actor. The two are grouped because a user who is banned or kicked can
// no longer be messaged, so the notification has to go out first.
const KindInfraction = "infraction_and_notification"

// SuperstarParams is a secondary force-rename action that can ride alongside
// any primary infraction. A nil Duration means permanent.
type SuperstarParams struct {
	Reason   string
	Duration *time.Duration
}

// InfractionAction is the infraction_and_notification ActionEntry.
// A nil Duration means the infraction is permanent.
type InfractionAction struct {
	Type      Infraction
	Reason    string
	Duration  *time.Duration
	DMContent string
	DMEmbed   string
	Superstar *SuperstarParams
}

func (a *InfractionAction) Kind() string {
	return KindInfraction
}

// Empty reports whether the entry carries no effect at all.
func (a *InfractionAction) Empty() bool {
	return a.Type == NoInfraction && a.DMContent == "" && a.DMEmbed == "" && a.Superstar == nil
}

// Merge combines two entries of this kind into one whose application has the
// same or a superset of effect as applying both.
//
// When exactly one side's primary infraction is a superstar, the result keeps
// the other side's primary infraction and the superstar is folded into the
// embedded secondary action. The superstar parameters are taken from the
// superstar-typed side's primary reason and duration (the stored rule data
// puts them there), merged with any embedded superstar either side carries.
func (a *InfractionAction) Merge(other ActionEntry) (ActionEntry, error) {
	b, ok := other.(*InfractionAction)
	if !ok {
		return nil, fmt.Errorf("cannot merge %q with %q", a.Kind(), other.Kind())
	}

	if a.Type == NoInfraction {
		return b, nil
	}
	if b.Type == NoInfraction {
		return a, nil
	}

	if a.Type != b.Type && (a.Type == InfractionSuperstar || b.Type == InfractionSuperstar) {
		star, rest := a, b
		if b.Type == InfractionSuperstar {
			star, rest = b, a
		}

		merged := *rest
		params := &SuperstarParams{Reason: star.Reason, Duration: star.Duration}
		merged.Superstar = mergeSuperstars(params, mergeSuperstars(a.Superstar, b.Superstar))
		return &merged, nil
	}

	merged := &InfractionAction{}
	if a.Type != b.Type {
		winner := a
		if b.Type.MoreSevere(a.Type) {
			winner = b
		}
		merged.Type = winner.Type
		merged.Duration = winner.Duration
	} else {
		merged.Type = a.Type
		merged.Duration = MergeDurations(a.Duration, b.Duration)
	}
	merged.Reason = MergeMessages(a.Reason, b.Reason)
	merged.DMContent = MergeMessages(a.DMContent, b.DMContent)
	merged.DMEmbed = MergeMessages(a.DMEmbed, b.DMEmbed)
	merged.Superstar = mergeSuperstars(a.Superstar, b.Superstar)
	return merged, nil
}

func mergeSuperstars(s1, s2 *SuperstarParams) *SuperstarParams {
	if s1 == nil {
		return s2
	}
	if s2 == nil {
		return s1
	}
	return &SuperstarParams{
		Reason:   MergeMessages(s1.Reason, s2.Reason),
		Duration: MergeDurations(s1.Duration, s2.Duration),
	}
}

// Apply notifies the actor, applies an embedded superstar if present, and
// issues the primary infraction. Each step is best-effort: a failure is
// logged and the remaining steps still run.
func (a *InfractionAction) Apply(ctx context.Context, fctx *Context, env *Env) {
	a.notify(ctx, fctx, env)

	if a.Superstar != nil {
		err := env.Gateway.ForceRename(ctx, fctx.Author.ID, expiry(a.Superstar.Duration), a.Superstar.Reason)
		if err != nil {
			env.Logger.ErrorwCtx(ctx, "Failed to superstar actor",
				"error", err,
				"actor_id", fctx.Author.ID,
			)
		}
		describe(fctx, "superstarred")
	}

	if a.Type != NoInfraction {
		channelID := fctx.Channel.ID
		// DMs cannot host infractions, and a banned user must not see the
		// issuing command; both cases go to the moderation channel.
		if a.Type == InfractionBan || !fctx.Channel.InGuild() {
			channelID = env.ModChannelID
		}

		err := env.Gateway.IssueInfraction(ctx, platform.InfractionRequest{
			ActorID:   fctx.Author.ID,
			Kind:      a.Type.String(),
			Reason:    a.Reason,
			ExpiresAt: expiry(a.Duration),
			ChannelID: channelID,
		})
		if err != nil {
			env.Logger.ErrorwCtx(ctx, "Failed to issue infraction",
				"error", err,
				"kind", a.Type.String(),
				"actor_id", fctx.Author.ID,
			)
		}
		describe(fctx, a.Type.String())
	}
}

func (a *InfractionAction) notify(ctx context.Context, fctx *Context, env *Env) {
	dmContent := MergeMessages(fctx.DMContent, a.DMContent)
	dmEmbed := MergeMessages(fctx.DMEmbed, a.DMEmbed)
	if dmContent == "" && dmEmbed == "" {
		return
	}
	fctx.DMContent = dmContent
	fctx.DMEmbed = dmEmbed

	greeting := fmt.Sprintf("Hey %s!\n%s", fctx.Author.Mention(), dmContent)
	embed := platform.Embed{Description: dmEmbed}

	err := env.Gateway.SendDirectMessage(ctx, fctx.Author.ID, greeting, embed)
	if errors.Is(err, platform.ErrForbidden) {
		// The actor blocks DMs; deliver the same content in the open.
		err = env.Gateway.SendToChannel(ctx, fctx.Channel.ID, dmContent, embed)
	}
	if err != nil {
		env.Logger.ErrorwCtx(ctx, "Failed to notify actor",
			"error", err,
			"actor_id", fctx.Author.ID,
		)
	}
	describe(fctx, "notified")
}

func describe(fctx *Context, action string) {
	fctx.ActionDescriptions = append(fctx.ActionDescriptions, action)
	metrics.FilterActionsTotal.WithLabelValues(action).Inc()
}

func expiry(d *time.Duration) *time.Time {
	if d == nil {
		return nil
	}
	t := time.Now().UTC().Add(*d)
	return &t
}

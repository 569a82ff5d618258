package filter

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"modguard/internal/constants"
	"modguard/internal/logger"
	"modguard/internal/platform"
	"modguard/pkg/metrics"
)

// TriggeredList pairs a filter list with the rules of it that triggered on a
// dispatch.
type TriggeredList struct {
	List  List
	Rules []*Rule
}

// AlertSender composes and delivers the single moderator alert a dispatch
// produces. Delivery is rate limited so a message flood cannot bury the
// alert channel.
type AlertSender struct {
	gateway   platform.Gateway
	channelID string
	limiter   *rate.Limiter
	log       logger.Logger
}

func NewAlertSender(gateway platform.Gateway, channelID string, perSec float64, burst int, log logger.Logger) *AlertSender {
	return &AlertSender{
		gateway:   gateway,
		channelID: channelID,
		limiter:   rate.NewLimiter(rate.Limit(perSec), burst),
		log:       log,
	}
}

// Send delivers the alert for a finished dispatch.
func (s *AlertSender) Send(ctx context.Context, fctx *Context, triggered []TriggeredList) error {
	if s.channelID == "" {
		return fmt.Errorf("no alert channel configured")
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("alert rate limiter: %w", err)
	}

	alert := platform.Alert{
		Title:   fctx.Event.Title() + " Filter",
		Content: fctx.AlertContent,
		Body:    composeAlertBody(fctx, triggered),
		Embeds:  fctx.AlertEmbeds,
	}

	if err := s.gateway.SendAlert(ctx, s.channelID, alert); err != nil {
		metrics.FilterAlertsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to send alert: %w", err)
	}
	metrics.FilterAlertsTotal.WithLabelValues("sent").Inc()
	return nil
}

func composeAlertBody(fctx *Context, triggered []TriggeredList) string {
	var b strings.Builder

	fmt.Fprintf(&b, "**Triggered by:** %s (%s)\n", fctx.Author.Mention(), fctx.Author.ID)

	location := "DM"
	if fctx.Channel.InGuild() {
		location = "<#" + fctx.Channel.ID + ">"
	}
	fmt.Fprintf(&b, "**Channel:** %s\n", location)

	if len(triggered) == 1 {
		fmt.Fprintf(&b, "**Filters:** %s: %s\n", triggered[0].List.Name(), summarizeRules(triggered[0].Rules))
	} else {
		for _, t := range triggered {
			fmt.Fprintf(&b, "**%s:** %s\n", t.List.Name(), summarizeRules(t.Rules))
		}
	}

	if len(fctx.Matches) > 0 {
		fmt.Fprintf(&b, "**Matches:** %s\n", strings.Join(fctx.Matches, ", "))
	}

	actions := "-"
	if len(fctx.ActionDescriptions) > 0 {
		actions = strings.Join(fctx.ActionDescriptions, ", ")
	}
	fmt.Fprintf(&b, "**Actions Taken:** %s\n", actions)

	if fctx.Message != nil && fctx.Message.URL != "" {
		fmt.Fprintf(&b, "**[Original Content](%s)**: %s", fctx.Message.URL, escapeMarkdown(fctx.Content))
	} else {
		fmt.Fprintf(&b, "**Original Content**: %s", escapeMarkdown(fctx.Content))
	}

	return truncateAlert(b.String())
}

func summarizeRules(rules []*Rule) string {
	parts := make([]string, 0, len(rules))
	for _, rule := range rules {
		parts = append(parts, fmt.Sprintf("%s (#%d)", rule.Content, rule.ID))
	}
	return strings.Join(parts, ", ")
}

func truncateAlert(body string) string {
	if len(body) <= constants.AlertMaxLength {
		return body
	}
	cut := constants.AlertMaxLength - len(constants.AlertTruncationMark)
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut] + constants.AlertTruncationMark
}

var markdownEscaper = strings.NewReplacer(
	"*", "\\*",
	"_", "\\_",
	"`", "\\`",
	"~", "\\~",
	"|", "\\|",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

package filter

import (
	"regexp"
	"strings"
	"unicode"

	"modguard/internal/logger"
)

// TokenListName is the stored name of the regex token list.
const TokenListName = "tokens"

var spoilerPattern = regexp.MustCompile(`(?s)\|\|(.+?)\|\|`)

// TokenList matches message content against per-rule regular expressions.
// Content is normalized before matching: spoiler markup is expanded so hidden
// text is still searched, and zalgo combining marks and invisible characters
// are stripped so they cannot break a token apart.
type TokenList struct {
	baseList
}

func NewTokenList(parser *SettingsParser, log logger.Logger) List {
	return &TokenList{baseList: newBaseList(TokenListName, parser, log)}
}

func (l *TokenList) Subscriptions() []Event {
	return []Event{EventMessage, EventMessageEdit}
}

func (l *TokenList) AddGroup(cfg ListConfig) error {
	return l.addGroup(cfg, func(rc RuleConfig) (func(*Context) bool, error) {
		re, err := regexp.Compile("(?i)" + rc.Content)
		if err != nil {
			return nil, err
		}
		return func(fctx *Context) bool {
			loc := re.FindStringIndex(fctx.Content)
			if loc == nil {
				return false
			}
			if match := fctx.Content[loc[0]:loc[1]]; match != "" {
				fctx.AppendMatch(match)
			}
			return true
		}, nil
	})
}

func (l *TokenList) TriggersFor(fctx *Context) []*Rule {
	defaults, ok := l.defaults[DenyList]
	if !ok {
		return nil
	}

	text := fctx.Content
	if spoilerPattern.MatchString(text) {
		text = expandSpoilers(text)
	}
	text = cleanInput(text)

	// Matching runs against the normalized copy; matches found there are
	// copied back onto the dispatch context.
	sub := fctx.WithContent(text)
	sub.Matches = nil
	triggered := filterListResult(sub, l.groups[DenyList], defaults.validations)
	for _, match := range sub.Matches {
		fctx.AppendMatch(match)
	}
	return triggered
}

// expandSpoilers appends a copy of the text with spoiler markers removed, so
// tokens split across a spoiler boundary are found in either rendering.
func expandSpoilers(text string) string {
	expanded := spoilerPattern.ReplaceAllString(text, "$1")
	if expanded == text {
		return text
	}
	return text + " " + expanded
}

// cleanInput drops combining marks and invisible control/format characters,
// keeping whitespace intact.
func cleanInput(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsSpace(r) {
			b.WriteRune(r)
			continue
		}
		if unicode.In(r, unicode.Cf, unicode.Cc, unicode.Mn, unicode.Me) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

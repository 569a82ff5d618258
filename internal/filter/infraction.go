package filter

import (
	"strings"
)

// Infraction is the hierarchy of moderation infractions. Lower values are
// more severe; NoInfraction is the identity element of the merge algebra.
type Infraction int

const (
	InfractionBan Infraction = iota
	InfractionKick
	InfractionMute
	InfractionVoiceBan
	InfractionWarning
	InfractionWatch
	InfractionSuperstar
	InfractionNote
	NoInfraction
)

var infractionNames = map[Infraction]string{
	InfractionBan:       "ban",
	InfractionKick:      "kick",
	InfractionMute:      "mute",
	InfractionVoiceBan:  "voice_ban",
	InfractionWarning:   "warning",
	InfractionWatch:     "watch",
	InfractionSuperstar: "superstar",
	InfractionNote:      "note",
	NoInfraction:        "none",
}

func (i Infraction) String() string {
	if name, ok := infractionNames[i]; ok {
		return name
	}
	return "none"
}

// MoreSevere reports whether i outranks other in the hierarchy.
func (i Infraction) MoreSevere(other Infraction) bool {
	return i < other
}

// ParseInfraction resolves a stored infraction name. Names are matched
// case-insensitively with spaces treated as underscores; the empty string
// parses to NoInfraction.
func ParseInfraction(s string) (Infraction, bool) {
	if s == "" {
		return NoInfraction, true
	}
	normalized := strings.ToLower(strings.ReplaceAll(s, " ", "_"))
	for infraction, name := range infractionNames {
		if name == normalized {
			return infraction, true
		}
	}
	return NoInfraction, false
}

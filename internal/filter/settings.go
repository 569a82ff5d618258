package filter

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"modguard/internal/logger"
)

// SettingsParser turns the raw settings blob stored with a filter list or
// rule into action and validation entries. Settings names with no matching
// entry type are warned about once per name and skipped, so a newer schema
// in the store does not take down rule loading.
type SettingsParser struct {
	log    logger.Logger
	mu     sync.Mutex
	warned map[string]bool
}

func NewSettingsParser(log logger.Logger) *SettingsParser {
	return &SettingsParser{
		log:    log,
		warned: make(map[string]bool),
	}
}

type infractionEntryData struct {
	InfractionType            string   `json:"infraction_type"`
	InfractionReason          string   `json:"infraction_reason"`
	InfractionDurationSeconds *float64 `json:"infraction_duration_seconds"`
	DMContent                 string   `json:"dm_content"`
	DMEmbed                   string   `json:"dm_embed"`
	Superstar                 *struct {
		Reason          string   `json:"reason"`
		DurationSeconds *float64 `json:"duration_seconds"`
	} `json:"superstar"`
}

type pingEntryData struct {
	PingType   []string `json:"ping_type"`
	DMPingType []string `json:"dm_ping_type"`
}

type channelScopeEntryData struct {
	DisabledChannels   []string `json:"disabled_channels"`
	DisabledCategories []string `json:"disabled_categories"`
	EnabledChannels    []string `json:"enabled_channels"`
}

// Parse returns the action and validation entries found in data. Either
// result may be nil when the data holds no effective entries of that type;
// a nil ActionSet makes the rule fall back entirely to its list defaults.
func (p *SettingsParser) Parse(data map[string]json.RawMessage) (*ActionSet, *Validations, error) {
	var actionEntries []ActionEntry
	var validationEntries []ValidationEntry

	for name, raw := range data {
		switch name {
		case KindInfraction:
			entry, err := parseInfractionEntry(raw)
			if err != nil {
				return nil, nil, fmt.Errorf("malformed %q setting: %w", name, err)
			}
			if entry != nil {
				actionEntries = append(actionEntries, entry)
			}

		case KindMentions:
			var d pingEntryData
			if err := json.Unmarshal(raw, &d); err != nil {
				return nil, nil, fmt.Errorf("malformed %q setting: %w", name, err)
			}
			entry := NewPingAction(d.PingType, d.DMPingType)
			if !entry.Empty() {
				actionEntries = append(actionEntries, entry)
			}

		case KindDeleteMessages:
			var remove bool
			if err := json.Unmarshal(raw, &remove); err != nil {
				return nil, nil, fmt.Errorf("malformed %q setting: %w", name, err)
			}
			if remove {
				actionEntries = append(actionEntries, &DeleteAction{Delete: true})
			}

		case "enabled":
			var enabled bool
			if err := json.Unmarshal(raw, &enabled); err != nil {
				return nil, nil, fmt.Errorf("malformed %q setting: %w", name, err)
			}
			validationEntries = append(validationEntries, &EnabledValidation{Enabled: enabled})

		case "filter_dm":
			var applyInDM bool
			if err := json.Unmarshal(raw, &applyInDM); err != nil {
				return nil, nil, fmt.Errorf("malformed %q setting: %w", name, err)
			}
			validationEntries = append(validationEntries, &FilterDMValidation{ApplyInDM: applyInDM})

		case "bypass_roles":
			var roles []string
			if err := json.Unmarshal(raw, &roles); err != nil {
				return nil, nil, fmt.Errorf("malformed %q setting: %w", name, err)
			}
			if len(roles) > 0 {
				validationEntries = append(validationEntries, NewRoleBypassValidation(roles))
			}

		case "channel_scope":
			var d channelScopeEntryData
			if err := json.Unmarshal(raw, &d); err != nil {
				return nil, nil, fmt.Errorf("malformed %q setting: %w", name, err)
			}
			validationEntries = append(validationEntries, NewChannelScopeValidation(
				d.DisabledChannels, d.DisabledCategories, d.EnabledChannels))

		default:
			p.warnUnknown(name)
		}
	}

	var actions *ActionSet
	if len(actionEntries) > 0 {
		actions = NewActionSet(actionEntries...)
	}
	var validations *Validations
	if len(validationEntries) > 0 {
		validations = NewValidations(validationEntries...)
	}
	return actions, validations, nil
}

func parseInfractionEntry(raw json.RawMessage) (*InfractionAction, error) {
	var d infractionEntryData
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}

	infractionType, ok := ParseInfraction(d.InfractionType)
	if !ok {
		return nil, fmt.Errorf("unknown infraction type %q", d.InfractionType)
	}

	entry := &InfractionAction{
		Type:      infractionType,
		Reason:    d.InfractionReason,
		Duration:  secondsToDuration(d.InfractionDurationSeconds),
		DMContent: d.DMContent,
		DMEmbed:   d.DMEmbed,
	}
	if d.Superstar != nil {
		entry.Superstar = &SuperstarParams{
			Reason:   d.Superstar.Reason,
			Duration: secondsToDuration(d.Superstar.DurationSeconds),
		}
	}

	if entry.Empty() {
		return nil, nil
	}
	return entry, nil
}

func secondsToDuration(seconds *float64) *time.Duration {
	if seconds == nil {
		return nil
	}
	d := time.Duration(*seconds * float64(time.Second))
	return &d
}

func (p *SettingsParser) warnUnknown(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.warned[name] {
		return
	}
	p.warned[name] = true
	p.log.Warnw("A setting was loaded from the rule store, but no matching entry type",
		"setting", name,
	)
}

package filter

// ValidationEntry decides whether a rule is relevant in a given context.
// Validations gate matching; they never cause side effects.
type ValidationEntry interface {
	Name() string
	TriggersOn(fctx *Context) bool
}

// Validations is a collection of validation entries, keyed by name.
type Validations struct {
	entries map[string]ValidationEntry
}

func NewValidations(entries ...ValidationEntry) *Validations {
	v := &Validations{entries: make(map[string]ValidationEntry, len(entries))}
	for _, e := range entries {
		v.entries[e.Name()] = e
	}
	return v
}

func (v *Validations) Len() int {
	if v == nil {
		return 0
	}
	return len(v.entries)
}

func (v *Validations) Empty() bool {
	return v.Len() == 0
}

// Evaluate splits the entries into those approving the context and those
// rejecting it.
func (v *Validations) Evaluate(fctx *Context) (passed, failed map[string]struct{}) {
	passed = make(map[string]struct{})
	failed = make(map[string]struct{})
	if v == nil {
		return passed, failed
	}

	for name, entry := range v.entries {
		if entry.TriggersOn(fctx) {
			passed[name] = struct{}{}
		} else {
			failed[name] = struct{}{}
		}
	}
	return passed, failed
}

// EnabledValidation switches a rule on or off.
type EnabledValidation struct {
	Enabled bool
}

func (e *EnabledValidation) Name() string {
	return "enabled"
}

func (e *EnabledValidation) TriggersOn(fctx *Context) bool {
	return e.Enabled
}

// FilterDMValidation tells whether the rule applies to DM channels.
type FilterDMValidation struct {
	ApplyInDM bool
}

func (f *FilterDMValidation) Name() string {
	return "filter_dm"
}

func (f *FilterDMValidation) TriggersOn(fctx *Context) bool {
	return fctx.Channel.InGuild() || f.ApplyInDM
}

// RoleBypassValidation exempts actors holding any of the listed roles.
type RoleBypassValidation struct {
	Roles map[string]struct{}
}

func NewRoleBypassValidation(roles []string) *RoleBypassValidation {
	v := &RoleBypassValidation{Roles: make(map[string]struct{}, len(roles))}
	for _, r := range roles {
		v.Roles[r] = struct{}{}
	}
	return v
}

func (r *RoleBypassValidation) Name() string {
	return "bypass_roles"
}

func (r *RoleBypassValidation) TriggersOn(fctx *Context) bool {
	for _, role := range fctx.Author.Roles {
		if _, ok := r.Roles[role]; ok {
			return false
		}
	}
	return true
}

// ChannelScopeValidation restricts a rule to certain channels. A rule
// applies by default; an explicitly enabled channel bypasses the disabled
// channel and category sets.
type ChannelScopeValidation struct {
	DisabledChannels   map[string]struct{}
	DisabledCategories map[string]struct{}
	EnabledChannels    map[string]struct{}
}

func NewChannelScopeValidation(disabledChannels, disabledCategories, enabledChannels []string) *ChannelScopeValidation {
	v := &ChannelScopeValidation{
		DisabledChannels:   make(map[string]struct{}, len(disabledChannels)),
		DisabledCategories: make(map[string]struct{}, len(disabledCategories)),
		EnabledChannels:    make(map[string]struct{}, len(enabledChannels)),
	}
	for _, c := range disabledChannels {
		v.DisabledChannels[c] = struct{}{}
	}
	for _, c := range disabledCategories {
		v.DisabledCategories[c] = struct{}{}
	}
	for _, c := range enabledChannels {
		v.EnabledChannels[c] = struct{}{}
	}
	return v
}

func (c *ChannelScopeValidation) Name() string {
	return "channel_scope"
}

func (c *ChannelScopeValidation) TriggersOn(fctx *Context) bool {
	channel := fctx.Channel
	if _, ok := c.EnabledChannels[channel.ID]; ok {
		return true
	}
	if _, ok := c.DisabledChannels[channel.ID]; ok {
		return false
	}
	if channel.Category != "" {
		if _, ok := c.DisabledCategories[channel.Category]; ok {
			return false
		}
	}
	return true
}

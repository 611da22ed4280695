package workflow

// Builder accumulates the transition table for an entity family. Configure a
// builder once at package init, then call Build per entity instance.
type Builder struct {
	transitions map[State]map[Trigger][]transition
}

func NewBuilder() *Builder {
	return &Builder{transitions: make(map[State]map[Trigger][]transition)}
}

// StateConfig configures the outgoing transitions of a single state.
type StateConfig struct {
	builder *Builder
	from    State
}

func (b *Builder) Configure(state State) *StateConfig {
	if _, ok := b.transitions[state]; !ok {
		b.transitions[state] = make(map[Trigger][]transition)
	}
	return &StateConfig{builder: b, from: state}
}

// Permit allows trigger to move this state to the target state.
func (c *StateConfig) Permit(trigger Trigger, to State) *StateConfig {
	return c.PermitIf(trigger, to, nil)
}

// PermitIf allows the transition only when the guard passes at fire time.
func (c *StateConfig) PermitIf(trigger Trigger, to State, guard GuardFunc) *StateConfig {
	table := c.builder.transitions[c.from]
	table[trigger] = append(table[trigger], transition{to: to, guard: guard})
	return c
}

// Build returns a machine positioned at the given state. The transition table
// is shared: builders must not be reconfigured after the first Build.
func (b *Builder) Build(initial State) *Machine {
	return &Machine{current: initial, transitions: b.transitions}
}

package flow

// Navigator tracks the current step of a schema. Moving past either end is a
// no-op: the navigator clamps, it never wraps and never errors.
type Navigator struct {
	schema Schema
	pos    int
}

// NewNavigator returns a navigator positioned on the first step.
// It panics if the schema has no steps, since every flow schema is a
// compile-time constant.
func NewNavigator(schema Schema) *Navigator {
	if len(schema.Steps) == 0 {
		panic("flow: navigator over empty schema " + schema.ID)
	}
	return &Navigator{schema: schema}
}

// Schema returns the schema being navigated.
func (n *Navigator) Schema() Schema { return n.schema }

// Current returns the current step.
func (n *Navigator) Current() Step { return n.schema.Steps[n.pos] }

// Position returns the zero-based index of the current step.
func (n *Navigator) Position() int { return n.pos }

// IsFirst reports whether the navigator is on the first step.
func (n *Navigator) IsFirst() bool { return n.pos == 0 }

// IsLast reports whether the navigator is on the terminal step.
func (n *Navigator) IsLast() bool { return n.pos == len(n.schema.Steps)-1 }

// Next advances one step and returns it. On the last step it stays put and
// returns false.
func (n *Navigator) Next() (Step, bool) {
	if n.IsLast() {
		return Step{}, false
	}
	n.pos++
	return n.Current(), true
}

// Previous moves back one step and returns it. On the first step it stays put
// and returns false.
func (n *Navigator) Previous() (Step, bool) {
	if n.IsFirst() {
		return Step{}, false
	}
	n.pos--
	return n.Current(), true
}

// GoTo jumps to the step with the given id. Unknown ids leave the position
// unchanged.
func (n *Navigator) GoTo(id StepID) bool {
	i := n.schema.Index(id)
	if i < 0 {
		return false
	}
	n.pos = i
	return true
}

// Progress returns (position+1)/count, a fraction in (0,1].
func (n *Navigator) Progress() float64 {
	return float64(n.pos+1) / float64(len(n.schema.Steps))
}

package domain

// Context pairs a state with the ordered names of the actions applied to reach
// it from the root the context started at (the real state or an imagined one).
// The context exclusively owns its state.
type Context[S State[S]] struct {
	State   S        `json:"state"`
	History []string `json:"history"`
}

// NewContext wraps a state with an empty history.
func NewContext[S State[S]](state S) *Context[S] {
	return &Context[S]{
		State:   state,
		History: []string{},
	}
}

// Clone duplicates the state and the history independently.
func (c *Context[S]) Clone() *Context[S] {
	history := make([]string, len(c.History), len(c.History)+1)
	copy(history, c.History)
	return &Context[S]{
		State:   c.State.Clone(),
		History: history,
	}
}

// Last returns the most recently applied action name, or "" for an empty history.
func (c *Context[S]) Last() string {
	if len(c.History) == 0 {
		return ""
	}
	return c.History[len(c.History)-1]
}

// Depth is the number of actions applied so far.
func (c *Context[S]) Depth() int {
	return len(c.History)
}

// Apply runs the action's effect against the context state and records its name.
// The precondition is not checked.
func (c *Context[S]) Apply(action Action[S]) {
	action.Apply(c.State)
	c.History = append(c.History, action.Name())
}

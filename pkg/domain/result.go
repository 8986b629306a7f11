package domain

import "time"

// Outcome classifies how a search ended.
type Outcome string

const (
	OutcomeFound           Outcome = "found"            // A cheapest route was selected
	OutcomeNoRoute         Outcome = "no_route"         // Every reachable state was explored, goal never applicable
	OutcomeBudgetExhausted Outcome = "budget_exhausted" // Search stopped by its node or depth budget
)

// Default search bounds.
const (
	DefaultMaxDepth = 32
	DefaultMaxNodes = 100_000
)

// Budget bounds a single search.
// Zero fields take the defaults; negative fields disable the bound.
type Budget struct {
	// MaxDepth is the longest route (in actions, goal included) considered.
	MaxDepth int `json:"max_depth" yaml:"max_depth" mapstructure:"max_depth"`
	// MaxNodes caps the number of contexts expanded.
	MaxNodes int `json:"max_nodes" yaml:"max_nodes" mapstructure:"max_nodes"`
}

// Normalize resolves zero fields to the defaults.
func (b Budget) Normalize() Budget {
	if b.MaxDepth == 0 {
		b.MaxDepth = DefaultMaxDepth
	}
	if b.MaxNodes == 0 {
		b.MaxNodes = DefaultMaxNodes
	}
	return b
}

// SearchStats describes the work a search performed.
type SearchStats struct {
	NodesExpanded   int           `json:"nodes_expanded"`
	RoutesFound     int           `json:"routes_found"`
	MaxDepthReached int           `json:"max_depth_reached"`
	Truncated       bool          `json:"truncated"`
	Duration        time.Duration `json:"duration"`
}

// SearchResult is the outcome of one search for a goal action.
// Route is the winning imagined context when Outcome is OutcomeFound. On
// OutcomeBudgetExhausted it holds the cheapest route seen so far, if any,
// which is not guaranteed to be minimal.
type SearchResult[S State[S]] struct {
	Goal    string
	Outcome Outcome
	Route   *Context[S]
	Stats   SearchStats
}

// Found reports whether a cheapest route was selected.
func (r *SearchResult[S]) Found() bool {
	return r.Outcome == OutcomeFound && r.Route != nil
}

// Err maps the outcome to its sentinel error (nil when found).
func (r *SearchResult[S]) Err() error {
	switch r.Outcome {
	case OutcomeFound:
		return nil
	case OutcomeBudgetExhausted:
		return ErrBudgetExhausted
	default:
		return ErrNoRoute
	}
}

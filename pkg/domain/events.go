package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventSearchStart    EventType = "search_start"
	EventSearchComplete EventType = "search_complete"
	EventCommit         EventType = "commit"
	EventGoalReached    EventType = "goal_reached"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Goal      string    `json:"goal"`
}

// SearchEvent describes the start or the end of a search.
// Outcome, Route, Cost and Stats are only set on EventSearchComplete.
type SearchEvent struct {
	EventBase
	Outcome Outcome     `json:"outcome,omitempty"`
	Route   []string    `json:"route,omitempty"`
	Cost    float64     `json:"cost,omitempty"`
	Stats   SearchStats `json:"stats"`
}

// CommitEvent describes an action applied to the real state.
type CommitEvent struct {
	EventBase
	Action string  `json:"action"`
	Step   int     `json:"step"` // 1-based position in the real history
	Cost   float64 `json:"cost"` // Cost of the real state after the commit
}

// LifecycleHooks defines callbacks for planner observability.
type LifecycleHooks struct {
	OnSearchStart    func(context.Context, *SearchEvent)
	OnSearchComplete func(context.Context, *SearchEvent)
	OnCommit         func(context.Context, *CommitEvent)
	OnGoalReached    func(context.Context, *CommitEvent)
}

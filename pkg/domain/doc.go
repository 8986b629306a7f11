/*
Package domain contains the core abstractions of the waypoint planner.

It defines the capability contracts a world state must satisfy to be planned
over, the shape of an action, and the exploration context that pairs a state
with the ordered history of actions applied to reach it. This package is kept
pure and free of I/O, persistence and logging.

# Key Entities

  - State: any type that can duplicate itself and report a scalar cost.
  - Action: a named precondition plus an in-place effect.
  - Context: a state and the action names applied to reach it.
  - SearchResult: the outcome of one planning search (found, no route, budget exhausted).
  - LifecycleHooks: structured callbacks for observing searches and commits.
*/
package domain

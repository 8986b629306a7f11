/*
Package observability turns planner lifecycle hooks into logs and metrics.

Hooks are plain domain.LifecycleHooks values, so several sinks can be combined
with ChainHooks and passed to a planner through WithLifecycleHooks.
*/
package observability

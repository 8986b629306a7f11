// Package middleware decorates journal stores.
package middleware

import "github.com/aretw0/waypoint/pkg/ports"

// Middleware allows wrapping a JournalStore to add behavior.
type Middleware func(ports.JournalStore) ports.JournalStore

// Chain wraps store with the middlewares; the first one is outermost.
func Chain(store ports.JournalStore, mws ...Middleware) ports.JournalStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}

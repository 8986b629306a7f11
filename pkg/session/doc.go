/*
Package session coordinates concurrent access to persisted planning sessions.

A session is a journal: the committed facts and history of one catalog planner.
The Manager guarantees that a read-plan-commit-save cycle on a session is never
interleaved with another one, locally through reference-counted mutexes and
across replicas through an optional distributed locker.
*/
package session

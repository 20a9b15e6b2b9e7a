// Package storage provides the durable key-value store behind the
// reminder subsystem's persisted state (the defaults flag, user
// preferences such as the digest hour).
//
// Reads and writes are best-effort from the caller's point of view: the
// scheduler is designed to stay correct when persistence degrades, so
// drivers surface errors but callers may log and continue.
package storage

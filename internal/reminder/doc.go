// Package reminder is the local notification-scheduling layer: it
// decides, registers, deduplicates and cancels reminder notifications
// against the notification center.
//
// Invariants:
//   - At most one active registration per logical reminder. Time-based
//     reminders dedup by an exact deterministic key; relative and
//     immediate reminders coalesce by category within a time window.
//   - The center's registered list is the sole source of truth; no
//     local cache of registrations exists.
//   - The default bundle is registered once per install, guarded by a
//     two-tier (in-memory + durable) flag.
package reminder

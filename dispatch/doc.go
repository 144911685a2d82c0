// Package dispatch implements the automated distribution of pending radiology
// studies across on-shift diagnosticians.
//
// # Reading Guide
//
// Start with these three files to understand the engine:
//   - snapshot.go: raw records from the store are resolved into total working types
//   - atc.go: the Apparent Tardiness Cost index that ranks (study, doctor) pairs
//   - engine.go: the assignment loop, commit bookkeeping, and persistence
//
// # Architecture
//
// The engine is a batch computation over a private working set. It touches
// I/O at exactly two points, both expressed as injected ports (ports.go): a
// read-only snapshot at the start and idempotent per-study assignment writes
// at the end. Store implementations live in sub-packages:
//   - store/memory/: in-memory store for tests and demo runs
//   - store/postgres/: lib/pq-backed store over the production schema
//
// A single run minimizes total weighted tardiness
//
//	Z = Σᵢ weightᵢ × max(0, Cᵢ − dᵢ)
//
// where Cᵢ is the completion time and dᵢ the per-priority deadline of study i.
// The policy is the ATC heuristic: repeatedly commit the feasible pair with
// the highest index until no feasible pair remains.
package dispatch

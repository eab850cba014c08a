// Package types provides core type definitions and interfaces for the Roster library.
//
// This package contains shared types that are used across multiple packages in the
// Roster library. By keeping these types in a separate package, we avoid import cycles
// between the main roster package and its internal implementations.
//
// Key types:
//   - Liveness: Client liveness state
//   - Transition: Outcome of a liveness evaluation
//   - StatusReport: Wire envelope for client progress reports
//   - RoleStrategy: Role selection interface
//   - Logger: Structured logging interface
//   - MetricsCollector: Metrics recording interface
package types

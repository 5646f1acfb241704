// Package component defines the lifecycle interface shared by long-lived
// parts of itemfeed, such as feed sources and telemetry providers, and a
// registry that starts them in order and stops them in reverse.
//
// # Interfaces
//
//   - Component: Start/Stop/Health lifecycle
//   - Describable: one-line startup description
package component

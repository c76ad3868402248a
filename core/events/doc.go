// Package events defines the planning related events emitted on the event bus.
//
// Available event types:
//   - FlightEvent: flight schedule update ingested from the feed
//   - PlanEvent: outcome of a planning cycle
//   - SolverEvent: solver selection and fallback information
package events

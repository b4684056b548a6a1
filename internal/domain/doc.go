// Package domain contains the core domain entities and value objects for bulk.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (console, file system, logging) and
// contains only pure business logic.
//
// # Entities
//
//   - [Command]: A single input line stamped with its arrival time
//   - [Packet]: The concatenated output of one accumulator flush
//   - [Buffer]: The ordered set of commands waiting to be flushed
//
// # Design Principles
//
// Domain entities are:
//   - Immutable after construction (where practical)
//   - Free of infrastructure dependencies
//   - Focused on business rules and invariants
//   - Testable without mocks or external systems
package domain

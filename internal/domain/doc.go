// Package domain contains the core entities and value objects for assetship.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (HTTP, file system, logging) and
// contains only pure business logic.
//
// # Entities
//
//   - [Document]: One post's entry file held in memory for a single pass
//   - [Region]: A located occurrence of migratable content with its span
//   - [Batch]: The asset references for one document, applied as one unit
//   - [Report]: Run summary persisted after a migration run
//
// # Design Principles
//
// Domain entities are:
//   - Immutable after construction (where practical)
//   - Free of infrastructure dependencies
//   - Expressed in coordinates of the original document
//   - Testable without mocks or external systems
package domain

// Package domain contains the core domain model for the application.
//
// This package defines:
//   - Entities: Joke and User records with identity
//   - Domain Errors: Business rule violation errors
//
// Rules for this package:
//   - No infrastructure concerns (database, HTTP, etc.)
//   - Entities should validate their own invariants
package domain

// Package service contains the application use cases. It orchestrates the
// domain types and the store interfaces to fulfil task operations, owning
// transaction boundaries and object-level ownership checks.
//
// Services depend on store interfaces only, never on a concrete database
// implementation.
package service

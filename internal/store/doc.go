// Package store defines the persistence contracts for users and tasks, the
// errors stores return, and the transaction helper services use to group
// several store calls into one unit of work.
package store

// Package domain holds the users and tasks the API manages, their
// validation rules, and the query model used to filter and order a user's
// tasks. It has no knowledge of HTTP or storage.
package domain

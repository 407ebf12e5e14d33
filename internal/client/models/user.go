// Package models holds the wire-level data types exchanged with the
// TaskMaster backend, plus the derived session types. Field names and JSON
// tags mirror the backend's serializers.
package models

// User is a backend account as returned by the user search endpoint.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

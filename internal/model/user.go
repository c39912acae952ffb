// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered account identified by a unique username.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

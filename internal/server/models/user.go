// Package models defines the server-side data model.
package models

import "time"

// User is a registered account. Hash and Salt together form the derived
// password credential and must never be serialized to clients.
type User struct {
	ID            string
	Username      string
	Email         string
	ProfilePicURL *string
	Hash          []byte
	Salt          []byte
	CreatedAt     time.Time
}

// Image is a single portfolio image owned by a user.
type Image struct {
	ImageURL string `json:"imageURL"`
}

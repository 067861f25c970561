package models

import "time"

// User represents a signed-in user's profile, keyed by the auth-provider uid
type User struct {
	ID          string    `json:"id" bson:"_id"`
	Email       string    `json:"email" bson:"email"`
	DisplayName string    `json:"displayName" bson:"displayName"`
	PhotoURL    string    `json:"photoUrl,omitempty" bson:"photoUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// UpsertUserRequest represents the profile sync sent by the client after sign-in
type UpsertUserRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoUrl,omitempty"`
}

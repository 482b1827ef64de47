// Package dto defines the request payloads accepted by the API.
// JSON keys keep the camelCase names the client already sends.
package dto

import "madjoke/src/core/domain"

// JokeRequest is the payload for creating or overwriting a joke.
type JokeRequest struct {
	Setup     string `json:"setup"`
	Punchline string `json:"punchline"`
	Type      string `json:"type"`
}

// ToUpdate converts the payload into a domain update.
func (r JokeRequest) ToUpdate() domain.JokeUpdate {
	return domain.JokeUpdate{
		Setup:     r.Setup,
		Punchline: r.Punchline,
		Type:      r.Type,
	}
}

// RegisterRequest is the payload for /api/user/register.
// Every field is required; empty values are rejected.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	UserName  string `json:"userName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// LoginRequest is the payload for /api/user/login.
type LoginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// UserUpdateRequest wraps a partial profile update.
type UserUpdateRequest struct {
	UserUpdates UserUpdates `json:"userUpdates"`
}

// UserUpdates is the caller-supplied field subset. Absent fields stay nil
// and are left untouched.
type UserUpdates struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	UserName  *string `json:"userName"`
	Email     *string `json:"email"`
}

// PasswordChangeRequest is the payload for /api/user/pwchange.
type PasswordChangeRequest struct {
	PwS PasswordPair `json:"pwS"`
}

// PasswordPair carries the old and new cleartext passwords.
type PasswordPair struct {
	OldPw string `json:"oldPw"`
	NewPw string `json:"newPw"`
}

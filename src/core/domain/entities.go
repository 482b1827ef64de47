package domain

import (
	"time"

	"github.com/google/uuid"
)

// Joke is a single joke record.
// Author is the creating user's ID and never changes after creation.
// AuthorName is the author's current userName, resolved by the store on
// read; it is never written back.
// Likes holds the IDs of users who liked the joke, each at most once.
type Joke struct {
	ID         uuid.UUID
	Setup      string
	Punchline  string
	Type       string
	Author     uuid.UUID
	AuthorName string
	Likes      []uuid.UUID
	Created    time.Time
}

// LikedBy reports whether the given user has liked the joke.
func (j *Joke) LikedBy(userID uuid.UUID) bool {
	for _, id := range j.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// User is a registered account. UserName is unique across all users.
type User struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	UserName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserUpdate is a partial profile update. Nil fields are left untouched.
type UserUpdate struct {
	FirstName *string
	LastName  *string
	UserName  *string
	Email     *string
}

// Empty reports whether the update would change nothing.
func (u UserUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.UserName == nil && u.Email == nil
}

// JokeUpdate overwrites the editable fields of a joke.
type JokeUpdate struct {
	Setup     string
	Punchline string
	Type      string
}

// Package ports defines interfaces (ports) that connect core domain to infrastructure.
// These interfaces follow the ports and adapters (hexagonal) architecture pattern.
//
// Ports are defined here in the core layer, while implementations (adapters)
// live in src/infra/repo. This ensures the core has no dependency on infrastructure.
package ports

import (
	"context"

	"github.com/google/uuid"

	"madjoke/src/core/domain"
)

// Repository is the base interface for all repositories.
// Concrete repositories should embed this and add entity-specific methods.
type Repository interface {
	// Health checks if the underlying storage is reachable.
	Health(ctx context.Context) error
}

// JokeRepository covers all operations on the jokes collection.
type JokeRepository interface {
	Repository

	// ListJokes returns all jokes, or only those with the given type when
	// jokeType is non-empty. Order is by creation time, oldest first.
	ListJokes(ctx context.Context, jokeType string) ([]domain.Joke, error)

	// ListJokeTypes returns every distinct joke type exactly once.
	ListJokeTypes(ctx context.Context) ([]string, error)

	// GetJokeByID loads a single joke.
	GetJokeByID(ctx context.Context, id uuid.UUID) (*domain.Joke, error)

	// RandomJoke returns one joke chosen pseudo-uniformly from the full set.
	RandomJoke(ctx context.Context) (*domain.Joke, error)

	// ListJokesByAuthor returns every joke authored by the given user.
	ListJokesByAuthor(ctx context.Context, authorID uuid.UUID) ([]domain.Joke, error)

	// CreateJoke persists a new joke as-is.
	CreateJoke(ctx context.Context, joke *domain.Joke) error

	// UpdateJoke overwrites setup, punchline and type on the identified joke
	// and returns the updated record. The author is never touched.
	UpdateJoke(ctx context.Context, id uuid.UUID, upd domain.JokeUpdate) (*domain.Joke, error)

	// DeleteJoke removes the joke, failing with ErrNotFound when it does not exist.
	DeleteJoke(ctx context.Context, id uuid.UUID) error

	// ToggleLike flips the user's membership in the joke's like set and
	// returns the updated joke.
	//
	// Implementation detail: must be atomic so that concurrent toggles by
	// different users never lose updates.
	ToggleLike(ctx context.Context, jokeID, userID uuid.UUID) (*domain.Joke, error)

	// ReplaceAllJokes drops the whole collection and inserts the given jokes.
	// Used only by the one-shot seeding tool.
	ReplaceAllJokes(ctx context.Context, jokes []domain.Joke) error
}

// UserRepository covers all operations on the users collection.
type UserRepository interface {
	Repository

	// CreateUser persists a new user, failing with ErrConflict when the
	// user name is already taken.
	CreateUser(ctx context.Context, user *domain.User) error

	// GetUserByUserName loads a user by the unique user name.
	GetUserByUserName(ctx context.Context, userName string) (*domain.User, error)

	// GetUserByID loads a user by ID.
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// UpdateUser applies a partial profile update and returns the updated user.
	UpdateUser(ctx context.Context, id uuid.UUID, upd domain.UserUpdate) (*domain.User, error)

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

// Store is the composite repository implemented by the storage adapters.
type Store interface {
	JokeRepository
	UserRepository
}

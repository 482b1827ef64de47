package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"madjoke/src/core/domain"
	"madjoke/src/core/ports"
)

// JokeService handles joke browsing and authoring flows.
type JokeService struct {
	jokes ports.JokeRepository
	log   *slog.Logger
}

func NewJokeService(jokes ports.JokeRepository, log *slog.Logger) *JokeService {
	return &JokeService{jokes: jokes, log: log}
}

// List returns all jokes, filtered to an exact type match when jokeType is
// non-empty. Masking for anonymous callers happens at the response layer;
// the set of jokes returned never depends on the caller.
func (s *JokeService) List(ctx context.Context, jokeType string) ([]domain.Joke, error) {
	return s.jokes.ListJokes(ctx, jokeType)
}

// Types returns every distinct joke type exactly once.
func (s *JokeService) Types(ctx context.Context) ([]string, error) {
	return s.jokes.ListJokeTypes(ctx)
}

// Random returns one joke chosen pseudo-uniformly from the full set.
func (s *JokeService) Random(ctx context.Context) (*domain.Joke, error) {
	return s.jokes.RandomJoke(ctx)
}

// ByAuthor returns every joke the given user has created.
func (s *JokeService) ByAuthor(ctx context.Context, authorID uuid.UUID) ([]domain.Joke, error) {
	return s.jokes.ListJokesByAuthor(ctx, authorID)
}

// Create stores a new joke for the given author with an empty like set.
func (s *JokeService) Create(ctx context.Context, author uuid.UUID, upd domain.JokeUpdate) (*domain.Joke, error) {
	joke := &domain.Joke{
		ID:        uuid.New(),
		Setup:     upd.Setup,
		Punchline: upd.Punchline,
		Type:      upd.Type,
		Author:    author,
		Likes:     []uuid.UUID{},
		Created:   time.Now().UTC(),
	}
	if err := s.jokes.CreateJoke(ctx, joke); err != nil {
		return nil, err
	}
	return joke, nil
}

// Update overwrites setup, punchline and type on an existing joke.
func (s *JokeService) Update(ctx context.Context, id uuid.UUID, upd domain.JokeUpdate) (*domain.Joke, error) {
	return s.jokes.UpdateJoke(ctx, id, upd)
}

// Delete removes a joke by ID.
func (s *JokeService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.jokes.DeleteJoke(ctx, id)
}

// ToggleLike flips the caller's like on a joke and returns the updated record.
func (s *JokeService) ToggleLike(ctx context.Context, jokeID, userID uuid.UUID) (*domain.Joke, error) {
	return s.jokes.ToggleLike(ctx, jokeID, userID)
}

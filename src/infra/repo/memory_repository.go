package repo

import (
	"context"
	"math/rand"
	"sort"
	"sync"

	"github.com/google/uuid"

	"madjoke/src/core/domain"
	"madjoke/src/core/ports"
)

// MemoryRepository implements ports.Store with in-process maps.
// It backs the test suite and local development without a database. All
// methods are safe for concurrent use; the like toggle holds the lock for
// the whole flip, mirroring the atomicity the Postgres adapter gets from
// single-statement updates.
type MemoryRepository struct {
	mu    sync.RWMutex
	jokes map[uuid.UUID]*domain.Joke
	users map[uuid.UUID]*domain.User
}

// NewMemoryRepository constructs an empty in-memory store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		jokes: make(map[uuid.UUID]*domain.Joke),
		users: make(map[uuid.UUID]*domain.User),
	}
}

var _ ports.Store = (*MemoryRepository)(nil)

func (r *MemoryRepository) Health(ctx context.Context) error {
	return nil
}

// copyJoke snapshots a stored joke, resolving the author's current userName
// the way the Postgres adapter's users join does. Callers hold at least the
// read lock.
func (r *MemoryRepository) copyJoke(j *domain.Joke) *domain.Joke {
	cp := *j
	cp.Likes = append([]uuid.UUID{}, j.Likes...)
	if u, ok := r.users[j.Author]; ok {
		cp.AuthorName = u.UserName
	}
	return &cp
}

// sortedJokes returns jokes ordered by creation time, oldest first, matching
// the Postgres adapter's ordering.
func (r *MemoryRepository) sortedJokes() []*domain.Joke {
	out := make([]*domain.Joke, 0, len(r.jokes))
	for _, j := range r.jokes {
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Created.Before(out[k].Created) })
	return out
}

// Jokes

func (r *MemoryRepository) ListJokes(ctx context.Context, jokeType string) ([]domain.Joke, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	jokes := make([]domain.Joke, 0)
	for _, j := range r.sortedJokes() {
		if jokeType != "" && j.Type != jokeType {
			continue
		}
		jokes = append(jokes, *r.copyJoke(j))
	}
	return jokes, nil
}

func (r *MemoryRepository) ListJokeTypes(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	types := make([]string, 0)
	for _, j := range r.sortedJokes() {
		if _, ok := seen[j.Type]; ok {
			continue
		}
		seen[j.Type] = struct{}{}
		types = append(types, j.Type)
	}
	sort.Strings(types)
	return types, nil
}

func (r *MemoryRepository) GetJokeByID(ctx context.Context, id uuid.UUID) (*domain.Joke, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.jokes[id]
	if !ok {
		return nil, domain.NewNotFoundError("joke")
	}
	return r.copyJoke(j), nil
}

func (r *MemoryRepository) RandomJoke(ctx context.Context) (*domain.Joke, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.jokes) == 0 {
		return nil, domain.NewNotFoundError("joke")
	}
	all := r.sortedJokes()
	return r.copyJoke(all[rand.Intn(len(all))]), nil
}

func (r *MemoryRepository) ListJokesByAuthor(ctx context.Context, authorID uuid.UUID) ([]domain.Joke, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	jokes := make([]domain.Joke, 0)
	for _, j := range r.sortedJokes() {
		if j.Author == authorID {
			jokes = append(jokes, *r.copyJoke(j))
		}
	}
	return jokes, nil
}

func (r *MemoryRepository) CreateJoke(ctx context.Context, joke *domain.Joke) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.jokes[joke.ID] = r.copyJoke(joke)
	return nil
}

func (r *MemoryRepository) UpdateJoke(ctx context.Context, id uuid.UUID, upd domain.JokeUpdate) (*domain.Joke, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jokes[id]
	if !ok {
		return nil, domain.NewNotFoundError("joke")
	}
	j.Setup = upd.Setup
	j.Punchline = upd.Punchline
	j.Type = upd.Type
	return r.copyJoke(j), nil
}

func (r *MemoryRepository) DeleteJoke(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jokes[id]; !ok {
		return domain.NewNotFoundError("joke")
	}
	delete(r.jokes, id)
	return nil
}

func (r *MemoryRepository) ToggleLike(ctx context.Context, jokeID, userID uuid.UUID) (*domain.Joke, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jokes[jokeID]
	if !ok {
		return nil, domain.NewNotFoundError("joke")
	}

	for i, id := range j.Likes {
		if id == userID {
			j.Likes = append(j.Likes[:i], j.Likes[i+1:]...)
			return r.copyJoke(j), nil
		}
	}
	j.Likes = append(j.Likes, userID)
	return r.copyJoke(j), nil
}

func (r *MemoryRepository) ReplaceAllJokes(ctx context.Context, jokes []domain.Joke) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.jokes = make(map[uuid.UUID]*domain.Joke, len(jokes))
	for i := range jokes {
		r.jokes[jokes[i].ID] = r.copyJoke(&jokes[i])
	}
	return nil
}

// Users

func (r *MemoryRepository) CreateUser(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.UserName == user.UserName {
			return domain.NewConflictError("user name already taken")
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *MemoryRepository) GetUserByUserName(ctx context.Context, userName string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.UserName == userName {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.NewNotFoundError("user")
}

func (r *MemoryRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("user")
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryRepository) UpdateUser(ctx context.Context, id uuid.UUID, upd domain.UserUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("user")
	}
	if upd.UserName != nil && *upd.UserName != u.UserName {
		for _, other := range r.users {
			if other.UserName == *upd.UserName {
				return nil, domain.NewConflictError("user name already taken")
			}
		}
		u.UserName = *upd.UserName
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return domain.NewNotFoundError("user")
	}
	u.PasswordHash = passwordHash
	return nil
}

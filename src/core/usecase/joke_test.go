package usecase

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"madjoke/src/core/domain"
	"madjoke/src/infra/repo"
)

func newJokeService() (*JokeService, *repo.MemoryRepository) {
	store := repo.NewMemoryRepository()
	return NewJokeService(store, slog.Default()), store
}

func TestCreateJoke(t *testing.T) {
	svc, _ := newJokeService()
	author := uuid.New()

	joke, err := svc.Create(context.Background(), author, domain.JokeUpdate{
		Setup:     "setup",
		Punchline: "punchline",
		Type:      "general",
	})
	require.NoError(t, err)

	assert.Equal(t, author, joke.Author)
	assert.Empty(t, joke.Likes)
	assert.NotNil(t, joke.Likes)
	assert.False(t, joke.Created.IsZero())
}

func TestListFiltersByType(t *testing.T) {
	svc, _ := newJokeService()
	author := uuid.New()

	for _, jokeType := range []string{"general", "dad", "general"} {
		_, err := svc.Create(context.Background(), author, domain.JokeUpdate{
			Setup: "s", Punchline: "p", Type: jokeType,
		})
		require.NoError(t, err)
	}

	general, err := svc.List(context.Background(), "general")
	require.NoError(t, err)
	assert.Len(t, general, 2)
	for _, j := range general {
		assert.Equal(t, "general", j.Type)
	}

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTypesAreDistinct(t *testing.T) {
	svc, _ := newJokeService()
	author := uuid.New()

	for _, jokeType := range []string{"general", "dad", "general", "dad", "programming"} {
		_, err := svc.Create(context.Background(), author, domain.JokeUpdate{
			Setup: "s", Punchline: "p", Type: jokeType,
		})
		require.NoError(t, err)
	}

	types, err := svc.Types(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"general", "dad", "programming"}, types)
}

func TestRandomFromEmptyStore(t *testing.T) {
	svc, _ := newJokeService()

	_, err := svc.Random(context.Background())
	assert.True(t, domain.IsNotFound(err))
}

func TestUpdateOverwritesFieldsOnly(t *testing.T) {
	svc, _ := newJokeService()
	author := uuid.New()

	joke, err := svc.Create(context.Background(), author, domain.JokeUpdate{
		Setup: "old", Punchline: "old", Type: "old",
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), joke.ID, domain.JokeUpdate{
		Setup: "new", Punchline: "new", Type: "new",
	})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Setup)
	assert.Equal(t, author, updated.Author)
	assert.Equal(t, joke.Created, updated.Created)
}

func TestDeleteUnknownJoke(t *testing.T) {
	svc, _ := newJokeService()

	err := svc.Delete(context.Background(), uuid.New())
	assert.True(t, domain.IsNotFound(err))
}

func TestToggleLikeFlipsMembership(t *testing.T) {
	svc, _ := newJokeService()
	author := uuid.New()
	liker := uuid.New()

	joke, err := svc.Create(context.Background(), author, domain.JokeUpdate{
		Setup: "s", Punchline: "p", Type: "general",
	})
	require.NoError(t, err)

	liked, err := svc.ToggleLike(context.Background(), joke.ID, liker)
	require.NoError(t, err)
	assert.True(t, liked.LikedBy(liker))
	assert.Len(t, liked.Likes, 1)

	unliked, err := svc.ToggleLike(context.Background(), joke.ID, liker)
	require.NoError(t, err)
	assert.False(t, unliked.LikedBy(liker))
	assert.Empty(t, unliked.Likes)
}

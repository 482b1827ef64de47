// Command populate is a one-shot seeding tool. It reads a static list of
// jokes from a JSON file and replaces the whole joke collection with it.
// The seeded jokes are attributed to a dedicated "madjoke" account, created
// on first run.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"madjoke/src/core/domain"
	"madjoke/src/core/usecase"
	"madjoke/src/infra/config"
	"madjoke/src/infra/db"
	"madjoke/src/infra/logger"
	"madjoke/src/infra/repo"
)

// seedAuthor is the account the seeded jokes are attributed to.
const seedAuthor = "madjoke"

type seedJoke struct {
	Setup     string `json:"setup"`
	Punchline string `json:"punchline"`
	Type      string `json:"type"`
}

func main() {
	file := flag.String("file", "populate/jokes.json", "path to the jokes JSON file")
	flag.Parse()

	if err := run(*file); err != nil {
		log.Printf("fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(file string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log)

	ctx := context.Background()
	pg, err := db.New(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer pg.Close()

	store := repo.NewPostgresRepository(pg, log)

	raw, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading jokes file: %w", err)
	}
	var seeds []seedJoke
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return fmt.Errorf("parsing jokes file: %w", err)
	}

	author, err := store.GetUserByUserName(ctx, seedAuthor)
	if err != nil {
		if !domain.IsNotFound(err) {
			return err
		}
		author, err = createSeedAuthor(ctx, store)
		if err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	jokes := make([]domain.Joke, 0, len(seeds))
	for _, s := range seeds {
		jokes = append(jokes, domain.Joke{
			ID:        uuid.New(),
			Setup:     s.Setup,
			Punchline: s.Punchline,
			Type:      s.Type,
			Author:    author.ID,
			Likes:     []uuid.UUID{},
			Created:   now,
		})
	}

	if err := store.ReplaceAllJokes(ctx, jokes); err != nil {
		return err
	}

	log.Info("jokes created", "count", len(jokes))
	return nil
}

// createSeedAuthor registers the account owning the seeded jokes with a
// random throwaway password.
func createSeedAuthor(ctx context.Context, store *repo.PostgresRepository) (*domain.User, error) {
	hash, err := usecase.HashPassword(uuid.NewString())
	if err != nil {
		return nil, err
	}
	author := &domain.User{
		ID:           uuid.New(),
		FirstName:    "Mad",
		LastName:     "Joke",
		UserName:     seedAuthor,
		Email:        "jokes@madjoke.local",
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.CreateUser(ctx, author); err != nil {
		return nil, err
	}
	return author, nil
}

package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema creates the two collections and the like set. Likes live in a
// separate table whose primary key guarantees each user appears at most once
// per joke; like toggles are single-statement inserts/deletes against it, so
// they are atomic without application-level locking.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	user_id       UUID PRIMARY KEY,
	first_name    TEXT NOT NULL,
	last_name     TEXT NOT NULL,
	user_name     TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS jokes (
	joke_id   UUID PRIMARY KEY,
	setup     TEXT NOT NULL,
	punchline TEXT NOT NULL,
	joke_type TEXT NOT NULL,
	author_id UUID NOT NULL REFERENCES users (user_id),
	created   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS joke_likes (
	joke_id UUID NOT NULL REFERENCES jokes (joke_id) ON DELETE CASCADE,
	user_id UUID NOT NULL REFERENCES users (user_id),
	PRIMARY KEY (joke_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_jokes_type ON jokes (joke_type);
CREATE INDEX IF NOT EXISTS idx_jokes_author ON jokes (author_id);
`

// EnsureSchema creates the tables if they do not exist yet. Dedicated
// migration tooling is deliberately out of scope; the schema is small and
// stable enough for idempotent bootstrap.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}

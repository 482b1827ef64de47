package repo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"madjoke/src/core/domain"
	"madjoke/src/core/ports"
	"madjoke/src/infra/db"
)

// PostgresRepository implements ports.Store using pgx.
// Jokes, users and the like set each live in their own table; the like set's
// composite primary key keeps the no-duplicate-likes invariant in the store.
type PostgresRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewPostgresRepository constructs a repository backed by Postgres.
func NewPostgresRepository(pg *db.Postgres, log *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		pool: pg.Pool,
		log:  log,
	}
}

var _ ports.Store = (*PostgresRepository)(nil)

func (r *PostgresRepository) Health(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// jokeColumns selects a joke row with its author's userName and its
// aggregated like set.
const jokeColumns = `
	j.joke_id, j.setup, j.punchline, j.joke_type, j.author_id, u.user_name, j.created,
	COALESCE(ARRAY_AGG(l.user_id) FILTER (WHERE l.user_id IS NOT NULL), '{}')
`

// jokeJoins connects a joke row to its author and like set. Every joke has
// an author row, so the users join is inner.
const jokeJoins = `
	JOIN users u ON u.user_id = j.author_id
	LEFT JOIN joke_likes l ON l.joke_id = j.joke_id
`

const jokeGroupBy = `GROUP BY j.joke_id, u.user_name`

func scanJoke(row pgx.Row) (*domain.Joke, error) {
	var j domain.Joke
	if err := row.Scan(&j.ID, &j.Setup, &j.Punchline, &j.Type, &j.Author, &j.AuthorName, &j.Created, &j.Likes); err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *PostgresRepository) queryJokes(ctx context.Context, q string, args ...any) ([]domain.Joke, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jokes := make([]domain.Joke, 0)
	for rows.Next() {
		j, err := scanJoke(rows)
		if err != nil {
			return nil, err
		}
		jokes = append(jokes, *j)
	}
	return jokes, rows.Err()
}

// Jokes

func (r *PostgresRepository) ListJokes(ctx context.Context, jokeType string) ([]domain.Joke, error) {
	q := fmt.Sprintf(`
		SELECT %s
		FROM jokes j
		%s
		%s
		ORDER BY j.created
	`, jokeColumns, jokeJoins, jokeGroupBy)
	if jokeType != "" {
		q = fmt.Sprintf(`
			SELECT %s
			FROM jokes j
			%s
			WHERE j.joke_type = $1
			%s
			ORDER BY j.created
		`, jokeColumns, jokeJoins, jokeGroupBy)
		return r.queryJokes(ctx, q, jokeType)
	}
	return r.queryJokes(ctx, q)
}

func (r *PostgresRepository) ListJokeTypes(ctx context.Context) ([]string, error) {
	const q = `SELECT DISTINCT joke_type FROM jokes ORDER BY joke_type`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	types := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (r *PostgresRepository) GetJokeByID(ctx context.Context, id uuid.UUID) (*domain.Joke, error) {
	q := fmt.Sprintf(`
		SELECT %s
		FROM jokes j
		%s
		WHERE j.joke_id = $1
		%s
	`, jokeColumns, jokeJoins, jokeGroupBy)
	joke, err := scanJoke(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("joke")
		}
		return nil, err
	}
	return joke, nil
}

func (r *PostgresRepository) RandomJoke(ctx context.Context) (*domain.Joke, error) {
	q := fmt.Sprintf(`
		SELECT %s
		FROM jokes j
		%s
		%s
		ORDER BY random()
		LIMIT 1
	`, jokeColumns, jokeJoins, jokeGroupBy)
	joke, err := scanJoke(r.pool.QueryRow(ctx, q))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("joke")
		}
		return nil, err
	}
	return joke, nil
}

func (r *PostgresRepository) ListJokesByAuthor(ctx context.Context, authorID uuid.UUID) ([]domain.Joke, error) {
	q := fmt.Sprintf(`
		SELECT %s
		FROM jokes j
		%s
		WHERE j.author_id = $1
		%s
		ORDER BY j.created
	`, jokeColumns, jokeJoins, jokeGroupBy)
	return r.queryJokes(ctx, q, authorID)
}

func (r *PostgresRepository) CreateJoke(ctx context.Context, joke *domain.Joke) error {
	const q = `
		INSERT INTO jokes (joke_id, setup, punchline, joke_type, author_id, created)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, q, joke.ID, joke.Setup, joke.Punchline, joke.Type, joke.Author, joke.Created)
	return err
}

func (r *PostgresRepository) UpdateJoke(ctx context.Context, id uuid.UUID, upd domain.JokeUpdate) (*domain.Joke, error) {
	const q = `
		UPDATE jokes
		SET setup = $2, punchline = $3, joke_type = $4
		WHERE joke_id = $1
	`
	tag, err := r.pool.Exec(ctx, q, id, upd.Setup, upd.Punchline, upd.Type)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.NewNotFoundError("joke")
	}
	return r.GetJokeByID(ctx, id)
}

func (r *PostgresRepository) DeleteJoke(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM jokes WHERE joke_id = $1`
	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("joke")
	}
	return nil
}

// ToggleLike flips like membership in a single statement per direction. The
// insert is ON CONFLICT DO NOTHING, so two concurrent likes by the same user
// collapse into one row and concurrent likes by different users never
// overwrite each other.
func (r *PostgresRepository) ToggleLike(ctx context.Context, jokeID, userID uuid.UUID) (*domain.Joke, error) {
	const insert = `
		INSERT INTO joke_likes (joke_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (joke_id, user_id) DO NOTHING
	`
	tag, err := r.pool.Exec(ctx, insert, jokeID, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		// Unknown joke surfaces as a foreign key violation.
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, domain.NewNotFoundError("joke")
		}
		return nil, err
	}

	if tag.RowsAffected() == 0 {
		// Already liked: the toggle removes the like.
		const remove = `DELETE FROM joke_likes WHERE joke_id = $1 AND user_id = $2`
		if _, err := r.pool.Exec(ctx, remove, jokeID, userID); err != nil {
			return nil, err
		}
	}

	return r.GetJokeByID(ctx, jokeID)
}

func (r *PostgresRepository) ReplaceAllJokes(ctx context.Context, jokes []domain.Joke) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM joke_likes`); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM jokes`); err != nil {
		return err
	}

	const q = `
		INSERT INTO jokes (joke_id, setup, punchline, joke_type, author_id, created)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, j := range jokes {
		if _, err := tx.Exec(ctx, q, j.ID, j.Setup, j.Punchline, j.Type, j.Author, j.Created); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Users

const userColumns = `user_id, first_name, last_name, user_name, email, password_hash, created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.UserName, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user *domain.User) error {
	const q = `
		INSERT INTO users (user_id, first_name, last_name, user_name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, q,
		user.ID, user.FirstName, user.LastName, user.UserName, user.Email, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError("user name already taken")
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) GetUserByUserName(ctx context.Context, userName string) (*domain.User, error) {
	q := fmt.Sprintf(`SELECT %s FROM users WHERE user_name = $1`, userColumns)
	user, err := scanUser(r.pool.QueryRow(ctx, q, userName))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("user")
		}
		return nil, err
	}
	return user, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	q := fmt.Sprintf(`SELECT %s FROM users WHERE user_id = $1`, userColumns)
	user, err := scanUser(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("user")
		}
		return nil, err
	}
	return user, nil
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, id uuid.UUID, upd domain.UserUpdate) (*domain.User, error) {
	const q = `
		UPDATE users
		SET first_name = COALESCE($2, first_name),
		    last_name  = COALESCE($3, last_name),
		    user_name  = COALESCE($4, user_name),
		    email      = COALESCE($5, email)
		WHERE user_id = $1
	`
	tag, err := r.pool.Exec(ctx, q, id, upd.FirstName, upd.LastName, upd.UserName, upd.Email)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.NewConflictError("user name already taken")
		}
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.NewNotFoundError("user")
	}
	return r.GetUserByID(ctx, id)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	const q = `UPDATE users SET password_hash = $2 WHERE user_id = $1`
	tag, err := r.pool.Exec(ctx, q, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("user")
	}
	return nil
}

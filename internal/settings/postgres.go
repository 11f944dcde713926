package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gning/tts-bot/internal/synth"
)

// PostgresStore persists user preferences in PostgreSQL. One row per user and
// backend keeps voice choices for both backends independently.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS user_preferences (
			user_id TEXT PRIMARY KEY,
			backend TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS user_voices (
			user_id TEXT NOT NULL,
			backend TEXT NOT NULL,
			voice TEXT NOT NULL,
			PRIMARY KEY (user_id, backend)
		);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema failed on %q: %w", stmt, err)
		}
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, userID string) (Preference, error) {
	var backendName string
	err := s.pool.QueryRow(ctx,
		`SELECT backend FROM user_preferences WHERE user_id=$1`, userID,
	).Scan(&backendName)
	if errors.Is(err, pgx.ErrNoRows) {
		return Preference{}, ErrNotFound
	}
	if err != nil {
		return Preference{}, fmt.Errorf("query preference: %w", err)
	}

	backend, err := synth.ParseBackend(backendName)
	if err != nil {
		return Preference{}, fmt.Errorf("stored preference: %w", err)
	}

	pref := Preference{Backend: backend, Voices: make(map[synth.Backend]string)}

	rows, err := s.pool.Query(ctx,
		`SELECT backend, voice FROM user_voices WHERE user_id=$1`, userID)
	if err != nil {
		return Preference{}, fmt.Errorf("query voices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, voice string
		if err := rows.Scan(&name, &voice); err != nil {
			return Preference{}, fmt.Errorf("scan voice row: %w", err)
		}
		b, err := synth.ParseBackend(name)
		if err != nil {
			continue
		}
		pref.Voices[b] = voice
	}
	if err := rows.Err(); err != nil {
		return Preference{}, fmt.Errorf("iterate voice rows: %w", err)
	}

	return pref, nil
}

func (s *PostgresStore) Put(ctx context.Context, userID string, pref Preference) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO user_preferences (user_id, backend, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (user_id) DO UPDATE SET backend=EXCLUDED.backend, updated_at=now()`,
		userID, pref.Backend.String())
	if err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}

	for backend, voice := range pref.Voices {
		_, err = tx.Exec(ctx,
			`INSERT INTO user_voices (user_id, backend, voice)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (user_id, backend) DO UPDATE SET voice=EXCLUDED.voice`,
			userID, backend.String(), voice)
		if err != nil {
			return fmt.Errorf("upsert voice: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit preference: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

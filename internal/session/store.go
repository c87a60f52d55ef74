// Package session persists chat sessions and their turns in SQLite.
//
// One session belongs to one user and holds an ordered turn log
// (query/response pairs). The store is safe for concurrent use; every
// statement runs under one mutex because SQLite serializes writers anyway.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Turn is one query/response exchange inside a session
type Turn struct {
	SessionID string
	Query     string
	Response  string
	CreatedAt time.Time
}

// Store is a SQLite-backed session log
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates (or opens) the session database at path. Parent directories
// are created as needed; ":memory:" is accepted for tests.
func Open(ctx context.Context, path string) (_ *Store, err error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create session directory: %w", err)
		}
	}

	s := &Store{}
	defer func() {
		if err != nil && s.db != nil {
			if e := s.db.Close(); e != nil {
				err = errors.Join(err, e)
			}
		}
	}()

	s.db, err = sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	if _, err = s.db.ExecContext(ctx, `PRAGMA journal_mode=WAL`); err != nil {
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}
	if err = s.initSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS turns (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			query      TEXT NOT NULL,
			response   TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES sessions (session_id)
		);
		CREATE INDEX IF NOT EXISTS idx_turns_session_id ON turns (session_id);
	`)
	if err != nil {
		return fmt.Errorf("failed to create session schema: %w", err)
	}
	return nil
}

// CreateSession registers a new session for userID and returns its id.
func (s *Store) CreateSession(ctx context.Context, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, user_id) VALUES (?, ?)`, id, userID)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

// LatestSessionID returns the most recently updated session for userID, or
// "" when the user has none.
func (s *Store) LatestSessionID(ctx context.Context, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT session_id FROM sessions
		WHERE user_id = ?
		ORDER BY updated_at DESC, created_at DESC
		LIMIT 1
	`, userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query latest session: %w", err)
	}
	return id, nil
}

// SessionIDs lists all session ids for userID, newest first.
func (s *Store) SessionIDs(ctx context.Context, userID string) (_ []string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id FROM sessions
		WHERE user_id = ?
		ORDER BY updated_at DESC, created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer func() {
		if e := rows.Close(); e != nil {
			err = errors.Join(err, e)
		}
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return ids, nil
}

// AppendTurn records one query/response exchange and bumps the session's
// updated_at so LatestSessionID keeps pointing at the active conversation.
func (s *Store) AppendTurn(ctx context.Context, sessionID, query, response string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO turns (session_id, query, response) VALUES (?, ?, ?)`,
		sessionID, query, response); err != nil {
		return fmt.Errorf("failed to append turn: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET updated_at = CURRENT_TIMESTAMP WHERE session_id = ?`,
		sessionID); err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return tx.Commit()
}

// Turns returns the session's turn log in chronological order.
func (s *Store) Turns(ctx context.Context, sessionID string) (_ []Turn, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, query, response, created_at FROM turns
		WHERE session_id = ?
		ORDER BY id ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer func() {
		if e := rows.Close(); e != nil {
			err = errors.Join(err, e)
		}
	}()

	var turns []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.SessionID, &t.Query, &t.Response, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate turns: %w", err)
	}
	return turns, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

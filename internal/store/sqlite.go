package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/avashisth/buddy-backend/internal/domain"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS employees (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		skills TEXT NOT NULL,
		summary TEXT NOT NULL,
		work_history TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS emotion_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		reason TEXT NOT NULL,
		emotion TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_emotion_events_user ON emotion_events(user_id, created_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// InsertEmployee records a new employee with their generated summary.
func (s *SQLiteStore) InsertEmployee(ctx context.Context, emp *domain.Employee) error {
	query := `
	INSERT INTO employees (name, role, skills, summary, work_history, created_at)
	VALUES (?, ?, ?, ?, ?, ?)`

	createdAt := emp.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	result, err := s.db.ExecContext(ctx, query,
		emp.Name, emp.Role, emp.Skills, emp.Summary, emp.WorkHistory, createdAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert employee: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		emp.ID = id
	}
	return nil
}

// InsertEmotionEvent writes one inferred emotion event for a user.
func (s *SQLiteStore) InsertEmotionEvent(ctx context.Context, event *domain.EmotionEvent) error {
	query := `
	INSERT INTO emotion_events (user_id, reason, emotion, created_at)
	VALUES (?, ?, ?, ?)`

	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	result, err := s.db.ExecContext(ctx, query,
		event.UserID, event.Reason, string(event.Emotion), createdAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert emotion event: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		event.ID = id
	}
	return nil
}

// ListEmotionEvents returns the emotion events recorded for a user, newest
// first.
func (s *SQLiteStore) ListEmotionEvents(ctx context.Context, userID string) ([]*domain.EmotionEvent, error) {
	query := `
	SELECT id, user_id, reason, emotion, created_at
	FROM emotion_events WHERE user_id = ?
	ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query emotion events: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close emotion events rows", "error", closeErr)
		}
	}()

	var events []*domain.EmotionEvent
	for rows.Next() {
		var event domain.EmotionEvent
		var emotion string
		var createdAt int64

		if err := rows.Scan(&event.ID, &event.UserID, &event.Reason, &emotion, &createdAt); err != nil {
			return nil, fmt.Errorf("scan emotion event row: %w", err)
		}

		event.Emotion = domain.Mood(emotion)
		event.CreatedAt = time.Unix(createdAt, 0)
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate emotion events: %w", err)
	}

	return events, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

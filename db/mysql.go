package db

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"ainote-server/models"
	"ainote-server/noteerr"
)

type MySQLManager struct {
	db *sql.DB
}

// NewMySQLManager opens the connection pool and verifies it with a ping
func NewMySQLManager(dsn string) (*MySQLManager, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &MySQLManager{db: db}, nil
}

// NewManagerFromDB wraps an already opened handle. Used by tests that run
// against an in-memory SQLite database.
func NewManagerFromDB(db *sql.DB) *MySQLManager {
	return &MySQLManager{db: db}
}

// InitTables creates the notes table if it does not exist
func (m *MySQLManager) InitTables() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS notes (
			id INT AUTO_INCREMENT PRIMARY KEY,
			user_note TEXT NOT NULL,
			ai_note TEXT,
			ai_type ENUM('gpt', 'claude', 'gemini', 'nova') DEFAULT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return noteerr.Wrap(noteerr.KindUnavailable, err, "creating notes table")
	}

	return nil
}

// CreateNote inserts a new note and returns the stored row
func (m *MySQLManager) CreateNote(ctx context.Context, userContent string) (*models.Note, error) {
	if strings.TrimSpace(userContent) == "" {
		return nil, noteerr.New(noteerr.KindInvalidInput, "note content is empty")
	}

	result, err := m.db.ExecContext(ctx, "INSERT INTO notes (user_note) VALUES (?)", userContent)
	if err != nil {
		return nil, noteerr.Wrap(noteerr.KindUnavailable, err, "saving note")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, noteerr.Wrap(noteerr.KindUnavailable, err, "reading note id")
	}

	return m.GetNote(ctx, id)
}

// GetNote loads a single note by id
func (m *MySQLManager) GetNote(ctx context.Context, id int64) (*models.Note, error) {
	row := m.db.QueryRowContext(ctx, `
		SELECT id, user_note, ai_note, ai_type, created_at, updated_at
		FROM notes
		WHERE id = ?
	`, id)

	var note models.Note
	err := row.Scan(&note.ID, &note.UserContent, &note.AINote, &note.AIType, &note.CreatedAt, &note.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, noteerr.New(noteerr.KindNotFound, "note %d not found", id)
	}
	if err != nil {
		return nil, noteerr.Wrap(noteerr.KindUnavailable, err, "loading note")
	}

	return &note, nil
}

// ListNotes returns all notes, newest first
func (m *MySQLManager) ListNotes(ctx context.Context) ([]models.Note, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, user_note, ai_note, ai_type, created_at, updated_at
		FROM notes
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, noteerr.Wrap(noteerr.KindUnavailable, err, "loading notes")
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(&note.ID, &note.UserContent, &note.AINote, &note.AIType, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, noteerr.Wrap(noteerr.KindUnavailable, err, "scanning note row")
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, noteerr.Wrap(noteerr.KindUnavailable, err, "iterating note rows")
	}

	return notes, nil
}

// DeleteNote removes a single note
func (m *MySQLManager) DeleteNote(ctx context.Context, id int64) error {
	result, err := m.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return noteerr.Wrap(noteerr.KindUnavailable, err, "deleting note")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return noteerr.Wrap(noteerr.KindUnavailable, err, "deleting note")
	}
	if affected == 0 {
		return noteerr.New(noteerr.KindNotFound, "note %d not found", id)
	}

	return nil
}

// DeleteAllNotes removes every note and returns how many were deleted
func (m *MySQLManager) DeleteAllNotes(ctx context.Context) (int64, error) {
	result, err := m.db.ExecContext(ctx, "DELETE FROM notes")
	if err != nil {
		return 0, noteerr.Wrap(noteerr.KindUnavailable, err, "deleting all notes")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, noteerr.Wrap(noteerr.KindUnavailable, err, "deleting all notes")
	}

	return affected, nil
}

// SetAnnotation writes the AI annotation for a note. This is the only
// mutation path for ai_note/ai_type; the last write wins. A concurrently
// deleted note surfaces as NotFound, never as a failure of the process.
func (m *MySQLManager) SetAnnotation(ctx context.Context, id int64, text, providerID string) error {
	result, err := m.db.ExecContext(ctx,
		"UPDATE notes SET ai_note = ?, ai_type = ? WHERE id = ?",
		text, providerID, id,
	)
	if err != nil {
		return noteerr.Wrap(noteerr.KindUnavailable, err, "saving annotation")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return noteerr.Wrap(noteerr.KindUnavailable, err, "saving annotation")
	}
	if affected == 0 {
		return noteerr.New(noteerr.KindNotFound, "note %d not found", id)
	}

	return nil
}

// Ping verifies the connection is still alive
func (m *MySQLManager) Ping() error {
	return m.db.Ping()
}

// Close closes the connection pool
func (m *MySQLManager) Close() error {
	return m.db.Close()
}

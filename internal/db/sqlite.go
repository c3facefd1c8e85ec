package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/RichardoC/docsx/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when no document has been saved yet.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    markup TEXT NOT NULL,
    text TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS messages (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    sender TEXT NOT NULL CHECK (sender IN ('user', 'assistant', 'system')),
    text TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

// MemoryDSN keeps state for the life of the process only.
const MemoryDSN = ":memory:"

type Store struct {
	db *sql.DB
}

func New(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// Every connection to :memory: is a separate database.
	if dsn == MemoryDSN {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveDocument upserts the document snapshot and sets doc.UpdatedAt.
func (s *Store) SaveDocument(doc *models.Document) error {
	query := `
        INSERT INTO documents (id, markup, text, updated_at)
        VALUES (?, ?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(id) DO UPDATE SET
            markup = excluded.markup,
            text = excluded.text,
            updated_at = excluded.updated_at
        RETURNING updated_at`

	return s.db.QueryRow(query, doc.ID, doc.Markup, doc.Text).Scan(&doc.UpdatedAt)
}

// LoadDocument returns the most recently saved document.
func (s *Store) LoadDocument() (*models.Document, error) {
	query := `
        SELECT id, markup, text, updated_at
        FROM documents
        ORDER BY updated_at DESC
        LIMIT 1`

	var doc models.Document
	err := s.db.QueryRow(query).Scan(&doc.ID, &doc.Markup, &doc.Text, &doc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// AppendMessage stores msg and fills in Seq and CreatedAt.
func (s *Store) AppendMessage(msg *models.Message) error {
	query := `
        INSERT INTO messages (id, sender, text, created_at)
        VALUES (?, ?, ?, ?)
        RETURNING seq`

	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	return s.db.QueryRow(query, msg.ID, string(msg.Sender), msg.Text, msg.CreatedAt).Scan(&msg.Seq)
}

// ListMessages returns the transcript in submission order.
func (s *Store) ListMessages() ([]models.Message, error) {
	query := `
        SELECT seq, id, sender, text, created_at
        FROM messages
        ORDER BY seq ASC`

	rows, err := s.db.Query(query)
	if err != nil {
		return []models.Message{}, err
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var msg models.Message
		var sender string
		if err := rows.Scan(&msg.Seq, &msg.ID, &sender, &msg.Text, &msg.CreatedAt); err != nil {
			return []models.Message{}, err
		}
		msg.Sender = models.Sender(sender)
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

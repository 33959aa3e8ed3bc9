// ABOUTME: Transcript storage operations for SQLite
// ABOUTME: Sessions group the messages appended by one navigator run
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/harper/hospital-navigator/internal/models"
)

// ErrSessionNotFound is returned when a session ID has no row
var ErrSessionNotFound = errors.New("session not found")

// Session summarizes one stored conversation
type Session struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
}

// TranscriptStore handles session and message persistence
type TranscriptStore struct {
	db  *DB
	now func() time.Time
}

// NewTranscriptStore creates a new TranscriptStore
func NewTranscriptStore(db *DB) *TranscriptStore {
	return &TranscriptStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// CreateSession inserts a new empty session and returns its ID
func (s *TranscriptStore) CreateSession() (string, error) {
	id := "session_" + uuid.New().String()
	now := s.now()
	_, err := s.db.Exec(`INSERT INTO sessions (id, created_at, updated_at) VALUES (?, ?, ?)`, id, now, now)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

// Append stores msg at the end of the session. Re-appending a message ID
// already in the session is a no-op.
func (s *TranscriptStore) Append(sessionID string, msg models.ConversationMessage) error {
	tx, err := s.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`UPDATE sessions SET updated_at = ? WHERE id = ?`, s.now(), sessionID)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	_, err = tx.Exec(`
		INSERT INTO messages (id, session_id, role, content, agent, is_delegation, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, id) DO NOTHING
	`, msg.ID, sessionID, string(msg.Role), msg.Content, string(msg.Agent), msg.IsDelegation, msg.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}

	return tx.Commit()
}

// ListMessages returns the session's messages in append order
func (s *TranscriptStore) ListMessages(sessionID string) ([]models.ConversationMessage, error) {
	if _, err := s.GetSession(sessionID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT id, role, content, agent, is_delegation, created_at
		FROM messages
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	messages := []models.ConversationMessage{}
	for rows.Next() {
		var (
			msg   models.ConversationMessage
			role  string
			agent sql.NullString
		)
		if err := rows.Scan(&msg.ID, &role, &msg.Content, &agent, &msg.IsDelegation, &msg.Timestamp); err != nil {
			return nil, err
		}
		msg.Role = models.Role(role)
		if agent.Valid {
			msg.Agent = models.AgentType(agent.String)
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

// GetSession returns one session summary
func (s *TranscriptStore) GetSession(sessionID string) (*Session, error) {
	var sess Session
	err := s.db.QueryRow(`
		SELECT s.id, s.created_at, s.updated_at, COUNT(m.seq)
		FROM sessions s
		LEFT JOIN messages m ON m.session_id = s.id
		WHERE s.id = ?
		GROUP BY s.id
	`, sessionID).Scan(&sess.ID, &sess.CreatedAt, &sess.UpdatedAt, &sess.MessageCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// ListSessions returns sessions most recently updated first. A limit <= 0
// returns all of them.
func (s *TranscriptStore) ListSessions(limit int) ([]Session, error) {
	query := `
		SELECT s.id, s.created_at, s.updated_at, COUNT(m.seq)
		FROM sessions s
		LEFT JOIN messages m ON m.session_id = s.id
		GROUP BY s.id
		ORDER BY s.updated_at DESC, s.rowid DESC
	`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	sessions := []Session{}
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.CreatedAt, &sess.UpdatedAt, &sess.MessageCount); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}

	return sessions, rows.Err()
}

// DeleteSession removes a session and its messages
func (s *TranscriptStore) DeleteSession(sessionID string) error {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return nil
}

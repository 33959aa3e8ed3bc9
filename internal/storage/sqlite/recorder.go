// ABOUTME: SessionRecorder appends navigator messages to one stored session
// ABOUTME: Satisfies the dispatch recorder interface
package sqlite

import "github.com/harper/hospital-navigator/internal/models"

// SessionRecorder writes every recorded message to a fixed session
type SessionRecorder struct {
	store     *TranscriptStore
	sessionID string
}

// NewSessionRecorder starts a fresh session in store
func NewSessionRecorder(store *TranscriptStore) (*SessionRecorder, error) {
	id, err := store.CreateSession()
	if err != nil {
		return nil, err
	}
	return &SessionRecorder{store: store, sessionID: id}, nil
}

// SessionID returns the session being written
func (r *SessionRecorder) SessionID() string {
	return r.sessionID
}

// Record appends msg to the session
func (r *SessionRecorder) Record(msg models.ConversationMessage) error {
	return r.store.Append(r.sessionID, msg)
}

// ABOUTME: Mirrors stored transcripts into charm KV and reads them back
// ABOUTME: A session index key lists message IDs in conversation order
package charm

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harper/hospital-navigator/internal/models"
)

// SessionIndex is stored under SessionKey and orders the session's messages
type SessionIndex struct {
	SessionID  string    `json:"session_id"`
	MessageIDs []string  `json:"message_ids"`
	PushedAt   time.Time `json:"pushed_at"`
}

// PushTranscript writes every message of a session plus its index, then
// syncs once. It returns the number of messages written.
func (c *Client) PushTranscript(sessionID string, msgs []models.ConversationMessage) (int, error) {
	if sessionID == "" {
		return 0, fmt.Errorf("session ID is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	index := SessionIndex{SessionID: sessionID, PushedAt: time.Now().UTC()}
	for _, msg := range msgs {
		data, err := json.Marshal(msg)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal message %s: %w", msg.ID, err)
		}
		if err := c.kv.Set([]byte(MessageKey(sessionID, msg.ID)), data); err != nil {
			return 0, fmt.Errorf("failed to set message %s: %w", msg.ID, err)
		}
		index.MessageIDs = append(index.MessageIDs, msg.ID)
	}

	data, err := json.Marshal(index)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal session index: %w", err)
	}
	if err := c.kv.Set([]byte(SessionKey(sessionID)), data); err != nil {
		return 0, fmt.Errorf("failed to set session index: %w", err)
	}

	c.syncIfEnabled()
	return len(msgs), nil
}

// PullTranscript reads a mirrored session back in conversation order
func (c *Client) PullTranscript(sessionID string) ([]models.ConversationMessage, error) {
	var index SessionIndex
	if err := c.GetJSON(SessionKey(sessionID), &index); err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", sessionID, err)
	}

	msgs := make([]models.ConversationMessage, 0, len(index.MessageIDs))
	for _, id := range index.MessageIDs {
		var msg models.ConversationMessage
		if err := c.GetJSON(MessageKey(sessionID, id), &msg); err != nil {
			return nil, fmt.Errorf("failed to read message %s: %w", id, err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// ListSessions returns the IDs of all mirrored sessions, sorted
func (c *Client) ListSessions() ([]string, error) {
	keys, err := c.ListKeys(SessionPrefix)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, SessionPrefix))
	}
	sort.Strings(ids)
	return ids, nil
}

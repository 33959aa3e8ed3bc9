// ABOUTME: ConversationMessage is one immutable entry in the chat log
// ABOUTME: Constructors stamp a unique ID and UTC timestamp
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a message
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// WelcomeText opens every conversation. It is not part of any turn.
const WelcomeText = "Hello. I am the Hospital System Navigator. How can I assist you today? I can help with medical records, billing, patient information, or appointments."

// ConversationMessage is a single chat bubble
type ConversationMessage struct {
	ID           string    `json:"id"`
	Role         Role      `json:"role"`
	Content      string    `json:"content"`
	Agent        AgentType `json:"agent,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	IsDelegation bool      `json:"is_delegation"`
}

// NewUserMessage records text submitted by the user
func NewUserMessage(content string) ConversationMessage {
	return newMessage(RoleUser, content, "", false)
}

// NewModelMessage records a plain navigator reply
func NewModelMessage(content string) ConversationMessage {
	return newMessage(RoleModel, content, AgentNavigator, false)
}

// NewDelegationMessage records the confirmation shown when routing to agent
func NewDelegationMessage(agent AgentType, content string) ConversationMessage {
	return newMessage(RoleModel, content, agent, true)
}

// NewWelcomeMessage returns the greeting that seeds a conversation
func NewWelcomeMessage() ConversationMessage {
	msg := NewModelMessage(WelcomeText)
	msg.ID = "welcome"
	return msg
}

func newMessage(role Role, content string, agent AgentType, delegation bool) ConversationMessage {
	return ConversationMessage{
		ID:           generateMessageID(),
		Role:         role,
		Content:      content,
		Agent:        agent,
		Timestamp:    time.Now().UTC(),
		IsDelegation: delegation,
	}
}

// generateMessageID generates a sortable unique message identifier
func generateMessageID() string {
	return fmt.Sprintf("msg_%s_%s", time.Now().Format("20060102_150405"), uuid.New().String()[:8])
}

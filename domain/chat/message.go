// Package chat contains core concepts of the messaging store.
// This file defines Message entities and their read state.
// Identity is immutable, text and read flag are updated in place by the service.
package chat

import "fmt"

type UserID int

type MessageID int

// Message is a single entry of a two-party chat.
type Message struct {
	ID         MessageID // assigned once, never reused
	FromUserID UserID
	ToUserID   UserID
	Text       string
	IsRead     bool
}

func NewMessage(id MessageID, from, to UserID, text string) Message {
	return Message{ID: id, FromUserID: from, ToUserID: to, Text: text}
}

// Pair returns the key of the chat holding the message.
func (m Message) Pair() Pair {
	return NewPair(m.FromUserID, m.ToUserID)
}

func (m Message) AddressedTo(userID UserID) bool {
	return m.ToUserID == userID
}

// IsUnreadFor reports whether the message still waits for userID to read it.
func (m Message) IsUnreadFor(userID UserID) bool {
	return m.AddressedTo(userID) && !m.IsRead
}

// MarkRead flips the read flag and reports whether it changed.
// There is no way back to unread.
func (m *Message) MarkRead() bool {
	if m.IsRead {
		return false
	}
	m.IsRead = true
	return true
}

func (m Message) String() string {
	return fmt.Sprintf("From %d to %d: %s", m.FromUserID, m.ToUserID, m.Text)
}

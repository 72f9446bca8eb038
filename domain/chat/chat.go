package chat

import "github.com/samber/lo"

// NoMessages is displayed for a chat whose messages were all deleted.
const NoMessages = "no messages"

// Chat is the unique thread between two users.
// User1ID and User2ID keep the order of the first message; lookups never depend on it.
type Chat struct {
	User1ID  UserID
	User2ID  UserID
	Messages []Message // chronological
}

func NewChat(first, second UserID) Chat {
	return Chat{User1ID: first, User2ID: second}
}

func (c Chat) Pair() Pair {
	return NewPair(c.User1ID, c.User2ID)
}

func (c Chat) HasUser(userID UserID) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// Companion returns the other participant, false when userID isn't part of the chat.
func (c Chat) Companion(userID UserID) (UserID, bool) {
	switch userID {
	case c.User1ID:
		return c.User2ID, true
	case c.User2ID:
		return c.User1ID, true
	default:
		return 0, false
	}
}

func (c Chat) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// Summary renders the last message, or NoMessages for an empty chat.
func (c Chat) Summary() string {
	last, ok := c.LastMessage()
	if !ok {
		return NoMessages
	}
	return last.String()
}

func (c Chat) HasUnreadFor(userID UserID) bool {
	return lo.ContainsBy(c.Messages, func(m Message) bool {
		return m.IsUnreadFor(userID)
	})
}

// TakeLast returns a copy of the trailing n messages in chronological order.
// A non-positive n yields an empty slice.
func (c Chat) TakeLast(n int) []Message {
	if n <= 0 {
		return []Message{}
	}
	start := max(0, len(c.Messages)-n)
	return append([]Message{}, c.Messages[start:]...)
}

// Clone copies the message slice so the caller can't alias stored state.
func (c Chat) Clone() Chat {
	c.Messages = append([]Message(nil), c.Messages...)
	return c
}

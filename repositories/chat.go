//go:generate go run go.uber.org/mock/mockgen -source=chat.go -destination=../mocks/mock_chat_repository.go -package=mocks
package repositories

import (
	"chat-store/domain/chat"
	"chat-store/errors"
	"fmt"
	"log/slog"
)

const (
	MemoryBackend = "memory"
	BadgerBackend = "badger"
)

// IChatRepository stores the chat collection.
// Chats are listed in creation order and every value crossing the interface is a copy,
// so mutations are only visible through later calls.
type IChatRepository interface {
	// GetOrCreateChat returns the chat for pair, creating it with (first, second) when absent.
	// The boolean is true when the chat has just been created.
	GetOrCreateChat(pair chat.Pair, first, second chat.UserID) (chat.Chat, bool, error)
	FindChat(pair chat.Pair) (chat.Chat, error)
	ListChats() ([]chat.Chat, error)
	ListChatsFor(userID chat.UserID) ([]chat.Chat, error)
	AppendMessage(message chat.Message) error
	FindMessage(id chat.MessageID) (chat.Message, error)
	SaveMessage(message chat.Message) error
	DeleteMessage(id chat.MessageID) error
	DeleteChat(pair chat.Pair) error
	Close() error
}

// NewChatRepository opens the repository matching backend.
func NewChatRepository(backend string, log *slog.Logger) (IChatRepository, error) {
	switch backend {
	case MemoryBackend:
		return NewMemoryChatRepository(log), nil
	case BadgerBackend:
		return OpenBadgerChatRepository(log)
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownBackend, backend)
	}
}

package services

import (
	"chat-store/domain/chat"
	"chat-store/errors"
	"chat-store/repositories"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/samber/lo"
)

type IChatService interface {
	CreateMessage(fromUserID, toUserID chat.UserID, text string) (chat.Message, error)
	EditMessage(messageID chat.MessageID, newText string) (bool, error)
	DeleteMessage(messageID chat.MessageID) (bool, error)
	DeleteChat(userID, companionUserID chat.UserID) (bool, error)
	GetChats(userID chat.UserID) ([]chat.UserID, error)
	GetUnreadChatsCount(userID chat.UserID) (int, error)
	GetLastMessages(userID chat.UserID) ([]string, error)
	GetMessagesFromChat(userID, companionUserID chat.UserID, countMessages int) ([]chat.Message, error)
}

var _ IChatService = (*ChatService)(nil)

// ChatService owns the message counter and the chat rules on top of a repository.
// Unknown chats or messages are reported with false or an empty result,
// errors only come from the storage backend.
type ChatService struct {
	mu                   sync.Mutex
	log                  *slog.Logger
	repository           repositories.IChatRepository
	messageAutoIncrement chat.MessageID
}

func NewChatService(log *slog.Logger, repository repositories.IChatRepository) *ChatService {
	return &ChatService{log: log, repository: repository}
}

// CreateMessage appends an unread message to the chat of the two users,
// creating the chat on the first exchange.
func (s *ChatService) CreateMessage(fromUserID, toUserID chat.UserID, text string) (chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pair := chat.NewPair(fromUserID, toUserID)
	_, created, err := s.repository.GetOrCreateChat(pair, fromUserID, toUserID)
	if err != nil {
		return chat.Message{}, fmt.Errorf("chat lookup failed: %w", err)
	}
	if created {
		s.log.Debug("Chat created", "pair", pair.String())
	}

	// Ids are never handed out twice, even when the append below fails
	s.messageAutoIncrement++
	message := chat.NewMessage(s.messageAutoIncrement, fromUserID, toUserID, text)
	if err = s.repository.AppendMessage(message); err != nil {
		return chat.Message{}, fmt.Errorf("message append failed: %w", err)
	}
	return message, nil
}

func (s *ChatService) EditMessage(messageID chat.MessageID, newText string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	message, err := s.repository.FindMessage(messageID)
	if stderrors.Is(err, errors.ErrMessageNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("message lookup failed: %w", err)
	}
	message.Text = newText
	if err = s.repository.SaveMessage(message); err != nil {
		return false, fmt.Errorf("message update failed: %w", err)
	}
	s.log.Debug("Message edited", "id", messageID)
	return true, nil
}

// DeleteMessage removes the message wherever it is. The chat is kept even when it becomes empty.
func (s *ChatService) DeleteMessage(messageID chat.MessageID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.repository.DeleteMessage(messageID)
	if stderrors.Is(err, errors.ErrMessageNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("message deletion failed: %w", err)
	}
	s.log.Debug("Message deleted", "id", messageID)
	return true, nil
}

// DeleteChat drops the chat between the two users together with all its messages.
func (s *ChatService) DeleteChat(userID, companionUserID chat.UserID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.repository.DeleteChat(chat.NewPair(userID, companionUserID))
	if stderrors.Is(err, errors.ErrChatNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("chat deletion failed: %w", err)
	}
	return true, nil
}

// GetChats lists the companions of userID in chat creation order.
func (s *ChatService) GetChats(userID chat.UserID) ([]chat.UserID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.repository.ListChatsFor(userID)
	if err != nil {
		return nil, fmt.Errorf("chats listing failed: %w", err)
	}
	return lo.FilterMap(chats, func(c chat.Chat, _ int) (chat.UserID, bool) {
		return c.Companion(userID)
	}), nil
}

// GetUnreadChatsCount counts chats, not messages: a chat with several unread messages counts once.
func (s *ChatService) GetUnreadChatsCount(userID chat.UserID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.repository.ListChatsFor(userID)
	if err != nil {
		return 0, fmt.Errorf("chats listing failed: %w", err)
	}
	return lo.CountBy(chats, func(c chat.Chat) bool {
		return c.HasUnreadFor(userID)
	}), nil
}

// GetLastMessages renders the latest message of every chat of userID, one line per chat.
func (s *ChatService) GetLastMessages(userID chat.UserID) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.repository.ListChatsFor(userID)
	if err != nil {
		return nil, fmt.Errorf("chats listing failed: %w", err)
	}
	return lo.Map(chats, func(c chat.Chat, _ int) string {
		return c.Summary()
	}), nil
}

// GetMessagesFromChat returns the last countMessages messages of the chat in chronological order.
// Every returned message addressed to userID is marked read, messages sent by userID are left as is.
func (s *ChatService) GetMessagesFromChat(userID, companionUserID chat.UserID, countMessages int) ([]chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found, err := s.repository.FindChat(chat.NewPair(userID, companionUserID))
	if stderrors.Is(err, errors.ErrChatNotFound) {
		return []chat.Message{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("chat lookup failed: %w", err)
	}

	lastMessages := found.TakeLast(countMessages)
	marked := 0
	for i := range lastMessages {
		if !lastMessages[i].AddressedTo(userID) || !lastMessages[i].MarkRead() {
			continue
		}
		if err = s.repository.SaveMessage(lastMessages[i]); err != nil {
			return nil, fmt.Errorf("read marking failed: %w", err)
		}
		marked++
	}
	if marked > 0 {
		s.log.Debug("Messages marked as read", "user", userID, "companion", companionUserID, "count", marked)
	}
	return lastMessages, nil
}

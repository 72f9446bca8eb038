package repositories

import (
	"chat-store/domain/chat"
	"chat-store/errors"
	"log/slog"
	"slices"

	"github.com/samber/lo"
)

var _ IChatRepository = (*MemoryChatRepository)(nil)

// MemoryChatRepository keeps chats in a slice (creation order) with a pair index on top.
// It isn't safe for concurrent use, the service serializes access.
type MemoryChatRepository struct {
	log   *slog.Logger
	chats []*chat.Chat
	pairs map[chat.Pair]*chat.Chat
}

func NewMemoryChatRepository(log *slog.Logger) *MemoryChatRepository {
	return &MemoryChatRepository{
		log:   log,
		chats: nil,
		pairs: make(map[chat.Pair]*chat.Chat),
	}
}

func (r *MemoryChatRepository) GetOrCreateChat(pair chat.Pair, first, second chat.UserID) (chat.Chat, bool, error) {
	if c, ok := r.pairs[pair]; ok {
		return c.Clone(), false, nil
	}
	c := lo.ToPtr(chat.NewChat(first, second))
	r.chats = append(r.chats, c)
	r.pairs[pair] = c
	return c.Clone(), true, nil
}

func (r *MemoryChatRepository) FindChat(pair chat.Pair) (chat.Chat, error) {
	c, ok := r.pairs[pair]
	if !ok {
		return chat.Chat{}, errors.ErrChatNotFound
	}
	return c.Clone(), nil
}

func (r *MemoryChatRepository) ListChats() ([]chat.Chat, error) {
	return lo.Map(r.chats, func(c *chat.Chat, _ int) chat.Chat {
		return c.Clone()
	}), nil
}

func (r *MemoryChatRepository) ListChatsFor(userID chat.UserID) ([]chat.Chat, error) {
	return lo.FilterMap(r.chats, func(c *chat.Chat, _ int) (chat.Chat, bool) {
		return c.Clone(), c.HasUser(userID)
	}), nil
}

func (r *MemoryChatRepository) AppendMessage(message chat.Message) error {
	c, ok := r.pairs[message.Pair()]
	if !ok {
		return errors.ErrChatNotFound
	}
	c.Messages = append(c.Messages, message)
	return nil
}

func (r *MemoryChatRepository) FindMessage(id chat.MessageID) (chat.Message, error) {
	c, i, ok := r.locate(id)
	if !ok {
		return chat.Message{}, errors.ErrMessageNotFound
	}
	return c.Messages[i], nil
}

// SaveMessage overwrites the stored message carrying the same ID.
func (r *MemoryChatRepository) SaveMessage(message chat.Message) error {
	c, i, ok := r.locate(message.ID)
	if !ok {
		return errors.ErrMessageNotFound
	}
	c.Messages[i] = message
	return nil
}

func (r *MemoryChatRepository) DeleteMessage(id chat.MessageID) error {
	c, i, ok := r.locate(id)
	if !ok {
		return errors.ErrMessageNotFound
	}
	c.Messages = slices.Delete(c.Messages, i, i+1)
	return nil
}

func (r *MemoryChatRepository) DeleteChat(pair chat.Pair) error {
	c, ok := r.pairs[pair]
	if !ok {
		return errors.ErrChatNotFound
	}
	delete(r.pairs, pair)
	r.chats = slices.DeleteFunc(r.chats, func(candidate *chat.Chat) bool {
		return candidate == c
	})
	r.log.Debug("Chat removed", "pair", pair.String(), "messages", len(c.Messages))
	return nil
}

func (r *MemoryChatRepository) Close() error {
	r.chats = nil
	r.pairs = make(map[chat.Pair]*chat.Chat)
	return nil
}

// locate scans chats in order and returns the first message with id.
func (r *MemoryChatRepository) locate(id chat.MessageID) (*chat.Chat, int, bool) {
	for _, c := range r.chats {
		if i := slices.IndexFunc(c.Messages, func(m chat.Message) bool { return m.ID == id }); i >= 0 {
			return c, i, true
		}
	}
	return nil, 0, false
}

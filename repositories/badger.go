package repositories

import (
	"chat-store/domain/chat"
	"chat-store/errors"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

const (
	chatPrefix         = "chat:"
	pairPrefix         = "pair:"
	messagePrefix      = "msg:"
	messageIndexPrefix = "idx:msg:"
	chatSequenceKey    = "seq:chat"
	sequenceBandwidth  = 100
)

var _ IChatRepository = (*BadgerChatRepository)(nil)

// BadgerChatRepository stores chats in an in-memory BadgerDB.
// Keys are laid out so that prefix scans return chats in creation order
// and messages in chronological order:
//
//	chat:{order}          -> chat header (participants)
//	pair:{low}:{high}     -> order
//	msg:{order}:{id}      -> message
//	idx:msg:{id}          -> order
//
// order and id are zero padded to 19 digits to keep lexicographical order numeric.
type BadgerChatRepository struct {
	db  *badger.DB
	seq *badger.Sequence
	log *slog.Logger
}

// OpenBadgerChatRepository opens Badger in in-memory mode, nothing is written to disk.
func OpenBadgerChatRepository(log *slog.Logger) (*BadgerChatRepository, error) {
	db, err := badger.Open(badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		return nil, fmt.Errorf("badger opening failed: %w", err)
	}
	seq, err := db.GetSequence([]byte(chatSequenceKey), sequenceBandwidth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("chat sequence unavailable: %w", err)
	}
	log.Info("Badger chat store opened", "mode", "in-memory")
	return &BadgerChatRepository{db: db, seq: seq, log: log}, nil
}

func (r *BadgerChatRepository) GetOrCreateChat(pair chat.Pair, first, second chat.UserID) (chat.Chat, bool, error) {
	existing, err := r.FindChat(pair)
	if err == nil {
		return existing, false, nil
	}
	if !stderrors.Is(err, errors.ErrChatNotFound) {
		return chat.Chat{}, false, err
	}

	// Sequence starts at 0, orders start at 1
	next, err := r.seq.Next()
	if err != nil {
		return chat.Chat{}, false, fmt.Errorf("chat order allocation failed: %w", err)
	}
	order := next + 1
	created := chat.NewChat(first, second)
	err = r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(pairKey(pair), []byte(strconv.FormatUint(order, 10))); err != nil {
			return err
		}
		return txn.Set(chatKey(order), marshalChat(created))
	})
	if err != nil {
		return chat.Chat{}, false, fmt.Errorf("chat creation failed: %w", err)
	}
	return created, true, nil
}

func (r *BadgerChatRepository) FindChat(pair chat.Pair) (chat.Chat, error) {
	var found chat.Chat
	err := r.db.View(func(txn *badger.Txn) error {
		order, err := chatOrder(txn, pair)
		if err != nil {
			return err
		}
		item, err := txn.Get(chatKey(order))
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if found, err = unmarshalChat(raw); err != nil {
			return err
		}
		found.Messages, err = loadMessages(txn, order)
		return err
	})
	return found, err
}

// ListChats scans the chat headers first, then loads the messages of each chat,
// so that only one iterator is open at a time.
func (r *BadgerChatRepository) ListChats() ([]chat.Chat, error) {
	var chats []chat.Chat
	err := r.db.View(func(txn *badger.Txn) error {
		type header struct {
			order uint64
			chat  chat.Chat
		}
		var headers []header

		prefix := []byte(chatPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			order, err := strconv.ParseUint(string(item.Key()[len(prefix):]), 10, 64)
			if err != nil {
				it.Close()
				return fmt.Errorf("%w: chat key %q", errors.ErrCorruptedRecord, item.Key())
			}
			raw, err := item.ValueCopy(nil)
			if err != nil {
				it.Close()
				return err
			}
			c, err := unmarshalChat(raw)
			if err != nil {
				it.Close()
				return err
			}
			headers = append(headers, header{order: order, chat: c})
		}
		it.Close()

		for _, h := range headers {
			messages, err := loadMessages(txn, h.order)
			if err != nil {
				return err
			}
			h.chat.Messages = messages
			chats = append(chats, h.chat)
		}
		return nil
	})
	return chats, err
}

func (r *BadgerChatRepository) ListChatsFor(userID chat.UserID) ([]chat.Chat, error) {
	chats, err := r.ListChats()
	if err != nil {
		return nil, err
	}
	return lo.Filter(chats, func(c chat.Chat, _ int) bool {
		return c.HasUser(userID)
	}), nil
}

func (r *BadgerChatRepository) AppendMessage(message chat.Message) error {
	return r.db.Update(func(txn *badger.Txn) error {
		order, err := chatOrder(txn, message.Pair())
		if err != nil {
			return err
		}
		if err = txn.Set(messageKey(order, message.ID), marshalMessage(message)); err != nil {
			return err
		}
		return txn.Set(messageIndexKey(message.ID), []byte(strconv.FormatUint(order, 10)))
	})
}

func (r *BadgerChatRepository) FindMessage(id chat.MessageID) (chat.Message, error) {
	var found chat.Message
	err := r.db.View(func(txn *badger.Txn) error {
		order, err := messageOrder(txn, id)
		if err != nil {
			return err
		}
		item, err := txn.Get(messageKey(order, id))
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		found, err = unmarshalMessage(raw)
		return err
	})
	return found, err
}

func (r *BadgerChatRepository) SaveMessage(message chat.Message) error {
	return r.db.Update(func(txn *badger.Txn) error {
		order, err := messageOrder(txn, message.ID)
		if err != nil {
			return err
		}
		return txn.Set(messageKey(order, message.ID), marshalMessage(message))
	})
}

func (r *BadgerChatRepository) DeleteMessage(id chat.MessageID) error {
	return r.db.Update(func(txn *badger.Txn) error {
		order, err := messageOrder(txn, id)
		if err != nil {
			return err
		}
		if err = txn.Delete(messageKey(order, id)); err != nil {
			return err
		}
		return txn.Delete(messageIndexKey(id))
	})
}

func (r *BadgerChatRepository) DeleteChat(pair chat.Pair) error {
	return r.db.Update(func(txn *badger.Txn) error {
		order, err := chatOrder(txn, pair)
		if err != nil {
			return err
		}

		// Keys are collected before deleting, a read-write txn allows a single iterator
		prefix := messagesPrefix(order)
		var ids []string
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			ids = append(ids, string(it.Item().Key()[len(prefix):]))
		}
		it.Close()

		for _, id := range ids {
			if err := txn.Delete([]byte(string(prefix) + id)); err != nil {
				return err
			}
			if err := txn.Delete([]byte(messageIndexPrefix + id)); err != nil {
				return err
			}
		}
		if err := txn.Delete(chatKey(order)); err != nil {
			return err
		}
		if err := txn.Delete(pairKey(pair)); err != nil {
			return err
		}
		r.log.Debug("Chat removed", "pair", pair.String(), "messages", len(ids))
		return nil
	})
}

func (r *BadgerChatRepository) Close() error {
	if err := r.seq.Release(); err != nil {
		r.log.Warn("Chat sequence release failed", "error", err)
	}
	r.log.Info("Closing BadgerDB...")
	return r.db.Close()
}

func loadMessages(txn *badger.Txn, order uint64) ([]chat.Message, error) {
	messages := []chat.Message{}
	prefix := messagesPrefix(order)
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		raw, err := it.Item().ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		message, err := unmarshalMessage(raw)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func chatOrder(txn *badger.Txn, pair chat.Pair) (uint64, error) {
	return readOrder(txn, pairKey(pair), errors.ErrChatNotFound)
}

func messageOrder(txn *badger.Txn, id chat.MessageID) (uint64, error) {
	return readOrder(txn, messageIndexKey(id), errors.ErrMessageNotFound)
}

// readOrder reads a decimal chat order, a missing key maps to notFound.
func readOrder(txn *badger.Txn, key []byte, notFound error) (uint64, error) {
	item, err := txn.Get(key)
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return 0, notFound
	}
	if err != nil {
		return 0, err
	}
	raw, err := item.ValueCopy(nil)
	if err != nil {
		return 0, err
	}
	order, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: order under %q", errors.ErrCorruptedRecord, key)
	}
	return order, nil
}

func chatKey(order uint64) []byte {
	return []byte(fmt.Sprintf("%s%019d", chatPrefix, order))
}

func pairKey(pair chat.Pair) []byte {
	return []byte(pairPrefix + pair.String())
}

func messagesPrefix(order uint64) []byte {
	return []byte(fmt.Sprintf("%s%019d:", messagePrefix, order))
}

func messageKey(order uint64, id chat.MessageID) []byte {
	return []byte(fmt.Sprintf("%s%019d:%019d", messagePrefix, order, id))
}

func messageIndexKey(id chat.MessageID) []byte {
	return []byte(fmt.Sprintf("%s%019d", messageIndexPrefix, id))
}

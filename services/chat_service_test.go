package services

import (
	"chat-store/domain/chat"
	"chat-store/repositories"
	"log/slog"
	"slices"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

var backends = []string{repositories.MemoryBackend, repositories.BadgerBackend}

func newService(t *testing.T, backend string) *ChatService {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	repository, err := repositories.NewChatRepository(backend, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repository.Close() })
	return NewChatService(log, repository)
}

// forEachBackend runs fn once per storage backend, results must not depend on it.
func forEachBackend(t *testing.T, fn func(t *testing.T, svc *ChatService)) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			fn(t, newService(t, backend))
		})
	}
}

func TestChatService_CreateMessage_Creates_Chat(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *ChatService) {
		req := require.New(t)

		msg, err := svc.CreateMessage(1, 2, "Hello")
		req.NoError(err)
		req.Equal(chat.Message{ID: 1, FromUserID: 1, ToUserID: 2, Text: "Hello", IsRead: false}, msg)

		chats1, err := svc.GetChats(1)
		req.NoError(err)
		req.Equal([]chat.UserID{2}, chats1)

		chats2, err := svc.GetChats(2)
		req.NoError(err)
		req.Equal([]chat.UserID{1}, chats2)
	})
}

func TestChatService_CreateMessage_Reuses_Chat_Both_Ways(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *ChatService) {
		req := require.New(t)

		_, err := svc.CreateMessage(1, 2, "Hello")
		req.NoError(err)
		_, err = svc.CreateMessage(2, 1, "Hi")
		req.NoError(err)

		chats, err := svc.GetChats(1)
		req.NoError(err)
		req.Equal([]chat.UserID{2}, chats)

		messages, err := svc.GetMessagesFromChat(2, 1, 10)
		req.NoError(err)
		req.Len(messages, 2)
	})
}

func TestChatService_CreateMessage_To_Self(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *ChatService) {
		req := require.New(t)

		_, err := svc.CreateMessage(4, 4, "note to self")
		req.NoError(err)

		chats, err := svc.GetChats(4)
		req.NoError(err)
		req.Equal([]chat.UserID{4}, chats)

		count, err := svc.GetUnreadChatsCount(4)
		req.NoError(err)
		req.Equal(1, count)
	})
}

func TestChatService_Message_IDs_Are_Never_Reused(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *ChatService) {
		req := require.New(t)
		var ids []chat.MessageID

		for i := 0; i < 5; i++ {
			msg, err := svc.CreateMessage(chat.UserID(i%3), chat.UserID(i%2+10), "ping")
			req.NoError(err)
			ids = append(ids, msg.ID)
		}

		// Given the latest messages are deleted
		for _, id := range ids[3:] {
			deleted, err := svc.DeleteMessage(id)
			req.NoError(err)
			req.True(deleted)
		}
		deleted, err := svc.DeleteChat(0, 10)
		req.NoError(err)
		req.True(deleted)

		// Then the counter keeps going
		msg, err := svc.CreateMessage(1, 2, "after deletion")
		req.NoError(err)
		ids = append(ids, msg.ID)

		req.Equal([]chat.MessageID{1, 2, 3, 4, 5, 6}, ids)
		req.True(slices.IsSorted(ids))
	})
}

func TestChatService_EditMessage(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *ChatService) {
		req := require.New(t)
		msg, err := svc.CreateMessage(1, 2, "Hello")
		req.NoError(err)

		edited, err := svc.EditMessage(msg.ID, "Hi")
		req.NoError(err)
		req.True(edited)

		// Reading as the sender doesn't mark the message
		messages, err := svc.GetMessagesFromChat(1, 2, 10)
		req.NoError(err)
		req.Len(messages, 1)
		req.Equal("Hi", messages[0].Text)
		req.False(messages[0].IsRead)
	})
}

func TestChatService_EditMessage_Keeps_Read_Flag(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *ChatService) {
		req := require.New(t)
		msg, err := svc.CreateMessage(1, 2, "Hello")
		req.NoError(err)

		// Given the recipient read the message
		_, err = svc.GetMessagesFromChat(2, 1, 10)
		req.NoError(err)

		// When the sender edits it
		edited, err := svc.EditMessage(msg.ID, "Hello, edited")
		req.NoError(err)
		req.True(edited)

		// Then it is still read
		messages, err := svc.GetMessagesFromChat(1, 2, 10)
		req.NoError(err)
		req.Equal("Hello, edited", messages[0].Text)
		req.True(messages[0].IsRead)
	})
}

func TestChatService_EditMessage_Unknown(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *ChatService) {
		req := require.New(t)
		_, err := svc.CreateMessage(1, 2, "Hello")
		req.NoError(err)

		edited, err := svc.EditMessage(999, "New text")
		req.NoError(err)
		req.False(edited)

		lines, err := svc.GetLastMessages(1)
		req.NoError(err)
		req.Equal([]string{"From 1 to 2: Hello"}, lines)
	})
}

func TestChatService_DeleteMessage(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *ChatService) {
		req := require.New(t)
		msg, err := svc.CreateMessage(1, 2, "Hello")
		req.NoError(err)
		kept, err := svc.CreateMessage(2, 1, "Hi")
		req.NoError(err)

		deleted, err := svc.DeleteMessage(msg.ID)
		req.NoError(err)
		req.True(deleted)

		messages, err := svc.GetMessagesFromChat(1, 2, 10)
		req.NoError(err)
		req.Len(messages, 1)
		req.Equal(kept.ID, messages[0].ID)

		// Editing or deleting it again finds nothing
		edited, err := svc.EditMessage(msg.ID, "zombie")
		req.NoError(err)
		req.False(edited)
		deleted, err = svc.DeleteMessage(msg.ID)
		req.NoError(err)
		req.False(deleted)
	})
}

func TestChatService_DeleteMessage_Unknown(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *ChatService) {
		req := require.New(t)

		deleted, err := svc.DeleteMessage(999)
		req.NoError(err)
		req.False(deleted)
	})
}

func TestChatService_DeleteChat(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *ChatService) {
		req := require.New(t)
		msg, err := svc.CreateMessage(1, 2, "Hello")
		req.NoError(err)
		_, err = svc.CreateMessage(3, 1, "Hey")
		req.NoError(err)

		deleted, err := svc.DeleteChat(2, 1)
		req.NoError(err)
		req.True(deleted)

		chats1, err := svc.GetChats(1)
		req.NoError(err)
		req.Equal([]chat.UserID{3}, chats1)
		chats2, err := svc.GetChats(2)
		req.NoError(err)
		req.Empty(chats2)

		// Messages of the chat are gone too
		edited, err := svc.EditMessage(msg.ID, "zombie")
		req.NoError(err)
		req.False(edited)
		messages, err := svc.GetMessagesFromChat(1, 2, 10)
		req.NoError(err)
		req.Empty(messages)
	})
}

func TestChatService_DeleteChat_Unknown(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *ChatService) {
		req := require.New(t)
		_, err := svc.CreateMessage(1, 2, "Hello")
		req.NoError(err)

		deleted, err := svc.DeleteChat(1, 3)
		req.NoError(err)
		req.False(deleted)

		chats, err := svc.GetChats(1)
		req.NoError(err)
		req.Equal([]chat.UserID{2}, chats)
	})
}

func TestChatService_GetChats_And_Unread_Count(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *ChatService) {
		req := require.New(t)
		_, err := svc.CreateMessage(1, 2, "Hello")
		req.NoError(err)
		_, err = svc.CreateMessage(2, 1, "Hi")
		req.NoError(err)
		_, err = svc.CreateMessage(3, 1, "Hey")
		req.NoError(err)

		chats, err := svc.GetChats(1)
		req.NoError(err)
		slices.Sort(chats)
		req.Equal([]chat.UserID{2, 3}, chats)

		// "Hi" and "Hey" are both addressed to 1 and unread
		count, err := svc.GetUnreadChatsCount(1)
		req.NoError(err)
		req.Equal(2, count)

		// "Hello" is the only unread message of user 2
		count, err = svc.GetUnreadChatsCount(2)
		req.NoError(err)
		req.Equal(1, count)

		count, err = svc.GetUnreadChatsCount(42)
		req.NoError(err)
		req.Zero(count)
	})
}

func TestChatService_GetUnreadChatsCount_Counts_Chats(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *ChatService) {
		req := require.New(t)
		for i := 0; i < 5; i++ {
			_, err := svc.CreateMessage(2, 1, "spam")
			req.NoError(err)
		}

		count, err := svc.GetUnreadChatsCount(1)
		req.NoError(err)
		req.Equal(1, count)

		// When user 1 reads the chat
		_, err = svc.GetMessagesFromChat(1, 2, 10)
		req.NoError(err)

		count, err = svc.GetUnreadChatsCount(1)
		req.NoError(err)
		req.Zero(count)
	})
}

func TestChatService_GetLastMessages(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *ChatService) {
		req := require.New(t)
		_, err := svc.CreateMessage(1, 2, "Hello")
		req.NoError(err)
		_, err = svc.CreateMessage(2, 1, "Hi")
		req.NoError(err)
		_, err = svc.CreateMessage(3, 1, "Hey")
		req.NoError(err)

		lines, err := svc.GetLastMessages(1)
		req.NoError(err)
		req.Equal([]string{"From 2 to 1: Hi", "From 3 to 1: Hey"}, lines)

		lines, err = svc.GetLastMessages(42)
		req.NoError(err)
		req.Empty(lines)
	})
}

func TestChatService_GetLastMessages_Empty_Chat(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *ChatService) {
		req := require.New(t)
		msg, err := svc.CreateMessage(5, 6, "temp")
		req.NoError(err)

		deleted, err := svc.DeleteMessage(msg.ID)
		req.NoError(err)
		req.True(deleted)

		lines, err := svc.GetLastMessages(5)
		req.NoError(err)
		req.Equal([]string{chat.NoMessages}, lines)

		// The empty chat is still listed
		chats, err := svc.GetChats(6)
		req.NoError(err)
		req.Equal([]chat.UserID{5}, chats)
	})
}

func TestChatService_GetMessagesFromChat_Marks_Only_Recipient_Messages(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *ChatService) {
		req := require.New(t)
		msg1, err := svc.CreateMessage(1, 2, "one")
		req.NoError(err)
		msg2, err := svc.CreateMessage(2, 1, "two")
		req.NoError(err)
		msg3, err := svc.CreateMessage(1, 2, "three")
		req.NoError(err)

		messages, err := svc.GetMessagesFromChat(2, 1, 2)
		req.NoError(err)

		// The last two, oldest first, with the one addressed to 2 now read
		req.Equal([]chat.MessageID{msg2.ID, msg3.ID}, []chat.MessageID{messages[0].ID, messages[1].ID})
		req.False(messages[0].IsRead)
		req.True(messages[1].IsRead)

		// Reading as user 1 shows msg1 untouched by the previous call
		all, err := svc.GetMessagesFromChat(1, 2, 10)
		req.NoError(err)
		req.Len(all, 3)
		req.Equal(msg1.ID, all[0].ID)
		req.False(all[0].IsRead)
		req.True(all[1].IsRead)
		req.True(all[2].IsRead)
	})
}

func TestChatService_GetMessagesFromChat_Is_Idempotent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *ChatService) {
		req := require.New(t)
		_, err := svc.CreateMessage(1, 2, "Hello")
		req.NoError(err)
		_, err = svc.CreateMessage(2, 1, "Hi")
		req.NoError(err)

		first, err := svc.GetMessagesFromChat(1, 2, 10)
		req.NoError(err)
		second, err := svc.GetMessagesFromChat(1, 2, 10)
		req.NoError(err)

		req.Equal(first, second)
		req.False(second[0].IsRead)
		req.True(second[1].IsRead)
	})
}

func TestChatService_GetMessagesFromChat_Count_Bounds(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *ChatService) {
		req := require.New(t)
		_, err := svc.CreateMessage(2, 1, "Hi")
		req.NoError(err)

		for _, count := range []int{0, -3} {
			messages, err := svc.GetMessagesFromChat(1, 2, count)
			req.NoError(err)
			req.NotNil(messages)
			req.Empty(messages)
		}

		// Nothing was returned, so nothing was read
		count, err := svc.GetUnreadChatsCount(1)
		req.NoError(err)
		req.Equal(1, count)

		messages, err := svc.GetMessagesFromChat(1, 2, 100)
		req.NoError(err)
		req.Len(messages, 1)
	})
}

func TestChatService_GetMessagesFromChat_Unknown_Chat(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *ChatService) {
		req := require.New(t)

		messages, err := svc.GetMessagesFromChat(1, 2, 10)
		req.NoError(err)
		req.NotNil(messages)
		req.Empty(messages)
	})
}

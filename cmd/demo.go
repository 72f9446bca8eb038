package main

import (
	"chat-store/domain/chat"
	"chat-store/services"
	"chat-store/ui"
)

const (
	alice chat.UserID = 1
	bob   chat.UserID = 2
	clara chat.UserID = 3
)

// replay runs the demonstration: three users exchange messages, then alice reads her chat with bob.
func replay(service services.IChatService, console *ui.Console, historySize int) error {
	exchanges := []struct {
		from, to chat.UserID
		text     string
	}{
		{alice, bob, "Hello!"},
		{bob, alice, "Hello! How are you?"},
		{clara, alice, "Hi there!"},
	}
	for _, e := range exchanges {
		if _, err := service.CreateMessage(e.from, e.to, e.text); err != nil {
			return err
		}
	}

	companions, err := service.GetChats(alice)
	if err != nil {
		return err
	}
	console.Title("Chats of user 1:")
	console.Companions(companions)

	if err = printUnread(service, console, "Unread chats of user 1:"); err != nil {
		return err
	}

	lines, err := service.GetLastMessages(alice)
	if err != nil {
		return err
	}
	console.Title("Last messages of user 1:")
	console.Lines(lines)

	messages, err := service.GetMessagesFromChat(alice, bob, historySize)
	if err != nil {
		return err
	}
	console.Title("Messages of the chat with user 2:")
	console.Messages(messages)

	// Reading the chat with bob leaves only clara's chat unread
	return printUnread(service, console, "Unread chats after reading:")
}

func printUnread(service services.IChatService, console *ui.Console, title string) error {
	count, err := service.GetUnreadChatsCount(alice)
	if err != nil {
		return err
	}
	console.Title(title)
	console.Count(count)
	return nil
}

package ui

import (
	"bytes"
	"chat-store/domain/chat"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestConsole_Plain_Output(t *testing.T) {
	req := require.New(t)
	var out bytes.Buffer
	console := NewConsole(&out, Config{Colours: false})

	console.Title("Chats of user 1:")
	console.Companions([]chat.UserID{2, 3})
	console.Count(2)
	console.Lines([]string{"From 2 to 1: Hi", "From 3 to 1: Hey"})

	req.Equal("Chats of user 1:\n[2 3]\n2\nFrom 2 to 1: Hi\nFrom 3 to 1: Hey\n", out.String())
}

func TestConsole_Messages_Table(t *testing.T) {
	req := require.New(t)
	var out bytes.Buffer
	console := NewConsole(&out, Config{})

	console.Messages([]chat.Message{
		{ID: 1, FromUserID: 1, ToUserID: 2, Text: "Hello!"},
		{ID: 2, FromUserID: 2, ToUserID: 1, Text: "Hello! How are you?", IsRead: true},
	})

	lines := lo.Compact(strings.Split(out.String(), "\n"))
	req.Len(lines, 3)
	req.Contains(lines[0], "ID")
	req.Contains(lines[0], "READ")
	req.Contains(lines[1], "Hello!")
	req.Contains(lines[1], "false")
	req.Contains(lines[2], "Hello! How are you?")
	req.Contains(lines[2], "true")
}

func TestConsole_Messages_Empty(t *testing.T) {
	req := require.New(t)
	var out bytes.Buffer

	NewConsole(&out, Config{}).Messages(nil)

	req.Equal(chat.NoMessages+"\n", out.String())
}

func TestLoadConfig_Colours_From_Environment(t *testing.T) {
	req := require.New(t)
	t.Setenv("CHAT_COLOURS", "false")

	cfg, err := LoadConfig()

	req.NoError(err)
	req.False(cfg.Colours)
}

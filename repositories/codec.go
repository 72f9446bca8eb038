package repositories

import (
	"chat-store/domain/chat"
	"chat-store/errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the records stored in Badger.
// Records are plain protobuf wire format, readable by any proto decoder.
const (
	messageIDField     protowire.Number = 1
	messageFromField   protowire.Number = 2
	messageToField     protowire.Number = 3
	messageTextField   protowire.Number = 4
	messageIsReadField protowire.Number = 5

	chatUser1Field protowire.Number = 1
	chatUser2Field protowire.Number = 2
)

func marshalMessage(m chat.Message) []byte {
	var b []byte
	b = protowire.AppendTag(b, messageIDField, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(m.ID))
	b = protowire.AppendTag(b, messageFromField, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(m.FromUserID)))
	b = protowire.AppendTag(b, messageToField, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(m.ToUserID)))
	b = protowire.AppendTag(b, messageTextField, protowire.BytesType)
	b = protowire.AppendString(b, m.Text)
	if m.IsRead {
		b = protowire.AppendTag(b, messageIsReadField, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(true))
	}
	return b
}

func unmarshalMessage(b []byte) (chat.Message, error) {
	var m chat.Message
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch {
		case num == messageIDField && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			m.ID = chat.MessageID(v)
			return n
		case num == messageFromField && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			m.FromUserID = chat.UserID(protowire.DecodeZigZag(v))
			return n
		case num == messageToField && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			m.ToUserID = chat.UserID(protowire.DecodeZigZag(v))
			return n
		case num == messageTextField && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			m.Text = v
			return n
		case num == messageIsReadField && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			m.IsRead = protowire.DecodeBool(v)
			return n
		default:
			return protowire.ConsumeFieldValue(num, typ, b)
		}
	})
	return m, err
}

func marshalChat(c chat.Chat) []byte {
	var b []byte
	b = protowire.AppendTag(b, chatUser1Field, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(c.User1ID)))
	b = protowire.AppendTag(b, chatUser2Field, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(c.User2ID)))
	return b
}

// unmarshalChat decodes the chat header only, messages live under their own keys.
func unmarshalChat(b []byte) (chat.Chat, error) {
	var c chat.Chat
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) int {
		switch {
		case num == chatUser1Field && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			c.User1ID = chat.UserID(protowire.DecodeZigZag(v))
			return n
		case num == chatUser2Field && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			c.User2ID = chat.UserID(protowire.DecodeZigZag(v))
			return n
		default:
			return protowire.ConsumeFieldValue(num, typ, b)
		}
	})
	return c, err
}

// consumeFields walks every field of b, handing the value bytes to fn.
// fn returns how many bytes it consumed, a negative length is a protowire error code.
func consumeFields(b []byte, fn func(protowire.Number, protowire.Type, []byte) int) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", errors.ErrCorruptedRecord, protowire.ParseError(n))
		}
		b = b[n:]
		n = fn(num, typ, b)
		if n < 0 {
			return fmt.Errorf("%w: field %d: %v", errors.ErrCorruptedRecord, num, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return nil
}

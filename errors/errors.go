package errors

import "fmt"

var (
	ErrChatNotFound    = fmt.Errorf("chat not found")
	ErrMessageNotFound = fmt.Errorf("message not found")
	ErrCorruptedRecord = fmt.Errorf("corrupted record")
	ErrUnknownBackend  = fmt.Errorf("unknown store backend")
)

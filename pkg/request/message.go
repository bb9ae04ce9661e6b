package request

import "fmt"

// Message represents a message response.
type Message struct {
	Message string `json:"Message" xml:"Message"`
}

// NewMessage creates a new Message.
func NewMessage(message string, args ...any) *Message {
	var msg string
	if len(args) > 0 {
		msg = fmt.Sprintf(message, args...)
	} else {
		msg = message
	}
	return &Message{
		Message: msg,
	}
}

// MessageError is a message returned together with the error that caused it.
type MessageError struct {
	Message string `json:"Message" xml:"Message"`
	Error   string `json:"Error" xml:"Error"`
}

// NewMessageError creates a new MessageError.
func NewMessageError(message string, err error) *MessageError {
	return &MessageError{
		Message: message,
		Error:   err.Error(),
	}
}

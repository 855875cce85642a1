package rooms

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

// MaxMessageChars is the longest message body, in characters, a user may enter.
const MaxMessageChars = 128

var (
	ErrMalformedMessage = errors.New("malformed message")
	ErrMessageTooLong   = errors.New("message too long")
)

// User is a room member identified by display name only.
type User struct {
	Name string `json:"user"`
}

func NewUser(name string) User { return User{Name: name} }

// RawMessage is the untrusted inbound frame body.
type RawMessage struct {
	Message string `json:"message"`
}

// Message is what gets fanned out. The user fields are flattened into the
// same JSON object as the message body:
//
//	{"user":"alice","message":"hi"}
type Message struct {
	User
	Message string `json:"message"`
}

// EnterMessage builds a Message authored by u, or reports false when the
// body is over MaxMessageChars.
func (u User) EnterMessage(raw RawMessage) (Message, bool) {
	if utf8.RuneCountInString(raw.Message) > MaxMessageChars {
		return Message{}, false
	}
	return Message{User: u, Message: raw.Message}, true
}

// DecodeRawMessage parses one inbound text frame.
func DecodeRawMessage(frame []byte) (RawMessage, error) {
	var wire struct {
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(frame, &wire); err != nil {
		return RawMessage{}, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}
	if wire.Message == nil {
		return RawMessage{}, fmt.Errorf("%w: missing message field", ErrMalformedMessage)
	}
	return RawMessage{Message: *wire.Message}, nil
}

// ParseMessage decodes frame and authors it as u. The returned error is
// ErrMalformedMessage or ErrMessageTooLong.
func ParseMessage(u User, frame []byte) (Message, error) {
	raw, err := DecodeRawMessage(frame)
	if err != nil {
		return Message{}, err
	}
	msg, ok := u.EnterMessage(raw)
	if !ok {
		return Message{}, ErrMessageTooLong
	}
	return msg, nil
}

// Encode renders the outbound frame body.
func (m Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

package memory

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
)

const (
	// DefaultFilename is the save path used when none is given.
	DefaultFilename = "messages.save.txt"
	// DefaultSystemPrompt seeds a conversation that has no usable save file.
	DefaultSystemPrompt = "You are a helpful assistant."
	// DefaultRetain is how many messages survive a completion round.
	DefaultRetain = 10
)

// ErrEmptyConversation is returned when persisting a conversation with no messages.
var ErrEmptyConversation = errors.New("memory: refusing to persist empty conversation")

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat turn as stored on disk and sent to the model.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// LoadConversation reads and decodes the message array stored at path.
// A missing file surfaces as an error satisfying errors.Is(err, os.ErrNotExist).
func LoadConversation(path string) ([]Message, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var msgs []Message
	if err := json.Unmarshal(b, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// SaveConversation writes msgs to path as indented JSON, creating parent
// directories as needed.
func SaveConversation(path string, msgs []Message) error {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, msgs); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, bytes.TrimRight(buf.Bytes(), "\n"), 0o644)
}

// WriteJSON encodes msgs with four-space indentation and no HTML escaping,
// followed by a newline.
func WriteJSON(w io.Writer, msgs []Message) error {
	if msgs == nil {
		msgs = []Message{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(msgs)
}

// isDecodeError reports whether err came from parsing rather than reading.
func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}

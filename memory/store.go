package memory

import (
	"errors"
	"fmt"
	"os"
)

// Reason explains how Load arrived at the in-memory conversation.
type Reason int

const (
	// ReasonLoaded means the save file was read and parsed.
	ReasonLoaded Reason = iota
	// ReasonMissing means the save file did not exist.
	ReasonMissing
	// ReasonCorrupt means the save file could not be parsed as a message array.
	ReasonCorrupt
)

func (r Reason) String() string {
	switch r {
	case ReasonLoaded:
		return "loaded"
	case ReasonMissing:
		return "missing"
	case ReasonCorrupt:
		return "corrupt"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// LoadResult distinguishes a conversation read from disk from one reset to
// the default system message.
type LoadResult struct {
	Reason Reason
	// Cause is the decode error when Reason is ReasonCorrupt.
	Cause error
	// Count is the number of messages held after loading.
	Count int
}

// Defaulted reports whether the conversation was reset to the default.
func (r LoadResult) Defaulted() bool { return r.Reason != ReasonLoaded }

// Store owns the conversation bound to one save file.
type Store struct {
	path         string
	systemPrompt string
	msgs         []Message
}

// Option configures a Store.
type Option func(*Store)

// WithSystemPrompt overrides the message used to seed a fresh conversation.
func WithSystemPrompt(prompt string) Option {
	return func(s *Store) {
		if prompt != "" {
			s.systemPrompt = prompt
		}
	}
}

// NewStore returns an empty conversation backed by path.
func NewStore(path string, opts ...Option) *Store {
	if path == "" {
		path = DefaultFilename
	}
	s := &Store{path: path, systemPrompt: DefaultSystemPrompt}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the save file location.
func (s *Store) Path() string { return s.path }

// Load replaces the in-memory conversation with the save file contents.
// Missing or unparsable files reset it to the default system message; other
// read failures are returned as errors.
func (s *Store) Load() (LoadResult, error) {
	msgs, err := LoadConversation(s.path)
	switch {
	case err == nil:
		s.msgs = msgs
		return LoadResult{Reason: ReasonLoaded, Count: len(msgs)}, nil
	case errors.Is(err, os.ErrNotExist):
		s.reset()
		return LoadResult{Reason: ReasonMissing, Count: len(s.msgs)}, nil
	case isDecodeError(err):
		s.reset()
		return LoadResult{Reason: ReasonCorrupt, Cause: err, Count: len(s.msgs)}, nil
	default:
		return LoadResult{}, fmt.Errorf("load conversation %s: %w", s.path, err)
	}
}

func (s *Store) reset() {
	s.msgs = []Message{{Role: RoleSystem, Content: s.systemPrompt}}
}

// Append adds one message to the end of the conversation.
func (s *Store) Append(role Role, content string) {
	s.msgs = append(s.msgs, Message{Role: role, Content: content})
}

// Set replaces the conversation wholesale.
func (s *Store) Set(msgs []Message) {
	s.msgs = append([]Message(nil), msgs...)
}

// Len returns the number of messages held.
func (s *Store) Len() int { return len(s.msgs) }

// Messages returns a copy of the full conversation.
func (s *Store) Messages() []Message {
	return append([]Message{}, s.msgs...)
}

// LastN returns a copy of the final n messages, or all of them when the
// conversation is shorter.
func (s *Store) LastN(n int) []Message {
	if n <= 0 {
		return []Message{}
	}
	start := len(s.msgs) - n
	if start < 0 {
		start = 0
	}
	return append([]Message{}, s.msgs[start:]...)
}

// LastContents returns the content of each of the final n messages.
func (s *Store) LastContents(n int) []string {
	last := s.LastN(n)
	out := make([]string, len(last))
	for i, m := range last {
		out[i] = m.Content
	}
	return out
}

// Truncate keeps only the final k messages.
func (s *Store) Truncate(k int) {
	if k < 0 {
		k = 0
	}
	if len(s.msgs) > k {
		s.msgs = append([]Message(nil), s.msgs[len(s.msgs)-k:]...)
	}
}

// Persist overwrites the save file with the full conversation.
func (s *Store) Persist() error {
	if len(s.msgs) == 0 {
		return ErrEmptyConversation
	}
	if err := SaveConversation(s.path, s.msgs); err != nil {
		return fmt.Errorf("persist conversation %s: %w", s.path, err)
	}
	return nil
}

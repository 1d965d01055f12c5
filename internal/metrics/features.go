// Package metrics derives local size features from prompts and conversations.
package metrics

import (
	"strings"
	"unicode/utf8"

	"github.com/colindelotavo/chatgpt-cli/memory"
)

// Features holds basic text features derived from a string.
type Features struct {
	Bytes int `json:"bytes"`
	Runes int `json:"runes"`
	Words int `json:"words"`
	Lines int `json:"lines"`
}

// Add returns the field-wise sum of f and o.
func (f Features) Add(o Features) Features {
	return Features{
		Bytes: f.Bytes + o.Bytes,
		Runes: f.Runes + o.Runes,
		Words: f.Words + o.Words,
		Lines: f.Lines + o.Lines,
	}
}

// CountFeatures computes byte, rune, word, and line counts for s.
func CountFeatures(s string) Features {
	return Features{
		Bytes: len(s),
		Runes: utf8.RuneCountInString(s),
		Words: len(strings.Fields(s)),
		Lines: countLines(s),
	}
}

// countLines returns 0 for empty strings; otherwise 1 plus the number of '\n' runes.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return 1 + strings.Count(s, "\n")
}

// ConversationFeatures aggregates content features per role.
type ConversationFeatures struct {
	Messages int                      `json:"messages"`
	ByRole   map[memory.Role]int      `json:"by_role"`
	Content  Features                 `json:"content"`
	PerRole  map[memory.Role]Features `json:"per_role"`
}

// CountConversation sums the content features of msgs.
func CountConversation(msgs []memory.Message) ConversationFeatures {
	out := ConversationFeatures{
		Messages: len(msgs),
		ByRole:   make(map[memory.Role]int),
		PerRole:  make(map[memory.Role]Features),
	}
	for _, m := range msgs {
		f := CountFeatures(m.Content)
		out.ByRole[m.Role]++
		out.PerRole[m.Role] = out.PerRole[m.Role].Add(f)
		out.Content = out.Content.Add(f)
	}
	return out
}

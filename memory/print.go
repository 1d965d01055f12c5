package memory

import (
	"fmt"
	"io"
	"strings"
)

// WriteRecentContent writes the content of the final n messages, one per line.
func (s *Store) WriteRecentContent(w io.Writer, n int) error {
	_, err := fmt.Fprintln(w, strings.Join(s.LastContents(n), "\n"))
	return err
}

// WriteRecentMessages writes the final n messages as indented JSON, or a
// notice when the conversation is empty.
func (s *Store) WriteRecentMessages(w io.Writer, n int) error {
	if len(s.msgs) == 0 {
		_, err := fmt.Fprintln(w, "Brand new chat. No previous messages.")
		return err
	}
	return WriteJSON(w, s.LastN(n))
}

package chat

import (
	"context"
	"fmt"
	"io"

	"github.com/colindelotavo/chatgpt-cli/internal/provider"
	"github.com/colindelotavo/chatgpt-cli/memory"
)

// CheckAuth sends a throwaway prompt and prints whether the service accepted
// the credentials. It reports failure on w instead of returning it.
func CheckAuth(ctx context.Context, client provider.Completer, model string, w io.Writer) bool {
	_, err := client.Complete(ctx, model, []memory.Message{{Role: memory.RoleUser, Content: "Hello"}})
	if err != nil {
		fmt.Fprintln(w, "Authentication failed:", err.Error())
		return false
	}
	fmt.Fprintln(w, "Authentication successful!")
	return true
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colindelotavo/chatgpt-cli/internal/provider"
	"github.com/colindelotavo/chatgpt-cli/memory"
)

type stubCompleter struct {
	reply string
	err   error
	sent  []memory.Message
}

func (s *stubCompleter) Complete(_ context.Context, _ string, msgs []memory.Message) (json.RawMessage, error) {
	s.sent = msgs
	if s.err != nil {
		return nil, s.err
	}
	b, _ := json.Marshal(map[string]any{
		"choices": []any{map[string]any{"message": map[string]any{"role": "assistant", "content": s.reply}}},
	})
	return b, nil
}

func run(t *testing.T, stub *stubCompleter, args ...string) (string, string, error) {
	t.Helper()
	for _, k := range []string{"CHATGPT_CONFIG", "CHATGPT_PROVIDER", "CHATGPT_MODEL", "CHATGPT_BASE_URL", "CHATGPT_SYSTEM_PROMPT", "CHATGPT_LOG_LEVEL", "ANTHROPIC_API_KEY"} {
		t.Setenv(k, "")
	}
	t.Setenv("OPENAI_API_KEY", "sk-test")

	var out, errOut bytes.Buffer
	var gotSettings provider.Settings
	cmd := newRootCmd(deps{
		out:    &out,
		errOut: &errOut,
		newClient: func(s provider.Settings) (provider.Completer, error) {
			gotSettings = s
			return stub, nil
		},
	})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	if err == nil && stub != nil && stub.sent != nil {
		assert.Equal(t, "sk-test", gotSettings.APIKey)
	}
	return out.String(), errOut.String(), err
}

func TestRoot_CompletesAndSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.json")
	stub := &stubCompleter{reply: "Dodgers."}

	out, _, err := run(t, stub, "-f", path, "Who won the world series in 2020?")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "Q: Who won the world series in 2020?\nA: Dodgers.\n\n"), out)

	saved, err := memory.LoadConversation(path)
	require.NoError(t, err)
	require.Len(t, saved, 3)
	assert.Equal(t, memory.RoleSystem, saved[0].Role)
}

func TestRoot_InspectRequest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.json")
	out, _, err := run(t, &stubCompleter{reply: "ok"}, "--filename", path, "--inspect-request", "hi")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "[\n"), out)
}

func TestRoot_NoInspectRequest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.json")
	out, _, err := run(t, &stubCompleter{reply: "ok"}, "-f", path, "--no-inspect-request", "hi")
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(out, "[\n"), out)
}

func TestRoot_InspectFlags_LastWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.json")
	out, _, err := run(t, &stubCompleter{reply: "ok"}, "-f", path, "--inspect-request", "--no-inspect-request", "hi")
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(out, "[\n"), out)

	out, _, err = run(t, &stubCompleter{reply: "ok"}, "-f", path, "--no-inspect-request", "--inspect-request", "hi")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "[\n"), out)

	out, _, err = run(t, &stubCompleter{reply: "ok"}, "-f", path, "--inspect-request=false", "hi")
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(out, "[\n"), out)
}

func TestRoot_RequiresPrompt(t *testing.T) {
	_, _, err := run(t, &stubCompleter{})
	assert.Error(t, err)
}

func TestRoot_MissingAPIKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.json")
	var out, errOut bytes.Buffer
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("CHATGPT_PROVIDER", "")
	cmd := newRootCmd(deps{out: &out, errOut: &errOut, newClient: provider.New})
	cmd.SetArgs([]string{"-f", path, "hi"})

	err := cmd.ExecuteContext(context.Background())
	assert.ErrorContains(t, err, "missing OPENAI_API_KEY")
}

func TestRoot_ClientErrorPropagates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.json")
	_, _, err := run(t, &stubCompleter{err: errors.New("connection refused")}, "-f", path, "hi")
	assert.ErrorContains(t, err, "connection refused")
}

func TestRoot_PromptNamedLikeFlagWords(t *testing.T) {
	for _, prompt := range []string{"history", "auth"} {
		t.Run(prompt, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "m.json")
			stub := &stubCompleter{reply: "ok"}

			out, _, err := run(t, stub, "-f", path, prompt)
			require.NoError(t, err)
			require.NotEmpty(t, stub.sent, "prompt reached the API")
			assert.Equal(t, prompt, stub.sent[len(stub.sent)-1].Content)
			assert.True(t, strings.HasSuffix(out, "Q: "+prompt+"\nA: ok\n\n"), out)
		})
	}
}

func TestCheckAuth_ReportsResult(t *testing.T) {
	out, _, err := run(t, &stubCompleter{reply: "hello"}, "--check-auth")
	require.NoError(t, err)
	assert.Equal(t, "Authentication successful!\n", out)

	out, _, err = run(t, &stubCompleter{err: errors.New("invalid key")}, "--check-auth")
	require.NoError(t, err, "auth failures are reported, not returned")
	assert.Equal(t, "Authentication failed: invalid key\n", out)
}

func TestShowHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.json")
	out, _, err := run(t, nil, "--show-history", "2", "-f", path)
	require.NoError(t, err)
	assert.Equal(t, "Brand new chat. No previous messages.\n", out)

	require.NoError(t, memory.SaveConversation(path, []memory.Message{
		{Role: memory.RoleSystem, Content: "sys"},
		{Role: memory.RoleUser, Content: "q"},
		{Role: memory.RoleAssistant, Content: "a"},
	}))

	out, _, err = run(t, nil, "--show-history", "2", "-f", path, "--content")
	require.NoError(t, err)
	assert.Equal(t, "q\na\n", out)

	out, _, err = run(t, nil, "--show-history", "1", "-f", path)
	require.NoError(t, err)
	var got []memory.Message
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []memory.Message{{Role: memory.RoleAssistant, Content: "a"}}, got)
}

func TestShowHistory_ThenAsks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.json")
	stub := &stubCompleter{reply: "ok"}

	out, _, err := run(t, stub, "--show-history", "1", "-f", path, "next")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Brand new chat. No previous messages.\n"), out)
	assert.True(t, strings.HasSuffix(out, "Q: next\nA: ok\n\n"), out)
	require.NotEmpty(t, stub.sent)
}

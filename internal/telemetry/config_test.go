package telemetry_test

import (
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colindelotavo/chatgpt-cli/internal/telemetry"
)

// Run TestProbe in a clean env so startup-only telemetry config is deterministic.
func runWithEnv(t *testing.T, env map[string]string) (string, error) {
	t.Helper()
	cmd := exec.Command(os.Args[0], "-test.run=^TestProbe$")
	// Avoid setting empty CHATGPT_* vars; only PATH is inherited.
	base := []string{"GO_WANT_HELPER_PROCESS=1"}
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, "PATH=") {
			base = append(base, kv)
			break
		}
	}
	for k, v := range env {
		base = append(base, k+"="+v)
	}
	cmd.Env = base
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestStartupConfig_Matrix(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"baseline_off", map[string]string{}, "observe=false persist=false dir=.chatgpt"},
		{"observe_only", map[string]string{"CHATGPT_OBSERVE_JSON": "1"}, "observe=true persist=false dir=.chatgpt"},
		{"persist_only", map[string]string{"CHATGPT_PERSIST_API_PAYLOADS": "1"}, "observe=false persist=true dir=.chatgpt"},
		{"explicit_zero", map[string]string{"CHATGPT_OBSERVE_JSON": "0"}, "observe=false persist=false dir=.chatgpt"},
		{"custom_dir", map[string]string{"CHATGPT_ARTIFACTS_DIR": "/tmp/x"}, "observe=false persist=false dir=/tmp/x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runWithEnv(t, tt.env)
			require.NoError(t, err, got)
			require.True(t, containsLine(got, tt.want), "want line %q in:\n%s", tt.want, got)
		})
	}
}

// TestProbe runs only as a subprocess and prints the startup config.
func TestProbe(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	fmt.Printf(
		"observe=%v persist=%v dir=%s\n",
		telemetry.ObserveEnabled(),
		telemetry.PersistPayloadsEnabled(),
		telemetry.ArtifactsDir(),
	)
}

// containsLine reports whether output has a line exactly equal to want.
func containsLine(output, want string) bool {
	return slices.Contains(strings.Split(output, "\n"), want)
}

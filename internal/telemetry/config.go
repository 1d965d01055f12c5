package telemetry

import (
	"os"
)

const defaultArtifactsDir = ".chatgpt"

var (
	observeEnabled         bool
	persistPayloadsEnabled bool
)

func init() {
	// Read once at process start. Mid-run environment changes have no effect
	// except the explicit "1" overrides honoured below.
	observeEnabled = os.Getenv("CHATGPT_OBSERVE_JSON") == "1"

	// Persisting payloads implies nothing about events; each flag stands alone.
	persistPayloadsEnabled = os.Getenv("CHATGPT_PERSIST_API_PAYLOADS") == "1"
}

// ObserveEnabled reports whether JSONL event emission is on.
func ObserveEnabled() bool {
	// Preserve startup-evaluated default, but allow tests to enable mid-run via env override.
	if os.Getenv("CHATGPT_OBSERVE_JSON") == "1" {
		return true
	}
	return observeEnabled
}

// PersistPayloadsEnabled reports whether request and response bodies are written to disk.
func PersistPayloadsEnabled() bool {
	if os.Getenv("CHATGPT_PERSIST_API_PAYLOADS") == "1" {
		return true
	}
	return persistPayloadsEnabled
}

// ArtifactsDir is where events and payloads are written. CHATGPT_ARTIFACTS_DIR
// overrides the default .chatgpt directory under the working directory.
func ArtifactsDir() string {
	if v := os.Getenv("CHATGPT_ARTIFACTS_DIR"); v != "" {
		return v
	}
	return defaultArtifactsDir
}

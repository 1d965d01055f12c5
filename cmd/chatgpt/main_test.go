package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotenv_LogsUnreadableFile(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	// A directory passes the existence check but cannot be read as a file.
	loadDotenv(log, t.TempDir())
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "dotenv not applied")
}

func TestLoadDotenv_MissingFileIsQuiet(t *testing.T) {
	var buf bytes.Buffer
	loadDotenv(zerolog.New(&buf), filepath.Join(t.TempDir(), ".env"))
	assert.Empty(t, buf.String())
}

func TestLoadDotenv_AppliesValues(t *testing.T) {
	p := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(p, []byte("CHATGPT_DOTENV_CHECK=yes\n"), 0o644))
	t.Setenv("CHATGPT_DOTENV_CHECK", "")
	require.NoError(t, os.Unsetenv("CHATGPT_DOTENV_CHECK"))

	var buf bytes.Buffer
	loadDotenv(zerolog.New(&buf), p)
	assert.Empty(t, buf.String())
	assert.Equal(t, "yes", os.Getenv("CHATGPT_DOTENV_CHECK"))
}

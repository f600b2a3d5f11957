package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/jrsteele09/go-crm-sync/internal/logging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSetupWriter_JSONOutsideDev(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.SetupWriter(&buf, "PROD", "debug")

	logger.Debug().Str("session", "abc").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "hello", entry["message"])
	require.Equal(t, "abc", entry["session"])
	require.Equal(t, "debug", entry["level"])
}

func TestSetupWriter_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.SetupWriter(&buf, "PROD", "chatty")

	logger.Debug().Msg("hidden")
	require.Empty(t, buf.String())

	logger.Info().Msg("shown")
	require.Contains(t, buf.String(), "shown")
}

func TestSetupWriter_ContextFallback(t *testing.T) {
	var buf bytes.Buffer
	logging.SetupWriter(&buf, "PROD", "info")

	zerolog.Ctx(context.Background()).Info().Msg("from context")
	require.Contains(t, buf.String(), "from context")
}

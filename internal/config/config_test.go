package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/go-crm-sync/internal/config"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FromFileWithEnvOverlay(t *testing.T) {
	path := writeConfigFile(t, `
app:
  port: "4000"
  env: PROD
oauth:
  client_id: file-client
  client_secret: file-secret
  scope: "contacts, crm.objects.custom.read"
crm:
  event_object_type: p123_events
  api_key: file-key
store:
  backend: redis
`)
	t.Setenv("CRM_API_KEY", "env-key")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, ":4000", cfg.GetPort())
	require.Equal(t, "PROD", cfg.GetEnv())
	require.Equal(t, "file-client", cfg.GetClientID())
	require.Equal(t, "file-secret", cfg.GetClientSecret())
	require.Equal(t, []string{"contacts", "crm.objects.custom.read"}, cfg.GetScopes())
	require.Equal(t, "p123_events", cfg.GetEventObjectType())
	require.Equal(t, "env-key", cfg.GetAPIKey())
	require.Equal(t, config.RedisStoreBackend, cfg.GetStoreBackend())

	// defaults
	require.Equal(t, "https://api.hubapi.com/oauth/v1/token", cfg.GetTokenURL())
	require.Equal(t, "event_to_contact", cfg.GetEventAssociationType())
	require.Equal(t, "events_attended", cfg.GetEventsAttendedProperty())
	require.Equal(t, 500, cfg.GetAssociationPageSize())
	require.Equal(t, 30*time.Second, cfg.GetRequestTimeout())
	require.Equal(t, 15*time.Minute, cfg.GetStateTimeout())
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("CLIENT_ID", "env-client")
	t.Setenv("CLIENT_SECRET", "env-secret")
	t.Setenv("PORT", "8081")

	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, "env-client", cfg.GetClientID())
	require.Equal(t, ":8081", cfg.GetPort())
	require.Equal(t, config.MemoryStoreBackend, cfg.GetStoreBackend())
}

func TestLoad_MissingClientCredentials(t *testing.T) {
	path := writeConfigFile(t, "app:\n  port: \"3000\"\n")
	t.Setenv("CLIENT_ID", "")
	t.Setenv("CLIENT_SECRET", "")

	_, err := config.Load(path)
	require.Error(t, err)
}

func TestLoad_EmptyClientCredentialsFromEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("CLIENT_ID", "")
	t.Setenv("CLIENT_SECRET", "env-secret")

	cfg, err := config.Load("")
	require.ErrorContains(t, err, "CLIENT_ID")
	require.Nil(t, cfg)

	t.Setenv("CLIENT_ID", "env-client")
	t.Setenv("CLIENT_SECRET", "")

	_, err = config.Load("")
	require.ErrorContains(t, err, "CLIENT_SECRET")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestOAuth_GetScopes(t *testing.T) {
	tests := []struct {
		name  string
		scope string
		want  []string
	}{
		{"default when empty", "", []string{"contacts"}},
		{"space separated", "contacts content", []string{"contacts", "content"}},
		{"comma separated", "contacts,content, oauth", []string{"contacts", "content", "oauth"}},
		{"url encoded spaces", "contacts%20content", []string{"contacts", "content"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, config.OAuth{Scope: tt.scope}.GetScopes())
		})
	}
}

package main

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-crm-sync/internal/config"
	"github.com/jrsteele09/go-crm-sync/token/memstore"
	"github.com/stretchr/testify/require"
)

func TestNewTokenStore(t *testing.T) {
	store, err := newTokenStore(context.Background(), config.Store{Backend: config.MemoryStoreBackend})
	require.NoError(t, err)
	require.IsType(t, &memstore.Store{}, store)
	require.NoError(t, store.Close())

	_, err = newTokenStore(context.Background(), config.Store{Backend: "etcd"})
	require.Error(t, err)
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	require.Equal(t, "serve", serve.Name())

	create, _, err := root.Find([]string{"schema", "create"})
	require.NoError(t, err)
	require.Equal(t, "create", create.Name())
}

func TestCreateSchema_RequiresAPIKey(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("CLIENT_ID", "id")
	t.Setenv("CLIENT_SECRET", "secret")
	t.Setenv("CRM_API_KEY", "")

	err := createSchema(context.Background(), "")
	require.ErrorContains(t, err, "CRM_API_KEY")
}

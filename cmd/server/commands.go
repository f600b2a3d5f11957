package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jrsteele09/go-crm-sync/crm"
	"github.com/jrsteele09/go-crm-sync/internal/config"
	"github.com/jrsteele09/go-crm-sync/internal/logging"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "crm-sync",
		Short: "OAuth client and webhook relay for the CRM events integration",
		// Running without a subcommand starts the server
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), configPath)
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the yaml config file (defaults to CONFIG_PATH or ./local.yaml)")

	root.AddCommand(newServeCmd(&configPath), newSchemaCmd(&configPath))
	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), *configPath)
		},
	}
}

func newSchemaCmd(configPath *string) *cobra.Command {
	schema := &cobra.Command{
		Use:   "schema",
		Short: "Manage the events custom object schema",
	}
	schema.AddCommand(&cobra.Command{
		Use:   "create",
		Short: "Create the events custom object in the portal using CRM_API_KEY",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return createSchema(cmd.Context(), *configPath)
		},
	})
	return schema
}

func createSchema(ctx context.Context, configPath string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := logging.Setup(c.GetEnv(), c.GetLogLevel())
	ctx = logger.WithContext(ctx)

	if c.GetAPIKey() == "" {
		return fmt.Errorf("[schema create] CRM_API_KEY is required")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.GetAPIKey(), TokenType: "Bearer"})
	schema, err := crm.New(oauth2.NewClient(ctx, ts), c).CreateEventSchema(ctx)
	if err != nil {
		return fmt.Errorf("[schema create] %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(schema)
}

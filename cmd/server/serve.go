package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-crm-sync/internal/config"
	"github.com/jrsteele09/go-crm-sync/internal/logging"
	"github.com/jrsteele09/go-crm-sync/server"
	"github.com/jrsteele09/go-crm-sync/token"
	"github.com/jrsteele09/go-crm-sync/token/memstore"
	"github.com/jrsteele09/go-crm-sync/token/redisstore"
	"github.com/rs/zerolog/log"
)

func serve(ctx context.Context, configPath string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("Recovered from panic: %v", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logging.Setup(c.GetEnv(), c.GetLogLevel())
	displayAppname(c.GetAppName())

	store, err := newTokenStore(ctx, c)
	if err != nil {
		return err
	}
	defer store.Close()

	handler, err := server.New(c, token.NewManager(store, c))
	if err != nil {
		return err
	}

	srv := &http.Server{Addr: c.GetPort(), Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- listenAndServe(srv)
	}()

	stopCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	select {
	case err := <-serveErr:
		return err
	case <-stopCtx.Done():
	}
	returnError = shutdown(srv)
	log.Info().Msg("Server stopped")
	return returnError
}

type tokenStore interface {
	token.Store
	io.Closer
}

func newTokenStore(ctx context.Context, c config.StoreConfig) (tokenStore, error) {
	switch c.GetStoreBackend() {
	case config.MemoryStoreBackend:
		log.Info().Msg("Using in-memory token store")
		return memstore.New(memstore.WithCleanupInterval(c.GetCleanupInterval())), nil
	case config.RedisStoreBackend:
		log.Info().Str("prefix", c.GetRedisPrefix()).Msg("Using redis token store")
		return redisstore.New(ctx, c.GetRedisURL(), c.GetRedisPrefix())
	default:
		return nil, fmt.Errorf("unknown token store backend %q", c.GetStoreBackend())
	}
}

func listenAndServe(server *http.Server) error {
	log.Info().Msgf("Server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/jrsteele09/go-webhook-relay/internal/config"
	"github.com/jrsteele09/go-webhook-relay/internal/metrics"
	"github.com/jrsteele09/go-webhook-relay/server"
	"github.com/jrsteele09/go-webhook-relay/sessions"
	"github.com/jrsteele09/go-webhook-relay/yourgpt"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatal().Err(err).Msg("error running server")
		} else {
			break
		}
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	configureLogging(c)

	if err := config.Validate(c); err != nil {
		return err
	}

	displayAppname(c.GetAppName())

	store := sessions.NewInMemorySessionRepo()
	collector := metrics.New(store.Size)
	provider := yourgpt.New(c, collector)
	janitor := sessions.NewJanitor(store, c.GetSessionSweepInterval(), c.GetSessionMaxIdle(), collector)

	httpServer := &http.Server{
		Addr:    c.GetPort(),
		Handler: server.New(c, store, provider, collector),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return listenAndServe(httpServer)
	})
	group.Go(func() error {
		return janitor.Run(groupCtx)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		return shutdown(httpServer)
	})

	return group.Wait()
}

func configureLogging(c config.Config) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func listenAndServe(httpServer *http.Server) error {
	log.Info().Str("addr", httpServer.Addr).Msg("server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

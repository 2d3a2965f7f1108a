package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"socialevents/internal/adapters/rest"
	"socialevents/internal/application"
	"socialevents/internal/config"
	"socialevents/internal/infrastructure/i18n"
	"socialevents/internal/logger"
)

const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 60 * time.Second
	// writeSlack leaves room to write the response after the request deadline.
	writeSlack = 5 * time.Second
)

func serve() cli.Command {
	return cli.Command{
		Name:   "serve",
		Usage:  "run the HTTP API (default)",
		Flags:  envFileFlags(),
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	cfg, err := config.Load(envFiles(c)...)
	if err != nil {
		return err
	}
	if err := logger.Setup("socialevents", cfg.LogLevel); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	translator := i18n.NewTranslator(cfg.DefaultLocale)
	deps, err := wire(cfg, translator)
	if err != nil {
		return err
	}
	defer deps.close(cfg.ShutdownTimeout)
	deps.warmUp(ctx)

	api := rest.NewServer(
		application.NewEventService(deps.events, deps.announcer),
		application.NewParticipationService(deps.participations, deps.events),
		translator,
		deps.health,
		rest.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			RequestTimeout: cfg.RequestTimeout,
		},
	)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout + writeSlack,
		IdleTimeout:       idleTimeout,
	}

	errs := make(chan error, 1)
	go func() {
		grip.Info(message.Fields{
			"message": "server running",
			"port":    cfg.Port,
			"store":   cfg.StoreDriver,
		})
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return errors.Wrap(err, "http server stopped")
	case <-ctx.Done():
	}

	grip.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down http server")
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-command/dispatcher"
	sitecms "github.com/goliatone/go-sitecms"
	"github.com/goliatone/go-sitecms/internal/commands/sitecmd"
	"github.com/goliatone/go-sitecms/internal/di"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("site server: %v", err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("site-server", flag.ExitOnError)
	envFile := fs.String("env", ".env", "Optional dotenv file loaded before the process environment")
	addr := fs.String("addr", "", "Listen address (overrides SITE_SERVER_ADDR)")
	migrate := fs.Bool("migrate", true, "Apply the embedded SQL migrations on start")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := sitecms.LoadConfig(*envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []di.Option{}
	if *migrate {
		opts = append(opts, di.WithMigrations(sitecms.GetMigrationsFS(), "data/sql/migrations"))
	}
	module, err := sitecms.New(ctx, cfg, opts...)
	if err != nil {
		return fmt.Errorf("build module: %w", err)
	}
	defer module.Close()

	container := module.Container()
	for _, sub := range container.Commands().Subscribe() {
		defer sub.Unsubscribe()
	}

	if err := dispatcher.Dispatch(ctx, sitecmd.ReloadContentCommand{}); err != nil {
		container.Logger().Warn("site.content.reload_failed", "error", err)
	}

	handler, err := module.Handler()
	if err != nil {
		return fmt.Errorf("build routes: %w", err)
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		container.Logger().Info("site.server.listening", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), container.ShutdownTimeout())
	defer cancel()
	container.Logger().Info("site.server.shutdown")
	return server.Shutdown(shutdownCtx)
}

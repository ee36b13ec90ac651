package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hariganeshs/Vynix/internal/cache"
	"github.com/hariganeshs/Vynix/internal/chat"
	"github.com/hariganeshs/Vynix/internal/config"
	"github.com/hariganeshs/Vynix/internal/server"
	"github.com/hariganeshs/Vynix/internal/usage"
)

var flagListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the vynix HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides := buildOverrides()
		if flagListen != "" {
			overrides["listen"] = flagListen
		}
		cfg, err := config.Load(overrides)
		if err != nil {
			return err
		}

		log, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer log.Sync()

		store := cache.New(cache.Options{
			MaxItems:      cfg.Cache.MaxItems,
			TTL:           cfg.Cache.TTL(),
			Disabled:      cfg.Cache.Disabled,
			SweepInterval: cfg.Cache.SweepInterval(),
		})
		defer store.Close()

		tracker, err := usage.New(cfg.UsageDB)
		if err != nil {
			return fmt.Errorf("opening usage db: %w", err)
		}
		defer tracker.Close()

		engine := chat.New(cfg, store, tracker)
		srv := server.New(cfg, engine, store, tracker, log)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := srv.ListenAndServe(ctx); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "Listen address (default :8080)")
	serveCmd.Flags().StringVar(&flagProvider, "provider", "", "Default LLM provider")
	serveCmd.Flags().StringVar(&flagModel, "model", "", "Default model name")
	serveCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Disable the response cache")
}

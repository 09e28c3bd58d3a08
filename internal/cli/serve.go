package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/samkirk/gca-bridge/internal/authclient"
	"github.com/samkirk/gca-bridge/internal/config"
	"github.com/samkirk/gca-bridge/internal/fallback"
	"github.com/samkirk/gca-bridge/internal/gemini"
	"github.com/samkirk/gca-bridge/internal/logging"
	"github.com/samkirk/gca-bridge/internal/registry"
	"github.com/samkirk/gca-bridge/internal/server"
	"github.com/samkirk/gca-bridge/internal/sigcache"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the OpenAI/Anthropic-compatible bridge server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load(GetConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if GetDebug() {
		cfg.Logging.Debug = true
	}

	log := logging.New(logging.Config{Dir: cfg.Logging.Dir, Debug: cfg.Logging.Debug})

	store := authclient.NewTokenStore(authclient.DefaultTokenPath())
	oauthCfg := authclient.OAuthConfig(os.Getenv("GCA_OAUTH_CLIENT_ID"), os.Getenv("GCA_OAUTH_CLIENT_SECRET"), "")
	auth, err := authclient.NewClient(oauthCfg, store)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	installationID := uuid.NewString()
	sig := sigcache.New()
	client := gemini.NewClient(auth, installationID, sig)

	prewarmCtx, cancelPrewarm := context.WithTimeout(ctx, 5*time.Second)
	go func() {
		defer cancelPrewarm()
		gemini.PrewarmConnections(prewarmCtx, nil)
	}()

	resolver := registry.NewResolver()
	cooldown := registry.NewCooldownTracker()
	table := registry.NewFallbackTable(nil)
	controller := fallback.NewController(table, cooldown)
	defer controller.Close()

	reloadCtx, cancelReload := context.WithCancel(ctx)
	defer cancelReload()
	if cfg.ModelOverridesPath != "" {
		config.WatchModelOverrides(reloadCtx, cfg.ModelOverridesPath, resolver, table, log)
	}

	engine := server.New(server.Deps{
		Client:   client,
		Resolver: resolver,
		Fallback: controller,
		Cooldown: cooldown,
		SigCache: sig,
		Logger:   log,
	})

	httpServer := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: engine,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Server.ListenAddr).Info("gca-bridge listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stopCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-stopCtx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

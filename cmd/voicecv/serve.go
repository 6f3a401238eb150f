package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/javier/voice-cv/internal/config"
	"github.com/javier/voice-cv/internal/gate"
	"github.com/javier/voice-cv/internal/payments"
	"github.com/javier/voice-cv/internal/server"
	"github.com/javier/voice-cv/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the payment gate API server",
	Long: `Start an HTTP server that exposes the payment endpoints: checkout session
creation, payment verification, token status and single-use consumption.

Configuration can be loaded from a JSON file using --config; environment
variables and flags override file values.`,
	RunE: runServe,
}

var (
	serveConfigPath     string
	servePort           int
	serveStorePath      string
	serveDatabaseURL    string
	serveAllowedOrigins []string
)

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on")
	serveCmd.Flags().StringVar(&serveStorePath, "store", "", "Path for the file-backed payment store (default in-memory)")
	serveCmd.Flags().StringVar(&serveDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	serveCmd.Flags().StringSliceVar(&serveAllowedOrigins, "allowed-origins", nil, "CORS origin allowlist (empty allows any origin)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := resolveConfig(cmd, serveConfigPath)
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	var provider payments.Provider
	if cfg.StripeSecretKey != "" {
		stripe, err := payments.NewStripeProvider(payments.StripeConfig{
			SecretKey:   cfg.StripeSecretKey,
			ClientURL:   cfg.ClientURL,
			ProductName: cfg.ProductName,
			Currency:    cfg.Currency,
			UnitAmount:  int(cfg.PriceCents),
		})
		if err != nil {
			return fmt.Errorf("failed to configure payment provider: %w", err)
		}
		provider = stripe
	} else {
		log.Println("STRIPE_SECRET_KEY not set; checkout and verification are disabled")
	}

	srv := server.New(server.Config{
		Port:           cfg.Port,
		AllowedOrigins: cfg.AllowedOrigins,
	}, gate.New(st, provider))

	return srv.Start()
}

// resolveConfig merges flags over env over an optional config file over the
// built-in defaults.
func resolveConfig(cmd *cobra.Command, configPath string) (config.Config, error) {
	fileCfg := config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		fileCfg = *loaded
	}

	cfg := config.FromEnv().MergeWithDefaults(fileCfg).MergeWithDefaults(config.DefaultConfig())

	// Flag overrides apply only when explicitly set
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("store") {
		cfg.StorePath = serveStorePath
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = serveDatabaseURL
	}
	if cmd.Flags().Changed("allowed-origins") {
		cfg.AllowedOrigins = serveAllowedOrigins
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openStore picks the payment store backend: Postgres when a database URL is
// configured, the JSON file store when a path is, in-memory otherwise.
func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch {
	case cfg.DatabaseURL != "":
		st, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		return st, nil
	case cfg.StorePath != "":
		st, err := store.NewFileStore(cfg.StorePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open file store: %w", err)
		}
		return st, nil
	default:
		log.Println("no store configured; payment state is in-memory and lost on restart")
		return store.NewMemoryStore(), nil
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"shopfront/internal/config"
	"shopfront/internal/logging"
)

var (
	// Global flags
	stateDir string
	apiURL   string
	verbose  bool

	// Logger
	logger *zap.Logger

	// Effective configuration, loaded in PersistentPreRunE.
	cfg *config.Config
)

// rootCmd represents the base command. Run without arguments it starts
// the interactive storefront.
var rootCmd = &cobra.Command{
	Use:   "shopfront",
	Short: "shopfront - a terminal storefront for the Fake Store API",
	Long: `shopfront is a terminal e-commerce client: browse the catalog, manage
a cart, sign in, and walk a checkout wizard, all against a Fake Store
compatible REST API.

State (cart, session, config, logs) lives under ~/.shopfront by default.
Run without arguments to start the interactive storefront.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(stateDir)
		if err != nil {
			return err
		}
		if apiURL != "" {
			cfg.API.BaseURL = apiURL
		}
		if verbose {
			cfg.Logging.DebugMode = true
			cfg.Logging.Level = "debug"
		}

		if err := logging.Initialize(cfg.StateDir(), logging.Settings{
			DebugMode:  cfg.Logging.DebugMode,
			Level:      cfg.Logging.Level,
			Categories: cfg.Logging.Categories,
		}); err != nil {
			logger.Warn("file logging unavailable", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Close()
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStorefront()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "state directory (default ~/.shopfront)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "store API base URL (default https://fakestoreapi.com)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(mockapiCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

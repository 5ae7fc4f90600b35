package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"AutoCenter/internal/config"
	"AutoCenter/internal/fipe"
	"AutoCenter/internal/logging"
	"AutoCenter/internal/store"
	"AutoCenter/internal/ui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
	db     *store.Store
)

var rootCmd = &cobra.Command{
	Use:   "autocenter",
	Short: "Destak Autocenter - oficina mecânica",
	Long: `Desktop manager for an auto repair shop: clients, vehicles, service
orders with client and mechanic signatures, parts stock, employees and
expenses, all stored in a local SQLite database.

Run without arguments to open the main window.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfg.EnsureDirs(); err != nil {
			return err
		}
		logger, err = logging.New(cfg.Logging.Level, cfg.LogFile(), verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		db, err = store.Open(cfg.DBPath(), logger)
		if err != nil {
			return err
		}
		logger.Debug("database ready", zap.String("path", db.Path()))
		return nil
	},
	RunE: runGUI,
}

func runGUI(cmd *cobra.Command, args []string) error {
	if err := db.Seed(); err != nil {
		return err
	}
	logger.Info("starting", zap.String("app", cfg.App.Name), zap.String("version", cfg.App.Version))
	ui.RunApp(ui.Deps{
		Config: cfg,
		Store:  db,
		FIPE:   newFIPE(),
		Log:    logger,
	})
	logger.Info("main window closed")
	return nil
}

// cleanup closes the database and flushes the logger. It runs as a cobra
// finalizer, so failed commands get it too.
func cleanup() {
	if db != nil {
		if err := db.Close(); err != nil {
			logger.Warn("closing database", zap.Error(err))
		}
		db = nil
	}
	if logger != nil {
		_ = logger.Sync()
	}
}

func newFIPE() *fipe.Client {
	return fipe.New(cfg.FIPE.BaseURL, cfg.GetFIPETimeout(), logger)
}

func init() {
	cobra.OnFinalize(cleanup)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	var sample bool
	initDBCmd.Flags().BoolVar(&sample, "sample", false, "Insert sample records into an empty database")
	initDBCmd.RunE = func(cmd *cobra.Command, args []string) error { return initDB(cmd, sample) }

	printCmd.Flags().StringP("output", "o", "", "Output PDF file (default: Ordem_de_Servico_<number>.pdf)")

	signatureExportCmd.Flags().String("role", "client", "Signer: client or mechanic")
	signatureExportCmd.Flags().StringP("output", "o", "", "Output PNG file (required)")
	signatureExportCmd.MarkFlagRequired("output")
	signatureCmd.AddCommand(signatureExportCmd)

	fipeCmd.AddCommand(fipeBrandsCmd)
	fipeCmd.AddCommand(fipeModelsCmd)

	rootCmd.AddCommand(initDBCmd)
	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(signatureCmd)
	rootCmd.AddCommand(fipeCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

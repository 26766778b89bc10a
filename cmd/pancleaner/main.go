package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rootliu/pan-cleaner/internal/cache"
	cachesqlite "github.com/rootliu/pan-cleaner/internal/cache/sqlite"
	"github.com/rootliu/pan-cleaner/internal/catalog"
	"github.com/rootliu/pan-cleaner/internal/config"
	"github.com/rootliu/pan-cleaner/internal/core"
	"github.com/rootliu/pan-cleaner/internal/report"
	"github.com/rootliu/pan-cleaner/internal/server"
	"github.com/rootliu/pan-cleaner/pkg/models"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[38;5;245m"
)

var (
	version = "0.1.0"
	logger  *zap.Logger
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pancleaner",
		Short: "Pan-Cleaner - Cloud Drive Duplicate and Large File Analyzer",
		Long: `Analyzes cloud drive listings to find duplicate files, duplicate folders,
large files, and executables, and keeps a cached snapshot of the last scan.`,
		Version: version,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	// Global verbose flag
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	// Add commands
	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(resultsCmd())
	rootCmd.AddCommand(invalidateCmd())
	rootCmd.AddCommand(cacheCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initLogger initializes the global logger based on the verbose flag
func initLogger() error {
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		// Silent logger - only errors
		cfg := zap.Config{
			Level:            zap.NewAtomicLevelAt(zapcore.ErrorLevel),
			Encoding:         "json",
			OutputPaths:      []string{"stderr"},
			ErrorOutputPaths: []string{"stderr"},
			EncoderConfig:    zap.NewProductionEncoderConfig(),
		}
		logger, err = cfg.Build()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
	}
	return err
}

// loadConfig loads the configuration and applies CLI overrides
func loadConfig(provider, account, threshold, dbPath, categories string) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if provider != "" {
		cfg.Provider = provider
	}
	if account != "" {
		cfg.Account = account
	}
	if threshold != "" {
		cfg.LargeFileThreshold = threshold
	}
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	if categories != "" {
		cfg.CategoriesFile = categories
	}
	return cfg, nil
}

// openCache opens the configured snapshot store wrapped in the cache service.
// An empty database path keeps snapshots in memory for the process lifetime.
func openCache(cfg *config.Config) (*cache.Service, func(), error) {
	if cfg.DatabasePath == "" {
		return cache.NewService(cache.NewMemoryStore(), logger), func() {}, nil
	}
	store, err := cachesqlite.Open(cfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open snapshot database: %w", err)
	}
	return cache.NewService(store, logger), func() { store.Close() }, nil
}

// scanCmd creates the scan command
func scanCmd() *cobra.Command {
	var (
		listingFile  string
		localDir     string
		provider     string
		account      string
		threshold    string
		categories   string
		dbPath       string
		reportFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Analyze a drive listing and cache the snapshot",
		Long: `Runs the full analysis over a materialized listing (a JSON export of the
drive contents, or a local directory) and replaces the cached snapshot.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initLogger(); err != nil {
				return err
			}
			defer logger.Sync()

			if listingFile == "" && localDir == "" {
				return fmt.Errorf("either --listing or --dir is required")
			}

			cfg, err := loadConfig(provider, account, threshold, dbPath, categories)
			if err != nil {
				logger.Error("Failed to load config", zap.Error(err))
				return err
			}
			if reportFormat != "" {
				cfg.ReportFormat = reportFormat
			}
			if outputFile != "" {
				cfg.OutputFile = outputFile
			}

			var entries models.Catalog
			if listingFile != "" {
				entries, err = catalog.LoadListing(listingFile)
			} else {
				entries, err = catalog.NewWalker(logger).Walk(localDir)
			}
			if err != nil {
				return err
			}

			scanner, err := core.NewScanner(cfg, logger)
			if err != nil {
				return err
			}

			key := models.Key{Provider: cfg.Provider, Account: cfg.Account}
			snapshot, err := scanner.Scan(entries, key)
			if err != nil {
				return err
			}

			cacheSvc, closeCache, err := openCache(cfg)
			if err != nil {
				return err
			}
			defer closeCache()

			if err := cacheSvc.Save(cmd.Context(), key, snapshot); err != nil {
				// The scan result is still printable; the previous snapshot
				// stays authoritative in the store.
				fmt.Printf("\n  %s✗ Failed to cache snapshot:%s %v\n", colorRed, colorReset, err)
			}

			printSummary(snapshot)

			if cfg.ReportFormat != "" || cfg.OutputFile != "" {
				reportPath, err := report.NewGenerator(cfg, logger).Generate(snapshot)
				if err != nil {
					return err
				}
				if reportPath != "" {
					fmt.Printf("  %sReport:%s %s\n\n", colorGray, colorReset, reportPath)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&listingFile, "listing", "l", "", "JSON listing file exported from a provider")
	cmd.Flags().StringVarP(&localDir, "dir", "d", "", "Local directory to analyze instead of a listing")
	cmd.Flags().StringVarP(&provider, "provider", "p", "", "Provider name for the snapshot key")
	cmd.Flags().StringVarP(&account, "account", "a", "", "Account name for the snapshot key")
	cmd.Flags().StringVarP(&threshold, "threshold", "t", "", "Large file threshold (e.g. 100MiB)")
	cmd.Flags().StringVar(&categories, "categories", "", "YAML file overriding the category priority list")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite snapshot database path")
	cmd.Flags().StringVarP(&reportFormat, "format", "f", "", "Report format: text, json")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Report output file")

	return cmd
}

// resultsCmd creates the results command
func resultsCmd() *cobra.Command {
	var (
		provider string
		account  string
		dbPath   string
	)

	cmd := &cobra.Command{
		Use:       "results [statistics|duplicate_files|duplicate_folders|large_files|executables]",
		Short:     "Print one section of the cached snapshot as JSON",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"statistics", "duplicate_files", "duplicate_folders", "large_files", "executables"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initLogger(); err != nil {
				return err
			}
			defer logger.Sync()

			cfg, err := loadConfig(provider, account, "", dbPath, "")
			if err != nil {
				return err
			}

			cacheSvc, closeCache, err := openCache(cfg)
			if err != nil {
				return err
			}
			defer closeCache()

			key := models.Key{Provider: cfg.Provider, Account: cfg.Account}
			snapshot, found, err := cacheSvc.Load(cmd.Context(), key)
			if err != nil {
				return err
			}
			if !found {
				fmt.Printf("  %sNo cached snapshot for %s/%s, run a scan first.%s\n",
					colorGray, cfg.Provider, cfg.Account, colorReset)
				return nil
			}

			var payload any
			switch args[0] {
			case "statistics":
				payload = snapshot.Statistics
			case "duplicate_files":
				payload = snapshot.DuplicateFiles
			case "duplicate_folders":
				payload = snapshot.DuplicateFolders
			case "large_files":
				payload = snapshot.LargeFiles
			case "executables":
				payload = snapshot.Executables
			default:
				return fmt.Errorf("unknown result type: %s", args[0])
			}

			data, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "p", "", "Provider name for the snapshot key")
	cmd.Flags().StringVarP(&account, "account", "a", "", "Account name for the snapshot key")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite snapshot database path")

	return cmd
}

// invalidateCmd creates the invalidate command
func invalidateCmd() *cobra.Command {
	var (
		provider string
		account  string
		dbPath   string
	)

	cmd := &cobra.Command{
		Use:   "invalidate [paths...]",
		Short: "Remove deleted paths from the cached snapshot",
		Long: `After files or folders have been deleted from the drive, removes them from
the cached snapshot without re-running the analysis.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initLogger(); err != nil {
				return err
			}
			defer logger.Sync()

			cfg, err := loadConfig(provider, account, "", dbPath, "")
			if err != nil {
				return err
			}

			cacheSvc, closeCache, err := openCache(cfg)
			if err != nil {
				return err
			}
			defer closeCache()

			key := models.Key{Provider: cfg.Provider, Account: cfg.Account}
			if err := cacheSvc.InvalidatePaths(cmd.Context(), key, args); err != nil {
				return err
			}

			fmt.Printf("  %s✓%s Removed %d path(s) from the cached snapshot\n", colorGreen, colorReset, len(args))
			return nil
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "p", "", "Provider name for the snapshot key")
	cmd.Flags().StringVarP(&account, "account", "a", "", "Account name for the snapshot key")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite snapshot database path")

	return cmd
}

// cacheCmd creates the cache command with info and clear subcommands
func cacheCmd() *cobra.Command {
	var (
		provider string
		account  string
		dbPath   string
	)

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the cached snapshot",
	}

	cmd.PersistentFlags().StringVarP(&provider, "provider", "p", "", "Provider name for the snapshot key")
	cmd.PersistentFlags().StringVarP(&account, "account", "a", "", "Account name for the snapshot key")
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite snapshot database path")

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Show snapshot times without loading the payload",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initLogger(); err != nil {
				return err
			}
			defer logger.Sync()

			cfg, err := loadConfig(provider, account, "", dbPath, "")
			if err != nil {
				return err
			}

			cacheSvc, closeCache, err := openCache(cfg)
			if err != nil {
				return err
			}
			defer closeCache()

			key := models.Key{Provider: cfg.Provider, Account: cfg.Account}
			info, found, err := cacheSvc.Info(cmd.Context(), key)
			if err != nil {
				return err
			}
			if !found {
				fmt.Printf("  %sNo cached snapshot for %s/%s.%s\n", colorGray, cfg.Provider, cfg.Account, colorReset)
				return nil
			}

			fmt.Printf("  %sProvider:%s     %s\n", colorGray, colorReset, info.Provider)
			fmt.Printf("  %sAccount:%s      %s\n", colorGray, colorReset, info.Account)
			fmt.Printf("  %sScan Time:%s    %s\n", colorGray, colorReset, info.ScanTime.Format("2006-01-02 15:04:05"))
			fmt.Printf("  %sLast Updated:%s %s\n", colorGray, colorReset, info.LastUpdated.Format("2006-01-02 15:04:05"))
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the cached snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initLogger(); err != nil {
				return err
			}
			defer logger.Sync()

			cfg, err := loadConfig(provider, account, "", dbPath, "")
			if err != nil {
				return err
			}

			cacheSvc, closeCache, err := openCache(cfg)
			if err != nil {
				return err
			}
			defer closeCache()

			key := models.Key{Provider: cfg.Provider, Account: cfg.Account}
			if err := cacheSvc.Clear(cmd.Context(), key); err != nil {
				return err
			}
			fmt.Printf("  %s✓%s Cache cleared for %s/%s\n", colorGreen, colorReset, cfg.Provider, cfg.Account)
			return nil
		},
	}

	cmd.AddCommand(infoCmd)
	cmd.AddCommand(clearCmd)
	return cmd
}

// serveCmd creates the serve command
func serveCmd() *cobra.Command {
	var (
		addr   string
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the cached snapshots over a JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initLogger(); err != nil {
				return err
			}
			defer logger.Sync()

			cfg, err := loadConfig("", "", "", dbPath, "")
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.ListenAddr = addr
			}

			cacheSvc, closeCache, err := openCache(cfg)
			if err != nil {
				return err
			}
			defer closeCache()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Printf("  %sListening on %s%s\n", colorCyan, cfg.ListenAddr, colorReset)
			return server.New(cacheSvc, logger).Start(ctx, cfg.ListenAddr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default :8080)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite snapshot database path")

	return cmd
}

// printSummary prints the scan summary to stdout
func printSummary(snapshot *models.ScanSnapshot) {
	summary := snapshot.Summary()

	fmt.Println()
	fmt.Printf("%s%sSCAN COMPLETE%s\n", colorBold, colorCyan, colorReset)
	fmt.Println()
	fmt.Printf("  %sProvider:%s          %s (%s)\n", colorGray, colorReset, snapshot.Provider, snapshot.Account)
	fmt.Printf("  %sFiles:%s             %d\n", colorGray, colorReset, summary.TotalFiles)
	fmt.Printf("  %sFolders:%s           %d\n", colorGray, colorReset, summary.TotalFolders)
	fmt.Printf("  %sTotal Size:%s        %s\n", colorGray, colorReset, humanize.IBytes(uint64(summary.TotalSize)))
	fmt.Printf("  %sDuplicate Files:%s   %d groups\n", colorGray, colorReset, summary.DuplicateFileGroups)
	fmt.Printf("  %sDuplicate Folders:%s %d groups\n", colorGray, colorReset, summary.DuplicateFolderGroups)
	fmt.Printf("  %sLarge Files:%s       %d\n", colorGray, colorReset, summary.LargeFileCount)
	fmt.Printf("  %sExecutables:%s       %d\n", colorGray, colorReset, summary.ExecutableCount)
	fmt.Println()
	if summary.WastedSpace > 0 {
		fmt.Printf("  %s%sRecoverable space: %s%s\n", colorBold, colorGreen, humanize.IBytes(uint64(summary.WastedSpace)), colorReset)
	} else {
		fmt.Printf("  %sNo duplicate content found.%s\n", colorGray, colorReset)
	}
	fmt.Println()
}

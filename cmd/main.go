package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang-verdict-keeper/internal/entity"
	"golang-verdict-keeper/internal/keeper/config"
	"golang-verdict-keeper/internal/keeper/dto"
	"golang-verdict-keeper/internal/keeper/repository"
	"golang-verdict-keeper/internal/keeper/service"
	"golang-verdict-keeper/pkg/logger"
	"golang-verdict-keeper/pkg/postgres"

	"github.com/spf13/cobra"
)

var (
	configPath   string
	databaseName string
	readStdin    bool
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "verdict-keeper",
	Short: "Stores analysis verdict JSON files in PostgreSQL",
	Long: `verdict-keeper ingests analysis verdict JSON files into PostgreSQL with
content-hash deduplication, so past verdicts stay queryable without
re-reading the files.`,
}

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Ingest analysis JSON files into the store",
	Run:   runIngest,
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of stored analysis files",
	Run:   runCount,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the verdict-keeper version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("verdict-keeper %s\n", version)
	},
}

func runIngest(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths := args
	if readStdin {
		stdinPaths, err := readPathsFromStdin()
		if err != nil {
			log.Fatalf("Failed to read file list from stdin: %v", err)
		}
		paths = append(paths, stdinPaths...)
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no files specified")
		fmt.Fprint(os.Stderr, cmd.UsageString())
		os.Exit(1)
	}

	cfg, appLogger, db := setupSession()
	defer func() { _ = appLogger.Sync() }()
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	appLogger.Info("Starting Verdict Keeper", logger.Field("name", cfg.App.Name))

	// Ensure the schema before any upsert runs.
	schemaRepo := repository.NewSchemaRepository(db.DB, appLogger)
	schemaReport, err := schemaRepo.EnsureReady(ctx)
	if err != nil {
		appLogger.Fatal("Failed to prepare schema", logger.ErrorField(err))
	}
	if failed := schemaReport.FailedSteps(); len(failed) > 0 {
		appLogger.Warn("Schema migrations incomplete", logger.IntField("failed_steps", len(failed)))
	}

	// Initialize repositories and services
	fileRepo := repository.NewAnalysisFileRepository(db.DB)
	ingestSvc := service.NewIngestService(fileRepo, appLogger)

	report := ingestSvc.ProcessFiles(ctx, paths, printResult)
	printSummary(report)

	if report.Errors > 0 {
		os.Exit(1)
	}
}

func runCount(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, appLogger, db := setupSession()
	defer func() { _ = appLogger.Sync() }()
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	schemaRepo := repository.NewSchemaRepository(db.DB, appLogger)
	if _, err := schemaRepo.EnsureReady(ctx); err != nil {
		appLogger.Fatal("Failed to prepare schema", logger.ErrorField(err))
	}

	fileRepo := repository.NewAnalysisFileRepository(db.DB)
	count, err := fileRepo.Count(ctx)
	if err != nil {
		appLogger.Fatal("Failed to count analysis files", logger.ErrorField(err))
	}
	fmt.Printf("%d file(s) stored\n", count)
}

// setupSession loads and validates configuration, builds the logger, and
// connects to the target database, creating it when missing. Any failure
// here is fatal: nothing can proceed without a working store.
func setupSession() (*config.Config, *logger.Logger, *postgres.DB) {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if databaseName != "" {
		cfg.Database.DBName = databaseName
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	}
	if err := postgres.EnsureDatabase(postgresCfg); err != nil {
		appLogger.Fatal("Failed to ensure database exists", logger.ErrorField(err))
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}

	return cfg, appLogger, db
}

func readPathsFromStdin() ([]string, error) {
	var paths []string
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			paths = append(paths, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return paths, nil
}

func printResult(res dto.FileResult) {
	switch {
	case res.Failed():
		fmt.Printf("✗ %s: %v\n", res.Path, res.Err)
	case res.Outcome == entity.OutcomeInserted:
		fmt.Printf("✓ %s (new)\n", res.Path)
	case res.Outcome == entity.OutcomeUpdated:
		fmt.Printf("↻ %s (updated)\n", res.Path)
	case res.Outcome == entity.OutcomeDuplicate:
		fmt.Printf("⊘ %s (duplicate content, skipped)\n", res.Path)
	}
}

func printSummary(report *dto.BatchReport) {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Inserted (new): %d file(s)\n", report.Inserted)
	if report.Updated > 0 {
		fmt.Printf("Updated (changed): %d file(s)\n", report.Updated)
	}
	if report.Duplicates > 0 {
		fmt.Printf("Skipped (duplicate content): %d file(s)\n", report.Duplicates)
	}
	if report.Errors > 0 {
		fmt.Printf("Errors: %d file(s)\n", report.Errors)
	}
	fmt.Println(strings.Repeat("=", 60))
}

func main() {
	ingestCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")
	ingestCmd.Flags().StringVarP(&databaseName, "database", "d", "", "Override the target database name")
	ingestCmd.Flags().BoolVar(&readStdin, "stdin", false, "Read newline-separated file paths from stdin")

	countCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")
	countCmd.Flags().StringVarP(&databaseName, "database", "d", "", "Override the target database name")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(versionCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing verdict-keeper CLI: %s\n", err)
		os.Exit(1)
	}
}

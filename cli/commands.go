// Package cli implements the postboard subcommands.
package cli

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"postboard/app/repositories"
	"postboard/app/services"
	"postboard/app/storage"
	"postboard/config"
	"postboard/routes"

	"github.com/dgraph-io/badger/v4"
)

// HandleCommand handles postboard subcommands
func HandleCommand(args []string) {
	if len(args) < 1 {
		PrintHelp()
		os.Exit(1)
	}

	cmd := args[0]
	switch cmd {
	case "serve":
		serve()
	case "init":
		initDb()
	case "clean":
		clean()
	case "backup":
		backup()
	case "restore":
		if len(args) < 2 {
			fmt.Println("Error: backup file path required for restore")
			os.Exit(1)
		}
		restore(args[1])
	case "help":
		PrintHelp()
	default:
		fmt.Printf("Unknown command: %s\n\n", cmd)
		PrintHelp()
		os.Exit(1)
	}
}

// PrintHelp prints usage for all subcommands
func PrintHelp() {
	helpText := `Usage: postboard <command> [options]

Commands:
  serve                          Run the post-sharing web service
  init                           Initialize a new empty auth database
  clean                          Clean the auth database
  backup                         Create a backup of the auth database
  restore [file]                 Restore the auth database from backup
  version                        Show version information
  help                           Display this help message

Environment (POSTBOARD_ prefix):
  PORT, MONGO_URI, MONGO_DB, AUTH_DB_PATH, SESSION_TTL, BCRYPT_COST, LOG_LEVEL
`
	fmt.Println(helpText)
}

// serve wires the process: config, logging, the document-store client,
// the auth store, and the HTTP server. The storage client is constructed
// here and torn down here; handlers only ever see injected repositories.
func serve() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := storage.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer store.Close(context.Background())

	postRepo, err := repositories.NewMongoPostRepository(ctx, store.Database())
	if err != nil {
		log.Fatalf("Failed to set up post repository: %v", err)
	}

	authDB, err := badger.Open(badger.DefaultOptions(cfg.AuthDBPath).WithLogger(nil))
	if err != nil {
		log.Fatalf("Failed to open auth DB: %v", err)
	}
	defer authDB.Close()

	authService := services.NewAuthService(
		repositories.NewBadgerUserRepository(authDB),
		repositories.NewBadgerSessionRepository(authDB),
		cfg.SessionTTL,
		cfg.BcryptCost,
	)

	router := routes.SetupRoutes(routes.Deps{
		Posts: postRepo,
		Auth:  authService,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("starting postboard", "addr", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func setupLogger(level string) {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func authDBPath() string {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg.AuthDBPath
}

// initDb initializes a new empty auth database
func initDb() {
	dbPath := authDBPath()
	if _, err := os.Stat(dbPath); err == nil {
		fmt.Println("Auth database already exists. Use 'clean' first if you want to reinitialize.")
		return
	}

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	db, err := badger.Open(badger.DefaultOptions(dbPath).WithLogger(nil))
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	fmt.Println("Auth database initialized successfully")
}

// clean removes the auth database
func clean() {
	dbPath := authDBPath()
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("Auth database is already clean (does not exist)")
		return
	}

	fmt.Print("Are you sure you want to clean the auth database? This cannot be undone. [y/N] ")
	var response string
	fmt.Scanln(&response)
	if response != "y" && response != "Y" {
		fmt.Println("Operation cancelled")
		return
	}

	if err := os.RemoveAll(dbPath); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("Auth database cleaned successfully")
}

// backup creates a backup of the auth database
func backup() {
	dbPath := authDBPath()
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No auth database exists to backup")
		return
	}

	backupDir := "data/backups"
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		log.Fatalf("Failed to create backup directory: %v", err)
	}

	db, err := badger.Open(badger.DefaultOptions(dbPath).WithLogger(nil))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	backupFile := filepath.Join(backupDir, fmt.Sprintf("auth_backup_%d.db", time.Now().Unix()))
	f, err := os.Create(backupFile)
	if err != nil {
		log.Fatalf("Failed to create backup file: %v", err)
	}
	defer f.Close()

	if _, err := db.Backup(f, 0); err != nil {
		log.Fatalf("Failed to backup database: %v", err)
	}

	fmt.Printf("Auth database backed up successfully to %s\n", backupFile)
}

// restore restores the auth database from a backup
func restore(backupFile string) {
	if _, err := os.Stat(backupFile); os.IsNotExist(err) {
		fmt.Printf("Backup file does not exist: %s\n", backupFile)
		return
	}

	dbPath := authDBPath()
	if _, err := os.Stat(dbPath); err == nil {
		fmt.Print("Existing auth database found. Do you want to replace it? [y/N] ")
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Operation cancelled")
			return
		}
		if err := os.RemoveAll(dbPath); err != nil {
			log.Fatalf("Failed to remove existing database: %v", err)
		}
	}

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	db, err := badger.Open(badger.DefaultOptions(dbPath).WithLogger(nil))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		log.Fatalf("Failed to open backup file: %v", err)
	}
	defer f.Close()

	if err := db.Load(f, 4); err != nil {
		log.Fatalf("Failed to restore database: %v", err)
	}

	fmt.Println("Auth database restored successfully")
}

package main

import (
	"database/sql"
	"fmt"
	"freight-exchange-service/internal/adapters/catalog"
	"freight-exchange-service/internal/adapters/ledger"
	"freight-exchange-service/internal/adapters/repositories"
	"freight-exchange-service/internal/api"
	"freight-exchange-service/internal/config"
	"freight-exchange-service/internal/ports"
	"freight-exchange-service/internal/services"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (SQLite store and catalog, in-process or Redis
// ledger) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/exchange.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/exchange.json")
	port := config.Get("PORT", "8080")
	redisAddr := strings.TrimSpace(config.Get("REDIS_ADDR", ""))

	db, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(db, seedPath); err != nil {
		log.Fatal(err)
	}

	store := repositories.NewSQLStore(db)
	routeCatalog := catalog.NewSQLRouteCatalog(db)

	// Multi-instance deployments share listings through Redis; a single
	// instance keeps the ledger in process.
	var exchangeLedger ports.ExchangeLedger
	if redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		defer client.Close()
		exchangeLedger = ledger.NewRedisLedger(client)
		log.Printf("ledger=redis addr=%s", redisAddr)
	} else {
		exchangeLedger = ledger.NewMemoryLedger()
		log.Printf("ledger=memory")
	}

	lifecycle := &services.Lifecycle{
		Lots:     store,
		Tractors: store,
		Offers:   store,
		Store:    store,
		Ledger:   exchangeLedger,
		Catalog:  routeCatalog,
	}
	matcher := &services.Matcher{
		Lots:     store,
		Tractors: store,
		Offers:   store,
		Store:    store,
		Ledger:   exchangeLedger,
		Catalog:  routeCatalog,
	}
	queries := &services.Queries{
		Lots:     store,
		Tractors: store,
		Catalog:  routeCatalog,
	}

	router := api.NewRouter(lifecycle, matcher, queries)

	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

func initAndSeed(db *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

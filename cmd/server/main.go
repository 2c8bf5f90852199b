package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"itinerary-service/internal/adapters/cache"
	"itinerary-service/internal/adapters/catalog"
	"itinerary-service/internal/adapters/routes"
	"itinerary-service/internal/api"
	"itinerary-service/internal/ports"
	"itinerary-service/internal/services"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (SQLite catalog, Google Routes) behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := getEnv("DB_PATH", "data/app.db")
	seedPath := getEnv("SEED_PATH", "data/seeds/pois.json")
	configPath := getEnv("ENGINE_CONFIG", "config/engine.yaml")
	port := getEnv("PORT", "8080")

	cfg, err := services.LoadEngineConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	db, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Initialize schema and seed the catalog on startup for local runs.
	if err := initAndSeed(db, seedPath); err != nil {
		log.Fatal(err)
	}

	// Live verification is opt-in; without a key every transfer estimate stays
	// on the heuristic path.
	var provider ports.RouteProvider
	if key := strings.TrimSpace(os.Getenv("GOOGLE_ROUTES_API_KEY")); key != "" {
		p, err := routes.NewGoogleRoutesProvider(key)
		if err != nil {
			log.Fatal(err)
		}
		provider = p
		log.Println("Google Routes verification enabled")
	} else {
		log.Println("GOOGLE_ROUTES_API_KEY not set; transfers use heuristic estimates only")
	}

	transferCache := cache.NewTransferCache(cfg.TransferCacheTTL)
	estimator := services.NewEstimator(provider, transferCache, cfg.VerifyTimeout)

	poiCatalog := catalog.NewSqliteCatalog(db)
	planner := services.NewPlanner(poiCatalog, estimator, cfg)

	router := api.NewRouter(planner, poiCatalog, api.RouterConfig{
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
	})

	// Timeouts leave room for live route verification (external API latency).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("%s must be an integer, got %q", key, v)
	}
	return n
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
	if err := catalog.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := catalog.SeedFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
	"vendor-ledger-service/internal/adapters/cache"
	"vendor-ledger-service/internal/adapters/repositories"
	"vendor-ledger-service/internal/api"
	"vendor-ledger-service/internal/config"
	"vendor-ledger-service/internal/domain"
	"vendor-ledger-service/internal/ports"
	"vendor-ledger-service/internal/services"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, Redis) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/ledger.db")
	seedPath := config.Get("SEED_PATH", "")
	redisAddr := config.Get("REDIS_ADDR", "")
	port := config.Get("PORT", "8080")

	db, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := repositories.InitSchema(db); err != nil {
		log.Fatal(err)
	}

	settingRepo := repositories.NewSqliteSettingRepository(db)
	costs, err := resolveCosts(context.Background(), settingRepo)
	if err != nil {
		log.Fatal(err)
	}

	// Demo data is only seeded into an empty ledger, so a configured seed
	// path is safe across restarts.
	if seedPath != "" {
		if err := repositories.SeedFromJSON(db, seedPath, costs); err != nil {
			log.Fatal(err)
		}
	}

	// Reports fall back to compute-only when no Redis address is configured.
	var reportCache ports.ReportCache
	if redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		defer client.Close()
		reportCache = cache.NewRedisReportCache(client, 5*time.Minute)
		log.Printf("report cache enabled addr=%s", redisAddr)
	}

	shipmentRepo := repositories.NewSqliteShipmentRepository(db)
	saleRepo := repositories.NewSqliteSaleRepository(db)

	shipments := services.NewShipmentManager(shipmentRepo, costs)
	sales := services.NewSaleManager(saleRepo, reportCache)
	reports := services.NewReportService(saleRepo, reportCache)

	router := api.NewRouter(shipments, sales, reports, settingRepo)

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

// resolveCosts layers unit production costs: built-in defaults, overridden
// by stored settings rows, overridden by environment variables. Built-in
// defaults are persisted on first boot so they are visible and editable
// through the settings API.
func resolveCosts(ctx context.Context, settings ports.SettingRepository) (domain.CostTable, error) {
	costs := domain.DefaultCosts()

	for category, def := range costs.PerCategory {
		key := "unit_cost." + category

		row, err := settings.GetSetting(ctx, key)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			err = settings.PutSetting(ctx, &domain.Setting{
				Key:   key,
				Value: def.String(),
				Type:  domain.SettingFloat,
			})
			if err != nil {
				return domain.CostTable{}, fmt.Errorf("resolveCosts: persist default %s: %w", key, err)
			}
		case err != nil:
			return domain.CostTable{}, fmt.Errorf("resolveCosts: read %s: %w", key, err)
		default:
			stored, err := decimal.NewFromString(row.Value)
			if err != nil {
				return domain.CostTable{}, fmt.Errorf("resolveCosts: setting %s=%q: %w", key, row.Value, err)
			}
			costs.PerCategory[category] = stored
		}

		if env := config.Get("UNIT_COST_"+strings.ToUpper(category), ""); env != "" {
			override, err := decimal.NewFromString(env)
			if err != nil {
				return domain.CostTable{}, fmt.Errorf("resolveCosts: UNIT_COST_%s=%q: %w", category, env, err)
			}
			costs.PerCategory[category] = override
		}
	}

	return costs, nil
}

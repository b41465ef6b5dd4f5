package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
	"vendor-ledger-service/internal/adapters/repositories"
	"vendor-ledger-service/internal/config"
	"vendor-ledger-service/internal/domain"
	"vendor-ledger-service/internal/platform/db"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

// dbtool prepares the embedded ledger (schema + optional demo seed) and,
// when DATABASE_URL is set, refreshes the Postgres reporting mirror from it
// and prints a summary of the current month as a smoke check.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := config.Get("DB_PATH", "data/ledger.db")
	seedPath := config.Get("SEED_PATH", "")

	ledger, err := openLedger(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer ledger.Close()

	log.Println("Initializing ledger schema...")
	if err := repositories.InitSchema(ledger); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	if seedPath != "" {
		log.Println("Seeding demo shipments...")
		if err := repositories.SeedFromJSON(ledger, seedPath, domain.DefaultCosts()); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
		log.Println("Seeding complete.")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		return
	}

	if err := refreshMirror(ledger, databaseURL); err != nil {
		log.Fatal(err)
	}
}

func openLedger(dbPath string) (*sql.DB, error) {
	ledger, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openLedger: open sqlite database %q: %w", dbPath, err)
	}

	if err := ledger.Ping(); err != nil {
		return nil, fmt.Errorf("openLedger: verify sqlite connection to %q: %w", dbPath, err)
	}

	return ledger, nil
}

func refreshMirror(ledger *sql.DB, databaseURL string) error {
	ctx := context.Background()

	mirror, err := db.OpenMirror(databaseURL)
	if err != nil {
		return err
	}
	defer mirror.Close()

	log.Println("Initializing mirror schema...")
	if err := repositories.InitMirrorSchema(ctx, mirror); err != nil {
		return fmt.Errorf("mirror schema initialization failed: %w", err)
	}

	log.Println("Syncing mirror from ledger...")
	if err := repositories.SyncMirror(ctx, ledger, mirror); err != nil {
		return fmt.Errorf("mirror sync failed: %w", err)
	}
	log.Println("Mirror sync complete.")

	// Month-to-date summary straight off the mirror proves the copy is usable.
	start, end, err := domain.PeriodMonth.Range(time.Now().UTC())
	if err != nil {
		return err
	}

	source := repositories.NewSQLReportRepository(mirror)
	lines, err := source.ListSaleLines(ctx, start, end)
	if err != nil {
		return fmt.Errorf("mirror smoke check failed: %w", err)
	}

	report := domain.BuildReport(start, end, lines)
	log.Printf(
		"mirror summary start=%s end=%s paid=%s pending=%s profit=%s units=%d",
		report.Start.Format(domain.DateLayout),
		report.End.Format(domain.DateLayout),
		report.PaidTotal, report.PendingTotal, report.Profit, report.UnitsSold,
	)

	return nil
}

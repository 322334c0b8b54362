package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/transitbook/booking-backend/internal/config"
	"github.com/transitbook/booking-backend/internal/database"
)

// Permanently deletes trips that have been in the trash longer than the
// retention window. Trips still referenced by non-cancelled bookings are
// skipped and reported; they need the bookings resolved first.
func main() {
	var dbURLFlag string
	var retentionDays int
	var dryRun bool
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.IntVar(&retentionDays, "retention-days", 30, "Purge trips trashed more than this many days ago")
	flag.BoolVar(&dryRun, "dry-run", false, "List candidate trips without deleting")
	flag.Parse()

	// Try loading .env from current working directory (optional)
	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	// Build minimal database config without loading full app config
	dbCfg := config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     5,
		MaxIdleConnections: 2,
	}

	db, err := database.NewConnection(dbCfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	tripRepo := database.NewTripRepository(db)

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	fmt.Printf("Purging trips trashed before %s\n", cutoff.Format(time.RFC3339))

	trips, err := tripRepo.ListTrashed(cutoff)
	if err != nil {
		log.Fatalf("failed to list trashed trips: %v", err)
	}

	if len(trips) == 0 {
		fmt.Println("No trips to purge.")
		return
	}

	purged, skipped := 0, 0
	for _, trip := range trips {
		if dryRun {
			fmt.Printf("  would purge %s (trashed %s)\n", trip.ID, trip.DeletedAt.Format(time.RFC3339))
			continue
		}

		deleted, err := tripRepo.PermanentDelete(trip.ID)
		if err != nil {
			log.Fatalf("failed to delete trip %s: %v", trip.ID, err)
		}
		if !deleted {
			fmt.Printf("  skipped %s: still has non-cancelled bookings\n", trip.ID)
			skipped++
			continue
		}
		purged++
	}

	if dryRun {
		fmt.Printf("Dry run complete: %d candidate trips.\n", len(trips))
		return
	}

	fmt.Printf("Purge complete: %d deleted, %d skipped.\n", purged, skipped)
}

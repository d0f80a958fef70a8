package jobs

import (
	"context"
	"log"
	"os"

	"malldepot/config"
	"malldepot/cron"
	"malldepot/service/search"
)

func init() {
	schedule := os.Getenv("REINDEX_SCHEDULE")
	if schedule == "" {
		schedule = "@every 1h"
	}
	cron.Register("reindex", schedule, RunReindex)
}

// RunReindex rebuilds the Elasticsearch item index from the database.
func RunReindex(args ...string) {
	svc := search.GetService()
	if !svc.Available() {
		log.Println("reindex: elasticsearch not configured, skipping.")
		return
	}
	db, err := config.SharedDB()
	if err != nil {
		log.Printf("reindex: database connection failed: %v", err)
		return
	}
	n, err := svc.Reindex(context.Background(), db)
	if err != nil {
		log.Printf("reindex: %v", err)
		return
	}
	log.Printf("reindex: %d items indexed.", n)
}

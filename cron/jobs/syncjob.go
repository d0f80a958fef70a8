package jobs

import (
	"context"
	"errors"
	"log"
	"os"

	"malldepot/config"
	"malldepot/core/lock"
	"malldepot/cron"
	syncService "malldepot/service/sync"
)

func init() {
	schedule := os.Getenv("SYNC_SCHEDULE")
	if schedule == "" {
		schedule = "@every 15m"
	}
	cron.Register("storesync", schedule, RunStoreSync)
}

// RunStoreSync performs one scheduled synchronization. A run already in
// progress is not an error for the scheduler; the next tick picks it up.
func RunStoreSync(args ...string) {
	config.LoadAppConfig()
	db, err := config.SharedDB()
	if err != nil {
		log.Printf("storesync: database connection failed: %v", err)
		return
	}

	syncer := syncService.NewSyncer(db, config.AppConfig, lock.Shared())
	report, err := syncer.Run(context.Background())
	if errors.Is(err, lock.ErrHeld) {
		log.Println("storesync: previous run still in progress, skipping tick.")
		return
	}
	if err != nil {
		log.Printf("storesync: %v", err)
		return
	}
	log.Printf("storesync: received %d, sent %d, %d issues raised.",
		report.UpdatesReceived, report.UpdatesSent, report.IssuesRaised)
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"malldepot/config"
	"malldepot/core/lock"
	syncService "malldepot/service/sync"
)

var syncRunCmd = &cobra.Command{
	Use:   "sync:run",
	Short: "Run one synchronization against the remote store",
	Run: func(cmd *cobra.Command, args []string) {
		config.LoadAppConfig()
		config.InitRedis()
		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			os.Exit(1)
		}

		syncer := syncService.NewSyncer(db, config.AppConfig, lock.Shared())
		report, err := syncer.Run(context.Background())
		if errors.Is(err, lock.ErrHeld) {
			fmt.Println("A sync is already in progress.")
			os.Exit(1)
		}
		if err != nil {
			fmt.Printf("Sync failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf(`
=== Sync Report ===
Updates received: %d
Updates sent:     %d
Issues raised:    %d
===================
`, report.UpdatesReceived, report.UpdatesSent, report.IssuesRaised)
	},
}

var storeResetCmd = &cobra.Command{
	Use:   "store:reset",
	Short: "Wipe the remote store and reseed the full catalog",
	Run: func(cmd *cobra.Command, args []string) {
		config.LoadAppConfig()
		config.InitRedis()
		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			os.Exit(1)
		}

		resetter := syncService.NewResetter(db, config.AppConfig, lock.Shared())
		report, err := resetter.Run(context.Background())
		if errors.Is(err, lock.ErrHeld) {
			fmt.Println("A sync is already in progress.")
			os.Exit(1)
		}
		if err != nil {
			fmt.Printf("Reset failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Store reset complete, %d items reseeded.\n", report.UpdatesSent)
	},
}

func init() {
	rootCmd.AddCommand(syncRunCmd)
	rootCmd.AddCommand(storeResetCmd)
}

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

var migrateDown bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations (MySQL deployments)",
	Run: func(cmd *cobra.Command, args []string) {
		dsn := os.Getenv("MYSQL_DSN")
		if dsn == "" {
			fmt.Println("MYSQL_DSN is not set. SQLite deployments use gorm AutoMigrate at startup.")
			os.Exit(1)
		}

		m, err := migrate.New("file://migrations", "mysql://"+dsn)
		if err != nil {
			fmt.Printf("Migration setup failed: %v\n", err)
			os.Exit(1)
		}
		defer m.Close()

		if migrateDown {
			err = m.Steps(-1)
		} else {
			err = m.Up()
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("Database is up to date.")
			return
		}
		if err != nil {
			fmt.Printf("Migration failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Migrations applied.")
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "Roll back one migration step")
	rootCmd.AddCommand(migrateCmd)
}

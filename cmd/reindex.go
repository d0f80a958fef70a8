package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"malldepot/config"
	"malldepot/service/search"
)

var reindexCmd = &cobra.Command{
	Use:   "search:reindex",
	Short: "Rebuild the Elasticsearch item index from the database",
	Run: func(cmd *cobra.Command, args []string) {
		svc := search.GetService()
		if !svc.Available() {
			fmt.Println("Elasticsearch is not configured (set ELASTICSEARCH_HOST).")
			os.Exit(1)
		}
		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			os.Exit(1)
		}
		n, err := svc.Reindex(context.Background(), db)
		if err != nil {
			fmt.Printf("Reindex failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Indexed %d items.\n", n)
	},
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}

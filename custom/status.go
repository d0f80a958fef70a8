// Package custom shows how deployments extend the system through the
// public registries without touching core packages. This one adds a
// warehouse status snapshot on every surface.
package custom

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"malldepot/api"
	"malldepot/cmd"
	"malldepot/config"
	"malldepot/cron"
	gqlregistry "malldepot/graphql/registry"
	issueRepo "malldepot/model/repository/issue"
	stockRepo "malldepot/model/repository/stock"
)

type statusSnapshot struct {
	PendingSync      int64 `json:"pending_sync"`
	UnresolvedIssues int64 `json:"unresolved_issues"`
}

func snapshot() (*statusSnapshot, error) {
	db, err := config.SharedDB()
	if err != nil {
		return nil, err
	}
	pending, err := stockRepo.NewStockRepository(db).CountPending()
	if err != nil {
		return nil, err
	}
	unresolved, err := issueRepo.NewIssueRepository(db).CountUnresolved()
	if err != nil {
		return nil, err
	}
	return &statusSnapshot{PendingSync: pending, UnresolvedIssues: unresolved}, nil
}

func init() {
	// GraphQL extension
	gqlregistry.Register("warehouseStatus", func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return snapshot()
	})

	// CLI command
	cmd.Register(&cobra.Command{
		Use:   "warehouse:status",
		Short: "Print pending sync and unresolved issue counts",
		Run: func(c *cobra.Command, args []string) {
			s, err := snapshot()
			if err != nil {
				fmt.Println("status unavailable:", err)
				return
			}
			fmt.Printf("Pending sync: %d\nUnresolved issues: %d\n", s.PendingSync, s.UnresolvedIssues)
		},
	})

	// Cron job
	cron.Register("statuslog", "@every 1h", func(args ...string) {
		s, err := snapshot()
		if err != nil {
			log.Printf("statuslog: %v", err)
			return
		}
		log.Printf("statuslog: %d items pending sync, %d unresolved issues.", s.PendingSync, s.UnresolvedIssues)
	})

	// HTTP route
	api.RegisterGET("/status", func(c echo.Context) error {
		s, err := snapshot()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, s)
	})
}

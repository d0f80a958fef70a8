package sync

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"malldepot/api"
	"malldepot/config"
	"malldepot/core/lock"
	"malldepot/model/entity"
	syncRepo "malldepot/model/repository/sync"
	syncService "malldepot/service/sync"
)

func init() {
	api.RegisterModule(RegisterSyncRoutes)
}

type connectionInput struct {
	StoreName   string `json:"store_name"`
	IPv4Address string `json:"ipv4_address"`
	PortNumber  int    `json:"port_number"`
	BearerToken string `json:"bearer_token"`
}

func RegisterSyncRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/sync")
	repo := syncRepo.NewSyncRepository(db)

	// POST /api/sync/run – trigger one synchronization. 409 when a run is
	// already in progress; the caller retries later, runs never queue.
	g.POST("/run", func(c echo.Context) error {
		syncer := syncService.NewSyncer(db, config.AppConfig, lock.Shared())
		report, err := syncer.Run(c.Request().Context())
		return runResponse(c, report, err)
	})

	// POST /api/sync/reset – wipe the store and reseed the full catalog.
	g.POST("/reset", func(c echo.Context) error {
		resetter := syncService.NewResetter(db, config.AppConfig, lock.Shared())
		report, err := resetter.Run(c.Request().Context())
		return runResponse(c, report, err)
	})

	// GET /api/sync/history – audit trail, newest first.
	g.GET("/history", func(c echo.Context) error {
		limit := 50
		offset := 0
		if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 500 {
			limit = v
		}
		if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v > 0 {
			offset = v
		}
		rows, total, err := repo.ListSessions(limit, offset)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"sessions": rows, "total": total})
	})

	// GET /api/sync/connection – the configured store endpoint. The bearer
	// token never leaves the server.
	g.GET("/connection", func(c echo.Context) error {
		conn, err := repo.Connection()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		if conn == nil {
			cfg := config.AppConfig
			return c.JSON(http.StatusOK, echo.Map{
				"store_name":   cfg.DefaultStoreName,
				"ipv4_address": cfg.DefaultStoreIPv4,
				"port_number":  cfg.DefaultStorePort,
				"configured":   false,
			})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"store_name":   conn.StoreName,
			"ipv4_address": conn.IPv4Address,
			"port_number":  conn.PortNumber,
			"configured":   true,
		})
	})

	// PUT /api/sync/connection – replace the single settings row.
	g.PUT("/connection", func(c echo.Context) error {
		var in connectionInput
		if err := c.Bind(&in); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if in.StoreName == "" || in.IPv4Address == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "store_name and ipv4_address are required"})
		}
		if in.PortNumber <= 0 || in.PortNumber > 65535 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "port_number must be between 1 and 65535"})
		}
		conn, err := repo.Connection()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		if conn == nil {
			conn = &entity.StoreConnectionSettings{}
		}
		conn.StoreName = in.StoreName
		conn.IPv4Address = in.IPv4Address
		conn.PortNumber = in.PortNumber
		if in.BearerToken != "" {
			conn.BearerToken = in.BearerToken
		}
		if err := repo.SaveConnection(conn); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"store_name":   conn.StoreName,
			"ipv4_address": conn.IPv4Address,
			"port_number":  conn.PortNumber,
		})
	})
}

func runResponse(c echo.Context, report *syncService.Report, err error) error {
	if errors.Is(err, lock.ErrHeld) {
		return c.JSON(http.StatusConflict, echo.Map{"error": lock.ErrHeld.Error()})
	}
	if err != nil {
		var runErr *syncService.RunError
		if errors.As(err, &runErr) {
			return c.JSON(http.StatusBadGateway, echo.Map{
				"error":      runErr.Message,
				"error_code": int(runErr.Code),
				"report":     report,
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, report)
}

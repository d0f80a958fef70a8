package issue

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"malldepot/api"
	issueRepo "malldepot/model/repository/issue"
)

func init() {
	api.RegisterModule(RegisterIssueRoutes)
}

func RegisterIssueRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/issue")
	repo := issueRepo.NewIssueRepository(db)

	g.GET("", func(c echo.Context) error {
		limit := 50
		offset := 0
		if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 500 {
			limit = v
		}
		if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v > 0 {
			offset = v
		}
		rows, total, err := repo.List(limit, offset)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		unresolved, err := repo.CountUnresolved()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"issues":     rows,
			"total":      total,
			"unresolved": unresolved,
		})
	})

	g.GET("/:id", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid issue id"})
		}
		issue, err := repo.FindByID(uint(id))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "issue not found"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, issue)
	})

	// POST /api/issue/:id/resolve – idempotent.
	g.POST("/:id/resolve", func(c echo.Context) error {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid issue id"})
		}
		issue, err := repo.Resolve(uint(id), time.Now().UTC())
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "issue not found"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, issue)
	})
}

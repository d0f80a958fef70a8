package purchase

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"malldepot/api"
	purchaseRepo "malldepot/model/repository/purchase"
)

func init() {
	api.RegisterModule(RegisterPurchaseRoutes)
}

// Purchase history is append-only and written by the sync engine; the API
// only exposes reads.
func RegisterPurchaseRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/purchase")
	repo := purchaseRepo.NewPurchaseRepository(db)

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
		return c.JSON(http.StatusOK, echo.Map{"purchases": rows, "total": total})
	})

	g.GET("/item/:code", func(c echo.Context) error {
		n, err := repo.CountByItemCode(c.Param("code"))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"item_code": c.Param("code"), "purchases": n})
	})
}

package stock

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"malldepot/api"
	"malldepot/config"
	"malldepot/model/entity"
	stockRepo "malldepot/model/repository/stock"
	"malldepot/service/media"
)

func init() {
	api.RegisterModule(RegisterStockRoutes)
}

type itemInput struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	PricePerUnit float64 `json:"price_per_unit"`
	UnitsInStock int     `json:"units_in_stock"`
	Status       string  `json:"status"`
	VendorID     *uint   `json:"vendor_id"`
}

func (in *itemInput) validate() error {
	if in.Code == "" {
		return errors.New("code is required")
	}
	if in.Name == "" {
		return errors.New("name is required")
	}
	if in.PricePerUnit < 0 {
		return errors.New("price_per_unit must not be negative")
	}
	if in.UnitsInStock < 0 {
		return errors.New("units_in_stock must not be negative")
	}
	switch entity.ItemStatus(in.Status) {
	case entity.StatusForSale, entity.StatusNotForSale, "":
	default:
		return errors.New("status must be FOR_SALE or NOT_FOR_SALE")
	}
	return nil
}

func RegisterStockRoutes(apiGroup *echo.Group, db *gorm.DB) {
	g := apiGroup.Group("/stock")
	repo := stockRepo.NewStockRepository(db)
	store := media.NewStore(config.AppConfig)

	// GET /api/stock – paged item listing with vendors.
	g.GET("", func(c echo.Context) error {
		limit, offset := pageParams(c)
		items, total, err := repo.List(limit, offset)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"items": items,
			"total": total,
		})
	})

	// GET /api/stock/pending – how many records await the next sync.
	g.GET("/pending", func(c echo.Context) error {
		n, err := repo.CountPending()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"pending": n})
	})

	// GET /api/stock/deleted – tombstone listing.
	g.GET("/deleted", func(c echo.Context) error {
		limit, offset := pageParams(c)
		items, total, err := repo.ListDeleted(limit, offset)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"items": items,
			"total": total,
		})
	})

	// GET /api/stock/:id
	g.GET("/:id", func(c echo.Context) error {
		id, err := idParam(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
		}
		item, err := repo.FindByID(id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, item)
	})

	// POST /api/stock – create an item; it joins the next sync automatically.
	g.POST("", func(c echo.Context) error {
		var in itemInput
		if err := c.Bind(&in); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := in.validate(); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if _, err := repo.FindByCode(in.Code); err == nil {
			return c.JSON(http.StatusConflict, echo.Map{"error": "item code already exists"})
		}
		item := entity.Item{
			Code:         in.Code,
			Name:         in.Name,
			Description:  in.Description,
			PricePerUnit: in.PricePerUnit,
			UnitsInStock: in.UnitsInStock,
			Status:       entity.StatusNotForSale,
			VendorID:     in.VendorID,
		}
		if in.Status != "" {
			item.Status = entity.ItemStatus(in.Status)
		}
		if err := repo.Create(&item); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, item)
	})

	// PUT /api/stock/:id – full update; marks the record for the next sync.
	g.PUT("/:id", func(c echo.Context) error {
		id, err := idParam(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
		}
		item, err := repo.FindByID(id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		var in itemInput
		if err := c.Bind(&in); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if err := in.validate(); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if in.Code != item.Code {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "item code cannot change"})
		}
		item.Name = in.Name
		item.Description = in.Description
		item.PricePerUnit = in.PricePerUnit
		item.UnitsInStock = in.UnitsInStock
		item.VendorID = in.VendorID
		if in.Status != "" {
			item.Status = entity.ItemStatus(in.Status)
		}
		if err := repo.Update(item); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, item)
	})

	// POST /api/stock/:id/picture – multipart picture upload.
	g.POST("/:id/picture", func(c echo.Context) error {
		id, err := idParam(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
		}
		item, err := repo.FindByID(id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		file, err := c.FormFile("picture")
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "picture file is required"})
		}
		name, err := store.SavePicture(item.Code, file)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		item.Picture = name
		if err := repo.Update(item); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"picture": name})
	})

	// DELETE /api/stock/:id – tombstones the item so the deletion syncs.
	g.DELETE("/:id", func(c echo.Context) error {
		id, err := idParam(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid item id"})
		}
		item, err := repo.FindByID(id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		userName, _ := c.Get("system_id").(string)
		if err := repo.DeleteWithTombstone(id, userName, time.Now().UTC()); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		if item.Picture != "" {
			if err := store.RemovePicture(item.Code, item.Picture); err != nil {
				c.Logger().Warnf("could not remove picture for %s: %v", item.Code, err)
			}
		}
		return c.NoContent(http.StatusNoContent)
	})
}

func pageParams(c echo.Context) (limit, offset int) {
	limit = 50
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

func idParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

//go:build !cli
// +build !cli

package main

import (
	"log"
	"math/rand"
	"strconv"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"malldepot/api"
	graphqlApi "malldepot/api/graphql"
	_ "malldepot/api/issue"
	_ "malldepot/api/purchase"
	_ "malldepot/api/stock"
	_ "malldepot/api/sync"
	_ "malldepot/api/vendor"
	"malldepot/config"
	"malldepot/core/auth"
	_ "malldepot/cron/jobs"
	_ "malldepot/custom"
	"malldepot/model/entity"
)

func main() {
	config.LoadEnv()
	config.LoadAppConfig()

	config.InitRedis()
	redisStatus := "Redis not configured or not reachable, sync lock is process-local."
	if config.RedisClient != nil {
		err := config.RedisClient.Ping(config.RedisCtx()).Err()
		if err == nil {
			redisStatus = "Redis connection successful."
		} else {
			config.RedisClient = nil // Disable Redis if not reachable
			redisStatus = "Redis configured but not reachable, sync lock is process-local."
		}
	}
	log.Println(redisStatus)

	db, err := config.NewDB()
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}

	sqldb, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get DB instance: %v", err)
	}
	if err := sqldb.Ping(); err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	log.Println("Database connection successful.")

	if err := db.AutoMigrate(
		&entity.Vendor{},
		&entity.Item{},
		&entity.DeletedItem{},
		&entity.PurchaseHistory{},
		&entity.Issue{},
		&entity.SyncHistory{},
		&entity.StoreConnectionSettings{},
		&entity.APIToken{},
	); err != nil {
		log.Fatalf("auto-migration failed: %v", err)
	}

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.Decompress())

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start).Milliseconds()
			c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
			return err
		}
	})

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
	e.Static("/media", config.AppConfig.MediaDir)

	apiGroup := e.Group("/api")
	apiGroup.Use(auth.Middleware(db))
	api.ApplyModules(apiGroup, db)

	graphqlApi.RegisterGraphQLRoutes(e, db)
	api.ApplyRoutes(e, db)

	// ASCII banner on start (random font each run)
	fonts := []string{"banner", "big", "block", "slant", "standard", "small", "shadow", "speed", "thick", "doom", "larry3d", "puffy", "rectangles"}
	fig := figure.NewFigure(config.AppConfig.AppName, fonts[rand.Intn(len(fonts))], true)
	fig.Print()

	log.Printf("Server running on :%s", config.AppConfig.Port)
	e.Logger.Fatal(e.Start(":" + config.AppConfig.Port))
}

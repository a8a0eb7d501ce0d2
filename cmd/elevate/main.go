package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"

	"github.com/elevateforhumanity/elevate/app/repository"
	"github.com/elevateforhumanity/elevate/internal/pkg/billing"
	"github.com/elevateforhumanity/elevate/internal/pkg/cache"
	"github.com/elevateforhumanity/elevate/internal/pkg/database"
	"github.com/elevateforhumanity/elevate/internal/pkg/env"
	"github.com/elevateforhumanity/elevate/internal/pkg/programs"
	"github.com/elevateforhumanity/elevate/internal/pkg/reminders"
	"github.com/elevateforhumanity/elevate/internal/pkg/router"
)

func main() {
	app := NewApplication()

	// Weekly payment reminders run alongside the web server.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	repo := billing.NewRepository(database.GetDB())
	svc := billing.NewService(repo, billing.NewStripeClientFromEnv())
	go reminders.NewRunner(svc, repo).Run(ctx)

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	repository.InitializeFactory(database.GetDB())
	if err := programs.Sync(repository.GetGlobalFactory().GetProgramRepository()); err != nil {
		log.Printf("catalog sync failed: %v", err)
	}

	// Define possible base paths
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/elevate to project root
		"../../../", // Fallback
	}

	// Find the correct base path
	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "views"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}

	if basePath == "" {
		panic("Could not find project root directory")
	}

	// init fiber app
	app := fiber.New(fiber.Config{
		Views: html.New(basePath+"views", ".html"),
	})

	// ignore and cache favicon
	app.Use(favicon.New(favicon.Config{
		File:         basePath + "public/assets/favicon.ico",
		URL:          "/favicon.ico",
		CacheControl: "public, max-age=604800",
	}))

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "admin"),
		},
	}), monitor.New())

	// static files
	app.Static("/", basePath+"public/assets", fiber.Static{
		CacheDuration: 15 * time.Second,
		Compress:      true,
	})

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app)

	return app
}

package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"twinkle/internal/config"
	"twinkle/internal/genai"
	"twinkle/internal/http/handlers"
	applog "twinkle/internal/log"
	"twinkle/internal/repos"
	"twinkle/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	ai := genai.New(cfg.GeminiAPIKey, cfg.GeminiModel)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and answer with a friendly message; never leak internals
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Something went wrong. Please try again.",
			})
		},
	})
	// Global body size guard; Smart Import uploads carry images
	app.Server().MaxRequestBodySize = 10 << 20 // 10 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000",
		AllowCredentials: true,
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	deps := handlers.NewDeps(db, cfg, ai)

	// ---------- Public API ----------
	api := app.Group("/api/v1")
	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/:id", deps.ProductHandler.Detail)
	api.Get("/availability", deps.ProductHandler.Availability)

	api.Get("/cart", deps.CartHandler.View)
	api.Post("/cart", deps.CartHandler.Add)
	api.Delete("/cart/:productId", deps.CartHandler.Remove)
	api.Post("/cart/clear", deps.CartHandler.Clear)

	api.Post("/orders", deps.OrderHandler.Place)
	api.Get("/orders/:id", deps.OrderHandler.View)

	// Chat replies wait on the remote model; keep duplicate submissions out
	api.Post("/chat", limiter.New(limiter.Config{Max: 10, Expiration: time.Minute}), deps.ChatHandler.Send)

	// ---------- Auth (login throttled) ----------
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	}), authH.Login)
	app.Post("/logout", authH.Logout)

	// ---------- Admin ----------
	admin := app.Group("/admin", handlers.RequireStaff(authSvc))
	admin.Post("/products", deps.AdminHandler.SaveProduct)
	admin.Delete("/products/:id", deps.AdminHandler.DeleteProduct)
	admin.Get("/orders", deps.AdminHandler.ListOrders)
	admin.Post("/orders/:id/status", deps.AdminHandler.UpdateOrderStatus)
	admin.Get("/logs", deps.AdminHandler.ListAuditLogs)
	admin.Get("/media", deps.AdminHandler.ListMedia)
	admin.Post("/media", deps.AdminHandler.AddMedia)
	admin.Post("/import", deps.ImportHandler.Enqueue)
	admin.Post("/import/run", deps.ImportHandler.Run)
	admin.Get("/import", deps.ImportHandler.Queue)
	admin.Delete("/import", deps.ImportHandler.Reset)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}

package server

import (
	"errors"
	"strings"

	"cashier-backend/internal/apperr"
	"cashier-backend/internal/audit"
	"cashier-backend/internal/daygate"
	"cashier-backend/internal/httpx"
	"cashier-backend/internal/inventory"
	"cashier-backend/internal/logger"
	"cashier-backend/internal/metrics"
	"cashier-backend/internal/order"
	"cashier-backend/internal/shift"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type Deps struct {
	DB        *gorm.DB
	Gate      *daygate.Gate
	Ledger    *inventory.Ledger
	Documents *inventory.Documents
	Shifts    *shift.Service
	Orders    *order.Service
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	Logger    *logger.Logger

	CORSOrigins string
}

func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(d.Logger),
	})

	// CORS origins'i virgülle ayrılmış string'den temizle
	origins := strings.Split(d.CORSOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(origins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, " + httpx.UserHeader,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	app.Use(d.Metrics.Middleware())

	if d.Gatherer != nil {
		app.Get("/metrics", metrics.Handler(d.Gatherer))
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	daygate.Register(api, d.Gate)
	shift.Register(api, d.Shifts)
	order.Register(api, d.Orders)
	inventory.Register(api, d.DB, d.Ledger, d.Documents)
	audit.Register(api, d.DB)

	return app
}

// ErrorHandler: domain hatalarını HTTP durum koduna çevirir, 500'leri loglar
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}

		status := apperr.Status(err)
		if status == fiber.StatusInternalServerError {
			log.Error("http_request", "Beklenmeyen sunucu hatası", err, map[string]any{
				"method": c.Method(),
				"path":   c.Path(),
			})
		}
		return c.Status(status).JSON(apperr.Body(err))
	}
}

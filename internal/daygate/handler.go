package daygate

import (
	"cashier-backend/internal/httpx"

	"github.com/gofiber/fiber/v2"
)

// GET /api/day
func StatusHandler(g *Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		day, err := g.Status(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(day)
	}
}

// POST /api/day/open
func OpenHandler(g *Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		day, err := g.Open(c.UserContext(), httpx.Actor(c))
		if err != nil {
			return err
		}
		return c.JSON(day)
	}
}

// POST /api/day/close
func CloseHandler(g *Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		day, err := g.Close(c.UserContext(), httpx.Actor(c))
		if err != nil {
			return err
		}
		return c.JSON(day)
	}
}

func Register(r fiber.Router, g *Gate) {
	r.Get("/day", StatusHandler(g))
	r.Post("/day/open", OpenHandler(g))
	r.Post("/day/close", CloseHandler(g))
}

package shift

import (
	"cashier-backend/internal/httpx"

	"github.com/gofiber/fiber/v2"
)

// POST /api/shifts/start
// Kullanıcının açık vardiyası varsa aynısı döner
func StartHandler(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sh, err := s.Start(c.UserContext(), httpx.Actor(c))
		if err != nil {
			return err
		}
		return c.JSON(sh)
	}
}

// POST /api/shifts/:id/end
func EndHandler(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		sh, err := s.End(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(sh)
	}
}

// GET /api/shifts/current
func CurrentHandler(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sh, err := s.Current(c.UserContext(), httpx.Actor(c))
		if err != nil {
			return err
		}
		return c.JSON(sh)
	}
}

// GET /api/shifts/:id
func GetHandler(s *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		sh, err := s.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(sh)
	}
}

func Register(r fiber.Router, s *Service) {
	r.Post("/shifts/start", StartHandler(s))
	r.Get("/shifts/current", CurrentHandler(s))
	r.Get("/shifts/:id", GetHandler(s))
	r.Post("/shifts/:id/end", EndHandler(s))
}

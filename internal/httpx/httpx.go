package httpx

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// UserHeader: işlemi yapan kullanıcı. Kimlik doğrulama bu servisin önündeki katmanda yapılır.
const UserHeader = "X-User-ID"

// ParamID: path parametresini pozitif id olarak okur
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || v == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Geçersiz "+name)
	}
	return uint(v), nil
}

// QueryID: opsiyonel query parametresi, yoksa 0
func QueryID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Geçersiz "+name)
	}
	return uint(v), nil
}

// Actor: X-User-ID başlığı, yoksa 0
func Actor(c *fiber.Ctx) uint {
	v, err := strconv.ParseUint(c.Get(UserHeader), 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}

// Body: gövdeyi çözer, hata durumunda 400
func Body(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
	}
	return nil
}

package apperr

import "github.com/gofiber/fiber/v2"

// Status: hata sınıfı → HTTP durum kodu.
// day_closed bir bütünlük hatasıdır ama kasiyerin günü açmasıyla çözülür, 409 döner.
func Status(err error) int {
	e, ok := As(err)
	if !ok {
		return fiber.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindState:
		return fiber.StatusConflict
	case KindNotFound:
		return fiber.StatusNotFound
	}
	if e.Code == "day_closed" {
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// Body: istemciye dönen gövde. 500'lerde iç detay sızdırılmaz.
func Body(err error) fiber.Map {
	e, ok := As(err)
	if !ok {
		return fiber.Map{"error": "Beklenmeyen bir hata oluştu", "code": "internal"}
	}
	if Status(err) == fiber.StatusInternalServerError {
		return fiber.Map{"error": "Veri bütünlüğü hatası, yöneticiye bildirildi", "code": e.Code}
	}
	return fiber.Map{"error": e.Message, "code": e.Code}
}

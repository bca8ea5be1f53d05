package order

import (
	"context"

	"cashier-backend/internal/dto"
	"cashier-backend/internal/httpx"
	"cashier-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ItemsRequest struct {
	Items []ItemInput `json:"items"`
}

type DiscountRequest struct {
	Amount decimal.Decimal     `json:"amount"`
	Type   models.DiscountType `json:"type"`
}

type CompleteRequest struct {
	Payments    map[models.PaymentMethod]decimal.Decimal `json:"payments"`
	ShouldPrint bool                                     `json:"should_print"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

type DeliveryRequest struct {
	DriverID *uint `json:"driver_id"`
}

type CustomerRequest struct {
	CustomerID uint `json:"customer_id"`
}

type NotesRequest struct {
	KitchenNotes string `json:"kitchen_notes"`
	OrderNotes   string `json:"order_notes"`
}

type TypeRequest struct {
	Type        models.OrderType `json:"type"`
	TableNumber string           `json:"table_number"`
}

type EInvoiceRequest struct {
	Status string `json:"status"`
}

// POST /api/orders
func CreateOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body dto.CreateOrderInput
		if err := httpx.Body(c, &body); err != nil {
			return err
		}
		if body.UserID == 0 {
			body.UserID = httpx.Actor(c)
		}
		in, err := dto.NewCreateOrder(body)
		if err != nil {
			return err
		}
		o, err := svc.CreateOrder(c.UserContext(), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(o)
	}
}

// GET /api/orders/:id
func GetOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		o, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(o)
	}
}

// GET /api/shifts/:id/orders?number=12
func ListShiftOrdersHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		shiftID, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		number, err := httpx.QueryID(c, "number")
		if err != nil {
			return err
		}
		if number > 0 {
			o, err := svc.FindInShift(c.UserContext(), shiftID, number)
			if err != nil {
				return err
			}
			return c.JSON(o)
		}
		orders, err := svc.ListByShift(c.UserContext(), shiftID)
		if err != nil {
			return err
		}
		return c.JSON(orders)
	}
}

// POST /api/orders/:id/items
func AddItemsHandler(svc *Service) fiber.Handler {
	return itemsHandler(svc.AddItems)
}

// PUT /api/orders/:id/items
func ReplaceItemsHandler(svc *Service) fiber.Handler {
	return itemsHandler(svc.ReplaceItems)
}

func itemsHandler(apply func(ctx context.Context, orderID uint, items []ItemInput) (models.Order, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body ItemsRequest
		if err := httpx.Body(c, &body); err != nil {
			return err
		}
		o, err := apply(c.UserContext(), id, body.Items)
		if err != nil {
			return err
		}
		return c.JSON(o)
	}
}

// DELETE /api/orders/:id/items/:itemId
func RemoveItemHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		itemID, err := httpx.ParamID(c, "itemId")
		if err != nil {
			return err
		}
		o, err := svc.RemoveItem(c.UserContext(), id, itemID)
		if err != nil {
			return err
		}
		return c.JSON(o)
	}
}

// POST /api/orders/:id/discount
func ApplyDiscountHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body DiscountRequest
		if err := httpx.Body(c, &body); err != nil {
			return err
		}
		d, err := dto.NewDiscount(body.Amount, body.Type)
		if err != nil {
			return err
		}
		o, err := svc.ApplyDiscount(c.UserContext(), id, httpx.Actor(c), d)
		if err != nil {
			return err
		}
		return c.JSON(o)
	}
}

// POST /api/orders/:id/accept
func AcceptOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		o, err := svc.AcceptOrder(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(o)
	}
}

// POST /api/orders/:id/out-for-delivery
func OutForDeliveryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body DeliveryRequest
		if len(c.Body()) > 0 {
			if err := httpx.Body(c, &body); err != nil {
				return err
			}
		}
		o, err := svc.MarkOutForDelivery(c.UserContext(), id, body.DriverID)
		if err != nil {
			return err
		}
		return c.JSON(o)
	}
}

// POST /api/orders/:id/complete
// Body: {"payments": {"cash": "50", "card": "40"}, "should_print": true}
func CompleteOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body CompleteRequest
		if err := httpx.Body(c, &body); err != nil {
			return err
		}
		payments, err := dto.NewPayments(body.Payments)
		if err != nil {
			return err
		}
		o, err := svc.CompleteOrder(c.UserContext(), id, payments, body.ShouldPrint)
		if err != nil {
			return err
		}
		return c.JSON(o)
	}
}

// POST /api/orders/:id/cancel
func CancelOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body CancelRequest
		if err := httpx.Body(c, &body); err != nil {
			return err
		}
		o, err := svc.CancelOrder(c.UserContext(), id, httpx.Actor(c), body.Reason)
		if err != nil {
			return err
		}
		return c.JSON(o)
	}
}

// PUT /api/orders/:id/customer
func LinkCustomerHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body CustomerRequest
		if err := httpx.Body(c, &body); err != nil {
			return err
		}
		o, err := svc.LinkCustomer(c.UserContext(), id, body.CustomerID)
		if err != nil {
			return err
		}
		return c.JSON(o)
	}
}

// PUT /api/orders/:id/notes
func UpdateNotesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body NotesRequest
		if err := httpx.Body(c, &body); err != nil {
			return err
		}
		o, err := svc.UpdateNotes(c.UserContext(), id, body.KitchenNotes, body.OrderNotes)
		if err != nil {
			return err
		}
		return c.JSON(o)
	}
}

// PUT /api/orders/:id/type
func ChangeTypeHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body TypeRequest
		if err := httpx.Body(c, &body); err != nil {
			return err
		}
		o, err := svc.ChangeType(c.UserContext(), id, body.Type, body.TableNumber)
		if err != nil {
			return err
		}
		return c.JSON(o)
	}
}

// DELETE /api/orders/:id
func DeleteOrderHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		if err := svc.DeleteOrder(c.UserContext(), id, httpx.Actor(c)); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/orders/:id/snapshot
func SnapshotHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		snap, err := svc.Snapshot(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(snap)
	}
}

// PUT /api/orders/:id/einvoice
func EInvoiceStatusHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body EInvoiceRequest
		if err := httpx.Body(c, &body); err != nil {
			return err
		}
		o, err := svc.RecordEInvoiceStatus(c.UserContext(), id, body.Status)
		if err != nil {
			return err
		}
		return c.JSON(o)
	}
}

// Register: sipariş route'ları
func Register(r fiber.Router, svc *Service) {
	r.Post("/orders", CreateOrderHandler(svc))
	r.Get("/orders/:id", GetOrderHandler(svc))
	r.Delete("/orders/:id", DeleteOrderHandler(svc))
	r.Get("/orders/:id/snapshot", SnapshotHandler(svc))
	r.Post("/orders/:id/items", AddItemsHandler(svc))
	r.Put("/orders/:id/items", ReplaceItemsHandler(svc))
	r.Delete("/orders/:id/items/:itemId", RemoveItemHandler(svc))
	r.Post("/orders/:id/discount", ApplyDiscountHandler(svc))
	r.Post("/orders/:id/accept", AcceptOrderHandler(svc))
	r.Post("/orders/:id/out-for-delivery", OutForDeliveryHandler(svc))
	r.Post("/orders/:id/complete", CompleteOrderHandler(svc))
	r.Post("/orders/:id/cancel", CancelOrderHandler(svc))
	r.Put("/orders/:id/customer", LinkCustomerHandler(svc))
	r.Put("/orders/:id/notes", UpdateNotesHandler(svc))
	r.Put("/orders/:id/type", ChangeTypeHandler(svc))
	r.Put("/orders/:id/einvoice", EInvoiceStatusHandler(svc))
	r.Get("/shifts/:id/orders", ListShiftOrdersHandler(svc))
}

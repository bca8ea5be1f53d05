package inventory

import (
	"context"

	"cashier-backend/internal/apperr"
	"cashier-backend/internal/dto"
	"cashier-backend/internal/httpx"
	"cashier-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DocumentRequest struct {
	SupplierID *uint                   `json:"supplier_id"`
	Notes      string                  `json:"notes"`
	Items      []dto.DocumentItemInput `json:"items"`
}

type StocktakingRequest struct {
	Notes string                     `json:"notes"`
	Items []dto.StocktakingItemInput `json:"items"`
}

type StockResponse struct {
	ProductID uint                   `json:"product_id"`
	Quantity  decimal.Decimal        `json:"quantity"`
	Movements []models.StockMovement `json:"movements"`
}

// POST /api/purchase-invoices, /api/return-purchase-invoices, /api/wastes
func CreateDocumentHandler[T any](create func(ctx context.Context, h DocumentHeader, items []dto.DocumentItem) (T, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body DocumentRequest
		if err := httpx.Body(c, &body); err != nil {
			return err
		}
		items, err := dto.NewDocumentItems(body.Items)
		if err != nil {
			return err
		}
		doc, err := create(c.UserContext(), DocumentHeader{
			UserID:     httpx.Actor(c),
			SupplierID: body.SupplierID,
			Notes:      body.Notes,
		}, items)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// POST /api/stocktakings
func CreateStocktakingHandler(docs *Documents) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body StocktakingRequest
		if err := httpx.Body(c, &body); err != nil {
			return err
		}
		items, err := dto.NewStocktakingItems(body.Items)
		if err != nil {
			return err
		}
		st, err := docs.CreateStocktaking(c.UserContext(), DocumentHeader{UserID: httpx.Actor(c), Notes: body.Notes}, items)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(st)
	}
}

// POST /api/<belge>/:id/close
func CloseDocumentHandler[T any](closeFn func(ctx context.Context, id, userID uint) (T, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		doc, err := closeFn(c.UserContext(), id, httpx.Actor(c))
		if err != nil {
			return err
		}
		return c.JSON(doc)
	}
}

// GET /api/<belge>/:id
func GetDocumentHandler[T any](db *gorm.DB, what string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		var doc T
		if err := db.WithContext(c.UserContext()).Preload("Items").First(&doc, id).Error; err != nil {
			return apperr.FromDB(err, what)
		}
		return c.JSON(doc)
	}
}

// GET /api/stock/:productId
func StockHandler(ledger *Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		productID, err := httpx.ParamID(c, "productId")
		if err != nil {
			return err
		}
		qty, err := ledger.Quantity(c.UserContext(), productID)
		if err != nil {
			return err
		}
		movements, err := ledger.Movements(c.UserContext(), productID)
		if err != nil {
			return err
		}
		return c.JSON(StockResponse{ProductID: productID, Quantity: qty, Movements: movements})
	}
}

// GET /api/stock/alerts
func LowStockHandler(ledger *Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		alerts, err := ledger.LowStock(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(alerts)
	}
}

// GET /api/stock/verify?product_id=3
// Tutarsızlık bulunursa 500 döner ve loglanır
func VerifyHandler(ledger *Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		productID, err := httpx.QueryID(c, "product_id")
		if err != nil {
			return err
		}
		if productID > 0 {
			err = ledger.Verify(c.UserContext(), productID)
		} else {
			err = ledger.VerifyAll(c.UserContext())
		}
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"ok": true})
	}
}

// Register: ürün, stok ve belge route'ları
func Register(r fiber.Router, db *gorm.DB, ledger *Ledger, docs *Documents) {
	r.Get("/products", ListProductsHandler(db))
	r.Post("/products", CreateProductHandler(db))
	r.Put("/products/:id", UpdateProductHandler(db))
	r.Delete("/products/:id", DeleteProductHandler(db))

	r.Get("/stock/alerts", LowStockHandler(ledger))
	r.Get("/stock/verify", VerifyHandler(ledger))
	r.Get("/stock/:productId", StockHandler(ledger))

	r.Post("/purchase-invoices", CreateDocumentHandler(docs.CreatePurchaseInvoice))
	r.Get("/purchase-invoices/:id", GetDocumentHandler[models.PurchaseInvoice](db, "purchase_invoice"))
	r.Post("/purchase-invoices/:id/close", CloseDocumentHandler(docs.ClosePurchaseInvoice))

	r.Post("/return-purchase-invoices", CreateDocumentHandler(docs.CreateReturnPurchaseInvoice))
	r.Get("/return-purchase-invoices/:id", GetDocumentHandler[models.ReturnPurchaseInvoice](db, "return_purchase_invoice"))
	r.Post("/return-purchase-invoices/:id/close", CloseDocumentHandler(docs.CloseReturnPurchaseInvoice))

	r.Post("/wastes", CreateDocumentHandler(docs.CreateWaste))
	r.Get("/wastes/:id", GetDocumentHandler[models.Waste](db, "waste"))
	r.Post("/wastes/:id/close", CloseDocumentHandler(docs.CloseWaste))

	r.Post("/stocktakings", CreateStocktakingHandler(docs))
	r.Post("/stocktakings/import", ImportStocktakingHandler(db, docs))
	r.Get("/stocktakings/:id", GetDocumentHandler[models.Stocktaking](db, "stocktaking"))
	r.Post("/stocktakings/:id/close", CloseDocumentHandler(docs.CloseStocktaking))
}

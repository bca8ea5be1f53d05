package inventory

import (
	"strings"

	"cashier-backend/internal/apperr"
	"cashier-backend/internal/httpx"
	"cashier-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductResponse struct {
	ID       uint            `json:"id"`
	Name     string          `json:"name"`
	Unit     string          `json:"unit"`
	Price    decimal.Decimal `json:"price"`
	Cost     decimal.Decimal `json:"cost"`
	MinStock decimal.Decimal `json:"min_stock"`
	Quantity decimal.Decimal `json:"quantity"`
}

type CreateProductRequest struct {
	Name     string          `json:"name"`
	Unit     string          `json:"unit"`
	Price    decimal.Decimal `json:"price"`
	Cost     decimal.Decimal `json:"cost"`
	MinStock decimal.Decimal `json:"min_stock"` // Opsiyonel
}

type UpdateProductRequest struct {
	Name     *string          `json:"name"`
	Unit     *string          `json:"unit"`
	Price    *decimal.Decimal `json:"price"`
	Cost     *decimal.Decimal `json:"cost"`
	MinStock *decimal.Decimal `json:"min_stock"`
}

func toProductResponse(p models.Product, qty decimal.Decimal) ProductResponse {
	return ProductResponse{
		ID:       p.ID,
		Name:     p.Name,
		Unit:     p.Unit,
		Price:    p.Price,
		Cost:     p.Cost,
		MinStock: p.MinStock,
		Quantity: qty,
	}
}

// GET /api/products
// Güncel stok miktarıyla birlikte döner
func ListProductsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		var products []models.Product
		if err := db.WithContext(ctx).Order("name asc").Find(&products).Error; err != nil {
			return apperr.FromDB(err, "product")
		}
		var items []models.InventoryItem
		if err := db.WithContext(ctx).Find(&items).Error; err != nil {
			return apperr.FromDB(err, "inventory_item")
		}
		qty := make(map[uint]decimal.Decimal, len(items))
		for _, i := range items {
			qty[i.ProductID] = i.Quantity
		}

		res := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			res = append(res, toProductResponse(p, qty[p.ID]))
		}
		return c.JSON(res)
	}
}

// POST /api/products
func CreateProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := httpx.Body(c, &body); err != nil {
			return err
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Unit = strings.TrimSpace(body.Unit)

		if body.Name == "" || body.Unit == "" {
			return apperr.Validation("product_invalid", "Name ve unit zorunlu")
		}
		if body.Price.IsNegative() || body.Cost.IsNegative() || body.MinStock.IsNegative() {
			return apperr.Validation("product_invalid", "Fiyat, maliyet ve minimum stok negatif olamaz")
		}

		p := models.Product{
			Name:     body.Name,
			Unit:     body.Unit,
			Price:    body.Price,
			Cost:     body.Cost,
			MinStock: body.MinStock,
		}
		if err := db.WithContext(c.UserContext()).Create(&p).Error; err != nil {
			if e, ok := apperr.As(apperr.FromDB(err, "product")); ok && e.Code == "duplicate_product" {
				return apperr.Validation("product_name_taken", "Bu isimde bir ürün zaten var")
			}
			return apperr.FromDB(err, "product")
		}

		return c.Status(fiber.StatusCreated).JSON(toProductResponse(p, decimal.Zero))
	}
}

// PUT /api/products/:id
// Fiyat değişikliği mevcut sipariş kalemlerini etkilemez, kalemler kendi kopyasını taşır
func UpdateProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}

		var p models.Product
		if err := db.WithContext(c.UserContext()).First(&p, id).Error; err != nil {
			return apperr.FromDB(err, "product")
		}

		var body UpdateProductRequest
		if err := httpx.Body(c, &body); err != nil {
			return err
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return apperr.Validation("product_invalid", "Name boş olamaz")
			}
			p.Name = name
		}
		if body.Unit != nil {
			unit := strings.TrimSpace(*body.Unit)
			if unit == "" {
				return apperr.Validation("product_invalid", "Unit boş olamaz")
			}
			p.Unit = unit
		}
		for _, v := range []*decimal.Decimal{body.Price, body.Cost, body.MinStock} {
			if v != nil && v.IsNegative() {
				return apperr.Validation("product_invalid", "Fiyat, maliyet ve minimum stok negatif olamaz")
			}
		}
		if body.Price != nil {
			p.Price = *body.Price
		}
		if body.Cost != nil {
			p.Cost = *body.Cost
		}
		if body.MinStock != nil {
			p.MinStock = *body.MinStock
		}

		if err := db.WithContext(c.UserContext()).Save(&p).Error; err != nil {
			return apperr.FromDB(err, "product")
		}

		qty, err := quantityOf(db.WithContext(c.UserContext()), p.ID)
		if err != nil {
			return err
		}
		return c.JSON(toProductResponse(p, qty))
	}
}

// DELETE /api/products/:id
// Hareketi olan ürün silinemez, defter geçmişi korunur
func DeleteProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}

		err = db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.StockMovement{}).Where("product_id = ?", id).Count(&count).Error; err != nil {
				return apperr.FromDB(err, "stock_movement")
			}
			if count > 0 {
				return apperr.State("product_has_movements", "Stok hareketi olan ürün silinemez")
			}
			res := tx.Delete(&models.Product{}, id)
			if res.Error != nil {
				return apperr.FromDB(res.Error, "product")
			}
			if res.RowsAffected == 0 {
				return apperr.NotFound("product_not_found", "Ürün bulunamadı")
			}
			return nil
		})
		if err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

package dto

import (
	"github.com/shopspring/decimal"

	"cashier-backend/internal/apperr"
	"cashier-backend/internal/models"
)

// quantityFits: miktar saklama ölçeğinden (3 basamak) fazla ondalık taşımıyor.
// "0.1250" gibi sondaki sıfırlar kabul edilir.
func quantityFits(q decimal.Decimal) bool {
	return q.Equal(q.Round(models.QuantityScale))
}

// OrderItem: doğrulanmış sipariş kalemi. Toplamlar her okumada hesaplanır.
type OrderItem struct {
	productID uint
	quantity  decimal.Decimal
	price     decimal.Decimal
	cost      decimal.Decimal
	notes     string
}

func NewOrderItem(productID uint, quantity, price, cost decimal.Decimal, notes string) (OrderItem, error) {
	if productID == 0 {
		return OrderItem{}, apperr.Validation("product_required", "product_id zorunludur")
	}
	if !quantity.IsPositive() {
		return OrderItem{}, apperr.Validation("invalid_quantity", "quantity 0'dan büyük olmalıdır (ürün %d)", productID)
	}
	if !quantityFits(quantity) {
		return OrderItem{}, apperr.Validation("invalid_quantity", "quantity en fazla %d ondalık basamak içerebilir (ürün %d)", models.QuantityScale, productID)
	}
	if price.IsNegative() {
		return OrderItem{}, apperr.Validation("invalid_price", "price negatif olamaz (ürün %d)", productID)
	}
	if cost.IsNegative() {
		return OrderItem{}, apperr.Validation("invalid_cost", "cost negatif olamaz (ürün %d)", productID)
	}
	return OrderItem{productID: productID, quantity: quantity, price: price, cost: cost, notes: notes}, nil
}

func (i OrderItem) ProductID() uint           { return i.productID }
func (i OrderItem) Quantity() decimal.Decimal { return i.quantity }
func (i OrderItem) Price() decimal.Decimal    { return i.price }
func (i OrderItem) Cost() decimal.Decimal     { return i.cost }
func (i OrderItem) Notes() string             { return i.notes }

func (i OrderItem) Total() decimal.Decimal     { return i.quantity.Mul(i.price) }
func (i OrderItem) TotalCost() decimal.Decimal { return i.quantity.Mul(i.cost) }

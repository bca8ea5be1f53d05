package dto

import (
	"github.com/shopspring/decimal"

	"cashier-backend/internal/apperr"
	"cashier-backend/internal/models"
)

// StockMovement: stok defterine yazılacak doğrulanmış hareket
type StockMovement struct {
	productID uint
	quantity  decimal.Decimal
	operation models.MovementOperation
	reason    models.MovementReason
	ref       models.DocumentRef
}

// NewStockMovement: yönü sebepten çıkarılan hareket (satış, alım, iade, zayiat)
func NewStockMovement(productID uint, quantity decimal.Decimal, reason models.MovementReason, ref models.DocumentRef) (StockMovement, error) {
	op, ok := reason.Operation()
	if !ok {
		return StockMovement{}, apperr.Validation("invalid_movement_reason", "Hareket sebebi yön belirtmiyor: %q", reason)
	}
	return newMovement(productID, quantity, op, reason, ref)
}

// NewStocktakingAdjustment: işaretli farktan sayım düzeltmesi (delta sıfır olamaz)
func NewStocktakingAdjustment(productID uint, delta decimal.Decimal, ref models.DocumentRef) (StockMovement, error) {
	if delta.IsZero() {
		return StockMovement{}, apperr.Validation("invalid_quantity", "Sayım farkı sıfır (ürün %d)", productID)
	}
	op := models.MovementIncoming
	if delta.IsNegative() {
		op = models.MovementOutgoing
	}
	return newMovement(productID, delta.Abs(), op, models.ReasonStocktakingAdjustment, ref)
}

func newMovement(productID uint, quantity decimal.Decimal, op models.MovementOperation, reason models.MovementReason, ref models.DocumentRef) (StockMovement, error) {
	if productID == 0 {
		return StockMovement{}, apperr.Validation("product_required", "product_id zorunludur")
	}
	if !quantity.IsPositive() {
		return StockMovement{}, apperr.Validation("invalid_quantity", "Hareket miktarı 0'dan büyük olmalıdır (ürün %d)", productID)
	}
	if !quantityFits(quantity) {
		return StockMovement{}, apperr.Validation("invalid_quantity", "Hareket miktarı en fazla %d ondalık basamak içerebilir (ürün %d)", models.QuantityScale, productID)
	}
	if !reason.Valid() {
		return StockMovement{}, apperr.Validation("invalid_movement_reason", "Geçersiz hareket sebebi: %q", reason)
	}
	if !ref.Kind.Valid() || ref.ID == 0 {
		return StockMovement{}, apperr.Validation("invalid_reference", "Geçersiz kaynak belge: %s #%d", ref.Kind, ref.ID)
	}
	return StockMovement{productID: productID, quantity: quantity, operation: op, reason: reason, ref: ref}, nil
}

func (m StockMovement) ProductID() uint                     { return m.productID }
func (m StockMovement) Quantity() decimal.Decimal           { return m.quantity }
func (m StockMovement) Operation() models.MovementOperation { return m.operation }
func (m StockMovement) Reason() models.MovementReason       { return m.reason }
func (m StockMovement) Reference() models.DocumentRef       { return m.ref }

// Signed: defter miktarına etkisi
func (m StockMovement) Signed() decimal.Decimal {
	if m.operation == models.MovementOutgoing {
		return m.quantity.Neg()
	}
	return m.quantity
}

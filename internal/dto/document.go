package dto

import (
	"github.com/shopspring/decimal"

	"cashier-backend/internal/apperr"
	"cashier-backend/internal/models"
)

// DocumentItemInput: alım/iade/zayiat belgesi satırı (HTTP gövdesi)
type DocumentItemInput struct {
	ProductID uint            `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type DocumentItem struct {
	productID uint
	quantity  decimal.Decimal
	price     decimal.Decimal
}

func NewDocumentItem(in DocumentItemInput) (DocumentItem, error) {
	if in.ProductID == 0 {
		return DocumentItem{}, apperr.Validation("product_required", "product_id zorunludur")
	}
	if !in.Quantity.IsPositive() {
		return DocumentItem{}, apperr.Validation("invalid_quantity", "quantity 0'dan büyük olmalıdır (ürün %d)", in.ProductID)
	}
	if !quantityFits(in.Quantity) {
		return DocumentItem{}, apperr.Validation("invalid_quantity", "quantity en fazla %d ondalık basamak içerebilir (ürün %d)", models.QuantityScale, in.ProductID)
	}
	if in.Price.IsNegative() {
		return DocumentItem{}, apperr.Validation("invalid_price", "price negatif olamaz (ürün %d)", in.ProductID)
	}
	return DocumentItem{productID: in.ProductID, quantity: in.Quantity, price: in.Price}, nil
}

func NewDocumentItems(in []DocumentItemInput) ([]DocumentItem, error) {
	if len(in) == 0 {
		return nil, apperr.Validation("items_required", "En az bir ürün eklenmelidir")
	}
	out := make([]DocumentItem, 0, len(in))
	for _, i := range in {
		item, err := NewDocumentItem(i)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (i DocumentItem) ProductID() uint           { return i.productID }
func (i DocumentItem) Quantity() decimal.Decimal { return i.quantity }
func (i DocumentItem) Price() decimal.Decimal    { return i.price }
func (i DocumentItem) Total() decimal.Decimal    { return i.quantity.Mul(i.price) }

// StocktakingItemInput: sayılan gerçek miktar
type StocktakingItemInput struct {
	ProductID    uint            `json:"product_id"`
	RealQuantity decimal.Decimal `json:"real_quantity"`
	Price        decimal.Decimal `json:"price"`
}

type StocktakingItem struct {
	productID    uint
	realQuantity decimal.Decimal
	price        decimal.Decimal
}

func NewStocktakingItems(in []StocktakingItemInput) ([]StocktakingItem, error) {
	if len(in) == 0 {
		return nil, apperr.Validation("items_required", "En az bir ürün eklenmelidir")
	}
	seen := make(map[uint]bool, len(in))
	out := make([]StocktakingItem, 0, len(in))
	for _, i := range in {
		if i.ProductID == 0 {
			return nil, apperr.Validation("product_required", "product_id zorunludur")
		}
		if seen[i.ProductID] {
			return nil, apperr.Validation("duplicate_product", "Ürün sayımda birden fazla kez var (ürün %d)", i.ProductID)
		}
		if i.RealQuantity.IsNegative() {
			return nil, apperr.Validation("invalid_quantity", "real_quantity negatif olamaz (ürün %d)", i.ProductID)
		}
		if !quantityFits(i.RealQuantity) {
			return nil, apperr.Validation("invalid_quantity", "real_quantity en fazla %d ondalık basamak içerebilir (ürün %d)", models.QuantityScale, i.ProductID)
		}
		if i.Price.IsNegative() {
			return nil, apperr.Validation("invalid_price", "price negatif olamaz (ürün %d)", i.ProductID)
		}
		seen[i.ProductID] = true
		out = append(out, StocktakingItem{productID: i.ProductID, realQuantity: i.RealQuantity, price: i.Price})
	}
	return out, nil
}

func (i StocktakingItem) ProductID() uint               { return i.productID }
func (i StocktakingItem) RealQuantity() decimal.Decimal { return i.realQuantity }
func (i StocktakingItem) Price() decimal.Decimal        { return i.price }

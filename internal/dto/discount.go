package dto

import (
	"github.com/shopspring/decimal"

	"cashier-backend/internal/apperr"
	"cashier-backend/internal/models"
)

var hundred = decimal.NewFromInt(100)

type Discount struct {
	amount decimal.Decimal
	kind   models.DiscountType
}

func NewDiscount(amount decimal.Decimal, kind models.DiscountType) (Discount, error) {
	if !kind.Valid() {
		return Discount{}, apperr.Validation("invalid_discount_type", "Geçersiz indirim tipi: %q", kind)
	}
	if amount.IsNegative() {
		return Discount{}, apperr.Validation("invalid_discount_amount", "İndirim negatif olamaz")
	}
	if kind == models.DiscountTypePercentage && amount.GreaterThan(hundred) {
		return Discount{}, apperr.Validation("invalid_discount_amount", "Yüzde indirim 100'den büyük olamaz")
	}
	return Discount{amount: amount, kind: kind}, nil
}

func (d Discount) Amount() decimal.Decimal   { return d.amount }
func (d Discount) Type() models.DiscountType { return d.kind }

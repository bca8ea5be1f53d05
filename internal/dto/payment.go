package dto

import (
	"github.com/shopspring/decimal"

	"cashier-backend/internal/apperr"
	"cashier-backend/internal/models"
)

// PaymentLine: tek yöntemle alınan tutar
type PaymentLine struct {
	Method models.PaymentMethod
	Amount decimal.Decimal
}

// Payments: sipariş kapatılırken yöntem → tutar dağılımı
type Payments struct {
	lines []PaymentLine
}

func NewPayments(byMethod map[models.PaymentMethod]decimal.Decimal) (Payments, error) {
	for method, amount := range byMethod {
		if !method.Valid() {
			return Payments{}, apperr.Validation("invalid_payment_method", "Geçersiz ödeme yöntemi: %q", method)
		}
		if amount.IsNegative() {
			return Payments{}, apperr.Validation("invalid_payment_amount", "%s tutarı negatif olamaz", method)
		}
	}

	var lines []PaymentLine
	for _, method := range models.PaymentMethods() {
		amount, ok := byMethod[method]
		if !ok || amount.IsZero() {
			continue
		}
		lines = append(lines, PaymentLine{Method: method, Amount: amount})
	}
	return Payments{lines: lines}, nil
}

// NonZero: sıfırdan büyük tutarlar, sabit yöntem sırasıyla
func (p Payments) NonZero() []PaymentLine { return append([]PaymentLine(nil), p.lines...) }

func (p Payments) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range p.lines {
		sum = sum.Add(l.Amount)
	}
	return sum
}

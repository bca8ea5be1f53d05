package calc

import (
	"github.com/shopspring/decimal"

	"cashier-backend/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Line: toplamı hesaplanabilen her belge satırı
type Line interface {
	Total() decimal.Decimal
}

func ItemTotal(qty, price decimal.Decimal) decimal.Decimal { return qty.Mul(price) }

// LinesTotal: fatura / iade / zayiat toplamı
func LinesTotal[L Line](lines []L) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Total())
	}
	return sum
}

// StocktakingLineTotal: (gerçek - defter) × fiyat, açıkta negatif
func StocktakingLineTotal(realQty, stockQty, price decimal.Decimal) decimal.Decimal {
	return realQty.Sub(stockQty).Mul(price)
}

func StocktakingTotal(items []models.StocktakingItem) decimal.Decimal {
	sum := decimal.Zero
	for _, i := range items {
		sum = sum.Add(StocktakingLineTotal(i.RealQuantity, i.StockQuantity, i.Price))
	}
	return sum
}

// Discount: yüzde ise sub_total × amount / 100, sabit ise min(amount, sub_total)
func Discount(subTotal, amount decimal.Decimal, kind models.DiscountType) decimal.Decimal {
	if kind == models.DiscountTypePercentage {
		return subTotal.Mul(amount).Div(hundred).Round(models.MoneyScale)
	}
	return decimal.Min(amount, subTotal)
}

func OrderTotal(subTotal, tax, service, discount decimal.Decimal) decimal.Decimal {
	return subTotal.Add(tax).Add(service).Sub(discount)
}

// Profit: Σ(price - cost) × qty - discount
func Profit(items []models.OrderItem, discount decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, i := range items {
		sum = sum.Add(i.Price.Sub(i.Cost).Mul(i.Quantity))
	}
	return sum.Round(models.MoneyScale).Sub(discount)
}

// PaymentStatus: ödenen ≥ toplam → full_paid, 0 < ödenen < toplam → partial_paid
func PaymentStatus(paid, total decimal.Decimal) models.PaymentStatus {
	switch {
	case !paid.IsPositive():
		return models.PaymentStatusPending
	case paid.GreaterThanOrEqual(total):
		return models.PaymentStatusFullPaid
	default:
		return models.PaymentStatusPartialPaid
	}
}

// Pricing: vergi ve servis oranları (config'den gelir)
type Pricing struct {
	TaxRate     decimal.Decimal // ör: 0.14
	ServiceRate decimal.Decimal // masa servisi, ör: 0.12
	DeliveryFee decimal.Decimal // paket servis sabit ücreti
}

// Charges: sipariş tipine göre vergi ve servis tutarı
func (p Pricing) Charges(t models.OrderType, subTotal decimal.Decimal) (tax, service decimal.Decimal) {
	tax = subTotal.Mul(p.TaxRate).Round(models.MoneyScale)
	switch {
	case t.HasServiceCharge():
		service = subTotal.Mul(p.ServiceRate).Round(models.MoneyScale)
	case t.HasDeliveryFee() && subTotal.IsPositive():
		service = p.DeliveryFee
	default:
		service = decimal.Zero
	}
	return tax, service
}

// Totals: siparişin finansal alanlarını kalemlerden yeniden hesaplar.
// Yüzde indirim varsa yeni sub_total'a yeniden uygulanır, sabit indirim sub_total ile sınırlanır.
func (p Pricing) Totals(o *models.Order, items []models.OrderItem) {
	sub := decimal.Zero
	for _, i := range items {
		sub = sub.Add(i.Total())
	}
	// kesirli miktar × fiyat 2 basamağı aşabilir, ödeme durumu saklanan tutarla karşılaştırılır
	sub = sub.Round(models.MoneyScale)
	o.SubTotal = sub
	o.Tax, o.Service = p.Charges(o.Type, sub)
	if o.TempDiscountPercent.IsPositive() {
		o.Discount = Discount(sub, o.TempDiscountPercent, models.DiscountTypePercentage)
	} else {
		o.Discount = decimal.Min(o.Discount, sub)
	}
	o.Total = OrderTotal(o.SubTotal, o.Tax, o.Service, o.Discount)
}

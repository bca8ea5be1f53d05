package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order: kasada açılan sipariş. Numara vardiya içinde benzersizdir.
type Order struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	ShiftID       uint          `gorm:"not null;uniqueIndex:idx_orders_shift_number,priority:1" json:"shift_id"`
	NumberScope   NumberScope   `gorm:"size:10;not null;default:pos;uniqueIndex:idx_orders_shift_number,priority:2" json:"-"`
	OrderNumber   uint          `gorm:"not null;uniqueIndex:idx_orders_shift_number,priority:3" json:"order_number"`
	UserID        uint          `gorm:"index;not null" json:"user_id"`
	Type          OrderType     `gorm:"size:20;not null" json:"type"`
	Status        OrderStatus   `gorm:"size:20;not null;index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"size:20;not null" json:"payment_status"`

	SubTotal            decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"sub_total"`
	Tax                 decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"tax"`
	Service             decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"service"`
	Discount            decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"discount"`
	TempDiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"temp_discount_percent"`
	Total               decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total"`
	Profit              decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"profit"`

	CustomerID   *uint  `gorm:"index" json:"customer_id"`
	DriverID     *uint  `gorm:"index" json:"driver_id"`
	TableNumber  string `gorm:"size:20" json:"table_number"`
	KitchenNotes string `gorm:"size:500" json:"kitchen_notes"`
	OrderNotes   string `gorm:"size:500" json:"order_notes"`
	CancelReason string `gorm:"size:255" json:"cancel_reason"`

	// E-fatura servisinin döndürdüğü durum, yorumlanmadan saklanır
	EInvoiceStatus string `gorm:"column:einvoice_status;size:50" json:"einvoice_status"`

	CompletedAt *time.Time `json:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Payments []Payment   `gorm:"foreignKey:OrderID" json:"payments,omitempty"`
}

// OrderItem: sipariş kalemi. Fiyat ve maliyet ekleme anındaki ürün değerlerinin kopyasıdır.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"index;not null" json:"order_id"`
	ProductID uint            `gorm:"index;not null" json:"product_id"`
	Quantity  decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Cost      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"cost"`
	Notes     string          `gorm:"size:255" json:"notes"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Total: quantity × price, kolon olarak saklanmaz
func (i OrderItem) Total() decimal.Decimal { return i.Quantity.Mul(i.Price) }

func (i OrderItem) TotalCost() decimal.Decimal { return i.Quantity.Mul(i.Cost) }

// Payment: siparişe alınan ödeme (sadece eklenir, güncellenmez)
type Payment struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"index;not null" json:"order_id"`
	ShiftID   uint            `gorm:"index;not null" json:"shift_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Method    PaymentMethod   `gorm:"size:20;not null" json:"method"`
	CreatedAt time.Time       `json:"created_at"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseInvoice: tedarikçiden alım faturası. Kapatılınca stoka giriş yapar.
type PurchaseInvoice struct {
	ID         uint                  `gorm:"primaryKey" json:"id"`
	UserID     uint                  `gorm:"index;not null" json:"user_id"`
	SupplierID *uint                 `gorm:"index" json:"supplier_id"`
	Status     DocumentStatus        `gorm:"size:10;not null;default:draft" json:"status"`
	Total      decimal.Decimal       `gorm:"type:decimal(12,2);not null;default:0" json:"total"`
	Notes      string                `gorm:"size:500" json:"notes"`
	ClosedAt   *time.Time            `json:"closed_at"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
	Items      []PurchaseInvoiceItem `gorm:"foreignKey:PurchaseInvoiceID;constraint:OnDelete:CASCADE" json:"items"`
}

type PurchaseInvoiceItem struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	PurchaseInvoiceID uint            `gorm:"index;not null" json:"purchase_invoice_id"`
	ProductID         uint            `gorm:"index;not null" json:"product_id"`
	Quantity          decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity"`
	Price             decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
}

// ReturnPurchaseInvoice: tedarikçiye iade. Kapatılınca stoktan çıkış yapar.
type ReturnPurchaseInvoice struct {
	ID         uint                        `gorm:"primaryKey" json:"id"`
	UserID     uint                        `gorm:"index;not null" json:"user_id"`
	SupplierID *uint                       `gorm:"index" json:"supplier_id"`
	Status     DocumentStatus              `gorm:"size:10;not null;default:draft" json:"status"`
	Total      decimal.Decimal             `gorm:"type:decimal(12,2);not null;default:0" json:"total"`
	Notes      string                      `gorm:"size:500" json:"notes"`
	ClosedAt   *time.Time                  `json:"closed_at"`
	CreatedAt  time.Time                   `json:"created_at"`
	UpdatedAt  time.Time                   `json:"updated_at"`
	Items      []ReturnPurchaseInvoiceItem `gorm:"foreignKey:ReturnPurchaseInvoiceID;constraint:OnDelete:CASCADE" json:"items"`
}

type ReturnPurchaseInvoiceItem struct {
	ID                      uint            `gorm:"primaryKey" json:"id"`
	ReturnPurchaseInvoiceID uint            `gorm:"index;not null" json:"return_purchase_invoice_id"`
	ProductID               uint            `gorm:"index;not null" json:"product_id"`
	Quantity                decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity"`
	Price                   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
}

// Waste: zayiat kaydı (hangi garson/mutfakçı sebep oldu notu zorunlu)
type Waste struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"index;not null" json:"user_id"`
	Status    DocumentStatus  `gorm:"size:10;not null;default:draft" json:"status"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total"`
	Notes     string          `gorm:"size:500;not null" json:"notes"`
	ClosedAt  *time.Time      `json:"closed_at"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Items     []WasteItem     `gorm:"foreignKey:WasteID;constraint:OnDelete:CASCADE" json:"items"`
}

type WasteItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	WasteID   uint            `gorm:"index;not null" json:"waste_id"`
	ProductID uint            `gorm:"index;not null" json:"product_id"`
	Quantity  decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
}

// Stocktaking: stok sayımı. Kapatılırken gerçek miktar ile defterdeki miktar farkı işlenir.
type Stocktaking struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	UserID    uint              `gorm:"index;not null" json:"user_id"`
	Status    DocumentStatus    `gorm:"size:10;not null;default:draft" json:"status"`
	Total     decimal.Decimal   `gorm:"type:decimal(12,2);not null;default:0" json:"total"` // negatif olabilir (açık)
	Notes     string            `gorm:"size:500" json:"notes"`
	ClosedAt  *time.Time        `json:"closed_at"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Items     []StocktakingItem `gorm:"foreignKey:StocktakingID;constraint:OnDelete:CASCADE" json:"items"`
}

type StocktakingItem struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	StocktakingID uint            `gorm:"index;not null" json:"stocktaking_id"`
	ProductID     uint            `gorm:"index;not null" json:"product_id"`
	StockQuantity decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"stock_quantity"` // kapanış anında defterden okunur
	RealQuantity  decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"real_quantity"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
}

// Delta: real - stock (pozitif = fazla, negatif = eksik)
func (i StocktakingItem) Delta() decimal.Decimal { return i.RealQuantity.Sub(i.StockQuantity) }

func (i PurchaseInvoiceItem) Total() decimal.Decimal       { return i.Quantity.Mul(i.Price) }
func (i ReturnPurchaseInvoiceItem) Total() decimal.Decimal { return i.Quantity.Mul(i.Price) }
func (i WasteItem) Total() decimal.Decimal                 { return i.Quantity.Mul(i.Price) }

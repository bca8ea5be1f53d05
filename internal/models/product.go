package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product: satılan/stoklanan ürün. Price ve Cost sipariş kalemine kopyalanır.
type Product struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"size:100;not null;unique" json:"name"`
	Unit      string          `gorm:"size:20;not null" json:"unit"` // kg, adet, koli vs.
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	Cost      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"cost"`
	MinStock  decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"min_stock"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

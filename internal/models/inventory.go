package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Miktarlar 3, tutarlar 2 ondalık basamakla saklanır
const (
	QuantityScale int32 = 3
	MoneyScale    int32 = 2
)

// DocumentRef: stok hareketinin kaynağı olan belge (tür + id)
type DocumentRef struct {
	Kind DocumentKind `gorm:"size:30;not null;index:idx_stock_movements_reference,priority:1" json:"kind"`
	ID   uint         `gorm:"not null;index:idx_stock_movements_reference,priority:2" json:"id"`
}

func RefOrder(id uint) DocumentRef           { return DocumentRef{Kind: DocumentOrder, ID: id} }
func RefPurchaseInvoice(id uint) DocumentRef { return DocumentRef{Kind: DocumentPurchaseInvoice, ID: id} }
func RefPurchaseReturn(id uint) DocumentRef  { return DocumentRef{Kind: DocumentPurchaseReturn, ID: id} }
func RefWaste(id uint) DocumentRef           { return DocumentRef{Kind: DocumentWaste, ID: id} }
func RefStocktaking(id uint) DocumentRef     { return DocumentRef{Kind: DocumentStocktaking, ID: id} }

// StockMovement: değişmez stok hareketi. Düzeltmeler ters hareketle yapılır.
type StockMovement struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	ProductID uint              `gorm:"index;not null" json:"product_id"`
	Quantity  decimal.Decimal   `gorm:"type:decimal(12,3);not null" json:"quantity"` // her zaman pozitif
	Operation MovementOperation `gorm:"size:10;not null" json:"operation"`
	Reason    MovementReason    `gorm:"size:30;not null;index" json:"reason"`
	Reference DocumentRef       `gorm:"embedded;embeddedPrefix:reference_" json:"reference"`
	CreatedAt time.Time         `json:"created_at"`
}

// SignedQuantity: giriş +, çıkış -
func (m StockMovement) SignedQuantity() decimal.Decimal {
	if m.Operation == MovementOutgoing {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// InventoryItem: ürün başına güncel stok. Sadece stok defteri yazar.
type InventoryItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ProductID uint            `gorm:"uniqueIndex;not null" json:"product_id"`
	Product   Product         `json:"-"`
	Quantity  decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"quantity"`
	UpdatedAt time.Time       `json:"updated_at"`
}

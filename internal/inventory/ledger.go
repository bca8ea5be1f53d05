package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cashier-backend/internal/apperr"
	"cashier-backend/internal/dto"
	"cashier-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DayGate: defter yazmadan önce günün açık olduğunu doğrular
type DayGate interface {
	EnsureOpen(tx *gorm.DB) error
}

// referenceTables: belge türü → tablo. Hareketin kaynağı bu tablodan doğrulanır.
var referenceTables = map[models.DocumentKind]string{
	models.DocumentOrder:           "orders",
	models.DocumentPurchaseInvoice: "purchase_invoices",
	models.DocumentPurchaseReturn:  "return_purchase_invoices",
	models.DocumentWaste:           "wastes",
	models.DocumentStocktaking:     "stocktakings",
}

// Ledger: InventoryItem.Quantity'nin tek yazıcısı
type Ledger struct {
	db   *gorm.DB
	gate DayGate
	now  func() time.Time
}

func NewLedger(db *gorm.DB, gate DayGate) *Ledger {
	return &Ledger{db: db, gate: gate, now: time.Now}
}

// Record: hareketi ekler ve güncel miktarı veritabanı tarafında atomik olarak günceller.
// Çağıranın transaction'ı içinde çalışır.
func (l *Ledger) Record(tx *gorm.DB, mv dto.StockMovement) (models.StockMovement, error) {
	if err := l.gate.EnsureOpen(tx); err != nil {
		return models.StockMovement{}, err
	}
	if err := checkReference(tx, mv.Reference()); err != nil {
		return models.StockMovement{}, err
	}

	movement := models.StockMovement{
		ProductID: mv.ProductID(),
		Quantity:  mv.Quantity(),
		Operation: mv.Operation(),
		Reason:    mv.Reason(),
		Reference: mv.Reference(),
	}
	if err := tx.Create(&movement).Error; err != nil {
		return models.StockMovement{}, apperr.FromDB(err, "stock_movement")
	}

	// quantity = quantity ± q, uygulama belleğinde okuma-yazma yapılmaz.
	// SQLite decimal kolonu REAL saklar, toplam miktar ölçeğine yuvarlanır.
	item := models.InventoryItem{ProductID: mv.ProductID(), Quantity: mv.Signed(), UpdatedAt: l.now()}
	err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":   gorm.Expr("ROUND(inventory_items.quantity + excluded.quantity, ?)", models.QuantityScale),
			"updated_at": gorm.Expr("excluded.updated_at"),
		}),
	}).Create(&item).Error
	if err != nil {
		return models.StockMovement{}, apperr.FromDB(err, "inventory_item")
	}

	return movement, nil
}

// RecordAll: sırayla kaydeder, ilk hatada durur (transaction geri alınır)
func (l *Ledger) RecordAll(tx *gorm.DB, mvs []dto.StockMovement) ([]models.StockMovement, error) {
	out := make([]models.StockMovement, 0, len(mvs))
	for _, mv := range mvs {
		m, err := l.Record(tx, mv)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Post: tek hareketi kendi transaction'ında kaydeder
func (l *Ledger) Post(ctx context.Context, mv dto.StockMovement) (models.StockMovement, error) {
	var out models.StockMovement
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		out, err = l.Record(tx, mv)
		return err
	})
	return out, err
}

func checkReference(tx *gorm.DB, ref models.DocumentRef) error {
	table, ok := referenceTables[ref.Kind]
	if !ok {
		return apperr.Validation("invalid_reference", "Bilinmeyen belge türü: %q", ref.Kind)
	}
	var count int64
	if err := tx.Table(table).Where("id = ?", ref.ID).Count(&count).Error; err != nil {
		return apperr.FromDB(err, "reference")
	}
	if count == 0 {
		return apperr.Integrity("reference_missing", nil, "Kaynak belge bulunamadı: %s #%d", ref.Kind, ref.ID)
	}
	return nil
}

// Quantity: ürünün güncel stok miktarı (hiç hareket yoksa 0)
func (l *Ledger) Quantity(ctx context.Context, productID uint) (decimal.Decimal, error) {
	return quantityOf(l.db.WithContext(ctx), productID)
}

func quantityOf(tx *gorm.DB, productID uint) (decimal.Decimal, error) {
	var item models.InventoryItem
	err := tx.Where("product_id = ?", productID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, apperr.FromDB(err, "inventory_item")
	}
	return item.Quantity, nil
}

func (l *Ledger) Movements(ctx context.Context, productID uint) ([]models.StockMovement, error) {
	var out []models.StockMovement
	if err := l.db.WithContext(ctx).Where("product_id = ?", productID).Order("id").Find(&out).Error; err != nil {
		return nil, apperr.FromDB(err, "stock_movement")
	}
	return out, nil
}

// MovementsFor: bir belgenin doğurduğu hareketler
func (l *Ledger) MovementsFor(ctx context.Context, ref models.DocumentRef) ([]models.StockMovement, error) {
	var out []models.StockMovement
	err := l.db.WithContext(ctx).
		Where("reference_kind = ? AND reference_id = ?", ref.Kind, ref.ID).
		Order("id").Find(&out).Error
	if err != nil {
		return nil, apperr.FromDB(err, "stock_movement")
	}
	return out, nil
}

// Verify: quantity == Σ(işaretli hareketler) olmalı; değilse veri bütünlüğü hatası
func (l *Ledger) Verify(ctx context.Context, productID uint) error {
	movements, err := l.Movements(ctx, productID)
	if err != nil {
		return err
	}
	expected := decimal.Zero
	for _, m := range movements {
		expected = expected.Add(m.SignedQuantity())
	}
	actual, err := l.Quantity(ctx, productID)
	if err != nil {
		return err
	}
	if !actual.Round(models.QuantityScale).Equal(expected.Round(models.QuantityScale)) {
		return apperr.Integrity("ledger_mismatch", nil,
			"Ürün %d stok miktarı %s, hareket toplamı %s", productID, actual, expected)
	}
	return nil
}

// VerifyAll: hareketi veya stok satırı olan tüm ürünleri kontrol eder
func (l *Ledger) VerifyAll(ctx context.Context) error {
	var ids []uint
	err := l.db.WithContext(ctx).Model(&models.StockMovement{}).Distinct("product_id").Pluck("product_id", &ids).Error
	if err != nil {
		return apperr.FromDB(err, "stock_movement")
	}
	var itemIDs []uint
	if err := l.db.WithContext(ctx).Model(&models.InventoryItem{}).Pluck("product_id", &itemIDs).Error; err != nil {
		return apperr.FromDB(err, "inventory_item")
	}

	seen := make(map[uint]bool, len(ids)+len(itemIDs))
	var errs []error
	for _, id := range append(ids, itemIDs...) {
		if seen[id] {
			continue
		}
		seen[id] = true
		if err := l.Verify(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d ürün tutarsız: %w", len(errs), errors.Join(errs...))
	}
	return nil
}

type StockLevel string

const (
	StockLow      StockLevel = "low"
	StockCritical StockLevel = "critical"
)

// StockAlert: min_stock altındaki ürün (raporlama amaçlı, işlemi engellemez)
type StockAlert struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	MinStock    decimal.Decimal `json:"min_stock"`
	Level       StockLevel      `json:"level"`
}

// LowStock: eksi stok veya eşiği olan üründe miktar ≤ 0 → critical, miktar ≤ min_stock → low
func (l *Ledger) LowStock(ctx context.Context) ([]StockAlert, error) {
	var products []models.Product
	if err := l.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, apperr.FromDB(err, "product")
	}
	var items []models.InventoryItem
	if err := l.db.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, apperr.FromDB(err, "inventory_item")
	}
	qty := make(map[uint]decimal.Decimal, len(items))
	for _, i := range items {
		qty[i.ProductID] = i.Quantity
	}

	alerts := make([]StockAlert, 0)
	for _, p := range products {
		q := qty[p.ID]
		var level StockLevel
		switch {
		case q.IsNegative(), !q.IsPositive() && p.MinStock.IsPositive():
			level = StockCritical
		case p.MinStock.IsPositive() && q.LessThanOrEqual(p.MinStock):
			level = StockLow
		default:
			continue
		}
		alerts = append(alerts, StockAlert{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    q,
			MinStock:    p.MinStock,
			Level:       level,
		})
	}
	return alerts, nil
}

package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cashier-backend/internal/apperr"
	"cashier-backend/internal/audit"
	"cashier-backend/internal/calc"
	"cashier-backend/internal/dto"
	"cashier-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Documents: stok etkileyen belgeler (alım, iade, zayiat, sayım).
// Taslak olarak oluşturulur, kapatılınca toplam yeniden hesaplanır ve deftere işlenir.
type Documents struct {
	db     *gorm.DB
	ledger *Ledger
	gate   DayGate
	now    func() time.Time

	// OnPosted: commit sonrası, işlenen her hareket için (metrikler)
	OnPosted func(models.StockMovement)
}

func NewDocuments(db *gorm.DB, ledger *Ledger, gate DayGate) *Documents {
	return &Documents{db: db, ledger: ledger, gate: gate, now: time.Now}
}

type DocumentHeader struct {
	UserID     uint   `json:"user_id"`
	SupplierID *uint  `json:"supplier_id"`
	Notes      string `json:"notes"`
}

func (h DocumentHeader) validate() error {
	if h.UserID == 0 {
		return apperr.Validation("user_required", "user_id zorunludur")
	}
	return nil
}

// ---- Alım faturası ----

func (d *Documents) CreatePurchaseInvoice(ctx context.Context, h DocumentHeader, items []dto.DocumentItem) (models.PurchaseInvoice, error) {
	if err := h.validate(); err != nil {
		return models.PurchaseInvoice{}, err
	}
	inv := models.PurchaseInvoice{
		UserID:     h.UserID,
		SupplierID: h.SupplierID,
		Status:     models.DocumentDraft,
		Notes:      h.Notes,
		Total:      calc.LinesTotal(items),
	}
	for _, i := range items {
		inv.Items = append(inv.Items, models.PurchaseInvoiceItem{ProductID: i.ProductID(), Quantity: i.Quantity(), Price: i.Price()})
	}
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureProducts(tx, productIDs(items)); err != nil {
			return err
		}
		if err := tx.Create(&inv).Error; err != nil {
			return apperr.FromDB(err, "purchase_invoice")
		}
		return audit.WriteLog(tx, audit.LogOptions{
			UserID: h.UserID, EntityType: "purchase_invoice", EntityID: inv.ID,
			Action: models.AuditActionCreate, After: inv,
		})
	})
	return inv, err
}

// ClosePurchaseInvoice: her kalem için "purchase" girişi
func (d *Documents) ClosePurchaseInvoice(ctx context.Context, id, userID uint) (models.PurchaseInvoice, error) {
	var inv models.PurchaseInvoice
	posted, err := d.close(ctx, func(tx *gorm.DB) ([]dto.StockMovement, error) {
		if err := lockDraft(tx, &inv, id, "purchase_invoice", func() models.DocumentStatus { return inv.Status }); err != nil {
			return nil, err
		}
		inv.Total = calc.LinesTotal(inv.Items)
		ref := models.RefPurchaseInvoice(inv.ID)
		mvs := make([]dto.StockMovement, 0, len(inv.Items))
		for _, i := range inv.Items {
			mv, err := dto.NewStockMovement(i.ProductID, i.Quantity, models.ReasonPurchase, ref)
			if err != nil {
				return nil, err
			}
			mvs = append(mvs, mv)
		}
		return mvs, nil
	}, func(tx *gorm.DB, closedAt time.Time) error {
		return markClosed(tx, &models.PurchaseInvoice{}, inv.ID, inv.Total, closedAt, userID, "purchase_invoice")
	})
	if err != nil {
		return models.PurchaseInvoice{}, err
	}
	d.notify(posted)
	return d.reloadPurchaseInvoice(ctx, id)
}

func (d *Documents) reloadPurchaseInvoice(ctx context.Context, id uint) (models.PurchaseInvoice, error) {
	var inv models.PurchaseInvoice
	err := d.db.WithContext(ctx).Preload("Items").First(&inv, id).Error
	return inv, apperr.FromDB(err, "purchase_invoice")
}

// ---- Alım iadesi ----

func (d *Documents) CreateReturnPurchaseInvoice(ctx context.Context, h DocumentHeader, items []dto.DocumentItem) (models.ReturnPurchaseInvoice, error) {
	if err := h.validate(); err != nil {
		return models.ReturnPurchaseInvoice{}, err
	}
	ret := models.ReturnPurchaseInvoice{
		UserID:     h.UserID,
		SupplierID: h.SupplierID,
		Status:     models.DocumentDraft,
		Notes:      h.Notes,
		Total:      calc.LinesTotal(items),
	}
	for _, i := range items {
		ret.Items = append(ret.Items, models.ReturnPurchaseInvoiceItem{ProductID: i.ProductID(), Quantity: i.Quantity(), Price: i.Price()})
	}
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureProducts(tx, productIDs(items)); err != nil {
			return err
		}
		if err := tx.Create(&ret).Error; err != nil {
			return apperr.FromDB(err, "return_purchase_invoice")
		}
		return audit.WriteLog(tx, audit.LogOptions{
			UserID: h.UserID, EntityType: "return_purchase_invoice", EntityID: ret.ID,
			Action: models.AuditActionCreate, After: ret,
		})
	})
	return ret, err
}

// CloseReturnPurchaseInvoice: her kalem için "purchase_return" çıkışı
func (d *Documents) CloseReturnPurchaseInvoice(ctx context.Context, id, userID uint) (models.ReturnPurchaseInvoice, error) {
	var ret models.ReturnPurchaseInvoice
	posted, err := d.close(ctx, func(tx *gorm.DB) ([]dto.StockMovement, error) {
		if err := lockDraft(tx, &ret, id, "return_purchase_invoice", func() models.DocumentStatus { return ret.Status }); err != nil {
			return nil, err
		}
		ret.Total = calc.LinesTotal(ret.Items)
		ref := models.RefPurchaseReturn(ret.ID)
		mvs := make([]dto.StockMovement, 0, len(ret.Items))
		for _, i := range ret.Items {
			mv, err := dto.NewStockMovement(i.ProductID, i.Quantity, models.ReasonPurchaseReturn, ref)
			if err != nil {
				return nil, err
			}
			mvs = append(mvs, mv)
		}
		return mvs, nil
	}, func(tx *gorm.DB, closedAt time.Time) error {
		return markClosed(tx, &models.ReturnPurchaseInvoice{}, ret.ID, ret.Total, closedAt, userID, "return_purchase_invoice")
	})
	if err != nil {
		return models.ReturnPurchaseInvoice{}, err
	}
	d.notify(posted)

	var out models.ReturnPurchaseInvoice
	err = d.db.WithContext(ctx).Preload("Items").First(&out, id).Error
	return out, apperr.FromDB(err, "return_purchase_invoice")
}

// ---- Zayiat ----

func (d *Documents) CreateWaste(ctx context.Context, h DocumentHeader, items []dto.DocumentItem) (models.Waste, error) {
	if err := h.validate(); err != nil {
		return models.Waste{}, err
	}
	// zorunlu: hangi garson/mutfakçı sebep oldu
	if len(strings.TrimSpace(h.Notes)) < 3 {
		return models.Waste{}, apperr.Validation("notes_required", "note zorunludur ve en az 3 karakter olmalıdır")
	}
	w := models.Waste{
		UserID: h.UserID,
		Status: models.DocumentDraft,
		Notes:  h.Notes,
		Total:  calc.LinesTotal(items),
	}
	for _, i := range items {
		w.Items = append(w.Items, models.WasteItem{ProductID: i.ProductID(), Quantity: i.Quantity(), Price: i.Price()})
	}
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureProducts(tx, productIDs(items)); err != nil {
			return err
		}
		if err := tx.Create(&w).Error; err != nil {
			return apperr.FromDB(err, "waste")
		}
		return audit.WriteLog(tx, audit.LogOptions{
			UserID: h.UserID, EntityType: "waste", EntityID: w.ID,
			Action: models.AuditActionCreate, Description: fmt.Sprintf("Zayiat: %s", w.Notes), After: w,
		})
	})
	return w, err
}

// CloseWaste: her kalem için "waste" çıkışı
func (d *Documents) CloseWaste(ctx context.Context, id, userID uint) (models.Waste, error) {
	var w models.Waste
	posted, err := d.close(ctx, func(tx *gorm.DB) ([]dto.StockMovement, error) {
		if err := lockDraft(tx, &w, id, "waste", func() models.DocumentStatus { return w.Status }); err != nil {
			return nil, err
		}
		w.Total = calc.LinesTotal(w.Items)
		ref := models.RefWaste(w.ID)
		mvs := make([]dto.StockMovement, 0, len(w.Items))
		for _, i := range w.Items {
			mv, err := dto.NewStockMovement(i.ProductID, i.Quantity, models.ReasonWaste, ref)
			if err != nil {
				return nil, err
			}
			mvs = append(mvs, mv)
		}
		return mvs, nil
	}, func(tx *gorm.DB, closedAt time.Time) error {
		return markClosed(tx, &models.Waste{}, w.ID, w.Total, closedAt, userID, "waste")
	})
	if err != nil {
		return models.Waste{}, err
	}
	d.notify(posted)

	var out models.Waste
	err = d.db.WithContext(ctx).Preload("Items").First(&out, id).Error
	return out, apperr.FromDB(err, "waste")
}

// ---- Sayım ----

func (d *Documents) CreateStocktaking(ctx context.Context, h DocumentHeader, items []dto.StocktakingItem) (models.Stocktaking, error) {
	if err := h.validate(); err != nil {
		return models.Stocktaking{}, err
	}
	st := models.Stocktaking{
		UserID: h.UserID,
		Status: models.DocumentDraft,
		Notes:  h.Notes,
	}
	ids := make([]uint, 0, len(items))
	for _, i := range items {
		ids = append(ids, i.ProductID())
		st.Items = append(st.Items, models.StocktakingItem{ProductID: i.ProductID(), RealQuantity: i.RealQuantity(), Price: i.Price()})
	}
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureProducts(tx, ids); err != nil {
			return err
		}
		// Taslakta defter miktarı bilgi amaçlı, kapanışta yeniden okunur
		for idx := range st.Items {
			q, err := quantityOf(tx, st.Items[idx].ProductID)
			if err != nil {
				return err
			}
			st.Items[idx].StockQuantity = q
		}
		st.Total = calc.StocktakingTotal(st.Items)
		if err := tx.Create(&st).Error; err != nil {
			return apperr.FromDB(err, "stocktaking")
		}
		return audit.WriteLog(tx, audit.LogOptions{
			UserID: h.UserID, EntityType: "stocktaking", EntityID: st.ID,
			Action: models.AuditActionCreate, After: st,
		})
	})
	return st, err
}

// CloseStocktaking: kapanış anındaki defter miktarı okunur, (gerçek - defter) farkı işaretli düzeltme olarak işlenir
func (d *Documents) CloseStocktaking(ctx context.Context, id, userID uint) (models.Stocktaking, error) {
	var st models.Stocktaking
	posted, err := d.close(ctx, func(tx *gorm.DB) ([]dto.StockMovement, error) {
		if err := lockDraft(tx, &st, id, "stocktaking", func() models.DocumentStatus { return st.Status }); err != nil {
			return nil, err
		}
		ref := models.RefStocktaking(st.ID)
		var mvs []dto.StockMovement
		for idx := range st.Items {
			item := &st.Items[idx]
			q, err := quantityOf(tx, item.ProductID)
			if err != nil {
				return nil, err
			}
			item.StockQuantity = q
			if err := tx.Model(item).Update("stock_quantity", q).Error; err != nil {
				return nil, apperr.FromDB(err, "stocktaking_item")
			}
			if item.Delta().IsZero() {
				continue
			}
			mv, err := dto.NewStocktakingAdjustment(item.ProductID, item.Delta(), ref)
			if err != nil {
				return nil, err
			}
			mvs = append(mvs, mv)
		}
		st.Total = calc.StocktakingTotal(st.Items)
		return mvs, nil
	}, func(tx *gorm.DB, closedAt time.Time) error {
		return markClosed(tx, &models.Stocktaking{}, st.ID, st.Total, closedAt, userID, "stocktaking")
	})
	if err != nil {
		return models.Stocktaking{}, err
	}
	d.notify(posted)

	var out models.Stocktaking
	err = d.db.WithContext(ctx).Preload("Items").First(&out, id).Error
	return out, apperr.FromDB(err, "stocktaking")
}

// close: gün kontrolü → belgeyi kilitle/hesapla → hareketleri işle → kapat; hepsi tek transaction
func (d *Documents) close(
	ctx context.Context,
	build func(tx *gorm.DB) ([]dto.StockMovement, error),
	finish func(tx *gorm.DB, closedAt time.Time) error,
) ([]models.StockMovement, error) {
	var posted []models.StockMovement
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := d.gate.EnsureOpen(tx); err != nil {
			return err
		}
		mvs, err := build(tx)
		if err != nil {
			return err
		}
		if posted, err = d.ledger.RecordAll(tx, mvs); err != nil {
			return err
		}
		return finish(tx, d.now())
	})
	if err != nil {
		return nil, err
	}
	return posted, nil
}

func (d *Documents) notify(posted []models.StockMovement) {
	if d.OnPosted == nil {
		return
	}
	for _, m := range posted {
		d.OnPosted(m)
	}
}

// lockDraft: belgeyi kalemleriyle kilitleyerek okur, taslak değilse StateError
func lockDraft(tx *gorm.DB, dest any, id uint, what string, status func() models.DocumentStatus) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Preload("Items").First(dest, id).Error
	if err != nil {
		return apperr.FromDB(err, what)
	}
	if status() != models.DocumentDraft {
		return apperr.State("document_closed", "%s #%d zaten kapatılmış", what, id)
	}
	return nil
}

// markClosed: yalnızca hâlâ taslak olan satırı kapatır
func markClosed(tx *gorm.DB, model any, id uint, total any, closedAt time.Time, userID uint, what string) error {
	res := tx.Model(model).
		Where("id = ? AND status = ?", id, models.DocumentDraft).
		Updates(map[string]any{"status": models.DocumentClosed, "total": total, "closed_at": closedAt})
	if res.Error != nil {
		return apperr.FromDB(res.Error, what)
	}
	if res.RowsAffected == 0 {
		return apperr.State("document_closed", "%s #%d zaten kapatılmış", what, id)
	}
	return audit.WriteLog(tx, audit.LogOptions{
		UserID: userID, EntityType: what, EntityID: id,
		Action: models.AuditActionClose, Description: fmt.Sprintf("%s #%d kapatıldı", what, id),
	})
}

func productIDs(items []dto.DocumentItem) []uint {
	ids := make([]uint, 0, len(items))
	for _, i := range items {
		ids = append(ids, i.ProductID())
	}
	return ids
}

// ensureProducts: tüm ürünler mevcut olmalı
func ensureProducts(tx *gorm.DB, ids []uint) error {
	unique := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	var count int64
	if err := tx.Model(&models.Product{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return apperr.FromDB(err, "product")
	}
	if int(count) != len(unique) {
		return apperr.Validation("product_not_found", "Ürün bulunamadı")
	}
	return nil
}

package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cashier-backend/internal/apperr"
	"cashier-backend/internal/audit"
	"cashier-backend/internal/calc"
	"cashier-backend/internal/dto"
	"cashier-backend/internal/events"
	"cashier-backend/internal/logger"
	"cashier-backend/internal/metrics"
	"cashier-backend/internal/models"
	"cashier-backend/internal/shift"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ledger: stok defteri (inventory.Ledger)
type Ledger interface {
	Record(tx *gorm.DB, mv dto.StockMovement) (models.StockMovement, error)
}

// DayGate: gün açık mı? (daygate.Gate)
type DayGate interface {
	EnsureOpen(tx *gorm.DB) error
}

type Options struct {
	Pricing           calc.Pricing
	MaxNumberAttempts int
	Metrics           *metrics.Metrics
	Logger            *logger.Logger
}

// Service: sipariş durum makinesi.
//
//	pending → processing → completed | cancelled
//	processing → out_for_delivery → completed   (paket servis tipleri)
//	completed → cancelled                       (iade / iptal, stok geri alınır)
//
// Her işlem tek transaction içinde sipariş satırını kilitleyip durumu yeniden okur.
type Service struct {
	db       *gorm.DB
	orders   OrderRepository
	items    ItemRepository
	payments PaymentRepository
	ledger   Ledger
	gate     DayGate

	pricing     calc.Pricing
	maxAttempts int
	metrics     *metrics.Metrics
	log         *logger.Logger
	now         func() time.Time
}

func NewService(db *gorm.DB, ledger Ledger, gate DayGate, opts Options) *Service {
	if opts.MaxNumberAttempts <= 0 {
		opts.MaxNumberAttempts = 10
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	return &Service{
		db:          db,
		ledger:      ledger,
		gate:        gate,
		pricing:     opts.Pricing,
		maxAttempts: opts.MaxNumberAttempts,
		metrics:     opts.Metrics,
		log:         opts.Logger,
		now:         time.Now,
	}
}

// ItemInput: kasadan gelen kalem. Fiyat ve maliyet üründen kopyalanır.
type ItemInput struct {
	ProductID uint            `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Notes     string          `json:"notes"`
}

// CreateOrder: vardiyada yeni sipariş açar, numara verir, OrderCreated yayınlar
func (s *Service) CreateOrder(ctx context.Context, in dto.CreateOrder) (models.Order, error) {
	o := models.Order{
		ShiftID:       in.ShiftID(),
		UserID:        in.UserID(),
		Type:          in.Type(),
		Status:        in.Type().InitialStatus(),
		PaymentStatus: models.PaymentStatusPending,
		TableNumber:   in.TableNumber(),
		CustomerID:    in.CustomerID(),
		DriverID:      in.DriverID(),
		KitchenNotes:  in.KitchenNotes(),
		OrderNotes:    in.OrderNotes(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := shift.EnsureOpen(tx, o.ShiftID); err != nil {
			return err
		}
		if err := s.orders.Create(tx, &o, s.maxAttempts); err != nil {
			return err
		}
		if err := audit.WriteLog(tx, audit.LogOptions{
			UserID: o.UserID, EntityType: "order", EntityID: o.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Sipariş #%d açıldı (%s)", o.OrderNumber, o.Type),
			After:       o,
		}); err != nil {
			return err
		}
		_, err := events.Record(tx, events.Event{
			Type:    events.OrderCreated,
			OrderID: o.ID,
			ShiftID: o.ShiftID,
			Payload: map[string]any{
				"order_number": o.OrderNumber,
				"type":         o.Type,
				"status":       o.Status,
				"table_number": o.TableNumber,
				"created_at":   s.now().UTC(),
			},
		})
		return err
	})
	if err != nil {
		return models.Order{}, s.report("create_order", o.ID, err)
	}
	s.metrics.OrderCreated(string(o.Type))
	return o, nil
}

// AddItems: kalemleri ekler ve toplamları yeniden hesaplar
func (s *Service) AddItems(ctx context.Context, orderID uint, inputs []ItemInput) (models.Order, error) {
	o, err := s.mutate(ctx, orderID, func(tx *gorm.DB, o *models.Order) error {
		if err := requireModifiable(o); err != nil {
			return err
		}
		items, err := snapshotItems(tx, inputs)
		if err != nil {
			return err
		}
		if _, err := s.items.Add(tx, o.ID, items); err != nil {
			return err
		}
		return s.recalculate(tx, o)
	})
	return o, s.report("add_items", orderID, err)
}

// ReplaceItems: kalem setini tamamen değiştirir
func (s *Service) ReplaceItems(ctx context.Context, orderID uint, inputs []ItemInput) (models.Order, error) {
	o, err := s.mutate(ctx, orderID, func(tx *gorm.DB, o *models.Order) error {
		if err := requireModifiable(o); err != nil {
			return err
		}
		items, err := snapshotItems(tx, inputs)
		if err != nil {
			return err
		}
		if _, err := s.items.Replace(tx, o.ID, items); err != nil {
			return err
		}
		return s.recalculate(tx, o)
	})
	return o, s.report("replace_items", orderID, err)
}

func (s *Service) RemoveItem(ctx context.Context, orderID, itemID uint) (models.Order, error) {
	o, err := s.mutate(ctx, orderID, func(tx *gorm.DB, o *models.Order) error {
		if err := requireModifiable(o); err != nil {
			return err
		}
		if err := s.items.Remove(tx, o.ID, itemID); err != nil {
			return err
		}
		return s.recalculate(tx, o)
	})
	return o, s.report("remove_item", orderID, err)
}

// ApplyDiscount: yüzde indirimde oran saklanır, sonraki kalem değişikliklerinde yeniden uygulanır
func (s *Service) ApplyDiscount(ctx context.Context, orderID, userID uint, d dto.Discount) (models.Order, error) {
	o, err := s.mutate(ctx, orderID, func(tx *gorm.DB, o *models.Order) error {
		if err := requireModifiable(o); err != nil {
			return err
		}
		before := *o

		items, err := s.items.List(tx, o.ID)
		if err != nil {
			return err
		}
		subTotal := decimal.Zero
		for _, i := range items {
			subTotal = subTotal.Add(i.Total())
		}

		o.Discount = calc.Discount(subTotal, d.Amount(), d.Type())
		o.TempDiscountPercent = decimal.Zero
		if d.Type() == models.DiscountTypePercentage {
			o.TempDiscountPercent = d.Amount()
		}
		s.pricing.Totals(o, items)
		if err := s.orders.SaveFinancials(tx, o); err != nil {
			return err
		}
		return audit.WriteLog(tx, audit.LogOptions{
			UserID: userID, EntityType: "order", EntityID: o.ID,
			Action:      models.AuditActionDiscount,
			Description: fmt.Sprintf("İndirim: %s %s → %s", d.Amount(), d.Type(), o.Discount),
			Before:      before,
			After:       *o,
		})
	})
	return o, s.report("apply_discount", orderID, err)
}

// AcceptOrder: web siparişini kasiyer onaylar (pending → processing)
func (s *Service) AcceptOrder(ctx context.Context, orderID uint) (models.Order, error) {
	o, err := s.mutate(ctx, orderID, func(tx *gorm.DB, o *models.Order) error {
		if o.Status != models.OrderStatusPending {
			return stateError(o, "kabul edilemez")
		}
		return s.orders.TransitionStatus(tx, o, []models.OrderStatus{models.OrderStatusPending}, models.OrderStatusProcessing, nil)
	})
	return o, s.report("accept_order", orderID, err)
}

// MarkOutForDelivery: paket servis siparişini kuryeye verir
func (s *Service) MarkOutForDelivery(ctx context.Context, orderID uint, driverID *uint) (models.Order, error) {
	o, err := s.mutate(ctx, orderID, func(tx *gorm.DB, o *models.Order) error {
		if !o.Type.SupportsOutForDelivery() {
			return apperr.State("delivery_not_supported", "%s siparişi kuryeye verilemez", o.Type)
		}
		if o.Status != models.OrderStatusProcessing {
			return stateError(o, "kuryeye verilemez")
		}
		fields := map[string]any{}
		if driverID != nil {
			fields["driver_id"] = *driverID
			o.DriverID = driverID
		}
		return s.orders.TransitionStatus(tx, o, []models.OrderStatus{models.OrderStatusProcessing}, models.OrderStatusOutForDelivery, fields)
	})
	return o, s.report("out_for_delivery", orderID, err)
}

// CompleteOrder: ödemeleri ekler, ödeme durumunu türetir, siparişi kapatır ve her kalem için satış çıkışı yapar.
// Gün kapalıysa hiçbir şey yazılmaz.
func (s *Service) CompleteOrder(ctx context.Context, orderID uint, payments dto.Payments, shouldPrint bool) (models.Order, error) {
	var posted []models.StockMovement
	o, err := s.mutate(ctx, orderID, func(tx *gorm.DB, o *models.Order) error {
		if o.Status != models.OrderStatusProcessing && o.Status != models.OrderStatusOutForDelivery {
			return stateError(o, "tamamlanamaz")
		}
		if err := s.gate.EnsureOpen(tx); err != nil {
			return err
		}

		items, err := s.items.List(tx, o.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return apperr.State("order_empty", "Sipariş #%d boş, tamamlanamaz", o.ID)
		}
		s.pricing.Totals(o, items)
		o.Profit = calc.Profit(items, o.Discount)

		for _, line := range payments.NonZero() {
			p, err := s.payments.Append(tx, o.ID, o.ShiftID, line)
			if err != nil {
				return err
			}
			if _, err := events.Record(tx, events.Event{
				Type:      events.PaymentProcessed,
				OrderID:   o.ID,
				PaymentID: &p.ID,
				ShiftID:   o.ShiftID,
				Payload: map[string]any{
					"order_number": o.OrderNumber,
					"method":       p.Method,
					"amount":       p.Amount,
				},
			}); err != nil {
				return err
			}
		}

		paid, err := s.payments.Sum(tx, o.ID)
		if err != nil {
			return err
		}
		o.PaymentStatus = calc.PaymentStatus(paid, o.Total)
		if err := s.orders.SaveFinancials(tx, o); err != nil {
			return err
		}

		completedAt := s.now()
		from := []models.OrderStatus{models.OrderStatusProcessing, models.OrderStatusOutForDelivery}
		if err := s.orders.TransitionStatus(tx, o, from, models.OrderStatusCompleted, map[string]any{"completed_at": completedAt}); err != nil {
			return err
		}
		o.CompletedAt = &completedAt

		if posted, err = s.postItems(tx, o, items, models.ReasonSale); err != nil {
			return err
		}

		if err := audit.WriteLog(tx, audit.LogOptions{
			UserID: o.UserID, EntityType: "order", EntityID: o.ID,
			Action:      models.AuditActionComplete,
			Description: fmt.Sprintf("Sipariş #%d tamamlandı: toplam %s, ödenen %s", o.OrderNumber, o.Total, paid),
			After:       *o,
		}); err != nil {
			return err
		}
		_, err = events.Record(tx, events.Event{
			Type:    events.OrderCompleted,
			OrderID: o.ID,
			ShiftID: o.ShiftID,
			Payload: map[string]any{
				"order_number":   o.OrderNumber,
				"sub_total":      o.SubTotal,
				"discount":       o.Discount,
				"total":          o.Total,
				"paid":           paid,
				"payment_status": o.PaymentStatus,
				"should_print":   shouldPrint,
				"completed_at":   completedAt.UTC(),
			},
		})
		return err
	})
	if err != nil {
		return models.Order{}, s.report("complete_order", orderID, err)
	}
	s.metrics.OrderCompleted(string(o.Type), string(o.PaymentStatus))
	s.countMovements(posted)
	return o, nil
}

// CancelOrder: açık siparişler serbestçe, tamamlanmış siparişler stok iadesiyle iptal edilir
func (s *Service) CancelOrder(ctx context.Context, orderID, userID uint, reason string) (models.Order, error) {
	reason = strings.TrimSpace(reason)
	var (
		posted []models.StockMovement
		from   models.OrderStatus
	)
	o, err := s.mutate(ctx, orderID, func(tx *gorm.DB, o *models.Order) error {
		from = o.Status
		switch o.Status {
		case models.OrderStatusCancelled:
			return stateError(o, "iptal edilemez")
		case models.OrderStatusCompleted:
			if reason == "" {
				return apperr.Validation("reason_required", "Tamamlanmış sipariş iptalinde sebep zorunludur")
			}
			if err := s.gate.EnsureOpen(tx); err != nil {
				return err
			}
			items, err := s.items.List(tx, o.ID)
			if err != nil {
				return err
			}
			if posted, err = s.postItems(tx, o, items, models.ReasonSaleReversal); err != nil {
				return err
			}
		}

		cancelledAt := s.now()
		if err := s.orders.TransitionStatus(tx, o, []models.OrderStatus{from}, models.OrderStatusCancelled, map[string]any{
			"cancel_reason": reason,
			"cancelled_at":  cancelledAt,
		}); err != nil {
			return err
		}
		o.CancelReason = reason
		o.CancelledAt = &cancelledAt

		if err := audit.WriteLog(tx, audit.LogOptions{
			UserID: userID, EntityType: "order", EntityID: o.ID,
			Action:      models.AuditActionCancel,
			Description: fmt.Sprintf("Sipariş #%d iptal edildi (%s): %s", o.OrderNumber, from, reason),
		}); err != nil {
			return err
		}
		_, err := events.Record(tx, events.Event{
			Type:    events.OrderCancelled,
			OrderID: o.ID,
			ShiftID: o.ShiftID,
			Payload: map[string]any{
				"order_number":    o.OrderNumber,
				"previous_status": from,
				"reason":          reason,
				"total":           o.Total,
				"cancelled_at":    cancelledAt.UTC(),
			},
		})
		return err
	})
	if err != nil {
		return models.Order{}, s.report("cancel_order", orderID, err)
	}
	s.metrics.OrderCancelled(string(from))
	s.countMovements(posted)
	return o, nil
}

// LinkCustomer: müşterisiz açılmış siparişe müşteri bağlar, toplamlar değişmez
func (s *Service) LinkCustomer(ctx context.Context, orderID, customerID uint) (models.Order, error) {
	if customerID == 0 {
		return models.Order{}, apperr.Validation("customer_required", "customer_id zorunludur")
	}
	o, err := s.mutate(ctx, orderID, func(tx *gorm.DB, o *models.Order) error {
		if o.Status.IsTerminal() {
			return stateError(o, "müşteri bağlanamaz")
		}
		if o.CustomerID != nil {
			if *o.CustomerID == customerID {
				return nil
			}
			return apperr.State("customer_already_linked", "Sipariş #%d zaten müşteri #%d ile bağlı", o.ID, *o.CustomerID)
		}
		o.CustomerID = &customerID
		return s.orders.UpdateFields(tx, o.ID, map[string]any{"customer_id": customerID})
	})
	return o, s.report("link_customer", orderID, err)
}

func (s *Service) UpdateNotes(ctx context.Context, orderID uint, kitchenNotes, orderNotes string) (models.Order, error) {
	o, err := s.mutate(ctx, orderID, func(tx *gorm.DB, o *models.Order) error {
		if err := requireModifiable(o); err != nil {
			return err
		}
		o.KitchenNotes, o.OrderNotes = kitchenNotes, orderNotes
		return s.orders.UpdateFields(tx, o.ID, map[string]any{"kitchen_notes": kitchenNotes, "order_notes": orderNotes})
	})
	return o, s.report("update_notes", orderID, err)
}

// ChangeType: ör. salondan paket servise geçiş. Web/kasa numaralandırması arasında geçiş yapılamaz.
func (s *Service) ChangeType(ctx context.Context, orderID uint, t models.OrderType, tableNumber string) (models.Order, error) {
	if !t.Valid() {
		return models.Order{}, apperr.Validation("invalid_order_type", "Geçersiz sipariş tipi: %q", t)
	}
	if err := dto.ValidateTable(t, tableNumber); err != nil {
		return models.Order{}, err
	}
	o, err := s.mutate(ctx, orderID, func(tx *gorm.DB, o *models.Order) error {
		if err := requireModifiable(o); err != nil {
			return err
		}
		if t.NumberScope() != o.Type.NumberScope() {
			return apperr.State("type_scope_mismatch", "%s siparişi %s tipine çevrilemez", o.Type, t)
		}
		o.Type = t
		o.TableNumber = strings.TrimSpace(tableNumber)
		if err := s.orders.UpdateFields(tx, o.ID, map[string]any{"type": o.Type, "table_number": o.TableNumber}); err != nil {
			return err
		}
		return s.recalculate(tx, o)
	})
	return o, s.report("change_type", orderID, err)
}

// DeleteOrder: sadece ödeme alınmamış processing sipariş silinebilir
func (s *Service) DeleteOrder(ctx context.Context, orderID, userID uint) error {
	_, err := s.mutate(ctx, orderID, func(tx *gorm.DB, o *models.Order) error {
		if err := requireModifiable(o); err != nil {
			return err
		}
		n, err := s.payments.Count(tx, o.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperr.State("order_has_payments", "Ödemesi olan sipariş silinemez")
		}
		if err := s.items.DeleteAll(tx, o.ID); err != nil {
			return err
		}
		if err := s.orders.Delete(tx, o.ID); err != nil {
			return err
		}
		return audit.WriteLog(tx, audit.LogOptions{
			UserID: userID, EntityType: "order", EntityID: o.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Sipariş #%d silindi", o.OrderNumber),
			Before:      *o,
		})
	})
	return s.report("delete_order", orderID, err)
}

// RecordEInvoiceStatus: e-fatura servisinin döndürdüğü durumu yorumlamadan saklar
func (s *Service) RecordEInvoiceStatus(ctx context.Context, orderID uint, status string) (models.Order, error) {
	if strings.TrimSpace(status) == "" {
		return models.Order{}, apperr.Validation("status_required", "status zorunludur")
	}
	o, err := s.mutate(ctx, orderID, func(tx *gorm.DB, o *models.Order) error {
		if o.Status != models.OrderStatusCompleted {
			return stateError(o, "e-faturaya gönderilemez")
		}
		o.EInvoiceStatus = status
		return s.orders.UpdateFields(tx, o.ID, map[string]any{"einvoice_status": status})
	})
	return o, s.report("einvoice_status", orderID, err)
}

func (s *Service) Get(ctx context.Context, orderID uint) (models.Order, error) {
	return s.orders.Find(s.db.WithContext(ctx), orderID)
}

func (s *Service) FindInShift(ctx context.Context, shiftID, number uint) (models.Order, error) {
	return s.orders.FindInShift(s.db.WithContext(ctx), shiftID, number)
}

func (s *Service) ListByShift(ctx context.Context, shiftID uint) ([]models.Order, error) {
	return s.orders.ListByShift(s.db.WithContext(ctx), shiftID)
}

// mutate: transaction aç, siparişi kilitle, fn'i çalıştır
func (s *Service) mutate(ctx context.Context, orderID uint, fn func(tx *gorm.DB, o *models.Order) error) (models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if o, err = s.orders.FindForUpdate(tx, orderID); err != nil {
			return err
		}
		return fn(tx, &o)
	})
	if err != nil {
		return models.Order{}, err
	}
	return o, nil
}

// recalculate: kalemlerden toplamları hesaplayıp kaydeder
func (s *Service) recalculate(tx *gorm.DB, o *models.Order) error {
	items, err := s.items.List(tx, o.ID)
	if err != nil {
		return err
	}
	s.pricing.Totals(o, items)
	return s.orders.SaveFinancials(tx, o)
}

func (s *Service) postItems(tx *gorm.DB, o *models.Order, items []models.OrderItem, reason models.MovementReason) ([]models.StockMovement, error) {
	ref := models.RefOrder(o.ID)
	out := make([]models.StockMovement, 0, len(items))
	for _, i := range items {
		mv, err := dto.NewStockMovement(i.ProductID, i.Quantity, reason, ref)
		if err != nil {
			return nil, err
		}
		m, err := s.ledger.Record(tx, mv)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *Service) countMovements(posted []models.StockMovement) {
	for _, m := range posted {
		s.metrics.MovementRecorded(string(m.Reason))
	}
}

// report: integrity hataları operatör müdahalesi gerektirir, yüksek sesle loglanır
func (s *Service) report(action string, orderID uint, err error) error {
	if err == nil {
		return nil
	}
	if apperr.Is(err, apperr.KindIntegrity) {
		code := "unknown"
		if e, ok := apperr.As(err); ok {
			code = e.Code
		}
		s.metrics.Integrity(code)
		s.log.Error(action, "Sipariş işlemi bütünlük hatasıyla durdu", err, map[string]any{
			"order_id": orderID,
			"code":     code,
		})
	}
	return err
}

func requireModifiable(o *models.Order) error {
	if !o.Status.IsModifiable() {
		return stateError(o, "değiştirilemez")
	}
	return nil
}

func stateError(o *models.Order, what string) error {
	return apperr.State("invalid_order_state", "%s durumundaki sipariş #%d %s", o.Status, o.ID, what)
}

// snapshotItems: ürünün o anki fiyat/maliyetini kaleme kopyalar
func snapshotItems(tx *gorm.DB, inputs []ItemInput) ([]dto.OrderItem, error) {
	if len(inputs) == 0 {
		return nil, apperr.Validation("items_required", "En az bir ürün eklenmelidir")
	}
	ids := make([]uint, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.ProductID)
	}
	var products []models.Product
	if err := tx.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, apperr.FromDB(err, "product")
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]dto.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		p, ok := byID[in.ProductID]
		if !ok {
			return nil, apperr.Validation("product_not_found", "Ürün bulunamadı (ID: %d)", in.ProductID)
		}
		item, err := dto.NewOrderItem(p.ID, in.Quantity, p.Price, p.Cost, in.Notes)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

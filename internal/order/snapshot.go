package order

import (
	"context"
	"time"

	"cashier-backend/internal/apperr"
	"cashier-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Snapshot: fiş yazıcı ve e-fatura için siparişin kapanmış hali
type Snapshot struct {
	OrderID       uint                 `json:"order_id"`
	OrderNumber   uint                 `json:"order_number"`
	ShiftID       uint                 `json:"shift_id"`
	Type          models.OrderType     `json:"type"`
	Status        models.OrderStatus   `json:"status"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	TableNumber   string               `json:"table_number"`
	CustomerID    *uint                `json:"customer_id"`

	Lines    []SnapshotLine   `json:"lines"`
	Payments []models.Payment `json:"payments"`

	SubTotal  decimal.Decimal `json:"sub_total"`
	Tax       decimal.Decimal `json:"tax"`
	Service   decimal.Decimal `json:"service"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
	Paid      decimal.Decimal `json:"paid"`
	Remaining decimal.Decimal `json:"remaining"`

	KitchenNotes   string     `json:"kitchen_notes"`
	OrderNotes     string     `json:"order_notes"`
	EInvoiceStatus string     `json:"einvoice_status"`
	CompletedAt    *time.Time `json:"completed_at"`

	// Final: tamamlanmış veya iptal edilmiş, artık değişmez
	Final bool `json:"final"`
}

type SnapshotLine struct {
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
	Notes       string          `json:"notes"`
}

// Snapshot: sipariş, kalemler ve ödemeler tek okuma tutarlılığında
func (s *Service) Snapshot(ctx context.Context, orderID uint) (Snapshot, error) {
	var snap Snapshot
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := s.orders.Find(tx, orderID)
		if err != nil {
			return err
		}
		items, err := s.items.List(tx, o.ID)
		if err != nil {
			return err
		}
		payments, err := s.payments.List(tx, o.ID)
		if err != nil {
			return err
		}
		names, err := productNames(tx, items)
		if err != nil {
			return err
		}

		snap = Snapshot{
			OrderID:        o.ID,
			OrderNumber:    o.OrderNumber,
			ShiftID:        o.ShiftID,
			Type:           o.Type,
			Status:         o.Status,
			PaymentStatus:  o.PaymentStatus,
			TableNumber:    o.TableNumber,
			CustomerID:     o.CustomerID,
			Lines:          make([]SnapshotLine, 0, len(items)),
			Payments:       payments,
			SubTotal:       o.SubTotal,
			Tax:            o.Tax,
			Service:        o.Service,
			Discount:       o.Discount,
			Total:          o.Total,
			Paid:           decimal.Zero,
			KitchenNotes:   o.KitchenNotes,
			OrderNotes:     o.OrderNotes,
			EInvoiceStatus: o.EInvoiceStatus,
			CompletedAt:    o.CompletedAt,
			Final:          o.Status.IsTerminal(),
		}
		for _, i := range items {
			snap.Lines = append(snap.Lines, SnapshotLine{
				ProductID:   i.ProductID,
				ProductName: names[i.ProductID],
				Quantity:    i.Quantity,
				Price:       i.Price,
				Total:       i.Total(),
				Notes:       i.Notes,
			})
		}
		for _, p := range payments {
			snap.Paid = snap.Paid.Add(p.Amount)
		}
		snap.Remaining = decimal.Max(o.Total.Sub(snap.Paid), decimal.Zero)
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func productNames(tx *gorm.DB, items []models.OrderItem) (map[uint]string, error) {
	names := make(map[uint]string, len(items))
	if len(items) == 0 {
		return names, nil
	}
	ids := make([]uint, 0, len(items))
	for _, i := range items {
		ids = append(ids, i.ProductID)
	}
	var products []models.Product
	if err := tx.Select("id", "name").Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, apperr.FromDB(err, "product")
	}
	for _, p := range products {
		names[p.ID] = p.Name
	}
	return names, nil
}

package events

import (
	"encoding/json"
	"fmt"
	"time"

	"cashier-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Type string

const (
	OrderCreated     Type = "order.created"
	OrderCompleted   Type = "order.completed"
	OrderCancelled   Type = "order.cancelled"
	PaymentProcessed Type = "payment.processed"
)

// Event: bildirim/yayın katmanına giden düz veri. Teslimat core'un işi değildir.
type Event struct {
	ID         string         `json:"event_id"`
	Type       Type           `json:"type"`
	OrderID    uint           `json:"order_id"`
	PaymentID  *uint          `json:"payment_id,omitempty"`
	ShiftID    uint           `json:"shift_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

// Record: olayı çağıranın transaction'ı içinde outbox tablosuna yazar.
// Transaction geri alınırsa olay da yayınlanmaz.
func Record(tx *gorm.DB, ev Event) (Event, error) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return ev, fmt.Errorf("olay payload'u serileştirilemedi: %w", err)
	}

	orderID, shiftID := ev.OrderID, ev.ShiftID
	row := models.OutboxEvent{
		EventID:   ev.ID,
		Type:      string(ev.Type),
		OrderID:   &orderID,
		PaymentID: ev.PaymentID,
		ShiftID:   &shiftID,
		Payload:   string(payload),
		CreatedAt: ev.OccurredAt,
	}
	if err := tx.Create(&row).Error; err != nil {
		return ev, fmt.Errorf("outbox kaydı oluşturulamadı: %w", err)
	}
	return ev, nil
}

// FromRow: outbox satırını tekrar olaya çevirir
func FromRow(row models.OutboxEvent) (Event, error) {
	ev := Event{
		ID:         row.EventID,
		Type:       Type(row.Type),
		PaymentID:  row.PaymentID,
		OccurredAt: row.CreatedAt,
	}
	if row.OrderID != nil {
		ev.OrderID = *row.OrderID
	}
	if row.ShiftID != nil {
		ev.ShiftID = *row.ShiftID
	}
	if err := json.Unmarshal([]byte(row.Payload), &ev.Payload); err != nil {
		return ev, fmt.Errorf("outbox payload'u okunamadı (%s): %w", row.EventID, err)
	}
	return ev, nil
}

package events

import (
	"context"
	"time"

	"cashier-backend/internal/logger"
	"cashier-backend/internal/models"

	"gorm.io/gorm"
)

// Publisher: olayı dış sisteme (kuyruk, log, websocket) iletir
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Relay: gönderilmemiş outbox satırlarını sırayla yayınlar ve gönderildi olarak işaretler
type Relay struct {
	db       *gorm.DB
	pub      Publisher
	log      *logger.Logger
	batch    int
	interval time.Duration
}

func NewRelay(db *gorm.DB, pub Publisher, log *logger.Logger, batch int, interval time.Duration) *Relay {
	if batch <= 0 {
		batch = 100
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Relay{db: db, pub: pub, log: log, batch: batch, interval: interval}
}

// Flush: bir parti yayınlar. İlk yayın hatasında durur, sıra korunur.
func (r *Relay) Flush(ctx context.Context) (int, error) {
	var rows []models.OutboxEvent
	err := r.db.WithContext(ctx).
		Where("sent_at IS NULL").
		Order("id").
		Limit(r.batch).
		Find(&rows).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, row := range rows {
		ev, err := FromRow(row)
		if err != nil {
			return sent, err
		}
		if err := r.pub.Publish(ctx, ev); err != nil {
			return sent, err
		}
		now := time.Now().UTC()
		if err := r.db.WithContext(ctx).Model(&models.OutboxEvent{}).
			Where("id = ?", row.ID).Update("sent_at", now).Error; err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

// Run: ctx iptal edilene kadar periyodik Flush
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		n, err := r.Flush(ctx)
		if err != nil && ctx.Err() == nil {
			r.log.Error("outbox_relay", "Olay yayını başarısız", err, map[string]any{"sent": n})
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// LogPublisher: kuyruk tanımlı değilse olayları loglar
type LogPublisher struct {
	Log *logger.Logger
}

func (p LogPublisher) Publish(_ context.Context, ev Event) error {
	p.Log.Info("event_published", string(ev.Type), map[string]any{
		"event_id": ev.ID,
		"order_id": ev.OrderID,
		"shift_id": ev.ShiftID,
		"payload":  ev.Payload,
	})
	return nil
}

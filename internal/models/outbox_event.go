package models

import "time"

// OutboxEvent: işlemle aynı transaction içinde yazılan, sonradan yayınlanan domain olayı
type OutboxEvent struct {
	ID        uint       `gorm:"primaryKey"`
	EventID   string     `gorm:"size:36;uniqueIndex;not null"`
	Type      string     `gorm:"size:50;not null;index"`
	OrderID   *uint      `gorm:"index"`
	PaymentID *uint      `gorm:"index"`
	ShiftID   *uint      `gorm:"index"`
	Payload   string     `gorm:"type:text;not null"`
	CreatedAt time.Time  `gorm:"index"`
	SentAt    *time.Time `gorm:"index"`
}

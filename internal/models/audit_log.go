package models

import "time"

type AuditAction string

const (
	AuditActionCreate   AuditAction = "create"
	AuditActionUpdate   AuditAction = "update"
	AuditActionDelete   AuditAction = "delete"
	AuditActionDiscount AuditAction = "discount"
	AuditActionComplete AuditAction = "complete"
	AuditActionCancel   AuditAction = "cancel"
	AuditActionClose    AuditAction = "close"
	AuditActionOpenDay  AuditAction = "open_day"
	AuditActionCloseDay AuditAction = "close_day"
)

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Hangi kullanıcı? (0 = sistem)
	UserID uint `gorm:"index" json:"user_id"`

	// Hangi entity? (ör: "order", "waste", "stocktaking", "day")
	EntityType string `gorm:"size:50;index" json:"entity_type"`
	EntityID   uint   `gorm:"index" json:"entity_id"`

	Action AuditAction `gorm:"size:20" json:"action"`

	// Opsiyonel açıklama (küçük bir özet)
	Description string `gorm:"size:255" json:"description"`

	// Önceki ve sonraki hal (JSON)
	BeforeData string `gorm:"type:text" json:"before_data"`
	AfterData  string `gorm:"type:text" json:"after_data"`
}

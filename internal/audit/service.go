package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"cashier-backend/internal/models"

	"gorm.io/gorm"
)

type LogOptions struct {
	UserID      uint
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// WriteLog: çağıranın transaction'ı içinde yazılır, işlem geri alınırsa log da geri alınır
func WriteLog(tx *gorm.DB, opts LogOptions) error {
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	log := models.AuditLog{
		UserID:      opts.UserID,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := tx.Create(&log).Error; err != nil {
		return fmt.Errorf("audit log kaydedilemedi: %w", err)
	}

	return nil
}

type ListFilter struct {
	EntityType string
	EntityID   uint
	Limit      int
}

// List: en yeni kayıtlar önce
func List(ctx context.Context, db *gorm.DB, f ListFilter) ([]models.AuditLog, error) {
	query := db.WithContext(ctx).Model(&models.AuditLog{})
	if f.EntityType != "" {
		query = query.Where("entity_type = ?", f.EntityType)
	}
	if f.EntityID != 0 {
		query = query.Where("entity_id = ?", f.EntityID)
	}
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var logs []models.AuditLog
	if err := query.Order("id DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("audit log listelenemedi: %w", err)
	}
	return logs, nil
}

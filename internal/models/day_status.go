package models

import "time"

// DayStatusID: gün durumu tek satırdır
const DayStatusID uint = 1

// DayStatus: gün açık mı? Stok etkileyen her işlem açık gün ister.
type DayStatus struct {
	ID        uint       `gorm:"primaryKey;autoIncrement:false" json:"-"`
	IsOpen    bool       `gorm:"not null;default:false" json:"is_open"`
	OpenedAt  *time.Time `json:"opened_at"`
	ClosedAt  *time.Time `json:"closed_at"`
	OpenedBy  *uint      `json:"opened_by"`
	ClosedBy  *uint      `json:"closed_by"`
	UpdatedAt time.Time  `json:"updated_at"`
}

package models

import "time"

// Shift: kasiyer vardiyası. Sipariş numaraları ve ödemeler vardiyaya bağlıdır.
type Shift struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	StartAt   time.Time  `gorm:"not null" json:"start_at"`
	EndAt     *time.Time `json:"end_at"`
	Closed    bool       `gorm:"not null;default:false" json:"closed"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ShiftOrderSequence: vardiya + numaralandırma kapsamı başına son verilen sipariş numarası
type ShiftOrderSequence struct {
	ShiftID    uint        `gorm:"primaryKey;autoIncrement:false"`
	Scope      NumberScope `gorm:"primaryKey;size:10"`
	LastNumber uint        `gorm:"not null;default:0"`
}

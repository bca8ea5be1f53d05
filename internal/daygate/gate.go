package daygate

import (
	"context"
	"errors"
	"time"

	"cashier-backend/internal/apperr"
	"cashier-backend/internal/audit"
	"cashier-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Gate: gün açık/kapalı anahtarı. Stok defterine yazan her işlem önce EnsureOpen çağırır.
type Gate struct {
	db  *gorm.DB
	now func() time.Time
}

func New(db *gorm.DB) *Gate {
	return &Gate{db: db, now: time.Now}
}

// ErrDayClosed: gün kapalıyken stok etkileyen işlem denendi
func ErrDayClosed() *apperr.Error {
	return apperr.Integrity("day_closed", nil, "Gün açılmadan stok etkileyen işlem yapılamaz")
}

func (g *Gate) Status(ctx context.Context) (models.DayStatus, error) {
	return load(g.db.WithContext(ctx), false)
}

func (g *Gate) IsOpen(ctx context.Context) (bool, error) {
	day, err := g.Status(ctx)
	if err != nil {
		return false, err
	}
	return day.IsOpen, nil
}

// EnsureOpen: çağıranın transaction'ı içinde günü okur, kapalıysa IntegrityError döner
func (g *Gate) EnsureOpen(tx *gorm.DB) error {
	day, err := load(tx, false)
	if err != nil {
		return err
	}
	if !day.IsOpen {
		return ErrDayClosed()
	}
	return nil
}

func (g *Gate) Open(ctx context.Context, userID uint) (models.DayStatus, error) {
	return g.toggle(ctx, userID, true)
}

func (g *Gate) Close(ctx context.Context, userID uint) (models.DayStatus, error) {
	return g.toggle(ctx, userID, false)
}

func (g *Gate) toggle(ctx context.Context, userID uint, open bool) (models.DayStatus, error) {
	var day models.DayStatus
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if day, err = load(tx, true); err != nil {
			return err
		}
		before := day

		now := g.now()
		action := models.AuditActionOpenDay
		if open {
			if day.IsOpen {
				return apperr.State("day_already_open", "Gün zaten açık")
			}
			day.IsOpen = true
			day.OpenedAt = &now
			day.OpenedBy = &userID
			day.ClosedAt = nil
			day.ClosedBy = nil
		} else {
			if !day.IsOpen {
				return apperr.State("day_already_closed", "Gün zaten kapalı")
			}
			action = models.AuditActionCloseDay
			day.IsOpen = false
			day.ClosedAt = &now
			day.ClosedBy = &userID
		}

		if err := tx.Save(&day).Error; err != nil {
			return apperr.FromDB(err, "day")
		}
		return audit.WriteLog(tx, audit.LogOptions{
			UserID:     userID,
			EntityType: "day",
			EntityID:   day.ID,
			Action:     action,
			Before:     before,
			After:      day,
		})
	})
	return day, err
}

func load(tx *gorm.DB, lock bool) (models.DayStatus, error) {
	var day models.DayStatus
	q := tx
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.First(&day, models.DayStatusID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Migration satırı oluşturmadıysa kapalı gün ile başla
		day = models.DayStatus{ID: models.DayStatusID}
		err = tx.Create(&day).Error
	}
	if err != nil {
		return day, apperr.FromDB(err, "day")
	}
	return day, nil
}

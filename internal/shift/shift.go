package shift

import (
	"context"
	"errors"
	"time"

	"cashier-backend/internal/apperr"
	"cashier-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// Start: kullanıcının açık vardiyası varsa onu döner, yoksa yenisini açar
func (s *Service) Start(ctx context.Context, userID uint) (models.Shift, error) {
	if userID == 0 {
		return models.Shift{}, apperr.Validation("user_required", "user_id zorunludur")
	}
	var sh models.Shift
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND closed = ?", userID, false).Order("id DESC").First(&sh).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.FromDB(err, "shift")
		}
		sh = models.Shift{UserID: userID, StartAt: s.now()}
		return apperr.FromDB(tx.Create(&sh).Error, "shift")
	})
	return sh, err
}

// End: vardiyayı kapatır. Kapalı vardiyada yeni sipariş açılamaz.
func (s *Service) End(ctx context.Context, shiftID uint) (models.Shift, error) {
	var sh models.Shift
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&sh, shiftID).Error; err != nil {
			return apperr.FromDB(err, "shift")
		}
		if sh.Closed {
			return apperr.State("shift_closed", "Vardiya #%d zaten kapalı", shiftID)
		}
		now := s.now()
		sh.Closed = true
		sh.EndAt = &now
		return apperr.FromDB(tx.Save(&sh).Error, "shift")
	})
	return sh, err
}

func (s *Service) Get(ctx context.Context, shiftID uint) (models.Shift, error) {
	var sh models.Shift
	err := s.db.WithContext(ctx).First(&sh, shiftID).Error
	return sh, apperr.FromDB(err, "shift")
}

// Current: kullanıcının açık vardiyası
func (s *Service) Current(ctx context.Context, userID uint) (models.Shift, error) {
	var sh models.Shift
	err := s.db.WithContext(ctx).Where("user_id = ? AND closed = ?", userID, false).Order("id DESC").First(&sh).Error
	return sh, apperr.FromDB(err, "shift")
}

// EnsureOpen: transaction içinde vardiyanın var ve açık olduğunu doğrular
func EnsureOpen(tx *gorm.DB, shiftID uint) (models.Shift, error) {
	var sh models.Shift
	if err := tx.First(&sh, shiftID).Error; err != nil {
		return sh, apperr.FromDB(err, "shift")
	}
	if sh.Closed {
		return sh, apperr.State("shift_closed", "Vardiya #%d kapalı, yeni sipariş açılamaz", shiftID)
	}
	return sh, nil
}

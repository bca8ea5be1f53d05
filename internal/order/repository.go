package order

import (
	"errors"

	"cashier-backend/internal/apperr"
	"cashier-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository: numara verme, oluşturma ve vardiya içi arama.
// Tüm metotlar çağıranın transaction'ı ile çalışır.
type OrderRepository struct{}

// NextNumber: vardiya + kapsam sayacını atomik olarak artırıp yeni değeri döner.
// Sayaç ilk kez kullanılıyorsa kapsamdaki en büyük numaradan başlatılır.
func (OrderRepository) NextNumber(tx *gorm.DB, shiftID uint, scope models.NumberScope) (uint, error) {
	var maxNumber uint
	err := tx.Model(&models.Order{}).
		Where("shift_id = ? AND number_scope = ?", shiftID, scope).
		Select("COALESCE(MAX(order_number), 0)").
		Scan(&maxNumber).Error
	if err != nil {
		return 0, apperr.FromDB(err, "order")
	}

	seed := models.ShiftOrderSequence{ShiftID: shiftID, Scope: scope, LastNumber: maxNumber}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return 0, apperr.FromDB(err, "order_sequence")
	}

	res := tx.Model(&models.ShiftOrderSequence{}).
		Where("shift_id = ? AND scope = ?", shiftID, scope).
		Update("last_number", gorm.Expr("last_number + 1"))
	if res.Error != nil {
		return 0, apperr.FromDB(res.Error, "order_sequence")
	}

	var seq models.ShiftOrderSequence
	if err := tx.Where("shift_id = ? AND scope = ?", shiftID, scope).First(&seq).Error; err != nil {
		return 0, apperr.FromDB(err, "order_sequence")
	}
	return seq.LastNumber, nil
}

// NumberTaken: vardiyada bu numaralı sipariş var mı?
func (OrderRepository) NumberTaken(tx *gorm.DB, shiftID uint, scope models.NumberScope, number uint) (bool, error) {
	var count int64
	err := tx.Model(&models.Order{}).
		Where("shift_id = ? AND number_scope = ? AND order_number = ?", shiftID, scope, number).
		Count(&count).Error
	if err != nil {
		return false, apperr.FromDB(err, "order")
	}
	return count > 0, nil
}

// Create: numara önerir, doluysa bir sonrakine geçer, insert'i savepoint içinde dener.
// Benzersizlik ihlalinde yeniden önerir; son karar her zaman insert'tir.
func (r OrderRepository) Create(tx *gorm.DB, o *models.Order, maxAttempts int) error {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	scope := o.Type.NumberScope()
	o.NumberScope = scope

	for attempt := 0; attempt < maxAttempts; attempt++ {
		number, err := r.NextNumber(tx, o.ShiftID, scope)
		if err != nil {
			return err
		}
		taken, err := r.NumberTaken(tx, o.ShiftID, scope, number)
		if err != nil {
			return err
		}
		if taken {
			continue
		}

		o.ID = 0
		o.OrderNumber = number
		err = tx.Transaction(func(sp *gorm.DB) error {
			return sp.Omit(clause.Associations).Create(o).Error
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.FromDB(err, "order")
		}
	}
	return apperr.Integrity("order_number_exhausted", nil,
		"Vardiya #%d için %d denemede boş sipariş numarası bulunamadı", o.ShiftID, maxAttempts)
}

func (OrderRepository) Find(tx *gorm.DB, id uint) (models.Order, error) {
	var o models.Order
	err := tx.First(&o, id).Error
	return o, apperr.FromDB(err, "order")
}

// FindForUpdate: sipariş satırını transaction sonuna kadar kilitler (SELECT ... FOR UPDATE)
func (OrderRepository) FindForUpdate(tx *gorm.DB, id uint) (models.Order, error) {
	var o models.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, id).Error
	return o, apperr.FromDB(err, "order")
}

func (OrderRepository) FindInShift(tx *gorm.DB, shiftID, number uint) (models.Order, error) {
	var o models.Order
	err := tx.Where("shift_id = ? AND number_scope = ? AND order_number = ?", shiftID, models.NumberScopePOS, number).
		First(&o).Error
	return o, apperr.FromDB(err, "order")
}

func (OrderRepository) ListByShift(tx *gorm.DB, shiftID uint) ([]models.Order, error) {
	var out []models.Order
	err := tx.Where("shift_id = ?", shiftID).Order("id").Find(&out).Error
	return out, apperr.FromDB(err, "order")
}

// TransitionStatus: sadece beklenen durumlardaysa günceller. 0 satır → başka bir işlem önce davrandı.
func (OrderRepository) TransitionStatus(tx *gorm.DB, o *models.Order, from []models.OrderStatus, to models.OrderStatus, fields map[string]any) error {
	updates := map[string]any{"status": to}
	for k, v := range fields {
		updates[k] = v
	}
	res := tx.Model(&models.Order{}).
		Where("id = ? AND status IN ?", o.ID, from).
		Updates(updates)
	if res.Error != nil {
		return apperr.FromDB(res.Error, "order")
	}
	if res.RowsAffected == 0 {
		return apperr.State("order_state_changed", "Sipariş #%d durumu değişti, işlem uygulanamadı", o.ID)
	}
	o.Status = to
	return nil
}

// SaveFinancials: toplamlar ve ödeme durumu
func (OrderRepository) SaveFinancials(tx *gorm.DB, o *models.Order) error {
	err := tx.Model(&models.Order{}).Where("id = ?", o.ID).Updates(map[string]any{
		"sub_total":             o.SubTotal,
		"tax":                   o.Tax,
		"service":               o.Service,
		"discount":              o.Discount,
		"temp_discount_percent": o.TempDiscountPercent,
		"total":                 o.Total,
		"profit":                o.Profit,
		"payment_status":        o.PaymentStatus,
	}).Error
	return apperr.FromDB(err, "order")
}

func (OrderRepository) UpdateFields(tx *gorm.DB, id uint, fields map[string]any) error {
	return apperr.FromDB(tx.Model(&models.Order{}).Where("id = ?", id).Updates(fields).Error, "order")
}

func (OrderRepository) Delete(tx *gorm.DB, id uint) error {
	return apperr.FromDB(tx.Delete(&models.Order{}, id).Error, "order")
}

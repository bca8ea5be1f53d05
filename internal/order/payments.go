package order

import (
	"cashier-backend/internal/apperr"
	"cashier-backend/internal/dto"
	"cashier-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentRepository: ödeme defteri. Sadece ekleme yapılır.
type PaymentRepository struct{}

func (PaymentRepository) Append(tx *gorm.DB, orderID, shiftID uint, line dto.PaymentLine) (models.Payment, error) {
	p := models.Payment{
		OrderID: orderID,
		ShiftID: shiftID,
		Amount:  line.Amount,
		Method:  line.Method,
	}
	if err := tx.Create(&p).Error; err != nil {
		return models.Payment{}, apperr.FromDB(err, "payment")
	}
	return p, nil
}

func (PaymentRepository) List(tx *gorm.DB, orderID uint) ([]models.Payment, error) {
	var out []models.Payment
	err := tx.Where("order_id = ?", orderID).Order("id").Find(&out).Error
	return out, apperr.FromDB(err, "payment")
}

func (r PaymentRepository) Sum(tx *gorm.DB, orderID uint) (decimal.Decimal, error) {
	payments, err := r.List(tx, orderID)
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.Amount)
	}
	return sum, nil
}

func (PaymentRepository) Count(tx *gorm.DB, orderID uint) (int64, error) {
	var n int64
	err := tx.Model(&models.Payment{}).Where("order_id = ?", orderID).Count(&n).Error
	return n, apperr.FromDB(err, "payment")
}

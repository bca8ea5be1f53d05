package order

import (
	"cashier-backend/internal/apperr"
	"cashier-backend/internal/dto"
	"cashier-backend/internal/models"

	"gorm.io/gorm"
)

// ItemRepository: siparişin kalemleri
type ItemRepository struct{}

func (ItemRepository) List(tx *gorm.DB, orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := tx.Where("order_id = ?", orderID).Order("id").Find(&items).Error
	return items, apperr.FromDB(err, "order_item")
}

func (ItemRepository) Add(tx *gorm.DB, orderID uint, items []dto.OrderItem) ([]models.OrderItem, error) {
	if len(items) == 0 {
		return nil, nil
	}
	rows := make([]models.OrderItem, 0, len(items))
	for _, i := range items {
		rows = append(rows, models.OrderItem{
			OrderID:   orderID,
			ProductID: i.ProductID(),
			Quantity:  i.Quantity(),
			Price:     i.Price(),
			Cost:      i.Cost(),
			Notes:     i.Notes(),
		})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return nil, apperr.FromDB(err, "order_item")
	}
	return rows, nil
}

// Replace: kasadaki "siparişi kaydet" işlemi, tüm kalem setini değiştirir
func (r ItemRepository) Replace(tx *gorm.DB, orderID uint, items []dto.OrderItem) ([]models.OrderItem, error) {
	if err := r.DeleteAll(tx, orderID); err != nil {
		return nil, err
	}
	return r.Add(tx, orderID, items)
}

func (ItemRepository) Remove(tx *gorm.DB, orderID, itemID uint) error {
	res := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}, itemID)
	if res.Error != nil {
		return apperr.FromDB(res.Error, "order_item")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("order_item_not_found", "Kalem #%d sipariş #%d içinde bulunamadı", itemID, orderID)
	}
	return nil
}

func (ItemRepository) DeleteAll(tx *gorm.DB, orderID uint) error {
	return apperr.FromDB(tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error, "order_item")
}

package dto

import (
	"strings"

	"cashier-backend/internal/apperr"
	"cashier-backend/internal/models"
)

// CreateOrderInput: kasadan gelen ham sipariş açma isteği
type CreateOrderInput struct {
	Type         models.OrderType `json:"type"`
	ShiftID      uint             `json:"shift_id"`
	UserID       uint             `json:"user_id"`
	TableNumber  string           `json:"table_number"`
	CustomerID   *uint            `json:"customer_id"`
	DriverID     *uint            `json:"driver_id"`
	KitchenNotes string           `json:"kitchen_notes"`
	OrderNotes   string           `json:"order_notes"`
}

// CreateOrder: doğrulanmış sipariş açma isteği
type CreateOrder struct {
	in CreateOrderInput
}

func NewCreateOrder(in CreateOrderInput) (CreateOrder, error) {
	in.TableNumber = strings.TrimSpace(in.TableNumber)

	if !in.Type.Valid() {
		return CreateOrder{}, apperr.Validation("invalid_order_type", "Geçersiz sipariş tipi: %q", in.Type)
	}
	if in.ShiftID == 0 {
		return CreateOrder{}, apperr.Validation("shift_required", "shift_id zorunludur")
	}
	if in.UserID == 0 {
		return CreateOrder{}, apperr.Validation("user_required", "user_id zorunludur")
	}
	if err := ValidateTable(in.Type, in.TableNumber); err != nil {
		return CreateOrder{}, err
	}
	return CreateOrder{in: in}, nil
}

// ValidateTable: masa gerektiren tiplerde masa numarası zorunlu
func ValidateTable(t models.OrderType, table string) error {
	if t.RequiresTable() && strings.TrimSpace(table) == "" {
		return apperr.Validation("table_required", "%s siparişi için masa numarası zorunludur", t)
	}
	return nil
}

func (c CreateOrder) Type() models.OrderType { return c.in.Type }
func (c CreateOrder) ShiftID() uint          { return c.in.ShiftID }
func (c CreateOrder) UserID() uint           { return c.in.UserID }
func (c CreateOrder) TableNumber() string    { return c.in.TableNumber }
func (c CreateOrder) CustomerID() *uint      { return copyID(c.in.CustomerID) }
func (c CreateOrder) DriverID() *uint        { return copyID(c.in.DriverID) }
func (c CreateOrder) KitchenNotes() string   { return c.in.KitchenNotes }
func (c CreateOrder) OrderNotes() string     { return c.in.OrderNotes }

func copyID(id *uint) *uint {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

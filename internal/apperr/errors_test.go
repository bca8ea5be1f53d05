package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestFromDB(t *testing.T) {
	assert.NoError(t, FromDB(nil, "order"))

	err := FromDB(gorm.ErrRecordNotFound, "order")
	e, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, e.Kind)
	assert.Equal(t, "order_not_found", e.Code)

	err = FromDB(fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), "product")
	e, ok = As(err)
	require.True(t, ok)
	assert.Equal(t, KindIntegrity, e.Kind)
	assert.Equal(t, "duplicate_product", e.Code)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	err = FromDB(errors.New("connection reset"), "payment")
	assert.Equal(t, "storage_payment", mustAs(t, err).Code)

	// domain hatası olduğu gibi geçer
	state := State("invalid_order_state", "Sipariş kapalı")
	assert.Same(t, state, FromDB(state, "order"))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(fmt.Errorf("sarılı: %w", Validation("x", "x"))))
	assert.Equal(t, KindIntegrity, KindOf(errors.New("raw")))
	assert.True(t, Is(NotFound("x", "x"), KindNotFound))
	assert.False(t, Is(nil, KindIntegrity))
}

func TestStatusAndBody(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{Validation("table_required", "Masa"), fiber.StatusBadRequest, "table_required"},
		{State("invalid_order_state", "Durum"), fiber.StatusConflict, "invalid_order_state"},
		{NotFound("order_not_found", "Yok"), fiber.StatusNotFound, "order_not_found"},
		{Integrity("day_closed", nil, "Gün kapalı"), fiber.StatusConflict, "day_closed"},
		{Integrity("stock_mismatch", nil, "Defter"), fiber.StatusInternalServerError, "stock_mismatch"},
		{errors.New("raw"), fiber.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.status, Status(tt.err))
			assert.Equal(t, tt.code, Body(tt.err)["code"])
		})
	}

	body := Body(Integrity("stock_mismatch", errors.New("sum 3 != 4"), "Defter tutarsız"))
	assert.NotContains(t, body["error"], "sum 3")
	assert.Equal(t, "Gün kapalı", Body(Integrity("day_closed", nil, "Gün kapalı"))["error"])
}

func mustAs(t *testing.T, err error) *Error {
	t.Helper()
	e, ok := As(err)
	require.True(t, ok)
	return e
}

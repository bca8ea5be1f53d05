package daygate

import (
	"context"
	"testing"

	"cashier-backend/internal/apperr"
	"cashier-backend/internal/database/dbtest"
	"cashier-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_OpenClose(t *testing.T) {
	db := dbtest.New(t)
	g := New(db)
	ctx := context.Background()

	open, err := g.IsOpen(ctx)
	require.NoError(t, err)
	assert.False(t, open)
	require.Error(t, g.EnsureOpen(db))

	day, err := g.Open(ctx, 3)
	require.NoError(t, err)
	assert.True(t, day.IsOpen)
	require.NotNil(t, day.OpenedBy)
	assert.Equal(t, uint(3), *day.OpenedBy)
	assert.NoError(t, g.EnsureOpen(db))

	_, err = g.Open(ctx, 3)
	assert.True(t, apperr.Is(err, apperr.KindState))

	day, err = g.Close(ctx, 4)
	require.NoError(t, err)
	assert.False(t, day.IsOpen)
	require.NotNil(t, day.ClosedAt)

	_, err = g.Close(ctx, 4)
	assert.True(t, apperr.Is(err, apperr.KindState))

	var logs []models.AuditLog
	require.NoError(t, db.Where("entity_type = ?", "day").Order("id").Find(&logs).Error)
	require.Len(t, logs, 2)
	assert.Equal(t, models.AuditActionOpenDay, logs[0].Action)
	assert.Equal(t, models.AuditActionCloseDay, logs[1].Action)
}

func TestGate_EnsureOpenReturnsDayClosed(t *testing.T) {
	db := dbtest.New(t)
	g := New(db)

	err := g.EnsureOpen(db)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindIntegrity, e.Kind)
	assert.Equal(t, "day_closed", e.Code)
}

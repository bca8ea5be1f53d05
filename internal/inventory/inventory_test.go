package inventory

import (
	"context"
	"testing"

	"cashier-backend/internal/apperr"
	"cashier-backend/internal/database/dbtest"
	"cashier-backend/internal/daygate"
	"cashier-backend/internal/dto"
	"cashier-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	gate   *daygate.Gate
	ledger *Ledger
	docs   *Documents
	flour  models.Product
	milk   models.Product
	posted []models.StockMovement
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	gate := daygate.New(db)
	_, err := gate.Open(context.Background(), 1)
	require.NoError(t, err)

	ledger := NewLedger(db, gate)
	f := &fixture{db: db, gate: gate, ledger: ledger, docs: NewDocuments(db, ledger, gate)}
	f.docs.OnPosted = func(m models.StockMovement) { f.posted = append(f.posted, m) }

	f.flour = models.Product{Name: "Un", Unit: "kg", Price: dec("0"), Cost: dec("4"), MinStock: dec("3")}
	f.milk = models.Product{Name: "Süt", Unit: "lt", Price: dec("0"), Cost: dec("2"), MinStock: dec("5")}
	require.NoError(t, db.Create(&f.flour).Error)
	require.NoError(t, db.Create(&f.milk).Error)
	return f
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "beklenen %s, gelen %s", want, got)
}

func requireCode(t *testing.T, err error, kind apperr.Kind, code string) {
	t.Helper()
	e, ok := apperr.As(err)
	require.Truef(t, ok, "domain hatası bekleniyordu: %v", err)
	assert.Equal(t, kind, e.Kind)
	assert.Equal(t, code, e.Code)
}

func items(t *testing.T, in ...dto.DocumentItemInput) []dto.DocumentItem {
	t.Helper()
	out, err := dto.NewDocumentItems(in)
	require.NoError(t, err)
	return out
}

func (f *fixture) qty(t *testing.T, productID uint) decimal.Decimal {
	t.Helper()
	q, err := f.ledger.Quantity(context.Background(), productID)
	require.NoError(t, err)
	return q
}

// alım faturası ile stok girişi
func (f *fixture) purchase(t *testing.T, productID uint, quantity string) models.PurchaseInvoice {
	t.Helper()
	ctx := context.Background()
	inv, err := f.docs.CreatePurchaseInvoice(ctx, DocumentHeader{UserID: 1},
		items(t, dto.DocumentItemInput{ProductID: productID, Quantity: dec(quantity), Price: dec("5")}))
	require.NoError(t, err)
	inv, err = f.docs.ClosePurchaseInvoice(ctx, inv.ID, 1)
	require.NoError(t, err)
	return inv
}

func TestDocuments_PurchaseWasteReturn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv := f.purchase(t, f.flour.ID, "10")
	assert.Equal(t, models.DocumentClosed, inv.Status)
	assertDec(t, "50", inv.Total)
	require.NotNil(t, inv.ClosedAt)
	assertDec(t, "10", f.qty(t, f.flour.ID))

	_, err := f.docs.ClosePurchaseInvoice(ctx, inv.ID, 1)
	requireCode(t, err, apperr.KindState, "document_closed")
	assertDec(t, "10", f.qty(t, f.flour.ID))

	_, err = f.docs.CreateWaste(ctx, DocumentHeader{UserID: 1, Notes: " "},
		items(t, dto.DocumentItemInput{ProductID: f.flour.ID, Quantity: dec("2"), Price: dec("4")}))
	requireCode(t, err, apperr.KindValidation, "notes_required")

	w, err := f.docs.CreateWaste(ctx, DocumentHeader{UserID: 1, Notes: "Ahmet çuvalı düşürdü"},
		items(t, dto.DocumentItemInput{ProductID: f.flour.ID, Quantity: dec("2"), Price: dec("4")}))
	require.NoError(t, err)
	assert.Equal(t, models.DocumentDraft, w.Status)
	assertDec(t, "10", f.qty(t, f.flour.ID))

	_, err = f.docs.CloseWaste(ctx, w.ID, 1)
	require.NoError(t, err)
	assertDec(t, "8", f.qty(t, f.flour.ID))

	ret, err := f.docs.CreateReturnPurchaseInvoice(ctx, DocumentHeader{UserID: 1},
		items(t, dto.DocumentItemInput{ProductID: f.flour.ID, Quantity: dec("1"), Price: dec("5")}))
	require.NoError(t, err)
	_, err = f.docs.CloseReturnPurchaseInvoice(ctx, ret.ID, 1)
	require.NoError(t, err)
	assertDec(t, "7", f.qty(t, f.flour.ID))

	movements, err := f.ledger.Movements(ctx, f.flour.ID)
	require.NoError(t, err)
	require.Len(t, movements, 3)
	assert.Equal(t, models.ReasonPurchase, movements[0].Reason)
	assert.Equal(t, models.ReasonWaste, movements[1].Reason)
	assert.Equal(t, models.MovementOutgoing, movements[1].Operation)
	assert.Equal(t, models.ReasonPurchaseReturn, movements[2].Reason)
	assert.Len(t, f.posted, 3)

	require.NoError(t, f.ledger.Verify(ctx, f.flour.ID))
}

func TestDocuments_UnknownProduct(t *testing.T) {
	f := newFixture(t)
	_, err := f.docs.CreatePurchaseInvoice(context.Background(), DocumentHeader{UserID: 1},
		items(t, dto.DocumentItemInput{ProductID: 999, Quantity: dec("1"), Price: dec("1")}))
	requireCode(t, err, apperr.KindValidation, "product_not_found")

	_, err = f.docs.CreatePurchaseInvoice(context.Background(), DocumentHeader{},
		items(t, dto.DocumentItemInput{ProductID: f.flour.ID, Quantity: dec("1"), Price: dec("1")}))
	requireCode(t, err, apperr.KindValidation, "user_required")
}

func TestDocuments_CloseWhileDayClosed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.docs.CreatePurchaseInvoice(ctx, DocumentHeader{UserID: 1},
		items(t, dto.DocumentItemInput{ProductID: f.flour.ID, Quantity: dec("4"), Price: dec("5")}))
	require.NoError(t, err)

	_, err = f.gate.Close(ctx, 1)
	require.NoError(t, err)

	_, err = f.docs.ClosePurchaseInvoice(ctx, inv.ID, 1)
	requireCode(t, err, apperr.KindIntegrity, "day_closed")

	var reloaded models.PurchaseInvoice
	require.NoError(t, f.db.First(&reloaded, inv.ID).Error)
	assert.Equal(t, models.DocumentDraft, reloaded.Status)
	assertDec(t, "0", f.qty(t, f.flour.ID))
	assert.Empty(t, f.posted)
}

func TestDocuments_StocktakingPostsDelta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.purchase(t, f.flour.ID, "10")
	f.purchase(t, f.milk.ID, "4")

	counted, err := dto.NewStocktakingItems([]dto.StocktakingItemInput{
		{ProductID: f.flour.ID, RealQuantity: dec("7"), Price: dec("4")},
		{ProductID: f.milk.ID, RealQuantity: dec("4"), Price: dec("2")},
	})
	require.NoError(t, err)

	st, err := f.docs.CreateStocktaking(ctx, DocumentHeader{UserID: 1, Notes: "ay sonu"}, counted)
	require.NoError(t, err)
	assertDec(t, "-12", st.Total)

	// taslak ile kapanış arasında stok değişirse fark kapanış anına göre hesaplanır
	f.purchase(t, f.flour.ID, "1")

	st, err = f.docs.CloseStocktaking(ctx, st.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentClosed, st.Status)
	assertDec(t, "-16", st.Total)
	assertDec(t, "7", f.qty(t, f.flour.ID))
	assertDec(t, "4", f.qty(t, f.milk.ID))

	adjustments, err := f.ledger.MovementsFor(ctx, models.RefStocktaking(st.ID))
	require.NoError(t, err)
	require.Len(t, adjustments, 1, "farkı olmayan ürün için hareket yazılmaz")
	assert.Equal(t, models.MovementOutgoing, adjustments[0].Operation)
	assertDec(t, "4", adjustments[0].Quantity)
	assert.Equal(t, models.ReasonStocktakingAdjustment, adjustments[0].Reason)

	_, err = f.docs.CloseStocktaking(ctx, st.ID, 1)
	requireCode(t, err, apperr.KindState, "document_closed")
}

func TestLedger_ReferenceMissing(t *testing.T) {
	f := newFixture(t)
	mv, err := dto.NewStockMovement(f.flour.ID, dec("1"), models.ReasonSale, models.RefOrder(404))
	require.NoError(t, err)

	_, err = f.ledger.Post(context.Background(), mv)
	requireCode(t, err, apperr.KindIntegrity, "reference_missing")

	var count int64
	require.NoError(t, f.db.Model(&models.StockMovement{}).Count(&count).Error)
	assert.Zero(t, count)
	assertDec(t, "0", f.qty(t, f.flour.ID))
}

func TestLedger_VerifyDetectsTamperedQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.purchase(t, f.flour.ID, "10")
	f.purchase(t, f.milk.ID, "2")
	require.NoError(t, f.ledger.VerifyAll(ctx))

	require.NoError(t, f.db.Model(&models.InventoryItem{}).
		Where("product_id = ?", f.flour.ID).Update("quantity", dec("99")).Error)

	requireCode(t, f.ledger.Verify(ctx, f.flour.ID), apperr.KindIntegrity, "ledger_mismatch")
	require.NoError(t, f.ledger.Verify(ctx, f.milk.ID))

	err := f.ledger.VerifyAll(ctx)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindIntegrity))
}

func TestLedger_FractionalQuantitiesStayExact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.purchase(t, f.flour.ID, "0.1")
	f.purchase(t, f.flour.ID, "0.2")
	assertDec(t, "0.3", f.qty(t, f.flour.ID))
	require.NoError(t, f.ledger.Verify(ctx, f.flour.ID))

	for i := 0; i < 10; i++ {
		f.purchase(t, f.milk.ID, "0.1")
	}
	assertDec(t, "1", f.qty(t, f.milk.ID))
	require.NoError(t, f.ledger.VerifyAll(ctx))
}

func TestLedger_LowStock(t *testing.T) {
	f := newFixture(t)
	f.purchase(t, f.flour.ID, "2")

	alerts, err := f.ledger.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	byProduct := map[uint]StockAlert{}
	for _, a := range alerts {
		byProduct[a.ProductID] = a
	}
	assert.Equal(t, StockLow, byProduct[f.flour.ID].Level)
	assert.Equal(t, StockCritical, byProduct[f.milk.ID].Level)
}

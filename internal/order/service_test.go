package order

import (
	"context"
	"testing"

	"cashier-backend/internal/apperr"
	"cashier-backend/internal/calc"
	"cashier-backend/internal/database/dbtest"
	"cashier-backend/internal/daygate"
	"cashier-backend/internal/dto"
	"cashier-backend/internal/inventory"
	"cashier-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	gate   *daygate.Gate
	ledger *inventory.Ledger
	svc    *Service
	shift  models.Shift
	burger models.Product
	cola   models.Product
}

func newFixture(t *testing.T, pricing calc.Pricing) *fixture {
	t.Helper()
	return setupFixture(t, dbtest.New(t), pricing)
}

// newConcurrentFixture: birden çok bağlantı, goroutine'ler gerçekten yarışır
func newConcurrentFixture(t *testing.T) *fixture {
	t.Helper()
	return setupFixture(t, dbtest.NewConcurrent(t, 8), calc.Pricing{})
}

func setupFixture(t *testing.T, db *gorm.DB, pricing calc.Pricing) *fixture {
	t.Helper()
	ctx := context.Background()

	gate := daygate.New(db)
	_, err := gate.Open(ctx, 1)
	require.NoError(t, err)

	ledger := inventory.NewLedger(db, gate)
	f := &fixture{
		db:     db,
		gate:   gate,
		ledger: ledger,
		svc:    NewService(db, ledger, gate, Options{Pricing: pricing}),
		shift:  models.Shift{ID: 7, UserID: 1},
		burger: models.Product{Name: "Burger", Unit: "adet", Price: dec("80"), Cost: dec("40")},
		cola:   models.Product{Name: "Kola", Unit: "adet", Price: dec("20"), Cost: dec("10")},
	}
	require.NoError(t, db.Create(&f.shift).Error)
	require.NoError(t, db.Create(&f.burger).Error)
	require.NoError(t, db.Create(&f.cola).Error)
	return f
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "%s: beklenen %s, gelen %s", msg, want, got)
}

func requireKind(t *testing.T, err error, kind apperr.Kind) *apperr.Error {
	t.Helper()
	require.Error(t, err)
	e, ok := apperr.As(err)
	require.Truef(t, ok, "domain hatası bekleniyordu: %v", err)
	require.Equal(t, kind, e.Kind, e.Error())
	return e
}

func (f *fixture) create(t *testing.T, typ models.OrderType, table string) models.Order {
	t.Helper()
	in, err := dto.NewCreateOrder(dto.CreateOrderInput{Type: typ, ShiftID: f.shift.ID, UserID: 1, TableNumber: table})
	require.NoError(t, err)
	o, err := f.svc.CreateOrder(context.Background(), in)
	require.NoError(t, err)
	return o
}

func (f *fixture) withItems(t *testing.T) models.Order {
	t.Helper()
	o := f.create(t, models.OrderTypeDineIn, "T1")
	o, err := f.svc.AddItems(context.Background(), o.ID, []ItemInput{
		{ProductID: f.burger.ID, Quantity: dec("1")},
		{ProductID: f.cola.ID, Quantity: dec("1")},
	})
	require.NoError(t, err)
	return o
}

func payments(t *testing.T, byMethod map[models.PaymentMethod]decimal.Decimal) dto.Payments {
	t.Helper()
	p, err := dto.NewPayments(byMethod)
	require.NoError(t, err)
	return p
}

func percent(t *testing.T, amount string) dto.Discount {
	t.Helper()
	d, err := dto.NewDiscount(dec(amount), models.DiscountTypePercentage)
	require.NoError(t, err)
	return d
}

func TestOrderLifecycle_CompleteThenCancel(t *testing.T) {
	f := newFixture(t, calc.Pricing{})
	ctx := context.Background()

	o := f.withItems(t)
	assert.Equal(t, models.OrderStatusProcessing, o.Status)
	assert.Equal(t, uint(1), o.OrderNumber)
	assertDec(t, "100", o.SubTotal, "sub_total")

	o, err := f.svc.ApplyDiscount(ctx, o.ID, 1, percent(t, "10"))
	require.NoError(t, err)
	assertDec(t, "10", o.Discount, "discount")
	assertDec(t, "90", o.Total, "total")

	o, err = f.svc.CompleteOrder(ctx, o.ID, payments(t, map[models.PaymentMethod]decimal.Decimal{
		models.PaymentMethodCash: dec("90"),
	}), true)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, o.Status)
	assert.Equal(t, models.PaymentStatusFullPaid, o.PaymentStatus)
	assertDec(t, "40", o.Profit, "profit")
	require.NotNil(t, o.CompletedAt)

	ref := models.RefOrder(o.ID)
	movements, err := f.ledger.MovementsFor(ctx, ref)
	require.NoError(t, err)
	require.Len(t, movements, 2)
	for _, m := range movements {
		assert.Equal(t, models.MovementOutgoing, m.Operation)
		assert.Equal(t, models.ReasonSale, m.Reason)
		assertDec(t, "1", m.Quantity, "sale quantity")
	}
	qty, err := f.ledger.Quantity(ctx, f.burger.ID)
	require.NoError(t, err)
	assertDec(t, "-1", qty, "burger stok")

	o, err = f.svc.CancelOrder(ctx, o.ID, 1, "müşteri iade etti")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, o.Status)
	assert.Equal(t, "müşteri iade etti", o.CancelReason)

	movements, err = f.ledger.MovementsFor(ctx, ref)
	require.NoError(t, err)
	require.Len(t, movements, 4)
	for _, m := range movements[2:] {
		assert.Equal(t, models.MovementIncoming, m.Operation)
		assert.Equal(t, models.ReasonSaleReversal, m.Reason)
	}
	qty, err = f.ledger.Quantity(ctx, f.burger.ID)
	require.NoError(t, err)
	assertDec(t, "0", qty, "burger stok iade sonrası")
	require.NoError(t, f.ledger.VerifyAll(ctx))

	var evs []models.OutboxEvent
	require.NoError(t, f.db.Order("id").Find(&evs).Error)
	types := make([]string, 0, len(evs))
	for _, e := range evs {
		types = append(types, e.Type)
	}
	assert.Equal(t, []string{"order.created", "payment.processed", "order.completed", "order.cancelled"}, types)
}

func TestCompleteOrder_PartialPayment(t *testing.T) {
	f := newFixture(t, calc.Pricing{})
	o := f.withItems(t)

	o, err := f.svc.CompleteOrder(context.Background(), o.ID, payments(t, map[models.PaymentMethod]decimal.Decimal{
		models.PaymentMethodCash: dec("50"),
	}), false)
	require.NoError(t, err)
	assertDec(t, "100", o.Total, "total")
	assert.Equal(t, models.PaymentStatusPartialPaid, o.PaymentStatus)
}

func TestCompleteOrder_SplitPaymentsInMethodOrder(t *testing.T) {
	f := newFixture(t, calc.Pricing{})
	o := f.withItems(t)

	_, err := f.svc.CompleteOrder(context.Background(), o.ID, payments(t, map[models.PaymentMethod]decimal.Decimal{
		models.PaymentMethodCard:        dec("40"),
		models.PaymentMethodCash:        dec("60"),
		models.PaymentMethodTalabatCard: decimal.Zero,
	}), false)
	require.NoError(t, err)

	var rows []models.Payment
	require.NoError(t, f.db.Where("order_id = ?", o.ID).Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, models.PaymentMethodCash, rows[0].Method)
	assert.Equal(t, models.PaymentMethodCard, rows[1].Method)
	assert.Equal(t, f.shift.ID, rows[0].ShiftID)
}

func TestCompleteOrder_FractionalQuantityRoundsTotals(t *testing.T) {
	f := newFixture(t, calc.Pricing{})
	ctx := context.Background()
	cheese := models.Product{Name: "Peynir", Unit: "kg", Price: dec("10.01"), Cost: dec("5")}
	require.NoError(t, f.db.Create(&cheese).Error)

	o := f.create(t, models.OrderTypeTakeaway, "")
	o, err := f.svc.AddItems(ctx, o.ID, []ItemInput{{ProductID: cheese.ID, Quantity: dec("0.125")}})
	require.NoError(t, err)
	assertDec(t, "1.25", o.SubTotal, "sub_total")

	o, err = f.svc.CompleteOrder(ctx, o.ID, payments(t, map[models.PaymentMethod]decimal.Decimal{
		models.PaymentMethodCash: dec("1.25"),
	}), false)
	require.NoError(t, err)
	assertDec(t, "1.25", o.Total, "total")
	assert.Equal(t, models.PaymentStatusFullPaid, o.PaymentStatus)

	var stored models.Order
	require.NoError(t, f.db.First(&stored, o.ID).Error)
	assertDec(t, "1.25", stored.SubTotal, "saklanan sub_total")
	assertDec(t, "1.25", stored.Total, "saklanan total")
	assert.Equal(t, models.PaymentStatusFullPaid, stored.PaymentStatus)

	qty, err := f.ledger.Quantity(ctx, cheese.ID)
	require.NoError(t, err)
	assertDec(t, "-0.125", qty, "peynir stok")
	require.NoError(t, f.ledger.Verify(ctx, cheese.ID))
}

func TestCompleteOrder_ConcurrentCallsCompleteOnce(t *testing.T) {
	f := newConcurrentFixture(t)
	ctx := context.Background()
	o := f.withItems(t)
	pay := payments(t, map[models.PaymentMethod]decimal.Decimal{models.PaymentMethodCash: dec("100")})

	const n = 4
	errs := make([]error, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, errs[i] = f.svc.CompleteOrder(ctx, o.ID, pay, false)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	completed := 0
	for _, err := range errs {
		if err == nil {
			completed++
			continue
		}
		requireKind(t, err, apperr.KindState)
	}
	assert.Equal(t, 1, completed)

	movements, err := f.ledger.MovementsFor(ctx, models.RefOrder(o.ID))
	require.NoError(t, err)
	assert.Len(t, movements, 2)

	var paid int64
	require.NoError(t, f.db.Model(&models.Payment{}).Where("order_id = ?", o.ID).Count(&paid).Error)
	assert.Equal(t, int64(1), paid)

	qty, err := f.ledger.Quantity(ctx, f.burger.ID)
	require.NoError(t, err)
	assertDec(t, "-1", qty, "burger stok")
	require.NoError(t, f.ledger.VerifyAll(ctx))
}

func TestCompleteOrder_DayClosedWritesNothing(t *testing.T) {
	f := newFixture(t, calc.Pricing{})
	ctx := context.Background()
	o := f.withItems(t)

	_, err := f.gate.Close(ctx, 1)
	require.NoError(t, err)

	_, err = f.svc.CompleteOrder(ctx, o.ID, payments(t, map[models.PaymentMethod]decimal.Decimal{
		models.PaymentMethodCash: dec("100"),
	}), false)
	e := requireKind(t, err, apperr.KindIntegrity)
	assert.Equal(t, "day_closed", e.Code)

	got, err := f.svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, got.Status)
	assert.Equal(t, models.PaymentStatusPending, got.PaymentStatus)

	var n int64
	require.NoError(t, f.db.Model(&models.Payment{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, f.db.Model(&models.StockMovement{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCancelCompletedOrder_DayClosed(t *testing.T) {
	f := newFixture(t, calc.Pricing{})
	ctx := context.Background()
	o := f.withItems(t)
	_, err := f.svc.CompleteOrder(ctx, o.ID, payments(t, map[models.PaymentMethod]decimal.Decimal{
		models.PaymentMethodCash: dec("100"),
	}), false)
	require.NoError(t, err)

	_, err = f.gate.Close(ctx, 1)
	require.NoError(t, err)

	_, err = f.svc.CancelOrder(ctx, o.ID, 1, "iade")
	requireKind(t, err, apperr.KindIntegrity)

	got, err := f.svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, got.Status)
}

func TestCreateOrder_ConcurrentNumbersAreUnique(t *testing.T) {
	f := newConcurrentFixture(t)
	const n = 20

	numbers := make([]uint, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			in, err := dto.NewCreateOrder(dto.CreateOrderInput{Type: models.OrderTypeTakeaway, ShiftID: f.shift.ID, UserID: 1})
			if err != nil {
				return err
			}
			o, err := f.svc.CreateOrder(context.Background(), in)
			if err != nil {
				return err
			}
			numbers[i] = o.OrderNumber
			return nil
		})
	}
	require.NoError(t, g.Wait())

	seen := make(map[uint]bool, n)
	for _, num := range numbers {
		assert.Falsef(t, seen[num], "numara %d iki kez verildi", num)
		seen[num] = true
		assert.True(t, num >= 1 && num <= n)
	}
}

func TestCreateOrder_WebOrdersNumberedSeparately(t *testing.T) {
	f := newFixture(t, calc.Pricing{})

	pos := f.create(t, models.OrderTypeDineIn, "T1")
	web := f.create(t, models.OrderTypeWebDelivery, "")
	pos2 := f.create(t, models.OrderTypeTakeaway, "")

	assert.Equal(t, uint(1), pos.OrderNumber)
	assert.Equal(t, uint(1), web.OrderNumber)
	assert.Equal(t, uint(2), pos2.OrderNumber)
	assert.Equal(t, models.OrderStatusPending, web.Status)

	found, err := f.svc.FindInShift(context.Background(), f.shift.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, pos.ID, found.ID)
}

func TestCreateOrder_ContinuesAfterExistingNumbers(t *testing.T) {
	f := newFixture(t, calc.Pricing{})
	legacy := models.Order{
		ShiftID: f.shift.ID, NumberScope: models.NumberScopePOS, OrderNumber: 41, UserID: 1,
		Type: models.OrderTypeTakeaway, Status: models.OrderStatusCompleted, PaymentStatus: models.PaymentStatusFullPaid,
	}
	require.NoError(t, f.db.Create(&legacy).Error)

	o := f.create(t, models.OrderTypeTakeaway, "")
	assert.Equal(t, uint(42), o.OrderNumber)
}

func TestCreateOrder_ClosedShift(t *testing.T) {
	f := newFixture(t, calc.Pricing{})
	require.NoError(t, f.db.Model(&f.shift).Update("closed", true).Error)

	in, err := dto.NewCreateOrder(dto.CreateOrderInput{Type: models.OrderTypeTakeaway, ShiftID: f.shift.ID, UserID: 1})
	require.NoError(t, err)
	_, err = f.svc.CreateOrder(context.Background(), in)
	requireKind(t, err, apperr.KindState)
}

func TestTerminalOrdersRejectMutation(t *testing.T) {
	f := newFixture(t, calc.Pricing{})
	ctx := context.Background()
	o := f.withItems(t)
	_, err := f.svc.CompleteOrder(ctx, o.ID, payments(t, map[models.PaymentMethod]decimal.Decimal{
		models.PaymentMethodCash: dec("100"),
	}), false)
	require.NoError(t, err)

	_, err = f.svc.AddItems(ctx, o.ID, []ItemInput{{ProductID: f.cola.ID, Quantity: dec("1")}})
	requireKind(t, err, apperr.KindState)
	_, err = f.svc.ApplyDiscount(ctx, o.ID, 1, percent(t, "5"))
	requireKind(t, err, apperr.KindState)
	_, err = f.svc.CompleteOrder(ctx, o.ID, payments(t, nil), false)
	requireKind(t, err, apperr.KindState)
	requireKind(t, f.svc.DeleteOrder(ctx, o.ID, 1), apperr.KindState)

	_, err = f.svc.CancelOrder(ctx, o.ID, 1, "iade")
	require.NoError(t, err)
	_, err = f.svc.CancelOrder(ctx, o.ID, 1, "iade")
	requireKind(t, err, apperr.KindState)
}

func TestCancelCompletedOrder_RequiresReason(t *testing.T) {
	f := newFixture(t, calc.Pricing{})
	ctx := context.Background()
	o := f.withItems(t)
	_, err := f.svc.CompleteOrder(ctx, o.ID, payments(t, map[models.PaymentMethod]decimal.Decimal{
		models.PaymentMethodCash: dec("100"),
	}), false)
	require.NoError(t, err)

	_, err = f.svc.CancelOrder(ctx, o.ID, 1, "  ")
	requireKind(t, err, apperr.KindValidation)
}

func TestCancelOpenOrder_NoStockMovements(t *testing.T) {
	f := newFixture(t, calc.Pricing{})
	ctx := context.Background()
	o := f.withItems(t)

	o, err := f.svc.CancelOrder(ctx, o.ID, 1, "")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, o.Status)

	var n int64
	require.NoError(t, f.db.Model(&models.StockMovement{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCompleteOrder_EmptyOrder(t *testing.T) {
	f := newFixture(t, calc.Pricing{})
	o := f.create(t, models.OrderTypeTakeaway, "")

	_, err := f.svc.CompleteOrder(context.Background(), o.ID, payments(t, nil), false)
	requireKind(t, err, apperr.KindState)
}

func TestDiscount_PercentageReappliedAfterItemChange(t *testing.T) {
	f := newFixture(t, calc.Pricing{})
	ctx := context.Background()
	o := f.withItems(t)

	_, err := f.svc.ApplyDiscount(ctx, o.ID, 1, percent(t, "10"))
	require.NoError(t, err)

	o, err = f.svc.AddItems(ctx, o.ID, []ItemInput{{ProductID: f.cola.ID, Quantity: dec("1")}})
	require.NoError(t, err)
	assertDec(t, "120", o.SubTotal, "sub_total")
	assertDec(t, "12", o.Discount, "discount")
	assertDec(t, "108", o.Total, "total")
}

func TestDiscount_FixedCappedAtSubTotal(t *testing.T) {
	f := newFixture(t, calc.Pricing{})
	ctx := context.Background()
	o := f.withItems(t)

	d, err := dto.NewDiscount(dec("500"), models.DiscountTypeFixed)
	require.NoError(t, err)
	o, err = f.svc.ApplyDiscount(ctx, o.ID, 1, d)
	require.NoError(t, err)
	assertDec(t, "100", o.Discount, "discount")
	assertDec(t, "0", o.Total, "total")

	items, err := ItemRepository{}.List(f.db, o.ID)
	require.NoError(t, err)
	o, err = f.svc.RemoveItem(ctx, o.ID, items[0].ID)
	require.NoError(t, err)
	assertDec(t, "20", o.SubTotal, "sub_total")
	assertDec(t, "20", o.Discount, "discount")
}

func TestPricing_TaxServiceAndDeliveryFee(t *testing.T) {
	f := newFixture(t, calc.Pricing{TaxRate: dec("0.14"), ServiceRate: dec("0.12"), DeliveryFee: dec("5")})
	ctx := context.Background()

	dineIn := f.withItems(t)
	assertDec(t, "14", dineIn.Tax, "tax")
	assertDec(t, "12", dineIn.Service, "service")
	assertDec(t, "126", dineIn.Total, "total")

	delivery := f.create(t, models.OrderTypeDelivery, "")
	assertDec(t, "0", delivery.Service, "boş paket servis ücreti")
	delivery, err := f.svc.AddItems(ctx, delivery.ID, []ItemInput{{ProductID: f.cola.ID, Quantity: dec("2")}})
	require.NoError(t, err)
	assertDec(t, "5", delivery.Service, "paket servis ücreti")
	assertDec(t, "50.6", delivery.Total, "total")
}

func TestReplaceItems_SnapshotsProductPrice(t *testing.T) {
	f := newFixture(t, calc.Pricing{})
	ctx := context.Background()
	o := f.withItems(t)

	require.NoError(t, f.db.Model(&f.cola).Update("price", dec("25")).Error)

	o, err := f.svc.ReplaceItems(ctx, o.ID, []ItemInput{{ProductID: f.cola.ID, Quantity: dec("2"), Notes: "buzsuz"}})
	require.NoError(t, err)
	assertDec(t, "50", o.SubTotal, "sub_total")

	_, err = f.svc.AddItems(ctx, o.ID, []ItemInput{{ProductID: 999, Quantity: dec("1")}})
	requireKind(t, err, apperr.KindValidation)
}

func TestMarkOutForDelivery(t *testing.T) {
	f := newFixture(t, calc.Pricing{})
	ctx := context.Background()

	dineIn := f.withItems(t)
	_, err := f.svc.MarkOutForDelivery(ctx, dineIn.ID, nil)
	requireKind(t, err, apperr.KindState)

	o := f.create(t, models.OrderTypeDelivery, "")
	_, err = f.svc.AddItems(ctx, o.ID, []ItemInput{{ProductID: f.burger.ID, Quantity: dec("1")}})
	require.NoError(t, err)

	driver := uint(3)
	o, err = f.svc.MarkOutForDelivery(ctx, o.ID, &driver)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusOutForDelivery, o.Status)
	require.NotNil(t, o.DriverID)
	assert.Equal(t, driver, *o.DriverID)

	_, err = f.svc.AddItems(ctx, o.ID, []ItemInput{{ProductID: f.cola.ID, Quantity: dec("1")}})
	requireKind(t, err, apperr.KindState)

	o, err = f.svc.CompleteOrder(ctx, o.ID, payments(t, map[models.PaymentMethod]decimal.Decimal{
		models.PaymentMethodCash: dec("80"),
	}), false)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, o.Status)
}

func TestAcceptWebOrder(t *testing.T) {
	f := newFixture(t, calc.Pricing{})
	ctx := context.Background()
	web := f.create(t, models.OrderTypeWebTakeaway, "")

	_, err := f.svc.AddItems(ctx, web.ID, []ItemInput{{ProductID: f.cola.ID, Quantity: dec("1")}})
	requireKind(t, err, apperr.KindState)

	web, err = f.svc.AcceptOrder(ctx, web.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, web.Status)

	_, err = f.svc.AcceptOrder(ctx, web.ID)
	requireKind(t, err, apperr.KindState)
}

func TestDeleteOrder(t *testing.T) {
	f := newFixture(t, calc.Pricing{})
	ctx := context.Background()
	o := f.withItems(t)

	require.NoError(t, f.svc.DeleteOrder(ctx, o.ID, 1))

	_, err := f.svc.Get(ctx, o.ID)
	requireKind(t, err, apperr.KindNotFound)
	var n int64
	require.NoError(t, f.db.Model(&models.OrderItem{}).Where("order_id = ?", o.ID).Count(&n).Error)
	assert.Zero(t, n)
}

func TestLinkCustomer(t *testing.T) {
	f := newFixture(t, calc.Pricing{})
	ctx := context.Background()
	o := f.withItems(t)

	o, err := f.svc.LinkCustomer(ctx, o.ID, 5)
	require.NoError(t, err)
	require.NotNil(t, o.CustomerID)
	assert.Equal(t, uint(5), *o.CustomerID)
	assertDec(t, "100", o.Total, "total değişmemeli")

	_, err = f.svc.LinkCustomer(ctx, o.ID, 5)
	require.NoError(t, err)
	_, err = f.svc.LinkCustomer(ctx, o.ID, 6)
	requireKind(t, err, apperr.KindState)
}

func TestChangeType(t *testing.T) {
	f := newFixture(t, calc.Pricing{ServiceRate: dec("0.1"), DeliveryFee: dec("7")})
	ctx := context.Background()
	o := f.withItems(t)
	assertDec(t, "10", o.Service, "salon servisi")

	o, err := f.svc.ChangeType(ctx, o.ID, models.OrderTypeDelivery, "")
	require.NoError(t, err)
	assert.Equal(t, models.OrderTypeDelivery, o.Type)
	assertDec(t, "7", o.Service, "paket servis ücreti")

	_, err = f.svc.ChangeType(ctx, o.ID, models.OrderTypeWebDelivery, "")
	requireKind(t, err, apperr.KindState)
	_, err = f.svc.ChangeType(ctx, o.ID, models.OrderTypeDineIn, "")
	requireKind(t, err, apperr.KindValidation)
}

func TestSnapshotAndEInvoiceStatus(t *testing.T) {
	f := newFixture(t, calc.Pricing{})
	ctx := context.Background()
	o := f.withItems(t)

	_, err := f.svc.RecordEInvoiceStatus(ctx, o.ID, "sent")
	requireKind(t, err, apperr.KindState)

	_, err = f.svc.CompleteOrder(ctx, o.ID, payments(t, map[models.PaymentMethod]decimal.Decimal{
		models.PaymentMethodCard: dec("70"),
	}), true)
	require.NoError(t, err)

	snap, err := f.svc.Snapshot(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, snap.Final)
	require.Len(t, snap.Lines, 2)
	assert.Equal(t, "Burger", snap.Lines[0].ProductName)
	assertDec(t, "70", snap.Paid, "paid")
	assertDec(t, "30", snap.Remaining, "remaining")
	assert.Equal(t, models.PaymentStatusPartialPaid, snap.PaymentStatus)

	o, err = f.svc.RecordEInvoiceStatus(ctx, o.ID, "accepted:ETA-123")
	require.NoError(t, err)
	assert.Equal(t, "accepted:ETA-123", o.EInvoiceStatus)
}

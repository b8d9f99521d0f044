package services_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/p-karari/hms-sub002/internal/adapters/cache"
	"github.com/p-karari/hms-sub002/internal/adapters/database/memory"
	"github.com/p-karari/hms-sub002/internal/apperrors"
	"github.com/p-karari/hms-sub002/internal/core/domain"
	portsrepo "github.com/p-karari/hms-sub002/internal/core/ports/repositories"
	portssvc "github.com/p-karari/hms-sub002/internal/core/ports/services"
	"github.com/p-karari/hms-sub002/internal/core/services"
	"github.com/p-karari/hms-sub002/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// ledgerHarness wires the three services over the in-memory store.
type ledgerHarness struct {
	store    *memory.Store
	receipts *sequentialReceipts
	bills    portssvc.BillSvcFacade
	payments portssvc.PaymentSvcFacade
	voids    portssvc.VoidSvcFacade
}

func newDirectory() *memory.Directory {
	dir := memory.NewDirectory()
	dir.AddPatient(domain.PatientRef{PatientID: 3, Handle: patientHandle})
	dir.AddUser(domain.UserRef{UserID: 10, Handle: cashierHandle})
	dir.AddCatalogEntry(domain.CatalogEntry{ID: 1, Kind: domain.BillableService, Name: "General consultation", Price: decimal.NewFromInt(100), DefaultPriceName: "Standard"})
	dir.AddCatalogEntry(domain.CatalogEntry{ID: 4, Kind: domain.BillableItem, Name: "Paracetamol 500mg", Price: decimal.RequireFromString("2.50"), DefaultPriceName: "Unit"})
	dir.AddPaymentMode(domain.PaymentMode{ID: 1, Name: "Cash"})
	return dir
}

func newLedgerHarness(t *testing.T, wrap func(*memory.Store) portsrepo.LedgerRepositoryWithTx, opts ...services.ServiceOption) *ledgerHarness {
	t.Helper()
	store := memory.New()
	var repo portsrepo.LedgerRepositoryWithTx = store
	if wrap != nil {
		repo = wrap(store)
	}
	dir := newDirectory()
	receipts := &sequentialReceipts{}
	return &ledgerHarness{
		store:    store,
		receipts: receipts,
		bills:    services.NewBillService(repo, dir, dir, receipts, opts...),
		payments: services.NewPaymentService(repo, dir, dir, receipts, opts...),
		voids:    services.NewVoidService(repo, dir, receipts, opts...),
	}
}

func (h *ledgerHarness) createBill(t *testing.T, items ...dto.LineItemSpec) int64 {
	t.Helper()
	id, err := h.bills.CreateBill(context.Background(), dto.CreateBillRequest{
		PatientHandle: patientHandle,
		CashPointID:   1,
		LineItems:     items,
	}, cashierHandle)
	require.NoError(t, err)
	return id
}

func (h *ledgerHarness) pay(t *testing.T, billID int64, amount int64) int64 {
	t.Helper()
	id, err := h.payments.ApplyPayment(context.Background(), billID, dto.ApplyPaymentRequest{
		PaymentModeID: 1,
		Amount:        decimal.NewFromInt(amount),
	}, cashierHandle)
	require.NoError(t, err)
	return id
}

func (h *ledgerHarness) get(t *testing.T, billID int64) *domain.Bill {
	t.Helper()
	bill, err := h.bills.GetBill(context.Background(), billID)
	require.NoError(t, err)
	return bill
}

func consultation(qty int) dto.LineItemSpec {
	return dto.LineItemSpec{Kind: domain.BillableService, CatalogID: 1, Quantity: qty}
}

func requireStatusLaw(t *testing.T, bill *domain.Bill) {
	t.Helper()
	totals := bill.Totals()
	require.Equal(t, domain.DeriveStatus(totals.Total, totals.Paid), bill.Status,
		"bill %d: total=%s paid=%s", bill.BillID, totals.Total, totals.Paid)
}

func TestLedger_PartialPaymentThenSettlementThenVoid(t *testing.T) {
	h := newLedgerHarness(t, nil)
	ctx := context.Background()
	billID := h.createBill(t, consultation(2))

	bill := h.get(t, billID)
	assert.Equal(t, domain.BillPending, bill.Status)
	assert.Nil(t, bill.ReceiptNumber)

	h.pay(t, billID, 120)
	bill = h.get(t, billID)
	assert.Equal(t, domain.BillPartiallyPaid, bill.Status)
	assert.Nil(t, bill.ReceiptNumber)

	second := h.pay(t, billID, 80)
	bill = h.get(t, billID)
	assert.Equal(t, domain.BillPaid, bill.Status)
	require.NotNil(t, bill.ReceiptNumber)
	receipt := *bill.ReceiptNumber
	for _, li := range bill.LineItems {
		assert.Equal(t, domain.LineItemPaid, li.PaymentStatus)
	}

	require.NoError(t, h.payments.VoidPayment(ctx, second, "card reversed", cashierHandle))
	bill = h.get(t, billID)
	assert.Equal(t, domain.BillPartiallyPaid, bill.Status)
	require.NotNil(t, bill.ReceiptNumber, "receipt number is never retracted")
	assert.Equal(t, receipt, *bill.ReceiptNumber)
	require.Len(t, bill.Payments, 2, "voided payments stay on the bill")
	assert.True(t, bill.Payments[1].IsVoided())
	assert.Equal(t, "card reversed", bill.Payments[1].Void.VoidReason)
	assert.Equal(t, int64(10), bill.Payments[1].Void.VoidedBy)
	assert.True(t, decimal.NewFromInt(80).Equal(bill.Totals().Balance()))
}

func TestLedger_StatusAlwaysMatchesActiveChildren(t *testing.T) {
	h := newLedgerHarness(t, nil)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))
	billID := h.createBill(t, consultation(1))

	var lineItems, payments []int64
	for step := 0; step < 200; step++ {
		var err error
		switch rng.Intn(5) {
		case 0:
			var id int64
			id, err = h.bills.AddLineItem(ctx, billID, dto.LineItemSpec{Kind: domain.BillableItem, CatalogID: 4, Quantity: 1 + rng.Intn(20)}, cashierHandle)
			lineItems = append(lineItems, id)
		case 1, 2:
			var id int64
			id, err = h.payments.ApplyPayment(ctx, billID, dto.ApplyPaymentRequest{
				PaymentModeID: 1,
				Amount:        decimal.New(int64(1+rng.Intn(6000)), -2),
			}, cashierHandle)
			payments = append(payments, id)
		case 3:
			if len(payments) > 0 {
				idx := rng.Intn(len(payments))
				err = h.payments.VoidPayment(ctx, payments[idx], "reversal", cashierHandle)
				payments = append(payments[:idx], payments[idx+1:]...)
			}
		case 4:
			if len(lineItems) > 0 {
				idx := rng.Intn(len(lineItems))
				qty := 1 + rng.Intn(5)
				err = h.voids.UpdateLineItem(ctx, lineItems[idx], dto.UpdateLineItemRequest{Quantity: &qty}, cashierHandle)
			}
		}
		require.NoError(t, err, "step %d", step)
		requireStatusLaw(t, h.get(t, billID))
	}
}

func TestLedger_ReceiptIssuedOnlyOnce(t *testing.T) {
	h := newLedgerHarness(t, nil)
	ctx := context.Background()
	billID := h.createBill(t, consultation(1))

	paymentID := h.pay(t, billID, 100)
	first := h.get(t, billID)
	require.NotNil(t, first.ReceiptNumber)

	require.NoError(t, h.payments.VoidPayment(ctx, paymentID, "reversed", cashierHandle))
	reverted := h.get(t, billID)
	assert.Equal(t, domain.BillPending, reverted.Status)
	assert.Equal(t, *first.ReceiptNumber, *reverted.ReceiptNumber)
	h.pay(t, billID, 100)
	assert.Equal(t, *first.ReceiptNumber, *h.get(t, billID).ReceiptNumber)

	_, err := h.bills.AddLineItem(ctx, billID, consultation(1), cashierHandle)
	require.NoError(t, err)
	assert.Equal(t, domain.BillPartiallyPaid, h.get(t, billID).Status)

	h.pay(t, billID, 100)
	again := h.get(t, billID)
	assert.Equal(t, domain.BillPaid, again.Status)
	assert.Equal(t, *first.ReceiptNumber, *again.ReceiptNumber)
	assert.Equal(t, int64(1), h.receipts.issued())
}

func TestLedger_ZeroTotalBillStaysPending(t *testing.T) {
	h := newLedgerHarness(t, nil)
	billID := h.createBill(t)

	h.pay(t, billID, 50)

	bill := h.get(t, billID)
	assert.Equal(t, domain.BillPending, bill.Status)
	assert.Nil(t, bill.ReceiptNumber)
}

func TestLedger_VoidsAreNonDestructive(t *testing.T) {
	h := newLedgerHarness(t, nil)
	ctx := context.Background()
	billID := h.createBill(t, consultation(1), dto.LineItemSpec{Kind: domain.BillableItem, CatalogID: 4, Quantity: 4})
	paymentID := h.pay(t, billID, 30)

	before := h.get(t, billID)
	require.Len(t, before.LineItems, 2)

	require.NoError(t, h.voids.VoidLineItem(ctx, before.LineItems[1].LineItemID, "not dispensed", cashierHandle))
	require.NoError(t, h.payments.VoidPayment(ctx, paymentID, "refunded", cashierHandle))
	require.NoError(t, h.voids.VoidBill(ctx, billID, "duplicate visit", cashierHandle))

	after := h.get(t, billID)
	require.True(t, after.IsVoided())
	assert.Equal(t, "duplicate visit", after.Void.VoidReason)
	require.Len(t, after.LineItems, 2)
	require.Len(t, after.Payments, 1)
	assert.False(t, after.LineItems[0].IsVoided(), "voiding a bill does not cascade")
	assert.True(t, after.LineItems[1].IsVoided())
	assert.True(t, after.Payments[0].IsVoided())
	assert.Equal(t, before.LineItems[1].Price, after.LineItems[1].Price)
	assert.Equal(t, before.Payments[0].Amount, after.Payments[0].Amount)

	listed, err := h.bills.ListBillsForPatient(ctx, patientHandle, dto.ListBillsParams{})
	require.NoError(t, err)
	assert.Empty(t, listed)
	listed, err = h.bills.ListBillsForPatient(ctx, patientHandle, dto.ListBillsParams{IncludeVoided: true})
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	_, err = h.payments.ApplyPayment(ctx, billID, dto.ApplyPaymentRequest{PaymentModeID: 1, Amount: decimal.NewFromInt(5)}, cashierHandle)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = h.bills.AddLineItem(ctx, billID, consultation(1), cashierHandle)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, h.voids.VoidBill(ctx, billID, "again", cashierHandle), apperrors.ErrNotFound)
	assert.ErrorIs(t, h.payments.VoidPayment(ctx, paymentID, "again", cashierHandle), apperrors.ErrNotFound)
}

// failingStore fails the n-th line item insert.
type failingStore struct {
	*memory.Store
	failAt int
	calls  int
}

var errInjected = errors.New("disk full")

func (f *failingStore) SaveLineItem(ctx context.Context, item *domain.LineItem) error {
	f.calls++
	if f.calls == f.failAt {
		return apperrors.NewAppError(500, "failed to insert line item", errInjected)
	}
	return f.Store.SaveLineItem(ctx, item)
}

func TestLedger_CreateBillIsAllOrNothing(t *testing.T) {
	for failAt := 1; failAt <= 3; failAt++ {
		t.Run(fmt.Sprintf("fail at item %d", failAt), func(t *testing.T) {
			h := newLedgerHarness(t, func(s *memory.Store) portsrepo.LedgerRepositoryWithTx {
				return &failingStore{Store: s, failAt: failAt}
			})
			ctx := context.Background()

			_, err := h.bills.CreateBill(ctx, dto.CreateBillRequest{
				PatientHandle: patientHandle,
				CashPointID:   1,
				LineItems:     []dto.LineItemSpec{consultation(1), consultation(2), consultation(3)},
			}, cashierHandle)

			require.ErrorIs(t, err, errInjected)
			assert.ErrorIs(t, err, apperrors.ErrStore)
			bills, err := h.store.ListBillsByPatient(ctx, 3, true)
			require.NoError(t, err)
			assert.Empty(t, bills, "no bill header may survive a failed unit of work")
			items, err := h.store.FindLineItemsByBillID(ctx, 1)
			require.NoError(t, err)
			assert.Empty(t, items)
		})
	}
}

func TestLedger_ConcurrentPaymentsSettleOnce(t *testing.T) {
	h := newLedgerHarness(t, nil)
	billID := h.createBill(t, consultation(2))

	const workers = 20
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			_, err := h.payments.ApplyPayment(ctx, billID, dto.ApplyPaymentRequest{
				PaymentModeID: 1,
				Amount:        decimal.NewFromInt(10),
			}, cashierHandle)
			return err
		})
	}
	require.NoError(t, g.Wait())

	bill := h.get(t, billID)
	assert.Len(t, bill.Payments, workers)
	assert.Equal(t, domain.BillPaid, bill.Status)
	assert.True(t, decimal.NewFromInt(200).Equal(bill.Totals().Paid))
	require.NotNil(t, bill.ReceiptNumber)
	assert.Equal(t, int64(1), h.receipts.issued(), "exactly one worker crosses the PAID threshold")
}

// interleavingCache runs beforeSet once, after a listing was loaded from the
// store and before it is written to the cache.
type interleavingCache struct {
	portsrepo.BillListingCache
	beforeSet func()
}

func (c *interleavingCache) SetPatientBills(ctx context.Context, patientID int64, generation int64, bills []domain.Bill) error {
	if f := c.beforeSet; f != nil {
		c.beforeSet = nil
		f()
	}
	return c.BillListingCache.SetPatientBills(ctx, patientID, generation, bills)
}

func TestLedger_ListingCacheNotRefilledWithStaleSnapshot(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	listings := &interleavingCache{BillListingCache: cache.NewRedisBillListingCache(client, time.Minute)}
	h := newLedgerHarness(t, nil, services.WithBillListingCache(listings))
	ctx := context.Background()
	billID := h.createBill(t, consultation(1))

	listings.beforeSet = func() { h.pay(t, billID, 100) }
	listed, err := h.bills.ListBillsForPatient(ctx, patientHandle, dto.ListBillsParams{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, domain.BillPending, listed[0].Status, "listing was read before the payment committed")

	assert.Equal(t, domain.BillPaid, h.get(t, billID).Status)
	for i := 0; i < 2; i++ {
		listed, err = h.bills.ListBillsForPatient(ctx, patientHandle, dto.ListBillsParams{})
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, domain.BillPaid, listed[0].Status)
		require.NotNil(t, listed[0].ReceiptNumber)
	}
}

func TestLedger_BillReachableByCorrelationID(t *testing.T) {
	h := newLedgerHarness(t, nil)
	ctx := context.Background()
	billID := h.createBill(t, consultation(1))
	h.pay(t, billID, 40)

	byID := h.get(t, billID)
	require.NotEmpty(t, byID.CorrelationID)

	byCorr, err := h.bills.GetBillByCorrelationID(ctx, byID.CorrelationID)
	require.NoError(t, err)
	assert.Equal(t, byID.BillID, byCorr.BillID)
	assert.Equal(t, byID.Status, byCorr.Status)
	assert.Len(t, byCorr.LineItems, 1)
	assert.Len(t, byCorr.Payments, 1)

	_, err = h.bills.GetBillByCorrelationID(ctx, "no-such-bill")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

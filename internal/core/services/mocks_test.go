package services_test

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/p-karari/hms-sub002/internal/core/domain"
	portsrepo "github.com/p-karari/hms-sub002/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepositoryWithTx = (*MockLedgerRepository)(nil)

// WithTx runs fn directly; the mock has no transaction of its own.
func (m *MockLedgerRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Called(ctx)
	return fn(ctx)
}

func (m *MockLedgerRepository) FindBillByID(ctx context.Context, billID int64) (*domain.Bill, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}

func (m *MockLedgerRepository) FindBillByCorrelationID(ctx context.Context, correlationID string) (*domain.Bill, error) {
	args := m.Called(ctx, correlationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}

func (m *MockLedgerRepository) ListBillsByPatient(ctx context.Context, patientID int64, includeVoided bool) ([]domain.Bill, error) {
	args := m.Called(ctx, patientID, includeVoided)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bill), args.Error(1)
}

func (m *MockLedgerRepository) SaveBill(ctx context.Context, bill *domain.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

// LockBill returns a fresh copy on every call so a replayed unit of work
// never sees mutations made by an earlier attempt.
func (m *MockLedgerRepository) LockBill(ctx context.Context, billID int64) (*domain.Bill, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	b := *args.Get(0).(*domain.Bill)
	return &b, args.Error(1)
}

func (m *MockLedgerRepository) UpdateBillSettlement(ctx context.Context, bill domain.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockLedgerRepository) VoidBill(ctx context.Context, billID int64, void domain.VoidInfo) error {
	args := m.Called(ctx, billID, void)
	return args.Error(0)
}

func (m *MockLedgerRepository) SumBillTotals(ctx context.Context, billID int64) (domain.BillTotals, error) {
	args := m.Called(ctx, billID)
	return args.Get(0).(domain.BillTotals), args.Error(1)
}

func (m *MockLedgerRepository) FindLineItemByID(ctx context.Context, lineItemID int64) (*domain.LineItem, error) {
	args := m.Called(ctx, lineItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	li := *args.Get(0).(*domain.LineItem)
	return &li, args.Error(1)
}

func (m *MockLedgerRepository) FindLineItemsByBillID(ctx context.Context, billID int64) ([]domain.LineItem, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LineItem), args.Error(1)
}

func (m *MockLedgerRepository) SaveLineItem(ctx context.Context, item *domain.LineItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockLedgerRepository) UpdateLineItem(ctx context.Context, item domain.LineItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockLedgerRepository) VoidLineItem(ctx context.Context, lineItemID int64, void domain.VoidInfo) error {
	args := m.Called(ctx, lineItemID, void)
	return args.Error(0)
}

func (m *MockLedgerRepository) UpdateLineItemPaymentStatus(ctx context.Context, billID int64, status domain.LineItemPaymentStatus) error {
	args := m.Called(ctx, billID, status)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindPaymentByID(ctx context.Context, paymentID int64) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockLedgerRepository) FindPaymentsByBillID(ctx context.Context, billID int64) ([]domain.Payment, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

func (m *MockLedgerRepository) SavePayment(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockLedgerRepository) VoidPayment(ctx context.Context, paymentID int64, void domain.VoidInfo) error {
	args := m.Called(ctx, paymentID, void)
	return args.Error(0)
}

// --- Mock IdentityResolver ---
type MockIdentityResolver struct {
	mock.Mock
}

var _ portsrepo.IdentityResolver = (*MockIdentityResolver)(nil)

func (m *MockIdentityResolver) ResolvePatient(ctx context.Context, handle string) (*domain.PatientRef, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PatientRef), args.Error(1)
}

func (m *MockIdentityResolver) ResolveUser(ctx context.Context, handle string) (*domain.UserRef, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserRef), args.Error(1)
}

// --- Mock CatalogProvider ---
type MockCatalogProvider struct {
	mock.Mock
}

var _ portsrepo.CatalogProvider = (*MockCatalogProvider)(nil)

func (m *MockCatalogProvider) FindService(ctx context.Context, serviceID int64) (*domain.CatalogEntry, error) {
	args := m.Called(ctx, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CatalogEntry), args.Error(1)
}

func (m *MockCatalogProvider) FindStockItem(ctx context.Context, itemID int64) (*domain.CatalogEntry, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CatalogEntry), args.Error(1)
}

func (m *MockCatalogProvider) FindPaymentMode(ctx context.Context, paymentModeID int64) (*domain.PaymentMode, error) {
	args := m.Called(ctx, paymentModeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentMode), args.Error(1)
}

// --- Mock BillListingCache ---
type MockBillListingCache struct {
	mock.Mock
}

var _ portsrepo.BillListingCache = (*MockBillListingCache)(nil)

func (m *MockBillListingCache) ListingGeneration(ctx context.Context, patientID int64) (int64, error) {
	args := m.Called(ctx, patientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBillListingCache) GetPatientBills(ctx context.Context, patientID int64) ([]domain.Bill, bool, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]domain.Bill), args.Bool(1), args.Error(2)
}

func (m *MockBillListingCache) SetPatientBills(ctx context.Context, patientID int64, generation int64, bills []domain.Bill) error {
	args := m.Called(ctx, patientID, generation, bills)
	return args.Error(0)
}

func (m *MockBillListingCache) InvalidatePatient(ctx context.Context, patientID int64) error {
	args := m.Called(ctx, patientID)
	return args.Error(0)
}

// sequentialReceipts issues RCPT-TEST-1, RCPT-TEST-2, ...
type sequentialReceipts struct {
	n atomic.Int64
}

var _ portsrepo.ReceiptNumberGenerator = (*sequentialReceipts)(nil)

func (r *sequentialReceipts) NextReceiptNumber() string {
	return fmt.Sprintf("RCPT-TEST-%d", r.n.Add(1))
}

func (r *sequentialReceipts) issued() int64 {
	return r.n.Load()
}

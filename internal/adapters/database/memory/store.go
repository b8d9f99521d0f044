package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/p-karari/hms-sub002/internal/apperrors"
	"github.com/p-karari/hms-sub002/internal/core/domain"
	portsrepo "github.com/p-karari/hms-sub002/internal/core/ports/repositories"
	"github.com/p-karari/hms-sub002/internal/models"
	"github.com/p-karari/hms-sub002/internal/utils/mapping"
)

// ledgerData is one consistent version of every ledger table.
type ledgerData struct {
	bills      map[int64]models.Bill
	lineItems  map[int64]models.LineItem
	payments   map[int64]models.Payment
	attributes map[int64]models.PaymentAttribute
	billByCorr map[string]int64

	nextBillID      int64
	nextLineItemID  int64
	nextPaymentID   int64
	nextAttributeID int64
}

func newLedgerData() *ledgerData {
	return &ledgerData{
		bills:      make(map[int64]models.Bill),
		lineItems:  make(map[int64]models.LineItem),
		payments:   make(map[int64]models.Payment),
		attributes: make(map[int64]models.PaymentAttribute),
		billByCorr: make(map[string]int64),
	}
}

// clone copies the maps. Rows are plain values so a shallow copy of each map
// isolates a transaction from the committed version.
func (d *ledgerData) clone() *ledgerData {
	c := *d
	c.bills = maps.Clone(d.bills)
	c.lineItems = maps.Clone(d.lineItems)
	c.payments = maps.Clone(d.payments)
	c.attributes = maps.Clone(d.attributes)
	c.billByCorr = maps.Clone(d.billByCorr)
	return &c
}

type memTx struct {
	owner *Store
	data  *ledgerData
}

type txCtxKey struct{}

// Store is an in-memory ledger store. Units of work are serialized by a
// store-wide writer lock and run against a private copy of the data that
// replaces the committed version on success.
type Store struct {
	writer    sync.Mutex
	mu        sync.RWMutex
	committed *ledgerData
}

// New creates an empty Store.
func New() *Store {
	return &Store{committed: newLedgerData()}
}

var _ portsrepo.LedgerRepositoryWithTx = (*Store)(nil)

func (s *Store) txFrom(ctx context.Context) *memTx {
	tx, _ := ctx.Value(txCtxKey{}).(*memTx)
	if tx == nil || tx.owner != s {
		return nil
	}
	return tx
}

// WithTx implements portsrepo.UnitOfWork.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txFrom(ctx) != nil {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}

	s.writer.Lock()
	defer s.writer.Unlock()

	s.mu.RLock()
	tx := &memTx{owner: s, data: s.committed.clone()}
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txCtxKey{}, tx)); err != nil {
		return err
	}

	s.mu.Lock()
	s.committed = tx.data
	s.mu.Unlock()
	return nil
}

func (s *Store) read(ctx context.Context, fn func(d *ledgerData) error) error {
	if tx := s.txFrom(ctx); tx != nil {
		return fn(tx.data)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.committed)
}

// write runs fn in the caller's unit of work, or in its own one outside a transaction.
func (s *Store) write(ctx context.Context, fn func(d *ledgerData) error) error {
	if tx := s.txFrom(ctx); tx != nil {
		return fn(tx.data)
	}
	return s.WithTx(ctx, func(txCtx context.Context) error {
		return fn(s.txFrom(txCtx).data)
	})
}

// --- bills ---

func (s *Store) SaveBill(ctx context.Context, bill *domain.Bill) error {
	return s.write(ctx, func(d *ledgerData) error {
		if _, exists := d.billByCorr[bill.CorrelationID]; exists {
			return apperrors.NewAppError(409, "failed to insert bill", apperrors.ErrDuplicateCorrelationID)
		}
		d.nextBillID++
		m := mapping.ToModelBill(*bill)
		m.BillID = d.nextBillID
		m.Version = 0
		d.bills[m.BillID] = m
		d.billByCorr[m.CorrelationID] = m.BillID
		bill.BillID = m.BillID
		bill.Version = 0
		return nil
	})
}

func (s *Store) FindBillByID(ctx context.Context, billID int64) (*domain.Bill, error) {
	var bill *domain.Bill
	err := s.read(ctx, func(d *ledgerData) error {
		m, ok := d.bills[billID]
		if !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("bill %d not found", billID))
		}
		b := mapping.ToDomainBill(m)
		bill = &b
		return nil
	})
	return bill, err
}

func (s *Store) FindBillByCorrelationID(ctx context.Context, correlationID string) (*domain.Bill, error) {
	var billID int64
	err := s.read(ctx, func(d *ledgerData) error {
		id, ok := d.billByCorr[correlationID]
		if !ok {
			return apperrors.NewNotFoundError("bill " + correlationID + " not found")
		}
		billID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.FindBillByID(ctx, billID)
}

func (s *Store) ListBillsByPatient(ctx context.Context, patientID int64, includeVoided bool) ([]domain.Bill, error) {
	rows := []models.Bill{}
	err := s.read(ctx, func(d *ledgerData) error {
		for _, m := range d.bills {
			if m.PatientID != patientID || (m.Voided && !includeVoided) {
				continue
			}
			rows = append(rows, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].BillID > rows[j].BillID
	})
	return mapping.ToDomainBillSlice(rows), nil
}

// LockBill reads the bill inside the caller's unit of work. The writer lock
// already excludes every other unit of work.
func (s *Store) LockBill(ctx context.Context, billID int64) (*domain.Bill, error) {
	if s.txFrom(ctx) == nil {
		return nil, apperrors.NewAppError(500, "LockBill must run inside a transaction", nil)
	}
	return s.FindBillByID(ctx, billID)
}

func (s *Store) UpdateBillSettlement(ctx context.Context, bill domain.Bill) error {
	return s.write(ctx, func(d *ledgerData) error {
		m, ok := d.bills[bill.BillID]
		if !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("bill %d not found", bill.BillID))
		}
		if m.Version != bill.Version {
			return apperrors.NewConflictError(fmt.Sprintf("bill %d changed concurrently (version %d)", bill.BillID, bill.Version))
		}
		m.Status = string(bill.Status)
		if m.ReceiptNumber == nil && bill.ReceiptNumber != nil {
			receipt := *bill.ReceiptNumber
			m.ReceiptNumber = &receipt
		}
		m.Version++
		d.bills[m.BillID] = m
		return nil
	})
}

func (s *Store) VoidBill(ctx context.Context, billID int64, void domain.VoidInfo) error {
	return s.write(ctx, func(d *ledgerData) error {
		m, ok := d.bills[billID]
		if !ok || m.Voided {
			return apperrors.NewNotFoundError(fmt.Sprintf("active bill %d not found", billID))
		}
		m.VoidColumns = mapping.ToModelVoidColumns(domain.Voidable{Void: &void})
		d.bills[billID] = m
		return nil
	})
}

func (s *Store) SumBillTotals(ctx context.Context, billID int64) (domain.BillTotals, error) {
	totals := domain.BillTotals{Total: decimal.Zero, Paid: decimal.Zero}
	err := s.read(ctx, func(d *ledgerData) error {
		for _, li := range d.lineItems {
			if li.BillID == billID && !li.Voided {
				totals.Total = totals.Total.Add(li.Price.Mul(decimal.NewFromInt(int64(li.Quantity))))
			}
		}
		for _, p := range d.payments {
			if p.BillID == billID && !p.Voided {
				totals.Paid = totals.Paid.Add(p.Amount)
			}
		}
		return nil
	})
	return totals, err
}

// --- line items ---

func (s *Store) SaveLineItem(ctx context.Context, item *domain.LineItem) error {
	return s.write(ctx, func(d *ledgerData) error {
		if _, ok := d.bills[item.BillID]; !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("bill %d not found", item.BillID))
		}
		m := mapping.ToModelLineItem(*item)
		if (m.ServiceID == nil) == (m.ItemID == nil) {
			return apperrors.NewAppError(400, "failed to insert line item", fmt.Errorf("%w: %w", apperrors.ErrValidation, domain.ErrBillableMissing))
		}
		d.nextLineItemID++
		m.LineItemID = d.nextLineItemID
		d.lineItems[m.LineItemID] = m
		item.LineItemID = m.LineItemID
		return nil
	})
}

func (s *Store) FindLineItemByID(ctx context.Context, lineItemID int64) (*domain.LineItem, error) {
	var item *domain.LineItem
	err := s.read(ctx, func(d *ledgerData) error {
		m, ok := d.lineItems[lineItemID]
		if !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("line item %d not found", lineItemID))
		}
		li, err := mapping.ToDomainLineItem(m)
		if err != nil {
			return apperrors.NewAppError(500, "failed to map line item", err)
		}
		item = &li
		return nil
	})
	return item, err
}

func (s *Store) FindLineItemsByBillID(ctx context.Context, billID int64) ([]domain.LineItem, error) {
	rows := []models.LineItem{}
	err := s.read(ctx, func(d *ledgerData) error {
		for _, m := range d.lineItems {
			if m.BillID == billID {
				rows = append(rows, m)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].LineOrder != rows[j].LineOrder {
			return rows[i].LineOrder < rows[j].LineOrder
		}
		return rows[i].LineItemID < rows[j].LineItemID
	})
	items, err := mapping.ToDomainLineItemSlice(rows)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to map line items", err)
	}
	return items, nil
}

func (s *Store) UpdateLineItem(ctx context.Context, item domain.LineItem) error {
	return s.write(ctx, func(d *ledgerData) error {
		m, ok := d.lineItems[item.LineItemID]
		if !ok || m.Voided {
			return apperrors.NewNotFoundError(fmt.Sprintf("active line item %d not found", item.LineItemID))
		}
		m.Price = item.Price
		m.Quantity = item.Quantity
		m.ChangedAt = item.ChangedAt
		m.ChangedBy = item.ChangedBy
		d.lineItems[m.LineItemID] = m
		return nil
	})
}

func (s *Store) VoidLineItem(ctx context.Context, lineItemID int64, void domain.VoidInfo) error {
	return s.write(ctx, func(d *ledgerData) error {
		m, ok := d.lineItems[lineItemID]
		if !ok || m.Voided {
			return apperrors.NewNotFoundError(fmt.Sprintf("active line item %d not found", lineItemID))
		}
		m.VoidColumns = mapping.ToModelVoidColumns(domain.Voidable{Void: &void})
		d.lineItems[lineItemID] = m
		return nil
	})
}

func (s *Store) UpdateLineItemPaymentStatus(ctx context.Context, billID int64, status domain.LineItemPaymentStatus) error {
	return s.write(ctx, func(d *ledgerData) error {
		for id, m := range d.lineItems {
			if m.BillID == billID && !m.Voided {
				m.PaymentStatus = string(status)
				d.lineItems[id] = m
			}
		}
		return nil
	})
}

// --- payments ---

func (s *Store) SavePayment(ctx context.Context, payment *domain.Payment) error {
	return s.write(ctx, func(d *ledgerData) error {
		if _, ok := d.bills[payment.BillID]; !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("bill %d not found", payment.BillID))
		}
		d.nextPaymentID++
		m := mapping.ToModelPayment(*payment)
		m.PaymentID = d.nextPaymentID
		d.payments[m.PaymentID] = m
		payment.PaymentID = m.PaymentID

		for i := range payment.Attributes {
			d.nextAttributeID++
			attr := &payment.Attributes[i]
			attr.PaymentID = m.PaymentID
			attr.AttributeID = d.nextAttributeID
			d.attributes[attr.AttributeID] = mapping.ToModelPaymentAttribute(*attr)
		}
		return nil
	})
}

func (d *ledgerData) attributesOf(paymentID int64) []domain.PaymentAttribute {
	var attrs []domain.PaymentAttribute
	for _, m := range d.attributes {
		if m.PaymentID == paymentID {
			attrs = append(attrs, mapping.ToDomainPaymentAttribute(m))
		}
	}
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })
	return attrs
}

func (s *Store) FindPaymentByID(ctx context.Context, paymentID int64) (*domain.Payment, error) {
	var payment *domain.Payment
	err := s.read(ctx, func(d *ledgerData) error {
		m, ok := d.payments[paymentID]
		if !ok {
			return apperrors.NewNotFoundError(fmt.Sprintf("payment %d not found", paymentID))
		}
		p := mapping.ToDomainPayment(m)
		p.Attributes = d.attributesOf(paymentID)
		payment = &p
		return nil
	})
	return payment, err
}

func (s *Store) FindPaymentsByBillID(ctx context.Context, billID int64) ([]domain.Payment, error) {
	payments := []domain.Payment{}
	err := s.read(ctx, func(d *ledgerData) error {
		for _, m := range d.payments {
			if m.BillID != billID {
				continue
			}
			p := mapping.ToDomainPayment(m)
			p.Attributes = d.attributesOf(m.PaymentID)
			payments = append(payments, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].PaymentID < payments[j].PaymentID })
	return payments, nil
}

func (s *Store) VoidPayment(ctx context.Context, paymentID int64, void domain.VoidInfo) error {
	return s.write(ctx, func(d *ledgerData) error {
		m, ok := d.payments[paymentID]
		if !ok || m.Voided {
			return apperrors.NewNotFoundError(fmt.Sprintf("active payment %d not found", paymentID))
		}
		m.VoidColumns = mapping.ToModelVoidColumns(domain.Voidable{Void: &void})
		d.payments[paymentID] = m
		return nil
	})
}

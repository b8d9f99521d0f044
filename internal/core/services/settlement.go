package services

import (
	"context"
	"fmt"

	"github.com/p-karari/hms-sub002/internal/core/domain"
	portsrepo "github.com/p-karari/hms-sub002/internal/core/ports/repositories"
)

// settlementEngine rederives the cached bill status from the stored rows.
type settlementEngine struct {
	repo     portsrepo.LedgerRepositoryFacade
	receipts portsrepo.ReceiptNumberGenerator
}

// recompute must run inside the unit of work that mutated the bill, after
// LockBill. A receipt number is issued the first time the bill reaches PAID
// and is kept forever after, even if a later void drops the status again.
func (e *settlementEngine) recompute(ctx context.Context, locked *domain.Bill) (*domain.Bill, error) {
	totals, err := e.repo.SumBillTotals(ctx, locked.BillID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum bill %d: %w", locked.BillID, err)
	}

	updated := *locked
	updated.Status = totals.Status()
	if updated.Status == domain.BillPaid && !locked.HasReceipt() {
		receipt := e.receipts.NextReceiptNumber()
		updated.ReceiptNumber = &receipt
	}

	if err := e.repo.UpdateBillSettlement(ctx, updated); err != nil {
		return nil, err
	}
	updated.Version++

	hint := domain.LineItemPending
	if updated.Status == domain.BillPaid {
		hint = domain.LineItemPaid
	}
	if err := e.repo.UpdateLineItemPaymentStatus(ctx, locked.BillID, hint); err != nil {
		return nil, fmt.Errorf("failed to update line item payment status for bill %d: %w", locked.BillID, err)
	}
	return &updated, nil
}

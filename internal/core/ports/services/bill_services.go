package services

import (
	"context"

	"github.com/p-karari/hms-sub002/internal/core/domain"
	"github.com/p-karari/hms-sub002/internal/dto"
)

// BillReaderSvc defines read operations for bills.
type BillReaderSvc interface {
	// GetBill returns a bill with all line items and payments, voided rows included.
	GetBill(ctx context.Context, billID int64) (*domain.Bill, error)

	// GetBillByCorrelationID looks a bill up by its external correlation id.
	// It returns the same view as GetBill.
	GetBillByCorrelationID(ctx context.Context, correlationID string) (*domain.Bill, error)

	// ListBillsForPatient returns a patient's bills with their children.
	// Voided bills are left out unless params.IncludeVoided is set.
	ListBillsForPatient(ctx context.Context, patientHandle string, params dto.ListBillsParams) ([]domain.Bill, error)
}

// BillWriterSvc defines the bill lifecycle operations.
type BillWriterSvc interface {
	// CreateBill opens a bill with its initial line items in one unit of work.
	CreateBill(ctx context.Context, req dto.CreateBillRequest, actorHandle string) (int64, error)

	// AddLineItem attaches a line item to an open bill and recomputes its status.
	AddLineItem(ctx context.Context, billID int64, spec dto.LineItemSpec, actorHandle string) (int64, error)
}

// BillSvcFacade combines all bill-related service interfaces.
type BillSvcFacade interface {
	BillReaderSvc
	BillWriterSvc
}

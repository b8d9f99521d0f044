package services

import (
	"context"

	"github.com/p-karari/hms-sub002/internal/dto"
)

// LineItemAuditSvc defines corrections on individual line items.
type LineItemAuditSvc interface {
	UpdateLineItem(ctx context.Context, lineItemID int64, req dto.UpdateLineItemRequest, actorHandle string) error
	VoidLineItem(ctx context.Context, lineItemID int64, reason string, actorHandle string) error
}

// BillAuditSvc defines voiding of whole bills.
type BillAuditSvc interface {
	// VoidBill voids the bill header only; its children stay as history.
	VoidBill(ctx context.Context, billID int64, reason string, actorHandle string) error
}

// VoidSvcFacade combines the void/audit operations.
type VoidSvcFacade interface {
	LineItemAuditSvc
	BillAuditSvc
}

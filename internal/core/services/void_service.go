package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/p-karari/hms-sub002/internal/apperrors"
	"github.com/p-karari/hms-sub002/internal/core/domain"
	portsrepo "github.com/p-karari/hms-sub002/internal/core/ports/repositories"
	portssvc "github.com/p-karari/hms-sub002/internal/core/ports/services"
	"github.com/p-karari/hms-sub002/internal/dto"
)

var ErrNothingToUpdate = errors.New("price or quantity must be provided")

// voidService handles corrections: line item edits and soft voids.
type voidService struct {
	BaseService
}

// NewVoidService creates a new VoidService.
func NewVoidService(repo portsrepo.LedgerRepositoryWithTx, identity portsrepo.IdentityResolver, receipts portsrepo.ReceiptNumberGenerator, opts ...ServiceOption) portssvc.VoidSvcFacade {
	return &voidService{BaseService: newBaseService(repo, identity, receipts, opts...)}
}

var _ portssvc.VoidSvcFacade = (*voidService)(nil)

// activeLineItem loads a line item and rejects voided ones.
func (s *voidService) activeLineItem(ctx context.Context, lineItemID int64) (*domain.LineItem, error) {
	item, err := s.Repo.FindLineItemByID(ctx, lineItemID)
	if err != nil {
		return nil, err
	}
	if item.IsVoided() {
		return nil, fmt.Errorf("%w: line item %d: %w", apperrors.ErrNotFound, lineItemID, domain.ErrAlreadyVoided)
	}
	return item, nil
}

// UpdateLineItem implements portssvc.LineItemAuditSvc
func (s *voidService) UpdateLineItem(ctx context.Context, lineItemID int64, req dto.UpdateLineItemRequest, actorHandle string) error {
	logger := s.GetLogger(ctx)

	if req.Price == nil && req.Quantity == nil {
		return validationError(ErrNothingToUpdate)
	}
	actor, err := s.resolveActor(ctx, actorHandle)
	if err != nil {
		s.logFailure(ctx, err, "Failed to resolve acting user for UpdateLineItem")
		return err
	}

	var (
		patientID int64
		settled   *domain.Bill
	)
	err = s.runInTx(ctx, "UpdateLineItem", func(txCtx context.Context) error {
		item, err := s.activeLineItem(txCtx, lineItemID)
		if err != nil {
			return err
		}
		bill, err := s.lockActiveBill(txCtx, item.BillID)
		if err != nil {
			return err
		}
		// Re-read under the bill lock so concurrent edits of the same item serialize.
		item, err = s.activeLineItem(txCtx, lineItemID)
		if err != nil {
			return err
		}
		if req.Price != nil {
			item.Price = *req.Price
		}
		if req.Quantity != nil {
			item.Quantity = *req.Quantity
		}
		if err := item.Validate(); err != nil {
			return validationError(err)
		}
		item.Touch(actor.UserID, s.Now())
		if err := s.Repo.UpdateLineItem(txCtx, *item); err != nil {
			return err
		}
		settled, err = s.settlement.recompute(txCtx, bill)
		if err != nil {
			return err
		}
		patientID = bill.PatientID
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to update line item", slog.Int64("line_item_id", lineItemID))
		return err
	}

	s.invalidatePatient(ctx, patientID)
	logger.Info("Line item updated",
		slog.Int64("line_item_id", lineItemID),
		slog.Int64("bill_id", settled.BillID),
		slog.String("status", string(settled.Status)))
	return nil
}

// VoidLineItem implements portssvc.LineItemAuditSvc
func (s *voidService) VoidLineItem(ctx context.Context, lineItemID int64, reason string, actorHandle string) error {
	logger := s.GetLogger(ctx)

	actor, err := s.resolveActor(ctx, actorHandle)
	if err != nil {
		s.logFailure(ctx, err, "Failed to resolve acting user for VoidLineItem")
		return err
	}
	void := domain.Voidable{}
	if err := void.MarkVoided(actor.UserID, reason, s.Now()); err != nil {
		return validationError(err)
	}

	var (
		patientID int64
		settled   *domain.Bill
	)
	err = s.runInTx(ctx, "VoidLineItem", func(txCtx context.Context) error {
		item, err := s.activeLineItem(txCtx, lineItemID)
		if err != nil {
			return err
		}
		bill, err := s.Repo.LockBill(txCtx, item.BillID)
		if err != nil {
			return err
		}
		if err := s.Repo.VoidLineItem(txCtx, lineItemID, *void.Void); err != nil {
			return err
		}
		settled, err = s.settlement.recompute(txCtx, bill)
		if err != nil {
			return err
		}
		patientID = bill.PatientID
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to void line item", slog.Int64("line_item_id", lineItemID))
		return err
	}

	s.invalidatePatient(ctx, patientID)
	logger.Info("Line item voided",
		slog.Int64("line_item_id", lineItemID),
		slog.Int64("bill_id", settled.BillID),
		slog.String("status", string(settled.Status)))
	return nil
}

// VoidBill implements portssvc.BillAuditSvc
func (s *voidService) VoidBill(ctx context.Context, billID int64, reason string, actorHandle string) error {
	logger := s.GetLogger(ctx)

	actor, err := s.resolveActor(ctx, actorHandle)
	if err != nil {
		s.logFailure(ctx, err, "Failed to resolve acting user for VoidBill")
		return err
	}
	void := domain.Voidable{}
	if err := void.MarkVoided(actor.UserID, reason, s.Now()); err != nil {
		return validationError(err)
	}

	var patientID int64
	err = s.runInTx(ctx, "VoidBill", func(txCtx context.Context) error {
		bill, err := s.lockActiveBill(txCtx, billID)
		if err != nil {
			return err
		}
		if err := s.Repo.VoidBill(txCtx, billID, *void.Void); err != nil {
			return err
		}
		patientID = bill.PatientID
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to void bill", slog.Int64("bill_id", billID))
		return err
	}

	s.invalidatePatient(ctx, patientID)
	logger.Info("Bill voided", slog.Int64("bill_id", billID), slog.Int64("voided_by", actor.UserID))
	return nil
}

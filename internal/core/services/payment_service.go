package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/p-karari/hms-sub002/internal/apperrors"
	"github.com/p-karari/hms-sub002/internal/core/domain"
	portsrepo "github.com/p-karari/hms-sub002/internal/core/ports/repositories"
	portssvc "github.com/p-karari/hms-sub002/internal/core/ports/services"
	"github.com/p-karari/hms-sub002/internal/dto"
)

var (
	ErrPaymentModeRetired     = errors.New("payment mode is retired")
	ErrUnknownPaymentAttr     = errors.New("attribute is not defined for payment mode")
	ErrMissingPaymentAttr     = errors.New("required payment attribute is missing")
	ErrPaymentAlreadyReversed = errors.New("payment is already voided")
)

// paymentService records funds received against bills.
type paymentService struct {
	BaseService
	catalog portsrepo.CatalogProvider
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(repo portsrepo.LedgerRepositoryWithTx, identity portsrepo.IdentityResolver, catalog portsrepo.CatalogProvider, receipts portsrepo.ReceiptNumberGenerator, opts ...ServiceOption) portssvc.PaymentSvcFacade {
	return &paymentService{
		BaseService: newBaseService(repo, identity, receipts, opts...),
		catalog:     catalog,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// buildAttributes checks the supplied attributes against the mode's attribute
// types and returns them sorted by name.
func buildAttributes(mode *domain.PaymentMode, supplied map[string]string, createdAt domain.AuditFields) ([]domain.PaymentAttribute, error) {
	attrs := make([]domain.PaymentAttribute, 0, len(supplied))
	for name, value := range supplied {
		if _, ok := mode.AttributeType(name); !ok {
			return nil, fmt.Errorf("%w: %q on %s: %w", apperrors.ErrValidation, name, mode.Name, ErrUnknownPaymentAttr)
		}
		attrs = append(attrs, domain.PaymentAttribute{
			Name:        name,
			Value:       strings.TrimSpace(value),
			AuditFields: createdAt,
		})
	}
	for _, at := range mode.AttributeTypes {
		if !at.Required {
			continue
		}
		if strings.TrimSpace(supplied[at.Name]) == "" {
			return nil, fmt.Errorf("%w: %q on %s: %w", apperrors.ErrValidation, at.Name, mode.Name, ErrMissingPaymentAttr)
		}
	}
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })
	return attrs, nil
}

// ApplyPayment implements portssvc.PaymentSvcFacade
func (s *paymentService) ApplyPayment(ctx context.Context, billID int64, req dto.ApplyPaymentRequest, actorHandle string) (int64, error) {
	logger := s.GetLogger(ctx)

	actor, err := s.resolveActor(ctx, actorHandle)
	if err != nil {
		s.logFailure(ctx, err, "Failed to resolve acting user for ApplyPayment")
		return 0, err
	}

	audit := domain.AuditFields{CreatedAt: s.Now(), CreatedBy: actor.UserID}
	payment := domain.Payment{
		BillID:         billID,
		PaymentModeID:  req.PaymentModeID,
		Amount:         req.Amount,
		AmountTendered: req.Amount,
		AuditFields:    audit,
	}
	if req.AmountTendered != nil {
		payment.AmountTendered = *req.AmountTendered
	}
	if err := payment.Validate(); err != nil {
		s.logFailure(ctx, validationError(err), "Invalid payment", slog.Int64("bill_id", billID))
		return 0, validationError(err)
	}

	mode, err := s.catalog.FindPaymentMode(ctx, req.PaymentModeID)
	if err != nil {
		s.logFailure(ctx, err, "Failed to look up payment mode", slog.Int64("payment_mode_id", req.PaymentModeID))
		return 0, fmt.Errorf("failed to look up payment mode %d: %w", req.PaymentModeID, err)
	}
	if mode.Retired {
		return 0, fmt.Errorf("%w: payment mode %d: %w", apperrors.ErrNotFound, mode.ID, ErrPaymentModeRetired)
	}
	payment.Attributes, err = buildAttributes(mode, req.Attributes, audit)
	if err != nil {
		s.logFailure(ctx, err, "Invalid payment attributes", slog.Int64("bill_id", billID))
		return 0, err
	}

	var (
		paymentID int64
		patientID int64
		settled   *domain.Bill
	)
	err = s.runInTx(ctx, "ApplyPayment", func(txCtx context.Context) error {
		bill, err := s.lockActiveBill(txCtx, billID)
		if err != nil {
			return err
		}
		p := payment
		p.CorrelationID = uuid.NewString()
		p.Attributes = append([]domain.PaymentAttribute(nil), payment.Attributes...)
		if err := s.Repo.SavePayment(txCtx, &p); err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}
		settled, err = s.settlement.recompute(txCtx, bill)
		if err != nil {
			return err
		}
		paymentID = p.PaymentID
		patientID = bill.PatientID
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to apply payment", slog.Int64("bill_id", billID))
		return 0, err
	}

	s.invalidatePatient(ctx, patientID)
	attrs := []any{
		slog.Int64("bill_id", billID),
		slog.Int64("payment_id", paymentID),
		slog.String("amount", payment.Amount.String()),
		slog.String("status", string(settled.Status)),
	}
	if settled.HasReceipt() {
		attrs = append(attrs, slog.String("receipt_number", *settled.ReceiptNumber))
	}
	logger.Info("Payment applied", attrs...)
	return paymentID, nil
}

// VoidPayment implements portssvc.PaymentSvcFacade
func (s *paymentService) VoidPayment(ctx context.Context, paymentID int64, reason string, actorHandle string) error {
	logger := s.GetLogger(ctx)

	actor, err := s.resolveActor(ctx, actorHandle)
	if err != nil {
		s.logFailure(ctx, err, "Failed to resolve acting user for VoidPayment")
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
	err = s.runInTx(ctx, "VoidPayment", func(txCtx context.Context) error {
		payment, err := s.Repo.FindPaymentByID(txCtx, paymentID)
		if err != nil {
			return err
		}
		if payment.IsVoided() {
			return fmt.Errorf("%w: payment %d: %w", apperrors.ErrNotFound, paymentID, ErrPaymentAlreadyReversed)
		}
		bill, err := s.Repo.LockBill(txCtx, payment.BillID)
		if err != nil {
			return err
		}
		if err := s.Repo.VoidPayment(txCtx, paymentID, *void.Void); err != nil {
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
		s.logFailure(ctx, err, "Failed to void payment", slog.Int64("payment_id", paymentID))
		return err
	}

	s.invalidatePatient(ctx, patientID)
	logger.Info("Payment voided",
		slog.Int64("payment_id", paymentID),
		slog.Int64("bill_id", settled.BillID),
		slog.String("status", string(settled.Status)))
	return nil
}

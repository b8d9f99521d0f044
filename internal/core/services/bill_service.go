package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/p-karari/hms-sub002/internal/apperrors"
	"github.com/p-karari/hms-sub002/internal/core/domain"
	portsrepo "github.com/p-karari/hms-sub002/internal/core/ports/repositories"
	portssvc "github.com/p-karari/hms-sub002/internal/core/ports/services"
	"github.com/p-karari/hms-sub002/internal/dto"
)

var (
	ErrCashPointMissing     = errors.New("cash point is required")
	ErrCatalogRetired       = errors.New("catalog entry is retired")
	ErrCorrelationIDMissing = errors.New("correlation id is required")
)

// billService implements the bill lifecycle.
type billService struct {
	BaseService
	catalog portsrepo.CatalogProvider
}

// NewBillService creates a new BillService.
func NewBillService(repo portsrepo.LedgerRepositoryWithTx, identity portsrepo.IdentityResolver, catalog portsrepo.CatalogProvider, receipts portsrepo.ReceiptNumberGenerator, opts ...ServiceOption) portssvc.BillSvcFacade {
	return &billService{
		BaseService: newBaseService(repo, identity, receipts, opts...),
		catalog:     catalog,
	}
}

var _ portssvc.BillSvcFacade = (*billService)(nil)

// buildLineItem validates a line item request against the catalog. The
// catalog price applies unless the request overrides it.
func (s *billService) buildLineItem(ctx context.Context, spec dto.LineItemSpec, actorID int64) (domain.LineItem, error) {
	billable, err := domain.NewBillable(spec.Kind, spec.CatalogID)
	if err != nil {
		return domain.LineItem{}, validationError(err)
	}

	var entry *domain.CatalogEntry
	switch billable.Kind() {
	case domain.BillableService:
		entry, err = s.catalog.FindService(ctx, spec.CatalogID)
	case domain.BillableItem:
		entry, err = s.catalog.FindStockItem(ctx, spec.CatalogID)
	}
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("failed to look up %s %d: %w", strings.ToLower(string(spec.Kind)), spec.CatalogID, err)
	}
	if entry.Retired {
		return domain.LineItem{}, fmt.Errorf("%w: %s %d: %w", apperrors.ErrNotFound, strings.ToLower(string(spec.Kind)), spec.CatalogID, ErrCatalogRetired)
	}

	item := domain.LineItem{
		Billable:      billable,
		Price:         entry.Price,
		Quantity:      spec.Quantity,
		PriceName:     entry.DefaultPriceName,
		PaymentStatus: domain.LineItemPending,
		OrderID:       spec.OrderID,
		AuditFields:   domain.AuditFields{CreatedAt: s.Now(), CreatedBy: actorID},
	}
	if spec.Price != nil {
		item.Price = *spec.Price
	}
	if strings.TrimSpace(spec.PriceName) != "" {
		item.PriceName = strings.TrimSpace(spec.PriceName)
	}
	if err := item.Validate(); err != nil {
		return domain.LineItem{}, validationError(err)
	}
	return item, nil
}

// CreateBill implements portssvc.BillWriterSvc
func (s *billService) CreateBill(ctx context.Context, req dto.CreateBillRequest, actorHandle string) (int64, error) {
	logger := s.GetLogger(ctx)

	actor, err := s.resolveActor(ctx, actorHandle)
	if err != nil {
		s.logFailure(ctx, err, "Failed to resolve acting user for CreateBill")
		return 0, err
	}
	if req.CashPointID <= 0 {
		return 0, validationError(ErrCashPointMissing)
	}

	patient, err := s.Identity.ResolvePatient(ctx, req.PatientHandle)
	if err != nil {
		s.logFailure(ctx, err, "Failed to resolve patient for CreateBill", slog.String("patient_handle", req.PatientHandle))
		return 0, err
	}
	if patient.Retired {
		return 0, fmt.Errorf("%w: patient %q is retired", apperrors.ErrNotFound, req.PatientHandle)
	}

	items := make([]domain.LineItem, 0, len(req.LineItems))
	for i, spec := range req.LineItems {
		item, err := s.buildLineItem(ctx, spec, actor.UserID)
		if err != nil {
			s.logFailure(ctx, err, "Invalid line item in CreateBill", slog.Int("index", i))
			return 0, fmt.Errorf("line item %d: %w", i+1, err)
		}
		items = append(items, item)
	}

	var billID int64
	err = s.runInTx(ctx, "CreateBill", func(txCtx context.Context) error {
		bill := domain.Bill{
			CorrelationID: uuid.NewString(),
			PatientID:     patient.PatientID,
			ProviderID:    actor.ProviderID,
			CashPointID:   req.CashPointID,
			Status:        domain.BillPending,
			AuditFields:   domain.AuditFields{CreatedAt: s.Now(), CreatedBy: actor.UserID},
		}
		if err := s.Repo.SaveBill(txCtx, &bill); err != nil {
			return fmt.Errorf("failed to save bill: %w", err)
		}
		for i := range items {
			item := items[i]
			item.BillID = bill.BillID
			item.Order = i + 1
			if err := s.Repo.SaveLineItem(txCtx, &item); err != nil {
				return fmt.Errorf("failed to save line item %d: %w", i+1, err)
			}
		}
		billID = bill.BillID
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create bill", slog.Int64("patient_id", patient.PatientID))
		return 0, err
	}

	s.invalidatePatient(ctx, patient.PatientID)
	logger.Info("Bill created",
		slog.Int64("bill_id", billID),
		slog.Int64("patient_id", patient.PatientID),
		slog.Int("line_items", len(items)))
	return billID, nil
}

// AddLineItem implements portssvc.BillWriterSvc
func (s *billService) AddLineItem(ctx context.Context, billID int64, spec dto.LineItemSpec, actorHandle string) (int64, error) {
	logger := s.GetLogger(ctx)

	actor, err := s.resolveActor(ctx, actorHandle)
	if err != nil {
		s.logFailure(ctx, err, "Failed to resolve acting user for AddLineItem")
		return 0, err
	}
	item, err := s.buildLineItem(ctx, spec, actor.UserID)
	if err != nil {
		s.logFailure(ctx, err, "Invalid line item", slog.Int64("bill_id", billID))
		return 0, err
	}

	var (
		lineItemID int64
		patientID  int64
		settled    *domain.Bill
	)
	err = s.runInTx(ctx, "AddLineItem", func(txCtx context.Context) error {
		bill, err := s.lockActiveBill(txCtx, billID)
		if err != nil {
			return err
		}
		existing, err := s.Repo.FindLineItemsByBillID(txCtx, billID)
		if err != nil {
			return fmt.Errorf("failed to load line items of bill %d: %w", billID, err)
		}
		next := item
		next.BillID = billID
		next.Order = 1
		for _, li := range existing {
			if li.Order >= next.Order {
				next.Order = li.Order + 1
			}
		}
		if err := s.Repo.SaveLineItem(txCtx, &next); err != nil {
			return fmt.Errorf("failed to save line item: %w", err)
		}
		settled, err = s.settlement.recompute(txCtx, bill)
		if err != nil {
			return err
		}
		lineItemID = next.LineItemID
		patientID = bill.PatientID
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to add line item", slog.Int64("bill_id", billID))
		return 0, err
	}

	s.invalidatePatient(ctx, patientID)
	logger.Info("Line item added",
		slog.Int64("bill_id", billID),
		slog.Int64("line_item_id", lineItemID),
		slog.String("status", string(settled.Status)))
	return lineItemID, nil
}

// loadChildren attaches line items and payments to a bill header.
func (s *billService) loadChildren(ctx context.Context, bill *domain.Bill) error {
	items, err := s.Repo.FindLineItemsByBillID(ctx, bill.BillID)
	if err != nil {
		return fmt.Errorf("failed to load line items of bill %d: %w", bill.BillID, err)
	}
	payments, err := s.Repo.FindPaymentsByBillID(ctx, bill.BillID)
	if err != nil {
		return fmt.Errorf("failed to load payments of bill %d: %w", bill.BillID, err)
	}
	bill.LineItems = items
	bill.Payments = payments
	return nil
}

// GetBill implements portssvc.BillReaderSvc
func (s *billService) GetBill(ctx context.Context, billID int64) (*domain.Bill, error) {
	var bill *domain.Bill
	err := s.Repo.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		bill, err = s.Repo.FindBillByID(txCtx, billID)
		if err != nil {
			return err
		}
		return s.loadChildren(txCtx, bill)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to get bill", slog.Int64("bill_id", billID))
		return nil, err
	}
	return bill, nil
}

// GetBillByCorrelationID implements portssvc.BillReaderSvc
func (s *billService) GetBillByCorrelationID(ctx context.Context, correlationID string) (*domain.Bill, error) {
	correlationID = strings.TrimSpace(correlationID)
	if correlationID == "" {
		return nil, validationError(ErrCorrelationIDMissing)
	}

	var bill *domain.Bill
	err := s.Repo.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		bill, err = s.Repo.FindBillByCorrelationID(txCtx, correlationID)
		if err != nil {
			return err
		}
		return s.loadChildren(txCtx, bill)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to get bill by correlation id", slog.String("correlation_id", correlationID))
		return nil, err
	}
	return bill, nil
}

// ListBillsForPatient implements portssvc.BillReaderSvc
func (s *billService) ListBillsForPatient(ctx context.Context, patientHandle string, params dto.ListBillsParams) ([]domain.Bill, error) {
	logger := s.GetLogger(ctx)

	patient, err := s.Identity.ResolvePatient(ctx, patientHandle)
	if err != nil {
		s.logFailure(ctx, err, "Failed to resolve patient for ListBillsForPatient", slog.String("patient_handle", patientHandle))
		return nil, err
	}

	useCache := s.Cache != nil && !params.IncludeVoided
	var generation int64
	if useCache {
		generation, err = s.Cache.ListingGeneration(ctx, patient.PatientID)
		if err != nil {
			logger.Warn("Bill listing cache unavailable", slog.Int64("patient_id", patient.PatientID), slog.String("error", err.Error()))
			useCache = false
		}
	}
	if useCache {
		cached, ok, err := s.Cache.GetPatientBills(ctx, patient.PatientID)
		switch {
		case err != nil:
			logger.Warn("Bill listing cache read failed", slog.Int64("patient_id", patient.PatientID), slog.String("error", err.Error()))
		case ok:
			logger.Debug("Bill listing served from cache", slog.Int64("patient_id", patient.PatientID))
			return cached, nil
		}
	}

	var bills []domain.Bill
	err = s.Repo.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		bills, err = s.Repo.ListBillsByPatient(txCtx, patient.PatientID, params.IncludeVoided)
		if err != nil {
			return err
		}
		for i := range bills {
			if err := s.loadChildren(txCtx, &bills[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list bills", slog.Int64("patient_id", patient.PatientID))
		return nil, err
	}
	if bills == nil {
		bills = []domain.Bill{}
	}

	if useCache {
		err := s.Cache.SetPatientBills(ctx, patient.PatientID, generation, bills)
		switch {
		case errors.Is(err, portsrepo.ErrListingChanged):
			logger.Debug("Bill listing changed while loading, not cached", slog.Int64("patient_id", patient.PatientID))
		case err != nil:
			logger.Warn("Bill listing cache write failed", slog.Int64("patient_id", patient.PatientID), slog.String("error", err.Error()))
		}
	}
	return bills, nil
}

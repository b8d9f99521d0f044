package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/p-karari/hms-sub002/internal/apperrors"
	"github.com/p-karari/hms-sub002/internal/core/domain"
	portssvc "github.com/p-karari/hms-sub002/internal/core/ports/services"
	"github.com/p-karari/hms-sub002/internal/core/services"
	"github.com/p-karari/hms-sub002/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const cashierHandle = "cashier.one"

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type PaymentServiceTestSuite struct {
	suite.Suite
	repo     *MockLedgerRepository
	identity *MockIdentityResolver
	catalog  *MockCatalogProvider
	receipts *sequentialReceipts
	service  portssvc.PaymentSvcFacade
	ctx      context.Context
	cashier  *domain.UserRef
	cash     *domain.PaymentMode
	mobile   *domain.PaymentMode
}

func (s *PaymentServiceTestSuite) SetupTest() {
	s.repo = new(MockLedgerRepository)
	s.identity = new(MockIdentityResolver)
	s.catalog = new(MockCatalogProvider)
	s.receipts = &sequentialReceipts{}
	s.ctx = context.Background()
	s.service = services.NewPaymentService(s.repo, s.identity, s.catalog, s.receipts,
		services.WithMaxAttempts(3),
		services.WithClock(func() time.Time { return fixedNow }))

	s.cashier = &domain.UserRef{UserID: 10, Handle: cashierHandle}
	s.cash = &domain.PaymentMode{ID: 1, Name: "Cash"}
	s.mobile = &domain.PaymentMode{ID: 2, Name: "Mobile money", AttributeTypes: []domain.PaymentModeAttributeType{
		{Name: "reference", Required: true},
		{Name: "phone"},
	}}
	s.identity.On("ResolveUser", mock.Anything, cashierHandle).Return(s.cashier, nil).Maybe()
	s.catalog.On("FindPaymentMode", mock.Anything, int64(1)).Return(s.cash, nil).Maybe()
	s.catalog.On("FindPaymentMode", mock.Anything, int64(2)).Return(s.mobile, nil).Maybe()
}

func (s *PaymentServiceTestSuite) activeBill(receipt *string) *domain.Bill {
	return &domain.Bill{BillID: 7, PatientID: 3, CashPointID: 1, Status: domain.BillPartiallyPaid, ReceiptNumber: receipt, Version: 4}
}

func (s *PaymentServiceTestSuite) expectSave(paymentID int64) {
	s.repo.On("SavePayment", mock.Anything, mock.AnythingOfType("*domain.Payment")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Payment).PaymentID = paymentID
		}).Return(nil)
}

func totals(total, paid int64) domain.BillTotals {
	return domain.BillTotals{Total: decimal.NewFromInt(total), Paid: decimal.NewFromInt(paid)}
}

func (s *PaymentServiceTestSuite) TestApplyPayment_SettlesBillAndIssuesReceipt() {
	s.repo.On("WithTx", mock.Anything).Return()
	s.repo.On("LockBill", mock.Anything, int64(7)).Return(s.activeBill(nil), nil).Once()
	s.expectSave(21)
	s.repo.On("SumBillTotals", mock.Anything, int64(7)).Return(totals(200, 200), nil).Once()
	s.repo.On("UpdateBillSettlement", mock.Anything, mock.MatchedBy(func(b domain.Bill) bool {
		return b.Status == domain.BillPaid && b.Version == 4 && b.ReceiptNumber != nil && *b.ReceiptNumber == "RCPT-TEST-1"
	})).Return(nil).Once()
	s.repo.On("UpdateLineItemPaymentStatus", mock.Anything, int64(7), domain.LineItemPaid).Return(nil).Once()

	id, err := s.service.ApplyPayment(s.ctx, 7, dto.ApplyPaymentRequest{
		PaymentModeID: 1,
		Amount:        decimal.NewFromInt(80),
	}, cashierHandle)

	s.Require().NoError(err)
	s.Equal(int64(21), id)
	s.Equal(int64(1), s.receipts.issued())
	s.repo.AssertCalled(s.T(), "SavePayment", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
		return p.AmountTendered.Equal(decimal.NewFromInt(80)) && p.CorrelationID != "" && p.CreatedBy == 10 && p.CreatedAt.Equal(fixedNow)
	}))
	s.repo.AssertExpectations(s.T())
}

func (s *PaymentServiceTestSuite) TestApplyPayment_ReplaysUnitOfWorkOnConflict() {
	s.repo.On("WithTx", mock.Anything).Return()
	s.repo.On("LockBill", mock.Anything, int64(7)).Return(s.activeBill(nil), nil)
	s.expectSave(21)
	s.repo.On("SumBillTotals", mock.Anything, int64(7)).Return(totals(200, 120), nil)
	s.repo.On("UpdateBillSettlement", mock.Anything, mock.Anything).
		Return(apperrors.NewConflictError("bill 7 changed concurrently")).Once()
	s.repo.On("UpdateBillSettlement", mock.Anything, mock.Anything).Return(nil).Once()
	s.repo.On("UpdateLineItemPaymentStatus", mock.Anything, int64(7), domain.LineItemPending).Return(nil).Once()

	id, err := s.service.ApplyPayment(s.ctx, 7, dto.ApplyPaymentRequest{PaymentModeID: 1, Amount: decimal.NewFromInt(40)}, cashierHandle)

	s.Require().NoError(err)
	s.Equal(int64(21), id)
	s.repo.AssertNumberOfCalls(s.T(), "WithTx", 2)
	s.repo.AssertNumberOfCalls(s.T(), "LockBill", 2)
	s.repo.AssertNumberOfCalls(s.T(), "SavePayment", 2)
	s.repo.AssertExpectations(s.T())
}

func (s *PaymentServiceTestSuite) TestApplyPayment_GivesUpAfterMaxAttempts() {
	s.repo.On("WithTx", mock.Anything).Return()
	s.repo.On("LockBill", mock.Anything, int64(7)).Return(s.activeBill(nil), nil)
	s.expectSave(21)
	s.repo.On("SumBillTotals", mock.Anything, int64(7)).Return(totals(200, 120), nil)
	s.repo.On("UpdateBillSettlement", mock.Anything, mock.Anything).
		Return(apperrors.NewConflictError("bill 7 changed concurrently"))

	_, err := s.service.ApplyPayment(s.ctx, 7, dto.ApplyPaymentRequest{PaymentModeID: 1, Amount: decimal.NewFromInt(40)}, cashierHandle)

	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.Equal("ConflictError", apperrors.Kind(err))
	s.repo.AssertNumberOfCalls(s.T(), "WithTx", 3)
	s.repo.AssertNotCalled(s.T(), "UpdateLineItemPaymentStatus", mock.Anything, mock.Anything, mock.Anything)
}

func (s *PaymentServiceTestSuite) TestApplyPayment_StoreErrorIsNotRetried() {
	s.repo.On("WithTx", mock.Anything).Return()
	s.repo.On("LockBill", mock.Anything, int64(7)).
		Return(nil, apperrors.NewAppError(500, "failed to lock bill", errors.New("connection reset"))).Once()

	_, err := s.service.ApplyPayment(s.ctx, 7, dto.ApplyPaymentRequest{PaymentModeID: 1, Amount: decimal.NewFromInt(40)}, cashierHandle)

	s.ErrorIs(err, apperrors.ErrStore)
	s.repo.AssertNumberOfCalls(s.T(), "WithTx", 1)
	s.repo.AssertNotCalled(s.T(), "SavePayment", mock.Anything, mock.Anything)
}

func (s *PaymentServiceTestSuite) TestApplyPayment_RejectedBeforeAnyWrite() {
	tendered := decimal.NewFromInt(50)
	tests := []struct {
		name    string
		req     dto.ApplyPaymentRequest
		wantErr error
	}{
		{
			name:    "zero amount",
			req:     dto.ApplyPaymentRequest{PaymentModeID: 1, Amount: decimal.Zero},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "tendered below amount",
			req:     dto.ApplyPaymentRequest{PaymentModeID: 1, Amount: decimal.NewFromInt(80), AmountTendered: &tendered},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "missing required attribute",
			req:     dto.ApplyPaymentRequest{PaymentModeID: 2, Amount: decimal.NewFromInt(80), Attributes: map[string]string{"phone": "0700000000"}},
			wantErr: services.ErrMissingPaymentAttr,
		},
		{
			name:    "attribute not defined for mode",
			req:     dto.ApplyPaymentRequest{PaymentModeID: 1, Amount: decimal.NewFromInt(80), Attributes: map[string]string{"reference": "X1"}},
			wantErr: services.ErrUnknownPaymentAttr,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.ApplyPayment(s.ctx, 7, tt.req, cashierHandle)
			s.ErrorIs(err, tt.wantErr)
			s.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	s.repo.AssertNotCalled(s.T(), "WithTx", mock.Anything)
}

func (s *PaymentServiceTestSuite) TestApplyPayment_StoresModeAttributes() {
	s.repo.On("WithTx", mock.Anything).Return()
	s.repo.On("LockBill", mock.Anything, int64(7)).Return(s.activeBill(nil), nil)
	s.expectSave(22)
	s.repo.On("SumBillTotals", mock.Anything, int64(7)).Return(totals(200, 80), nil)
	s.repo.On("UpdateBillSettlement", mock.Anything, mock.Anything).Return(nil)
	s.repo.On("UpdateLineItemPaymentStatus", mock.Anything, int64(7), domain.LineItemPending).Return(nil)

	_, err := s.service.ApplyPayment(s.ctx, 7, dto.ApplyPaymentRequest{
		PaymentModeID: 2,
		Amount:        decimal.NewFromInt(80),
		Attributes:    map[string]string{"reference": " QX12 ", "phone": "0700000000"},
	}, cashierHandle)

	s.Require().NoError(err)
	s.repo.AssertCalled(s.T(), "SavePayment", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
		return len(p.Attributes) == 2 &&
			p.Attributes[0].Name == "phone" &&
			p.Attributes[1].Name == "reference" && p.Attributes[1].Value == "QX12"
	}))
}

func (s *PaymentServiceTestSuite) TestApplyPayment_RetiredModeIsNotFound() {
	s.catalog.On("FindPaymentMode", mock.Anything, int64(9)).
		Return(&domain.PaymentMode{ID: 9, Name: "Cheque", Retired: true}, nil)

	_, err := s.service.ApplyPayment(s.ctx, 7, dto.ApplyPaymentRequest{PaymentModeID: 9, Amount: decimal.NewFromInt(10)}, cashierHandle)

	s.ErrorIs(err, apperrors.ErrNotFound)
	s.ErrorIs(err, services.ErrPaymentModeRetired)
	s.repo.AssertNotCalled(s.T(), "WithTx", mock.Anything)
}

func (s *PaymentServiceTestSuite) TestApplyPayment_VoidedBillIsNotFound() {
	bill := s.activeBill(nil)
	bill.Void = &domain.VoidInfo{VoidedBy: 10, VoidReason: "opened in error"}
	s.repo.On("WithTx", mock.Anything).Return()
	s.repo.On("LockBill", mock.Anything, int64(7)).Return(bill, nil)

	_, err := s.service.ApplyPayment(s.ctx, 7, dto.ApplyPaymentRequest{PaymentModeID: 1, Amount: decimal.NewFromInt(10)}, cashierHandle)

	s.ErrorIs(err, apperrors.ErrNotFound)
	s.repo.AssertNotCalled(s.T(), "SavePayment", mock.Anything, mock.Anything)
}

func (s *PaymentServiceTestSuite) TestApplyPayment_UnknownActorIsUnauthorized() {
	s.identity.On("ResolveUser", mock.Anything, "ghost").Return(nil, apperrors.NewNotFoundError("user ghost not found"))

	_, err := s.service.ApplyPayment(s.ctx, 7, dto.ApplyPaymentRequest{PaymentModeID: 1, Amount: decimal.NewFromInt(10)}, "ghost")
	s.ErrorIs(err, apperrors.ErrUnauthorized)

	_, err = s.service.ApplyPayment(s.ctx, 7, dto.ApplyPaymentRequest{PaymentModeID: 1, Amount: decimal.NewFromInt(10)}, "")
	s.ErrorIs(err, apperrors.ErrUnauthorized)
	s.repo.AssertNotCalled(s.T(), "WithTx", mock.Anything)
}

func (s *PaymentServiceTestSuite) TestVoidPayment_KeepsIssuedReceipt() {
	receipt := "RCPT-OLD-1"
	bill := s.activeBill(&receipt)
	bill.Status = domain.BillPaid
	s.repo.On("WithTx", mock.Anything).Return()
	s.repo.On("FindPaymentByID", mock.Anything, int64(21)).
		Return(&domain.Payment{PaymentID: 21, BillID: 7, Amount: decimal.NewFromInt(80)}, nil)
	s.repo.On("LockBill", mock.Anything, int64(7)).Return(bill, nil)
	s.repo.On("VoidPayment", mock.Anything, int64(21), mock.MatchedBy(func(v domain.VoidInfo) bool {
		return v.VoidedBy == 10 && v.VoidReason == "wrong bill" && v.DateVoided.Equal(fixedNow)
	})).Return(nil)
	s.repo.On("SumBillTotals", mock.Anything, int64(7)).Return(totals(200, 120), nil)
	s.repo.On("UpdateBillSettlement", mock.Anything, mock.MatchedBy(func(b domain.Bill) bool {
		return b.Status == domain.BillPartiallyPaid && b.ReceiptNumber != nil && *b.ReceiptNumber == receipt
	})).Return(nil)
	s.repo.On("UpdateLineItemPaymentStatus", mock.Anything, int64(7), domain.LineItemPending).Return(nil)

	err := s.service.VoidPayment(s.ctx, 21, "  wrong bill ", cashierHandle)

	s.Require().NoError(err)
	s.Zero(s.receipts.issued())
	s.repo.AssertExpectations(s.T())
}

func (s *PaymentServiceTestSuite) TestVoidPayment_AlreadyVoidedIsNotFound() {
	s.repo.On("WithTx", mock.Anything).Return()
	s.repo.On("FindPaymentByID", mock.Anything, int64(21)).Return(&domain.Payment{
		PaymentID: 21,
		BillID:    7,
		Voidable:  domain.Voidable{Void: &domain.VoidInfo{VoidedBy: 10, VoidReason: "duplicate"}},
	}, nil)

	err := s.service.VoidPayment(s.ctx, 21, "again", cashierHandle)

	s.ErrorIs(err, apperrors.ErrNotFound)
	s.ErrorIs(err, services.ErrPaymentAlreadyReversed)
	s.repo.AssertNotCalled(s.T(), "LockBill", mock.Anything, mock.Anything)
}

func (s *PaymentServiceTestSuite) TestVoidPayment_RequiresReason() {
	err := s.service.VoidPayment(s.ctx, 21, "   ", cashierHandle)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.ErrorIs(err, domain.ErrVoidReasonMissing)
	s.repo.AssertNotCalled(s.T(), "WithTx", mock.Anything)
}

func TestPaymentService(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}

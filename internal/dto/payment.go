package dto

import (
	"time"

	"github.com/p-karari/hms-sub002/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ApplyPaymentRequest records funds received against a bill.
type ApplyPaymentRequest struct {
	PaymentModeID int64           `json:"paymentModeID" binding:"required,gt=0"`
	Amount        decimal.Decimal `json:"amount" binding:"required,decimal_gt0"`
	// AmountTendered defaults to Amount when omitted.
	AmountTendered *decimal.Decimal  `json:"amountTendered,omitempty" binding:"omitempty,decimal_gt0"`
	Attributes     map[string]string `json:"attributes,omitempty"`
}

// PaymentAttributeResponse defines the data returned for a payment attribute.
type PaymentAttributeResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID      int64                      `json:"paymentID"`
	PaymentModeID  int64                      `json:"paymentModeID"`
	Amount         decimal.Decimal            `json:"amount"`
	AmountTendered decimal.Decimal            `json:"amountTendered"`
	Change         decimal.Decimal            `json:"change"`
	CorrelationID  string                     `json:"correlationID"`
	Attributes     []PaymentAttributeResponse `json:"attributes"`
	CreatedBy      int64                      `json:"creator"`
	CreatedAt      time.Time                  `json:"dateCreated"`
	Voided         bool                       `json:"voided"`
	Void           *VoidResponse              `json:"void,omitempty"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse DTO.
func ToPaymentResponse(p domain.Payment) PaymentResponse {
	attrs := make([]PaymentAttributeResponse, len(p.Attributes))
	for i, a := range p.Attributes {
		attrs[i] = PaymentAttributeResponse{Name: a.Name, Value: a.Value}
	}
	return PaymentResponse{
		PaymentID:      p.PaymentID,
		PaymentModeID:  p.PaymentModeID,
		Amount:         p.Amount,
		AmountTendered: p.AmountTendered,
		Change:         p.Change(),
		CorrelationID:  p.CorrelationID,
		Attributes:     attrs,
		CreatedBy:      p.CreatedBy,
		CreatedAt:      p.CreatedAt,
		Voided:         p.IsVoided(),
		Void:           toVoidResponse(p.Voidable),
	}
}

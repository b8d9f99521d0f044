package dto

import (
	"time"

	"github.com/p-karari/hms-sub002/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LineItemSpec describes one line item to attach to a bill.
type LineItemSpec struct {
	Kind      domain.BillableKind `json:"kind" binding:"required,oneof=SERVICE ITEM"`
	CatalogID int64               `json:"catalogID" binding:"required,gt=0"`
	// Price overrides the catalog price when set.
	Price     *decimal.Decimal `json:"price,omitempty" binding:"omitempty,decimal_gte0"`
	Quantity  int              `json:"quantity" binding:"required,gt=0"`
	PriceName string           `json:"priceName,omitempty" binding:"max=255"`
	OrderID   *int64           `json:"orderID,omitempty" binding:"omitempty,gt=0"`
}

// CreateBillRequest opens a bill, optionally with an initial batch of items.
type CreateBillRequest struct {
	PatientHandle string         `json:"patientHandle" binding:"required"`
	CashPointID   int64          `json:"cashPointID" binding:"required,gt=0"`
	LineItems     []LineItemSpec `json:"lineItems" binding:"dive"`
}

// UpdateLineItemRequest changes price and/or quantity of an active line item.
type UpdateLineItemRequest struct {
	Price    *decimal.Decimal `json:"price,omitempty" binding:"omitempty,decimal_gte0"`
	Quantity *int             `json:"quantity,omitempty" binding:"omitempty,gt=0"`
}

// VoidRequest carries the mandatory reason for any void.
type VoidRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

// ListBillsParams holds parameters for listing a patient's bills.
type ListBillsParams struct {
	IncludeVoided bool `form:"includeVoided"`
}

// FindBillParams holds the external reference a bill is looked up by.
type FindBillParams struct {
	CorrelationID string `form:"correlationId" binding:"required,max=64"`
}

// CreatedResponse returns the id of a newly created row.
type CreatedResponse struct {
	ID int64 `json:"id"`
}

// VoidResponse describes the audit trail of a voided row.
type VoidResponse struct {
	VoidedBy   int64     `json:"voidedBy"`
	DateVoided time.Time `json:"dateVoided"`
	VoidReason string    `json:"voidReason"`
}

// LineItemResponse defines the data returned for a line item.
type LineItemResponse struct {
	LineItemID    int64           `json:"lineItemID"`
	Kind          string          `json:"kind"`
	ServiceID     *int64          `json:"serviceID,omitempty"`
	ItemID        *int64          `json:"itemID,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	LineTotal     decimal.Decimal `json:"lineTotal"`
	PriceName     string          `json:"priceName"`
	Order         int             `json:"order"`
	PaymentStatus string          `json:"paymentStatus"`
	OrderID       *int64          `json:"orderID,omitempty"`
	CreatedBy     int64           `json:"creator"`
	CreatedAt     time.Time       `json:"dateCreated"`
	Voided        bool            `json:"voided"`
	Void          *VoidResponse   `json:"void,omitempty"`
}

// BillResponse defines the data returned for a bill with its children.
type BillResponse struct {
	BillID        int64              `json:"billID"`
	CorrelationID string             `json:"correlationID"`
	PatientID     int64              `json:"patientID"`
	ProviderID    *int64             `json:"providerID,omitempty"`
	CashPointID   int64              `json:"cashPointID"`
	Status        string             `json:"status"`
	ReceiptNumber *string            `json:"receiptNumber,omitempty"`
	Total         decimal.Decimal    `json:"total"`
	Paid          decimal.Decimal    `json:"paid"`
	Balance       decimal.Decimal    `json:"balance"`
	CreatedBy     int64              `json:"creator"`
	CreatedAt     time.Time          `json:"dateCreated"`
	Voided        bool               `json:"voided"`
	Void          *VoidResponse      `json:"void,omitempty"`
	LineItems     []LineItemResponse `json:"lineItems"`
	Payments      []PaymentResponse  `json:"payments"`
}

// ListBillsResponse wraps a patient's bills.
type ListBillsResponse struct {
	Bills []BillResponse `json:"bills"`
}

func toVoidResponse(v domain.Voidable) *VoidResponse {
	if v.Void == nil {
		return nil
	}
	return &VoidResponse{VoidedBy: v.Void.VoidedBy, DateVoided: v.Void.DateVoided, VoidReason: v.Void.VoidReason}
}

// ToLineItemResponse converts a domain.LineItem to LineItemResponse DTO.
func ToLineItemResponse(li domain.LineItem) LineItemResponse {
	resp := LineItemResponse{
		LineItemID:    li.LineItemID,
		Price:         li.Price,
		Quantity:      li.Quantity,
		LineTotal:     li.LineTotal(),
		PriceName:     li.PriceName,
		Order:         li.Order,
		PaymentStatus: string(li.PaymentStatus),
		OrderID:       li.OrderID,
		CreatedBy:     li.CreatedBy,
		CreatedAt:     li.CreatedAt,
		Voided:        li.IsVoided(),
		Void:          toVoidResponse(li.Voidable),
	}
	if li.Billable != nil {
		resp.Kind = string(li.Billable.Kind())
		resp.ServiceID, resp.ItemID = domain.BillableColumns(li.Billable)
	}
	return resp
}

// ToBillResponse converts a domain.Bill with loaded children to BillResponse DTO.
func ToBillResponse(b domain.Bill) BillResponse {
	totals := b.Totals()
	resp := BillResponse{
		BillID:        b.BillID,
		CorrelationID: b.CorrelationID,
		PatientID:     b.PatientID,
		ProviderID:    b.ProviderID,
		CashPointID:   b.CashPointID,
		Status:        string(b.Status),
		ReceiptNumber: b.ReceiptNumber,
		Total:         totals.Total,
		Paid:          totals.Paid,
		Balance:       totals.Balance(),
		CreatedBy:     b.CreatedBy,
		CreatedAt:     b.CreatedAt,
		Voided:        b.IsVoided(),
		Void:          toVoidResponse(b.Voidable),
		LineItems:     make([]LineItemResponse, len(b.LineItems)),
		Payments:      make([]PaymentResponse, len(b.Payments)),
	}
	for i, li := range b.LineItems {
		resp.LineItems[i] = ToLineItemResponse(li)
	}
	for i, p := range b.Payments {
		resp.Payments[i] = ToPaymentResponse(p)
	}
	return resp
}

// ToBillResponses converts a slice of domain.Bill to []BillResponse.
func ToBillResponses(bills []domain.Bill) []BillResponse {
	responses := make([]BillResponse, len(bills))
	for i, b := range bills {
		responses[i] = ToBillResponse(b)
	}
	return responses
}

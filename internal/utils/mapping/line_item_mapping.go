package mapping

import (
	"fmt"

	"github.com/p-karari/hms-sub002/internal/core/domain"
	"github.com/p-karari/hms-sub002/internal/models"
)

// ToModelLineItem converts a domain LineItem to a model LineItem
func ToModelLineItem(d domain.LineItem) models.LineItem {
	serviceID, itemID := domain.BillableColumns(d.Billable)
	return models.LineItem{
		LineItemID:    d.LineItemID,
		BillID:        d.BillID,
		ServiceID:     serviceID,
		ItemID:        itemID,
		Price:         d.Price,
		Quantity:      d.Quantity,
		PriceName:     d.PriceName,
		LineOrder:     d.Order,
		PaymentStatus: string(d.PaymentStatus),
		OrderID:       d.OrderID,
		AuditFields:   ToModelAuditFields(d.AuditFields),
		VoidColumns:   ToModelVoidColumns(d.Voidable),
	}
}

// ToDomainLineItem converts a model LineItem to a domain LineItem. It fails
// when the row does not reference exactly one billable.
func ToDomainLineItem(m models.LineItem) (domain.LineItem, error) {
	billable, err := domain.BillableFromColumns(m.ServiceID, m.ItemID)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("line item %d: %w", m.LineItemID, err)
	}
	return domain.LineItem{
		LineItemID:    m.LineItemID,
		BillID:        m.BillID,
		Billable:      billable,
		Price:         m.Price,
		Quantity:      m.Quantity,
		PriceName:     m.PriceName,
		Order:         m.LineOrder,
		PaymentStatus: domain.LineItemPaymentStatus(m.PaymentStatus),
		OrderID:       m.OrderID,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
		Voidable:      ToDomainVoidable(m.VoidColumns),
	}, nil
}

// ToDomainLineItemSlice converts a slice of model LineItems to a slice of domain LineItems
func ToDomainLineItemSlice(ms []models.LineItem) ([]domain.LineItem, error) {
	ds := make([]domain.LineItem, len(ms))
	for i, m := range ms {
		d, err := ToDomainLineItem(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}

package mapping

import (
	"github.com/p-karari/hms-sub002/internal/core/domain"
	"github.com/p-karari/hms-sub002/internal/models"
)

// ToModelPayment converts a domain Payment to a model Payment. Attributes are mapped separately.
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:      d.PaymentID,
		BillID:         d.BillID,
		PaymentModeID:  d.PaymentModeID,
		Amount:         d.Amount,
		AmountTendered: d.AmountTendered,
		CorrelationID:  d.CorrelationID,
		AuditFields:    ToModelAuditFields(d.AuditFields),
		VoidColumns:    ToModelVoidColumns(d.Voidable),
	}
}

// ToDomainPayment converts a model Payment to a domain Payment without attributes
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:      m.PaymentID,
		BillID:         m.BillID,
		PaymentModeID:  m.PaymentModeID,
		Amount:         m.Amount,
		AmountTendered: m.AmountTendered,
		CorrelationID:  m.CorrelationID,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
		Voidable:       ToDomainVoidable(m.VoidColumns),
	}
}

// ToModelPaymentAttribute converts a domain PaymentAttribute to a model PaymentAttribute
func ToModelPaymentAttribute(d domain.PaymentAttribute) models.PaymentAttribute {
	return models.PaymentAttribute{
		AttributeID: d.AttributeID,
		PaymentID:   d.PaymentID,
		Name:        d.Name,
		Value:       d.Value,
		AuditFields: ToModelAuditFields(d.AuditFields),
		VoidColumns: ToModelVoidColumns(d.Voidable),
	}
}

// ToDomainPaymentAttribute converts a model PaymentAttribute to a domain PaymentAttribute
func ToDomainPaymentAttribute(m models.PaymentAttribute) domain.PaymentAttribute {
	return domain.PaymentAttribute{
		AttributeID: m.AttributeID,
		PaymentID:   m.PaymentID,
		Name:        m.Name,
		Value:       m.Value,
		AuditFields: ToDomainAuditFields(m.AuditFields),
		Voidable:    ToDomainVoidable(m.VoidColumns),
	}
}

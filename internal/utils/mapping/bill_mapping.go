package mapping

import (
	"github.com/p-karari/hms-sub002/internal/core/domain"
	"github.com/p-karari/hms-sub002/internal/models"
)

// ToModelBill converts a domain Bill header to a model Bill
func ToModelBill(d domain.Bill) models.Bill {
	return models.Bill{
		BillID:        d.BillID,
		CorrelationID: d.CorrelationID,
		PatientID:     d.PatientID,
		ProviderID:    d.ProviderID,
		CashPointID:   d.CashPointID,
		Status:        string(d.Status),
		ReceiptNumber: d.ReceiptNumber,
		Version:       d.Version,
		AuditFields:   ToModelAuditFields(d.AuditFields),
		VoidColumns:   ToModelVoidColumns(d.Voidable),
	}
}

// ToDomainBill converts a model Bill to a domain Bill header without children
func ToDomainBill(m models.Bill) domain.Bill {
	return domain.Bill{
		BillID:        m.BillID,
		CorrelationID: m.CorrelationID,
		PatientID:     m.PatientID,
		ProviderID:    m.ProviderID,
		CashPointID:   m.CashPointID,
		Status:        domain.BillStatus(m.Status),
		ReceiptNumber: m.ReceiptNumber,
		Version:       m.Version,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
		Voidable:      ToDomainVoidable(m.VoidColumns),
	}
}

// ToDomainBillSlice converts a slice of model Bills to a slice of domain Bills
func ToDomainBillSlice(ms []models.Bill) []domain.Bill {
	ds := make([]domain.Bill, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBill(m)
	}
	return ds
}

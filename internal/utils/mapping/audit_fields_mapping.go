package mapping

import (
	"github.com/p-karari/hms-sub002/internal/core/domain"
	"github.com/p-karari/hms-sub002/internal/models"
)

// ToModelAuditFields converts a domain AuditFields to a model AuditFields
func ToModelAuditFields(d domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt: d.CreatedAt,
		CreatedBy: d.CreatedBy,
		ChangedAt: d.ChangedAt,
		ChangedBy: d.ChangedBy,
	}
}

// ToDomainAuditFields converts a model AuditFields to a domain AuditFields
func ToDomainAuditFields(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt: m.CreatedAt,
		CreatedBy: m.CreatedBy,
		ChangedAt: m.ChangedAt,
		ChangedBy: m.ChangedBy,
	}
}

// ToModelVoidColumns flattens a domain Voidable into the four void columns.
func ToModelVoidColumns(d domain.Voidable) models.VoidColumns {
	if d.Void == nil {
		return models.VoidColumns{}
	}
	by := d.Void.VoidedBy
	at := d.Void.DateVoided
	reason := d.Void.VoidReason
	return models.VoidColumns{Voided: true, VoidedBy: &by, DateVoided: &at, VoidReason: &reason}
}

// ToDomainVoidable rebuilds a domain Voidable from the void columns.
func ToDomainVoidable(m models.VoidColumns) domain.Voidable {
	if !m.Voided {
		return domain.Voidable{}
	}
	info := &domain.VoidInfo{}
	if m.VoidedBy != nil {
		info.VoidedBy = *m.VoidedBy
	}
	if m.DateVoided != nil {
		info.DateVoided = *m.DateVoided
	}
	if m.VoidReason != nil {
		info.VoidReason = *m.VoidReason
	}
	return domain.Voidable{Void: info}
}

package models

import "time"

// AuditFields mirrors the creator/changed-by columns shared by all ledger tables.
type AuditFields struct {
	CreatedAt time.Time  `db:"date_created"`
	CreatedBy int64      `db:"creator"`
	ChangedAt *time.Time `db:"date_changed"`
	ChangedBy *int64     `db:"changed_by"`
}

// VoidColumns mirrors the soft-void columns shared by all ledger tables.
type VoidColumns struct {
	Voided     bool       `db:"voided"`
	VoidedBy   *int64     `db:"voided_by"`
	DateVoided *time.Time `db:"date_voided"`
	VoidReason *string    `db:"void_reason"`
}

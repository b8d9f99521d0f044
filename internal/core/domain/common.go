package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	ErrAlreadyVoided     = errors.New("already voided")
	ErrVoidReasonMissing = errors.New("void reason is required")
)

// AuditFields holds standard audit information for ledger rows.
// User references are internal numeric ids, never external handles.
type AuditFields struct {
	CreatedAt time.Time  `json:"dateCreated"`
	CreatedBy int64      `json:"creator"`
	ChangedAt *time.Time `json:"dateChanged,omitempty"`
	ChangedBy *int64     `json:"changedBy,omitempty"`
}

// Touch stamps the changed-by actor and timestamp.
func (a *AuditFields) Touch(actor int64, at time.Time) {
	a.ChangedAt = &at
	a.ChangedBy = &actor
}

// VoidInfo is the audit trail of a voided row.
type VoidInfo struct {
	VoidedBy   int64     `json:"voidedBy"`
	DateVoided time.Time `json:"dateVoided"`
	VoidReason string    `json:"voidReason"`
}

// Voidable is embedded by every ledger entity. A nil Void means the row is active.
type Voidable struct {
	Void *VoidInfo `json:"void,omitempty"`
}

// IsVoided reports whether the row has been voided.
func (v Voidable) IsVoided() bool {
	return v.Void != nil
}

// MarkVoided transitions the row from active to voided.
func (v *Voidable) MarkVoided(actor int64, reason string, at time.Time) error {
	if v.Void != nil {
		return ErrAlreadyVoided
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrVoidReasonMissing
	}
	if utf8.RuneCountInString(reason) > MaxVoidReasonLength {
		return ErrVoidReasonTooLong
	}
	v.Void = &VoidInfo{VoidedBy: actor, DateVoided: at, VoidReason: reason}
	return nil
}

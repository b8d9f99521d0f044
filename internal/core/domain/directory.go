package domain

import "github.com/shopspring/decimal"

// PatientRef is what the identity resolver returns for a patient handle.
type PatientRef struct {
	PatientID int64
	Handle    string
	Retired   bool
}

// UserRef is what the identity resolver returns for the acting user's handle.
type UserRef struct {
	UserID     int64
	Handle     string
	ProviderID *int64
}

// CatalogEntry is a billable service or stock item as priced by the catalog.
type CatalogEntry struct {
	ID               int64
	Kind             BillableKind
	Name             string
	Price            decimal.Decimal
	DefaultPriceName string
	Retired          bool
}

// PaymentModeAttributeType describes one attribute a payment mode accepts.
type PaymentModeAttributeType struct {
	Name     string
	Required bool
}

// PaymentMode is a way of paying (cash, card, mobile money, insurance, ...).
type PaymentMode struct {
	ID             int64
	Name           string
	Retired        bool
	AttributeTypes []PaymentModeAttributeType
}

// AttributeType looks up an attribute type by name.
func (m PaymentMode) AttributeType(name string) (PaymentModeAttributeType, bool) {
	for _, at := range m.AttributeTypes {
		if at.Name == name {
			return at, true
		}
	}
	return PaymentModeAttributeType{}, false
}

package domain

import "fmt"

// BillableKind discriminates what a line item bills for.
type BillableKind string

const (
	BillableService BillableKind = "SERVICE"
	BillableItem    BillableKind = "ITEM"
)

// Billable is the catalog entity a line item refers to: either a ServiceRef
// or a StockItemRef, never both.
type Billable interface {
	Kind() BillableKind
	CatalogID() int64
	isBillable()
}

// ServiceRef references a billable service in the catalog.
type ServiceRef struct {
	ServiceID int64
}

func (s ServiceRef) Kind() BillableKind { return BillableService }
func (s ServiceRef) CatalogID() int64   { return s.ServiceID }
func (ServiceRef) isBillable()          {}

// StockItemRef references an inventory item in the catalog.
type StockItemRef struct {
	ItemID int64
}

func (i StockItemRef) Kind() BillableKind { return BillableItem }
func (i StockItemRef) CatalogID() int64   { return i.ItemID }
func (StockItemRef) isBillable()          {}

// NewBillable builds the variant matching kind.
func NewBillable(kind BillableKind, catalogID int64) (Billable, error) {
	if catalogID <= 0 {
		return nil, fmt.Errorf("catalog id must be positive, got %d", catalogID)
	}
	switch kind {
	case BillableService:
		return ServiceRef{ServiceID: catalogID}, nil
	case BillableItem:
		return StockItemRef{ItemID: catalogID}, nil
	default:
		return nil, fmt.Errorf("unknown billable kind %q", kind)
	}
}

// BillableFromColumns rebuilds a Billable from the two nullable storage
// columns. Exactly one of them must be set.
func BillableFromColumns(serviceID, itemID *int64) (Billable, error) {
	switch {
	case serviceID != nil && itemID == nil:
		return ServiceRef{ServiceID: *serviceID}, nil
	case itemID != nil && serviceID == nil:
		return StockItemRef{ItemID: *itemID}, nil
	default:
		return nil, fmt.Errorf("line item must reference exactly one of service or item")
	}
}

// BillableColumns splits a Billable into the two nullable storage columns.
func BillableColumns(b Billable) (serviceID, itemID *int64) {
	switch v := b.(type) {
	case ServiceRef:
		id := v.ServiceID
		return &id, nil
	case StockItemRef:
		id := v.ItemID
		return nil, &id
	default:
		return nil, nil
	}
}

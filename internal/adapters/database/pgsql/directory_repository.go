package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/p-karari/hms-sub002/internal/core/domain"
	portsrepo "github.com/p-karari/hms-sub002/internal/core/ports/repositories"
)

// PgxDirectoryRepository reads patients, users and the catalog from the host
// application's reference tables. It never writes.
type PgxDirectoryRepository struct {
	BaseRepository
}

func newPgxDirectoryRepository(pool *pgxpool.Pool) *PgxDirectoryRepository {
	return &PgxDirectoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var (
	_ portsrepo.IdentityResolver = (*PgxDirectoryRepository)(nil)
	_ portsrepo.CatalogProvider  = (*PgxDirectoryRepository)(nil)
)

// ResolvePatient maps a patient handle to the internal patient id.
func (r *PgxDirectoryRepository) ResolvePatient(ctx context.Context, handle string) (*domain.PatientRef, error) {
	var p domain.PatientRef
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT patient_id, handle, retired FROM patients WHERE handle = $1`, handle,
	).Scan(&p.PatientID, &p.Handle, &p.Retired)
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("patient %q not found", handle))
	}
	return &p, nil
}

// ResolveUser maps a user handle to the internal user id and linked provider.
func (r *PgxDirectoryRepository) ResolveUser(ctx context.Context, handle string) (*domain.UserRef, error) {
	var u domain.UserRef
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT user_id, handle, provider_id FROM users WHERE handle = $1 AND retired = FALSE`, handle,
	).Scan(&u.UserID, &u.Handle, &u.ProviderID)
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("user %q not found", handle))
	}
	return &u, nil
}

func (r *PgxDirectoryRepository) findCatalogEntry(ctx context.Context, table, idCol string, kind domain.BillableKind, id int64) (*domain.CatalogEntry, error) {
	e := domain.CatalogEntry{Kind: kind}
	query := fmt.Sprintf(`SELECT %s, name, price, price_name, retired FROM %s WHERE %s = $1`, idCol, table, idCol)
	err := r.conn(ctx).QueryRow(ctx, query, id).
		Scan(&e.ID, &e.Name, &e.Price, &e.DefaultPriceName, &e.Retired)
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("%s %d not found", table, id))
	}
	return &e, nil
}

// FindService looks up a billable service and its default price.
func (r *PgxDirectoryRepository) FindService(ctx context.Context, serviceID int64) (*domain.CatalogEntry, error) {
	return r.findCatalogEntry(ctx, "billable_services", "service_id", domain.BillableService, serviceID)
}

// FindStockItem looks up a stock item and its default price.
func (r *PgxDirectoryRepository) FindStockItem(ctx context.Context, itemID int64) (*domain.CatalogEntry, error) {
	return r.findCatalogEntry(ctx, "stock_items", "item_id", domain.BillableItem, itemID)
}

// FindPaymentMode looks up a payment mode with its active attribute types.
func (r *PgxDirectoryRepository) FindPaymentMode(ctx context.Context, paymentModeID int64) (*domain.PaymentMode, error) {
	var mode domain.PaymentMode
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT payment_mode_id, name, retired FROM payment_modes WHERE payment_mode_id = $1`, paymentModeID,
	).Scan(&mode.ID, &mode.Name, &mode.Retired)
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("payment mode %d not found", paymentModeID))
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT name, required
		FROM payment_mode_attribute_types
		WHERE payment_mode_id = $1 AND retired = FALSE
		ORDER BY attribute_order, name`, paymentModeID)
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("failed to query attribute types of payment mode %d", paymentModeID))
	}
	defer rows.Close()

	for rows.Next() {
		var at domain.PaymentModeAttributeType
		if err := rows.Scan(&at.Name, &at.Required); err != nil {
			return nil, mapPgError(err, "failed to scan payment mode attribute type")
		}
		mode.AttributeTypes = append(mode.AttributeTypes, at)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating payment mode attribute types")
	}
	return &mode, nil
}

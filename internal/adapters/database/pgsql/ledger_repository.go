package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/p-karari/hms-sub002/internal/core/ports/repositories"
)

// PgxLedgerRepository groups the bill, line item and payment repositories
// behind one unit of work. All of them share the pool and pick up the
// transaction carried in the context.
type PgxLedgerRepository struct {
	BaseRepository
	*PgxBillRepository
	*PgxLineItemRepository
	*PgxPaymentRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{
		BaseRepository:        BaseRepository{Pool: pool},
		PgxBillRepository:     newPgxBillRepository(pool),
		PgxLineItemRepository: newPgxLineItemRepository(pool),
		PgxPaymentRepository:  newPgxPaymentRepository(pool),
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryWithTx
var _ portsrepo.LedgerRepositoryWithTx = (*PgxLedgerRepository)(nil)

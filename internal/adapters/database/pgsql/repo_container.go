package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/p-karari/hms-sub002/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the Postgres ledger store and directory. The
// bill listing cache and receipt numbering are supplied by the caller.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	directory := newPgxDirectoryRepository(dbPool)
	return portsrepo.RepositoryProvider{
		LedgerRepo: newPgxLedgerRepository(dbPool),
		Identity:   directory,
		Catalog:    directory,
	}
}

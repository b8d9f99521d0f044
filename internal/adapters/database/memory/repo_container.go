package memory

import portsrepo "github.com/p-karari/hms-sub002/internal/core/ports/repositories"

// NewRepositoryProvider wires an in-memory ledger store and directory.
func NewRepositoryProvider(store *Store, directory *Directory) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		LedgerRepo: store,
		Identity:   directory,
		Catalog:    directory,
	}
}

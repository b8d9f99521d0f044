package services

import (
	portsrepo "github.com/p-karari/hms-sub002/internal/core/ports/repositories"
	portssvc "github.com/p-karari/hms-sub002/internal/core/ports/services"
	"github.com/p-karari/hms-sub002/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	opts := []ServiceOption{WithMaxAttempts(cfg.LedgerMaxAttempts)}
	if repos.BillCache != nil {
		opts = append(opts, WithBillListingCache(repos.BillCache))
	}

	return &portssvc.ServiceContainer{
		Bill:    NewBillService(repos.LedgerRepo, repos.Identity, repos.Catalog, repos.ReceiptNumbering, opts...),
		Payment: NewPaymentService(repos.LedgerRepo, repos.Identity, repos.Catalog, repos.ReceiptNumbering, opts...),
		Void:    NewVoidService(repos.LedgerRepo, repos.Identity, repos.ReceiptNumbering, opts...),
	}
}

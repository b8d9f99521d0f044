package repositories

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	BillReader
	BillWriter
	SettlementReader
	LineItemReader
	LineItemWriter
	PaymentReader
	PaymentWriter
}

// LedgerRepositoryWithTx extends LedgerRepositoryFacade with transaction capabilities.
type LedgerRepositoryWithTx interface {
	LedgerRepositoryFacade
	UnitOfWork
}

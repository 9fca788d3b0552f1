package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo  AccountReader
	ClientRepo   ClientReader
	PositionRepo PositionRepositoryFacade
	TradeRepo    TradeReader
	DocumentRepo DocumentReader
	FeeRepo      FeeRepositoryFacade
	TaskRepo     TaskRepositoryFacade
}

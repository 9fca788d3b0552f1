package services

import (
	portsrepo "github.com/summitwm/wealth_backoffice_app/internal/core/ports/repositories"
	portssvc "github.com/summitwm/wealth_backoffice_app/internal/core/ports/services"
	"github.com/summitwm/wealth_backoffice_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)

	// The allocator is an internal collaborator of the fee service, not a
	// service of its own.
	allocator := NewRetrocessionAllocator(repos.FeeRepo, nil)

	container.Fee = NewFeeService(
		repos.AccountRepo,
		repos.PositionRepo,
		repos.TradeRepo,
		repos.FeeRepo,
		allocator,
	)

	container.Compliance = NewComplianceService(
		repos.ClientRepo,
		repos.PositionRepo,
		repos.DocumentRepo,
		repos.TaskRepo,
	)

	return container
}

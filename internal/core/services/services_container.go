package services

import (
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, notifier portssvc.ChangeNotifier) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Ledger:   NewLedgerService(repos.AssetRepo, repos.LedgerRepo, repos.UnitOfWork, WithNotifier(notifier)),
		Debt:     NewDebtService(repos.DebtRepo, repos.AssetRepo, repos.UnitOfWork, WithNotifier(notifier)),
		Planning: NewPlanningService(repos.DebtRepo),
	}
}

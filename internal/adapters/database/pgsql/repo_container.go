package pgsql

import (
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AssetRepo:  newPgxAssetRepository(dbPool),
		DebtRepo:   newPgxDebtRepository(dbPool),
		LedgerRepo: newPgxLedgerRepository(dbPool),
		UnitOfWork: newPgxUnitOfWork(dbPool),
	}
}

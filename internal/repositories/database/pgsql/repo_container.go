package pgsql

import (
	portsrepo "github.com/acctcore/move_accounting_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	exchangeRateRepo := newPgxExchangeRateRepository(dbPool)
	partnerRepo := newPgxPartnerRepository(dbPool)
	sequenceRepo := newPgxSequenceRepository(dbPool)
	fixedAssetRepo := newPgxFixedAssetRepository(dbPool)
	moveRepo := newPgxMoveRepository(dbPool, accountRepo)

	return portsrepo.RepositoryProvider{
		Move:         moveRepo,
		Account:      accountRepo,
		ExchangeRate: exchangeRateRepo,
		Partner:      partnerRepo,
		Sequence:     sequenceRepo,
		FixedAsset:   fixedAssetRepo,
	}
}

package repositories

import (
	"context"

	"github.com/acctcore/move_accounting_app/internal/core/domain"
)

// FixedAssetWriter stores generated fixed-asset records.
type FixedAssetWriter interface {
	SaveFixedAsset(ctx context.Context, asset domain.FixedAsset) error
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/acctcore/move_accounting_app/internal/apperrors"
	"github.com/acctcore/move_accounting_app/internal/core/domain"
	portsrepo "github.com/acctcore/move_accounting_app/internal/core/ports/repositories"
	portssvc "github.com/acctcore/move_accounting_app/internal/core/ports/services"
	"github.com/acctcore/move_accounting_app/internal/middleware"
	"github.com/google/uuid"
)

// fixedAssetService turns capitalizable move lines into fixed-asset records.
// Depreciation planning is out of scope; only the acquisition record is cut.
type fixedAssetService struct {
	assetRepo portsrepo.FixedAssetWriter
}

// NewFixedAssetService creates the fixed-asset generator.
func NewFixedAssetService(assetRepo portsrepo.FixedAssetWriter) portssvc.FixedAssetSvc {
	return &fixedAssetService{assetRepo: assetRepo}
}

var _ portssvc.FixedAssetSvc = (*fixedAssetService)(nil)

// GenerateFromLine records a fixed asset for the line. The caller guarantees
// the line carries a fixed-asset category on an immobilisation account.
func (s *fixedAssetService) GenerateFromLine(ctx context.Context, move *domain.Move, line *domain.MoveLine) error {
	if line.Account == nil {
		return fmt.Errorf("%w: line %s has no account", apperrors.ErrConfiguration, line.Name())
	}
	if line.FixedAssetCategory == nil {
		return fmt.Errorf("%w: line %s has no fixed-asset category", apperrors.ErrConfiguration, line.Name())
	}

	acquisitionDate := line.Date
	if line.OriginDate != nil {
		acquisitionDate = *line.OriginDate
	}
	now := time.Now().UTC()

	asset := domain.FixedAsset{
		FixedAssetID:    uuid.NewString(),
		CategoryID:      line.FixedAssetCategory.CategoryID,
		MoveID:          move.MoveID,
		MoveLineCounter: line.Counter,
		AccountID:       line.Account.AccountID,
		Name:            line.Description,
		GrossValue:      line.Debit.Add(line.Credit),
		AcquisitionDate: acquisitionDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     move.LastUpdatedBy,
			LastUpdatedAt: now,
			LastUpdatedBy: move.LastUpdatedBy,
		},
	}
	if asset.Name == "" {
		asset.Name = line.Origin
	}

	if err := s.assetRepo.SaveFixedAsset(ctx, asset); err != nil {
		return fmt.Errorf("failed to store fixed asset for line %s: %w", line.Name(), err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Fixed asset generated",
		slog.String("move_id", move.MoveID), slog.Int("line_counter", line.Counter),
		slog.String("fixed_asset_id", asset.FixedAssetID))
	return nil
}

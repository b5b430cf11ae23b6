package mapping

import (
	"github.com/acctcore/move_accounting_app/internal/core/domain"
	"github.com/acctcore/move_accounting_app/internal/models"
)

// ToModelFixedAsset converts a domain FixedAsset to its row model.
func ToModelFixedAsset(d domain.FixedAsset) models.FixedAsset {
	return models.FixedAsset{
		FixedAssetID:    d.FixedAssetID,
		CategoryID:      d.CategoryID,
		MoveID:          d.MoveID,
		MoveLineCounter: d.MoveLineCounter,
		AccountID:       d.AccountID,
		Name:            d.Name,
		GrossValue:      d.GrossValue,
		AcquisitionDate: d.AcquisitionDate,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

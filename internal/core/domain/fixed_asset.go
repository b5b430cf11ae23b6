package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FixedAssetCategory marks a move line as capitalizable. Lines carrying a
// category on an immobilisation-type account trigger fixed-asset generation
// when the move reaches accounted status.
type FixedAssetCategory struct {
	CategoryID string `json:"categoryID"`
	Name       string `json:"name"`
}

// FixedAsset is the record the generator produces from a qualifying line.
// Depreciation planning happens outside this engine.
type FixedAsset struct {
	FixedAssetID    string          `json:"fixedAssetID"`
	CategoryID      string          `json:"categoryID"`
	MoveID          string          `json:"moveID"`
	MoveLineCounter int             `json:"moveLineCounter"`
	AccountID       string          `json:"accountID"`
	Name            string          `json:"name"`
	GrossValue      decimal.Decimal `json:"grossValue"`
	AcquisitionDate time.Time       `json:"acquisitionDate"`
	AuditFields
}

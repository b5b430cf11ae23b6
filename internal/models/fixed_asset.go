package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FixedAsset is the fixed_assets table row written when an accounted move
// capitalizes a line.
type FixedAsset struct {
	FixedAssetID    string          `json:"fixedAssetID"` // Primary Key (UUID)
	CategoryID      string          `json:"categoryID"`
	MoveID          string          `json:"moveID"`
	MoveLineCounter int             `json:"moveLineCounter"`
	AccountID       string          `json:"accountID"`
	Name            string          `json:"name"`
	GrossValue      decimal.Decimal `json:"grossValue"`
	AcquisitionDate time.Time       `json:"acquisitionDate"`
	AuditFields
}

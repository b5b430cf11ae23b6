package domain

// AccountType is the technical classification of a chart-of-accounts node.
// The posting engine branches on it when resolving auto-tax accounts and when
// deciding whether a line may trigger fixed-asset generation.
type AccountType string

const (
	AccountTypeTax            AccountType = "TAX"
	AccountTypeDebt           AccountType = "DEBT"
	AccountTypeCharge         AccountType = "CHARGE"
	AccountTypeIncome         AccountType = "INCOME"
	AccountTypeAsset          AccountType = "ASSET"
	AccountTypeImmobilisation AccountType = "IMMOBILISATION"
	AccountTypeCash           AccountType = "CASH"
)

// VatSystem classifies the cash/accrual treatment of a tax posting.
// VatSystemDefault is the "not yet assigned" sentinel; the precondition
// validator refuses tax-type lines stuck on it once any originating line has
// moved off the default.
type VatSystem string

const (
	VatSystemDefault   VatSystem = "DEFAULT"
	VatSystemOnDebit   VatSystem = "ON_DEBIT"
	VatSystemOnPayment VatSystem = "ON_PAYMENT"
)

// Account is a chart-of-accounts node as consumed by the posting engine.
// The chart itself is maintained elsewhere; only the flags the validator and
// the line factory branch on are carried here.
type Account struct {
	AccountID            string      `json:"accountID"`
	Code                 string      `json:"code"`
	Name                 string      `json:"name"`
	AccountType          AccountType `json:"accountType"`
	Active               bool        `json:"active"`
	UseForPartnerBalance bool        `json:"useForPartnerBalance"`
	// Tax flags: a line on this account may / must carry a tax line.
	TaxAuthorized bool `json:"taxAuthorized"`
	TaxRequired   bool `json:"taxRequired"`
	// Analytic flags: a line on this account may / must carry an analytic
	// distribution.
	AnalyticDistributionAuthorized bool `json:"analyticDistributionAuthorized"`
	AnalyticDistributionRequired   bool `json:"analyticDistributionRequired"`
	ManageCutOffPeriod             bool `json:"manageCutOffPeriod"`

	VatSystem            VatSystem                      `json:"vatSystem"`
	DistributionTemplate *AnalyticDistributionTemplate  `json:"distributionTemplate,omitempty"`

	AuditFields
}

// IsTaxType reports whether the account posts tax amounts.
func (a *Account) IsTaxType() bool {
	return a.AccountType == AccountTypeTax
}

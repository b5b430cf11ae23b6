package models

// Account is the accounts table row: the slice of the chart of accounts the
// posting engine reads.
type Account struct {
	AccountID            string `json:"accountID"` // Primary Key (UUID)
	Code                 string `json:"code"`
	Name                 string `json:"name"`
	AccountType          string `json:"accountType"`
	Active               bool   `json:"active"`
	UseForPartnerBalance bool   `json:"useForPartnerBalance"`

	TaxAuthorized bool `json:"taxAuthorized"`
	TaxRequired   bool `json:"taxRequired"`

	AnalyticDistributionAuthorized bool `json:"analyticDistributionAuthorized"`
	AnalyticDistributionRequired   bool `json:"analyticDistributionRequired"`
	ManageCutOffPeriod             bool `json:"manageCutOffPeriod"`

	VatSystem string `json:"vatSystem"`

	AuditFields
}

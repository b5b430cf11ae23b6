package models

// Company is the companies table row; the account-config switches are
// flattened into columns.
type Company struct {
	CompanyID          string `json:"companyID"` // Primary Key (UUID)
	Name               string `json:"name"`
	CurrencyCode       string `json:"currencyCode"`
	Timezone           string `json:"timezone"`
	AccountingDaybook  bool   `json:"accountingDaybook"`
	ManageCutOffPeriod bool   `json:"manageCutOffPeriod"`
	AuditFields
}

package licensedto

import "time"

type LicensedAccount struct {
	ID           string
	AccountID    string
	Email        string
	UID          string
	Platform     string
	Status       string
	LicensedDate time.Time
	GrantedBy    string
}

type GrantLicenseOutput struct {
	Account   *LicensedAccount
	Remaining int
}

type RevokeLicenseOutput struct {
	Accounts []*LicensedAccount
}

type ListLicensesOutput struct {
	Email     string
	Accounts  []*LicensedAccount
	Licensed  int
	Remaining int
}

package response

import "time"

type LicensedAccountResponse struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"account_id"`
	Email        string    `json:"email"`
	UID          string    `json:"uid,omitempty"`
	Platform     string    `json:"platform"`
	Status       string    `json:"status"`
	LicensedDate time.Time `json:"licensed_date"`
	GrantedBy    string    `json:"granted_by,omitempty"`
}

type GrantLicenseResponse struct {
	Account   LicensedAccountResponse `json:"account"`
	Remaining int                     `json:"remaining"`
}

type RevokeLicenseResponse struct {
	Accounts []LicensedAccountResponse `json:"accounts"`
}

type ListLicensesResponse struct {
	Email     string                    `json:"email"`
	Accounts  []LicensedAccountResponse `json:"accounts"`
	Licensed  int                       `json:"licensed"`
	Remaining int                       `json:"remaining"`
}

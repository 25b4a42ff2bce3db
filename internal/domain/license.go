package domain

import (
	"context"
	"time"
)

type LicenseStatus string

const (
	LicenseLicensed   LicenseStatus = "licensed"
	LicenseUnlicensed LicenseStatus = "unlicensed"
)

// MaxLicensesPerEmail caps simultaneously licensed accounts per email.
const MaxLicensesPerEmail = 3

type LicensedAccount struct {
	ID           string
	AccountID    string
	Email        string
	UID          string
	Platform     string
	LicensedDate time.Time
	Status       LicenseStatus
	GrantedBy    string
	UpdatedAt    time.Time
}

type LicenseRepository interface {
	// GrantLicense licenses the account for its email. The cap check and the
	// write happen atomically per email.
	GrantLicense(ctx context.Context, account *LicensedAccount, maxPerEmail int) (*LicensedAccount, error)
	// RevokeLicense marks every licensed row of accountID owned by email as
	// unlicensed and returns them.
	RevokeLicense(ctx context.Context, accountID, email string) ([]*LicensedAccount, error)
	GetLicensesByEmail(ctx context.Context, email string) ([]*LicensedAccount, error)
}

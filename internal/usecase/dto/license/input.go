package licensedto

type GrantLicenseInput struct {
	AccountID string
	Email     string
	UID       string
	Platform  string
}

type RevokeLicenseInput struct {
	AccountID string
	Email     string
}

type ListLicensesInput struct {
	Email string
}

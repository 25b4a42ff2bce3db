package request

type GrantLicenseRequest struct {
	AccountID string `json:"account_id" binding:"required"`
	Platform  string `json:"platform" binding:"required"`
	Email     string `json:"email"`
	UID       string `json:"uid"`
}

package domain

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrUnauthenticated        = errors.New("unauthenticated")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrForbidden              = errors.New("forbidden")
	ErrAccountDisabled        = errors.New("account disabled")
	ErrEmailTaken             = errors.New("email already registered")
	ErrCaptchaFailed          = errors.New("captcha verification failed")
	ErrResetTokenInvalid      = errors.New("password reset token is invalid or expired")
	ErrUserNotFound           = errors.New("user not found")
	ErrPartnerNotFound        = errors.New("partner not found")
	ErrReferralCodeNotFound   = errors.New("referral code not found")
	ErrReferralCodeTaken      = errors.New("referral code already issued")
	ErrReferralCycle          = errors.New("referral chain contains a cycle")
	ErrChainTooDeep           = errors.New("referral chain exceeds maximum depth")
	ErrLicenseNotFound        = errors.New("licensed account not found")
	ErrLicenseLimitReached    = errors.New("licensed account limit reached for email")
	ErrAccountAlreadyLicensed = errors.New("trading account already licensed")
	ErrUpstream               = errors.New("upstream service failure")
)

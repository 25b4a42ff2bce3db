package authdto

import "github.com/LavaJover/shvark-partner-service/internal/domain"

type SignupInput struct {
	Email        string
	Password     string
	CaptchaToken string
	RemoteIP     string
}

type PartnerSignupInput struct {
	SignupInput
	ReferralCode string
}

type LoginInput struct {
	Email    string
	Password string
}

type ResetRequestInput struct {
	Email string
	Kind  domain.SubjectKind
}

type ResetConfirmInput struct {
	Token       string
	NewPassword string
}

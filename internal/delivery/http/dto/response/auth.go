package response

import "time"

type AuthResponse struct {
	Token        string    `json:"token"`
	ExpiresAt    time.Time `json:"expires_at"`
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Kind         string    `json:"kind"`
	IsAdmin      bool      `json:"is_admin"`
	ReferralCode string    `json:"referral_code,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

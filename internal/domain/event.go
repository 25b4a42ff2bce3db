package domain

import (
	"context"
	"time"
)

const (
	TopicUserSignedUp       = "user.signed_up"
	TopicPartnerSignedUp    = "partner.signed_up"
	TopicPartnerRankChanged = "partner.rank_changed"
	TopicLicenseGranted     = "license.granted"
	TopicLicenseRevoked     = "license.revoked"
	TopicResetRequested     = "auth.password_reset_requested"
)

type Event struct {
	Topic      string
	Key        string
	OccurredAt time.Time
	Payload    any
}

type EventPublisher interface {
	Publish(ctx context.Context, event Event)
}

type EventHandler func(ctx context.Context, event Event) error

type RankChangedPayload struct {
	PartnerID string `json:"partner_id"`
	From      Rank   `json:"from"`
	To        Rank   `json:"to"`
	TotalLots string `json:"total_lots"`
}

type PartnerSignedUpPayload struct {
	PartnerID  string  `json:"partner_id"`
	Email      string  `json:"email"`
	ReferredBy *string `json:"referred_by,omitempty"`
}

type UserSignedUpPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type ResetRequestedPayload struct {
	SubjectID string      `json:"subject_id"`
	Kind      SubjectKind `json:"kind"`
}

type LicensePayload struct {
	AccountID string        `json:"account_id"`
	Email     string        `json:"email"`
	Platform  string        `json:"platform"`
	Status    LicenseStatus `json:"status"`
	Actor     string        `json:"actor"`
}

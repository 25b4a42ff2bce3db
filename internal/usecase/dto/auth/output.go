package authdto

import (
	"time"

	"github.com/LavaJover/shvark-partner-service/internal/domain"
)

type AuthOutput struct {
	Token        string
	ExpiresAt    time.Time
	SubjectID    string
	Email        string
	Kind         domain.SubjectKind
	IsAdmin      bool
	ReferralCode string
}

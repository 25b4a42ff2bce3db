package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type AccountStatus string

const (
	StatusActive   AccountStatus = "active"
	StatusDisabled AccountStatus = "disabled"
)

type Partner struct {
	ID             string
	Email          string
	PasswordHash   string
	Rank           Rank
	KeepOverride   *decimal.Decimal
	ReferredBy     *string
	ReferralCode   string
	TotalRewardUSD decimal.Decimal
	TotalLots      decimal.Decimal
	IsAdmin        bool
	Status         AccountStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (p *Partner) KeepPercentage() decimal.Decimal {
	return KeepPercentageFor(p.Rank, p.KeepOverride)
}

// VolumeRecord is one trading volume event credited to a partner.
type VolumeRecord struct {
	ID         string
	PartnerID  string
	Lots       decimal.Decimal
	RewardUSD  decimal.Decimal
	RecordedAt time.Time
}

type PartnerRepository interface {
	CreatePartner(ctx context.Context, partner *Partner) error
	GetPartnerByID(ctx context.Context, partnerID string) (*Partner, error)
	GetPartnerByEmail(ctx context.Context, email string) (*Partner, error)
	GetPartnerByReferralCode(ctx context.Context, code string) (*Partner, error)
	GetDirectReferrals(ctx context.Context, partnerID string) ([]*Partner, error)
	ListPartners(ctx context.Context, afterID string, limit int) ([]*Partner, error)
	// AddVolume appends the record and credits it to the partner totals in
	// one transaction, returning the updated partner.
	AddVolume(ctx context.Context, record *VolumeRecord) (*Partner, error)
	// UpdateRank moves the partner from one rank to another only if it is
	// still at from. It reports whether the row changed.
	UpdateRank(ctx context.Context, partnerID string, from, to Rank) (bool, error)
	UpdatePassword(ctx context.Context, partnerID, passwordHash string) error
}

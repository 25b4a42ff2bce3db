package domain

import "github.com/shopspring/decimal"

type CommissionRole string

const (
	RoleAdmin    CommissionRole = "admin"
	RoleDirect   CommissionRole = "direct"
	RoleIndirect CommissionRole = "indirect"
)

// ChainLink is one partner in a referral chain.
type ChainLink struct {
	PartnerID    string
	Email        string
	Rank         Rank
	KeepOverride *decimal.Decimal
	IsAdmin      bool
}

func ChainLinkFromPartner(p *Partner) ChainLink {
	return ChainLink{
		PartnerID:    p.ID,
		Email:        p.Email,
		Rank:         p.Rank,
		KeepOverride: p.KeepOverride,
		IsAdmin:      p.IsAdmin,
	}
}

// CommissionRow is the cut of one upliner from a source partner's reward.
type CommissionRow struct {
	RecipientID     string
	RecipientEmail  string
	SourcePartnerID string
	Depth           int
	Role            CommissionRole
	CommissionPool  decimal.Decimal
	PlatformFee     decimal.Decimal
	RemainingPool   decimal.Decimal
	YourCut         decimal.Decimal
}

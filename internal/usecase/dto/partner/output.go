package partnerdto

import (
	"time"

	"github.com/LavaJover/shvark-partner-service/internal/domain"
	"github.com/shopspring/decimal"
)

type Profile struct {
	ID             string
	Email          string
	Rank           domain.Rank
	KeepPercentage decimal.Decimal
	ReferralCode   string
	ReferredBy     *string
	TotalRewardUSD decimal.Decimal
	TotalLots      decimal.Decimal
	IsAdmin        bool
	Status         domain.AccountStatus
	CreatedAt      time.Time
}

type ProfileOutput struct {
	Profile     *Profile
	NextRank    *domain.RankTier
	LotsToNext  decimal.Decimal
	DirectCount int
}

type ChainOutput struct {
	Links []domain.ChainLink
}

type DownlineOutput struct {
	Referrals []*Profile
}

type CommissionBreakdownOutput struct {
	SourcePartnerID string
	SourceRank      domain.Rank
	KeepPercentage  decimal.Decimal
	TotalReward     decimal.Decimal
	OwnKeep         decimal.Decimal
	CommissionPool  decimal.Decimal
	PlatformFee     decimal.Decimal
	RemainingPool   decimal.Decimal
	UplinerCount    int
	UplinerShare    decimal.Decimal
	YourCut         decimal.Decimal
	Rows            []domain.CommissionRow
}

type RecordVolumeOutput struct {
	Profile      *Profile
	PreviousRank domain.Rank
	Promoted     bool
}

package response

import (
	"time"

	"github.com/shopspring/decimal"
)

type RankTierResponse struct {
	Name           string          `json:"name"`
	KeepPercentage decimal.Decimal `json:"keep_percentage"`
	MinLots        decimal.Decimal `json:"min_lots"`
}

type ProfileResponse struct {
	ID             string          `json:"id"`
	Email          string          `json:"email"`
	Rank           string          `json:"rank"`
	KeepPercentage decimal.Decimal `json:"keep_percentage"`
	ReferralCode   string          `json:"referral_code"`
	ReferredBy     *string         `json:"referred_by"`
	TotalRewardUSD decimal.Decimal `json:"total_reward_usd"`
	TotalLots      decimal.Decimal `json:"total_lots"`
	IsAdmin        bool            `json:"is_admin"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
}

type DashboardResponse struct {
	Profile     ProfileResponse   `json:"profile"`
	NextRank    *RankTierResponse `json:"next_rank"`
	LotsToNext  decimal.Decimal   `json:"lots_to_next"`
	DirectCount int               `json:"direct_referrals"`
}

type ChainLinkResponse struct {
	PartnerID      string          `json:"partner_id"`
	Email          string          `json:"email"`
	Rank           string          `json:"rank"`
	KeepPercentage decimal.Decimal `json:"keep_percentage"`
	IsAdmin        bool            `json:"is_admin"`
}

type ChainResponse struct {
	Links []ChainLinkResponse `json:"links"`
}

type DownlineResponse struct {
	Referrals []ProfileResponse `json:"referrals"`
}

type CommissionRowResponse struct {
	RecipientID     string          `json:"recipient_id"`
	RecipientEmail  string          `json:"recipient_email"`
	SourcePartnerID string          `json:"source_partner_id"`
	Depth           int             `json:"depth"`
	Role            string          `json:"role"`
	CommissionPool  decimal.Decimal `json:"commission_pool"`
	PlatformFee     decimal.Decimal `json:"platform_fee"`
	RemainingPool   decimal.Decimal `json:"remaining_pool"`
	YourCut         decimal.Decimal `json:"your_cut"`
}

type CommissionBreakdownResponse struct {
	SourcePartnerID string                  `json:"source_partner_id"`
	SourceRank      string                  `json:"source_rank"`
	KeepPercentage  decimal.Decimal         `json:"keep_percentage"`
	TotalReward     decimal.Decimal         `json:"total_reward"`
	OwnKeep         decimal.Decimal         `json:"own_keep"`
	CommissionPool  decimal.Decimal         `json:"commission_pool"`
	PlatformFee     decimal.Decimal         `json:"platform_fee"`
	RemainingPool   decimal.Decimal         `json:"remaining_pool"`
	UplinerCount    int                     `json:"upliner_count"`
	UplinerShare    decimal.Decimal         `json:"upliner_share"`
	YourCut         decimal.Decimal         `json:"your_cut"`
	Rows            []CommissionRowResponse `json:"rows"`
}

type RecordVolumeResponse struct {
	Profile      ProfileResponse `json:"profile"`
	PreviousRank string          `json:"previous_rank"`
	Promoted     bool            `json:"promoted"`
}

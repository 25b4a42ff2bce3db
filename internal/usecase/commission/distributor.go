package commission

import (
	"github.com/LavaJover/shvark-partner-service/internal/domain"
	"github.com/shopspring/decimal"
)

// PlatformFeeRate is the platform cut taken from every commission pool.
var PlatformFeeRate = decimal.RequireFromString("0.05")

var hundred = decimal.NewFromInt(100)

// Distribution is the split of one source partner's reward.
type Distribution struct {
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
	Rows            []domain.CommissionRow
}

// Distribute splits reward between the source partner and every upliner in
// chain. The remaining pool is shared equally across upliners regardless of
// depth. chain is ordered root first; any link equal to the source is not an
// upliner.
func Distribute(source domain.ChainLink, reward decimal.Decimal, chain []domain.ChainLink) Distribution {
	keep := domain.KeepPercentageFor(source.Rank, source.KeepOverride)
	keepRatio := keep.Div(hundred)

	ownKeep := reward.Mul(keepRatio)
	pool := reward.Sub(ownKeep)
	fee := pool.Mul(PlatformFeeRate)
	remaining := pool.Sub(fee)

	upliners := make([]domain.ChainLink, 0, len(chain))
	for _, link := range chain {
		if link.PartnerID == source.PartnerID {
			continue
		}
		upliners = append(upliners, link)
	}

	share := decimal.Zero
	if n := len(upliners); n > 0 {
		share = remaining.Div(decimal.NewFromInt(int64(n)))
	}

	rows := make([]domain.CommissionRow, 0, len(upliners))
	for i, link := range upliners {
		depth := len(upliners) - i
		rows = append(rows, domain.CommissionRow{
			RecipientID:     link.PartnerID,
			RecipientEmail:  link.Email,
			SourcePartnerID: source.PartnerID,
			Depth:           depth,
			Role:            roleFor(link, depth),
			CommissionPool:  pool,
			PlatformFee:     fee,
			RemainingPool:   remaining,
			YourCut:         share,
		})
	}

	return Distribution{
		SourcePartnerID: source.PartnerID,
		SourceRank:      source.Rank,
		KeepPercentage:  keep,
		TotalReward:     reward,
		OwnKeep:         ownKeep,
		CommissionPool:  pool,
		PlatformFee:     fee,
		RemainingPool:   remaining,
		UplinerCount:    len(upliners),
		UplinerShare:    share,
		Rows:            rows,
	}
}

func roleFor(link domain.ChainLink, depth int) domain.CommissionRole {
	switch {
	case link.IsAdmin:
		return domain.RoleAdmin
	case depth == 1:
		return domain.RoleDirect
	default:
		return domain.RoleIndirect
	}
}

// YourCut is what partnerID receives from this distribution: the own keep
// for the source partner, the upliner share for an upliner, zero otherwise.
func (d Distribution) YourCut(partnerID string) decimal.Decimal {
	if partnerID == d.SourcePartnerID {
		return d.OwnKeep
	}
	for _, row := range d.Rows {
		if row.RecipientID == partnerID {
			return row.YourCut
		}
	}
	return decimal.Zero
}

// Row returns the commission row of recipientID, if it is an upliner.
func (d Distribution) Row(recipientID string) (domain.CommissionRow, bool) {
	for _, row := range d.Rows {
		if row.RecipientID == recipientID {
			return row, true
		}
	}
	return domain.CommissionRow{}, false
}

package partnerdto

import "github.com/shopspring/decimal"

type CommissionBreakdownInput struct {
	SourcePartnerID string
	// RewardUSD overrides the source partner's accumulated reward when set.
	RewardUSD *decimal.Decimal
}

type RecordVolumeInput struct {
	PartnerID string
	Lots      decimal.Decimal
	RewardUSD decimal.Decimal
}

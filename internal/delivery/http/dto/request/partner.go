package request

import "github.com/shopspring/decimal"

type RecordVolumeRequest struct {
	Lots      decimal.Decimal `json:"lots"`
	RewardUSD decimal.Decimal `json:"reward_usd"`
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PartnerModel struct {
	ID                     string              `gorm:"primaryKey;type:uuid"`
	Email                  string              `gorm:"uniqueIndex;not null"`
	PasswordHash           string              `gorm:"not null"`
	Rank                   string              `gorm:"not null;index"`
	KeepPercentageOverride decimal.NullDecimal `gorm:"type:numeric(5,2)"`
	ReferredBy             *string             `gorm:"type:uuid;index"`
	TotalRewardUSD         decimal.Decimal     `gorm:"column:total_reward_usd;type:numeric(20,8);not null;default:0"`
	TotalLots              decimal.Decimal     `gorm:"type:numeric(20,8);not null;default:0"`
	IsAdmin                bool                `gorm:"not null;default:false"`
	Status                 string              `gorm:"not null;default:active"`
	ReferralCode           string              `gorm:"->;-:migration"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func (PartnerModel) TableName() string {
	return "partners"
}

// ReferralCodeModel is a partner's own referral code.
type ReferralCodeModel struct {
	Code      string `gorm:"primaryKey"`
	PartnerID string `gorm:"type:uuid;uniqueIndex;not null"`
	CreatedAt time.Time
}

func (ReferralCodeModel) TableName() string {
	return "own_referral_id_list"
}

type RankTierModel struct {
	Name           string          `gorm:"primaryKey"`
	KeepPercentage decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	MinLots        decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	Position       int             `gorm:"not null"`
}

func (RankTierModel) TableName() string {
	return "partner_rank_list"
}

type VolumeRecordModel struct {
	ID         string          `gorm:"primaryKey;type:uuid"`
	PartnerID  string          `gorm:"type:uuid;index;not null"`
	Lots       decimal.Decimal `gorm:"type:numeric(20,8);not null"`
	RewardUSD  decimal.Decimal `gorm:"column:reward_usd;type:numeric(20,8);not null"`
	RecordedAt time.Time       `gorm:"not null"`
}

func (VolumeRecordModel) TableName() string {
	return "partner_volume_records"
}

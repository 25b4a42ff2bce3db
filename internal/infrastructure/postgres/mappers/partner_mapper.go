package mappers

import (
	"github.com/LavaJover/shvark-partner-service/internal/domain"
	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/postgres/models"
	"github.com/shopspring/decimal"
)

func ToDomainPartner(model *models.PartnerModel) *domain.Partner {
	var override *decimal.Decimal
	if model.KeepPercentageOverride.Valid {
		value := model.KeepPercentageOverride.Decimal
		override = &value
	}
	return &domain.Partner{
		ID:             model.ID,
		Email:          model.Email,
		PasswordHash:   model.PasswordHash,
		Rank:           domain.Rank(model.Rank),
		KeepOverride:   override,
		ReferredBy:     model.ReferredBy,
		ReferralCode:   model.ReferralCode,
		TotalRewardUSD: model.TotalRewardUSD,
		TotalLots:      model.TotalLots,
		IsAdmin:        model.IsAdmin,
		Status:         domain.AccountStatus(model.Status),
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

func ToGORMPartner(partner *domain.Partner) *models.PartnerModel {
	model := &models.PartnerModel{
		ID:             partner.ID,
		Email:          partner.Email,
		PasswordHash:   partner.PasswordHash,
		Rank:           string(partner.Rank),
		ReferredBy:     partner.ReferredBy,
		TotalRewardUSD: partner.TotalRewardUSD,
		TotalLots:      partner.TotalLots,
		IsAdmin:        partner.IsAdmin,
		Status:         string(partner.Status),
		CreatedAt:      partner.CreatedAt,
		UpdatedAt:      partner.UpdatedAt,
	}
	if partner.KeepOverride != nil {
		model.KeepPercentageOverride = decimal.NullDecimal{Decimal: *partner.KeepOverride, Valid: true}
	}
	return model
}

func ToGORMVolumeRecord(record *domain.VolumeRecord) *models.VolumeRecordModel {
	return &models.VolumeRecordModel{
		ID:         record.ID,
		PartnerID:  record.PartnerID,
		Lots:       record.Lots,
		RewardUSD:  record.RewardUSD,
		RecordedAt: record.RecordedAt,
	}
}

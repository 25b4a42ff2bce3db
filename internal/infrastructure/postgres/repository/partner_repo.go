package repository

import (
	"context"
	"errors"
	"time"

	"github.com/LavaJover/shvark-partner-service/internal/domain"
	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DefaultPartnerRepository struct {
	DB *gorm.DB
}

func NewDefaultPartnerRepository(db *gorm.DB) *DefaultPartnerRepository {
	return &DefaultPartnerRepository{
		DB: db,
	}
}

// withReferralCode selects partners together with their own referral code.
func withReferralCode(db *gorm.DB) *gorm.DB {
	return db.Model(&models.PartnerModel{}).
		Select("partners.*, own_referral_id_list.code AS referral_code").
		Joins("LEFT JOIN own_referral_id_list ON own_referral_id_list.partner_id = partners.id")
}

func (r *DefaultPartnerRepository) CreatePartner(ctx context.Context, partner *domain.Partner) error {
	if partner.ID == "" {
		partner.ID = uuid.New().String()
	}
	model := mappers.ToGORMPartner(partner)

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrEmailTaken
			}
			return err
		}
		err := tx.Create(&models.ReferralCodeModel{
			Code:      partner.ReferralCode,
			PartnerID: model.ID,
		}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrReferralCodeTaken
		}
		return err
	})
	if err != nil {
		return err
	}

	partner.CreatedAt = model.CreatedAt
	partner.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *DefaultPartnerRepository) getPartner(db *gorm.DB, query string, args ...interface{}) (*domain.Partner, error) {
	var model models.PartnerModel
	err := withReferralCode(db).Where(query, args...).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrPartnerNotFound
	}
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainPartner(&model), nil
}

func (r *DefaultPartnerRepository) GetPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error) {
	if _, err := uuid.Parse(partnerID); err != nil {
		return nil, domain.ErrPartnerNotFound
	}
	return r.getPartner(r.DB.WithContext(ctx), "partners.id = ?", partnerID)
}

func (r *DefaultPartnerRepository) GetPartnerByEmail(ctx context.Context, email string) (*domain.Partner, error) {
	return r.getPartner(r.DB.WithContext(ctx), "partners.email = ?", email)
}

func (r *DefaultPartnerRepository) GetPartnerByReferralCode(ctx context.Context, code string) (*domain.Partner, error) {
	partner, err := r.getPartner(r.DB.WithContext(ctx), "own_referral_id_list.code = ?", code)
	if errors.Is(err, domain.ErrPartnerNotFound) {
		return nil, domain.ErrReferralCodeNotFound
	}
	return partner, err
}

func (r *DefaultPartnerRepository) GetDirectReferrals(ctx context.Context, partnerID string) ([]*domain.Partner, error) {
	var partnerModels []models.PartnerModel
	if err := withReferralCode(r.DB.WithContext(ctx)).
		Where("partners.referred_by = ?", partnerID).
		Order("partners.created_at ASC").
		Find(&partnerModels).Error; err != nil {
		return nil, err
	}

	partners := make([]*domain.Partner, len(partnerModels))
	for i := range partnerModels {
		partners[i] = mappers.ToDomainPartner(&partnerModels[i])
	}
	return partners, nil
}

func (r *DefaultPartnerRepository) ListPartners(ctx context.Context, afterID string, limit int) ([]*domain.Partner, error) {
	query := withReferralCode(r.DB.WithContext(ctx))
	if afterID != "" {
		query = query.Where("partners.id > ?", afterID)
	}

	var partnerModels []models.PartnerModel
	if err := query.Order("partners.id ASC").Limit(limit).Find(&partnerModels).Error; err != nil {
		return nil, err
	}

	partners := make([]*domain.Partner, len(partnerModels))
	for i := range partnerModels {
		partners[i] = mappers.ToDomainPartner(&partnerModels[i])
	}
	return partners, nil
}

func (r *DefaultPartnerRepository) AddVolume(ctx context.Context, record *domain.VolumeRecord) (*domain.Partner, error) {
	if _, err := uuid.Parse(record.PartnerID); err != nil {
		return nil, domain.ErrPartnerNotFound
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.RecordedAt.IsZero() {
		record.RecordedAt = time.Now().UTC()
	}

	var updated *domain.Partner
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.PartnerModel{}).
			Where("id = ?", record.PartnerID).
			Updates(map[string]interface{}{
				"total_lots":       gorm.Expr("total_lots + ?", record.Lots),
				"total_reward_usd": gorm.Expr("total_reward_usd + ?", record.RewardUSD),
				"updated_at":       time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrPartnerNotFound
		}

		if err := tx.Create(mappers.ToGORMVolumeRecord(record)).Error; err != nil {
			return err
		}

		partner, err := r.getPartner(tx, "partners.id = ?", record.PartnerID)
		if err != nil {
			return err
		}
		updated = partner
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *DefaultPartnerRepository) UpdateRank(ctx context.Context, partnerID string, from, to domain.Rank) (bool, error) {
	result := r.DB.WithContext(ctx).
		Model(&models.PartnerModel{}).
		Where("id = ? AND rank = ?", partnerID, string(from)).
		Updates(map[string]interface{}{
			"rank":       string(to),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *DefaultPartnerRepository) UpdatePassword(ctx context.Context, partnerID, passwordHash string) error {
	result := r.DB.WithContext(ctx).
		Model(&models.PartnerModel{}).
		Where("id = ?", partnerID).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"updated_at":    time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrPartnerNotFound
	}
	return nil
}

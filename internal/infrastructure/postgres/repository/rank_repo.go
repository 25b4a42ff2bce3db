package repository

import (
	"context"

	"github.com/LavaJover/shvark-partner-service/internal/domain"
	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultRankRepository struct {
	DB *gorm.DB
}

func NewDefaultRankRepository(db *gorm.DB) *DefaultRankRepository {
	return &DefaultRankRepository{
		DB: db,
	}
}

// SyncRankTiers mirrors the rank table into partner_rank_list for reporting.
func (r *DefaultRankRepository) SyncRankTiers(ctx context.Context, tiers []domain.RankTier) error {
	rows := make([]models.RankTierModel, len(tiers))
	for i, tier := range tiers {
		rows[i] = models.RankTierModel{
			Name:           string(tier.Name),
			KeepPercentage: tier.KeepPercentage,
			MinLots:        tier.MinLots,
			Position:       i,
		}
	}
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rows).Error
}

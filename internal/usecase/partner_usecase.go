package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-partner-service/internal/domain"
	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-partner-service/internal/usecase/commission"
	partnerdto "github.com/LavaJover/shvark-partner-service/internal/usecase/dto/partner"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type PartnerUsecase interface {
	GetProfile(ctx context.Context, partnerID string) (*partnerdto.ProfileOutput, error)
	GetChain(ctx context.Context, partnerID string) (*partnerdto.ChainOutput, error)
	GetDownline(ctx context.Context, partnerID string) (*partnerdto.DownlineOutput, error)
	GetCommissionBreakdown(ctx context.Context, viewer *domain.Session, input *partnerdto.CommissionBreakdownInput) (*partnerdto.CommissionBreakdownOutput, error)
	ListRanks() []domain.RankTier

	RecordVolume(ctx context.Context, input *partnerdto.RecordVolumeInput) (*partnerdto.RecordVolumeOutput, error)
	ReconcileRanks(ctx context.Context, batchSize int) (int, error)
}

type DefaultPartnerUsecase struct {
	partnerRepo domain.PartnerRepository
	chains      *commission.ChainBuilder
	events      domain.EventPublisher
	metrics     *metrics.PartnerMetrics
	logger      *zap.Logger
}

func NewDefaultPartnerUsecase(
	partnerRepo domain.PartnerRepository,
	maxChainDepth int,
	events domain.EventPublisher,
	partnerMetrics *metrics.PartnerMetrics,
	logger *zap.Logger,
) *DefaultPartnerUsecase {
	return &DefaultPartnerUsecase{
		partnerRepo: partnerRepo,
		chains:      commission.NewChainBuilder(partnerRepo, maxChainDepth),
		events:      events,
		metrics:     partnerMetrics,
		logger:      logger,
	}
}

func (uc *DefaultPartnerUsecase) GetProfile(ctx context.Context, partnerID string) (*partnerdto.ProfileOutput, error) {
	partner, err := uc.partnerRepo.GetPartnerByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	referrals, err := uc.partnerRepo.GetDirectReferrals(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	output := &partnerdto.ProfileOutput{
		Profile:     toProfile(partner),
		LotsToNext:  decimal.Zero,
		DirectCount: len(referrals),
	}
	if next, ok := domain.NextTier(partner.Rank); ok {
		output.NextRank = &next
		if missing := next.MinLots.Sub(partner.TotalLots); missing.IsPositive() {
			output.LotsToNext = missing
		}
	}
	return output, nil
}

func (uc *DefaultPartnerUsecase) GetChain(ctx context.Context, partnerID string) (*partnerdto.ChainOutput, error) {
	links, err := uc.buildChain(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	return &partnerdto.ChainOutput{Links: links}, nil
}

func (uc *DefaultPartnerUsecase) buildChain(ctx context.Context, partnerID string) ([]domain.ChainLink, error) {
	links, err := uc.chains.Build(ctx, partnerID)
	switch {
	case err == nil:
		return links, nil
	case errors.Is(err, domain.ErrPartnerNotFound):
		return nil, err
	case errors.Is(err, domain.ErrReferralCycle):
		uc.metrics.RecordChainError("cycle")
	case errors.Is(err, domain.ErrChainTooDeep):
		uc.metrics.RecordChainError("too_deep")
	default:
		uc.metrics.RecordChainError("storage")
	}
	uc.logger.Error("failed to build referral chain",
		zap.String("partner_id", partnerID),
		zap.Error(err),
	)
	return nil, err
}

func (uc *DefaultPartnerUsecase) GetDownline(ctx context.Context, partnerID string) (*partnerdto.DownlineOutput, error) {
	if _, err := uc.partnerRepo.GetPartnerByID(ctx, partnerID); err != nil {
		return nil, err
	}
	referrals, err := uc.partnerRepo.GetDirectReferrals(ctx, partnerID)
	if err != nil {
		return nil, err
	}

	profiles := make([]*partnerdto.Profile, len(referrals))
	for i, referral := range referrals {
		profiles[i] = toProfile(referral)
	}
	return &partnerdto.DownlineOutput{Referrals: profiles}, nil
}

// GetCommissionBreakdown splits the source partner's reward across its chain.
// Only the source itself, one of its upliners or an admin may look.
func (uc *DefaultPartnerUsecase) GetCommissionBreakdown(ctx context.Context, viewer *domain.Session, input *partnerdto.CommissionBreakdownInput) (*partnerdto.CommissionBreakdownOutput, error) {
	if viewer == nil {
		return nil, domain.ErrUnauthenticated
	}
	if input.RewardUSD != nil && input.RewardUSD.IsNegative() {
		return nil, fmt.Errorf("%w: reward must not be negative", domain.ErrInvalidInput)
	}

	links, err := uc.buildChain(ctx, input.SourcePartnerID)
	if err != nil {
		return nil, err
	}
	source := links[len(links)-1]

	if !viewer.IsAdmin && !chainContains(links, viewer.SubjectID) {
		return nil, fmt.Errorf("%w: partner %s is not in the chain of %s", domain.ErrForbidden, viewer.SubjectID, source.PartnerID)
	}

	reward := decimal.Zero
	if input.RewardUSD != nil {
		reward = *input.RewardUSD
	} else {
		partner, err := uc.partnerRepo.GetPartnerByID(ctx, source.PartnerID)
		if err != nil {
			return nil, err
		}
		reward = partner.TotalRewardUSD
	}

	d := commission.Distribute(source, reward, links)
	uc.metrics.RecordDistribution(string(d.SourceRank), d.CommissionPool.InexactFloat64(), d.PlatformFee.InexactFloat64(), d.UplinerCount)

	return &partnerdto.CommissionBreakdownOutput{
		SourcePartnerID: d.SourcePartnerID,
		SourceRank:      d.SourceRank,
		KeepPercentage:  d.KeepPercentage,
		TotalReward:     d.TotalReward,
		OwnKeep:         d.OwnKeep,
		CommissionPool:  d.CommissionPool,
		PlatformFee:     d.PlatformFee,
		RemainingPool:   d.RemainingPool,
		UplinerCount:    d.UplinerCount,
		UplinerShare:    d.UplinerShare,
		YourCut:         d.YourCut(viewer.SubjectID),
		Rows:            d.Rows,
	}, nil
}

func chainContains(links []domain.ChainLink, partnerID string) bool {
	for _, link := range links {
		if link.PartnerID == partnerID {
			return true
		}
	}
	return false
}

func (uc *DefaultPartnerUsecase) ListRanks() []domain.RankTier {
	return domain.RankTiers()
}

func (uc *DefaultPartnerUsecase) RecordVolume(ctx context.Context, input *partnerdto.RecordVolumeInput) (*partnerdto.RecordVolumeOutput, error) {
	if input.Lots.IsNegative() || input.RewardUSD.IsNegative() {
		return nil, fmt.Errorf("%w: lots and reward must not be negative", domain.ErrInvalidInput)
	}
	if input.Lots.IsZero() && input.RewardUSD.IsZero() {
		return nil, fmt.Errorf("%w: nothing to record", domain.ErrInvalidInput)
	}

	partner, err := uc.partnerRepo.AddVolume(ctx, &domain.VolumeRecord{
		PartnerID: input.PartnerID,
		Lots:      input.Lots,
		RewardUSD: input.RewardUSD,
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.RecordVolume(string(partner.Rank), input.Lots.InexactFloat64(), input.RewardUSD.InexactFloat64())

	previous := partner.Rank
	promoted, err := uc.promote(ctx, partner)
	if err != nil {
		return nil, err
	}

	return &partnerdto.RecordVolumeOutput{
		Profile:      toProfile(partner),
		PreviousRank: previous,
		Promoted:     promoted,
	}, nil
}

// promote moves the partner up to the rank its lots earn. Ranks never go
// down, and a rank outside the table is kept until the lots earn more than
// the lowest tier. partner.Rank is updated in place on success.
func (uc *DefaultPartnerUsecase) promote(ctx context.Context, partner *domain.Partner) (bool, error) {
	target := domain.RankForLots(partner.TotalLots)
	if !target.Above(partner.Rank) {
		return false, nil
	}
	if !partner.Rank.Valid() && target == domain.RankDong {
		return false, nil
	}

	changed, err := uc.partnerRepo.UpdateRank(ctx, partner.ID, partner.Rank, target)
	if err != nil {
		return false, fmt.Errorf("promote partner %s: %w", partner.ID, err)
	}
	if !changed {
		return false, nil
	}

	from := partner.Rank
	partner.Rank = target

	uc.metrics.RecordRankChange(string(from), string(target))
	uc.events.Publish(ctx, domain.Event{
		Topic: domain.TopicPartnerRankChanged,
		Key:   partner.ID,
		Payload: domain.RankChangedPayload{
			PartnerID: partner.ID,
			From:      from,
			To:        target,
			TotalLots: partner.TotalLots.String(),
		},
	})
	uc.logger.Info("partner promoted",
		zap.String("partner_id", partner.ID),
		zap.String("from", string(from)),
		zap.String("to", string(target)),
	)
	return true, nil
}

// ReconcileRanks walks every partner in id order and applies any promotion
// their totals earn. It returns how many partners were promoted.
func (uc *DefaultPartnerUsecase) ReconcileRanks(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 500
	}

	promoted := 0
	afterID := ""
	for {
		if err := ctx.Err(); err != nil {
			return promoted, err
		}

		partners, err := uc.partnerRepo.ListPartners(ctx, afterID, batchSize)
		if err != nil {
			return promoted, err
		}
		for _, partner := range partners {
			ok, err := uc.promote(ctx, partner)
			if err != nil {
				uc.logger.Error("rank reconciliation failed",
					zap.String("partner_id", partner.ID),
					zap.Error(err),
				)
				continue
			}
			if ok {
				promoted++
			}
		}

		if len(partners) < batchSize {
			return promoted, nil
		}
		afterID = partners[len(partners)-1].ID
	}
}

func toProfile(partner *domain.Partner) *partnerdto.Profile {
	return &partnerdto.Profile{
		ID:             partner.ID,
		Email:          partner.Email,
		Rank:           partner.Rank,
		KeepPercentage: partner.KeepPercentage(),
		ReferralCode:   partner.ReferralCode,
		ReferredBy:     partner.ReferredBy,
		TotalRewardUSD: partner.TotalRewardUSD,
		TotalLots:      partner.TotalLots,
		IsAdmin:        partner.IsAdmin,
		Status:         partner.Status,
		CreatedAt:      partner.CreatedAt,
	}
}

package repository_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/LavaJover/shvark-partner-service/internal/domain"
	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/postgres/repository"
)

func newPartner(email, code string) *domain.Partner {
	return &domain.Partner{
		Email:          email,
		PasswordHash:   "hash",
		Rank:           domain.RankDong,
		ReferralCode:   code,
		TotalRewardUSD: decimal.Zero,
		TotalLots:      decimal.Zero,
		Status:         domain.StatusActive,
	}
}

func TestPartnerRepositoryCreate(t *testing.T) {
	repo := repository.NewDefaultPartnerRepository(requireDB(t))
	ctx := context.Background()

	first := newPartner("p1@tradi.io", "CODE0001")
	require.NoError(t, repo.CreatePartner(ctx, first))

	byCode, err := repo.GetPartnerByReferralCode(ctx, "CODE0001")
	require.NoError(t, err)
	require.Equal(t, first.ID, byCode.ID)

	t.Run("duplicate email", func(t *testing.T) {
		err := repo.CreatePartner(ctx, newPartner("p1@tradi.io", "CODE0002"))
		require.ErrorIs(t, err, domain.ErrEmailTaken)
	})

	t.Run("duplicate referral code", func(t *testing.T) {
		err := repo.CreatePartner(ctx, newPartner("p2@tradi.io", "CODE0001"))
		require.ErrorIs(t, err, domain.ErrReferralCodeTaken)

		_, err = repo.GetPartnerByEmail(ctx, "p2@tradi.io")
		require.ErrorIs(t, err, domain.ErrPartnerNotFound)
	})
}

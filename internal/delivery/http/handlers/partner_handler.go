package handlers

import (
	"net/http"

	"github.com/LavaJover/shvark-partner-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-partner-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-partner-service/internal/domain"
	"github.com/LavaJover/shvark-partner-service/internal/usecase"
	partnerdto "github.com/LavaJover/shvark-partner-service/internal/usecase/dto/partner"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PartnerHandler struct {
	uc usecase.PartnerUsecase
	responder
}

func NewPartnerHandler(uc usecase.PartnerUsecase, r responder) *PartnerHandler {
	return &PartnerHandler{uc: uc, responder: r}
}

func toProfileResponse(p *partnerdto.Profile) response.ProfileResponse {
	return response.ProfileResponse{
		ID:             p.ID,
		Email:          p.Email,
		Rank:           string(p.Rank),
		KeepPercentage: p.KeepPercentage,
		ReferralCode:   p.ReferralCode,
		ReferredBy:     p.ReferredBy,
		TotalRewardUSD: p.TotalRewardUSD,
		TotalLots:      p.TotalLots,
		IsAdmin:        p.IsAdmin,
		Status:         string(p.Status),
		CreatedAt:      p.CreatedAt,
	}
}

func toRankTierResponse(tier domain.RankTier) response.RankTierResponse {
	return response.RankTierResponse{
		Name:           string(tier.Name),
		KeepPercentage: tier.KeepPercentage,
		MinLots:        tier.MinLots,
	}
}

func (h *PartnerHandler) Me(c *gin.Context) {
	session := SessionFrom(c.Request.Context())
	out, err := h.uc.GetProfile(c.Request.Context(), session.SubjectID)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := response.DashboardResponse{
		Profile:     toProfileResponse(out.Profile),
		LotsToNext:  out.LotsToNext,
		DirectCount: out.DirectCount,
	}
	if out.NextRank != nil {
		next := toRankTierResponse(*out.NextRank)
		resp.NextRank = &next
	}
	h.ok(c, http.StatusOK, resp)
}

func (h *PartnerHandler) Chain(c *gin.Context) {
	session := SessionFrom(c.Request.Context())
	out, err := h.uc.GetChain(c.Request.Context(), session.SubjectID)
	if err != nil {
		h.fail(c, err)
		return
	}

	links := make([]response.ChainLinkResponse, len(out.Links))
	for i, link := range out.Links {
		links[i] = response.ChainLinkResponse{
			PartnerID:      link.PartnerID,
			Email:          link.Email,
			Rank:           string(link.Rank),
			KeepPercentage: domain.KeepPercentageFor(link.Rank, link.KeepOverride),
			IsAdmin:        link.IsAdmin,
		}
	}
	h.ok(c, http.StatusOK, response.ChainResponse{Links: links})
}

func (h *PartnerHandler) Downline(c *gin.Context) {
	session := SessionFrom(c.Request.Context())
	out, err := h.uc.GetDownline(c.Request.Context(), session.SubjectID)
	if err != nil {
		h.fail(c, err)
		return
	}

	referrals := make([]response.ProfileResponse, len(out.Referrals))
	for i, referral := range out.Referrals {
		referrals[i] = toProfileResponse(referral)
	}
	h.ok(c, http.StatusOK, response.DownlineResponse{Referrals: referrals})
}

func (h *PartnerHandler) Commissions(c *gin.Context) {
	input := &partnerdto.CommissionBreakdownInput{SourcePartnerID: c.Param("sourceId")}
	if raw := c.Query("reward"); raw != "" {
		reward, err := decimal.NewFromString(raw)
		if err != nil {
			h.badRequest(c, "reward must be a decimal number")
			return
		}
		input.RewardUSD = &reward
	}

	out, err := h.uc.GetCommissionBreakdown(c.Request.Context(), SessionFrom(c.Request.Context()), input)
	if err != nil {
		h.fail(c, err)
		return
	}

	rows := make([]response.CommissionRowResponse, len(out.Rows))
	for i, row := range out.Rows {
		rows[i] = response.CommissionRowResponse{
			RecipientID:     row.RecipientID,
			RecipientEmail:  row.RecipientEmail,
			SourcePartnerID: row.SourcePartnerID,
			Depth:           row.Depth,
			Role:            string(row.Role),
			CommissionPool:  row.CommissionPool,
			PlatformFee:     row.PlatformFee,
			RemainingPool:   row.RemainingPool,
			YourCut:         row.YourCut,
		}
	}
	h.ok(c, http.StatusOK, response.CommissionBreakdownResponse{
		SourcePartnerID: out.SourcePartnerID,
		SourceRank:      string(out.SourceRank),
		KeepPercentage:  out.KeepPercentage,
		TotalReward:     out.TotalReward,
		OwnKeep:         out.OwnKeep,
		CommissionPool:  out.CommissionPool,
		PlatformFee:     out.PlatformFee,
		RemainingPool:   out.RemainingPool,
		UplinerCount:    out.UplinerCount,
		UplinerShare:    out.UplinerShare,
		YourCut:         out.YourCut,
		Rows:            rows,
	})
}

func (h *PartnerHandler) Ranks(c *gin.Context) {
	tiers := h.uc.ListRanks()
	ranks := make([]response.RankTierResponse, len(tiers))
	for i, tier := range tiers {
		ranks[i] = toRankTierResponse(tier)
	}
	h.ok(c, http.StatusOK, ranks)
}

func (h *PartnerHandler) RecordVolume(c *gin.Context) {
	var req request.RecordVolumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	out, err := h.uc.RecordVolume(c.Request.Context(), &partnerdto.RecordVolumeInput{
		PartnerID: c.Param("id"),
		Lots:      req.Lots,
		RewardUSD: req.RewardUSD,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, response.RecordVolumeResponse{
		Profile:      toProfileResponse(out.Profile),
		PreviousRank: string(out.PreviousRank),
		Promoted:     out.Promoted,
	})
}

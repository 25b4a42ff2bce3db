package handlers

import (
	"net/http"

	"github.com/LavaJover/shvark-partner-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-partner-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-partner-service/internal/usecase"
	licensedto "github.com/LavaJover/shvark-partner-service/internal/usecase/dto/license"
	"github.com/gin-gonic/gin"
)

type LicenseHandler struct {
	uc usecase.LicenseUsecase
	responder
}

func NewLicenseHandler(uc usecase.LicenseUsecase, r responder) *LicenseHandler {
	return &LicenseHandler{uc: uc, responder: r}
}

func toLicensedAccountResponse(account *licensedto.LicensedAccount) response.LicensedAccountResponse {
	return response.LicensedAccountResponse{
		ID:           account.ID,
		AccountID:    account.AccountID,
		Email:        account.Email,
		UID:          account.UID,
		Platform:     account.Platform,
		Status:       account.Status,
		LicensedDate: account.LicensedDate,
		GrantedBy:    account.GrantedBy,
	}
}

func toLicensedAccountsResponse(accounts []*licensedto.LicensedAccount) []response.LicensedAccountResponse {
	out := make([]response.LicensedAccountResponse, len(accounts))
	for i, account := range accounts {
		out[i] = toLicensedAccountResponse(account)
	}
	return out
}

func (h *LicenseHandler) Grant(c *gin.Context) {
	var req request.GrantLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	out, err := h.uc.GrantLicense(c.Request.Context(), SessionFrom(c.Request.Context()), &licensedto.GrantLicenseInput{
		AccountID: req.AccountID,
		Email:     req.Email,
		UID:       req.UID,
		Platform:  req.Platform,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, response.GrantLicenseResponse{
		Account:   toLicensedAccountResponse(out.Account),
		Remaining: out.Remaining,
	})
}

func (h *LicenseHandler) Revoke(c *gin.Context) {
	out, err := h.uc.RevokeLicense(c.Request.Context(), SessionFrom(c.Request.Context()), &licensedto.RevokeLicenseInput{
		AccountID: c.Param("accountId"),
		Email:     c.Query("email"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, response.RevokeLicenseResponse{Accounts: toLicensedAccountsResponse(out.Accounts)})
}

func (h *LicenseHandler) List(c *gin.Context) {
	out, err := h.uc.ListLicenses(c.Request.Context(), SessionFrom(c.Request.Context()), &licensedto.ListLicensesInput{
		Email: c.Query("email"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, response.ListLicensesResponse{
		Email:     out.Email,
		Accounts:  toLicensedAccountsResponse(out.Accounts),
		Licensed:  out.Licensed,
		Remaining: out.Remaining,
	})
}

package handlers

import (
	"net/http"

	"github.com/LavaJover/shvark-partner-service/internal/delivery/http/dto/request"
	"github.com/LavaJover/shvark-partner-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-partner-service/internal/domain"
	"github.com/LavaJover/shvark-partner-service/internal/usecase"
	authdto "github.com/LavaJover/shvark-partner-service/internal/usecase/dto/auth"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	uc usecase.AuthUsecase
	responder
}

func NewAuthHandler(uc usecase.AuthUsecase, r responder) *AuthHandler {
	return &AuthHandler{uc: uc, responder: r}
}

func toAuthResponse(out *authdto.AuthOutput) response.AuthResponse {
	return response.AuthResponse{
		Token:        out.Token,
		ExpiresAt:    out.ExpiresAt,
		ID:           out.SubjectID,
		Email:        out.Email,
		Kind:         string(out.Kind),
		IsAdmin:      out.IsAdmin,
		ReferralCode: out.ReferralCode,
	}
}

func (h *AuthHandler) SignupUser(c *gin.Context) {
	var req request.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	out, err := h.uc.SignupUser(c.Request.Context(), &authdto.SignupInput{
		Email:        req.Email,
		Password:     req.Password,
		CaptchaToken: req.CaptchaToken,
		RemoteIP:     c.ClientIP(),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, toAuthResponse(out))
}

func (h *AuthHandler) SignupPartner(c *gin.Context) {
	var req request.PartnerSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	out, err := h.uc.SignupPartner(c.Request.Context(), &authdto.PartnerSignupInput{
		SignupInput: authdto.SignupInput{
			Email:        req.Email,
			Password:     req.Password,
			CaptchaToken: req.CaptchaToken,
			RemoteIP:     c.ClientIP(),
		},
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusCreated, toAuthResponse(out))
}

func (h *AuthHandler) LoginUser(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	out, err := h.uc.LoginUser(c.Request.Context(), &authdto.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, toAuthResponse(out))
}

func (h *AuthHandler) LoginPartner(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	out, err := h.uc.LoginPartner(c.Request.Context(), &authdto.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, toAuthResponse(out))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.uc.Logout(c.Request.Context(), SessionFrom(c.Request.Context())); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, response.MessageResponse{Message: "logged out"})
}

func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req request.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}
	kind := domain.SubjectKind(req.Kind)
	if kind == "" {
		kind = domain.KindUser
	}

	if err := h.uc.RequestPasswordReset(c.Request.Context(), &authdto.ResetRequestInput{Email: req.Email, Kind: kind}); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, response.MessageResponse{Message: "if the account exists, a reset link has been sent"})
}

func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req request.PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	if err := h.uc.ConfirmPasswordReset(c.Request.Context(), &authdto.ResetConfirmInput{Token: req.Token, NewPassword: req.NewPassword}); err != nil {
		h.fail(c, err)
		return
	}
	h.ok(c, http.StatusOK, response.MessageResponse{Message: "password updated"})
}

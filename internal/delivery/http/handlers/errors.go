package handlers

import (
	"errors"
	"net/http"

	"github.com/LavaJover/shvark-partner-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-partner-service/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errorStatuses = []struct {
	err    error
	status int
}{
	{domain.ErrInvalidInput, http.StatusBadRequest},
	{domain.ErrReferralCodeNotFound, http.StatusBadRequest},
	{domain.ErrCaptchaFailed, http.StatusBadRequest},
	{domain.ErrResetTokenInvalid, http.StatusBadRequest},
	{domain.ErrUnauthenticated, http.StatusUnauthorized},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrAccountDisabled, http.StatusForbidden},
	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrPartnerNotFound, http.StatusNotFound},
	{domain.ErrLicenseNotFound, http.StatusNotFound},
	{domain.ErrEmailTaken, http.StatusConflict},
	{domain.ErrAccountAlreadyLicensed, http.StatusConflict},
	{domain.ErrLicenseLimitReached, http.StatusConflict},
	{domain.ErrReferralCycle, http.StatusInternalServerError},
	{domain.ErrChainTooDeep, http.StatusInternalServerError},
	{domain.ErrUpstream, http.StatusInternalServerError},
}

// StatusFor maps a usecase error to its HTTP status. The second result is
// false for errors that carry no domain meaning.
func StatusFor(err error) (int, bool) {
	for _, entry := range errorStatuses {
		if errors.Is(err, entry.err) {
			return entry.status, true
		}
	}
	return http.StatusInternalServerError, false
}

type responder struct {
	logger         *zap.Logger
	exposeInternal bool
}

func (r responder) ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, response.Envelope{Success: true, Data: data})
}

func (r responder) fail(c *gin.Context, err error) {
	status, known := StatusFor(err)
	message := err.Error()

	switch {
	case !known:
		r.logger.Error("request failed",
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
		if !r.exposeInternal {
			message = "internal error"
		}
	case status >= http.StatusInternalServerError:
		r.logger.Error("request failed", zap.String("route", c.FullPath()), zap.Error(err))
		if errors.Is(err, domain.ErrUpstream) && !r.exposeInternal {
			message = domain.ErrUpstream.Error()
		}
	}

	c.AbortWithStatusJSON(status, response.Envelope{Success: false, Error: message})
}

func (r responder) badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, response.Envelope{Success: false, Error: message})
}

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/LavaJover/shvark-partner-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-partner-service/internal/domain"
	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/metrics"
	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger writes one zap entry per request.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if session := SessionFrom(c.Request.Context()); session != nil {
			fields = append(fields, zap.String("subject_id", session.SubjectID))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logger.Error("http request", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("http request", fields...)
		default:
			logger.Debug("http request", fields...)
		}
	}
}

// RequestMetrics observes request latency per matched route.
func RequestMetrics(m *metrics.PartnerMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}

// RateLimit allows perSecond requests per client IP.
func RateLimit(perSecond float64) gin.HandlerFunc {
	lmt := tollbooth.NewLimiter(perSecond, &limiter.ExpirableOptions{DefaultExpirationTTL: time.Hour})
	return func(c *gin.Context) {
		if httpErr := tollbooth.LimitByKeys(lmt, []string{c.ClientIP()}); httpErr != nil {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.Envelope{
				Success: false,
				Error:   "too many requests",
			})
			return
		}
		c.Next()
	}
}

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// RequireSession rejects requests without a live session token and attaches
// the session to the request context otherwise.
func RequireSession(auth Authenticator, r responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		session, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			r.fail(c, err)
			return
		}
		c.Request = c.Request.WithContext(WithSession(c.Request.Context(), session))
		c.Next()
	}
}

// RequirePartner must run after RequireSession.
func RequirePartner(r responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFrom(c.Request.Context())
		if session == nil || session.Kind != domain.KindPartner {
			r.fail(c, fmt.Errorf("%w: partner account required", domain.ErrForbidden))
			return
		}
		c.Next()
	}
}

// RequireAdmin must run after RequireSession.
func RequireAdmin(r responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFrom(c.Request.Context())
		if session == nil || !session.IsAdmin {
			r.fail(c, fmt.Errorf("%w: admin account required", domain.ErrForbidden))
			return
		}
		c.Next()
	}
}

package handlers

import (
	"net/http"

	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-partner-service/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type RouterConfig struct {
	AllowedOrigins []string
	AuthRateLimit  float64
	// TrustedProxies lists the peers whose forwarding headers set the client
	// IP. Empty means the TCP peer is always the client.
	TrustedProxies []string
	// ExposeInternal surfaces internal error messages to clients.
	ExposeInternal bool
	ReleaseMode    bool
}

type Usecases struct {
	Auth    usecase.AuthUsecase
	Partner usecase.PartnerUsecase
	License usecase.LicenseUsecase
}

// NewRouter wires every route of the partner API and wraps it in CORS.
func NewRouter(cfg RouterConfig, ucs Usecases, m *metrics.PartnerMetrics, gatherer prometheus.Gatherer, logger *zap.Logger) http.Handler {
	if cfg.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Error("invalid trusted proxies, trusting none", zap.Strings("proxies", cfg.TrustedProxies), zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery(), RequestLogger(logger), RequestMetrics(m))

	resp := responder{logger: logger, exposeInternal: cfg.ExposeInternal}
	authHandler := NewAuthHandler(ucs.Auth, resp)
	partnerHandler := NewPartnerHandler(ucs.Partner, resp)
	licenseHandler := NewLicenseHandler(ucs.License, resp)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	withSession := RequireSession(ucs.Auth, resp)
	limited := RateLimit(cfg.AuthRateLimit)

	api := r.Group("/api/v1")
	api.GET("/ranks", partnerHandler.Ranks)

	users := api.Group("/users", limited)
	users.POST("/signup", authHandler.SignupUser)
	users.POST("/login", authHandler.LoginUser)

	partners := api.Group("/partners")
	partners.POST("/signup", limited, authHandler.SignupPartner)
	partners.POST("/login", limited, authHandler.LoginPartner)

	me := partners.Group("/me", withSession, RequirePartner(resp))
	me.GET("", partnerHandler.Me)
	me.GET("/chain", partnerHandler.Chain)
	me.GET("/downline", partnerHandler.Downline)
	me.GET("/commissions/:sourceId", partnerHandler.Commissions)

	auth := api.Group("/auth")
	auth.POST("/logout", withSession, authHandler.Logout)
	auth.POST("/password-reset", limited, authHandler.RequestPasswordReset)
	auth.POST("/password-reset/confirm", limited, authHandler.ConfirmPasswordReset)

	licenses := api.Group("/licenses", withSession)
	licenses.POST("", licenseHandler.Grant)
	licenses.GET("", licenseHandler.List)
	licenses.DELETE("/:accountId", licenseHandler.Revoke)

	admin := api.Group("/admin", withSession, RequireAdmin(resp))
	admin.POST("/partners/:id/volume", partnerHandler.RecordVolume)

	return cors.New(corsOptions(cfg.AllowedOrigins)).Handler(r)
}

func corsOptions(allowedOrigins []string) cors.Options {
	return cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         600,
	}
}

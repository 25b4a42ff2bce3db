package setup

import (
	"fmt"

	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/cache"
	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/captcha"
	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/mail"
	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/security"
	"github.com/LavaJover/shvark-partner-service/internal/usecase"
)

type UseCases struct {
	AuthUsecase    usecase.AuthUsecase
	PartnerUsecase usecase.PartnerUsecase
	LicenseUsecase usecase.LicenseUsecase
}

func InitializeUseCases(deps *Dependencies) (*UseCases, error) {
	cfg := deps.Config
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth: jwt secret is empty")
	}

	authUsecase := usecase.NewDefaultAuthUsecase(usecase.AuthDependencies{
		UserRepo:    deps.Repositories.UserRepo,
		PartnerRepo: deps.Repositories.PartnerRepo,
		Hasher:      security.NewBcryptHasher(cfg.Auth.BcryptCost),
		Tokens:      security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL),
		Sessions:    cache.NewRedisSessionStore(deps.Redis),
		Resets:      cache.NewRedisResetTokenStore(deps.Redis),
		Captcha:     captcha.New(cfg.Captcha.Secret, cfg.Captcha.VerifyURL, cfg.Captcha.Timeout),
		Mailer:      mail.NewHTTPMailer(cfg.MailService.Host, cfg.MailService.Port, cfg.MailService.From, cfg.MailService.Timeout),
		Events:      deps.Bus,
		Metrics:     deps.Metrics,
		Logger:      deps.Logger,
	}, usecase.AuthSettings{
		ResetTokenTTL: cfg.Auth.ResetTokenTTL,
		ResetLinkURL:  cfg.Auth.ResetLinkURL,
	})

	partnerUsecase := usecase.NewDefaultPartnerUsecase(
		deps.Repositories.PartnerRepo,
		cfg.Commission.MaxChainDepth,
		deps.Bus,
		deps.Metrics,
		deps.Logger,
	)

	licenseUsecase := usecase.NewDefaultLicenseUsecase(
		deps.Repositories.LicenseRepo,
		deps.Bus,
		deps.Metrics,
		deps.Logger,
	)

	return &UseCases{
		AuthUsecase:    authUsecase,
		PartnerUsecase: partnerUsecase,
		LicenseUsecase: licenseUsecase,
	}, nil
}

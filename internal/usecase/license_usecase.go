package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/LavaJover/shvark-partner-service/internal/domain"
	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/metrics"
	licensedto "github.com/LavaJover/shvark-partner-service/internal/usecase/dto/license"
	"go.uber.org/zap"
)

type LicenseUsecase interface {
	GrantLicense(ctx context.Context, actor *domain.Session, input *licensedto.GrantLicenseInput) (*licensedto.GrantLicenseOutput, error)
	RevokeLicense(ctx context.Context, actor *domain.Session, input *licensedto.RevokeLicenseInput) (*licensedto.RevokeLicenseOutput, error)
	ListLicenses(ctx context.Context, actor *domain.Session, input *licensedto.ListLicensesInput) (*licensedto.ListLicensesOutput, error)
}

type DefaultLicenseUsecase struct {
	licenseRepo domain.LicenseRepository
	events      domain.EventPublisher
	metrics     *metrics.PartnerMetrics
	logger      *zap.Logger
}

func NewDefaultLicenseUsecase(
	licenseRepo domain.LicenseRepository,
	events domain.EventPublisher,
	partnerMetrics *metrics.PartnerMetrics,
	logger *zap.Logger,
) *DefaultLicenseUsecase {
	return &DefaultLicenseUsecase{
		licenseRepo: licenseRepo,
		events:      events,
		metrics:     partnerMetrics,
		logger:      logger,
	}
}

// resolveEmail picks the email a license call acts on. Users are limited to
// their own email; partners and admins may name any.
func resolveEmail(actor *domain.Session, requested string) (string, error) {
	if actor == nil {
		return "", domain.ErrUnauthenticated
	}
	email := normalizeEmail(requested)
	if email == "" {
		email = normalizeEmail(actor.Email)
	}
	if err := validateEmail(email); err != nil {
		return "", err
	}
	if actor.Kind == domain.KindUser && !actor.IsAdmin && email != normalizeEmail(actor.Email) {
		return "", fmt.Errorf("%w: licenses of %s belong to another account", domain.ErrForbidden, email)
	}
	return email, nil
}

func (uc *DefaultLicenseUsecase) GrantLicense(ctx context.Context, actor *domain.Session, input *licensedto.GrantLicenseInput) (*licensedto.GrantLicenseOutput, error) {
	email, err := resolveEmail(actor, input.Email)
	if err != nil {
		return nil, err
	}
	accountID := strings.TrimSpace(input.AccountID)
	platform := strings.TrimSpace(input.Platform)
	if accountID == "" {
		return nil, fmt.Errorf("%w: account_id is required", domain.ErrInvalidInput)
	}
	if platform == "" {
		return nil, fmt.Errorf("%w: platform is required", domain.ErrInvalidInput)
	}

	granted, err := uc.licenseRepo.GrantLicense(ctx, &domain.LicensedAccount{
		AccountID: accountID,
		Email:     email,
		UID:       strings.TrimSpace(input.UID),
		Platform:  platform,
		GrantedBy: actor.SubjectID,
	}, domain.MaxLicensesPerEmail)
	switch {
	case errors.Is(err, domain.ErrLicenseLimitReached):
		uc.metrics.RecordLicenseRefused("limit_reached")
		return nil, err
	case errors.Is(err, domain.ErrAccountAlreadyLicensed):
		uc.metrics.RecordLicenseRefused("already_licensed")
		return nil, err
	case err != nil:
		return nil, err
	}

	uc.metrics.RecordLicenseGranted(granted.Platform)
	uc.publish(ctx, domain.TopicLicenseGranted, granted, actor.SubjectID)
	uc.logger.Info("license granted",
		zap.String("account_id", granted.AccountID),
		zap.String("platform", granted.Platform),
		zap.String("actor", actor.SubjectID),
	)

	remaining := 0
	if licenses, err := uc.licenseRepo.GetLicensesByEmail(ctx, email); err == nil {
		remaining = domain.MaxLicensesPerEmail - countLicensed(licenses)
	} else {
		uc.logger.Warn("failed to count licenses after grant", zap.Error(err))
	}

	return &licensedto.GrantLicenseOutput{
		Account:   toLicenseOutput(granted),
		Remaining: remaining,
	}, nil
}

func (uc *DefaultLicenseUsecase) RevokeLicense(ctx context.Context, actor *domain.Session, input *licensedto.RevokeLicenseInput) (*licensedto.RevokeLicenseOutput, error) {
	email, err := resolveEmail(actor, input.Email)
	if err != nil {
		return nil, err
	}
	accountID := strings.TrimSpace(input.AccountID)
	if accountID == "" {
		return nil, fmt.Errorf("%w: account_id is required", domain.ErrInvalidInput)
	}

	revoked, err := uc.licenseRepo.RevokeLicense(ctx, accountID, email)
	if err != nil {
		return nil, err
	}

	accounts := make([]*licensedto.LicensedAccount, len(revoked))
	for i, account := range revoked {
		uc.metrics.RecordLicenseRevoked(account.Platform)
		uc.publish(ctx, domain.TopicLicenseRevoked, account, actor.SubjectID)
		accounts[i] = toLicenseOutput(account)
	}
	uc.logger.Info("license revoked",
		zap.String("account_id", accountID),
		zap.Int("rows", len(revoked)),
		zap.String("actor", actor.SubjectID),
	)

	return &licensedto.RevokeLicenseOutput{Accounts: accounts}, nil
}

func (uc *DefaultLicenseUsecase) ListLicenses(ctx context.Context, actor *domain.Session, input *licensedto.ListLicensesInput) (*licensedto.ListLicensesOutput, error) {
	email, err := resolveEmail(actor, input.Email)
	if err != nil {
		return nil, err
	}

	licenses, err := uc.licenseRepo.GetLicensesByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	accounts := make([]*licensedto.LicensedAccount, len(licenses))
	for i, account := range licenses {
		accounts[i] = toLicenseOutput(account)
	}
	licensed := countLicensed(licenses)

	return &licensedto.ListLicensesOutput{
		Email:     email,
		Accounts:  accounts,
		Licensed:  licensed,
		Remaining: domain.MaxLicensesPerEmail - licensed,
	}, nil
}

func (uc *DefaultLicenseUsecase) publish(ctx context.Context, topic string, account *domain.LicensedAccount, actor string) {
	uc.events.Publish(ctx, domain.Event{
		Topic: topic,
		Key:   account.Email,
		Payload: domain.LicensePayload{
			AccountID: account.AccountID,
			Email:     account.Email,
			Platform:  account.Platform,
			Status:    account.Status,
			Actor:     actor,
		},
	})
}

func countLicensed(accounts []*domain.LicensedAccount) int {
	n := 0
	for _, account := range accounts {
		if account.Status == domain.LicenseLicensed {
			n++
		}
	}
	return n
}

func toLicenseOutput(account *domain.LicensedAccount) *licensedto.LicensedAccount {
	return &licensedto.LicensedAccount{
		ID:           account.ID,
		AccountID:    account.AccountID,
		Email:        account.Email,
		UID:          account.UID,
		Platform:     account.Platform,
		Status:       string(account.Status),
		LicensedDate: account.LicensedDate,
		GrantedBy:    account.GrantedBy,
	}
}

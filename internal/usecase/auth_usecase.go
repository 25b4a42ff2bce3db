package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/LavaJover/shvark-partner-service/internal/domain"
	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/metrics"
	authdto "github.com/LavaJover/shvark-partner-service/internal/usecase/dto/auth"
	"github.com/jaevor/go-nanoid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	referralCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	referralCodeLength   = 8
	referralCodeAttempts = 3
	resetTokenLength     = 32
)

type AuthUsecase interface {
	SignupUser(ctx context.Context, input *authdto.SignupInput) (*authdto.AuthOutput, error)
	LoginUser(ctx context.Context, input *authdto.LoginInput) (*authdto.AuthOutput, error)
	SignupPartner(ctx context.Context, input *authdto.PartnerSignupInput) (*authdto.AuthOutput, error)
	LoginPartner(ctx context.Context, input *authdto.LoginInput) (*authdto.AuthOutput, error)
	Logout(ctx context.Context, session *domain.Session) error
	Authenticate(ctx context.Context, token string) (*domain.Session, error)

	RequestPasswordReset(ctx context.Context, input *authdto.ResetRequestInput) error
	ConfirmPasswordReset(ctx context.Context, input *authdto.ResetConfirmInput) error
}

type AuthSettings struct {
	ResetTokenTTL time.Duration
	ResetLinkURL  string
}

type AuthDependencies struct {
	UserRepo    domain.UserRepository
	PartnerRepo domain.PartnerRepository
	Hasher      domain.PasswordHasher
	Tokens      domain.TokenManager
	Sessions    domain.SessionStore
	Resets      domain.ResetTokenStore
	Captcha     domain.CaptchaVerifier
	Mailer      domain.Mailer
	Events      domain.EventPublisher
	Metrics     *metrics.PartnerMetrics
	Logger      *zap.Logger
}

type DefaultAuthUsecase struct {
	AuthDependencies
	settings AuthSettings
}

func NewDefaultAuthUsecase(deps AuthDependencies, settings AuthSettings) *DefaultAuthUsecase {
	return &DefaultAuthUsecase{
		AuthDependencies: deps,
		settings:         settings,
	}
}

func (uc *DefaultAuthUsecase) verifyCaptcha(ctx context.Context, input *authdto.SignupInput) error {
	err := uc.Captcha.Verify(ctx, input.CaptchaToken, input.RemoteIP)
	if err == nil || errors.Is(err, domain.ErrCaptchaFailed) || errors.Is(err, domain.ErrUpstream) {
		return err
	}
	return fmt.Errorf("%w: captcha: %v", domain.ErrUpstream, err)
}

func (uc *DefaultAuthUsecase) validateSignup(input *authdto.SignupInput) error {
	input.Email = normalizeEmail(input.Email)
	if err := validateEmail(input.Email); err != nil {
		return err
	}
	return validatePassword(input.Password)
}

func (uc *DefaultAuthUsecase) SignupUser(ctx context.Context, input *authdto.SignupInput) (*authdto.AuthOutput, error) {
	if err := uc.validateSignup(input); err != nil {
		return nil, err
	}
	if err := uc.verifyCaptcha(ctx, input); err != nil {
		return nil, err
	}

	if _, err := uc.UserRepo.GetUserByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := uc.Hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        input.Email,
		PasswordHash: hash,
		Status:       domain.StatusActive,
	}
	if err := uc.UserRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	uc.Metrics.RecordSignup(string(domain.KindUser))
	uc.Events.Publish(ctx, domain.Event{
		Topic:   domain.TopicUserSignedUp,
		Key:     user.ID,
		Payload: domain.UserSignedUpPayload{UserID: user.ID, Email: user.Email},
	})
	uc.Logger.Info("user signed up", zap.String("user_id", user.ID))

	return uc.startSession(ctx, domain.Session{
		SubjectID: user.ID,
		Email:     user.Email,
		Kind:      domain.KindUser,
	}, "")
}

func (uc *DefaultAuthUsecase) SignupPartner(ctx context.Context, input *authdto.PartnerSignupInput) (*authdto.AuthOutput, error) {
	if err := uc.validateSignup(&input.SignupInput); err != nil {
		return nil, err
	}
	if err := uc.verifyCaptcha(ctx, &input.SignupInput); err != nil {
		return nil, err
	}

	if _, err := uc.PartnerRepo.GetPartnerByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrPartnerNotFound) {
		return nil, err
	}

	var referredBy *string
	if input.ReferralCode != "" {
		referrer, err := uc.PartnerRepo.GetPartnerByReferralCode(ctx, input.ReferralCode)
		if err != nil {
			return nil, err
		}
		referredBy = &referrer.ID
	}

	hash, err := uc.Hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	codeGenerator, err := nanoid.CustomASCII(referralCodeAlphabet, referralCodeLength)
	if err != nil {
		return nil, err
	}

	partner := &domain.Partner{
		Email:          input.Email,
		PasswordHash:   hash,
		Rank:           domain.RankDong,
		ReferredBy:     referredBy,
		TotalRewardUSD: decimal.Zero,
		TotalLots:      decimal.Zero,
		Status:         domain.StatusActive,
	}
	for attempt := 1; ; attempt++ {
		partner.ID = ""
		partner.ReferralCode = codeGenerator()
		err = uc.PartnerRepo.CreatePartner(ctx, partner)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrReferralCodeTaken) || attempt == referralCodeAttempts {
			return nil, err
		}
		uc.Logger.Warn("referral code collision, regenerating",
			zap.String("email", partner.Email),
			zap.Int("attempt", attempt),
		)
	}

	uc.Metrics.RecordSignup(string(domain.KindPartner))
	uc.Events.Publish(ctx, domain.Event{
		Topic: domain.TopicPartnerSignedUp,
		Key:   partner.ID,
		Payload: domain.PartnerSignedUpPayload{
			PartnerID:  partner.ID,
			Email:      partner.Email,
			ReferredBy: partner.ReferredBy,
		},
	})
	uc.Logger.Info("partner signed up",
		zap.String("partner_id", partner.ID),
		zap.Bool("referred", referredBy != nil),
	)

	return uc.startSession(ctx, domain.Session{
		SubjectID: partner.ID,
		Email:     partner.Email,
		Kind:      domain.KindPartner,
	}, partner.ReferralCode)
}

func (uc *DefaultAuthUsecase) LoginUser(ctx context.Context, input *authdto.LoginInput) (*authdto.AuthOutput, error) {
	email := normalizeEmail(input.Email)
	user, err := uc.UserRepo.GetUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		uc.Metrics.RecordLogin(string(domain.KindUser), false)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := uc.checkCredentials(domain.KindUser, user.PasswordHash, input.Password, user.Status); err != nil {
		return nil, err
	}

	return uc.startSession(ctx, domain.Session{
		SubjectID: user.ID,
		Email:     user.Email,
		Kind:      domain.KindUser,
	}, "")
}

func (uc *DefaultAuthUsecase) LoginPartner(ctx context.Context, input *authdto.LoginInput) (*authdto.AuthOutput, error) {
	email := normalizeEmail(input.Email)
	partner, err := uc.PartnerRepo.GetPartnerByEmail(ctx, email)
	if errors.Is(err, domain.ErrPartnerNotFound) {
		uc.Metrics.RecordLogin(string(domain.KindPartner), false)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := uc.checkCredentials(domain.KindPartner, partner.PasswordHash, input.Password, partner.Status); err != nil {
		return nil, err
	}

	return uc.startSession(ctx, domain.Session{
		SubjectID: partner.ID,
		Email:     partner.Email,
		Kind:      domain.KindPartner,
		IsAdmin:   partner.IsAdmin,
	}, partner.ReferralCode)
}

func (uc *DefaultAuthUsecase) checkCredentials(kind domain.SubjectKind, hash, password string, status domain.AccountStatus) error {
	if err := uc.Hasher.Compare(hash, password); err != nil {
		uc.Metrics.RecordLogin(string(kind), false)
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return err
		}
		return fmt.Errorf("compare password: %w", err)
	}
	if status != domain.StatusActive {
		uc.Metrics.RecordLogin(string(kind), false)
		return domain.ErrAccountDisabled
	}
	uc.Metrics.RecordLogin(string(kind), true)
	return nil
}

func (uc *DefaultAuthUsecase) startSession(ctx context.Context, session domain.Session, referralCode string) (*authdto.AuthOutput, error) {
	token, expiresAt, err := uc.Tokens.Issue(session)
	if err != nil {
		return nil, err
	}
	issued, err := uc.Tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("parse issued token: %w", err)
	}
	if err := uc.Sessions.Save(ctx, *issued); err != nil {
		return nil, err
	}

	return &authdto.AuthOutput{
		Token:        token,
		ExpiresAt:    expiresAt,
		SubjectID:    issued.SubjectID,
		Email:        issued.Email,
		Kind:         issued.Kind,
		IsAdmin:      issued.IsAdmin,
		ReferralCode: referralCode,
	}, nil
}

func (uc *DefaultAuthUsecase) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	session, err := uc.Tokens.Parse(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	active, err := uc.Sessions.Exists(ctx, session.TokenID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, domain.ErrUnauthenticated
	}
	return session, nil
}

func (uc *DefaultAuthUsecase) Logout(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return domain.ErrUnauthenticated
	}
	return uc.Sessions.Delete(ctx, session.TokenID)
}

// RequestPasswordReset mails a one-time reset link. An unknown or disabled
// account gets the same silent success as a known one.
func (uc *DefaultAuthUsecase) RequestPasswordReset(ctx context.Context, input *authdto.ResetRequestInput) error {
	email := normalizeEmail(input.Email)
	if err := validateEmail(email); err != nil {
		return err
	}
	if !input.Kind.Valid() {
		return fmt.Errorf("%w: unknown account kind %q", domain.ErrInvalidInput, input.Kind)
	}

	subjectID, err := uc.lookupActiveSubject(ctx, input.Kind, email)
	if err != nil {
		return err
	}
	if subjectID == "" {
		uc.Logger.Info("password reset requested for unknown account", zap.String("kind", string(input.Kind)))
		return nil
	}

	tokenGenerator, err := nanoid.Standard(resetTokenLength)
	if err != nil {
		return err
	}
	token := tokenGenerator()

	ticket := domain.ResetTicket{SubjectID: subjectID, Kind: input.Kind}
	if err := uc.Resets.Put(ctx, token, ticket, uc.settings.ResetTokenTTL); err != nil {
		return err
	}

	link, err := resetLink(uc.settings.ResetLinkURL, token)
	if err != nil {
		return err
	}
	if err := uc.Mailer.SendPasswordReset(ctx, email, link); err != nil {
		return fmt.Errorf("%w: send reset mail: %v", domain.ErrUpstream, err)
	}

	uc.Events.Publish(ctx, domain.Event{
		Topic:   domain.TopicResetRequested,
		Key:     subjectID,
		Payload: domain.ResetRequestedPayload{SubjectID: subjectID, Kind: input.Kind},
	})
	return nil
}

func (uc *DefaultAuthUsecase) lookupActiveSubject(ctx context.Context, kind domain.SubjectKind, email string) (string, error) {
	switch kind {
	case domain.KindUser:
		user, err := uc.UserRepo.GetUserByEmail(ctx, email)
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		if user.Status != domain.StatusActive {
			return "", nil
		}
		return user.ID, nil
	default:
		partner, err := uc.PartnerRepo.GetPartnerByEmail(ctx, email)
		if errors.Is(err, domain.ErrPartnerNotFound) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		if partner.Status != domain.StatusActive {
			return "", nil
		}
		return partner.ID, nil
	}
}

func resetLink(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse reset link url: %w", err)
	}
	query := u.Query()
	query.Set("token", token)
	u.RawQuery = query.Encode()
	return u.String(), nil
}

func (uc *DefaultAuthUsecase) ConfirmPasswordReset(ctx context.Context, input *authdto.ResetConfirmInput) error {
	if input.Token == "" {
		return domain.ErrResetTokenInvalid
	}
	if err := validatePassword(input.NewPassword); err != nil {
		return err
	}

	ticket, err := uc.Resets.Take(ctx, input.Token)
	if err != nil {
		return err
	}

	hash, err := uc.Hasher.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	switch ticket.Kind {
	case domain.KindUser:
		err = uc.UserRepo.UpdatePassword(ctx, ticket.SubjectID, hash)
	case domain.KindPartner:
		err = uc.PartnerRepo.UpdatePassword(ctx, ticket.SubjectID, hash)
	default:
		return domain.ErrResetTokenInvalid
	}
	if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrPartnerNotFound) {
		return domain.ErrResetTokenInvalid
	}
	if err != nil {
		return err
	}

	if err := uc.Sessions.DeleteSubject(ctx, ticket.Kind, ticket.SubjectID); err != nil {
		return fmt.Errorf("revoke sessions after password reset: %w", err)
	}

	uc.Logger.Info("password reset completed",
		zap.String("subject_id", ticket.SubjectID),
		zap.String("kind", string(ticket.Kind)),
	)
	return nil
}

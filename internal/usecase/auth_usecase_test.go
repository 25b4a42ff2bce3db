package usecase_test

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/LavaJover/shvark-partner-service/internal/domain"
	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/security"
	"github.com/LavaJover/shvark-partner-service/internal/usecase"
	authdto "github.com/LavaJover/shvark-partner-service/internal/usecase/dto/auth"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	uc       *usecase.DefaultAuthUsecase
	users    *memUserRepo
	partners *memPartnerRepo
	sessions *memSessionStore
	resets   *memResetStore
	mailer   *recordingMailer
	events   *recordingEvents
}

func newAuthFixture(captchaErr error) *authFixture {
	f := &authFixture{
		users:    newMemUserRepo(),
		partners: newMemPartnerRepo(),
		sessions: newMemSessionStore(),
		resets:   newMemResetStore(),
		mailer:   &recordingMailer{},
		events:   &recordingEvents{},
	}
	f.uc = usecase.NewDefaultAuthUsecase(usecase.AuthDependencies{
		UserRepo:    f.users,
		PartnerRepo: f.partners,
		Hasher:      plainHasher{},
		Tokens:      security.NewJWTManager("test-secret", "partners", time.Hour),
		Sessions:    f.sessions,
		Resets:      f.resets,
		Captcha:     stubCaptcha{err: captchaErr},
		Mailer:      f.mailer,
		Events:      f.events,
		Metrics:     newMetrics(),
		Logger:      nopLogger,
	}, usecase.AuthSettings{
		ResetTokenTTL: 30 * time.Minute,
		ResetLinkURL:  "https://tradi.io/reset-password",
	})
	return f
}

func TestAuthUsecase(t *testing.T) {
	t.Run("user signup then login", testUserSignupLogin)
	t.Run("signup validates input", testSignupValidation)
	t.Run("signup refuses taken email", testSignupEmailTaken)
	t.Run("signup requires captcha", testSignupCaptcha)
	t.Run("partner signup links referrer", testPartnerSignupReferral)
	t.Run("partner signup rejects unknown referral code", testPartnerSignupUnknownCode)
	t.Run("partner signup regenerates a colliding referral code", testPartnerSignupCodeCollision)
	t.Run("partner signup gives up after repeated code collisions", testPartnerSignupCodeCollisionExhausted)
	t.Run("login rejects bad credentials", testLoginBadCredentials)
	t.Run("login rejects disabled account", testLoginDisabled)
	t.Run("partner login carries admin flag", testPartnerLoginAdmin)
	t.Run("logout revokes the session", testLogout)
	t.Run("password reset round trip", testPasswordReset)
	t.Run("password reset for unknown email is silent", testPasswordResetUnknown)
	t.Run("password reset mail failure is upstream", testPasswordResetMailFailure)
	t.Run("reset token redeems once", testResetTokenOnce)
	t.Run("password reset revokes existing sessions", testPasswordResetRevokesSessions)
}

func testUserSignupLogin(t *testing.T) {
	f := newAuthFixture(nil)
	ctx := context.Background()

	out, err := f.uc.SignupUser(ctx, &authdto.SignupInput{Email: " Trader@Tradi.io ", Password: "correct-horse"})
	require.NoError(t, err)
	require.Equal(t, "trader@tradi.io", out.Email)
	require.Equal(t, domain.KindUser, out.Kind)
	require.NotEmpty(t, out.Token)
	require.Equal(t, []string{domain.TopicUserSignedUp}, f.events.topics())

	login, err := f.uc.LoginUser(ctx, &authdto.LoginInput{Email: "trader@tradi.io", Password: "correct-horse"})
	require.NoError(t, err)
	require.Equal(t, out.SubjectID, login.SubjectID)

	session, err := f.uc.Authenticate(ctx, login.Token)
	require.NoError(t, err)
	require.Equal(t, out.SubjectID, session.SubjectID)
	require.Equal(t, domain.KindUser, session.Kind)
}

func testSignupValidation(t *testing.T) {
	f := newAuthFixture(nil)
	ctx := context.Background()

	_, err := f.uc.SignupUser(ctx, &authdto.SignupInput{Email: "not-an-email", Password: "correct-horse"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.SignupUser(ctx, &authdto.SignupInput{Email: "a@tradi.io", Password: "short"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func testSignupEmailTaken(t *testing.T) {
	f := newAuthFixture(nil)
	ctx := context.Background()

	_, err := f.uc.SignupPartner(ctx, &authdto.PartnerSignupInput{SignupInput: authdto.SignupInput{Email: "p@tradi.io", Password: "correct-horse"}})
	require.NoError(t, err)
	_, err = f.uc.SignupPartner(ctx, &authdto.PartnerSignupInput{SignupInput: authdto.SignupInput{Email: "P@tradi.io", Password: "other-horse"}})
	require.ErrorIs(t, err, domain.ErrEmailTaken)
}

func testSignupCaptcha(t *testing.T) {
	f := newAuthFixture(domain.ErrCaptchaFailed)

	_, err := f.uc.SignupUser(context.Background(), &authdto.SignupInput{Email: "a@tradi.io", Password: "correct-horse"})
	require.ErrorIs(t, err, domain.ErrCaptchaFailed)
	require.Empty(t, f.users.users)
}

func testPartnerSignupReferral(t *testing.T) {
	f := newAuthFixture(nil)
	ctx := context.Background()

	root := f.partners.put(&domain.Partner{ID: "root", Email: "root@tradi.io", Rank: domain.RankKimCuong, ReferralCode: "ROOTCODE"})

	out, err := f.uc.SignupPartner(ctx, &authdto.PartnerSignupInput{
		SignupInput:  authdto.SignupInput{Email: "new@tradi.io", Password: "correct-horse"},
		ReferralCode: "ROOTCODE",
	})
	require.NoError(t, err)
	require.Equal(t, domain.KindPartner, out.Kind)
	require.Len(t, out.ReferralCode, 8)

	created, err := f.partners.GetPartnerByID(ctx, out.SubjectID)
	require.NoError(t, err)
	require.Equal(t, domain.RankDong, created.Rank)
	require.NotNil(t, created.ReferredBy)
	require.Equal(t, root.ID, *created.ReferredBy)
	require.Equal(t, out.ReferralCode, created.ReferralCode)

	payload := f.events.events[0].Payload.(domain.PartnerSignedUpPayload)
	require.Equal(t, root.ID, *payload.ReferredBy)
}

func testPartnerSignupUnknownCode(t *testing.T) {
	f := newAuthFixture(nil)

	_, err := f.uc.SignupPartner(context.Background(), &authdto.PartnerSignupInput{
		SignupInput:  authdto.SignupInput{Email: "new@tradi.io", Password: "correct-horse"},
		ReferralCode: "NOPE",
	})
	require.ErrorIs(t, err, domain.ErrReferralCodeNotFound)
}

func testPartnerSignupCodeCollision(t *testing.T) {
	f := newAuthFixture(nil)
	f.partners.codeCollisions = 2

	out, err := f.uc.SignupPartner(context.Background(), &authdto.PartnerSignupInput{
		SignupInput: authdto.SignupInput{Email: "new@tradi.io", Password: "correct-horse"},
	})
	require.NoError(t, err)
	require.Equal(t, 3, f.partners.createCalls)
	require.Len(t, out.ReferralCode, 8)

	created, err := f.partners.GetPartnerByID(context.Background(), out.SubjectID)
	require.NoError(t, err)
	require.Equal(t, out.ReferralCode, created.ReferralCode)
}

func testPartnerSignupCodeCollisionExhausted(t *testing.T) {
	f := newAuthFixture(nil)
	f.partners.codeCollisions = 5

	_, err := f.uc.SignupPartner(context.Background(), &authdto.PartnerSignupInput{
		SignupInput: authdto.SignupInput{Email: "new@tradi.io", Password: "correct-horse"},
	})
	require.ErrorIs(t, err, domain.ErrReferralCodeTaken)
	require.NotErrorIs(t, err, domain.ErrEmailTaken)
	require.Equal(t, 3, f.partners.createCalls)
	require.Empty(t, f.partners.partners)
	require.Empty(t, f.events.events)
}

func testLoginBadCredentials(t *testing.T) {
	f := newAuthFixture(nil)
	ctx := context.Background()

	_, err := f.uc.SignupUser(ctx, &authdto.SignupInput{Email: "a@tradi.io", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = f.uc.LoginUser(ctx, &authdto.LoginInput{Email: "a@tradi.io", Password: "wrong-horse"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.uc.LoginUser(ctx, &authdto.LoginInput{Email: "ghost@tradi.io", Password: "correct-horse"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func testLoginDisabled(t *testing.T) {
	f := newAuthFixture(nil)
	f.partners.put(&domain.Partner{ID: "p", Email: "p@tradi.io", PasswordHash: "hashed:correct-horse", Status: domain.StatusDisabled})

	_, err := f.uc.LoginPartner(context.Background(), &authdto.LoginInput{Email: "p@tradi.io", Password: "correct-horse"})
	require.ErrorIs(t, err, domain.ErrAccountDisabled)
}

func testPartnerLoginAdmin(t *testing.T) {
	f := newAuthFixture(nil)
	f.partners.put(&domain.Partner{ID: "adm", Email: "admin@tradi.io", PasswordHash: "hashed:correct-horse", IsAdmin: true})

	out, err := f.uc.LoginPartner(context.Background(), &authdto.LoginInput{Email: "admin@tradi.io", Password: "correct-horse"})
	require.NoError(t, err)
	require.True(t, out.IsAdmin)
	require.Equal(t, "ADM", out.ReferralCode)
}

func testLogout(t *testing.T) {
	f := newAuthFixture(nil)
	ctx := context.Background()

	out, err := f.uc.SignupUser(ctx, &authdto.SignupInput{Email: "a@tradi.io", Password: "correct-horse"})
	require.NoError(t, err)

	session, err := f.uc.Authenticate(ctx, out.Token)
	require.NoError(t, err)
	require.NoError(t, f.uc.Logout(ctx, session))

	_, err = f.uc.Authenticate(ctx, out.Token)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = f.uc.Authenticate(ctx, "garbage")
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func resetTokenFrom(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	return u.Query().Get("token")
}

func testPasswordReset(t *testing.T) {
	f := newAuthFixture(nil)
	ctx := context.Background()
	f.partners.put(&domain.Partner{ID: "p", Email: "p@tradi.io", PasswordHash: "hashed:old-password"})

	require.NoError(t, f.uc.RequestPasswordReset(ctx, &authdto.ResetRequestInput{Email: "p@tradi.io", Kind: domain.KindPartner}))
	require.Len(t, f.mailer.sent, 1)
	require.Equal(t, "p@tradi.io", f.mailer.sent[0].email)
	require.Contains(t, f.mailer.sent[0].link, "https://tradi.io/reset-password?token=")
	require.Contains(t, f.events.topics(), domain.TopicResetRequested)

	token := resetTokenFrom(t, f.mailer.sent[0].link)
	require.NoError(t, f.uc.ConfirmPasswordReset(ctx, &authdto.ResetConfirmInput{Token: token, NewPassword: "new-password"}))

	_, err := f.uc.LoginPartner(ctx, &authdto.LoginInput{Email: "p@tradi.io", Password: "new-password"})
	require.NoError(t, err)
}

func testPasswordResetRevokesSessions(t *testing.T) {
	f := newAuthFixture(nil)
	ctx := context.Background()
	f.partners.put(&domain.Partner{ID: "p", Email: "p@tradi.io", PasswordHash: "hashed:old-password"})

	before, err := f.uc.LoginPartner(ctx, &authdto.LoginInput{Email: "p@tradi.io", Password: "old-password"})
	require.NoError(t, err)
	bystander, err := f.uc.SignupUser(ctx, &authdto.SignupInput{Email: "u@tradi.io", Password: "correct-horse"})
	require.NoError(t, err)

	require.NoError(t, f.uc.RequestPasswordReset(ctx, &authdto.ResetRequestInput{Email: "p@tradi.io", Kind: domain.KindPartner}))
	token := resetTokenFrom(t, f.mailer.sent[0].link)
	require.NoError(t, f.uc.ConfirmPasswordReset(ctx, &authdto.ResetConfirmInput{Token: token, NewPassword: "new-password"}))

	_, err = f.uc.Authenticate(ctx, before.Token)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = f.uc.Authenticate(ctx, bystander.Token)
	require.NoError(t, err)

	after, err := f.uc.LoginPartner(ctx, &authdto.LoginInput{Email: "p@tradi.io", Password: "new-password"})
	require.NoError(t, err)
	_, err = f.uc.Authenticate(ctx, after.Token)
	require.NoError(t, err)
}

func testPasswordResetUnknown(t *testing.T) {
	f := newAuthFixture(nil)

	err := f.uc.RequestPasswordReset(context.Background(), &authdto.ResetRequestInput{Email: "ghost@tradi.io", Kind: domain.KindUser})
	require.NoError(t, err)
	require.Empty(t, f.mailer.sent)
	require.Empty(t, f.resets.tickets)

	err = f.uc.RequestPasswordReset(context.Background(), &authdto.ResetRequestInput{Email: "ghost@tradi.io", Kind: "robot"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func testPasswordResetMailFailure(t *testing.T) {
	f := newAuthFixture(nil)
	f.mailer.err = errors.New("smtp down")
	_, err := f.uc.SignupUser(context.Background(), &authdto.SignupInput{Email: "a@tradi.io", Password: "correct-horse"})
	require.NoError(t, err)

	err = f.uc.RequestPasswordReset(context.Background(), &authdto.ResetRequestInput{Email: "a@tradi.io", Kind: domain.KindUser})
	require.ErrorIs(t, err, domain.ErrUpstream)
}

func testResetTokenOnce(t *testing.T) {
	f := newAuthFixture(nil)
	ctx := context.Background()
	_, err := f.uc.SignupUser(ctx, &authdto.SignupInput{Email: "a@tradi.io", Password: "correct-horse"})
	require.NoError(t, err)

	require.NoError(t, f.uc.RequestPasswordReset(ctx, &authdto.ResetRequestInput{Email: "a@tradi.io", Kind: domain.KindUser}))
	token := resetTokenFrom(t, f.mailer.sent[0].link)

	require.NoError(t, f.uc.ConfirmPasswordReset(ctx, &authdto.ResetConfirmInput{Token: token, NewPassword: "another-pass"}))
	err = f.uc.ConfirmPasswordReset(ctx, &authdto.ResetConfirmInput{Token: token, NewPassword: "third-pass!"})
	require.ErrorIs(t, err, domain.ErrResetTokenInvalid)
}

var _ usecase.AuthUsecase = (*usecase.DefaultAuthUsecase)(nil)

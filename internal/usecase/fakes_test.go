package usecase_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/LavaJover/shvark-partner-service/internal/domain"
	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func newMetrics() *metrics.PartnerMetrics {
	return metrics.NewPartnerMetrics(prometheus.NewRegistry())
}

var nopLogger = zap.NewNop()

type memUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*domain.User{}}
}

func (r *memUserRepo) CreateUser(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *memUserRepo) GetUserByID(_ context.Context, userID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *memUserRepo) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

type memPartnerRepo struct {
	mu       sync.Mutex
	seq      int
	partners map[string]*domain.Partner
	volumes  []*domain.VolumeRecord
	// codeCollisions makes the next CreatePartner calls report a taken referral code.
	codeCollisions int
	createCalls    int
}

func newMemPartnerRepo() *memPartnerRepo {
	return &memPartnerRepo{partners: map[string]*domain.Partner{}}
}

// put stores a partner as is, for test setup.
func (r *memPartnerRepo) put(p *domain.Partner) *domain.Partner {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.Status == "" {
		p.Status = domain.StatusActive
	}
	if p.ReferralCode == "" {
		p.ReferralCode = strings.ToUpper(p.ID)
	}
	r.partners[p.ID] = p
	return p
}

func (r *memPartnerRepo) CreatePartner(_ context.Context, partner *domain.Partner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	for _, p := range r.partners {
		if p.Email == partner.Email {
			return domain.ErrEmailTaken
		}
		if p.ReferralCode == partner.ReferralCode {
			return domain.ErrReferralCodeTaken
		}
	}
	if r.codeCollisions > 0 {
		r.codeCollisions--
		return domain.ErrReferralCodeTaken
	}
	r.seq++
	partner.ID = fmt.Sprintf("partner-%d", r.seq)
	stored := *partner
	r.partners[partner.ID] = &stored
	return nil
}

func (r *memPartnerRepo) GetPartnerByID(_ context.Context, partnerID string) (*domain.Partner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.partners[partnerID]
	if !ok {
		return nil, domain.ErrPartnerNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *memPartnerRepo) find(match func(*domain.Partner) bool) *domain.Partner {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.partners {
		if match(p) {
			copied := *p
			return &copied
		}
	}
	return nil
}

func (r *memPartnerRepo) GetPartnerByEmail(_ context.Context, email string) (*domain.Partner, error) {
	if p := r.find(func(p *domain.Partner) bool { return p.Email == email }); p != nil {
		return p, nil
	}
	return nil, domain.ErrPartnerNotFound
}

func (r *memPartnerRepo) GetPartnerByReferralCode(_ context.Context, code string) (*domain.Partner, error) {
	if p := r.find(func(p *domain.Partner) bool { return p.ReferralCode == code }); p != nil {
		return p, nil
	}
	return nil, domain.ErrReferralCodeNotFound
}

func (r *memPartnerRepo) sorted() []*domain.Partner {
	partners := make([]*domain.Partner, 0, len(r.partners))
	for _, p := range r.partners {
		copied := *p
		partners = append(partners, &copied)
	}
	sort.Slice(partners, func(i, j int) bool { return partners[i].ID < partners[j].ID })
	return partners
}

func (r *memPartnerRepo) GetDirectReferrals(_ context.Context, partnerID string) ([]*domain.Partner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var referrals []*domain.Partner
	for _, p := range r.sorted() {
		if p.ReferredBy != nil && *p.ReferredBy == partnerID {
			referrals = append(referrals, p)
		}
	}
	return referrals, nil
}

func (r *memPartnerRepo) ListPartners(_ context.Context, afterID string, limit int) ([]*domain.Partner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var page []*domain.Partner
	for _, p := range r.sorted() {
		if p.ID <= afterID {
			continue
		}
		page = append(page, p)
		if len(page) == limit {
			break
		}
	}
	return page, nil
}

func (r *memPartnerRepo) AddVolume(_ context.Context, record *domain.VolumeRecord) (*domain.Partner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.partners[record.PartnerID]
	if !ok {
		return nil, domain.ErrPartnerNotFound
	}
	p.TotalLots = p.TotalLots.Add(record.Lots)
	p.TotalRewardUSD = p.TotalRewardUSD.Add(record.RewardUSD)
	r.volumes = append(r.volumes, record)
	copied := *p
	return &copied, nil
}

func (r *memPartnerRepo) UpdateRank(_ context.Context, partnerID string, from, to domain.Rank) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.partners[partnerID]
	if !ok || p.Rank != from {
		return false, nil
	}
	p.Rank = to
	return true, nil
}

func (r *memPartnerRepo) UpdatePassword(_ context.Context, partnerID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.partners[partnerID]
	if !ok {
		return domain.ErrPartnerNotFound
	}
	p.PasswordHash = passwordHash
	return nil
}

// memLicenseRepo serialises every call, which is the guarantee the Postgres
// implementation gives per email.
type memLicenseRepo struct {
	mu       sync.Mutex
	seq      int
	accounts []*domain.LicensedAccount
}

func (r *memLicenseRepo) GrantLicense(_ context.Context, account *domain.LicensedAccount, maxPerEmail int) (*domain.LicensedAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var existing *domain.LicensedAccount
	licensed := 0
	for _, a := range r.accounts {
		if a.AccountID == account.AccountID && a.Platform == account.Platform {
			existing = a
		}
		if a.Email == account.Email && a.Status == domain.LicenseLicensed {
			licensed++
		}
	}
	if existing != nil && existing.Status == domain.LicenseLicensed {
		return nil, domain.ErrAccountAlreadyLicensed
	}
	if licensed >= maxPerEmail {
		return nil, domain.ErrLicenseLimitReached
	}

	now := time.Now().UTC()
	if existing != nil {
		existing.Email = account.Email
		existing.UID = account.UID
		existing.Status = domain.LicenseLicensed
		existing.LicensedDate = now
		existing.GrantedBy = account.GrantedBy
		copied := *existing
		return &copied, nil
	}

	r.seq++
	stored := *account
	stored.ID = fmt.Sprintf("lic-%d", r.seq)
	stored.Status = domain.LicenseLicensed
	stored.LicensedDate = now
	r.accounts = append(r.accounts, &stored)
	copied := stored
	return &copied, nil
}

func (r *memLicenseRepo) RevokeLicense(_ context.Context, accountID, email string) ([]*domain.LicensedAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var revoked []*domain.LicensedAccount
	for _, a := range r.accounts {
		if a.AccountID == accountID && a.Email == email && a.Status == domain.LicenseLicensed {
			a.Status = domain.LicenseUnlicensed
			copied := *a
			revoked = append(revoked, &copied)
		}
	}
	if len(revoked) == 0 {
		return nil, domain.ErrLicenseNotFound
	}
	return revoked, nil
}

func (r *memLicenseRepo) GetLicensesByEmail(_ context.Context, email string) ([]*domain.LicensedAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var accounts []*domain.LicensedAccount
	for _, a := range r.accounts {
		if a.Email == email {
			copied := *a
			accounts = append(accounts, &copied)
		}
	}
	return accounts, nil
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (plainHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: map[string]domain.Session{}}
}

func (s *memSessionStore) Save(_ context.Context, session domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.TokenID] = session
	return nil
}

func (s *memSessionStore) Exists(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[tokenID]
	return ok, nil
}

func (s *memSessionStore) Delete(_ context.Context, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, tokenID)
	return nil
}

func (s *memSessionStore) DeleteSubject(_ context.Context, kind domain.SubjectKind, subjectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for tokenID, session := range s.sessions {
		if session.Kind == kind && session.SubjectID == subjectID {
			delete(s.sessions, tokenID)
		}
	}
	return nil
}

type memResetStore struct {
	mu      sync.Mutex
	tickets map[string]domain.ResetTicket
}

func newMemResetStore() *memResetStore {
	return &memResetStore{tickets: map[string]domain.ResetTicket{}}
}

func (s *memResetStore) Put(_ context.Context, token string, ticket domain.ResetTicket, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickets[token] = ticket
	return nil
}

func (s *memResetStore) Take(_ context.Context, token string) (*domain.ResetTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.tickets[token]
	if !ok {
		return nil, domain.ErrResetTokenInvalid
	}
	delete(s.tickets, token)
	return &ticket, nil
}

type stubCaptcha struct {
	err error
}

func (c stubCaptcha) Verify(context.Context, string, string) error {
	return c.err
}

type sentMail struct {
	email string
	link  string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, email, resetLink string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{email: email, link: resetLink})
	return nil
}

type recordingEvents struct {
	mu     sync.Mutex
	events []domain.Event
}

func (e *recordingEvents) Publish(_ context.Context, event domain.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
}

func (e *recordingEvents) topics() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	topics := make([]string, len(e.events))
	for i, ev := range e.events {
		topics[i] = ev.Topic
	}
	return topics
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string {
	return &s
}

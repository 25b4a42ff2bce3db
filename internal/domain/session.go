package domain

import (
	"context"
	"time"
)

type SubjectKind string

const (
	KindUser    SubjectKind = "user"
	KindPartner SubjectKind = "partner"
)

func (k SubjectKind) Valid() bool {
	return k == KindUser || k == KindPartner
}

// Session identifies the caller of a request. It travels in the request
// context and is never read from ambient storage.
type Session struct {
	TokenID   string
	SubjectID string
	Email     string
	Kind      SubjectKind
	IsAdmin   bool
	ExpiresAt time.Time
}

type TokenManager interface {
	Issue(session Session) (string, time.Time, error)
	Parse(token string) (*Session, error)
}

type SessionStore interface {
	Save(ctx context.Context, session Session) error
	Exists(ctx context.Context, tokenID string) (bool, error)
	Delete(ctx context.Context, tokenID string) error
	// DeleteSubject revokes every live session of one account.
	DeleteSubject(ctx context.Context, kind SubjectKind, subjectID string) error
}

// ResetTicket is what a password reset token redeems to.
type ResetTicket struct {
	SubjectID string      `json:"subject_id"`
	Kind      SubjectKind `json:"kind"`
}

type ResetTokenStore interface {
	Put(ctx context.Context, token string, ticket ResetTicket, ttl time.Duration) error
	// Take returns the ticket and deletes the token; a token redeems once.
	Take(ctx context.Context, token string) (*ResetTicket, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type CaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

type Mailer interface {
	SendPasswordReset(ctx context.Context, email, resetLink string) error
}

package security

import (
	"fmt"
	"time"

	"github.com/LavaJover/shvark-partner-service/internal/domain"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type sessionClaims struct {
	Email string             `json:"email"`
	Kind  domain.SubjectKind `json:"kind"`
	Admin bool               `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager signs sessions as HS256 tokens.
type JWTManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTManager(secret, issuer string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *JWTManager) Issue(session domain.Session) (string, time.Time, error) {
	if session.TokenID == "" {
		session.TokenID = uuid.New().String()
	}
	now := m.now().UTC()
	expiresAt := now.Add(m.ttl)

	claims := sessionClaims{
		Email: session.Email,
		Kind:  session.Kind,
		Admin: session.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.TokenID,
			Subject:   session.SubjectID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (m *JWTManager) Parse(token string) (*domain.Session, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrUnauthenticated
	}
	if claims.Issuer != m.issuer || claims.ID == "" || claims.Subject == "" || !claims.Kind.Valid() {
		return nil, domain.ErrUnauthenticated
	}
	// jwt/v4 skips the exp check when the claim is absent.
	if claims.ExpiresAt == nil {
		return nil, domain.ErrUnauthenticated
	}

	return &domain.Session{
		TokenID:   claims.ID,
		SubjectID: claims.Subject,
		Email:     claims.Email,
		Kind:      claims.Kind,
		IsAdmin:   claims.Admin,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

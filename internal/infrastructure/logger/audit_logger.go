package logger

import (
	"context"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-partner-service/internal/domain"
	"gorm.io/gorm"
)

type LicenseAuditEvent struct {
	ID        uint `gorm:"primaryKey"`
	Topic     string
	AccountID string
	Email     string
	Platform  string
	Status    string
	Actor     string
	Timestamp time.Time
}

func (LicenseAuditEvent) TableName() string {
	return "license_audit_events"
}

type LicenseEventLogger interface {
	LogLicenseEvent(ctx context.Context, event domain.Event) error
}

// PGLicenseEventLogger keeps an append-only trail of license grants and
// revocations in Postgres.
type PGLicenseEventLogger struct {
	db *gorm.DB
}

func NewPGLicenseEventLogger(db *gorm.DB) *PGLicenseEventLogger {
	return &PGLicenseEventLogger{db: db}
}

func (l *PGLicenseEventLogger) LogLicenseEvent(ctx context.Context, event domain.Event) error {
	payload, ok := event.Payload.(domain.LicensePayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Topic)
	}
	return l.db.WithContext(ctx).Create(&LicenseAuditEvent{
		Topic:     event.Topic,
		AccountID: payload.AccountID,
		Email:     payload.Email,
		Platform:  payload.Platform,
		Status:    string(payload.Status),
		Actor:     payload.Actor,
		Timestamp: event.OccurredAt,
	}).Error
}

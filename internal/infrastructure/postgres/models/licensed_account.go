package models

import "time"

type LicensedAccountModel struct {
	ID           string    `gorm:"primaryKey;type:uuid"`
	AccountID    string    `gorm:"not null;uniqueIndex:idx_account_platform"`
	Platform     string    `gorm:"not null;uniqueIndex:idx_account_platform"`
	Email        string    `gorm:"not null;index:idx_email_status"`
	Status       string    `gorm:"not null;index:idx_email_status"`
	UID          string    `gorm:"column:uid"`
	LicensedDate time.Time `gorm:"not null"`
	GrantedBy    string
	UpdatedAt    time.Time
}

func (LicensedAccountModel) TableName() string {
	return "licensed_accounts"
}

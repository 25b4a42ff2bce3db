package repository

import (
	"context"
	"errors"
	"time"

	"github.com/LavaJover/shvark-partner-service/internal/domain"
	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultLicenseRepository struct {
	DB *gorm.DB
}

func NewDefaultLicenseRepository(db *gorm.DB) *DefaultLicenseRepository {
	return &DefaultLicenseRepository{
		DB: db,
	}
}

// lockEmail serialises license writes of one email until the transaction ends.
func lockEmail(tx *gorm.DB, email string) error {
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", email).Error
}

func (r *DefaultLicenseRepository) GrantLicense(ctx context.Context, account *domain.LicensedAccount, maxPerEmail int) (*domain.LicensedAccount, error) {
	var granted *models.LicensedAccountModel

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockEmail(tx, account.Email); err != nil {
			return err
		}

		var existing models.LicensedAccountModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("account_id = ? AND platform = ?", account.AccountID, account.Platform).
			Take(&existing).Error
		found := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if found && existing.Status == string(domain.LicenseLicensed) {
			return domain.ErrAccountAlreadyLicensed
		}

		var licensed int64
		if err := tx.Model(&models.LicensedAccountModel{}).
			Where("email = ? AND status = ?", account.Email, string(domain.LicenseLicensed)).
			Count(&licensed).Error; err != nil {
			return err
		}
		if licensed >= int64(maxPerEmail) {
			return domain.ErrLicenseLimitReached
		}

		now := time.Now().UTC()
		if found {
			existing.Email = account.Email
			existing.UID = account.UID
			existing.Status = string(domain.LicenseLicensed)
			existing.LicensedDate = now
			existing.GrantedBy = account.GrantedBy
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			granted = &existing
			return nil
		}

		model := mappers.ToGORMLicensedAccount(account)
		model.ID = uuid.New().String()
		model.Status = string(domain.LicenseLicensed)
		model.LicensedDate = now
		if err := tx.Create(model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrAccountAlreadyLicensed
			}
			return err
		}
		granted = model
		return nil
	})
	if err != nil {
		return nil, err
	}

	return mappers.ToDomainLicensedAccount(granted), nil
}

func (r *DefaultLicenseRepository) RevokeLicense(ctx context.Context, accountID, email string) ([]*domain.LicensedAccount, error) {
	var revoked []models.LicensedAccountModel

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockEmail(tx, email); err != nil {
			return err
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("account_id = ? AND email = ? AND status = ?", accountID, email, string(domain.LicenseLicensed)).
			Find(&revoked).Error; err != nil {
			return err
		}
		if len(revoked) == 0 {
			return domain.ErrLicenseNotFound
		}

		now := time.Now().UTC()
		ids := make([]string, len(revoked))
		for i := range revoked {
			ids[i] = revoked[i].ID
			revoked[i].Status = string(domain.LicenseUnlicensed)
			revoked[i].UpdatedAt = now
		}

		return tx.Model(&models.LicensedAccountModel{}).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"status":     string(domain.LicenseUnlicensed),
				"updated_at": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.LicensedAccount, len(revoked))
	for i := range revoked {
		accounts[i] = mappers.ToDomainLicensedAccount(&revoked[i])
	}
	return accounts, nil
}

func (r *DefaultLicenseRepository) GetLicensesByEmail(ctx context.Context, email string) ([]*domain.LicensedAccount, error) {
	var accountModels []models.LicensedAccountModel
	if err := r.DB.WithContext(ctx).
		Where("email = ?", email).
		Order("licensed_date DESC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}

	accounts := make([]*domain.LicensedAccount, len(accountModels))
	for i := range accountModels {
		accounts[i] = mappers.ToDomainLicensedAccount(&accountModels[i])
	}
	return accounts, nil
}

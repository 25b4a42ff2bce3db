package mappers

import (
	"github.com/LavaJover/shvark-partner-service/internal/domain"
	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/postgres/models"
)

func ToDomainLicensedAccount(model *models.LicensedAccountModel) *domain.LicensedAccount {
	return &domain.LicensedAccount{
		ID:           model.ID,
		AccountID:    model.AccountID,
		Email:        model.Email,
		UID:          model.UID,
		Platform:     model.Platform,
		LicensedDate: model.LicensedDate,
		Status:       domain.LicenseStatus(model.Status),
		GrantedBy:    model.GrantedBy,
		UpdatedAt:    model.UpdatedAt,
	}
}

func ToGORMLicensedAccount(account *domain.LicensedAccount) *models.LicensedAccountModel {
	return &models.LicensedAccountModel{
		ID:           account.ID,
		AccountID:    account.AccountID,
		Email:        account.Email,
		UID:          account.UID,
		Platform:     account.Platform,
		LicensedDate: account.LicensedDate,
		Status:       string(account.Status),
		GrantedBy:    account.GrantedBy,
		UpdatedAt:    account.UpdatedAt,
	}
}

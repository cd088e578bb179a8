package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "croplife/internal/errors"
	"croplife/internal/model"
)

// AdminRepository persists the singleton admin record.
type AdminRepository interface {
	// Get returns the admin record or apperrors.ErrAdminNotFound.
	Get(ctx context.Context) (*model.AdminUser, error)
	// Create inserts the admin record under the singleton key. It returns
	// apperrors.ErrAdminExists when the record is already present.
	Create(ctx context.Context, admin *model.AdminUser) error
	// Update stores new credentials on the existing record.
	Update(ctx context.Context, admin *model.AdminUser) error
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository builds a GORM-backed admin repository.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Get(ctx context.Context) (*model.AdminUser, error) {
	var admin model.AdminUser
	if err := r.db.WithContext(ctx).First(&admin, model.AdminSingletonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) Create(ctx context.Context, admin *model.AdminUser) error {
	admin.ID = model.AdminSingletonID
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(admin)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrAdminExists
	}
	return nil
}

func (r *adminRepository) Update(ctx context.Context, admin *model.AdminUser) error {
	admin.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&model.AdminUser{}).
		Where("id = ?", model.AdminSingletonID).
		Updates(map[string]interface{}{
			"username":      admin.Username,
			"password_hash": admin.PasswordHash,
			"updated_at":    admin.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrAdminNotFound
	}
	return nil
}

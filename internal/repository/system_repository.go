package repository

import (
	"context"
	"errors"
	"time"

	"linkboard/internal/model"

	"gorm.io/gorm"
)

type SystemRepository struct {
	db *gorm.DB
}

func NewSystemRepository(db *gorm.DB) *SystemRepository {
	return &SystemRepository{db: db}
}

// GetOrCreate returns the singleton settings row, creating it with the default
// route boards on first use.
func (r *SystemRepository) GetOrCreate(ctx context.Context) (*model.SystemSettings, error) {
	var settings model.SystemSettings
	err := r.db.WithContext(ctx).
		Where("id = ?", model.SystemSettingsSingletonID).
		First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings = model.SystemSettings{
		ID:                    model.SystemSettingsSingletonID,
		GlobalHomepageBoardID: "home",
		GlobalInsightsBoardID: "insights",
		GlobalSettingsBoardID: "settings",
		GlobalSigninBoardID:   "signin",
		GlobalSignupBoardID:   "signin",
		UpdatedAt:             time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *SystemRepository) Save(ctx context.Context, settings *model.SystemSettings) error {
	settings.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Save(settings).Error
}

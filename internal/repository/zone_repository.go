package repository

import (
	"nudo_backend/internal/model"

	"gorm.io/gorm"
)

type ZoneRepository struct {
	DB *gorm.DB
}

func NewZoneRepository(db *gorm.DB) *ZoneRepository {
	return &ZoneRepository{DB: db}
}

func (r *ZoneRepository) Create(zone *model.Zone) error {
	return r.DB.Create(zone).Error
}

func (r *ZoneRepository) FindByID(id uint) (*model.Zone, error) {
	var zone model.Zone
	err := r.DB.First(&zone, id).Error
	if err != nil {
		return nil, err
	}
	return &zone, nil
}

func (r *ZoneRepository) FindActive() ([]model.Zone, error) {
	var zones []model.Zone
	err := r.DB.Where("is_active = ?", true).Find(&zones).Error
	return zones, err
}

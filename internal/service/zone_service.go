package service

import (
	"nudo_backend/internal/model"
	"nudo_backend/internal/repository"
)

type ZoneService struct {
	ZoneRepo *repository.ZoneRepository
}

func NewZoneService(zoneRepo *repository.ZoneRepository) *ZoneService {
	return &ZoneService{ZoneRepo: zoneRepo}
}

func (s *ZoneService) ListActive() ([]model.Zone, error) {
	return s.ZoneRepo.FindActive()
}

// CreateZone V1 仅供部署时录入点位,无后台界面
func (s *ZoneService) CreateZone(name string, lat, lng float64, radiusMeters int, isActive bool) (*model.Zone, error) {
	zone := &model.Zone{
		Name:         name,
		Lat:          lat,
		Lng:          lng,
		RadiusMeters: radiusMeters,
		IsActive:     isActive,
	}
	if err := s.ZoneRepo.Create(zone); err != nil {
		return nil, err
	}
	return zone, nil
}

package model

// Zone 自习打卡区域，地理围栏的判定在客户端完成
// swagger:model Zone
type Zone struct {
	BaseModel
	Name         string  `gorm:"size:100;not null" json:"name"`
	Lat          float64 `gorm:"not null" json:"lat"`
	Lng          float64 `gorm:"not null" json:"lng"`
	RadiusMeters int     `gorm:"not null" json:"radiusMeters"`
	IsActive     bool    `gorm:"default:true" json:"isActive"`
}

func (Zone) TableName() string {
	return "zones"
}

package database

import (
	"fmt"
	"log"
	"nudo_backend/internal/config"
	"nudo_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if migrate {
		err = db.AutoMigrate(
			&model.User{},
			&model.Zone{},
			&model.Session{},
			&model.WeeklyStat{},
		)

		if err != nil {
			return nil, err
		}

		log.Println("Database migration completed")

		// 默认自习区域（V1 仅覆盖校园内的四个固定点位）
		var count int64
		db.Model(&model.Zone{}).Count(&count)
		if count == 0 {
			defaultZones := []model.Zone{
				{Name: "Main Library", Lat: 32.2319, Lng: -110.9501, RadiusMeters: 100, IsActive: true},
				{Name: "Student Union", Lat: 32.2298, Lng: -110.9489, RadiusMeters: 150, IsActive: true},
				{Name: "Science Library", Lat: 32.2335, Lng: -110.9512, RadiusMeters: 80, IsActive: true},
				{Name: "Engineering Building", Lat: 32.2342, Lng: -110.9478, RadiusMeters: 120, IsActive: true},
			}
			for _, z := range defaultZones {
				db.Create(&z)
			}
		}
	}

	return db, nil
}

// 演示数据种子脚本
//
// 写入示例区域、用户、最近两周的已完成学习会话以及对应的周统计，
// 用于本地联调前端排行榜与奖杯之路页面。
// 区域与用户按名称/邮箱去重，会话与周统计每次执行都会累加，建议只跑一次。
//
// 用法: go run scripts/seed.go

package main

import (
	"log"
	"nudo_backend/internal/config"
	"nudo_backend/internal/model"
	"nudo_backend/internal/repository"
	"nudo_backend/internal/service"
	"nudo_backend/internal/util"
	"nudo_backend/pkg/database"
	"nudo_backend/pkg/logger"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type seedZone struct {
	Name         string  `yaml:"name"`
	Lat          float64 `yaml:"lat"`
	Lng          float64 `yaml:"lng"`
	RadiusMeters int     `yaml:"radius_meters"`
}

type seedUser struct {
	DisplayName string `yaml:"display_name"`
	Email       string `yaml:"email"`
	Role        string `yaml:"role"`
	StreakWeeks int    `yaml:"streak_weeks"`
}

type seedData struct {
	Zones         []seedZone `yaml:"zones"`
	Users         []seedUser `yaml:"users"`
	WeeklyMinutes [][]int    `yaml:"weekly_minutes"`
}

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法加载配置: %v", err)
	}
	logger.InitLogger(cfg)

	data, err := os.ReadFile("scripts/seed_data.yaml")
	if err != nil {
		log.Fatalf("无法读取种子数据: %v", err)
	}
	var seed seedData
	if err := yaml.Unmarshal(data, &seed); err != nil {
		log.Fatalf("解析种子数据失败: %v", err)
	}

	db, err := database.InitDB(&cfg.Database, true)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	loc, err := time.LoadLocation(cfg.Season.Timezone)
	if err != nil {
		log.Fatalf("无效时区: %v", err)
	}
	weekStartsOn := util.ParseWeekStartsOn(cfg.Season.WeekStartsOn)
	service.SetWeeklyCap(cfg.Scoring.WeeklyCapMinutes)

	// 区域
	zones := make([]model.Zone, 0, len(seed.Zones))
	for _, z := range seed.Zones {
		var zone model.Zone
		err := db.Where("name = ?", z.Name).
			Attrs(model.Zone{Name: z.Name, Lat: z.Lat, Lng: z.Lng, RadiusMeters: z.RadiusMeters, IsActive: true}).
			FirstOrCreate(&zone).Error
		if err != nil {
			log.Fatalf("创建区域失败: %v", err)
		}
		zones = append(zones, zone)
	}
	log.Printf("区域就绪: %d 个", len(zones))

	// 用户
	users := make([]model.User, 0, len(seed.Users))
	for _, u := range seed.Users {
		var user model.User
		err := db.Where("email = ?", u.Email).
			Attrs(model.User{
				DisplayName:  u.DisplayName,
				Email:        u.Email,
				Role:         model.UserRole(u.Role),
				DeviceIDHash: service.HashDeviceID("seed-device-" + u.Email),
				StreakWeeks:  u.StreakWeeks,
			}).
			FirstOrCreate(&user).Error
		if err != nil {
			log.Fatalf("创建用户失败: %v", err)
		}
		users = append(users, user)
	}
	log.Printf("用户就绪: %d 个", len(users))

	statRepo := repository.NewWeeklyStatRepository(db)
	now := time.Now()

	for i, user := range users {
		if i >= len(seed.WeeklyMinutes) {
			break
		}
		for weekOffset, totalMinutes := range seed.WeeklyMinutes[i] {
			if totalMinutes <= 0 {
				continue
			}
			anchor := now.AddDate(0, 0, -7*weekOffset)
			weekStart := util.WeekStartKey(anchor, loc, weekStartsOn)

			// 把周总量拆成若干段已完成会话，落在该周的工作日晚上
			remaining := totalMinutes
			day := 0
			for remaining > 0 && day < 6 {
				chunk := remaining
				if chunk > 180 {
					chunk = 180
				}
				startDate, _ := time.ParseInLocation(util.DateFormat, weekStart, loc)
				start := startDate.AddDate(0, 0, day).Add(18 * time.Hour)
				end := start.Add(time.Duration(chunk) * time.Minute)
				duration := chunk
				session := model.Session{
					UserID:      user.ID,
					ZoneID:      zones[(i+day)%len(zones)].ID,
					StartAt:     start,
					EndAt:       &end,
					DurationMin: &duration,
					Source:      model.SourceManual,
				}
				if err := db.Create(&session).Error; err != nil {
					log.Fatalf("创建会话失败: %v", err)
				}
				remaining -= chunk
				day++
			}

			streak := user.StreakWeeks
			_, err := statRepo.IncrementOrCreate(user.ID, weekStart, totalMinutes, now, func(minutes int) (int, string) {
				points := service.TotalPoints(minutes, streak)
				return points, service.TierOf(points)
			})
			if err != nil {
				log.Fatalf("写入周统计失败: %v", err)
			}
		}
	}

	log.Println("种子数据写入完成！")
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Season    SeasonConfig    `mapstructure:"season"`
	Scoring   ScoringConfig   `mapstructure:"scoring"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"` // 强制执行数据库迁移
	MigrateOnly  bool `mapstructure:"-"` // 仅迁移模式（迁移后退出）
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// AcademicWindow 学期窗口，闭区间 [Start, End]，日期为时区内的自然日
type AcademicWindow struct {
	Start string `mapstructure:"start" json:"start"`
	End   string `mapstructure:"end" json:"end"`
}

// SeasonConfig 周键与奖杯之路的日历配置
type SeasonConfig struct {
	Timezone        string           `mapstructure:"timezone"`
	WeekStartsOn    string           `mapstructure:"week_starts_on"` // monday / sunday
	AcademicWindows []AcademicWindow `mapstructure:"academic_windows"`
}

type ScoringConfig struct {
	WeeklyCapMinutes int `mapstructure:"weekly_cap_minutes"`
	WeeklyGoalHours  int `mapstructure:"weekly_goal_hours"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("NUDO")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Storage
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	// Season
	viper.BindEnv("season.timezone", "SEASON_TIMEZONE")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Season.Timezone == "" {
		cfg.Season.Timezone = "America/Phoenix"
	}
	// 时区写错属于部署错误，启动时直接暴露而不是留到请求路径
	if _, err := time.LoadLocation(cfg.Season.Timezone); err != nil {
		return nil, fmt.Errorf("invalid season timezone %q: %w", cfg.Season.Timezone, err)
	}
	if err := validateAcademicWindows(cfg.Season.AcademicWindows); err != nil {
		return nil, err
	}

	if cfg.Scoring.WeeklyCapMinutes <= 0 {
		cfg.Scoring.WeeklyCapMinutes = 18 * 60
	}
	if cfg.Scoring.WeeklyGoalHours <= 0 {
		cfg.Scoring.WeeklyGoalHours = 6
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}

// validateAcademicWindows 窗口日期必须是 YYYY-MM-DD 且不早于起点。
// 格式错误的窗口如果放过去，奖杯之路会拿零值时间当边界统计全量历史。
func validateAcademicWindows(windows []AcademicWindow) error {
	for _, w := range windows {
		start, err := time.Parse("2006-01-02", w.Start)
		if err != nil {
			return fmt.Errorf("invalid academic window start %q: %w", w.Start, err)
		}
		end, err := time.Parse("2006-01-02", w.End)
		if err != nil {
			return fmt.Errorf("invalid academic window end %q: %w", w.End, err)
		}
		if end.Before(start) {
			return fmt.Errorf("academic window %s..%s ends before it starts", w.Start, w.End)
		}
	}
	return nil
}

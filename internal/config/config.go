package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// 主配置结构
type Config struct {
	App      App    `yaml:"app"`
	Server   Server `yaml:"server"`
	Database DB     `yaml:"database"`
	Cache    Cache  `yaml:"cache"`
	Auth     Auth   `yaml:"auth"`
	Admin    Admin  `yaml:"admin"`
	Log      Log    `yaml:"log"`
}

// 应用配置
type App struct {
	Name    string `yaml:"name"`
	Mode    string `yaml:"mode"`
	Version string `yaml:"version"`
	// BaseURL 为空时根据请求的 Host 拼接短链接
	BaseURL string `yaml:"base_url"`
}

// 服务器配置
type Server struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	ReadTimeout     int    `yaml:"read_timeout"`
	WriteTimeout    int    `yaml:"write_timeout"`
	ShutdownTimeout int    `yaml:"shutdown_timeout"`
}

// 数据库配置
type DB struct {
	Driver   string `yaml:"driver"` // sqlite, mysql, postgres
	DSN      string `yaml:"dsn"`    // sqlite 为文件路径；其余驱动设置后优先于下面的字段
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Charset  string `yaml:"charset"`
	LogLevel string `yaml:"log_level"`
}

// 缓存配置（Redis），只用于记录已注销的会话
type Cache struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// 认证配置
type Auth struct {
	Secret          string `yaml:"secret"`
	Issuer          string `yaml:"issuer"`
	ExpirationHours int    `yaml:"expiration_hours"`
	CookieName      string `yaml:"cookie_name"`
	SecureCookie    bool   `yaml:"secure_cookie"`
}

// 管理员配置
type Admin struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
}

// 日志配置
type Log struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// 可以覆盖配置文件的环境变量，密钥类配置只应该从这里注入
const (
	EnvConfigPath    = "SHORTLINK_CONFIG"
	EnvSessionSecret = "SHORTLINK_SESSION_SECRET"
	EnvAdminUsername = "SHORTLINK_ADMIN_USERNAME"
	EnvAdminPassHash = "SHORTLINK_ADMIN_PASSWORD_HASH"
	EnvDatabaseDSN   = "SHORTLINK_DATABASE_DSN"
	EnvRedisPassword = "SHORTLINK_REDIS_PASSWORD"
)

// DefaultPath 默认配置文件路径
const DefaultPath = "configs/config.yaml"

// Path 返回配置文件路径，环境变量优先
func Path() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultPath
}

// 加载配置
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置无效: %w", err)
	}
	return cfg, nil
}

// Default 返回带默认值的配置，配置文件中出现的字段会覆盖它们
func Default() *Config {
	return &Config{
		App: App{Name: "shortlink-service", Mode: "development"},
		Server: Server{
			Port:            8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			ShutdownTimeout: 10,
		},
		Database: DB{Driver: "sqlite", DSN: "urls.db", Charset: "utf8mb4", LogLevel: "warn"},
		Auth: Auth{
			Issuer:          "shortlink-service",
			ExpirationHours: 12,
			CookieName:      "shortlink_session",
		},
		Log: Log{
			Level:      "info",
			File:       "./logs/app.log",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
	}
}

func (c *Config) applyEnv() {
	overrides := []struct {
		key string
		dst *string
	}{
		{EnvSessionSecret, &c.Auth.Secret},
		{EnvAdminUsername, &c.Admin.Username},
		{EnvAdminPassHash, &c.Admin.PasswordHash},
		{EnvDatabaseDSN, &c.Database.DSN},
		{EnvRedisPassword, &c.Cache.Password},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.key); ok && v != "" {
			*o.dst = v
		}
	}
}

// Validate 检查启动所必需的配置
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("端口无效: %d", c.Server.Port)
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.DSN == "" {
			return errors.New("sqlite 需要配置 database.dsn")
		}
	case "mysql", "postgres":
		if c.Database.DSN == "" && c.Database.Host == "" {
			return fmt.Errorf("%s 需要配置 database.dsn 或 database.host", c.Database.Driver)
		}
	default:
		return fmt.Errorf("不支持的数据库驱动: %q", c.Database.Driver)
	}

	if c.Auth.Secret == "" {
		return fmt.Errorf("缺少会话密钥，请设置 %s", EnvSessionSecret)
	}
	if c.Auth.ExpirationHours <= 0 {
		return errors.New("auth.expiration_hours 必须大于 0")
	}
	if c.Admin.Username == "" {
		return fmt.Errorf("缺少管理员用户名，请设置 %s", EnvAdminUsername)
	}
	if _, err := bcrypt.Cost([]byte(c.Admin.PasswordHash)); err != nil {
		return fmt.Errorf("管理员密码哈希无效，请用 cmd/hashpass 生成并设置 %s: %w", EnvAdminPassHash, err)
	}
	return nil
}

// IsProduction 是否为生产模式
func (c *Config) IsProduction() bool {
	return c.App.Mode == "production"
}

// Addr 监听地址
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SessionTTL 会话有效期
func (a Auth) SessionTTL() time.Duration {
	return time.Duration(a.ExpirationHours) * time.Hour
}

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Identity    IdentityConfig
	Storage     StorageConfig
	Tracing     TracingConfig `mapstructure:"tracing"`
	Redis       RedisConfig
	CORS        CORSConfig        `mapstructure:"cors"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Certificate CertificateConfig `mapstructure:"certificate"`
	Catalog     CatalogConfig     `mapstructure:"catalog"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool   `mapstructure:"-"` // 强制执行数据库迁移
	MigrateOnly  bool   `mapstructure:"-"` // 仅迁移模式（迁移后退出）
	SeedDir      string `mapstructure:"-"` // 启动时导入的课程目录
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests       int `mapstructure:"max_requests"`
	WindowMinutes     int `mapstructure:"window_minutes"`
	VerifyMaxRequests int `mapstructure:"verify_max_requests"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
	SSLMode   string `mapstructure:"sslmode"`

	// 连接池
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int `mapstructure:"conn_max_lifetime_minutes"`
}

// IdentityConfig 身份提供方签发令牌的校验参数
type IdentityConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioUseSSL   bool   `mapstructure:"minio_use_ssl"`
	OSSEndpoint   string `mapstructure:"oss_endpoint"`
	OSSAccessKey  string `mapstructure:"oss_access_key"`
	OSSSecretKey  string `mapstructure:"oss_secret_key"`
	OSSBucket     string `mapstructure:"oss_bucket"`
	// 对外访问前缀，为空时按存储类型推导
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// CertificateConfig 证书签发与验证
type CertificateConfig struct {
	VerifyBaseURL            string `mapstructure:"verify_base_url"`
	CodeLength               int    `mapstructure:"code_length"`
	MaxCodeAttempts          int    `mapstructure:"max_code_attempts"`
	ReconcileIntervalSeconds int    `mapstructure:"reconcile_interval_seconds"`
}

type CatalogConfig struct {
	CacheTTLMinutes int    `mapstructure:"cache_ttl_minutes"`
	SeedDir         string `mapstructure:"seed_dir"`
}

// CacheTTL 课程缓存有效期
func (c CatalogConfig) CacheTTL() time.Duration {
	if c.CacheTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parsetime", true)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime_minutes", 60)
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "uploads")
	v.SetDefault("rate_limit.max_requests", 100000)
	v.SetDefault("rate_limit.window_minutes", 1)
	v.SetDefault("rate_limit.verify_max_requests", 60)
	v.SetDefault("certificate.verify_base_url", "https://skillup.app")
	v.SetDefault("certificate.code_length", 12)
	v.SetDefault("certificate.max_code_attempts", 5)
	v.SetDefault("certificate.reconcile_interval_seconds", 300)
	v.SetDefault("catalog.cache_ttl_minutes", 30)
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("SKILLUP")
	v.AutomaticEnv()
	setDefaults(v)

	// Database
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")
	v.BindEnv("database.max_open_conns", "DATABASE_MAX_OPEN_CONNS")
	v.BindEnv("database.max_idle_conns", "DATABASE_MAX_IDLE_CONNS")

	// Identity
	v.BindEnv("identity.secret", "IDENTITY_SECRET")
	v.BindEnv("identity.issuer", "IDENTITY_ISSUER")

	// Redis
	v.BindEnv("redis.enabled", "REDIS_ENABLED")
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	v.BindEnv("server.mode", "SERVER_MODE")
	v.BindEnv("server.port", "SERVER_PORT")

	// Storage / OSS
	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.oss_endpoint", "OSS_ENDPOINT")
	v.BindEnv("storage.oss_access_key", "OSS_ACCESS_KEY")
	v.BindEnv("storage.oss_secret_key", "OSS_SECRET_KEY")
	v.BindEnv("storage.oss_bucket", "OSS_BUCKET")
	v.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	v.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	// Certificate
	v.BindEnv("certificate.verify_base_url", "CERTIFICATE_VERIFY_BASE_URL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return &cfg, nil
}

// Validate 校验配置合法性
func (c *Config) Validate() error {
	// 生产环境校验身份令牌密钥强度
	if c.Server.Mode == "release" && len(c.Identity.Secret) < 32 {
		return fmt.Errorf("identity secret is too short (%d chars), must be at least 32 characters in release mode", len(c.Identity.Secret))
	}

	c.Certificate.VerifyBaseURL = strings.TrimRight(c.Certificate.VerifyBaseURL, "/")
	if !strings.HasPrefix(c.Certificate.VerifyBaseURL, "http://") && !strings.HasPrefix(c.Certificate.VerifyBaseURL, "https://") {
		return fmt.Errorf("certificate.verify_base_url must be an http(s) URL, got %q", c.Certificate.VerifyBaseURL)
	}
	if c.Certificate.CodeLength < 8 || c.Certificate.CodeLength > 32 {
		return fmt.Errorf("certificate.code_length must be between 8 and 32, got %d", c.Certificate.CodeLength)
	}
	if c.Certificate.MaxCodeAttempts < 1 {
		c.Certificate.MaxCodeAttempts = 1
	}

	switch c.Database.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	return nil
}

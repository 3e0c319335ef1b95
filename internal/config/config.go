package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Image storage backends.
const (
	ImagesDisk  = "disk"
	ImagesMinio = "minio"
)

// Server is the API server configuration, read from configs/config.yml and
// overridable through environment variables (db.path -> DB_PATH).
type Server struct {
	Port     string `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`

	DB     DBConfig     `mapstructure:"db"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Images ImagesConfig `mapstructure:"images"`
	Minio  MinioConfig  `mapstructure:"minio"`
	HTTP   HTTPConfig   `mapstructure:"http"`
	Debug  DebugConfig  `mapstructure:"debug"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	// JWTSecret signs access tokens. Empty means a random secret per process,
	// which logs every user out on restart.
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type ImagesConfig struct {
	Backend string `mapstructure:"backend"`
	Dir     string `mapstructure:"dir"`
}

type MinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type HTTPConfig struct {
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type DebugConfig struct {
	Pprof bool `mapstructure:"pprof"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 2*time.Hour)
	v.SetDefault("images.backend", ImagesDisk)
	v.SetDefault("images.dir", "static/images")
	v.SetDefault("minio.endpoint", "")
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("minio.bucket", "socialfeed")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("http.cors_origins", []string{})
	v.SetDefault("debug.pprof", false)
}

// Load reads config.yml from dir. A missing file is not an error: defaults
// and environment variables still apply.
func Load(dir string) (*Server, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Server
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Server) validate() error {
	switch c.Images.Backend {
	case ImagesDisk:
		if c.Images.Dir == "" {
			return errors.New("images.dir is required for the disk backend")
		}
	case ImagesMinio:
		if c.Minio.Endpoint == "" || c.Minio.Bucket == "" {
			return errors.New("minio.endpoint and minio.bucket are required for the minio backend")
		}
	default:
		return fmt.Errorf("unknown images.backend %q", c.Images.Backend)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	return nil
}

package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

// Module wires configuration loading into the fx graph.
var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewPolicyHolder),
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	HTTPAddr string

	LogLevel  string
	LogFormat string

	// DefaultTenantCode, when set, is seeded at startup so that a fresh
	// deployment has a usable tenant scope out of the box.
	DefaultTenantCode string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
}

// Load reads configuration from the environment (prefix CASHBOOK), with a
// .env file honored in dev setups.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CASHBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app_name", "cashbook")
	v.SetDefault("app_version", "dev")
	v.SetDefault("environment", "development")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("default_tenant_code", "")
	v.SetDefault("db_type", "postgres")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_name", "cashbook")
	v.SetDefault("db_user", "cashbook")
	v.SetDefault("db_password", "")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("db_max_idle_conn", 5)
	v.SetDefault("db_max_open_conn", 25)
	v.SetDefault("db_conn_max_lifetime", 300)
	v.SetDefault("db_conn_max_idle_time", 60)

	return Config{
		AppName:           v.GetString("app_name"),
		AppVersion:        v.GetString("app_version"),
		Environment:       strings.TrimSpace(v.GetString("environment")),
		HTTPAddr:          v.GetString("http_addr"),
		LogLevel:          strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
		LogFormat:         strings.ToLower(strings.TrimSpace(v.GetString("log_format"))),
		DefaultTenantCode: strings.TrimSpace(v.GetString("default_tenant_code")),
		DBType:            strings.ToLower(strings.TrimSpace(v.GetString("db_type"))),
		DBHost:            v.GetString("db_host"),
		DBPort:            v.GetString("db_port"),
		DBName:            v.GetString("db_name"),
		DBUser:            v.GetString("db_user"),
		DBPassword:        v.GetString("db_password"),
		DBSSLMode:         v.GetString("db_sslmode"),
		DBMaxIdleConn:     v.GetInt("db_max_idle_conn"),
		DBMaxOpenConn:     v.GetInt("db_max_open_conn"),
		DBConnMaxLifetime: v.GetInt("db_conn_max_lifetime"),
		DBConnMaxIdleTime: v.GetInt("db_conn_max_idle_time"),
	}, nil
}

// IsDev reports whether the config describes a development-like environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

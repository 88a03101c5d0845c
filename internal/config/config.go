package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	SessionBackendDB    = "db"
	SessionBackendRedis = "redis"

	CheckoutAtomic  = "atomic"
	CheckoutPartial = "partial"
)

const (
	defaultConfigFile = "config.yaml"
	defaultEnvFile    = ".env"
)

// Configはアプリ全体の設定
// キーは環境変数名を小文字にしたもの（PORT -> port）
type Config struct {
	Port     string `koanf:"port"`      // サーバーポート（8080）
	GoEnv    string `koanf:"go_env"`    // dev/prod
	LogLevel string `koanf:"log_level"` // debug/info/warn/error

	DBDriver         string `koanf:"db_driver"`    // postgres/sqlite
	DatabaseURL      string `koanf:"database_url"` // あれば最優先
	PostgresHost     string `koanf:"postgres_host"`
	PostgresPort     int    `koanf:"postgres_port"`
	PostgresUser     string `koanf:"postgres_user"`
	PostgresPassword string `koanf:"postgres_password"`
	PostgresDB       string `koanf:"postgres_db"`
	PostgresSSLMode  string `koanf:"postgres_sslmode"`
	SQLitePath       string `koanf:"sqlite_path"`

	SessionBackend       string        `koanf:"session_backend"` // db/redis
	RedisAddr            string        `koanf:"redis_addr"`
	RedisPassword        string        `koanf:"redis_password"`
	RedisDB              int           `koanf:"redis_db"`
	SessionSecret        string        `koanf:"session_secret"` // トークン署名
	SessionTTL           time.Duration `koanf:"session_ttl"`
	SessionPurgeInterval time.Duration `koanf:"session_purge_interval"` // dbバックエンドのみ
	CookieSecure         bool          `koanf:"cookie_secure"`

	RequireLogin bool   `koanf:"require_login"` // falseならゲストもカートを使える
	CheckoutMode string `koanf:"checkout_mode"` // atomic/partial
	BcryptCost   int    `koanf:"bcrypt_cost"`
	SeedCatalog  bool   `koanf:"seed_catalog"`

	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

func defaults() map[string]any {
	return map[string]any{
		"port":                   "8080",
		"go_env":                 "dev",
		"log_level":              "info",
		"db_driver":              DriverPostgres,
		"postgres_host":          "localhost",
		"postgres_port":          5432,
		"postgres_user":          "postgres",
		"postgres_db":            "shop",
		"postgres_sslmode":       "disable",
		"sqlite_path":            "shop.db",
		"session_backend":        SessionBackendDB,
		"redis_addr":             "localhost:6379",
		"redis_db":               0,
		"session_ttl":            "24h",
		"session_purge_interval": "10m",
		"cookie_secure":          false,
		"require_login":          true,
		"checkout_mode":          CheckoutAtomic,
		"bcrypt_cost":            12,
		"seed_catalog":           true,
		"shutdown_timeout":       "10s",
	}
}

// Loadは defaults -> config.yaml -> .env -> 環境変数 の順に読む（後勝ち）
func Load() (Config, error) {
	return load(defaultConfigFile, defaultEnvFile)
}

func load(configFile, envFile string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	//yamlは任意
	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARN: error loading YAML config: %v", err)
		}
	}

	if envFileMap, err := godotenv.Read(envFile); err == nil {
		envMap := make(map[string]any, len(envFileMap))
		for key, value := range envFileMap {
			envMap[keyTransformer(key)] = value
		}
		if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
			log.Printf("WARN: error loading .env config: %v", err)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("WARN: error reading .env file: %v", err)
	}

	//環境変数が最優先
	if err := k.Load(env.Provider("", ".", keyTransformer), nil); err != nil {
		log.Printf("WARN: error loading env vars: %v", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// 必須チェック
func (c Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31: %d", c.BcryptCost)
	}

	switch c.DBDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" && (c.PostgresHost == "" || c.PostgresUser == "" || c.PostgresDB == "") {
			return fmt.Errorf("DATABASE_URL or POSTGRES_HOST/POSTGRES_USER/POSTGRES_DB is required")
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q: %q", DriverPostgres, DriverSQLite, c.DBDriver)
	}

	switch c.SessionBackend {
	case SessionBackendDB:
	case SessionBackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required")
		}
	default:
		return fmt.Errorf("SESSION_BACKEND must be %q or %q: %q", SessionBackendDB, SessionBackendRedis, c.SessionBackend)
	}

	if c.CheckoutMode != CheckoutAtomic && c.CheckoutMode != CheckoutPartial {
		return fmt.Errorf("CHECKOUT_MODE must be %q or %q: %q", CheckoutAtomic, CheckoutPartial, c.CheckoutMode)
	}
	return nil
}

func (c Config) IsDev() bool {
	return c.GoEnv == "dev"
}

// PostgresDSN はDATABASE_URLがあればそれを返す。
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

// 起動ログ用。秘密は出さない
func (c Config) String() string {
	return fmt.Sprintf("port=%s go_env=%s log_level=%s db_driver=%s session_backend=%s session_ttl=%s require_login=%t checkout_mode=%s seed_catalog=%t",
		c.Port, c.GoEnv, c.LogLevel, c.DBDriver, c.SessionBackend, c.SessionTTL, c.RequireLogin, c.CheckoutMode, c.SeedCatalog)
}

func keyTransformer(key string) string {
	return strings.ToLower(key)
}

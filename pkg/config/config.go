package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	RateLimit     RateLimitConfig
	CORS          CORSConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env             string        `envconfig:"SIRENE_APP_ENV" required:"true"`
	Port            string        `envconfig:"SIRENE_APP_PORT" default:"8080"`
	LogLevel        string        `envconfig:"SIRENE_LOG_LEVEL" default:"info"`
	LogWarnStack    bool          `envconfig:"SIRENE_LOG_WARN_STACK" default:"false"`
	LogFormat       string        `envconfig:"SIRENE_LOG_FORMAT" default:"json"`
	ShutdownTimeout time.Duration `envconfig:"SIRENE_SHUTDOWN_TIMEOUT" default:"10s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SIRENE_DB_DSN"`
	Driver string `envconfig:"SIRENE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SIRENE_DB_HOST"`
	LegacyPort     int    `envconfig:"SIRENE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SIRENE_DB_USER"`
	LegacyPassword string `envconfig:"SIRENE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SIRENE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SIRENE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SIRENE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SIRENE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SIRENE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SIRENE_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	// SlowQueryThreshold promotes slower statements to warn-level logs.
	SlowQueryThreshold time.Duration `envconfig:"SIRENE_DB_SLOW_QUERY_THRESHOLD" default:"200ms"`
}

// IsSQLite reports whether the configured driver is sqlite.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"SIRENE_REDIS_URL"`
	Address      string        `envconfig:"SIRENE_REDIS_ADDR"`
	Password     string        `envconfig:"SIRENE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SIRENE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SIRENE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SIRENE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SIRENE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SIRENE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SIRENE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SIRENE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SIRENE_JWT_ISSUER" default:"sirene"`
	ExpirationMinutes int    `envconfig:"SIRENE_JWT_EXPIRATION_MINUTES" default:"1440"`
	CookieName        string `envconfig:"SIRENE_SESSION_COOKIE" default:"sirene_session"`
	CookieSecure      bool   `envconfig:"SIRENE_SESSION_COOKIE_SECURE" default:"false"`
}

// SessionTTL is the lifetime shared by the access token, the cookie and the
// server-side session record.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SIRENE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SIRENE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SIRENE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SIRENE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SIRENE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow           time.Duration `envconfig:"SIRENE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit    int           `envconfig:"SIRENE_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit          int           `envconfig:"SIRENE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow        time.Duration `envconfig:"SIRENE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterUsernameLimit int           `envconfig:"SIRENE_AUTH_RATE_LIMIT_REGISTER_USERNAME_LIMIT" default:"3"`
	RegisterIPLimit       int           `envconfig:"SIRENE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type RateLimitConfig struct {
	Requests int           `envconfig:"SIRENE_RATE_LIMIT_REQUESTS" default:"120"`
	Window   time.Duration `envconfig:"SIRENE_RATE_LIMIT_WINDOW" default:"1m"`
	Disabled bool          `envconfig:"SIRENE_RATE_LIMIT_DISABLED" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SIRENE_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SIRENE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SIRENE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = defaultSQLiteDSN
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

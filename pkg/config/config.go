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
	FeatureFlags  FeatureFlagsConfig
	Cloudinary    CloudinaryConfig
	SMTP          SMTPConfig
	GoogleOAuth   GoogleOAuthConfig
	Media         MediaConfig
	Frontend      FrontendConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MOFI_APP_ENV" required:"true"`
	Port         string `envconfig:"MOFI_APP_PORT" required:"true"`
	PublicURL    string `envconfig:"MOFI_APP_PUBLIC_URL" default:"http://localhost:8001"`
	LogLevel     string `envconfig:"MOFI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MOFI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MOFI_DB_DSN"`
	Driver string `envconfig:"MOFI_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"MOFI_DB_HOST"`
	LegacyPort     int    `envconfig:"MOFI_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MOFI_DB_USER"`
	LegacyPassword string `envconfig:"MOFI_DB_PASSWORD"`
	LegacyName     string `envconfig:"MOFI_DB_NAME"`
	LegacySSLMode  string `envconfig:"MOFI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MOFI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MOFI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MOFI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MOFI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MOFI_REDIS_URL" required:"true"`
	Address      string        `envconfig:"MOFI_REDIS_ADDR"`
	Password     string        `envconfig:"MOFI_REDIS_PASSWORD"`
	DB           int           `envconfig:"MOFI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MOFI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MOFI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MOFI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MOFI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MOFI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret              string `envconfig:"MOFI_JWT_SECRET" required:"true"`
	Issuer              string `envconfig:"MOFI_JWT_ISSUER" required:"true"`
	AccessExpiryMinutes int    `envconfig:"MOFI_JWT_ACCESS_EXPIRE_MINUTES" default:"15"`
	RefreshExpiryDays   int    `envconfig:"MOFI_JWT_REFRESH_EXPIRE_DAYS" default:"15"`
	VerifyExpiryMinutes int    `envconfig:"MOFI_JWT_VERIFY_EXPIRE_MINUTES" default:"15"`
}

// AccessTTL returns the access token lifetime.
func (j JWTConfig) AccessTTL() time.Duration {
	if j.AccessExpiryMinutes <= 0 {
		return 0
	}
	return time.Duration(j.AccessExpiryMinutes) * time.Minute
}

// RefreshTTL returns the refresh token lifetime.
func (j JWTConfig) RefreshTTL() time.Duration {
	if j.RefreshExpiryDays <= 0 {
		return 0
	}
	return time.Duration(j.RefreshExpiryDays) * 24 * time.Hour
}

// VerifyTTL returns the email-verification token lifetime.
func (j JWTConfig) VerifyTTL() time.Duration {
	if j.VerifyExpiryMinutes <= 0 {
		return 0
	}
	return time.Duration(j.VerifyExpiryMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MOFI_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MOFI_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MOFI_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MOFI_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MOFI_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"MOFI_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"MOFI_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"MOFI_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"MOFI_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"MOFI_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"MOFI_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"MOFI_AUTO_MIGRATE" default:"false"`
}

type CloudinaryConfig struct {
	CloudName     string `envconfig:"MOFI_CLOUDINARY_CLOUD_NAME" required:"true"`
	APIKey        string `envconfig:"MOFI_CLOUDINARY_API_KEY" required:"true"`
	APISecret     string `envconfig:"MOFI_CLOUDINARY_API_SECRET" required:"true"`
	ProfileFolder string `envconfig:"MOFI_CLOUDINARY_PROFILE_FOLDER" default:"movie_db/profile_pics"`
	ImageFolder   string `envconfig:"MOFI_CLOUDINARY_IMAGE_FOLDER" default:"movie_db/movie_images"`
}

type SMTPConfig struct {
	Host     string `envconfig:"MOFI_SMTP_HOST" required:"true"`
	Port     int    `envconfig:"MOFI_SMTP_PORT" default:"587"`
	Sender   string `envconfig:"MOFI_SMTP_SENDER" required:"true"`
	Password string `envconfig:"MOFI_SMTP_PASSWORD"`
}

type GoogleOAuthConfig struct {
	ClientID     string `envconfig:"MOFI_GOOGLE_CLIENT_ID"`
	ClientSecret string `envconfig:"MOFI_GOOGLE_CLIENT_SECRET"`
	RedirectURI  string `envconfig:"MOFI_GOOGLE_REDIRECT_URI"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"MOFI_MAX_UPLOAD_MB" default:"10"`
}

type FrontendConfig struct {
	BaseURL string `envconfig:"MOFI_FRONTEND_URL" default:"http://localhost:5174"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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

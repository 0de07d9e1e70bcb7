package config

// EnvPrefix is the envconfig prefix shared by all configuration structs.
const EnvPrefix = "MOFI"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags (tests, error
// messages, bootstrap scripts).
const (
	EnvAppEnv   = "MOFI_APP_ENV"
	EnvPort     = "MOFI_APP_PORT"
	EnvDBDSN    = "MOFI_DB_DSN"
	EnvDBHost   = "MOFI_DB_HOST"
	EnvDBUser   = "MOFI_DB_USER"
	EnvDBName   = "MOFI_DB_NAME"
	EnvRedisURL = "MOFI_REDIS_URL"

	EnvJWTSecret = "MOFI_JWT_SECRET"
	EnvJWTIssuer = "MOFI_JWT_ISSUER"

	EnvCloudinaryCloudName = "MOFI_CLOUDINARY_CLOUD_NAME"
	EnvCloudinaryAPIKey    = "MOFI_CLOUDINARY_API_KEY"
	EnvCloudinaryAPISecret = "MOFI_CLOUDINARY_API_SECRET"

	EnvSMTPHost   = "MOFI_SMTP_HOST"
	EnvSMTPSender = "MOFI_SMTP_SENDER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

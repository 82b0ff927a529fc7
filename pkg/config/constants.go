package config

// EnvPrefix is passed to envconfig; individual tags carry the full names so the
// prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
	AppEnvTest = "test"
)

const (
	EnvAppEnv = "GASLINE_APP_ENV"
	EnvDBDSN  = "GASLINE_DB_DSN"
	EnvDBHost = "GASLINE_DB_HOST"
	EnvDBUser = "GASLINE_DB_USER"
	EnvDBName = "GASLINE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

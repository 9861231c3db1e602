package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	Port     string `yaml:"port"`
	AppEnv   string `yaml:"app_env"`
	LogLevel string `yaml:"log_level"`

	DBDriver   string `yaml:"db_driver"` // postgres, mysql, sqlite
	DBHost     string `yaml:"db_host"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`
	DBPort     string `yaml:"db_port"`
	DBDSN      string `yaml:"db_dsn"`
	DBDebug    bool   `yaml:"db_debug"`

	JWTKey             string `yaml:"jwt_secret_key"`
	JWTExpirationHours int    `yaml:"jwt_expiration_hours"`
	SaltRound          int    `yaml:"salt_round"`

	FrontendURL string `yaml:"frontend_url"`
	CORSOrigins string `yaml:"cors_origins"`

	UploadsDir   string `yaml:"uploads_dir"`
	GeneratedDir string `yaml:"generated_dir"`

	ChromePath        string        `yaml:"chrome_path"`
	RenderTimeout     time.Duration `yaml:"render_timeout"`
	RenderConcurrency int           `yaml:"render_concurrency"`
	RenderImagesOnTop bool          `yaml:"render_images_on_top"`
	InlineAssets      bool          `yaml:"render_inline_assets"`

	DiplomaLocale           string `yaml:"diploma_locale"`
	DefaultOrganizationName string `yaml:"default_organization_name"`

	MailProvider   string `yaml:"mail_provider"` // smtp, sendgrid
	SendGridAPIKey string `yaml:"sendgrid_api_key"`

	CleanupCron   string        `yaml:"cleanup_cron"`
	CleanupMaxAge time.Duration `yaml:"cleanup_max_age"`

	VerifyRateLimit int `yaml:"verify_rate_limit"` // requests per minute per IP
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// Defaults returns the configuration used when nothing is set
func Defaults() *Config {
	return &Config{
		Port:                    "8001",
		AppEnv:                  "development",
		LogLevel:                "info",
		DBDriver:                "postgres",
		DBName:                  "diplomas",
		DBPort:                  "5432",
		JWTKey:                  "defaultSecret",
		JWTExpirationHours:      24,
		SaltRound:               10,
		CORSOrigins:             "*",
		UploadsDir:              "./uploads",
		GeneratedDir:            "./generated_pdfs",
		RenderTimeout:           15 * time.Second,
		RenderConcurrency:       4,
		RenderImagesOnTop:       true,
		InlineAssets:            true,
		DiplomaLocale:           "es",
		DefaultOrganizationName: "Academy",
		MailProvider:            "smtp",
		CleanupCron:             "0 * * * *",
		CleanupMaxAge:           24 * time.Hour,
		VerifyRateLimit:         60,
	}
}

// LoadConfig initializes configuration from an optional YAML file and the environment
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadYAML(path, cfg); err != nil {
			log.WithError(err).WithField("file", path).Fatal("could not read config file")
		}
	}

	applyEnv(cfg)
	AppConfig = cfg

	configureLogger(cfg)

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Warn("Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.FrontendURL == "" {
		log.Warn("FRONTEND_URL is empty, verification links will be relative.")
	}
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.AppEnv = getEnv("APP_ENV", cfg.AppEnv)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnv("DB_PASSWORD", cfg.DBPassword)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	cfg.DBPort = getEnv("DB_PORT", cfg.DBPort)
	cfg.DBDSN = getEnv("DB_DSN", cfg.DBDSN)
	cfg.DBDebug = getEnvBool("DB_DEBUG", cfg.DBDebug)

	cfg.JWTKey = getEnv("JWT_SECRET_KEY", cfg.JWTKey)
	cfg.JWTExpirationHours = getEnvInt("JWT_EXPIRATION_HOURS", cfg.JWTExpirationHours)
	cfg.SaltRound = getEnvInt("SALT_ROUND", cfg.SaltRound)

	cfg.FrontendURL = strings.TrimRight(getEnv("FRONTEND_URL", cfg.FrontendURL), "/")
	cfg.CORSOrigins = getEnv("CORS_ORIGINS", cfg.CORSOrigins)

	cfg.UploadsDir = getEnv("UPLOADS_DIR", cfg.UploadsDir)
	cfg.GeneratedDir = getEnv("GENERATED_DIR", cfg.GeneratedDir)

	cfg.ChromePath = getEnv("CHROME_PATH", cfg.ChromePath)
	cfg.RenderTimeout = getEnvDuration("RENDER_TIMEOUT", cfg.RenderTimeout)
	cfg.RenderConcurrency = getEnvInt("RENDER_CONCURRENCY", cfg.RenderConcurrency)
	cfg.RenderImagesOnTop = getEnvBool("RENDER_IMAGES_ON_TOP", cfg.RenderImagesOnTop)
	cfg.InlineAssets = getEnvBool("RENDER_INLINE_ASSETS", cfg.InlineAssets)

	cfg.DiplomaLocale = getEnv("DIPLOMA_LOCALE", cfg.DiplomaLocale)
	cfg.DefaultOrganizationName = getEnv("DEFAULT_ORGANIZATION_NAME", cfg.DefaultOrganizationName)

	cfg.MailProvider = getEnv("MAIL_PROVIDER", cfg.MailProvider)
	cfg.SendGridAPIKey = getEnv("SENDGRID_API_KEY", cfg.SendGridAPIKey)

	cfg.CleanupCron = getEnv("CLEANUP_CRON", cfg.CleanupCron)
	cfg.CleanupMaxAge = getEnvDuration("CLEANUP_MAX_AGE", cfg.CleanupMaxAge)

	cfg.VerifyRateLimit = getEnvInt("VERIFY_RATE_LIMIT", cfg.VerifyRateLimit)
}

func configureLogger(cfg *Config) {
	if cfg.AppEnv == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("unknown LOG_LEVEL, falling back to info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to bool: %v", key, err)
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to duration: %v", key, err)
		return defaultValue
	}
	return d
}

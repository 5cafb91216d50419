package utils

import (
	"errors"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	DBSSLMode  string `yaml:"DB_SSLMODE"`

	// HTTP server
	AppPort            string `yaml:"APP_PORT"`
	AppURL             string `yaml:"APP_URL"`
	AccessLogPath      string `yaml:"ACCESS_LOG_PATH"`
	RateLimitPerSecond string `yaml:"RATE_LIMIT_PER_SECOND"`
	CORSOrigins        string `yaml:"CORS_ORIGINS"`
	LogLevel           string `yaml:"LOG_LEVEL"`

	// JWT
	JWTSecret     string `yaml:"JWT_SECRET"`
	JWTTTLMinutes string `yaml:"JWT_TTL_MINUTES"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// Media storage. Images go to S3 when a bucket is set, to MEDIA_DIR otherwise.
	MediaDir     string `yaml:"MEDIA_DIR"`
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`
}

var (
	config     Config
	configFile string
)

var defaults = map[string]string{
	"DB_HOST":               "localhost",
	"DB_PORT":               "5432",
	"DB_SSLMODE":            "disable",
	"APP_PORT":              "8080",
	"APP_URL":               "http://localhost:8080",
	"ACCESS_LOG_PATH":       "./logs/app.log",
	"RATE_LIMIT_PER_SECOND": "20",
	"CORS_ORIGINS":          "*",
	"LOG_LEVEL":             "info",
	"JWT_TTL_MINUTES":       "1440",
	"MEDIA_DIR":             "./media",
}

// LoadConfig reads the yaml file at path. A missing file is not an error:
// every key can also come from the environment or fall back to a default.
// It runs before the logger exists, so callers report a missing file via
// ConfigFile once logging is up.
func LoadConfig(path string) error {
	config = Config{}
	configFile = ""

	file, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	if err := yaml.Unmarshal(file, &config); err != nil {
		return err
	}
	configFile = path
	return nil
}

// ConfigFile is the path LoadConfig read, empty when no file was found.
func ConfigFile() string {
	return configFile
}

func fromFile(key string) string {
	switch key {
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "DB_SSLMODE":
		return config.DBSSLMode
	case "APP_PORT":
		return config.AppPort
	case "APP_URL":
		return config.AppURL
	case "ACCESS_LOG_PATH":
		return config.AccessLogPath
	case "RATE_LIMIT_PER_SECOND":
		return config.RateLimitPerSecond
	case "CORS_ORIGINS":
		return config.CORSOrigins
	case "LOG_LEVEL":
		return config.LogLevel
	case "JWT_SECRET":
		return config.JWTSecret
	case "JWT_TTL_MINUTES":
		return config.JWTTTLMinutes
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "MEDIA_DIR":
		return config.MediaDir
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	default:
		return ""
	}
}

// GetConfig resolves key from the environment, then the config file, then
// the built-in default.
func GetConfig(key string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	if v := fromFile(key); v != "" {
		return v
	}
	return defaults[key]
}

// GetConfigInt is GetConfig for numeric keys; unparsable values yield fallback.
func GetConfigInt(key string, fallback int) int {
	n, err := strconv.Atoi(GetConfig(key))
	if err != nil {
		return fallback
	}
	return n
}

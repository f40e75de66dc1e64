package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	Port        string
	CorsOrigins string

	DBDriver   string // postgres, mysql or sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBDSN      string // Overrides the composed DSN when set

	JWTKey                 string // HS256 secret for locally issued session tokens
	ClerkJWTKey            string // PEM public key for Clerk session tokens
	ClerkAuthorizedParties []string

	StorageDriver       string // uploadthing or s3
	UploadThingSecret   string
	UploadThingApiURL   string
	UploadThingFileHost string

	S3Region          string
	S3Bucket          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Endpoint        string
	S3PublicURL       string

	FFprobeBin          string
	ProbeTimeoutSeconds int
	MaxUploadMB         int
	MaxBodyKB           int

	FileCleanupCron string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// fileValues holds keys read from CONFIG_FILE; environment variables win over them.
var fileValues map[string]string

// LoadConfig initializes configuration from a YAML file, environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	fileValues = nil
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		values, err := ReadFile(path)
		if err != nil {
			log.Printf("Warning: could not read CONFIG_FILE %s: %v", path, err)
		} else {
			fileValues = values
		}
	}

	AppConfig = &Config{
		Port:        getEnv("PORT", "3000"),
		CorsOrigins: getEnv("CORS_ORIGINS", "*"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "studio"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBDSN:      getEnv("DB_DSN", ""),

		JWTKey:                 getEnv("JWT_SECRET_KEY", "defaultSecret"),
		ClerkJWTKey:            getEnv("CLERK_JWT_KEY", ""),
		ClerkAuthorizedParties: splitList(getEnv("CLERK_AUTHORIZED_PARTIES", "")),

		StorageDriver:       strings.ToLower(getEnv("STORAGE_DRIVER", "uploadthing")),
		UploadThingSecret:   getEnv("UPLOADTHING_SECRET", ""),
		UploadThingApiURL:   getEnv("UPLOADTHING_API_URL", "https://api.uploadthing.com"),
		UploadThingFileHost: getEnv("UPLOADTHING_FILE_HOST", "https://utfs.io"),

		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3PublicURL:       getEnv("S3_PUBLIC_URL", ""),

		FFprobeBin:          getEnv("FFPROBE_BIN", "ffprobe"),
		ProbeTimeoutSeconds: getEnvInt("PROBE_TIMEOUT_SECONDS", 30),
		MaxUploadMB:         getEnvInt("MAX_UPLOAD_MB", 1024),
		MaxBodyKB:           getEnvInt("MAX_BODY_KB", 1024),

		FileCleanupCron: getEnv("FILE_CLEANUP_CRON", "*/15 * * * *"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" && AppConfig.ClerkJWTKey == "" {
		log.Println("Warning: Neither CLERK_JWT_KEY nor JWT_SECRET_KEY is set. Session tokens are verified with the default secret.")
	}
	if AppConfig.StorageDriver == "uploadthing" && AppConfig.UploadThingSecret == "" {
		log.Println("Warning: UPLOADTHING_SECRET is empty. Deleted videos will stay in blob storage.")
	}
}

// ReadFile parses a flat YAML document of KEY: value pairs using the same
// names as the environment variables.
func ReadFile(path string) (map[string]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw := make(map[string]interface{})
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, err
	}
	values := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case nil:
			continue
		case []interface{}:
			parts := make([]string, 0, len(v))
			for _, item := range v {
				parts = append(parts, strings.TrimSpace(toString(item)))
			}
			values[strings.ToUpper(key)] = strings.Join(parts, ",")
		default:
			values[strings.ToUpper(key)] = toString(v)
		}
	}
	return values, nil
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

// getEnv retrieves an environment variable, then a CONFIG_FILE value, or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if value, ok := fileValues[key]; ok && value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := getEnv(key, "")
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

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
